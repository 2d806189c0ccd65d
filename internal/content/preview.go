package content

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	platformerrors "github.com/lumastack/lumastack.com/internal/platform/errors"
)

// PreviewIssuer identifies preview grants minted for this site.
const PreviewIssuer = "lumastack-content"

const defaultPreviewTTL = time.Hour

// PreviewConfig defines how preview grants are minted and verified. The
// secret is shared with the CMS so editor tooling can mint links too.
type PreviewConfig struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

// PreviewClaims captures validated preview grant claims.
type PreviewClaims struct {
	Issuer    string
	ExpiresAt time.Time
	IssuedAt  time.Time
	Path      string
}

// previewClaims is the internal claims type used for JWT parsing.
type previewClaims struct {
	jwt.RegisteredClaims
	Mode string `json:"mode"`
	Path string `json:"path,omitempty"`
}

// MintPreviewToken issues a signed preview grant, optionally scoped to a
// single path. Empty path grants preview across the whole site.
func MintPreviewToken(cfg PreviewConfig, path string) (string, error) {
	if len(cfg.Secret) == 0 {
		return "", platformerrors.New(platformerrors.CodePreviewKeyMissing, "preview secret is not configured")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultPreviewTTL
	}
	issued := now().UTC()

	claims := previewClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    PreviewIssuer,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
		},
		Mode: string(ModePreview),
		Path: strings.TrimSpace(path),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign preview token: %w", err)
	}
	return token, nil
}

// VerifyPreviewToken verifies a preview grant and returns its claims.
func VerifyPreviewToken(cfg PreviewConfig, token string) (PreviewClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return PreviewClaims{}, platformerrors.New(platformerrors.CodePreviewTokenMissing, "preview token is required")
	}
	if len(cfg.Secret) == 0 {
		return PreviewClaims{}, platformerrors.New(platformerrors.CodePreviewKeyMissing, "preview secret is not configured")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	var parsed previewClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(token *jwt.Token) (any, error) {
		return cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return PreviewClaims{}, mapPreviewJWTError(err)
	}

	if parsed.Issuer != PreviewIssuer {
		return PreviewClaims{}, platformerrors.New(platformerrors.CodePreviewTokenInvalid, "preview token issuer mismatch")
	}
	if parsed.Mode != string(ModePreview) {
		return PreviewClaims{}, platformerrors.New(platformerrors.CodePreviewTokenInvalid, "preview token mode mismatch")
	}
	if parsed.ExpiresAt == nil {
		return PreviewClaims{}, platformerrors.New(platformerrors.CodePreviewTokenInvalid, "preview token exp is required")
	}

	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(now().UTC()) {
		return PreviewClaims{}, platformerrors.New(platformerrors.CodePreviewTokenExpired, "preview token is expired")
	}

	claims := PreviewClaims{
		Issuer:    parsed.Issuer,
		ExpiresAt: exp,
		Path:      parsed.Path,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}

// mapPreviewJWTError translates jwt library errors to application errors.
func mapPreviewJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		return platformerrors.New(platformerrors.CodePreviewTokenInvalid, "preview token signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return platformerrors.New(platformerrors.CodePreviewTokenInvalid, "preview token alg is invalid")
	}
	return platformerrors.New(platformerrors.CodePreviewTokenInvalid, "preview token is invalid")
}
