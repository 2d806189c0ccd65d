package preview

import (
	"context"
	"log"
	"strings"

	"github.com/lumastack/lumastack.com/internal/content"
	"github.com/lumastack/lumastack.com/internal/services/site/module"
	"github.com/lumastack/lumastack.com/internal/services/site/platform/pagerender"
	"github.com/lumastack/lumastack.com/internal/services/site/routepath"
	"github.com/lumastack/lumastack.com/internal/services/site/templates"
)

type service struct {
	deps   module.Dependencies
	logger *log.Logger
}

func newService(deps module.Dependencies) service {
	return service{deps: deps, logger: log.Default()}
}

// authorize validates a preview grant and picks the post-entry redirect:
// the requested target first, then the path the grant is scoped to.
func (s service) authorize(token, redirect string) (string, error) {
	claims, err := content.VerifyPreviewToken(content.PreviewConfig{Secret: s.deps.PreviewSecret}, token)
	if err != nil {
		return "", err
	}
	return safeRedirect(redirect, claims.Path), nil
}

// nav resolves navigation links for error chrome.
func (s service) nav(ctx context.Context, locale, currentPath string) []templates.NavLink {
	return pagerender.NavFor(ctx, s.deps.Content, locale, currentPath)
}

// safeRedirect returns the first candidate that is a local absolute path.
// Absolute URLs and protocol-relative paths are rejected so preview links
// cannot bounce visitors off-site.
func safeRedirect(candidates ...string) string {
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if !strings.HasPrefix(candidate, "/") {
			continue
		}
		if strings.HasPrefix(candidate, "//") || strings.HasPrefix(candidate, "/\\") {
			continue
		}
		return candidate
	}
	return routepath.Root
}
