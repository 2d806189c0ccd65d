// Package personalization resolves the audience and region a request should
// see and looks up the matching CMS segment content.
package personalization

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/lumastack/lumastack.com/internal/content"
	"github.com/lumastack/lumastack.com/internal/services/site/module"
)

const (
	// AudienceParam is the query parameter used to select an audience.
	AudienceParam = "audience"
	// RegionParam is the query parameter used to select a region.
	RegionParam = "region"
	// AudienceCookie stores the visitor's audience preference.
	AudienceCookie = "luma_aud"
	// RegionCookie stores the visitor's region preference.
	RegionCookie = "luma_reg"

	// SegmentsListRef is the CMS list holding audience segment items.
	SegmentsListRef = "audiencesegments"

	preferenceMaxAge = int((90 * 24 * time.Hour) / time.Second)
	slugMaxLen       = 64
)

// Resolve determines the audience and region for the request. Explicit query
// parameters win and are persisted as preference cookies; otherwise stored
// preferences apply, then the Accept-Language region, then none.
func Resolve(w http.ResponseWriter, r *http.Request) module.Personalization {
	if r == nil {
		return module.Personalization{}
	}

	audience, persistAudience := resolveValue(r, AudienceParam, AudienceCookie)
	region, persistRegion := resolveValue(r, RegionParam, RegionCookie)
	if region == "" {
		region = regionFromAcceptLanguage(r.Header.Get("Accept-Language"))
	}

	if persistAudience {
		setPreferenceCookie(w, AudienceCookie, audience)
	}
	if persistRegion {
		setPreferenceCookie(w, RegionCookie, region)
	}

	return module.Personalization{Audience: audience, Region: region}
}

// resolveValue reads a preference from the query first, then the cookie.
// The bool reports whether the value came from the query and should persist.
func resolveValue(r *http.Request, param, cookieName string) (string, bool) {
	if value := normalizeSlug(r.URL.Query().Get(param)); value != "" {
		return value, true
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		if value := normalizeSlug(cookie.Value); value != "" {
			return value, false
		}
	}
	return "", false
}

// regionFromAcceptLanguage extracts an explicit region from the header's
// preferred tag. Inferred regions (a bare "fr" implying FR) are ignored.
func regionFromAcceptLanguage(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	region, confidence := tags[0].Region()
	if confidence <= language.Low || !region.IsCountry() {
		return ""
	}
	return strings.ToLower(region.String())
}

func setPreferenceCookie(w http.ResponseWriter, name, value string) {
	if w == nil || value == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   preferenceMaxAge,
		SameSite: http.SameSiteLaxMode,
	})
}

// normalizeSlug lowercases and validates a segment slug. Anything outside
// lowercase letters, digits, and hyphens resolves to empty.
func normalizeSlug(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" || len(value) > slugMaxLen {
		return ""
	}
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return ""
		}
	}
	return value
}

// Segment is an audience segment defined in the CMS.
type Segment struct {
	Slug     string `json:"slug"`
	Headline string `json:"headline"`
	Message  string `json:"message"`
}

// Segments looks up CMS audience segments by slug.
type Segments struct {
	source content.Source
	logger *log.Logger
}

// NewSegments returns a segment lookup backed by source.
func NewSegments(source content.Source, logger *log.Logger) *Segments {
	if logger == nil {
		logger = log.Default()
	}
	return &Segments{source: source, logger: logger}
}

// Lookup returns the segment for slug, or false when no segment matches.
// Lookup failures degrade to no segment; a missing segment never breaks a
// page render.
func (s *Segments) Lookup(ctx context.Context, locale, slug string) (Segment, bool) {
	if s == nil || s.source == nil {
		return Segment{}, false
	}
	slug = normalizeSlug(slug)
	if slug == "" {
		return Segment{}, false
	}
	list, err := s.source.GetList(ctx, locale, SegmentsListRef, content.Query{})
	if err != nil {
		s.logger.Printf("segment lookup failed locale=%s slug=%s err=%v", locale, slug, err)
		return Segment{}, false
	}
	for _, item := range list.Items {
		var segment Segment
		if err := content.DecodeFields(item, &segment); err != nil {
			s.logger.Printf("segment decode failed item=%s err=%v", item.ID, err)
			continue
		}
		if normalizeSlug(segment.Slug) == slug {
			segment.Slug = slug
			return segment, true
		}
	}
	return Segment{}, false
}
