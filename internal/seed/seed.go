// Package seed writes the demo marketing site fixtures served by
// content.FileSource in local development and tests.
//
// Output is deterministic: the same config always produces byte-identical
// files, so fixture diffs in review show real content changes only.
package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lumastack/lumastack.com/internal/content"
)

const defaultLocale = "en-US"

// fixtureClock stamps every generated record. Fixed so runs reproduce.
var fixtureClock = time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC)

// Config controls fixture generation.
type Config struct {
	// Dir is the fixture directory to write into.
	Dir string
	// Locale names the locale subtree. Defaults to en-US.
	Locale string
}

// Generate writes the complete demo site under cfg.Dir: the sitemap, one
// file per page and item, and the content lists. Existing files with the
// same names are overwritten.
func Generate(cfg Config) error {
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		return errors.New("fixture directory is required")
	}
	locale := strings.TrimSpace(cfg.Locale)
	if locale == "" {
		locale = defaultLocale
	}
	root := filepath.Join(dir, locale)

	if err := writeJSON(filepath.Join(root, "sitemap.json"), demoSitemap()); err != nil {
		return err
	}
	for _, page := range demoPages() {
		if err := writeJSON(filepath.Join(root, "pages", page.ID+".json"), page); err != nil {
			return err
		}
	}
	for _, spec := range demoItems() {
		item, err := buildItem(locale, spec)
		if err != nil {
			return err
		}
		if err := writeJSON(filepath.Join(root, "items", item.ID+".json"), item); err != nil {
			return err
		}
	}
	for ref, specs := range demoLists() {
		list, err := buildList(locale, specs)
		if err != nil {
			return err
		}
		if err := writeJSON(filepath.Join(root, "lists", ref+".json"), list); err != nil {
			return err
		}
	}
	return nil
}

// itemSpec pairs an item identity with its typed fields before marshalling.
type itemSpec struct {
	ID     string
	Ref    string
	Fields any
}

func buildItem(locale string, spec itemSpec) (content.Item, error) {
	raw, err := json.Marshal(spec.Fields)
	if err != nil {
		return content.Item{}, fmt.Errorf("marshal fields for %s: %w", spec.ID, err)
	}
	return content.Item{
		ID:        spec.ID,
		Ref:       spec.Ref,
		Locale:    locale,
		UpdatedAt: fixtureClock,
		Fields:    raw,
	}, nil
}

func buildList(locale string, specs []itemSpec) (content.List, error) {
	items := make([]content.Item, 0, len(specs))
	for _, spec := range specs {
		item, err := buildItem(locale, spec)
		if err != nil {
			return content.List{}, err
		}
		items = append(items, item)
	}
	return content.List{Items: items, TotalCount: len(items)}, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create fixture dir for %s: %w", path, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}
