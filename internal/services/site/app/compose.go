// Package app composes site modules into the root HTTP handler.
package app

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	module "github.com/lumastack/lumastack.com/internal/services/site/module"
	"github.com/lumastack/lumastack.com/internal/services/site/routepath"
)

// ComposeInput carries the module set and shared composition contracts.
type ComposeInput struct {
	Dependencies module.Dependencies
	Modules      []module.Module
}

// Composer wires module mounts onto a root mux.
type Composer struct{}

// Compose builds a root HTTP handler from the module set. Module muxes
// register full request paths, so mounts are registered without prefix
// stripping. Extensionless prefixes claim the bare path and the subtree
// beneath it; registering both keeps /blog reachable without the mux's
// implicit redirect to /blog/.
func (Composer) Compose(input ComposeInput) (http.Handler, error) {
	root := http.NewServeMux()
	seen := make(map[string]string)

	for _, feature := range input.Modules {
		if feature == nil {
			return nil, fmt.Errorf("module is nil")
		}
		if err := mountModule(root, feature, input.Dependencies, seen); err != nil {
			return nil, err
		}
	}

	return root, nil
}

func mountModule(root *http.ServeMux, feature module.Module, deps module.Dependencies, seen map[string]string) error {
	mount, prefix, err := resolveMount(feature, deps)
	if err != nil {
		return err
	}
	for _, pattern := range prefixPatterns(prefix) {
		if err := registerMount(root, feature, mount.Handler, pattern, seen); err != nil {
			return err
		}
	}
	return nil
}

func registerMount(root *http.ServeMux, feature module.Module, handler http.Handler, pattern string, seen map[string]string) error {
	if root == nil || feature == nil {
		return nil
	}
	if previous, ok := seen[pattern]; ok {
		return fmt.Errorf("module %q duplicates prefix %q owned by module %q", feature.ID(), pattern, previous)
	}
	seen[pattern] = feature.ID()
	root.Handle(pattern, handler)
	return nil
}

func resolveMount(feature module.Module, deps module.Dependencies) (module.Mount, string, error) {
	if feature == nil {
		return module.Mount{}, "", fmt.Errorf("module is nil")
	}
	mount, err := feature.Mount(deps)
	if err != nil {
		return module.Mount{}, "", fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	if err := validatePrefix(mount.Prefix); err != nil {
		return module.Mount{}, "", fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	if mount.Handler == nil {
		return module.Mount{}, "", fmt.Errorf("mount module %q: handler is required", feature.ID())
	}
	return mount, mount.Prefix, nil
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("prefix is required")
	}
	if strings.TrimSpace(prefix) != prefix {
		return fmt.Errorf("prefix %q must not include surrounding whitespace", prefix)
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("prefix %q must begin with /", prefix)
	}
	if prefix != routepath.Root && strings.HasSuffix(prefix, "/") {
		return fmt.Errorf("prefix %q must not end with /", prefix)
	}
	return nil
}

// prefixPatterns expands a mount prefix into root mux patterns. The root
// prefix stays the catch-all and file-style prefixes stay exact.
func prefixPatterns(prefix string) []string {
	if prefix == routepath.Root {
		return []string{routepath.Root}
	}
	if path.Ext(prefix) != "" {
		return []string{prefix}
	}
	return []string{prefix, prefix + "/"}
}
