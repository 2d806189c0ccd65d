// Package main writes the demo site content fixtures used by local
// development and tests. Point the web service at the output directory with
// LUMASTACK_CONTENT_FIXTURES_DIR to serve them.
package main

import (
	"flag"
	"fmt"

	"github.com/lumastack/lumastack.com/internal/platform/config"
	"github.com/lumastack/lumastack.com/internal/seed"
)

func main() {
	var cfg seed.Config
	flag.StringVar(&cfg.Dir, "dir", "data/fixtures", "fixture output directory")
	flag.StringVar(&cfg.Locale, "locale", "en-US", "locale subtree to write")
	flag.Parse()

	if err := seed.Generate(cfg); err != nil {
		config.Exitf("generate fixtures: %v", err)
	}
	fmt.Printf("wrote %s fixtures under %s\n", cfg.Locale, cfg.Dir)
}
