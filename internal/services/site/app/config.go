package app

import module "github.com/lumastack/lumastack.com/internal/services/site/module"

// Config captures the composition inputs for the site root handler.
type Config struct {
	Dependencies module.Dependencies
	Modules      []module.Module
}
