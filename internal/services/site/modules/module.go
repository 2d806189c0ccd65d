// Package modules defines the site module registry.
package modules

import (
	module "github.com/lumastack/lumastack.com/internal/services/site/module"
)

// Mount aliases the module mount contract.
type Mount = module.Mount

// Module aliases the module interface contract.
type Module = module.Module

// Dependencies aliases the shared module dependency set. Every module
// receives the full set at mount time and reads only the narrow interfaces
// it was given, per request, so a zero value always mounts.
type Dependencies = module.Dependencies
