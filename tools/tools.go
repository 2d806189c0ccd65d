//go:build tools
// +build tools

// Package tools pins build tooling in go.mod without linking it into any
// binary. The tag is never satisfied by a real build.
package tools

import (
	_ "github.com/nikolaydubina/go-cover-treemap"
)
