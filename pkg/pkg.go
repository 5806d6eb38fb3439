//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
)

// Version is the semantic version of the exparse module embedded at build
// time. It is printed by the version subcommand.
//
//go:embed VERSION
var Version string

const (
	// Name is the canonical command and module identifier. It appears in help
	// text and default config and cache paths.
	Name = "exparse"
	// Description is a short, human-readable summary used in help output.
	Description = "Concurrent arithmetic expression parser and evaluator"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
