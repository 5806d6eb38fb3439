package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/ardnew/exparse/pkg"
)

// Version prints the program name and version.
type Version struct{}

// Run executes the version command.
func (*Version) Run(ctx context.Context) error {
	_, err := fmt.Fprintln(stdout(ctx), pkg.Name, strings.TrimSpace(pkg.Version))

	return err
}
