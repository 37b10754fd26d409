package main

import (
	"fmt"

	"github.com/fwojciec/digest"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	filter, err := linkFilter(c.Type, c.Newsletter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", digest.ErrorMessage(err))
		return err
	}

	links, err := deps.Links.FindLinks(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", digest.ErrorMessage(err))
		return err
	}

	exporter := deps.Exporter(c.Dir, c.Name)
	for _, l := range links {
		if err := exporter.Save(deps.Ctx, l); err != nil {
			_ = exporter.Abort()
			fmt.Fprintf(deps.Stderr, "error: export %s: %s\n", l.URL, digest.ErrorMessage(err))
			return err
		}
	}
	if err := exporter.Commit(); err != nil {
		_ = exporter.Abort()
		return fmt.Errorf("commit export: %w", err)
	}

	fmt.Fprintf(deps.Stdout, "Exported %d links to %s/%s\n", len(links), c.Dir, c.Name)
	return nil
}
