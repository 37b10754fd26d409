package main

import (
	"fmt"

	"github.com/fwojciec/digest"
)

// Run executes the links command.
func (c *LinksCmd) Run(deps *Dependencies) error {
	filter, err := linkFilter(c.Type, c.Newsletter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", digest.ErrorMessage(err))
		return err
	}
	filter.Limit = c.Limit

	links, err := deps.Links.FindLinks(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", digest.ErrorMessage(err))
		return err
	}

	if len(links) == 0 {
		fmt.Fprintln(deps.Stdout, "No links found. Use 'digest ingest' to add some.")
		return nil
	}

	if c.Full {
		fmt.Fprintln(deps.Stdout, digest.FormatLinks(links))
		return nil
	}
	for _, l := range links {
		title := l.Title
		if title == "" {
			title = "-"
		}
		fmt.Fprintf(deps.Stdout, "%-10s  %-20s  %s  %s\n", l.Type, l.Newsletter, title, l.URL)
	}
	return nil
}

// linkFilter builds a LinkFilter from optional type and newsletter flags.
func linkFilter(typ, newsletter string) (digest.LinkFilter, error) {
	var filter digest.LinkFilter
	if typ != "" {
		t, err := digest.ParseLinkType(typ)
		if err != nil {
			return filter, err
		}
		filter.Type = &t
	}
	if newsletter != "" {
		filter.Newsletter = &newsletter
	}
	return filter, nil
}
