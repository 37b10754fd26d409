package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/digest"
)

// parseOutput is printed by "parse --validate".
type parseOutput struct {
	Result     *digest.ParsedContent   `json:"result"`
	Validation digest.ValidationReport `json:"validation"`
}

// Run executes the parse command. A single source prints one JSON object;
// several sources print an array in argument order.
func (c *ParseCmd) Run(deps *Dependencies) error {
	docs := make([]digest.RawDocument, 0, len(c.Sources))
	for _, source := range c.Sources {
		doc, err := c.read(deps, source)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", digest.ErrorMessage(err))
			return err
		}
		docs = append(docs, doc)
	}

	results := deps.Parser.ParseAll(docs)

	outs := make([]any, len(results))
	var failed []string
	for i, result := range results {
		outs[i] = result
		if c.Validate {
			outs[i] = parseOutput{Result: result, Validation: digest.ValidateContent(result)}
		}
		if !result.Success {
			failed = append(failed, fmt.Sprintf("%s: %s", c.Sources[i], result.Error))
		}
	}

	var out any = outs
	if len(outs) == 1 {
		out = outs[0]
	}
	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	if len(failed) > 0 {
		return fmt.Errorf("parse failed: %s", strings.Join(failed, "; "))
	}
	return nil
}

// read loads the HTML from a URL or a file. For files the --url flag
// supplies the source URL.
func (c *ParseCmd) read(deps *Dependencies, source string) (digest.RawDocument, error) {
	if isURL(source) {
		html, err := deps.Fetcher.Fetch(deps.Ctx, source)
		return digest.RawDocument{HTML: html, SourceURL: source}, err
	}
	data, err := os.ReadFile(source)
	if err != nil {
		if os.IsNotExist(err) {
			return digest.RawDocument{}, digest.Errorf(digest.ENOTFOUND, "file %s not found", source)
		}
		return digest.RawDocument{}, err
	}
	return digest.RawDocument{HTML: string(data), SourceURL: c.URL}, nil
}

// firstURL returns the first http(s) source, or "".
func firstURL(sources []string) string {
	for _, s := range sources {
		if isURL(s) {
			return s
		}
	}
	return ""
}

func isURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
