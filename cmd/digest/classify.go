package main

import (
	"fmt"
)

// Run executes the classify command.
func (c *ClassifyCmd) Run(deps *Dependencies) error {
	classifier := deps.Classifier
	if classifier == nil {
		classifier = classifierFor(c.Extended)
	}
	for _, u := range c.URLs {
		fmt.Fprintf(deps.Stdout, "%s\t%s\n", classifier.Classify(u), u)
	}
	return nil
}
