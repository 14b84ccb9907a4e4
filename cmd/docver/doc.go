package main

import (
	"fmt"

	"github.com/fwojciec/docver"
)

// Run executes the doc command.
func (c *DocCmd) Run(deps *Dependencies) error {
	res := deps.Resolver.ResolveDoc(deps.Ctx, c.Version, c.Path)
	if res.Status != docver.StatusFound {
		fmt.Fprintf(deps.Stderr, "error: document %q not found in version %q\n", docver.Canonicalize(c.Path), c.Version)
		return docver.Errorf(docver.ENOTFOUND, "document %q not found", docver.Canonicalize(c.Path))
	}

	if !res.Known {
		fmt.Fprintf(deps.Stderr, "warning: %q is not a listed version\n", c.Version)
	}
	fmt.Fprintln(deps.Stdout, res.Doc.HTML)
	return nil
}
