package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/docver"
)

// Run executes the menu command.
func (c *MenuCmd) Run(deps *Dependencies) error {
	res := deps.Resolver.ResolveMenu(deps.Ctx, c.Version)
	if res.Status != docver.StatusFound {
		fmt.Fprintf(deps.Stderr, "error: no menu for version %q. Use 'docver versions' to see available versions.\n", c.Version)
		return docver.Errorf(docver.ENOTFOUND, "menu for version %q not found", c.Version)
	}

	p := newPalette(deps.Stdout)
	fmt.Fprintf(deps.Stdout, "%s\n", p.head.Sprint(res.Version.Head))
	_ = res.Menu.Walk(func(dir *docver.MenuDir) error {
		depth := 1
		if dir.Path != "" {
			depth = strings.Count(dir.Path, "/") + 2
			indent := strings.Repeat("  ", depth-1)
			fmt.Fprintf(deps.Stdout, "%s%s/  %s\n", indent, p.dir.Sprint(dir.Title), p.faint.Sprint(dir.Path))
		}
		indent := strings.Repeat("  ", depth)
		for _, f := range dir.Files {
			title := f.Title
			if f.Attributes.Disabled {
				title += " (disabled)"
			}
			fmt.Fprintf(deps.Stdout, "%s%s  %s\n", indent, title, p.faint.Sprint(f.Path))
		}
		return nil
	})
	return nil
}
