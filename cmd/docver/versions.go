package main

import (
	"fmt"

	"github.com/fwojciec/docver"
)

// Run executes the versions command.
func (c *VersionsCmd) Run(deps *Dependencies) error {
	versions, err := deps.Resolver.Versions(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docver.ErrorMessage(err))
		return err
	}

	if len(versions) == 0 {
		fmt.Fprintf(deps.Stdout, "No versions found in %s.\n", deps.SourceURI)
		return nil
	}

	p := newPalette(deps.Stdout)
	latest, _ := docver.LatestVersion(versions)
	for _, v := range versions {
		marker := " "
		if v == latest {
			marker = p.head.Sprint("*")
		}
		if v.Version == v.Head {
			fmt.Fprintf(deps.Stdout, "%s %s\n", marker, v.Head)
			continue
		}
		fmt.Fprintf(deps.Stdout, "%s %s  %s\n", marker, v.Head, p.faint.Sprint(v.Version))
	}
	return nil
}
