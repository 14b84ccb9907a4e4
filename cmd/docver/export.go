package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/docver"
	"github.com/fwojciec/docver/fs"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	dir := filepath.Clean(c.Dir)
	store := fs.NewFileStore(filepath.Dir(dir), filepath.Base(dir))

	n, err := fs.Export(deps.Ctx, deps.Resolver, c.Version, store)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docver.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d documents to %s\n", n, dir)
	return nil
}
