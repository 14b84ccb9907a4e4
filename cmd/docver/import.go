package main

import (
	"fmt"

	"github.com/fwojciec/docver"
	"github.com/fwojciec/docver/sqlite"
)

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	db := sqlite.NewDB(c.DB)
	if err := db.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docver.ErrorMessage(err))
		return err
	}
	defer db.Close()

	snap, err := sqlite.NewSnapshotService(db).Import(deps.Ctx, deps.Source, deps.SourceURI)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docver.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Imported %s into %s: %d versions, %d documents (snapshot %s)\n",
		deps.SourceURI, c.DB, snap.Versions, snap.Documents, snap.ID)
	return nil
}
