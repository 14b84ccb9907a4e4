package main

import (
	"fmt"

	"github.com/fwojciec/docver"
	"github.com/fwojciec/docver/fs"
	"github.com/fwojciec/docver/gocron"
	dochttp "github.com/fwojciec/docver/http"
	"github.com/fwojciec/docver/prometheus"
	"golang.org/x/sync/errgroup"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	if c.Watch && deps.WatchRoot == "" {
		fmt.Fprintln(deps.Stderr, "error: --watch requires an fs: source")
		return docver.Errorf(docver.EINVALID, "--watch requires an fs: source")
	}

	server := dochttp.NewServer(deps.Resolver,
		dochttp.WithRefresher(deps.Refresher, c.RefreshThrottle),
		dochttp.WithMetrics(prometheus.Handler(deps.Registry)),
		dochttp.WithVary(c.Vary),
		dochttp.WithLogger(deps.Logger),
	)

	if c.RefreshInterval > 0 {
		sched, err := gocron.NewScheduler(deps.Refresher, c.RefreshInterval, gocron.WithLogger(deps.Logger))
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docver.ErrorMessage(err))
			return err
		}
		sched.Start()
		defer func() { _ = sched.Shutdown() }()
	}

	g, ctx := errgroup.WithContext(deps.Ctx)
	if c.Watch {
		w := fs.NewWatcher(deps.WatchRoot, deps.Refresher, deps.Logger)
		g.Go(func() error { return w.Run(ctx) })
	}
	g.Go(func() error { return server.ListenAndServe(ctx, c.Addr) })

	if err := g.Wait(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docver.ErrorMessage(err))
		return err
	}
	return nil
}
