package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/docver"
	"github.com/fwojciec/docver/resolve"
	prom "github.com/prometheus/client_golang/prometheus"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Registry  *prom.Registry
	SourceURI string
	Source    docver.ContentSource
	Resolver  docver.Resolver
	Refresher docver.Refresher

	// WatchRoot is the directory behind a filesystem source, empty otherwise.
	WatchRoot string
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Source    string `short:"s" env:"DOCVER_SOURCE" default:"fs:docs" help:"Content source URI: fs:<dir>, git:<repo> or sqlite:<db>"`
	Latest    string `env:"DOCVER_LATEST" help:"Head flagged as the latest version"`
	GitDir    string `env:"DOCVER_GIT_DIR" help:"Repository subdirectory holding the documentation"`
	GitRemote string `env:"DOCVER_GIT_REMOTE" help:"Serve the branches of this remote and fetch it on refresh"`
	HTML      bool   `env:"DOCVER_HTML" help:"Also serve .html documents, converted to markdown"`
	Unsafe    bool   `env:"DOCVER_UNSAFE_HTML" help:"Pass raw HTML embedded in markdown through"`
	LogLevel  string `env:"DOCVER_LOG_LEVEL" default:"info" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat string `env:"DOCVER_LOG_FORMAT" default:"text" enum:"text,json" help:"Log format"`

	Serve    ServeCmd    `cmd:"" help:"Serve documentation over HTTP"`
	Versions VersionsCmd `cmd:"" help:"List documentation versions"`
	Menu     MenuCmd     `cmd:"" help:"Print the navigation menu of a version"`
	Doc      DocCmd      `cmd:"" help:"Render a document"`
	Import   ImportCmd   `cmd:"" help:"Snapshot the source into a SQLite database"`
	Export   ExportCmd   `cmd:"" help:"Render a version into static files"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr            string        `env:"DOCVER_ADDR" default:":8080" help:"Listen address"`
	VersionTTL      time.Duration `env:"DOCVER_VERSION_TTL" default:"5m" help:"How long the version list is cached"`
	MenuTTL         time.Duration `env:"DOCVER_MENU_TTL" default:"5m" help:"How long menus are cached"`
	FetchTimeout    time.Duration `env:"DOCVER_FETCH_TIMEOUT" default:"30s" help:"Timeout of shared source fetches"`
	Concurrency     int           `short:"c" env:"DOCVER_CONCURRENCY" default:"8" help:"Concurrent document fetches per menu build"`
	Prefilter       bool          `env:"DOCVER_PREFILTER" help:"Reject paths absent from a cached menu without asking the source"`
	RefreshInterval time.Duration `env:"DOCVER_REFRESH_INTERVAL" default:"0s" help:"Refresh caches periodically; 0 disables"`
	RefreshThrottle time.Duration `env:"DOCVER_REFRESH_THROTTLE" default:"10s" help:"Minimum time between POST /refresh calls"`
	Watch           bool          `env:"DOCVER_WATCH" help:"Refresh caches when files of an fs source change"`
	Vary            string        `env:"DOCVER_VARY" default:"Cookie" help:"Vary header of document responses"`
}

// resolverOptions returns the resolver configuration for serving.
func (c *ServeCmd) resolverOptions() []resolve.Option {
	opts := []resolve.Option{
		resolve.WithVersionTTL(c.VersionTTL),
		resolve.WithMenuTTL(c.MenuTTL),
		resolve.WithFetchTimeout(c.FetchTimeout),
		resolve.WithConcurrency(c.Concurrency),
	}
	if c.Prefilter {
		opts = append(opts, resolve.WithPrefilter())
	}
	return opts
}

// VersionsCmd is the "versions" subcommand.
type VersionsCmd struct{}

// MenuCmd is the "menu" subcommand.
type MenuCmd struct {
	Version string `arg:"" optional:"" help:"Version or head; defaults to the latest"`
}

// DocCmd is the "doc" subcommand.
type DocCmd struct {
	Version string `arg:"" help:"Version or head"`
	Path    string `arg:"" optional:"" help:"Document path; defaults to the version root"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	DB string `arg:"" help:"SQLite database to import into"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Version string `arg:"" help:"Version or head"`
	Dir     string `arg:"" help:"Output directory"`
}
