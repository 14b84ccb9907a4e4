package main

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/fwojciec/docver"
	"github.com/fwojciec/docver/fs"
	"github.com/fwojciec/docver/git"
	"github.com/fwojciec/docver/goldmark"
	"github.com/fwojciec/docver/goquery"
	"github.com/fwojciec/docver/htmltomarkdown"
	docslog "github.com/fwojciec/docver/slog"
	"github.com/fwojciec/docver/sqlite"
)

// openedSource is a content source together with what its kind offers.
type openedSource struct {
	source    docver.ContentSource
	fetch     func(ctx context.Context) error
	watchRoot string
	closer    io.Closer
}

// parseSourceURI splits a source URI into its scheme and location.
// A value without a known scheme is a filesystem directory.
func parseSourceURI(uri string) (scheme, location string) {
	scheme, location, ok := strings.Cut(uri, ":")
	switch {
	case ok && (scheme == "fs" || scheme == "git" || scheme == "sqlite"):
		return scheme, location
	default:
		return "fs", uri
	}
}

func openSource(cli *CLI) (*openedSource, error) {
	scheme, location := parseSourceURI(cli.Source)
	if location == "" {
		return nil, docver.Errorf(docver.EINVALID, "source location required")
	}

	var conv docver.Converter
	if cli.HTML {
		conv = htmltomarkdown.NewConverter()
	}

	switch scheme {
	case "git":
		var opts []git.Option
		if cli.Latest != "" {
			opts = append(opts, git.WithLatest(cli.Latest))
		}
		if cli.GitDir != "" {
			opts = append(opts, git.WithDir(cli.GitDir))
		}
		if cli.GitRemote != "" {
			opts = append(opts, git.WithRemote(cli.GitRemote))
		}
		if conv != nil {
			opts = append(opts, git.WithConverter(conv))
		}
		src, err := git.Open(location, opts...)
		if err != nil {
			return nil, err
		}
		return &openedSource{source: src, fetch: src.Fetch}, nil

	case "sqlite":
		db := sqlite.NewDB(location)
		if err := db.Open(); err != nil {
			return nil, err
		}
		return &openedSource{source: sqlite.NewContentSource(db), closer: db}, nil

	default:
		var opts []fs.Option
		if cli.Latest != "" {
			opts = append(opts, fs.WithLatest(cli.Latest))
		}
		if conv != nil {
			opts = append(opts, fs.WithConverter(conv))
		}
		return &openedSource{source: fs.NewContentSource(location, opts...), watchRoot: location}, nil
	}
}

func newRenderer(cli *CLI, logger *slog.Logger) docver.Renderer {
	var opts []goldmark.Option
	if cli.Unsafe {
		opts = append(opts, goldmark.WithUnsafe())
	}
	return docslog.NewLoggingRenderer(goquery.NewLinkRenderer(goldmark.NewRenderer(opts...)), logger)
}
