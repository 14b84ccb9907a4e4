package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

func newLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	_ = lvl.UnmarshalText([]byte(level))

	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// palette colors command output when it goes to a terminal.
type palette struct {
	head  *color.Color
	dir   *color.Color
	faint *color.Color
}

func newPalette(w io.Writer) *palette {
	p := &palette{
		head:  color.New(color.FgGreen, color.Bold),
		dir:   color.New(color.FgCyan),
		faint: color.New(color.Faint),
	}
	if !isTerminal(w) {
		p.head.DisableColor()
		p.dir.DisableColor()
		p.faint.DisableColor()
	} else {
		p.head.EnableColor()
		p.dir.EnableColor()
		p.faint.EnableColor()
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
