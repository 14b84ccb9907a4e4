package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docver/prometheus"
	"github.com/fwojciec/docver/resolve"
	docslog "github.com/fwojciec/docver/slog"
	"github.com/joho/godotenv"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// EnvFile is loaded into the environment before flags are parsed.
	// A missing file is ignored.
	EnvFile string

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		EnvFile: ".env",
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i].Close())
	}
	m.closers = nil
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if m.EnvFile != "" {
		if err := godotenv.Load(m.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", m.EnvFile, err)
		}
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docver"),
		kong.Description("Serve versioned documentation."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docver --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.LogLevel, cli.LogFormat)
	deps.Registry = prom.NewRegistry()
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	src, err := openSource(cli)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCVER_SOURCE to fs:<dir>, git:<repo> or sqlite:<db>\n")
		return fmt.Errorf("failed to open source %q: %w", cli.Source, err)
	}
	if src.closer != nil {
		m.closers = append(m.closers, src.closer)
	}
	defer m.Close()

	deps.SourceURI = cli.Source
	deps.WatchRoot = src.watchRoot
	deps.Source = prometheus.NewContentSource(
		docslog.NewLoggingContentSource(src.source, deps.Logger),
		deps.Registry,
	)

	var opts []resolve.Option
	if kongCtx.Command() == "serve" {
		opts = cli.Serve.resolverOptions()
	}
	opts = append(opts, resolve.WithLogger(deps.Logger))
	if src.fetch != nil {
		opts = append(opts, resolve.WithRefreshHook(src.fetch))
	}

	resolver := resolve.NewResolver(deps.Source, newRenderer(cli, deps.Logger), opts...)
	deps.Refresher = resolver
	deps.Resolver = docslog.NewLoggingResolver(
		prometheus.NewResolver(resolver, deps.Registry),
		deps.Logger,
	)

	return kongCtx.Run(deps)
}
