// Package http serves resolved documentation and menus over HTTP.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/docver"
	"golang.org/x/time/rate"
)

// Defaults for a Server.
const (
	DefaultDocsPrefix      = "/docs"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultRefreshInterval = 10 * time.Second
)

// Server exposes a docver.Resolver as a JSON API.
type Server struct {
	resolver  docver.Resolver
	refresher docver.Refresher
	metrics   http.Handler
	limiter   *rate.Limiter
	vary      string
	prefix    string
	logger    *slog.Logger
	mux       *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithRefresher enables POST /refresh. At most one refresh per interval is
// accepted; zero disables throttling.
func WithRefresher(r docver.Refresher, interval time.Duration) Option {
	return func(s *Server) {
		s.refresher = r
		if interval > 0 {
			s.limiter = rate.NewLimiter(rate.Every(interval), 1)
		}
	}
}

// WithMetrics serves h at GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithVary sets the Vary header of document responses. An empty value omits
// the header.
func WithVary(vary string) Option {
	return func(s *Server) {
		s.vary = vary
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server over r.
func NewServer(r docver.Resolver, opts ...Option) *Server {
	s := &Server{
		resolver: r,
		vary:     docver.VaryCookie,
		prefix:   DefaultDocsPrefix,
		logger:   slog.New(slog.DiscardHandler),
		mux:      http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mux.HandleFunc("GET /docs", s.handleDoc)
	s.mux.HandleFunc("GET /docs/{version}", s.handleDoc)
	s.mux.HandleFunc("GET /docs/{version}/{path...}", s.handleDoc)
	s.mux.HandleFunc("GET /menu", s.handleMenu)
	s.mux.HandleFunc("GET /menu/{version}", s.handleMenu)
	s.mux.HandleFunc("GET /versions", s.handleVersions)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.refresher != nil {
		s.mux.HandleFunc("POST /refresh", s.handleRefresh)
	}
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics)
	}
	return s
}

// ServeHTTP routes the request and logs it.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	begin := time.Now()
	s.mux.ServeHTTP(rec, r)
	s.logger.Debug("request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration", time.Since(begin),
	)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return docver.Errorf(docver.EUNAVAILABLE, "listen %s: %v", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type docResponse struct {
	Doc         *docver.Doc        `json:"doc"`
	Version     docver.VersionHead `json:"version"`
	Known       bool               `json:"known"`
	Breadcrumbs []docver.Crumb     `json:"breadcrumbs"`
}

type menuResponse struct {
	Menu     *docver.MenuDir      `json:"menu"`
	Version  docver.VersionHead   `json:"version"`
	Versions []docver.VersionHead `json:"versions"`
	Known    bool                 `json:"known"`
}

type notFoundResponse struct {
	NotFound bool `json:"notFound"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleDoc(w http.ResponseWriter, r *http.Request) {
	res := s.resolver.ResolveDoc(r.Context(), r.PathValue("version"), r.PathValue("path"))

	if s.vary != "" {
		w.Header().Set("Vary", s.vary)
	}
	w.Header().Set("Cache-Control", res.CacheControl)
	if res.Status != docver.StatusFound {
		writeJSON(w, http.StatusNotFound, notFoundResponse{NotFound: true})
		return
	}

	if res.Doc.Fingerprint != "" {
		etag := `"` + res.Doc.Fingerprint + `"`
		w.Header().Set("ETag", etag)
		if etagMatch(r.Header.Get("If-None-Match"), etag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	writeJSON(w, http.StatusOK, docResponse{
		Doc:         res.Doc,
		Version:     res.Version,
		Known:       res.Known,
		Breadcrumbs: docver.Breadcrumbs(s.prefix, res.Version, res.Doc.Path, res.Doc.Attrs.Title),
	})
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	res := s.resolver.ResolveMenu(r.Context(), r.PathValue("version"))

	w.Header().Set("Cache-Control", res.CacheControl)
	if res.Status != docver.StatusFound {
		writeJSON(w, http.StatusNotFound, notFoundResponse{NotFound: true})
		return
	}
	writeJSON(w, http.StatusOK, menuResponse{
		Menu:     res.Menu,
		Version:  res.Version,
		Versions: res.Versions,
		Known:    res.Known,
	})
}

func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := s.resolver.Versions(r.Context())
	if err != nil {
		s.logger.Error("list versions", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: docver.ErrorMessage(err)})
		return
	}
	if versions == nil {
		versions = []docver.VersionHead{}
	}
	w.Header().Set("Cache-Control", docver.CacheControlShort)
	writeJSON(w, http.StatusOK, versions)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.limiter != nil && !s.limiter.Allow() {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "refresh throttled"})
		return
	}
	if err := s.refresher.Refresh(r.Context()); err != nil {
		s.logger.Error("refresh", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: docver.ErrorMessage(err)})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// etagMatch implements the weak comparison of If-None-Match.
func etagMatch(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
