// Package server serves viewer pages for configured attachments over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/alnah/go-mdview"
)

// Defaults for Config fields left zero.
const (
	DefaultRequestTimeout = 60 * time.Second
	DefaultShutdownGrace  = 5 * time.Second
)

// ErrNoAttachments indicates a page was requested from a server without attachments.
var ErrNoAttachments = errors.New("no attachments configured")

// Renderer renders attachments and writes viewer pages.
// *mdview.Viewer implements it.
type Renderer interface {
	Render(ctx context.Context, a mdview.Attachment) *mdview.Document
	WritePage(w io.Writer, doc *mdview.Document, initial mdview.View) error
}

var _ Renderer = (*mdview.Viewer)(nil)

// Config holds server configuration.
type Config struct {
	Addr           string
	Attachments    []mdview.Attachment
	View           mdview.View   // Pane shown when the request has no view parameter
	AllowedOrigins []string      // CORS origins allowed to read /raw
	RequestTimeout time.Duration // Zero selects DefaultRequestTimeout
	Logger         *slog.Logger
}

// Server routes requests to the viewer.
type Server struct {
	cfg        Config
	renderer   Renderer
	names      []string
	byName     map[string]mdview.Attachment
	logger     *slog.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server for the configured attachments. Attachments without a
// name are reachable by their 1-based position. The first of two attachments
// sharing a name wins.
func New(cfg Config, renderer Renderer) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:      cfg,
		renderer: renderer,
		byName:   make(map[string]mdview.Attachment, len(cfg.Attachments)),
		logger:   logger,
	}
	for i, a := range cfg.Attachments {
		key := a.Name
		if key == "" {
			key = strconv.Itoa(i + 1)
		}
		if _, dup := s.byName[key]; dup {
			continue
		}
		s.byName[key] = a
		s.names = append(s.names, key)
	}

	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/attachments", s.handleList)
	r.Get("/", s.handleFirst)
	r.Get("/a/{name}", s.handlePage)

	r.Group(func(r chi.Router) {
		if len(s.cfg.AllowedOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: s.cfg.AllowedOrigins,
				AllowedMethods: []string{http.MethodGet, http.MethodOptions},
				AllowedHeaders: []string{"Accept"},
				MaxAge:         300,
			}))
		}
		r.Get("/raw/{name}", s.handleRaw)
		// Preflight requests need a route for the group middleware to run.
		r.Options("/raw/{name}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	return r
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler { return s.router }

// Names returns the attachment names in configuration order.
func (s *Server) Names() []string {
	return append([]string(nil), s.names...)
}

// Start begins listening on the configured address.
// Blocks until the server stops; returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown is called. After
// Shutdown it returns http.ErrServerClosed at once, even if it had not
// started yet.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("viewer listening", "addr", ln.Addr().String(), "attachments", len(s.names))
	return s.httpServer.Serve(ln)
}

// Run serves on the configured address until ctx is canceled, then shuts
// down gracefully. A clean shutdown returns nil.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownGrace)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	type entry struct {
		Name string `json:"name"`
		Page string `json:"page"`
		Raw  string `json:"raw"`
	}
	entries := make([]entry, 0, len(s.names))
	for _, name := range s.names {
		entries = append(entries, entry{Name: name, Page: "/a/" + name, Raw: "/raw/" + name})
	}
	writeJSON(w, http.StatusOK, map[string]any{"attachments": entries})
}

func (s *Server) handleFirst(w http.ResponseWriter, r *http.Request) {
	if len(s.names) == 0 {
		http.Error(w, ErrNoAttachments.Error(), http.StatusNotFound)
		return
	}
	s.servePage(w, r, s.byName[s.names[0]])
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	a, ok := s.byName[chi.URLParam(r, "name")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.servePage(w, r, a)
}

// servePage renders the viewer page. Acquisition failures still produce a
// 200 page whose rendered pane shows the error.
func (s *Server) servePage(w http.ResponseWriter, r *http.Request, a mdview.Attachment) {
	initial := s.cfg.View
	if q := r.URL.Query().Get("view"); q != "" {
		v, err := mdview.ParseView(q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		initial = v
	}

	doc := s.renderer.Render(r.Context(), a)

	var buf bytes.Buffer
	if err := s.renderer.WritePage(&buf, doc, initial); err != nil {
		s.logger.Error("writing viewer page", "attachment", a.Name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	_, _ = buf.WriteTo(w)
}

// handleRaw serves the Markdown text of an attachment.
func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	a, ok := s.byName[chi.URLParam(r, "name")]
	if !ok {
		http.NotFound(w, r)
		return
	}

	doc := s.renderer.Render(r.Context(), a)
	if doc.Source == "" && doc.Err != nil {
		http.Error(w, doc.Err.Error(), rawStatus(doc.Err))
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	_, _ = io.WriteString(w, doc.Source)
}

// rawStatus maps an acquisition failure to an HTTP status.
func rawStatus(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, mdview.ErrFetch):
		return http.StatusBadGateway
	case errors.Is(err, mdview.ErrNoContent), errors.Is(err, mdview.ErrReadFile):
		return http.StatusNotFound
	case errors.Is(err, mdview.ErrContentTooLarge), errors.Is(err, mdview.ErrUnsupportedScheme):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLogger logs one line per request with the chi request id.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
