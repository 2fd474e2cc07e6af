package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/frametree/pkg/construct"
	"github.com/vango-dev/frametree/pkg/fixture"
	"github.com/vango-dev/frametree/pkg/frame"
	"github.com/vango-dev/frametree/pkg/protocol"
	"github.com/vango-dev/frametree/pkg/render"
	"github.com/vango-dev/frametree/pkg/snapshot"
)

// MaxFixtureSize bounds request bodies and WebSocket messages.
const MaxFixtureSize = 1 << 20

// Server is the inspector HTTP server.
type Server struct {
	constructor *construct.Constructor
	renderer    *render.Renderer
	store       snapshot.Store
	limits      *protocol.DepthLimits
	gatherer    prometheus.Gatherer
	logger      *slog.Logger
	upgrader    websocket.Upgrader
	router      chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithStore enables the /snapshots routes.
func WithStore(store snapshot.Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithDepthLimits sets how deep fragments are expanded in responses.
func WithDepthLimits(limits *protocol.DepthLimits) Option {
	return func(s *Server) {
		s.limits = limits
	}
}

// WithMetrics exposes g at /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithCheckOrigin sets the WebSocket origin check.
func WithCheckOrigin(fn func(*http.Request) bool) Option {
	return func(s *Server) {
		s.upgrader.CheckOrigin = fn
	}
}

// New creates an inspector rendering with c.
func New(c *construct.Constructor, opts ...Option) *Server {
	s := &Server{
		constructor: c,
		limits:      protocol.DefaultDepthLimits(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.limits == nil {
		s.limits = protocol.DefaultDepthLimits()
	}
	s.logger = s.logger.With("component", "inspect")
	s.renderer = render.NewRenderer(c, render.Config{MaxDepth: s.limits.FragmentDepth, Markers: true})
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/catalog", s.handleCatalog)
	r.Post("/render", s.handleRender)
	r.Get("/ws", s.handleWebSocket)

	if s.store != nil {
		r.Get("/snapshots", s.handleListSnapshots)
		r.Get("/snapshots/*", s.handleGetSnapshot)
		r.Put("/snapshots/*", s.handlePutSnapshot)
	}
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the inspector as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("inspector listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()))
	})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"components": Catalog(s.constructor.Registry()),
	})
}

// render parses a fixture and builds it.
func (s *Server) render(ctx context.Context, name string, data []byte) (frame.Frames, error) {
	doc, err := fixture.Parse(name, data)
	if err != nil {
		return nil, err
	}
	return doc.Render(ctx, s.constructor)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	data, ok := readFixture(w, r)
	if !ok {
		return
	}

	fs, err := s.render(r.Context(), "request", data)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		writeJSON(w, http.StatusOK, map[string]any{"frames": protocol.Expand(fs, s.limits)})
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, fs.Dump())
	case "binary":
		w.Header().Set("Content-Type", snapshot.ContentType)
		w.WriteHeader(http.StatusOK)
		w.Write(protocol.EncodeFrames(fs, s.limits))
	case "html":
		html, err := s.renderer.RenderToString(r.Context(), fs)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, html)
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown format %q", format))
	}
}

// readFixture reads a request body of at most MaxFixtureSize bytes. It
// writes the error response and returns false when the body is unusable.
func readFixture(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(io.LimitReader(r.Body, MaxFixtureSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	if len(data) > MaxFixtureSize {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("fixture exceeds %d bytes", MaxFixtureSize))
		return nil, false
	}
	return data, true
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	keys, err := s.store.List(r.Context(), r.URL.Query().Get("prefix"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"snapshots": keys})
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	fs, err := snapshot.Load(r.Context(), s.store, key, s.limits)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"key": key, "frames": protocol.Expand(fs, s.limits)})
}

func (s *Server) handlePutSnapshot(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if err := snapshot.ValidateKey(key); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	data, ok := readFixture(w, r)
	if !ok {
		return
	}
	fs, err := s.render(r.Context(), key, data)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if err := snapshot.Save(r.Context(), s.store, key, fs, s.limits); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	s.logger.Info("snapshot stored", "key", key, "frames", len(fs))
	writeJSON(w, http.StatusCreated, map[string]any{"key": key, "frames": len(fs)})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(MaxFixtureSize + protocol.MessageHeaderSize)

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket read failed", "error", err)
			}
			return
		}

		reply := s.handleMessage(r.Context(), mt, data)
		if err := conn.WriteMessage(websocket.BinaryMessage, reply.Encode()); err != nil {
			s.logger.Debug("websocket write failed", "error", err)
			return
		}
	}
}

func (s *Server) handleMessage(ctx context.Context, mt int, data []byte) *protocol.Message {
	payload := data
	if mt == websocket.BinaryMessage {
		msg, err := protocol.DecodeMessage(data)
		if err != nil {
			return protocol.NewMessage(protocol.MessageError, []byte(err.Error()))
		}
		if msg.Type != protocol.MessageRender {
			return protocol.NewMessage(protocol.MessageError, []byte("expected a Render message, got "+msg.Type.String()))
		}
		payload = msg.Payload
	}

	fs, err := s.render(ctx, "websocket", payload)
	if err != nil {
		return protocol.NewMessage(protocol.MessageError, []byte(err.Error()))
	}
	return protocol.NewMessage(protocol.MessageFrames, protocol.EncodeFrames(fs, s.limits))
}

// errorBody is the JSON shape of error responses.
type errorBody struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	Component string `json:"component,omitempty"`
	Attribute string `json:"attribute,omitempty"`
	Line      int    `json:"line,omitempty"`
	Column    int    `json:"column,omitempty"`
}

func statusFor(err error) int {
	var (
		cerr *construct.Error
		ferr *fixture.Error
	)
	switch {
	case errors.As(err, &ferr), errors.Is(err, snapshot.ErrInvalidKey):
		return http.StatusBadRequest
	case errors.As(err, &cerr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, snapshot.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, status int, err error) {
	body := errorBody{Error: err.Error()}
	var (
		cerr *construct.Error
		ferr *fixture.Error
	)
	if errors.As(err, &cerr) {
		body.Kind = cerr.Kind.String()
		body.Component = cerr.ComponentType
		body.Attribute = cerr.Attribute
	}
	if errors.As(err, &ferr) {
		body.Kind = strings.TrimPrefix(ferr.Kind.Error(), "invalid ")
		body.Line = ferr.Line
		body.Column = ferr.Column
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
