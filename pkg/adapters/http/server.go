package http

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
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/reactless/internal/logging"
	"github.com/aretw0/reactless/pkg/domain"
	"github.com/aretw0/reactless/pkg/ports"
	"github.com/aretw0/reactless/pkg/schema"
	"github.com/aretw0/reactless/pkg/session"
)

const (
	maxDocumentSize       = 1 << 20
	defaultRenderTimeout  = 10 * time.Second
	defaultCommitPollRate = time.Millisecond
)

// Engine is the rendering core driven by the server. *reactless.Engine implements it.
type Engine interface {
	Render(ctx context.Context, container ports.HostNode, element domain.Element) error
	Inspect(ctx context.Context, container ports.HostNode) ([]domain.FiberInfo, error)
	WaitFor(ctx context.Context, container ports.HostNode, poll time.Duration) error
	Forget(ctx context.Context, container ports.HostNode) error
}

// MutationSource hands out the mutations committed to a container. *observability.Recorder implements it.
type MutationSource interface {
	Take(container string) []domain.Mutation
	Forget(container string)
}

// Config wires the server to its collaborators.
type Config struct {
	Engine   Engine
	Sessions *session.Manager
	// Mutations reports what each commit changed. Optional.
	Mutations MutationSource
	// Handlers resolves handler names used in documents. Optional.
	Handlers schema.Resolver
	// Metrics is mounted on /metrics when set.
	Metrics       http.Handler
	Version       string
	RenderTimeout time.Duration
	Logger        *slog.Logger
}

// Server exposes render sessions over HTTP.
type Server struct {
	cfg      Config
	sessions *session.Manager
	logger   *slog.Logger
	Streams  *StreamManager
}

// TreeResponse is returned after a document has been rendered and committed.
type TreeResponse struct {
	Mutations []domain.Mutation `json:"mutations"`
	Snapshot  domain.Snapshot   `json:"snapshot"`
}

// NewServer creates a server from cfg.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg.RenderTimeout <= 0 {
		cfg.RenderTimeout = defaultRenderTimeout
	}
	return &Server{
		cfg:      cfg,
		sessions: cfg.Sessions,
		logger:   logger,
		Streams:  NewStreamManager(logger),
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(cfg Config) http.Handler {
	return NewServer(cfg).Handler()
}

// Handler returns the server's router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.cfg.Metrics != nil {
		r.Handle("/metrics", s.cfg.Metrics)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Put("/tree", s.PutTree)
			r.Get("/fibers", s.GetFibers)
			r.Get("/events", s.SubscribeEvents)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	version := s.cfg.Version
	if version == "" {
		version = "unknown"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "reactless-http",
		"version": version,
	})
}

// CreateSession handles the POST /sessions request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Create error: %v", err), http.StatusInternalServerError)
		s.logger.Error("CreateSession failed", "err", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": sess.ID})
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.sessions.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.logger.Error("ListSessions failed", "err", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// GetSession handles the GET /sessions/{id} request with the last stored snapshot.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := s.sessions.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
		s.logger.Error("GetSession failed", "session_id", id, "err", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	closed, err := s.sessions.Delete(r.Context(), id)
	if err != nil {
		http.Error(w, fmt.Sprintf("Delete error: %v", err), http.StatusInternalServerError)
		s.logger.Error("DeleteSession failed", "session_id", id, "err", err)
		return
	}
	if closed != nil {
		if err := s.cfg.Engine.Forget(r.Context(), closed.Container); err != nil {
			s.logger.Warn("DeleteSession: engine did not release container", "session_id", id, "err", err)
		}
		if s.cfg.Mutations != nil {
			s.cfg.Mutations.Forget(closed.Name)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// PutTree handles the PUT /sessions/{id}/tree request.
// The body is an element document (JSON when the content type says so, YAML otherwise).
// The response is sent once the render has been committed.
func (s *Server) PutTree(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.sessions.Get(id); !ok {
		http.Error(w, "Session not active", http.StatusNotFound)
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentSize+1))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(data) > maxDocumentSize {
		http.Error(w, "Document too large", http.StatusRequestEntityTooLarge)
		return
	}

	format := schema.FormatYAML
	if strings.Contains(r.Header.Get("Content-Type"), "json") {
		format = schema.FormatJSON
	}
	element, err := schema.Decode(data, format, s.cfg.Handlers)
	if err != nil {
		s.logger.Warn("PutTree: invalid document", "session_id", id, "err", err)
		writeDecodeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RenderTimeout)
	defer cancel()

	resp := TreeResponse{Mutations: []domain.Mutation{}}
	resp.Snapshot, err = s.sessions.Update(ctx, id, func(ctx context.Context, sess *session.Session) error {
		if err := s.cfg.Engine.Render(ctx, sess.Container, element); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if err := s.cfg.Engine.WaitFor(ctx, sess.Container, defaultCommitPollRate); err != nil {
			return fmt.Errorf("commit wait: %w", err)
		}
		if s.cfg.Mutations != nil {
			if muts := s.cfg.Mutations.Take(sess.Name); muts != nil {
				resp.Mutations = muts
			}
		}
		return nil
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("Render error: %v", err), renderStatus(err))
		s.logger.Error("PutTree failed", "session_id", id, "err", err)
		return
	}

	if len(resp.Mutations) > 0 {
		if payload, err := json.Marshal(resp.Mutations); err == nil {
			s.Streams.Broadcast(id, string(payload))
		}
	}

	s.logger.Debug("tree committed", "session_id", id, "mutations", len(resp.Mutations))
	writeJSON(w, http.StatusOK, resp)
}

// GetFibers handles the GET /sessions/{id}/fibers request.
func (s *Server) GetFibers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := s.sessions.Get(id)
	if !ok {
		http.Error(w, "Session not active", http.StatusNotFound)
		return
	}

	infos, err := s.cfg.Engine.Inspect(r.Context(), sess.Container)
	if err != nil {
		http.Error(w, fmt.Sprintf("Inspect error: %v", err), renderStatus(err))
		return
	}
	if infos == nil {
		infos = []domain.FiberInfo{}
	}
	writeJSON(w, http.StatusOK, infos)
}

// SubscribeEvents handles the GET /sessions/{id}/events request (SSE).
// Every committed render that changed the host is sent as a JSON array of mutations.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	id := chi.URLParam(r, "id")
	if _, ok := s.sessions.Get(id); !ok {
		http.Error(w, "Session not active", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected", "session_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: commit\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// -- Helpers --

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDecodeError(w http.ResponseWriter, err error) {
	errs := schema.DecodeErrors(err)
	if errs == nil {
		errs = []error{err}
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	writeJSON(w, http.StatusBadRequest, map[string][]string{"errors": msgs})
}

func renderStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrNotActive):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRenderInFlight):
		return http.StatusConflict
	case errors.Is(err, domain.ErrEngineStopped):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
