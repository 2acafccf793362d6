// Package server runs the local widget server: it serves the embedded chat
// widget page and exposes the chat pipeline over a small JSON API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"dataset-agent/internal/catalog"
	"dataset-agent/internal/domain"
	"dataset-agent/internal/usecase"
)

// UseCase is the chat pipeline consumed by the server.
type UseCase interface {
	Chat(ctx context.Context, in usecase.ChatInput) (usecase.ChatOutput, error)
}

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId"`
}

type chatResponse struct {
	Reply          string          `json:"reply"`
	Sources        []domain.Source `json:"sources"`
	ConversationID string          `json:"conversationId"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type categoryResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Server hosts the widget page and its API.
type Server struct {
	uc     UseCase
	cat    catalog.Catalog
	addr   string
	log    zerolog.Logger
	router chi.Router
}

// New builds a Server listening on addr.
func New(uc UseCase, cat catalog.Catalog, addr string, log zerolog.Logger) (*Server, error) {
	if uc == nil {
		return nil, errors.New("server: use case must not be nil")
	}
	if cat.Len() == 0 {
		return nil, errors.New("server: catalog must not be empty")
	}
	if addr == "" {
		addr = ":8080"
	}
	s := &Server{uc: uc, cat: cat, addr: addr, log: log}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Get("/datasets", s.handleDatasets)
		r.Get("/categories", s.handleCategories)
	})
	s.router = r
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info().Str("addr", s.addr).Msg("widget server listening")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: string(usecase.ErrorInvalidInput)})
		return
	}

	out, err := s.uc.Chat(r.Context(), usecase.ChatInput{
		Message:        req.Message,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		status := http.StatusInternalServerError
		code := usecase.ErrorInternal
		var ucErr *usecase.Error
		if errors.As(err, &ucErr) {
			code = ucErr.Code
			if ucErr.Code == usecase.ErrorInvalidInput {
				status = http.StatusBadRequest
			}
		}
		s.writeJSON(w, status, errorResponse{Error: string(code)})
		return
	}

	sources := out.Sources
	if sources == nil {
		sources = []domain.Source{}
	}
	s.writeJSON(w, http.StatusOK, chatResponse{
		Reply:          out.Reply,
		Sources:        sources,
		ConversationID: out.ConversationID,
	})
}

func (s *Server) handleDatasets(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.cat.Records())
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	cats := domain.Categories()
	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryResponse{ID: string(c), Label: c.Label()})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
