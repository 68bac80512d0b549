package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rohmanhakim/consents/internal/consent"
	"github.com/rohmanhakim/consents/pkg/hashutil"
	"github.com/rohmanhakim/consents/pkg/limiter"
	"github.com/rs/zerolog"
)

const (
	msgInvalidInput = "Invalid input"
	msgInvalidJSON  = "Invalid JSON body"

	msgTooManySubmissions = "Too many submissions, try again later"

	maxRequestBytes = 64 << 10
	shutdownTimeout = 5 * time.Second
)

// Server exposes the collection over GET/POST /consents.
type Server struct {
	collection      *Collection
	defaultPageSize int
	logger          zerolog.Logger
	submitLimiter   limiter.RateLimiter
	router          chi.Router
}

type Option func(*Server)

// WithSubmitLimiter throttles POST /consents per client.
func WithSubmitLimiter(l limiter.RateLimiter) Option {
	return func(s *Server) {
		s.submitLimiter = l
	}
}

func New(collection *Collection, defaultPageSize int, logger zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		collection:      collection,
		defaultPageSize: defaultPageSize,
		logger:          logger.With().Str("component", "server").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Route("/consents", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Group(func(r chi.Router) {
			if s.submitLimiter != nil {
				r.Use(submitThrottle(s.submitLimiter, s.logger))
			}
			r.Post("/", s.handleAppend)
		})
	})

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info().Msg("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	page := positiveQueryInt(r, "page", 1)
	pageSize := positiveQueryInt(r, "pageSize", s.defaultPageSize)

	data, total := s.collection.Slice(page, pageSize)

	body, err := json.Marshal(consent.PageResponse{
		Data:     data,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("encode page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	etag := hashutil.ETag(body)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request) {
	var record consent.Record
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	if err := decoder.Decode(&record); err != nil {
		writeJSON(w, http.StatusBadRequest, consent.ErrorResponse{Error: msgInvalidJSON})
		return
	}

	if err := consent.Validate(record); err != nil {
		var vErr *consent.ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusBadRequest, consent.ErrorResponse{
				Error:   msgInvalidInput,
				Details: vErr.Fields,
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, consent.ErrorResponse{Error: msgInvalidInput})
		return
	}

	stored := s.collection.Append(record)
	s.logger.Debug().Int("total", s.collection.Len()).Msg("consent appended")
	writeJSON(w, http.StatusCreated, stored)
}

// positiveQueryInt reads an integer query parameter, falling back when it
// is missing, malformed or below 1.
func positiveQueryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
