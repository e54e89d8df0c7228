// Package server exposes the stamp renderer over HTTP for serve mode.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/gbrlpzz/star-hash/internal/config"
	"github.com/gbrlpzz/star-hash/internal/observability"
	"github.com/gbrlpzz/star-hash/pkg/errors"
	"github.com/gbrlpzz/star-hash/pkg/pipeline"
	"github.com/gbrlpzz/star-hash/pkg/scene"
)

// Server renders stamps over HTTP.
type Server struct {
	runner  *pipeline.Runner
	cfg     config.Config
	logger  *log.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
}

// New assembles a server. A nil clock uses the real one.
func New(runner *pipeline.Runner, cfg config.Config, logger *log.Logger,
	metrics *observability.Metrics, clock clockwork.Clock) *Server {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Server{
		runner:  runner,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		clock:   clock,
	}
}

// Routes builds the chi router: the stamp endpoint plus health and
// metrics.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)

	r.Get("/stamp.svg", s.handleStamp)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Serve.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Listening on %s", s.cfg.Serve.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

type ctxKey int

const requestIDKey ctxKey = 0

// requestID tags every request with a UUID carried in the context and the
// X-Request-Id response header.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleStamp renders GET /stamp.svg?lat=&lon=&t=&size=. Missing lat/lon
// fall back to the configured default location; a missing instant uses
// the server clock; a missing size uses the configured default.
func (s *Server) handleStamp(w http.ResponseWriter, r *http.Request) {
	started := s.clock.Now()
	logger := s.logger.With("request_id", requestIDFrom(r.Context()))

	q, source, err := s.parseQuery(r)
	if err != nil {
		s.metrics.ObserveRender(0, 0, err)
		s.writeError(w, logger, err)
		return
	}
	s.metrics.ObserveLocationSource(source)

	res, err := s.runner.Render(q)
	elapsed := s.clock.Now().Sub(started)
	if err != nil {
		s.metrics.ObserveRender(elapsed, 0, err)
		s.writeError(w, logger, err)
		return
	}
	s.metrics.ObserveRender(elapsed, len(res.Warnings), nil)

	for _, warn := range res.Warnings {
		logger.Warn(warn)
	}
	logger.Infof("Rendered stamp: %d stars, %d bodies (%s)",
		res.VisibleStars, res.VisibleBodies, elapsed.Round(time.Millisecond))

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(res.SVG)
}

// parseQuery builds the render query from URL parameters. The returned
// source names where the observer position came from ("query" when the
// caller supplied coordinates, "default" otherwise).
func (s *Server) parseQuery(r *http.Request) (scene.Query, string, error) {
	q := scene.Query{
		LatDeg: s.cfg.DefaultLat,
		LonDeg: s.cfg.DefaultLon,
		Time:   s.clock.Now().UTC(),
		SizePx: s.cfg.Size,
	}
	source := "default"
	values := r.URL.Query()

	if v := values.Get("lat"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return scene.Query{}, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "lat %q", v)
		}
		q.LatDeg = f
		source = "query"
	}
	if v := values.Get("lon"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return scene.Query{}, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "lon %q", v)
		}
		q.LonDeg = f
		source = "query"
	}
	if v := values.Get("t"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return scene.Query{}, "", errors.Wrap(errors.ErrCodeInvalidTime, err, "t %q", v)
		}
		q.Time = ts.UTC()
	}
	if v := values.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return scene.Query{}, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "size %q", v)
		}
		q.SizePx = n
	}
	return q, source, nil
}

// writeError maps error codes to HTTP statuses and emits a JSON body.
func (s *Server) writeError(w http.ResponseWriter, logger *log.Logger, err error) {
	status := http.StatusInternalServerError
	code := errors.GetCode(err)
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidTime:
		status = http.StatusBadRequest
	case errors.ErrCodeEphemerisUnavailable:
		status = http.StatusServiceUnavailable
	}

	logger.Errorf("Request failed: %v", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   string(code),
		"message": errors.UserMessage(err),
	})
}
