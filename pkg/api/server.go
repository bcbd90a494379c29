package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	errorsmod "cosmossdk.io/errors"

	"github.com/AlbinSjoegren/SPV/internal/metrics"
	"github.com/AlbinSjoegren/SPV/internal/types"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/astrometry"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/orbital"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/validation"
	"github.com/AlbinSjoegren/SPV/pkg/calc"
)

const maxBodyBytes = 1 << 20

// Config holds the listener settings.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// Response is the body of every successful calculation.
type Response struct {
	Results []types.Result `json:"results"`
}

// NewServer creates a configured HTTP server.
func NewServer(cfg Config, calculator calc.Calculator, logger *slog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           NewHandler(calculator, logger),
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

// NewHandler returns the routed handler wrapped in the middleware chain.
func NewHandler(calculator calc.Calculator, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Register routes.
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("POST /api/v1/position", observationHandler(logger, calculator.Position))
	mux.HandleFunc("POST /api/v1/velocity", observationHandler(logger, calculator.Velocity))
	mux.HandleFunc("POST /api/v1/rotation", rotationHandler(logger, calculator))
	mux.HandleFunc("POST /api/v1/companion", elementsHandler(logger, calculator.Companion))
	mux.HandleFunc("POST /api/v1/derived", elementsHandler(logger, calculator.Derived))

	// Build middleware chain: metrics -> logging -> mux.
	var handler http.Handler = mux
	handler = loggingMiddleware(logger)(handler)
	handler = metrics.Middleware(routeLabel(mux), handler)
	return handler
}

// routeLabel names a request by the path of the pattern that serves it, so
// unrouted paths share metrics.UnmatchedRoute.
func routeLabel(mux *http.ServeMux) func(*http.Request) string {
	return func(r *http.Request) string {
		_, pattern := mux.Handler(r)
		if pattern == "" {
			return metrics.UnmatchedRoute
		}
		if _, path, ok := strings.Cut(pattern, " "); ok {
			return path
		}
		return pattern
	}
}

// HTTPServer returns the underlying *http.Server for external control (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", "component", "api", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func observationHandler(logger *slog.Logger, compute func(astrometry.Observation) ([]types.Result, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var o astrometry.Observation
		if !decode(w, r, &o) {
			return
		}
		results, err := compute(o)
		respond(w, r, logger, results, err)
	}
}

func rotationHandler(logger *slog.Logger, calculator calc.Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var a calc.Angles
		if !decode(w, r, &a) {
			return
		}
		results, err := calculator.Rotation(a)
		respond(w, r, logger, results, err)
	}
}

func elementsHandler(logger *slog.Logger, compute func(orbital.Elements) ([]types.Result, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var el orbital.Elements
		if !decode(w, r, &el) {
			return
		}
		results, err := compute(el)
		respond(w, r, logger, results, err)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func respond(w http.ResponseWriter, r *http.Request, logger *slog.Logger, results []types.Result, err error) {
	if err != nil {
		if errorsmod.IsOf(err,
			validation.ErrInvalidParallax,
			validation.ErrInvalidEccentricity,
			validation.ErrInvalidPeriod,
			validation.ErrInvalidAngle,
			validation.ErrInvalidDistance,
			validation.ErrInvalidVelocity,
		) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if errorsmod.IsOf(err, validation.ErrNonFiniteResult) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		logger.Error("calculation failed", "component", "api", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, Response{Results: results})
}

// writeJSON encodes v before committing the status, so an unencodable value
// becomes a 500 with an error body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"failed to encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

// probePath returns true for health probe paths that should not log at INFO.
func probePath(path string) bool {
	return path == "/healthz" || path == "/metrics"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			duration := time.Since(start)
			level := slog.LevelInfo
			if probePath(r.URL.Path) {
				level = slog.LevelDebug
			}

			logger.Log(r.Context(), level, "request",
				"component", "api",
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", duration.Milliseconds(),
				"remote_ip", r.RemoteAddr,
			)
		})
	}
}
