// Package server exposes the classifier over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/inodb/vibe-mdr/internal/catalog"
	"github.com/inodb/vibe-mdr/internal/sample"
	"github.com/inodb/vibe-mdr/internal/table"
)

// MaxTableSize is the maximum accepted request body (32MB).
const MaxTableSize = 32 << 20

// Server is the HTTP front end for the classifier.
type Server struct {
	agg     *sample.Aggregator
	columns table.Columns
	router  *chi.Mux
	logger  *zap.Logger
}

// New creates a Server classifying tables with agg.
func New(agg *sample.Aggregator, cols table.Columns, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		agg:     agg,
		columns: cols,
		router:  chi.NewRouter(),
		logger:  logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Post("/classify/{sample}", s.handleClassify)
	})
}

// requestLogger logs each request with zap.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// catalogResponse is the body of GET /api/catalog.
type catalogResponse struct {
	Name  string         `json:"name"`
	Genes []catalog.Gene `json:"genes"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	c := s.agg.Catalog()
	writeJSON(w, http.StatusOK, catalogResponse{Name: c.Name(), Genes: c.Genes()})
}

// handleClassify classifies a TSV table posted as the request body.
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "sample")
	body := http.MaxBytesReader(w, r.Body, MaxTableSize)

	reader, err := table.NewReader(body, s.columns)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	res, err := s.agg.AggregateReader(name, reader)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// ErrorResponse is the JSON body of failed requests.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := "internal"

	var tooLarge *http.MaxBytesError
	var pe *table.ParseError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
		code = "table_too_large"
	} else if errors.As(err, &pe) {
		status = http.StatusBadRequest
		code = "invalid_table"
	}

	s.logger.Warn("classify failed",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Int("status", status),
		zap.Error(err))

	writeJSON(w, status, ErrorResponse{Error: code, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
