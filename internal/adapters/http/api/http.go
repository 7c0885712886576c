// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/dxpredict/internal/domain/disease"
	"github.com/okian/dxpredict/internal/domain/inference"
	"github.com/okian/dxpredict/internal/domain/types"
	"github.com/okian/dxpredict/pkg/logger"
)

const defaultMaxBodyBytes = 64 << 10

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Predict runs one prediction from values in schema order.
	Predict(ctx context.Context, key string, values []string) (types.Prediction, error)
	// PredictFields runs one prediction from values keyed by field name.
	PredictFields(ctx context.Context, key string, fields map[string]string) (types.Prediction, error)

	// Read operations expose the catalog.
	Diseases() []types.Disease
	Disease(key string) (types.Disease, error)
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxBodyBytes caps the size of prediction request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	maxBodyBytes int64

	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	diseasesHandler *DiseasesHandler
	predictHandler  *PredictHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{maxBodyBytes: defaultMaxBodyBytes}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.diseasesHandler = NewDiseasesHandler(deps)
	s.predictHandler = NewPredictHandler(deps, s.maxBodyBytes)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/diseases", MetricsMiddleware(s.diseasesHandler.HandleList, "diseases"))
	mux.HandleFunc("/diseases/", MetricsMiddleware(s.diseasesHandler.HandleGet, "disease"))
	mux.HandleFunc("/predict/", RequestIDMiddleware(MetricsMiddleware(s.predictHandler.HandlePredict, "predict")))
}

type errorResponse struct {
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	Missing   []string `json:"missing,omitempty"`
	Invalid   []string `json:"invalid,omitempty"`
	Unknown   []string `json:"unknown,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps domain errors onto status codes and logs server-side
// failures with the request id.
func writeFailure(ctx context.Context, w http.ResponseWriter, err error) {
	status, code := classify(err)
	resp := errorResponse{Code: code, Message: err.Error(), RequestID: logger.RequestID(ctx)}
	var verr *inference.ValidationError
	if errors.As(err, &verr) {
		resp.Missing, resp.Invalid, resp.Unknown = verr.Missing, verr.Invalid, verr.Unknown
	}
	if status >= http.StatusInternalServerError {
		logger.Named("api").Error(ctx, "request failed", logger.String("code", code), logger.Error(err))
	}
	writeJSON(w, status, resp)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, disease.ErrUnknownDisease), errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, inference.ErrValidation):
		return http.StatusBadRequest, "validation_failed"
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, inference.ErrInference):
		return http.StatusInternalServerError, "inference_failed"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
