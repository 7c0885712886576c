// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/dxpredict/internal/adapters/registry"
	"github.com/okian/dxpredict/internal/domain/disease"
	"github.com/okian/dxpredict/internal/domain/inference"
	"github.com/okian/dxpredict/internal/domain/types"
	"github.com/okian/dxpredict/pkg/logger"
)

// Service owns the model registry and the predictor built on it.
type Service struct {
	mu sync.RWMutex

	// Core components
	registry  *registry.Registry
	predictor *inference.Predictor

	// Configuration
	modelDir   string
	modelFiles map[string]string
	modelFS    fs.FS

	// State
	started   bool
	startedAt time.Time

	// Counters
	predictions        atomic.Int64
	positive           atomic.Int64
	negative           atomic.Int64
	validationFailures atomic.Int64
	inferenceErrors    atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithModelDir sets the directory model artifacts are loaded from.
func WithModelDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.modelDir = dir
		}
	}
}

// WithModelFiles overrides artifact file names per disease key.
func WithModelFiles(files map[string]string) Option {
	return func(s *Service) {
		s.modelFiles = files
	}
}

// WithModelFS loads artifacts from fsys instead of the model directory.
func WithModelFS(fsys fs.FS) Option {
	return func(s *Service) {
		s.modelFS = fsys
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		modelDir: "models",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads every model artifact. A load failure is returned as a
// *registry.LoadError and leaves the service stopped.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting prediction service...", logger.String("modelDir", s.modelDir))

	opts := []registry.Option{
		registry.WithModelDir(s.modelDir),
		registry.WithModelFiles(s.modelFiles),
		registry.WithLogger(s.logger.Named("registry")),
	}
	if s.modelFS != nil {
		opts = append(opts, registry.WithFS(s.modelFS))
	}
	reg, err := registry.Load(ctx, opts...)
	if err != nil {
		return err
	}

	s.registry = reg
	s.predictor = inference.New(reg, inference.WithLogger(s.logger.Named("inference")))
	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "prediction service started", logger.Int("models", reg.Len()))

	return nil
}

// Stop releases the registry. Handles are read-only so there is nothing to
// flush.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.registry = nil
	s.predictor = nil
	s.started = false
	s.logger.Info(context.Background(), "prediction service stopped")
}

func (s *Service) current() (*inference.Predictor, *registry.Registry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.predictor, s.registry, nil
}

// Predict runs one prediction from values in schema order.
func (s *Service) Predict(ctx context.Context, key string, values []string) (types.Prediction, error) {
	d, err := disease.Parse(key)
	if err != nil {
		return types.Prediction{}, err
	}
	p, _, err := s.current()
	if err != nil {
		return types.Prediction{}, err
	}
	v, err := p.Predict(ctx, d.Key, values)
	return s.result(ctx, v, err)
}

// PredictFields runs one prediction from values keyed by field name.
func (s *Service) PredictFields(ctx context.Context, key string, fields map[string]string) (types.Prediction, error) {
	d, err := disease.Parse(key)
	if err != nil {
		return types.Prediction{}, err
	}
	p, _, err := s.current()
	if err != nil {
		return types.Prediction{}, err
	}
	v, err := p.PredictFields(ctx, d.Key, fields)
	return s.result(ctx, v, err)
}

func (s *Service) result(ctx context.Context, v inference.Verdict, err error) (types.Prediction, error) {
	if err != nil {
		switch {
		case errors.Is(err, inference.ErrValidation):
			s.validationFailures.Add(1)
		case errors.Is(err, inference.ErrInference):
			s.inferenceErrors.Add(1)
		}
		return types.Prediction{}, err
	}
	s.predictions.Add(1)
	if v.Positive {
		s.positive.Add(1)
	} else {
		s.negative.Add(1)
	}
	return types.Prediction{
		Disease:   string(v.Disease),
		Label:     v.Label,
		Positive:  v.Positive,
		Verdict:   v.Message,
		RequestID: logger.RequestID(ctx),
	}, nil
}

// Diseases lists the catalog in menu order, with model metadata once
// started.
func (s *Service) Diseases() []types.Disease {
	_, reg, _ := s.current()
	all := disease.All()
	out := make([]types.Disease, 0, len(all))
	for _, d := range all {
		out = append(out, describe(d, reg))
	}
	return out
}

// Disease describes one catalog entry.
func (s *Service) Disease(key string) (types.Disease, error) {
	d, err := disease.Parse(key)
	if err != nil {
		return types.Disease{}, err
	}
	_, reg, _ := s.current()
	return describe(d, reg), nil
}

func describe(d disease.Disease, reg *registry.Registry) types.Disease {
	out := types.Disease{
		Key:    string(d.Key),
		Title:  d.Title,
		Icon:   d.Icon,
		Prompt: d.Prompt,
		Fields: make([]types.Field, 0, len(d.Fields)),
	}
	for _, f := range d.Fields {
		out.Fields = append(out.Fields, types.Field{Name: f.Name, Label: f.Label, Kind: string(f.Kind)})
	}
	if reg == nil {
		return out
	}
	if h, err := reg.Get(d.Key); err == nil {
		out.Model = &types.Model{
			Kind:     h.Kind,
			Features: h.Model.NumFeatures(),
			Path:     h.Path,
			SHA256:   h.Checksum,
			LoadedMs: float64(h.LoadedIn.Microseconds()) / 1000,
		}
	}
	return out
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":            s.started,
		"modelDir":           s.modelDir,
		"predictions":        s.predictions.Load(),
		"positive":           s.positive.Load(),
		"negative":           s.negative.Load(),
		"validationFailures": s.validationFailures.Load(),
		"inferenceErrors":    s.inferenceErrors.Load(),
	}

	if s.started {
		stats["modelsLoaded"] = s.registry.Len()
		stats["uptimeSeconds"] = time.Since(s.startedAt).Seconds()
	}

	return stats
}
