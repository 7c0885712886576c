// Package inference turns raw form values into a verdict by validating them
// against a disease schema and calling that disease's model once.
package inference

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/okian/dxpredict/internal/domain/disease"
	"github.com/okian/dxpredict/internal/domain/model"
	"github.com/okian/dxpredict/pkg/logger"
	"github.com/okian/dxpredict/pkg/metrics"
)

// Models resolves the loaded classifier for a disease.
type Models interface {
	Model(key disease.Key) (model.Classifier, error)
}

// Verdict is the outcome of one prediction.
type Verdict struct {
	Disease  disease.Key
	Title    string
	Label    int
	Positive bool
	Message  string
}

// Predictor validates input and runs a single model call per request. It
// holds no per-request state.
type Predictor struct {
	models Models
	log    logger.Logger
}

// New creates a Predictor over models.
func New(models Models, opts ...Option) *Predictor {
	p := &Predictor{models: models}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Named("inference")
	}
	return p
}

// Predict validates values in schema order and returns the verdict. The
// model is not called when validation fails.
func (p *Predictor) Predict(ctx context.Context, key disease.Key, values []string) (Verdict, error) {
	d, ok := disease.Lookup(key)
	if !ok {
		return Verdict{}, fmt.Errorf("%w: %q", disease.ErrUnknownDisease, key)
	}
	x, err := Vector(d, values)
	if err != nil {
		metrics.RecordValidationFailure(string(key))
		p.log.Debug(ctx, "prediction rejected", logger.String("disease", string(key)), logger.Error(err))
		return Verdict{}, err
	}
	return p.infer(ctx, d, x)
}

// PredictFields is Predict for input keyed by field name.
func (p *Predictor) PredictFields(ctx context.Context, key disease.Key, fields map[string]string) (Verdict, error) {
	d, ok := disease.Lookup(key)
	if !ok {
		return Verdict{}, fmt.Errorf("%w: %q", disease.ErrUnknownDisease, key)
	}
	values, err := Ordered(d, fields)
	if err != nil {
		metrics.RecordValidationFailure(string(key))
		p.log.Debug(ctx, "prediction rejected", logger.String("disease", string(key)), logger.Error(err))
		return Verdict{}, err
	}
	return p.Predict(ctx, key, values)
}

func (p *Predictor) infer(ctx context.Context, d disease.Disease, x []float64) (Verdict, error) {
	key := string(d.Key)
	fail := func(err error) (Verdict, error) {
		metrics.RecordInferenceError(key)
		metrics.RecordErrorByComponent("inference", "model_call")
		p.log.Error(ctx, "inference failed", logger.String("disease", key), logger.Error(err))
		return Verdict{}, &InferenceError{Disease: key, Err: err}
	}

	clf, err := p.models.Model(d.Key)
	if err != nil {
		return fail(err)
	}

	start := time.Now()
	label, err := clf.Predict(ctx, x)
	metrics.RecordInferenceLatency(key, float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		return fail(err)
	}

	v, err := VerdictFor(d, label)
	if err != nil {
		return fail(err)
	}
	metrics.RecordPrediction(key, v.Positive)
	p.log.Info(ctx, "prediction served",
		logger.String("disease", key),
		logger.Int("label", v.Label),
		logger.String("model", clf.Kind()))
	return v, nil
}

// Vector coerces values to float64 in the declared field order. Any empty
// or unparseable value yields a *ValidationError.
func Vector(d disease.Disease, values []string) ([]float64, error) {
	verr := &ValidationError{Disease: string(d.Key), Want: len(d.Fields), Got: len(values)}
	x := make([]float64, len(d.Fields))
	for i, f := range d.Fields {
		if i >= len(values) {
			verr.Missing = append(verr.Missing, f.Name)
			continue
		}
		raw := strings.TrimSpace(values[i])
		if raw == "" {
			verr.Missing = append(verr.Missing, f.Name)
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			verr.Invalid = append(verr.Invalid, f.Name)
			continue
		}
		x[i] = v
	}
	if !verr.empty() {
		return nil, verr
	}
	return x, nil
}

// Ordered arranges named values in schema order. Unknown names are
// rejected; absent names become empty values for Vector to report.
func Ordered(d disease.Disease, fields map[string]string) ([]string, error) {
	values := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		values[i] = fields[f.Name]
	}
	var unknown []string
	for name := range fields {
		if d.FieldIndex(name) < 0 {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return nil, &ValidationError{
			Disease: string(d.Key),
			Want:    len(d.Fields),
			Got:     len(d.Fields),
			Unknown: unknown,
		}
	}
	return values, nil
}

// VerdictFor maps a raw label to its message. Only 0 and 1 are accepted.
func VerdictFor(d disease.Disease, label int) (Verdict, error) {
	v := Verdict{Disease: d.Key, Title: d.Title, Label: label}
	switch label {
	case model.BinaryContract.Positive:
		v.Positive = true
		v.Message = d.PositiveVerdict()
	case model.BinaryContract.Negative:
		v.Message = d.NegativeVerdict()
	default:
		return Verdict{}, fmt.Errorf("%w: %d", ErrUnexpectedLabel, label)
	}
	return v, nil
}
