package model

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"
)

const defaultThreshold = 0.5

// LogisticParams holds the coefficients of a fitted logistic regression.
type LogisticParams struct {
	Weights   []float64 `json:"weights"`
	Bias      float64   `json:"bias"`
	Threshold float64   `json:"threshold,omitempty"`
}

// Logistic predicts the positive label when sigmoid(w·x + b) >= threshold.
type Logistic struct {
	weights   blas64.Vector
	bias      float64
	threshold float64
	labels    LabelContract
}

// NewLogistic validates params against the declared feature count.
func NewLogistic(p LogisticParams, numFeatures int, labels LabelContract) (*Logistic, error) {
	if len(p.Weights) != numFeatures {
		return nil, fmt.Errorf("%w: %d weights for %d features", ErrMalformedArtifact, len(p.Weights), numFeatures)
	}
	if err := checkVector(p.Weights, numFeatures); err != nil {
		return nil, fmt.Errorf("%w: weights: %w", ErrMalformedArtifact, err)
	}
	threshold := p.Threshold
	if threshold == 0 {
		threshold = defaultThreshold
	}
	if threshold <= 0 || threshold >= 1 || math.IsNaN(p.Bias) || math.IsInf(p.Bias, 0) {
		return nil, fmt.Errorf("%w: threshold must be in (0,1) and bias finite", ErrMalformedArtifact)
	}
	w := append([]float64(nil), p.Weights...)
	return &Logistic{
		weights:   blas64.Vector{N: len(w), Inc: 1, Data: w},
		bias:      p.Bias,
		threshold: threshold,
		labels:    labels,
	}, nil
}

// Probability returns the positive-class probability for x.
func (m *Logistic) Probability(x []float64) (float64, error) {
	if err := checkVector(x, m.weights.N); err != nil {
		return 0, err
	}
	z := blas64.Dot(m.weights, blas64.Vector{N: len(x), Inc: 1, Data: x}) + m.bias
	return 1 / (1 + math.Exp(-z)), nil
}

// Predict implements Classifier.
func (m *Logistic) Predict(ctx context.Context, x []float64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p, err := m.Probability(x)
	if err != nil {
		return 0, err
	}
	if p >= m.threshold {
		return m.labels.Positive, nil
	}
	return m.labels.Negative, nil
}

// Kind implements Classifier.
func (m *Logistic) Kind() string { return KindLogistic }

// NumFeatures implements Classifier.
func (m *Logistic) NumFeatures() int { return m.weights.N }
