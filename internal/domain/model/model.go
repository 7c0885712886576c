// Package model contains the classifiers that back each disease and the
// JSON artifact format they are loaded from.
package model

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
)

// Supported artifact kinds.
const (
	KindLogistic     = "logistic"
	KindDecisionTree = "decision_tree"
)

// Classifier is a loaded, read-only binary model. Implementations must be
// safe for concurrent use.
type Classifier interface {
	// Predict returns the raw class label for a single feature vector.
	Predict(ctx context.Context, x []float64) (int, error)
	// Kind names the artifact kind the classifier was built from.
	Kind() string
	// NumFeatures is the exact vector length Predict accepts.
	NumFeatures() int
}

// LabelContract declares which raw labels mean negative and positive.
type LabelContract struct {
	Negative int `json:"negative"`
	Positive int `json:"positive"`
}

// BinaryContract is the only contract the service accepts.
var BinaryContract = LabelContract{Negative: 0, Positive: 1}

// Artifact is the on-disk representation of a trained model.
type Artifact struct {
	Disease  string          `json:"disease"`
	Kind     string          `json:"kind"`
	Features []string        `json:"features"`
	Labels   *LabelContract  `json:"labels"`
	Logistic *LogisticParams `json:"logistic,omitempty"`
	Tree     []TreeNode      `json:"tree,omitempty"`
}

// Decode parses an artifact and rejects unknown fields.
func Decode(r io.Reader) (Artifact, error) {
	var a Artifact
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&a); err != nil {
		return Artifact{}, fmt.Errorf("%w: %w", ErrMalformedArtifact, err)
	}
	return a, nil
}

// Contract returns the declared label contract, defaulting to binary 0/1
// when the artifact omits it.
func (a Artifact) Contract() LabelContract {
	if a.Labels == nil {
		return BinaryContract
	}
	return *a.Labels
}

// Build constructs the classifier described by the artifact.
func (a Artifact) Build() (Classifier, error) {
	if len(a.Features) == 0 {
		return nil, fmt.Errorf("%w: no features declared", ErrMalformedArtifact)
	}
	switch a.Kind {
	case KindLogistic:
		if a.Logistic == nil {
			return nil, fmt.Errorf("%w: logistic artifact without parameters", ErrMalformedArtifact)
		}
		return NewLogistic(*a.Logistic, len(a.Features), a.Contract())
	case KindDecisionTree:
		return NewDecisionTree(a.Tree, len(a.Features))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, a.Kind)
	}
}

// checkVector validates length and finiteness of x.
func checkVector(x []float64, n int) error {
	if len(x) != n {
		return fmt.Errorf("%w: got %d values, want %d", ErrVectorShape, len(x), n)
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: value %d is not finite", ErrVectorShape, i)
		}
	}
	return nil
}
