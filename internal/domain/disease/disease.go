// Package disease describes the supported diseases and the ordered input
// schema each classifier expects.
package disease

import (
	"fmt"
	"strings"
)

// Key identifies a disease, its model and its field schema.
type Key string

// Supported disease keys, in menu order.
const (
	Diabetes     Key = "diabetes"
	HeartDisease Key = "heart_disease"
	Parkinsons   Key = "parkinsons"
	LungCancer   Key = "lung_cancer"
	Thyroid      Key = "thyroid"
)

// FieldKind tells the form how to render an input. Both kinds must coerce
// to float64 before inference.
type FieldKind string

const (
	Number FieldKind = "number"
	Text   FieldKind = "text"
)

// Field is one model input.
type Field struct {
	Name  string
	Label string
	Kind  FieldKind
}

// Disease binds a key to its display data, default artifact and schema.
// Fields order is the feature order of the model; it must never be sorted.
type Disease struct {
	Key       Key
	Title     string
	Icon      string
	Prompt    string
	ModelFile string
	Fields    []Field
}

// FieldNames returns the schema field names in model order.
func (d Disease) FieldNames() []string {
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name
	}
	return names
}

// FieldIndex returns the position of name in the schema, or -1.
func (d Disease) FieldIndex(name string) int {
	for i, f := range d.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// PositiveVerdict is the message shown for label 1.
func (d Disease) PositiveVerdict() string {
	return "The person has " + d.Title
}

// NegativeVerdict is the message shown for label 0.
func (d Disease) NegativeVerdict() string {
	return "The person does not have " + d.Title
}

// All returns the catalog in menu order. The returned slice is a copy.
func All() []Disease {
	out := make([]Disease, len(catalog))
	for i, d := range catalog {
		out[i] = d.clone()
	}
	return out
}

// Keys returns the catalog keys in menu order.
func Keys() []Key {
	keys := make([]Key, len(catalog))
	for i, d := range catalog {
		keys[i] = d.Key
	}
	return keys
}

// Lookup returns the disease for key.
func Lookup(key Key) (Disease, bool) {
	for _, d := range catalog {
		if d.Key == key {
			return d.clone(), true
		}
	}
	return Disease{}, false
}

// Parse resolves a user supplied key, ignoring case and surrounding space.
func Parse(s string) (Disease, error) {
	key := Key(strings.ToLower(strings.TrimSpace(s)))
	if d, ok := Lookup(key); ok {
		return d, nil
	}
	return Disease{}, fmt.Errorf("%w: %q", ErrUnknownDisease, s)
}

func (d Disease) clone() Disease {
	d.Fields = append([]Field(nil), d.Fields...)
	return d
}
