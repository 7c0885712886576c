package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// predictRequest carries either ordered values or named fields. Values may
// be JSON numbers or strings; null counts as an empty value.
type predictRequest struct {
	Values []any          `json:"values"`
	Fields map[string]any `json:"fields"`
}

// PredictHandler serves POST /predict/{key}.
type PredictHandler struct {
	deps         Dependencies
	maxBodyBytes int64
}

// NewPredictHandler creates a new prediction handler.
func NewPredictHandler(deps Dependencies, maxBodyBytes int64) *PredictHandler {
	return &PredictHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

// HandlePredict handles POST /predict/{key} requests.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict"
	ctx := r.Context()
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	key := strings.TrimPrefix(r.URL.Path, "/predict/")
	if key == "" || strings.Contains(key, "/") {
		writeFailure(ctx, w, NewKind(op, ErrBadRequest))
		return
	}

	var req predictRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeFailure(ctx, w, WrapKind(op, ErrTooLarge, err))
			return
		}
		writeFailure(ctx, w, WrapKind(op, ErrBadRequest, err))
		return
	}

	switch {
	case req.Values != nil && req.Fields != nil:
		writeFailure(ctx, w, WrapKind(op, ErrBadRequest, errors.New("send either values or fields, not both")))
		return
	case req.Fields != nil:
		fields := make(map[string]string, len(req.Fields))
		for name, v := range req.Fields {
			s, err := scalar(v)
			if err != nil {
				writeFailure(ctx, w, WrapKind(op, ErrBadRequest, fmt.Errorf("field %s: %w", name, err)))
				return
			}
			fields[name] = s
		}
		h.respond(w, r, op, func() (any, error) { return h.deps.PredictFields(ctx, key, fields) })
	default:
		values := make([]string, len(req.Values))
		for i, v := range req.Values {
			s, err := scalar(v)
			if err != nil {
				writeFailure(ctx, w, WrapKind(op, ErrBadRequest, fmt.Errorf("value %d: %w", i, err)))
				return
			}
			values[i] = s
		}
		h.respond(w, r, op, func() (any, error) { return h.deps.Predict(ctx, key, values) })
	}
}

func (h *PredictHandler) respond(w http.ResponseWriter, r *http.Request, op string, call func() (any, error)) {
	out, err := call()
	if err != nil {
		writeFailure(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// scalar renders a decoded JSON value as the raw text of a form field.
func scalar(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case json.Number:
		return t.String(), nil
	case string:
		return t, nil
	default:
		return "", fmt.Errorf("expected number or string, got %T", v)
	}
}
