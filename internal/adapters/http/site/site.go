// Package site serves the server-rendered prediction form.
package site

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/dxpredict/internal/adapters/http/api"
	"github.com/okian/dxpredict/internal/domain/disease"
	"github.com/okian/dxpredict/internal/domain/inference"
	"github.com/okian/dxpredict/internal/domain/types"
	"github.com/okian/dxpredict/pkg/logger"
)

// Error constants
var (
	ErrRender = errors.New("form render failed")
)

// Inline messages shown under the form.
const (
	MsgMissing  = "Please fill in all fields before predicting."
	MsgInvalid  = "Please enter numeric values for: "
	MsgInternal = "The prediction could not be completed. Please try again later."
)

const defaultMaxFormBytes = 64 << 10

// Predictor is what the form needs from the service.
type Predictor interface {
	Predict(ctx context.Context, key string, values []string) (types.Prediction, error)
	Diseases() []types.Disease
}

// Handler renders the disease menu and the form of the selected disease.
type Handler struct {
	deps         Predictor
	log          logger.Logger
	maxFormBytes int64
}

// Option applies a configuration option to the Handler.
type Option func(*Handler)

// WithMaxBodyBytes caps the size of submitted forms.
func WithMaxBodyBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxFormBytes = n
		}
	}
}

// NewHandler creates a form handler over deps.
func NewHandler(deps Predictor, opts ...Option) *Handler {
	h := &Handler{deps: deps, log: logger.Named("site"), maxFormBytes: defaultMaxFormBytes}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register attaches the form at / and its assets at /static/.
func Register(_ context.Context, mux *http.ServeMux, deps Predictor, opts ...Option) {
	if mux == nil {
		panic("mux is nil")
	}
	h := NewHandler(deps, opts...)
	mux.HandleFunc("/", api.RequestIDMiddleware(api.MetricsMiddleware(h.HandleRoot, "form")))
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(FS())))
}

type input struct {
	Name  string
	Label string
	Kind  string
	Value string
}

type notice struct {
	Class string
	Text  string
}

type page struct {
	Menu    []types.Disease
	Current types.Disease
	Inputs  []input
	Notice  *notice
}

// HandleRoot handles GET / and POST / requests.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPost:
		h.handlePost(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("disease")
	if key == "" {
		key = string(disease.Diabetes)
	}
	p, ok := h.page(key)
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.render(r.Context(), w, http.StatusOK, p)
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFormBytes)
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	p, ok := h.page(r.PostForm.Get("disease"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	values := make([]string, len(p.Inputs))
	for i := range p.Inputs {
		values[i] = r.PostForm.Get(p.Inputs[i].Name)
		p.Inputs[i].Value = values[i]
	}

	status := http.StatusOK
	res, err := h.deps.Predict(ctx, p.Current.Key, values)
	var verr *inference.ValidationError
	switch {
	case err == nil && res.Positive:
		p.Notice = &notice{Class: "positive", Text: res.Verdict}
	case err == nil:
		p.Notice = &notice{Class: "negative", Text: res.Verdict}
	case errors.As(err, &verr) && len(verr.Missing) == 0 && len(verr.Invalid) > 0:
		p.Notice = &notice{Class: "warn", Text: MsgInvalid + strings.Join(labels(p.Current, verr.Invalid), ", ")}
	case errors.As(err, &verr):
		p.Notice = &notice{Class: "warn", Text: MsgMissing}
	default:
		status = http.StatusInternalServerError
		h.log.Error(ctx, "form prediction failed", logger.String("disease", p.Current.Key), logger.Error(err))
		p.Notice = &notice{Class: "error", Text: MsgInternal}
	}
	h.render(ctx, w, status, p)
}

func (h *Handler) page(key string) (page, bool) {
	menu := h.deps.Diseases()
	for _, d := range menu {
		if strings.EqualFold(d.Key, key) {
			p := page{Menu: menu, Current: d, Inputs: make([]input, 0, len(d.Fields))}
			for _, f := range d.Fields {
				p.Inputs = append(p.Inputs, input{Name: f.Name, Label: f.Label, Kind: f.Kind})
			}
			return p, true
		}
	}
	return page{}, false
}

func (h *Handler) render(ctx context.Context, w http.ResponseWriter, status int, p page) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		h.log.Error(ctx, "render failed", logger.Error(errors.Join(ErrRender, err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func labels(d types.Disease, names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		label := n
		for _, f := range d.Fields {
			if f.Name == n {
				label = f.Label
				break
			}
		}
		out = append(out, label)
	}
	return out
}
