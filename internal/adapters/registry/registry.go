// Package registry loads one model artifact per disease at startup and
// serves the resulting read-only handles by key.
package registry

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"time"

	"github.com/okian/dxpredict/internal/domain/disease"
	"github.com/okian/dxpredict/internal/domain/model"
	"github.com/okian/dxpredict/pkg/logger"
	"github.com/okian/dxpredict/pkg/metrics"
)

const defaultModelDir = "models"

// Handle is a loaded model bound to one disease. Handles are immutable.
type Handle struct {
	Disease  disease.Disease
	Model    model.Classifier
	Kind     string
	Path     string
	Checksum string
	LoadedIn time.Duration
}

// Registry holds exactly one handle per catalog disease.
type Registry struct {
	handles map[disease.Key]*Handle
	order   []disease.Key
}

// Load reads and validates every catalog artifact. The first failure aborts
// the load and is returned as a *LoadError.
func Load(ctx context.Context, opts ...Option) (*Registry, error) {
	o := options{dir: defaultModelDir}
	for _, opt := range opts {
		opt(&o)
	}
	if o.fsys == nil {
		o.fsys = os.DirFS(o.dir)
	}
	if o.log == nil {
		o.log = logger.Named("registry")
	}

	overrides := make([]string, 0, len(o.files))
	for key := range o.files {
		overrides = append(overrides, key)
	}
	slices.Sort(overrides)
	for _, key := range overrides {
		if _, ok := disease.Lookup(disease.Key(key)); !ok {
			return nil, &LoadError{
				Disease: key,
				Path:    displayPath(o.dir, o.files[key]),
				Err:     fmt.Errorf("%w: %q in model file overrides", disease.ErrUnknownDisease, key),
			}
		}
	}

	r := &Registry{handles: make(map[disease.Key]*Handle)}
	for _, d := range disease.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		file := d.ModelFile
		if override, ok := o.files[string(d.Key)]; ok && override != "" {
			file = override
		}

		start := time.Now()
		h, err := loadOne(o.fsys, d, file)
		if err != nil {
			metrics.RecordModelLoadError(string(d.Key))
			lerr := &LoadError{Disease: string(d.Key), Path: displayPath(o.dir, file), Err: err}
			o.log.Error(ctx, "model load failed",
				logger.String("disease", string(d.Key)),
				logger.String("path", lerr.Path),
				logger.Error(err))
			return nil, lerr
		}
		h.Path = displayPath(o.dir, file)
		h.LoadedIn = time.Since(start)
		metrics.RecordModelLoad(string(d.Key), float64(h.LoadedIn.Microseconds())/1000)

		o.log.Info(ctx, "model loaded",
			logger.String("disease", string(d.Key)),
			logger.String("kind", h.Kind),
			logger.Int("features", h.Model.NumFeatures()),
			logger.String("sha256", h.Checksum))

		r.handles[d.Key] = h
		r.order = append(r.order, d.Key)
	}
	metrics.UpdateModelsLoaded(len(r.handles))
	return r, nil
}

func loadOne(fsys fs.FS, d disease.Disease, file string) (*Handle, error) {
	raw, err := readArtifact(fsys, file)
	if err != nil {
		return nil, err
	}
	art, err := model.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	if art.Disease != string(d.Key) {
		return nil, fmt.Errorf("%w: artifact declares %q", ErrDiseaseMismatch, art.Disease)
	}
	if want := d.FieldNames(); !slices.Equal(art.Features, want) {
		return nil, fmt.Errorf("%w: got %v, want %v", ErrFeatureMismatch, art.Features, want)
	}
	if art.Contract() != model.BinaryContract {
		return nil, fmt.Errorf("%w: got %+v", ErrLabelContract, art.Contract())
	}
	clf, err := art.Build()
	if err != nil {
		return nil, err
	}
	if tree, ok := clf.(*model.DecisionTree); ok {
		for _, label := range tree.Leaves() {
			if label != model.BinaryContract.Negative && label != model.BinaryContract.Positive {
				return nil, fmt.Errorf("%w: leaf label %d", ErrLabelContract, label)
			}
		}
	}
	sum := sha256.Sum256(raw)
	return &Handle{
		Disease:  d,
		Model:    clf,
		Kind:     clf.Kind(),
		Checksum: hex.EncodeToString(sum[:]),
	}, nil
}

func readArtifact(fsys fs.FS, file string) ([]byte, error) {
	if filepath.IsAbs(file) {
		return os.ReadFile(file)
	}
	return fs.ReadFile(fsys, path.Clean(filepath.ToSlash(file)))
}

func displayPath(dir, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dir, file)
}

// Get returns the handle for key.
func (r *Registry) Get(key disease.Key) (*Handle, error) {
	if _, ok := disease.Lookup(key); !ok {
		return nil, fmt.Errorf("%w: %q", disease.ErrUnknownDisease, key)
	}
	h, ok := r.handles[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotLoaded, key)
	}
	return h, nil
}

// Model returns the classifier for key.
func (r *Registry) Model(key disease.Key) (model.Classifier, error) {
	h, err := r.Get(key)
	if err != nil {
		return nil, err
	}
	return h.Model, nil
}

// Handles returns all handles in catalog order.
func (r *Registry) Handles() []*Handle {
	out := make([]*Handle, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.handles[k])
	}
	return out
}

// Len returns the number of loaded models.
func (r *Registry) Len() int { return len(r.handles) }
