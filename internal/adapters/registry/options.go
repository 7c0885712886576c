package registry

import (
	"io/fs"

	"github.com/okian/dxpredict/pkg/logger"
)

// Option applies a configuration option to Load.
type Option func(*options)

type options struct {
	dir   string
	files map[string]string
	fsys  fs.FS
	log   logger.Logger
}

// WithModelDir sets the directory artifacts are read from.
func WithModelDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.dir = dir
		}
	}
}

// WithModelFiles overrides the artifact file of individual diseases, keyed
// by disease key. Paths are relative to the model directory unless absolute.
func WithModelFiles(files map[string]string) Option {
	return func(o *options) {
		for k, v := range files {
			if o.files == nil {
				o.files = make(map[string]string, len(files))
			}
			o.files[k] = v
		}
	}
}

// WithFS reads artifacts from fsys instead of the model directory.
func WithFS(fsys fs.FS) Option {
	return func(o *options) {
		if fsys != nil {
			o.fsys = fsys
		}
	}
}

// WithLogger sets the logger used while loading.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}
