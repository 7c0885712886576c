package inference

import "github.com/okian/dxpredict/pkg/logger"

// Option applies a configuration option to the Predictor.
type Option func(*Predictor)

// WithLogger sets the logger for served and failed predictions.
func WithLogger(l logger.Logger) Option {
	return func(p *Predictor) {
		if l != nil {
			p.log = l
		}
	}
}
