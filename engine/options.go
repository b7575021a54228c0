// SPDX-License-Identifier: MIT

package engine

import (
	"io"
	"log/slog"
)

// DefaultWorkers bounds the segments solved concurrently within a purpose.
//
// Memory grows linearly with it. One N×N matrix takes 8·N² bytes (about
// 60 MB at the 2730-zone reference size), and one segment holds the
// utilities and probabilities of every mode plus five matrices per nest, so
// 17 modes in 5 nests need roughly 4 GB per worker at that size.
const DefaultWorkers = 2

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets the segment concurrency; values < 1 are ignored.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n >= 1 {
			e.workers = n
		}
	}
}

// WithLogger sets the progress logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l == nil {
			l = slog.New(slog.NewTextHandler(io.Discard, nil))
		}
		e.logger = l
	}
}

// WithModes fixes the mode set solved for every purpose. By default each
// purpose solves every mode of its parameter table.
func WithModes(modes ...string) Option {
	return func(e *Engine) {
		e.modes = append([]string(nil), modes...)
	}
}
