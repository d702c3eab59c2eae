// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package viewport

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/2dChan/geocluster"
	"github.com/2dChan/geocluster/overlap"
	"github.com/prometheus/client_golang/prometheus"
)

// Options configures a Controller.
type Options struct {
	// IndexOptions are passed to every geocluster.Build.
	IndexOptions []geocluster.Option
	Tolerance    overlap.Tolerance
	// Category maps a point to its category key for filtering.
	Category func(geocluster.Point) string
	Logger   *slog.Logger
	// Registerer receives the controller metrics. Nil keeps them unregistered.
	Registerer prometheus.Registerer
}

type Option func(*Options) error

// WithIndexOptions appends options used for every index build.
func WithIndexOptions(setters ...geocluster.Option) Option {
	return func(o *Options) error {
		o.IndexOptions = append(o.IndexOptions, setters...)
		return nil
	}
}

// WithTolerance sets the overlap tolerance used by click handling.
func WithTolerance(tol overlap.Tolerance) Option {
	return func(o *Options) error {
		if !(tol.Below > 0) || !(tol.AtOrAbove > 0) || math.IsInf(tol.Below, 1) || math.IsInf(tol.AtOrAbove, 1) {
			return fmt.Errorf("WithTolerance: tolerances %v, %v must be positive and finite: %w",
				tol.Below, tol.AtOrAbove, geocluster.ErrInvalidConfig)
		}
		if math.IsNaN(tol.ZoomThreshold) {
			return fmt.Errorf("WithTolerance: zoom threshold is NaN: %w", geocluster.ErrInvalidConfig)
		}
		o.Tolerance = tol
		return nil
	}
}

// WithCategoryFunc sets how point categories are read. The default is
// PayloadCategory.
func WithCategoryFunc(fn func(geocluster.Point) string) Option {
	return func(o *Options) error {
		if fn == nil {
			return fmt.Errorf("WithCategoryFunc: nil func: %w", geocluster.ErrInvalidConfig)
		}
		o.Category = fn
		return nil
	}
}

// WithLogger sets the controller logger. It is also handed to index builds
// unless IndexOptions set their own.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) error {
		o.Logger = l
		return nil
	}
}

// WithRegisterer registers the controller metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *Options) error {
		o.Registerer = reg
		return nil
	}
}
