// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package geocluster

import (
	"fmt"
	"log/slog"
	"math"
)

const (
	defaultRadius    = 30
	defaultMinZoom   = 0
	defaultMaxZoom   = 16
	defaultMinPoints = 2
	defaultExtent    = 512

	// MaxZoomLimit bounds the configurable zoom range.
	MaxZoomLimit = 30
)

// Options configures an Index build.
type Options struct {
	// Radius is the clustering radius in pixels.
	Radius float64
	// MinZoom and MaxZoom bound the generated zoom levels.
	MinZoom int
	MaxZoom int
	// MinPoints is the minimum number of points that form a cluster.
	MinPoints int
	// Extent is the tile size in pixels.
	Extent int
	Logger *slog.Logger
}

// DefaultOptions returns the options used when no Option is given.
func DefaultOptions() Options {
	return Options{
		Radius:    defaultRadius,
		MinZoom:   defaultMinZoom,
		MaxZoom:   defaultMaxZoom,
		MinPoints: defaultMinPoints,
		Extent:    defaultExtent,
	}
}

type Option func(*Options) error

// WithRadius sets the clustering radius in pixels.
func WithRadius(px float64) Option {
	return func(o *Options) error {
		if !(px > 0) || math.IsInf(px, 1) {
			return fmt.Errorf("WithRadius: radius %v must be positive and finite: %w", px, ErrInvalidConfig)
		}
		o.Radius = px
		return nil
	}
}

// WithZoomRange sets the zoom levels the index is built for.
func WithZoomRange(minZoom, maxZoom int) Option {
	return func(o *Options) error {
		if minZoom < 0 || maxZoom > MaxZoomLimit {
			return fmt.Errorf("WithZoomRange: range [%d %d] outside [0 %d]: %w",
				minZoom, maxZoom, MaxZoomLimit, ErrInvalidConfig)
		}
		if minZoom > maxZoom {
			return fmt.Errorf("WithZoomRange: min zoom %d > max zoom %d: %w", minZoom, maxZoom, ErrInvalidConfig)
		}
		o.MinZoom = minZoom
		o.MaxZoom = maxZoom
		return nil
	}
}

// WithMinPoints sets how many points are needed to form a cluster.
func WithMinPoints(n int) Option {
	return func(o *Options) error {
		if n < 2 {
			return fmt.Errorf("WithMinPoints: %d < 2: %w", n, ErrInvalidConfig)
		}
		o.MinPoints = n
		return nil
	}
}

// WithExtent sets the tile size in pixels.
func WithExtent(px int) Option {
	return func(o *Options) error {
		if px <= 0 {
			return fmt.Errorf("WithExtent: extent %d must be positive: %w", px, ErrInvalidConfig)
		}
		o.Extent = px
		return nil
	}
}

// WithLogger sets the logger used for skipped points and build summaries.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) error {
		o.Logger = l
		return nil
	}
}

// WithOptions replaces all options at once. The result is validated by Build.
func WithOptions(opts Options) Option {
	return func(o *Options) error {
		*o = opts
		return nil
	}
}

func (o Options) validate() error {
	switch {
	case !(o.Radius > 0) || math.IsInf(o.Radius, 1):
		return fmt.Errorf("radius %v must be positive and finite: %w", o.Radius, ErrInvalidConfig)
	case o.MinZoom > o.MaxZoom:
		return fmt.Errorf("min zoom %d > max zoom %d: %w", o.MinZoom, o.MaxZoom, ErrInvalidConfig)
	case o.MinZoom < 0 || o.MaxZoom > MaxZoomLimit:
		return fmt.Errorf("zoom range [%d %d] outside [0 %d]: %w", o.MinZoom, o.MaxZoom, MaxZoomLimit, ErrInvalidConfig)
	case o.MinPoints < 2:
		return fmt.Errorf("min points %d < 2: %w", o.MinPoints, ErrInvalidConfig)
	case o.Extent <= 0:
		return fmt.Errorf("extent %d must be positive: %w", o.Extent, ErrInvalidConfig)
	}
	return nil
}
