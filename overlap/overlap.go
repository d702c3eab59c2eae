// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package overlap detects points stacked at (almost) the same coordinate.
//
// Coincidence is an axis-aligned box test with a strict bound, using a
// tolerance that depends on the zoom level. It is unrelated to the
// clustering radius.

package overlap

import (
	"math"

	"github.com/2dChan/geocluster"
)

const (
	defaultBelow         = 0.0005
	defaultAtOrAbove     = 0.0001
	defaultZoomThreshold = 14
	defaultPrecision     = 6
)

// Tolerance holds the coincidence tolerances in degrees, keyed by a zoom
// threshold.
type Tolerance struct {
	// Below applies when zoom < ZoomThreshold.
	Below float64
	// AtOrAbove applies when zoom >= ZoomThreshold.
	AtOrAbove     float64
	ZoomThreshold float64
	// Precision is the number of decimals point coordinates are rounded to
	// before the test. Values <= 0 disable rounding.
	Precision int
}

// DefaultTolerance returns 0.0005 below zoom 14 and 0.0001 from zoom 14 on,
// with coordinates rounded to 6 decimals.
func DefaultTolerance() Tolerance {
	return Tolerance{
		Below:         defaultBelow,
		AtOrAbove:     defaultAtOrAbove,
		ZoomThreshold: defaultZoomThreshold,
		Precision:     defaultPrecision,
	}
}

// At returns the tolerance for zoom.
func (t Tolerance) At(zoom float64) float64 {
	if zoom >= t.ZoomThreshold {
		return t.AtOrAbove
	}
	return t.Below
}

// FindCoincident returns, in input order, the points p for which
// |p.Lng - target.Lng| < tol and |p.Lat - target.Lat| < tol.
func FindCoincident(points []geocluster.Point, target geocluster.Coordinate, zoom float64, tol Tolerance) []geocluster.Point {
	d := tol.At(zoom)
	var out []geocluster.Point
	for _, p := range points {
		if coincident(tol.round(p.Lng), tol.round(p.Lat), target, d) {
			out = append(out, p)
		}
	}
	return out
}

// StackCounts returns, per point id, how many points are coincident with
// that point, the point itself included. Points sharing an id are counted
// individually but reported once, last one wins.
func StackCounts(points []geocluster.Point, zoom float64, tol Tolerance) map[string]int {
	d := tol.At(zoom)
	rounded := make([]geocluster.Coordinate, len(points))
	for i, p := range points {
		rounded[i] = geocluster.Coordinate{Lng: tol.round(p.Lng), Lat: tol.round(p.Lat)}
	}

	out := make(map[string]int, len(points))
	for _, p := range points {
		n := 0
		for _, c := range rounded {
			if coincident(c.Lng, c.Lat, p.Coordinate(), d) {
				n++
			}
		}
		out[p.ID] = n
	}
	return out
}

func coincident(lng, lat float64, target geocluster.Coordinate, d float64) bool {
	return math.Abs(lng-target.Lng) < d && math.Abs(lat-target.Lat) < d
}

func (t Tolerance) round(v float64) float64 {
	if t.Precision <= 0 {
		return v
	}
	p := math.Pow10(t.Precision)
	return math.Round(v*p) / p
}
