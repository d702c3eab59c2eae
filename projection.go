// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package geocluster

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"
)

// A Mercator projection with maxLng 0.5 maps longitude to [-0.5, 0.5].
// World coordinates are shifted into [0, 1] with y growing southwards,
// which is the tile pixel space divided by extent * 2^zoom.
var mercator = s2.NewMercatorProjection(0.5)

func project(c Coordinate) r2.Point {
	p := mercator.FromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lng))
	return r2.Point{
		X: clamp01(0.5 + p.X),
		Y: clamp01(0.5 - p.Y),
	}
}

// worldRadius converts a pixel radius to world units at zoom.
func worldRadius(radius float64, extent, zoom int) float64 {
	return radius / (float64(extent) * math.Exp2(float64(zoom)))
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
