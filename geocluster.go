// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package geocluster implements hierarchical greedy clustering of geo-tagged
// points for map marker rendering. An Index is built once per point set and
// answers per-zoom viewport queries, cluster member lookups and expansion
// zoom lookups.

package geocluster

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidConfig is returned when build options are out of range.
	ErrInvalidConfig = errors.New("geocluster: invalid config")
	// ErrUnknownCluster is returned for a cluster id that does not belong to the index.
	ErrUnknownCluster = errors.New("geocluster: unknown cluster")
)

// Coordinate is a longitude/latitude pair in degrees.
type Coordinate struct {
	Lng float64
	Lat float64
}

// Valid reports whether the coordinate is finite and within
// [-180, 180] x [-90, 90].
func (c Coordinate) Valid() bool {
	return c.Lng >= -180 && c.Lng <= 180 && c.Lat >= -90 && c.Lat <= 90
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%v, %v)", c.Lng, c.Lat)
}

// Point is an immutable geo-tagged value. Payload is passed through untouched.
type Point struct {
	ID      string
	Lng     float64
	Lat     float64
	Payload any
}

// Coordinate returns the point position.
func (p Point) Coordinate() Coordinate {
	return Coordinate{Lng: p.Lng, Lat: p.Lat}
}

// BBox is a viewport bounding box in degrees. Bounds are inclusive.
// West > East denotes a box crossing the antimeridian.
type BBox struct {
	West  float64
	South float64
	East  float64
	North float64
}

// World covers every valid coordinate.
var World = BBox{West: -180, South: -90, East: 180, North: 90}

func (b BBox) valid() bool {
	for _, v := range [...]float64{b.West, b.South, b.East, b.North} {
		if math.IsNaN(v) {
			return false
		}
	}
	return b.South <= b.North
}

// SkippedPoint is a point excluded from an index because of its coordinates.
type SkippedPoint struct {
	ID  string
	Lng float64
	Lat float64
}

// BuildReport summarises the input filtering done by Build.
type BuildReport struct {
	Accepted int
	Skipped  []SkippedPoint
}
