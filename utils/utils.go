// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package utils provides seeded point generators for tests, benchmarks and demos.

package utils

import (
	"math/rand"
	"strconv"

	"github.com/2dChan/geocluster"
)

// GenerateRandomPoints generates cnt points uniformly distributed in bbox.
// The seed parameter ensures reproducibility. Point ids are "p0", "p1", ...
func GenerateRandomPoints(cnt int, seed int64, bbox geocluster.BBox) []geocluster.Point {
	//nolint:gosec
	random := rand.New(rand.NewSource(seed))
	points := make([]geocluster.Point, cnt)

	for i := range cnt {
		points[i] = geocluster.Point{
			ID:  "p" + strconv.Itoa(i),
			Lng: bbox.West + random.Float64()*(bbox.East-bbox.West),
			Lat: bbox.South + random.Float64()*(bbox.North-bbox.South),
		}
	}

	return points
}

// GenerateStackedPoints generates cnt points within spread degrees of center
// on each axis, as produced by several entries geocoded to one address.
// Point ids are "<prefix>0", "<prefix>1", ...
func GenerateStackedPoints(cnt int, seed int64, center geocluster.Coordinate, spread float64, prefix string) []geocluster.Point {
	//nolint:gosec
	random := rand.New(rand.NewSource(seed))
	points := make([]geocluster.Point, cnt)

	for i := range cnt {
		points[i] = geocluster.Point{
			ID:  prefix + strconv.Itoa(i),
			Lng: center.Lng + (random.Float64()*2-1)*spread,
			Lat: center.Lat + (random.Float64()*2-1)*spread,
		}
	}

	return points
}
