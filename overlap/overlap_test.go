// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package overlap

import (
	"math"
	"testing"

	"github.com/2dChan/geocluster"
	"github.com/google/go-cmp/cmp"
)

var paris = geocluster.Coordinate{Lng: 2.3522, Lat: 48.8566}

func pt(id string, lng, lat float64) geocluster.Point {
	return geocluster.Point{ID: id, Lng: lng, Lat: lat}
}

func ids(points []geocluster.Point) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.ID
	}
	return out
}

// Tolerance

func TestTolerance_At(t *testing.T) {
	tol := DefaultTolerance()
	tests := []struct {
		zoom float64
		want float64
	}{
		{0, 0.0005},
		{10, 0.0005},
		{13.999, 0.0005},
		{14, 0.0001},
		{16, 0.0001},
		{22, 0.0001},
	}
	for _, tt := range tests {
		if got := tol.At(tt.zoom); got != tt.want {
			t.Errorf("tol.At(%v) = %v, want %v", tt.zoom, got, tt.want)
		}
	}
}

func TestTolerance_Round(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		in        float64
		want      float64
	}{
		{"disabled", 0, 2.3522004, 2.3522004},
		{"negative disables", -1, 2.3522004, 2.3522004},
		{"six places down", 6, 2.3522004, 2.3522},
		{"six places up", 6, 2.3522006, 2.352201},
		{"three places", 3, 48.85661, 48.857},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tol := Tolerance{Precision: tt.precision}
			if got := tol.round(tt.in); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("round(%v) with precision %d = %v, want %v", tt.in, tt.precision, got, tt.want)
			}
		})
	}
}

// FindCoincident

func TestFindCoincident_ToleranceBandSwitch(t *testing.T) {
	tol := Tolerance{Below: 0.0005, AtOrAbove: 0.0001, ZoomThreshold: 14, Precision: 6}
	points := []geocluster.Point{
		pt("a", 2.3522, 48.8566),
		pt("b", 2.35215, 48.85658),
		pt("c", 2.35232, 48.8566),
	}
	tests := []struct {
		name string
		zoom float64
		want []string
	}{
		{"zoom 10 wide band", 10, []string{"a", "b", "c"}},
		{"zoom 16 narrow band", 16, []string{"a", "b"}},
		{"zoom 14 is at threshold", 14, []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FindCoincident(points, paris, tt.zoom, tol))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FindCoincident(..., %v) mismatch (-want +got):\n%s", tt.zoom, diff)
			}
		})
	}
}

func TestFindCoincident_StrictBound(t *testing.T) {
	tol := Tolerance{Below: 0.0005, AtOrAbove: 0.0001, ZoomThreshold: 14}
	target := geocluster.Coordinate{Lng: 0, Lat: 0}
	tests := []struct {
		name  string
		point geocluster.Point
		want  int
	}{
		{"exact target", pt("a", 0, 0), 1},
		{"lng on bound", pt("b", 0.0001, 0), 0},
		{"lat on bound", pt("c", 0, -0.0001), 0},
		{"inside box corner", pt("d", 0.00009, 0.00009), 1},
		{"one axis outside", pt("e", 0.00009, 0.0002), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindCoincident([]geocluster.Point{tt.point}, target, 16, tol)
			if len(got) != tt.want {
				t.Errorf("FindCoincident([%v], %v, 16) len = %d, want %d", tt.point, target, len(got), tt.want)
			}
		})
	}
}

func TestFindCoincident_RoundsCandidatesOnly(t *testing.T) {
	tol := Tolerance{Below: 0.0005, AtOrAbove: 0.0001, ZoomThreshold: 14, Precision: 6}
	// 0.00009951 rounds to 0.0001, which is on the strict bound.
	points := []geocluster.Point{pt("a", 0.00009951, 0)}
	target := geocluster.Coordinate{Lng: 0, Lat: 0}

	if got := FindCoincident(points, target, 16, tol); len(got) != 0 {
		t.Errorf("FindCoincident(...) with rounding = %v, want none", ids(got))
	}
	tol.Precision = 0
	if got := FindCoincident(points, target, 16, tol); len(got) != 1 {
		t.Errorf("FindCoincident(...) without rounding = %v, want [a]", ids(got))
	}
}

func TestFindCoincident_NonFinite(t *testing.T) {
	points := []geocluster.Point{
		pt("nan", math.NaN(), 48.8566),
		pt("inf", math.Inf(1), 48.8566),
		pt("ok", 2.3522, 48.8566),
	}
	got := ids(FindCoincident(points, paris, 10, DefaultTolerance()))
	if diff := cmp.Diff([]string{"ok"}, got); diff != "" {
		t.Errorf("FindCoincident(...) mismatch (-want +got):\n%s", diff)
	}
}

func TestFindCoincident_Empty(t *testing.T) {
	if got := FindCoincident(nil, paris, 10, DefaultTolerance()); len(got) != 0 {
		t.Errorf("FindCoincident(nil, ...) = %v, want empty", got)
	}
}

// StackCounts

func TestStackCounts(t *testing.T) {
	points := []geocluster.Point{
		pt("a", 2.3522, 48.8566),
		pt("b", 2.35215, 48.85658),
		pt("c", 2.35232, 48.8566),
		pt("far", 2.4, 48.9),
	}
	tests := []struct {
		name string
		zoom float64
		want map[string]int
	}{
		{"zoom 10", 10, map[string]int{"a": 3, "b": 3, "c": 3, "far": 1}},
		{"zoom 16", 16, map[string]int{"a": 2, "b": 2, "c": 1, "far": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StackCounts(points, tt.zoom, DefaultTolerance())
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("StackCounts(..., %v) mismatch (-want +got):\n%s", tt.zoom, diff)
			}
		})
	}
}
