// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package hull computes planar convex hulls for cluster coverage polygons.

package hull

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/markus-wa/quickhull-go/v2"
)

const (
	defaultEps   = 1e-12
	collinearEps = 1e-9
)

type Options struct {
	Eps float64
}

type Option func(*Options) error

func WithEps(eps float64) Option {
	return func(o *Options) error {
		if eps <= 0 {
			return fmt.Errorf("WithEps: eps %v must be positive", eps)
		}
		o.Eps = eps
		return nil
	}
}

// Compute returns the indices of the points on the convex hull in
// counter-clockwise order, starting from the leftmost (then lowest) vertex.
// Points inside hull edges are not reported. Duplicate points are reported
// once, by their first index. Fewer than three distinct points, or collinear
// points, yield the distinct extremes only.
//
// NOTE: Candidates are the vertices of the 3D hull of a unit prism over the
// normalized points. Flat prism faces may keep non-extreme points, so the
// candidates go through a monotone chain pass.
func Compute(points []r2.Point, setters ...Option) ([]int, error) {
	opts := Options{Eps: defaultEps}
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return nil, err
		}
	}

	uniq := distinct(points)
	if len(uniq) < 3 {
		return uniq, nil
	}
	norm := normalize(points, uniq)
	if ext, ok := collinearExtremes(norm); ok {
		return []int{uniq[ext[0]], uniq[ext[1]]}, nil
	}

	m := len(uniq)
	prism := make([]r3.Vector, 2*m)
	for k, p := range norm {
		prism[k] = r3.Vector{X: p.X, Y: p.Y, Z: 0}
		prism[m+k] = r3.Vector{X: p.X, Y: p.Y, Z: 1}
	}
	qh := new(quickhull.QuickHull)
	ch := qh.ConvexHull(prism, true, true, opts.Eps)
	if len(ch.Indices) == 0 {
		return nil, errors.New("hull: quickhull returned an empty hull")
	}

	seen := make([]bool, m)
	onHull := make([]int, 0, m)
	for _, v := range ch.Indices {
		k := v % m
		if !seen[k] {
			seen[k] = true
			onHull = append(onHull, k)
		}
	}
	if len(onHull) < 3 {
		return nil, fmt.Errorf("hull: degenerate hull with %d vertices", len(onHull))
	}
	onHull = monotoneChain(onHull, norm)

	out := make([]int, len(onHull))
	for i, k := range onHull {
		out[i] = uniq[k]
	}
	return out, nil
}

func distinct(points []r2.Point) []int {
	seen := make(map[r2.Point]struct{}, len(points))
	out := make([]int, 0, len(points))
	for i, p := range points {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, i)
	}
	return out
}

// normalize maps the selected points into the unit square.
func normalize(points []r2.Point, sel []int) []r2.Point {
	lo := points[sel[0]]
	hi := lo
	for _, i := range sel[1:] {
		p := points[i]
		lo = r2.Point{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y)}
		hi = r2.Point{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y)}
	}
	scale := math.Max(hi.X-lo.X, hi.Y-lo.Y)
	out := make([]r2.Point, len(sel))
	for k, i := range sel {
		out[k] = points[i].Sub(lo).Mul(1 / scale)
	}
	return out
}

// collinearExtremes reports whether all points lie on one line and, if so,
// the positions of the two extreme points along it.
func collinearExtremes(pts []r2.Point) ([2]int, bool) {
	a := pts[0]
	far := 0
	for k, p := range pts {
		if d := p.Sub(a).Norm(); d > pts[far].Sub(a).Norm() {
			far = k
		}
	}
	dir := pts[far].Sub(a).Normalize()
	lo, hi := 0, 0
	for k, p := range pts {
		v := p.Sub(a)
		if math.Abs(dir.Cross(v)) > collinearEps {
			return [2]int{}, false
		}
		if v.Dot(dir) < pts[lo].Sub(a).Dot(dir) {
			lo = k
		}
		if v.Dot(dir) > pts[hi].Sub(a).Dot(dir) {
			hi = k
		}
	}
	return [2]int{lo, hi}, true
}

// monotoneChain returns the convex hull of pts[cand...] counter-clockwise,
// starting from the leftmost (then lowest) point. Only strict left turns are
// kept. cand is reordered.
func monotoneChain(cand []int, pts []r2.Point) []int {
	slices.SortFunc(cand, func(i, j int) int {
		if r := cmp.Compare(pts[i].X, pts[j].X); r != 0 {
			return r
		}
		return cmp.Compare(pts[i].Y, pts[j].Y)
	})
	leftTurn := func(o, a, b int) bool {
		return pts[a].Sub(pts[o]).Cross(pts[b].Sub(pts[o])) > 0
	}

	out := make([]int, 0, 2*len(cand))
	for _, k := range cand {
		for len(out) >= 2 && !leftTurn(out[len(out)-2], out[len(out)-1], k) {
			out = out[:len(out)-1]
		}
		out = append(out, k)
	}
	lower := len(out) + 1
	for i := len(cand) - 2; i >= 0; i-- {
		k := cand[i]
		for len(out) >= lower && !leftTurn(out[len(out)-2], out[len(out)-1], k) {
			out = out[:len(out)-1]
		}
		out = append(out, k)
	}
	// The last point repeats the first.
	return out[:len(out)-1]
}
