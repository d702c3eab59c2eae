// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package geocluster

import (
	"math"
	"slices"

	"github.com/paulmach/orb"
)

// Node is a query result: either a single point (leaf) or a cluster.
type Node struct {
	Coordinate Coordinate
	// Count is 1 for leaves.
	Count int
	// Cluster is zero for leaves.
	Cluster ClusterID
	// Point is set for leaves only.
	Point Point
}

// IsCluster reports whether the node groups several points.
func (n Node) IsCluster() bool {
	return !n.Cluster.IsZero()
}

// Key returns a render key for diffing frames: the point id for leaves and
// the cluster id for clusters.
func (n Node) Key() string {
	if n.IsCluster() {
		return "c:" + n.Cluster.String()
	}
	return "p:" + n.Point.ID
}

// Zoom returns the integer level a fractional zoom is answered from:
// floored and limited to [MinZoom, MaxZoom].
func (idx *Index) Zoom(zoom float64) int {
	switch {
	case math.IsNaN(zoom) || zoom < float64(idx.opts.MinZoom):
		return idx.opts.MinZoom
	case zoom >= float64(idx.opts.MaxZoom):
		return idx.opts.MaxZoom
	}
	return int(math.Floor(zoom))
}

// Query returns the nodes of zoom whose coordinate lies inside bbox. Results
// are ordered by level order, so identical calls return identical slices.
func (idx *Index) Query(bbox BBox, zoom float64) []Node {
	out := []Node{}
	if idx == nil || !bbox.valid() {
		return out
	}
	lv := idx.level(idx.Zoom(zoom))

	var (
		buf  []orb.Pointer
		hits []int
	)
	for _, b := range bbox.bounds() {
		buf = lv.tree.InBound(buf[:0], b)
		for _, ptr := range buf {
			hits = append(hits, ptr.(nodeRef).idx)
		}
	}
	slices.Sort(hits)
	hits = slices.Compact(hits)

	for _, i := range hits {
		out = append(out, idx.toNode(&lv.nodes[i]))
	}
	return out
}

// All returns every node of zoom in level order.
func (idx *Index) All(zoom float64) []Node {
	out := []Node{}
	if idx == nil {
		return out
	}
	lv := idx.level(idx.Zoom(zoom))
	for i := range lv.nodes {
		out = append(out, idx.toNode(&lv.nodes[i]))
	}
	return out
}

func (idx *Index) level(zoom int) *level {
	return &idx.levels[zoom-idx.opts.MinZoom]
}

func (idx *Index) toNode(n *node) Node {
	if !n.isCluster() {
		return Node{
			Coordinate: n.coord,
			Count:      1,
			Point:      idx.points[n.members[0]],
		}
	}
	return Node{
		Coordinate: n.coord,
		Count:      len(n.members),
		Cluster:    ClusterID{build: idx.build, seq: uint32(n.seq)},
	}
}

// bounds splits the box into orb bounds, two when it crosses the antimeridian.
func (b BBox) bounds() []orb.Bound {
	south, north := math.Max(b.South, -90), math.Min(b.North, 90)
	if b.East-b.West >= 360 || (b.West <= -180 && b.East >= 180) {
		return []orb.Bound{{Min: orb.Point{-180, south}, Max: orb.Point{180, north}}}
	}
	if b.West > b.East {
		return []orb.Bound{
			{Min: orb.Point{b.West, south}, Max: orb.Point{180, north}},
			{Min: orb.Point{-180, south}, Max: orb.Point{b.East, north}},
		}
	}
	return []orb.Bound{{Min: orb.Point{b.West, south}, Max: orb.Point{b.East, north}}}
}
