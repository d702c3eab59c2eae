// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package geocluster

import (
	"fmt"

	"github.com/2dChan/geocluster/hull"
	"github.com/golang/geo/r2"
)

// resolve returns the node a cluster was formed as, and the zoom it was
// formed at.
func (idx *Index) resolve(id ClusterID) (*node, int, error) {
	if idx == nil || id.build != idx.build || int(id.seq) >= len(idx.clusters) {
		return nil, 0, fmt.Errorf("cluster %q: %w", id.String(), ErrUnknownCluster)
	}
	ref := idx.clusters[id.seq]
	return &idx.level(ref.zoom).nodes[ref.idx], ref.zoom, nil
}

// Members returns every point under the cluster in input order.
func (idx *Index) Members(id ClusterID) ([]Point, error) {
	return idx.Leaves(id, 0, 0)
}

// Leaves returns up to limit points under the cluster, skipping the first
// offset, in input order. A limit <= 0 returns all remaining points.
func (idx *Index) Leaves(id ClusterID, limit, offset int) ([]Point, error) {
	n, _, err := idx.resolve(id)
	if err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(n.members) {
		return []Point{}, nil
	}
	members := n.members[offset:]
	if limit > 0 && limit < len(members) {
		members = members[:limit]
	}
	out := make([]Point, len(members))
	for i, m := range members {
		out[i] = idx.points[m]
	}
	return out, nil
}

// Children returns the nodes the cluster splits into one zoom level above
// the last level it appears on.
func (idx *Index) Children(id ClusterID) ([]Node, error) {
	n, zoom, err := idx.resolve(id)
	if err != nil {
		return nil, err
	}
	// NOTE: zoom+1 may be the leaf level.
	finer := &idx.levels[zoom+1-idx.opts.MinZoom]
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = idx.toNode(&finer.nodes[c])
	}
	return out, nil
}

// ExpansionZoom returns the smallest zoom at which the cluster splits into
// two or more nodes, or MaxZoom when it does not split within range.
func (idx *Index) ExpansionZoom(id ClusterID) (int, error) {
	_, zoom, err := idx.resolve(id)
	if err != nil {
		return 0, err
	}
	return min(zoom+1, idx.opts.MaxZoom), nil
}

// Coverage returns the convex hull of the cluster members, counter-clockwise.
// Clusters whose members are collinear yield the two extreme coordinates.
func (idx *Index) Coverage(id ClusterID) ([]Coordinate, error) {
	n, _, err := idx.resolve(id)
	if err != nil {
		return nil, err
	}
	pts := make([]r2.Point, len(n.members))
	for i, m := range n.members {
		pts[i] = r2.Point{X: idx.points[m].Lng, Y: idx.points[m].Lat}
	}
	hi, err := hull.Compute(pts)
	if err != nil {
		return nil, fmt.Errorf("Coverage: %w", err)
	}
	out := make([]Coordinate, len(hi))
	for i, k := range hi {
		out[i] = Coordinate{Lng: pts[k].X, Lat: pts[k].Y}
	}
	return out, nil
}
