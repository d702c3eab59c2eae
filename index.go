// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package geocluster

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/golang/geo/r2"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"
)

var (
	worldBound  = orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}
	lngLatBound = orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}
)

// Index is an immutable multi-zoom clustering of a point snapshot.
// It is safe for concurrent reads.
type Index struct {
	build  uuid.UUID
	opts   Options
	points []Point
	report BuildReport

	// NOTE: levels[z-MinZoom] for z in [MinZoom, MaxZoom], followed by the
	// leaf level at MaxZoom+1 which is never queried directly.
	levels   []level
	clusters []clusterRef
}

type node struct {
	coord Coordinate
	world r2.Point
	// NOTE: Indices into Index.points, ascending.
	members []int
	// NOTE: Indices into the next finer level.
	children []int
	seq      int32
}

func (n *node) isCluster() bool {
	return n.seq >= 0
}

// clusterRef locates the node where a cluster was formed.
type clusterRef struct {
	zoom int
	idx  int
}

type level struct {
	zoom  int
	nodes []node
	tree  *quadtree.Quadtree
}

type nodeRef struct {
	idx int
	p   orb.Point
}

func (r nodeRef) Point() orb.Point {
	return r.p
}

// Build clusters points for every zoom level in the configured range.
// Points with non-finite or out-of-range coordinates are excluded and listed
// in the index Report. The input slice is not modified.
func Build(points []Point, setters ...Option) (*Index, error) {
	opts := DefaultOptions()
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return nil, err
		}
	}
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	idx := &Index{
		build:  uuid.New(),
		opts:   opts,
		points: make([]Point, 0, len(points)),
	}
	for _, p := range points {
		if !p.Coordinate().Valid() {
			idx.report.Skipped = append(idx.report.Skipped, SkippedPoint{ID: p.ID, Lng: p.Lng, Lat: p.Lat})
			logger.Warn("skipping point with invalid coordinates", "id", p.ID, "lng", p.Lng, "lat", p.Lat)
			continue
		}
		idx.points = append(idx.points, p)
	}
	idx.report.Accepted = len(idx.points)

	nodes := make([]node, len(idx.points))
	for i, p := range idx.points {
		c := p.Coordinate()
		nodes[i] = node{coord: c, world: project(c), members: []int{i}, seq: -1}
	}

	numLevels := opts.MaxZoom - opts.MinZoom + 2
	idx.levels = make([]level, numLevels)
	idx.levels[numLevels-1] = level{zoom: opts.MaxZoom + 1, nodes: nodes}
	for z := opts.MaxZoom; z >= opts.MinZoom; z-- {
		nodes = idx.clusterize(nodes, z)
		idx.levels[z-opts.MinZoom] = newLevel(z, nodes)
	}

	logger.Debug("index built",
		"points", len(idx.points),
		"skipped", len(idx.report.Skipped),
		"clusters", len(idx.clusters),
		"min_zoom", opts.MinZoom,
		"max_zoom", opts.MaxZoom)
	return idx, nil
}

// clusterize greedily merges the nodes of the finer level into the nodes of
// zoom. Nodes are visited in level order, so the result only depends on the
// input order.
func (idx *Index) clusterize(prev []node, zoom int) []node {
	r := worldRadius(idx.opts.Radius, idx.opts.Extent, zoom)
	r2sq := r * r

	tree := quadtree.New(worldBound)
	for i := range prev {
		// World coordinates are clamped to [0, 1].
		_ = tree.Add(nodeRef{idx: i, p: orb.Point{prev[i].world.X, prev[i].world.Y}})
	}

	visited := make([]bool, len(prev))
	next := make([]node, 0, len(prev))
	var (
		buf       []orb.Pointer
		neighbors []int
	)
	for i := range prev {
		if visited[i] {
			continue
		}
		visited[i] = true
		p := &prev[i]

		buf = tree.InBound(buf[:0], orb.Bound{
			Min: orb.Point{p.world.X - r, p.world.Y - r},
			Max: orb.Point{p.world.X + r, p.world.Y + r},
		})
		neighbors = neighbors[:0]
		count := len(p.members)
		for _, ptr := range buf {
			j := ptr.(nodeRef).idx
			if visited[j] {
				continue
			}
			d := prev[j].world.Sub(p.world)
			if d.Dot(d) > r2sq {
				continue
			}
			neighbors = append(neighbors, j)
			count += len(prev[j].members)
		}
		slices.Sort(neighbors)

		for _, j := range neighbors {
			visited[j] = true
		}
		if len(neighbors) == 0 || count < idx.opts.MinPoints {
			next = append(next, carry(p, i))
			for _, j := range neighbors {
				next = append(next, carry(&prev[j], j))
			}
			continue
		}

		children := make([]int, 0, len(neighbors)+1)
		children = append(children, i)
		children = append(children, neighbors...)
		members := make([]int, 0, count)
		for _, c := range children {
			members = append(members, prev[c].members...)
		}
		slices.Sort(members)
		next = append(next, idx.newCluster(zoom, len(next), members, children))
	}
	return next
}

func carry(n *node, i int) node {
	c := *n
	c.children = []int{i}
	return c
}

// newCluster registers a cluster formed at zoom. Its coordinate is the mean
// of the raw member coordinates, never of sub-cluster centroids.
func (idx *Index) newCluster(zoom, pos int, members, children []int) node {
	var sumLng, sumLat float64
	for _, m := range members {
		sumLng += idx.points[m].Lng
		sumLat += idx.points[m].Lat
	}
	n := float64(len(members))
	c := Coordinate{Lng: sumLng / n, Lat: sumLat / n}

	seq := int32(len(idx.clusters))
	idx.clusters = append(idx.clusters, clusterRef{zoom: zoom, idx: pos})
	return node{
		coord:    c,
		world:    project(c),
		members:  members,
		children: children,
		seq:      seq,
	}
}

func newLevel(zoom int, nodes []node) level {
	tree := quadtree.New(lngLatBound)
	for i := range nodes {
		// Coordinates are validated and centroids stay inside the member range.
		_ = tree.Add(nodeRef{idx: i, p: orb.Point{nodes[i].coord.Lng, nodes[i].coord.Lat}})
	}
	return level{zoom: zoom, nodes: nodes, tree: tree}
}

// Len returns the number of indexed points.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.points)
}

// Points returns the indexed points in input order.
func (idx *Index) Points() []Point {
	if idx == nil {
		return nil
	}
	return slices.Clone(idx.points)
}

// Report returns how many points were accepted and which were skipped.
func (idx *Index) Report() BuildReport {
	if idx == nil {
		return BuildReport{}
	}
	return BuildReport{
		Accepted: idx.report.Accepted,
		Skipped:  slices.Clone(idx.report.Skipped),
	}
}

// Options returns the options the index was built with.
func (idx *Index) Options() Options {
	if idx == nil {
		return Options{}
	}
	return idx.opts
}

// NumClusters returns the number of distinct clusters across all levels.
func (idx *Index) NumClusters() int {
	if idx == nil {
		return 0
	}
	return len(idx.clusters)
}
