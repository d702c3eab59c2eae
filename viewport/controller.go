// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package viewport

import (
	"cmp"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/2dChan/geocluster"
	"github.com/2dChan/geocluster/overlap"
)

// snapshot is published atomically once an index is fully built.
type snapshot struct {
	index  *geocluster.Index
	points []geocluster.Point
	gen    uint64
}

type subscriber struct {
	id uint64
	fn func(Frame)
}

type delivery struct {
	frame Frame
	subs  []subscriber
}

// Controller holds the point set and viewport of one map. Its methods are
// safe for concurrent use. Readers always see a fully built index.
type Controller struct {
	opts      Options
	indexOpts []geocluster.Option
	logger    *slog.Logger
	metrics   *metrics
	build     func([]geocluster.Point, ...geocluster.Option) (*geocluster.Index, error)

	snap atomic.Pointer[snapshot]

	// NOTE: pending is ordered by frame Seq and drained by one goroutine
	// at a time.
	emitMu     sync.Mutex
	pending    []delivery
	delivering bool
	delivered  uint64

	mu          sync.Mutex
	state       State
	gen         uint64
	all         []geocluster.Point
	filter      map[string]struct{}
	bbox        geocluster.BBox
	zoom        float64
	hasViewport bool
	seq         uint64
	subs        []subscriber
	nextSub     uint64
}

// NewController returns an Idle controller. Index options are validated
// here so that later rebuilds cannot fail on configuration.
func NewController(setters ...Option) (*Controller, error) {
	opts := Options{
		Tolerance: overlap.DefaultTolerance(),
		Category:  PayloadCategory,
	}
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return nil, err
		}
	}
	if _, err := geocluster.Build(nil, opts.IndexOptions...); err != nil {
		return nil, fmt.Errorf("NewController: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m, err := newMetrics(opts.Registerer)
	if err != nil {
		return nil, fmt.Errorf("NewController: %w", err)
	}

	c := &Controller{
		opts:    opts,
		logger:  logger,
		metrics: m,
		build:   geocluster.Build,
	}
	c.indexOpts = append([]geocluster.Option{geocluster.WithLogger(logger)}, opts.IndexOptions...)
	return c, nil
}

// SetPoints replaces the full point set and rebuilds the index from the
// points passing the active category filter. A call made while an earlier
// rebuild is still running supersedes it. Cluster ids of earlier indexes
// stop resolving once the new index is published.
func (c *Controller) SetPoints(points []geocluster.Point) error {
	c.mu.Lock()
	c.all = slices.Clone(points)
	active, gen := c.beginLocked()
	c.mu.Unlock()

	return c.rebuild(gen, active)
}

// SetCategoryFilter restricts the indexed points to the given categories
// and rebuilds. An empty set hides every point.
func (c *Controller) SetCategoryFilter(categories ...string) error {
	filter := make(map[string]struct{}, len(categories))
	for _, k := range categories {
		filter[k] = struct{}{}
	}

	c.mu.Lock()
	c.filter = filter
	active, gen := c.beginLocked()
	c.mu.Unlock()

	return c.rebuild(gen, active)
}

// ClearCategoryFilter removes the category filter and rebuilds.
func (c *Controller) ClearCategoryFilter() error {
	c.mu.Lock()
	c.filter = nil
	active, gen := c.beginLocked()
	c.mu.Unlock()

	return c.rebuild(gen, active)
}

// beginLocked starts a new rebuild generation and returns the points it
// indexes.
func (c *Controller) beginLocked() ([]geocluster.Point, uint64) {
	active := c.all
	if c.filter != nil {
		active = make([]geocluster.Point, 0, len(c.all))
		for _, p := range c.all {
			if _, ok := c.filter[c.opts.Category(p)]; ok {
				active = append(active, p)
			}
		}
	}
	c.gen++
	c.state = Loading
	c.logger.Debug("rebuild started", "gen", c.gen, "points", len(active))
	return active, c.gen
}

func (c *Controller) rebuild(gen uint64, points []geocluster.Point) error {
	start := time.Now()
	idx, err := c.build(points, c.indexOpts...)
	c.metrics.buildDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.metrics.superseded.Inc()
		c.logger.Debug("rebuild superseded", "gen", gen)
		return nil
	}
	if err != nil {
		c.state = Idle
		if c.snap.Load() != nil {
			c.state = Ready
		}
		c.mu.Unlock()
		return fmt.Errorf("rebuild: %w", err)
	}

	snap := &snapshot{index: idx, points: idx.Points(), gen: gen}
	c.snap.Store(snap)
	c.state = Ready
	frame, ok := c.frameLocked(snap)
	subs := slices.Clone(c.subs)
	c.mu.Unlock()

	report := idx.Report()
	c.metrics.rebuilds.Inc()
	c.metrics.skippedPoints.Add(float64(len(report.Skipped)))
	c.logger.Debug("rebuild published",
		"gen", gen,
		"points", report.Accepted,
		"skipped", len(report.Skipped),
		"clusters", idx.NumClusters())

	if ok {
		c.emit(frame, subs)
	}
	return nil
}

// SetViewport updates the viewport and emits the visible nodes. When bbox
// and the floored zoom are unchanged only the fractional zoom is recorded,
// with no query or emission. A NaN zoom is ignored. Before the first index
// is published the viewport is only recorded.
func (c *Controller) SetViewport(bbox geocluster.BBox, zoom float64) {
	if math.IsNaN(zoom) {
		c.logger.Debug("ignoring NaN zoom")
		return
	}

	c.mu.Lock()
	if c.hasViewport && c.bbox == bbox && math.Floor(c.zoom) == math.Floor(zoom) {
		c.zoom = zoom
		c.mu.Unlock()
		return
	}
	c.bbox, c.zoom, c.hasViewport = bbox, zoom, true
	frame, ok := c.frameLocked(c.snap.Load())
	subs := slices.Clone(c.subs)
	c.mu.Unlock()

	if ok {
		c.emit(frame, subs)
	}
}

func (c *Controller) frameLocked(snap *snapshot) (Frame, bool) {
	if snap == nil || !c.hasViewport {
		return Frame{}, false
	}
	c.seq++
	return Frame{
		Seq:   c.seq,
		BBox:  c.bbox,
		Zoom:  c.zoom,
		Level: snap.index.Zoom(c.zoom),
		Nodes: snap.index.Query(c.bbox, c.zoom),
	}, true
}

// emit queues f and, unless another call is already delivering, delivers
// queued frames in Seq order. A frame is delivered to every subscriber
// before the next one starts, and frames older than a delivered one are
// dropped.
func (c *Controller) emit(f Frame, subs []subscriber) {
	c.emitMu.Lock()
	i, _ := slices.BinarySearchFunc(c.pending, f.Seq, func(d delivery, seq uint64) int {
		return cmp.Compare(d.frame.Seq, seq)
	})
	c.pending = slices.Insert(c.pending, i, delivery{frame: f, subs: subs})
	if c.delivering {
		c.emitMu.Unlock()
		return
	}
	c.delivering = true

	for len(c.pending) > 0 {
		d := c.pending[0]
		c.pending = c.pending[1:]
		if d.frame.Seq <= c.delivered {
			continue
		}
		c.delivered = d.frame.Seq

		c.emitMu.Unlock()
		c.metrics.emissions.Inc()
		for _, s := range d.subs {
			s.fn(d.frame)
		}
		c.emitMu.Lock()
	}
	c.delivering = false
	c.emitMu.Unlock()
}

// Subscribe registers fn for every emitted Frame, in subscription order.
// fn may call back into the controller; frames emitted meanwhile are
// delivered after the current one reaches every subscriber, possibly on
// another goroutine. The returned func cancels the subscription.
func (c *Controller) Subscribe(fn func(Frame)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextSub++
	id := c.nextSub
	c.subs = append(c.subs, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.subs = slices.DeleteFunc(c.subs, func(s subscriber) bool { return s.id == id })
		})
	}
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Viewport returns the last viewport set, and false when none was set.
func (c *Controller) Viewport() (geocluster.BBox, float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bbox, c.zoom, c.hasViewport
}

// Index returns the published index, or nil before the first rebuild.
func (c *Controller) Index() *geocluster.Index {
	if snap := c.snap.Load(); snap != nil {
		return snap.index
	}
	return nil
}

// Points returns the indexed points: the point set after category
// filtering and coordinate validation.
func (c *Controller) Points() []geocluster.Point {
	if snap := c.snap.Load(); snap != nil {
		return slices.Clone(snap.points)
	}
	return nil
}

func (c *Controller) ready() (*snapshot, error) {
	snap := c.snap.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	return snap, nil
}

// RequestExpansion returns the zoom to move the camera to so that the
// cluster splits. The controller does not change its own viewport.
func (c *Controller) RequestExpansion(id geocluster.ClusterID) (int, error) {
	snap, err := c.ready()
	if err != nil {
		return 0, err
	}
	return snap.index.ExpansionZoom(id)
}

// Members returns the points under a cluster of the published index.
func (c *Controller) Members(id geocluster.ClusterID) ([]geocluster.Point, error) {
	snap, err := c.ready()
	if err != nil {
		return nil, err
	}
	return snap.index.Members(id)
}

// Coverage returns the hull polygon of a cluster of the published index.
func (c *Controller) Coverage(id geocluster.ClusterID) ([]geocluster.Coordinate, error) {
	snap, err := c.ready()
	if err != nil {
		return nil, err
	}
	return snap.index.Coverage(id)
}

// StackCounts returns, per indexed point id, the size of its overlap stack
// at the current zoom.
func (c *Controller) StackCounts() (map[string]int, error) {
	snap, err := c.ready()
	if err != nil {
		return nil, err
	}
	_, zoom, _ := c.Viewport()
	return overlap.StackCounts(snap.points, zoom, c.opts.Tolerance), nil
}
