// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package viewport drives a geocluster Index from a map viewport. A
// Controller owns the current point set, category filter and viewport,
// rebuilds the index when the data changes and emits the visible nodes to
// subscribers as Frames.

package viewport

import (
	"errors"

	"github.com/2dChan/geocluster"
)

// ErrNotReady is returned by lookups made before the first index is published.
var ErrNotReady = errors.New("viewport: index not ready")

// State is the lifecycle state of a Controller.
type State int32

const (
	// Idle means no point set was ever supplied.
	Idle State = iota
	// Loading means a rebuild is in progress.
	Loading
	// Ready means an index is published and no newer rebuild is pending.
	Ready
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	}
	return "unknown"
}

// Frame is one emission of visible nodes. Seq grows with every emission of a
// Controller. Nodes is shared between subscribers and must not be modified.
type Frame struct {
	Seq  uint64
	BBox geocluster.BBox
	Zoom float64
	// Level is the integer zoom the nodes were taken from.
	Level int
	Nodes []geocluster.Node
}

// Categorizer is implemented by point payloads that carry a category key.
type Categorizer interface {
	Category() string
}

// PayloadCategory returns the category of p's payload, or "" when the
// payload does not implement Categorizer.
func PayloadCategory(p geocluster.Point) string {
	if c, ok := p.Payload.(Categorizer); ok {
		return c.Category()
	}
	return ""
}
