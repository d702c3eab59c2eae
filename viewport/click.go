// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package viewport

import (
	"github.com/2dChan/geocluster"
	"github.com/2dChan/geocluster/overlap"
)

// ClickKind tells the caller what to show for a point click.
type ClickKind int

const (
	// ClickNone means no indexed point lies at the target.
	ClickNone ClickKind = iota
	// ClickSingle means exactly one point lies at the target; show its details.
	ClickSingle
	// ClickZoomIn means several points overlap and the map should zoom in
	// to SuggestedZoom before they can be told apart.
	ClickZoomIn
	// ClickChoose means several points overlap at a zoom where zooming in
	// does not help; let the user pick one.
	ClickChoose
)

func (k ClickKind) String() string {
	switch k {
	case ClickNone:
		return "none"
	case ClickSingle:
		return "single"
	case ClickZoomIn:
		return "zoom-in"
	case ClickChoose:
		return "choose"
	}
	return "unknown"
}

// Click is the decision for a point click.
type Click struct {
	Kind ClickKind
	// Point is set for ClickSingle.
	Point geocluster.Point
	// Overlapping is set for ClickZoomIn and ClickChoose, in input order.
	Overlapping   []geocluster.Point
	SuggestedZoom float64
}

// HandlePointClick looks up the indexed points coincident with target at
// the current zoom.
func (c *Controller) HandlePointClick(target geocluster.Coordinate) (Click, error) {
	snap, err := c.ready()
	if err != nil {
		return Click{}, err
	}
	_, zoom, _ := c.Viewport()
	tol := c.opts.Tolerance

	matches := overlap.FindCoincident(snap.points, target, zoom, tol)
	switch {
	case len(matches) == 0:
		return Click{Kind: ClickNone}, nil
	case len(matches) == 1:
		return Click{Kind: ClickSingle, Point: matches[0]}, nil
	case zoom < tol.ZoomThreshold:
		c.logger.Debug("overlapping points below threshold", "count", len(matches), "zoom", zoom)
		return Click{Kind: ClickZoomIn, Overlapping: matches, SuggestedZoom: tol.ZoomThreshold}, nil
	}
	return Click{Kind: ClickChoose, Overlapping: matches}, nil
}
