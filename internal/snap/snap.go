/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package snap computes connector attachment points on element boundaries
// and alignment guides for interactive drags. All inputs are expected in
// world space; the functions are deterministic for unit testing.
package snap

import (
	"goboard/internal/domain"
	"goboard/internal/vector"
)

// DefaultThreshold is the connector snap radius in screen units.
const DefaultThreshold = 20.0

// Point is a candidate attachment location on an element boundary.
type Point struct {
	ElementID string
	Anchor    domain.Anchor
	Pos       vector.Pt
}

// boxAnchors lists the anchor set for box-like shapes.
var boxAnchors = []domain.Anchor{
	domain.AnchorN, domain.AnchorNE, domain.AnchorE, domain.AnchorSE,
	domain.AnchorS, domain.AnchorSW, domain.AnchorW, domain.AnchorNW,
	domain.AnchorCenter,
}

// circleAnchors lists the anchor set for circular shapes: the four cardinal
// points on the circle plus its center.
var circleAnchors = []domain.Anchor{
	domain.AnchorN, domain.AnchorE, domain.AnchorS, domain.AnchorW,
	domain.AnchorCenter,
}

// ResolveAnchor returns the world position of a named anchor on an element.
// Unknown anchors resolve to the center.
func ResolveAnchor(e domain.Element, a domain.Anchor) vector.Pt {
	b := e.Bounds()
	cx, cy := b.X+b.W/2, b.Y+b.H/2
	switch a {
	case domain.AnchorN:
		return vector.Pt{X: cx, Y: b.Y}
	case domain.AnchorNE:
		return vector.Pt{X: b.X + b.W, Y: b.Y}
	case domain.AnchorE:
		return vector.Pt{X: b.X + b.W, Y: cy}
	case domain.AnchorSE:
		return vector.Pt{X: b.X + b.W, Y: b.Y + b.H}
	case domain.AnchorS:
		return vector.Pt{X: cx, Y: b.Y + b.H}
	case domain.AnchorSW:
		return vector.Pt{X: b.X, Y: b.Y + b.H}
	case domain.AnchorW:
		return vector.Pt{X: b.X, Y: cy}
	case domain.AnchorNW:
		return vector.Pt{X: b.X, Y: b.Y}
	default:
		return vector.Pt{X: cx, Y: cy}
	}
}

// CandidatePoints returns the attachment points of an element. Connectors
// and freehand strokes offer no attachment points.
func CandidatePoints(e domain.Element) []Point {
	if e.Type.IsConnector() || e.Type.IsStroke() {
		return nil
	}
	anchors := boxAnchors
	if e.Type.IsCircular() {
		anchors = circleAnchors
	}
	out := make([]Point, 0, len(anchors))
	for _, a := range anchors {
		out = append(out, Point{ElementID: e.ID, Anchor: a, Pos: ResolveAnchor(e, a)})
	}
	return out
}

// FindNearest scans all candidate points of the given elements and returns
// the closest one within threshold of the pointer, or ok=false when nothing
// qualifies. A threshold at or below zero uses DefaultThreshold.
func FindNearest(pointer vector.Pt, elements []domain.Element, threshold float64) (Point, bool) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	var best Point
	bestDist := threshold
	found := false
	for _, e := range elements {
		for _, c := range CandidatePoints(e) {
			d := pointer.Dist(c.Pos)
			if d < bestDist || (!found && d == bestDist) {
				best = c
				bestDist = d
				found = true
			}
		}
	}
	return best, found
}

// UpdateConnectorEndpoints recomputes the bound endpoints of a connector
// after its host elements moved, re-resolving the recorded anchor on the
// host's current geometry. Unbound endpoints and missing hosts are left as
// they are.
func UpdateConnectorEndpoints(conn *domain.Element, byID map[string]domain.Element) {
	if conn == nil || !conn.Type.IsConnector() {
		return
	}
	refresh := func(ep *domain.Endpoint) {
		if ep == nil || ep.ElementID == "" {
			return
		}
		host, ok := byID[ep.ElementID]
		if !ok {
			return
		}
		p := ResolveAnchor(host, ep.Anchor)
		ep.X = p.X
		ep.Y = p.Y
	}
	refresh(conn.Start)
	refresh(conn.End)
}
