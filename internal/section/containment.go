/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package section implements the nested coordinate space created by grouping
// elements inside a section: world/local conversion, drag clamping and
// reparenting rules. Sections do not nest.
package section

import (
	"goboard/internal/domain"
	"goboard/internal/vector"
)

const (
	// DefaultPadding keeps contained elements off the section border.
	DefaultPadding = 5.0
	// DefaultTitleBarHeight reserves the header strip at the section top.
	DefaultTitleBarHeight = 32.0
)

// Rules carries the containment tuning; zero values fall back to defaults.
type Rules struct {
	Padding        float64
	TitleBarHeight float64
}

// DefaultRules returns the editor defaults.
func DefaultRules() Rules {
	return Rules{Padding: DefaultPadding, TitleBarHeight: DefaultTitleBarHeight}
}

func (r Rules) padding() float64 {
	if r.Padding <= 0 {
		return DefaultPadding
	}
	return r.Padding
}

func (r Rules) titleBar() float64 {
	if r.TitleBarHeight <= 0 {
		return DefaultTitleBarHeight
	}
	return r.TitleBarHeight
}

// WorldToLocal converts a world point into s's local coordinate space.
func WorldToLocal(s domain.Section, p vector.Pt) vector.Pt { return p.Sub(s.Origin()) }

// LocalToWorld converts a section-local point back to world space. For a
// stationary section this is the exact inverse of WorldToLocal.
func LocalToWorld(s domain.Section, p vector.Pt) vector.Pt { return p.Add(s.Origin()) }

// ClampDrag clamps a candidate world-space top-left position for an element
// of size w×h so its box stays inside the section's content area (below the
// title bar, inside the padding on the other sides). The clamped position is
// returned in world space.
func (r Rules) ClampDrag(s domain.Section, world vector.Pt, w, h float64) vector.Pt {
	local := WorldToLocal(s, world)
	pad := r.padding()
	minX := pad
	maxX := s.Width - w - pad
	minY := r.titleBar() + pad
	maxY := s.Height - h - pad
	// Oversized elements pin to the top-left of the content area.
	if maxX < minX {
		maxX = minX
	}
	if maxY < minY {
		maxY = minY
	}
	if local.X < minX {
		local.X = minX
	}
	if local.X > maxX {
		local.X = maxX
	}
	if local.Y < minY {
		local.Y = minY
	}
	if local.Y > maxY {
		local.Y = maxY
	}
	return LocalToWorld(s, local)
}

// OwningSection returns the section whose world rectangle contains the given
// center point. When overlapping sections both contain the point, the
// smallest area wins; equal areas fall back to ascending id. This replaces
// the iteration-order ambiguity of earlier revisions with a deterministic
// policy.
func OwningSection(center vector.Pt, sections []domain.Section) (domain.Section, bool) {
	var best domain.Section
	found := false
	for _, s := range sections {
		if !s.Rect().Contains(center) {
			continue
		}
		if !found {
			best = s
			found = true
			continue
		}
		area := s.Width * s.Height
		bestArea := best.Width * best.Height
		if area < bestArea || (area == bestArea && s.ID < best.ID) {
			best = s
		}
	}
	return best, found
}

// Sanitize strips floating-point drift from a position before it is
// persisted, rounding to 3 decimal places.
func Sanitize(p vector.Pt) vector.Pt {
	return vector.Pt{X: vector.FloatRound(p.X, 3), Y: vector.FloatRound(p.Y, 3)}
}

// ResolveWorld returns a copy of e with its position translated into world
// space using the owning section's origin. Elements without a (known)
// section are returned unchanged.
func ResolveWorld(e domain.Element, byID map[string]domain.Section) domain.Element {
	if e.SectionID == "" {
		return e
	}
	s, ok := byID[e.SectionID]
	if !ok {
		return e
	}
	e.X += s.X
	e.Y += s.Y
	return e
}

// ByID builds a lookup map over the section collection.
func ByID(sections []domain.Section) map[string]domain.Section {
	m := make(map[string]domain.Section, len(sections))
	for _, s := range sections {
		m[s.ID] = s
	}
	return m
}
