/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model for Go Board: elements, sections and
// the board manifest. Structures serialize to a human-readable JSON manifest.

import (
	"time"

	"goboard/internal/vector"
)

// ElementType tags the shape variant of an Element.
type ElementType string

const (
	TypeRectangle   ElementType = "rectangle"
	TypeEllipse     ElementType = "ellipse"
	TypeCircle      ElementType = "circle"
	TypeTriangle    ElementType = "triangle"
	TypeStar        ElementType = "star"
	TypeText        ElementType = "text"
	TypeStickyNote  ElementType = "sticky-note"
	TypeImage       ElementType = "image"
	TypeTable       ElementType = "table"
	TypePen         ElementType = "pen"
	TypeMarker      ElementType = "marker"
	TypeHighlighter ElementType = "highlighter"
	TypeConnector   ElementType = "connector"
	TypeLine        ElementType = "line"
)

// IsStroke reports whether the type is a freehand polyline variant.
func (t ElementType) IsStroke() bool {
	return t == TypePen || t == TypeMarker || t == TypeHighlighter
}

// IsConnector reports whether the type is a connector or plain line.
func (t ElementType) IsConnector() bool { return t == TypeConnector || t == TypeLine }

// IsCircular reports whether the shape is drawn from a center and radius.
func (t ElementType) IsCircular() bool { return t == TypeCircle }

// Anchor names an attachment location on an element boundary.
type Anchor string

const (
	AnchorN      Anchor = "n"
	AnchorNE     Anchor = "ne"
	AnchorE      Anchor = "e"
	AnchorSE     Anchor = "se"
	AnchorS      Anchor = "s"
	AnchorSW     Anchor = "sw"
	AnchorW      Anchor = "w"
	AnchorNW     Anchor = "nw"
	AnchorCenter Anchor = "center"
)

// Endpoint is one end of a connector. X/Y are world coordinates. When
// ElementID is set the endpoint is bound to that element at the named anchor
// and is recomputed whenever the host moves.
type Endpoint struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	ElementID string  `json:"elementId,omitempty"`
	Anchor    Anchor  `json:"anchor,omitempty"`
}

// Pt returns the endpoint position as a point.
func (e Endpoint) Pt() vector.Pt { return vector.Pt{X: e.X, Y: e.Y} }

// Element is a single visible canvas object. X/Y are relative to the owning
// section's origin when SectionID is set, otherwise to the world origin.
// Only the fields relevant to the element's type are meaningful; the rest
// stay at their zero values.
type Element struct {
	ID       string      `json:"id"`
	Type     ElementType `json:"type"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width,omitempty"`
	Height   float64     `json:"height,omitempty"`
	Radius   float64     `json:"radius,omitempty"`
	Rotation float64     `json:"rotation,omitempty"`

	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`

	Text     string  `json:"text,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`

	Rows int `json:"rows,omitempty"`
	Cols int `json:"cols,omitempty"`

	ImageRef string `json:"imageRef,omitempty"`

	// Points holds freehand stroke vertices, relative to X/Y.
	Points []vector.Pt `json:"points,omitempty"`

	// Start/End are set for connectors and lines.
	Start *Endpoint `json:"start,omitempty"`
	End   *Endpoint `json:"end,omitempty"`

	SectionID string `json:"sectionId,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Bounds computes the element's axis-aligned bounding box in its parent's
// coordinate space. It is derived, never stored.
func (e Element) Bounds() vector.Rect {
	switch {
	case e.Type.IsCircular():
		return vector.R(e.X-e.Radius, e.Y-e.Radius, 2*e.Radius, 2*e.Radius)
	case e.Type.IsConnector():
		if e.Start == nil || e.End == nil {
			return vector.R(e.X, e.Y, 0, 0)
		}
		return vector.Normalized(e.Start.Pt(), e.End.Pt())
	case e.Type.IsStroke():
		if len(e.Points) == 0 {
			return vector.R(e.X, e.Y, 0, 0)
		}
		minX, minY := e.Points[0].X, e.Points[0].Y
		maxX, maxY := minX, minY
		for _, p := range e.Points[1:] {
			if p.X < minX {
				minX = p.X
			}
			if p.Y < minY {
				minY = p.Y
			}
			if p.X > maxX {
				maxX = p.X
			}
			if p.Y > maxY {
				maxY = p.Y
			}
		}
		return vector.R(e.X+minX, e.Y+minY, maxX-minX, maxY-minY)
	default:
		return vector.R(e.X, e.Y, e.Width, e.Height)
	}
}

// Center returns the center of the element's bounding box.
func (e Element) Center() vector.Pt { return e.Bounds().Center() }

// Section is a rectangular grouping container. Contained elements store
// positions relative to the section origin. Sections do not nest.
type Section struct {
	ID     string  `json:"id"`
	Name   string  `json:"name,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Fill   string  `json:"fill,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Rect returns the section's world rectangle.
func (s Section) Rect() vector.Rect { return vector.R(s.X, s.Y, s.Width, s.Height) }

// Origin returns the section's world origin.
func (s Section) Origin() vector.Pt { return vector.Pt{X: s.X, Y: s.Y} }

/// Board is the manifest-level document: metadata plus the authoritative
// element and section collections.
type Board struct {
	Name     string    `json:"name"`
	Metadata Metadata  `json:"metadata,omitempty"`
	Sections []Section `json:"sections"`
	Elements []Element `json:"elements"`
}

// Metadata contains optional descriptive metadata for a board.
type Metadata struct {
	Owner string `json:"owner,omitempty"`
	Notes string `json:"notes,omitempty"`
}
