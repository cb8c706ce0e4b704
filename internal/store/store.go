/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package store defines the authoritative element/section store contract the
// canvas engine consumes, and a memory-backed implementation. Persistence is
// layered on top by internal/storage; undo/redo lives with the store owner,
// not in the engine.
package store

import (
	"goboard/internal/domain"
	"goboard/internal/vector"
)

// ElementPatch is a partial element update; nil fields are left unchanged.
// SectionID set to a pointer-to-empty string detaches the element.
type ElementPatch struct {
	X           *float64
	Y           *float64
	Width       *float64
	Height      *float64
	Radius      *float64
	Rotation    *float64
	Fill        *string
	Stroke      *string
	StrokeWidth *float64
	Opacity     *float64
	Text        *string
	FontSize    *float64
	Rows        *int
	Cols        *int
	Points      *[]vector.Pt
	Start       *domain.Endpoint
	End         *domain.Endpoint
	SectionID   *string
}

// SectionPatch is a partial section update; nil fields are left unchanged.
type SectionPatch struct {
	X      *float64
	Y      *float64
	Width  *float64
	Height *float64
	Name   *string
	Fill   *string
}

// Interface is the read/write contract of the external store. All engine
// mutations route through it; the engine never mutates render nodes to
// change the document.
type Interface interface {
	Elements() []domain.Element
	Sections() []domain.Section
	Element(id string) (domain.Element, bool)
	Section(id string) (domain.Section, bool)

	AddElement(e domain.Element) string
	UpdateElement(id string, p ElementPatch) bool
	DeleteElement(id string) bool

	CreateSection(x, y, w, h float64) string
	UpdateSection(id string, p SectionPatch) bool

	Selection() []string
	SetSelection(ids []string)

	ActiveTool() string
	SetActiveTool(tool string)
}

// Pointer helpers for building patches.

func F(v float64) *float64                 { return &v }
func S(v string) *string                   { return &v }
func I(v int) *int                         { return &v }
func P(v []vector.Pt) *[]vector.Pt         { return &v }
func E(v domain.Endpoint) *domain.Endpoint { return &v }

// Apply merges the patch into e in place.
func (p ElementPatch) Apply(e *domain.Element) {
	if p.X != nil {
		e.X = *p.X
	}
	if p.Y != nil {
		e.Y = *p.Y
	}
	if p.Width != nil {
		e.Width = *p.Width
	}
	if p.Height != nil {
		e.Height = *p.Height
	}
	if p.Radius != nil {
		e.Radius = *p.Radius
	}
	if p.Rotation != nil {
		e.Rotation = *p.Rotation
	}
	if p.Fill != nil {
		e.Fill = *p.Fill
	}
	if p.Stroke != nil {
		e.Stroke = *p.Stroke
	}
	if p.StrokeWidth != nil {
		e.StrokeWidth = *p.StrokeWidth
	}
	if p.Opacity != nil {
		e.Opacity = *p.Opacity
	}
	if p.Text != nil {
		e.Text = *p.Text
	}
	if p.FontSize != nil {
		e.FontSize = *p.FontSize
	}
	if p.Rows != nil {
		e.Rows = *p.Rows
	}
	if p.Cols != nil {
		e.Cols = *p.Cols
	}
	if p.Points != nil {
		e.Points = *p.Points
	}
	if p.Start != nil {
		e.Start = p.Start
	}
	if p.End != nil {
		e.End = p.End
	}
	if p.SectionID != nil {
		e.SectionID = *p.SectionID
	}
}

// Apply merges the patch into s in place.
func (p SectionPatch) Apply(s *domain.Section) {
	if p.X != nil {
		s.X = *p.X
	}
	if p.Y != nil {
		s.Y = *p.Y
	}
	if p.Width != nil {
		s.Width = *p.Width
	}
	if p.Height != nil {
		s.Height = *p.Height
	}
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Fill != nil {
		s.Fill = *p.Fill
	}
}
