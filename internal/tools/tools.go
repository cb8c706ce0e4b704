/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package tools implements the pointer-event state machine of the editor.
// Exactly one tool is active at a time; switching tools cancels any gesture
// in progress. Tools mutate the document only through the store interface.
package tools

import (
	"goboard/internal/domain"
	"goboard/internal/vector"
)

// Tool names the active interaction mode.
type Tool string

const (
	ToolSelect      Tool = "select"
	ToolPan         Tool = "pan"
	ToolText        Tool = "text"
	ToolRectangle   Tool = "rectangle"
	ToolEllipse     Tool = "ellipse"
	ToolCircle      Tool = "circle"
	ToolTriangle    Tool = "triangle"
	ToolStar        Tool = "star"
	ToolPen         Tool = "pen"
	ToolMarker      Tool = "marker"
	ToolHighlighter Tool = "highlighter"
	ToolConnector   Tool = "connector"
	ToolLine        Tool = "line"
	ToolSection     Tool = "section"
	ToolStickyNote  Tool = "sticky-note"
	ToolImage       Tool = "image"
	ToolTable       Tool = "table"
)

// StickySize is the fixed side length of a click-placed sticky note.
const StickySize = 200.0

var known = map[Tool]bool{
	ToolSelect: true, ToolPan: true, ToolText: true,
	ToolRectangle: true, ToolEllipse: true, ToolCircle: true,
	ToolTriangle: true, ToolStar: true,
	ToolPen: true, ToolMarker: true, ToolHighlighter: true,
	ToolConnector: true, ToolLine: true,
	ToolSection: true, ToolStickyNote: true, ToolImage: true, ToolTable: true,
}

// Normalize maps an unrecognized tool value to select.
func Normalize(t Tool) Tool {
	if known[t] {
		return t
	}
	return ToolSelect
}

// IsDrawToSize reports whether the tool creates elements by dragging out a
// rectangle.
func (t Tool) IsDrawToSize() bool {
	switch t {
	case ToolRectangle, ToolEllipse, ToolCircle, ToolTriangle, ToolStar,
		ToolText, ToolTable, ToolSection, ToolImage:
		return true
	}
	return false
}

// IsStroke reports whether the tool draws freehand polylines.
func (t Tool) IsStroke() bool {
	return t == ToolPen || t == ToolMarker || t == ToolHighlighter
}

// IsConnector reports whether the tool draws connectors or plain lines.
func (t Tool) IsConnector() bool { return t == ToolConnector || t == ToolLine }

// MinSize returns the minimum drag extent below which a draw-to-size gesture
// is discarded.
func (t Tool) MinSize() vector.Size {
	switch t {
	case ToolText:
		return vector.Size{W: 100, H: 24}
	case ToolTable:
		return vector.Size{W: 200, H: 100}
	case ToolSection:
		return vector.Size{W: 10, H: 10}
	default:
		return vector.Size{W: 5, H: 5}
	}
}

// ElementType maps a creation tool to the element type it produces.
func (t Tool) ElementType() domain.ElementType {
	switch t {
	case ToolRectangle:
		return domain.TypeRectangle
	case ToolEllipse:
		return domain.TypeEllipse
	case ToolCircle:
		return domain.TypeCircle
	case ToolTriangle:
		return domain.TypeTriangle
	case ToolStar:
		return domain.TypeStar
	case ToolText:
		return domain.TypeText
	case ToolTable:
		return domain.TypeTable
	case ToolImage:
		return domain.TypeImage
	case ToolStickyNote:
		return domain.TypeStickyNote
	case ToolPen:
		return domain.TypePen
	case ToolMarker:
		return domain.TypeMarker
	case ToolHighlighter:
		return domain.TypeHighlighter
	case ToolConnector:
		return domain.TypeConnector
	case ToolLine:
		return domain.TypeLine
	default:
		return ""
	}
}
