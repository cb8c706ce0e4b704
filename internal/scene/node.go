/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"goboard/internal/domain"
	"goboard/internal/vector"
)

// KindSection tags render nodes mirroring sections rather than elements.
const KindSection domain.ElementType = "section"

// Style carries the resolved paint attributes of a node.
type Style struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
	Opacity     float64
}

// Node is the live drawable counterpart of one element or section, owned
// exclusively by the Synchronizer and keyed by id in its pool. Renderers
// read nodes; they never write them.
type Node struct {
	ID   string
	Type domain.ElementType

	// Bounds is the node's world-space bounding box.
	Bounds vector.Rect
	Style  Style

	// Text layout, for text-bearing nodes.
	Lines      []string
	LineHeight float64
	FontSize   float64

	// Title is the section name for section nodes.
	Title string

	// Table geometry: uniform grid derived from Rows/Cols.
	RowHeights []float64
	ColWidths  []float64

	// Points is the stroke polyline in world space.
	Points []vector.Pt

	// Start/End are resolved connector endpoints in world space.
	Start vector.Pt
	End   vector.Pt
}
