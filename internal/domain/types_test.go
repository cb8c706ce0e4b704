/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"encoding/json"
	"testing"

	"goboard/internal/vector"
)

func TestBoundsRectangle(t *testing.T) {
	e := Element{Type: TypeRectangle, X: 10, Y: 20, Width: 100, Height: 50}
	b := e.Bounds()
	if b != vector.R(10, 20, 100, 50) {
		t.Fatalf("unexpected bounds %+v", b)
	}
}

func TestBoundsCircleIsCenterPlusMinusRadius(t *testing.T) {
	e := Element{Type: TypeCircle, X: 50, Y: 60, Radius: 15}
	b := e.Bounds()
	if b != vector.R(35, 45, 30, 30) {
		t.Fatalf("unexpected circle bounds %+v", b)
	}
}

func TestBoundsConnectorSpansEndpoints(t *testing.T) {
	e := Element{
		Type:  TypeConnector,
		Start: &Endpoint{X: 100, Y: 10},
		End:   &Endpoint{X: 20, Y: 90},
	}
	b := e.Bounds()
	if b != vector.R(20, 10, 80, 80) {
		t.Fatalf("unexpected connector bounds %+v", b)
	}
}

func TestBoundsStrokeOffsetByOrigin(t *testing.T) {
	e := Element{
		Type:   TypePen,
		X:      5,
		Y:      5,
		Points: []vector.Pt{{X: 0, Y: 0}, {X: 10, Y: -4}, {X: 3, Y: 8}},
	}
	b := e.Bounds()
	if b != vector.R(5, 1, 10, 12) {
		t.Fatalf("unexpected stroke bounds %+v", b)
	}
}

func TestBoundsDegenerateConnector(t *testing.T) {
	e := Element{Type: TypeConnector, X: 7, Y: 9}
	b := e.Bounds()
	if b.X != 7 || b.Y != 9 || b.W != 0 || b.H != 0 {
		t.Fatalf("expected zero-size bounds at origin, got %+v", b)
	}
}

func TestBoardRoundTripsThroughJSON(t *testing.T) {
	board := Board{
		Name:     "retro",
		Sections: []Section{{ID: "s1", Name: "Ideas", X: 0, Y: 0, Width: 300, Height: 200}},
		Elements: []Element{
			{ID: "e1", Type: TypeStickyNote, X: 10, Y: 10, Width: 200, Height: 200, Text: "hello", SectionID: "s1"},
			{ID: "e2", Type: TypeConnector, Start: &Endpoint{X: 0, Y: 0, ElementID: "e1", Anchor: AnchorE}, End: &Endpoint{X: 50, Y: 50}},
		},
	}
	data, err := json.Marshal(board)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Board
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Elements[1].Start.Anchor != AnchorE || got.Elements[1].Start.ElementID != "e1" {
		t.Fatalf("connector binding lost in round trip: %+v", got.Elements[1].Start)
	}
	if got.Elements[0].SectionID != "s1" {
		t.Fatalf("sectionId lost in round trip")
	}
}
