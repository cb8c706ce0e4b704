//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// These tests validate the Fyne-based UI components. They are gated behind the
// "fyne" build tag so CI (which is headless) does not need Fyne or a display.
// To run locally:
//
//	go test -tags fyne ./internal/ui
//
// Ensure you have the Fyne dependencies installed and a working OS driver.
package ui

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2"

	"goboard/internal/domain"
	"goboard/internal/engine"
	"goboard/internal/store"
)

func testEngine() *engine.Engine {
	st := store.FromBoard(domain.Board{
		Sections: []domain.Section{
			{ID: "s1", Name: "Notes", X: 0, Y: 0, Width: 300, Height: 200},
		},
		Elements: []domain.Element{
			{ID: "e1", Type: domain.TypeRectangle, X: 400, Y: 50, Width: 100, Height: 80, Fill: "#ffcc00"},
			{ID: "e2", Type: domain.TypeCircle, X: 600, Y: 100, Radius: 40, Stroke: "#0000ff"},
		},
	})
	eng := engine.New(st, engine.Config{})
	eng.SyncElements()
	return eng
}

func TestBoardCanvasRendererDrawsNodes(t *testing.T) {
	bc := NewBoardCanvas(testEngine())
	r, ok := bc.CreateRenderer().(*boardCanvasRenderer)
	if !ok {
		t.Fatalf("expected boardCanvasRenderer, got %T", bc.CreateRenderer())
	}
	r.Layout(fyne.NewSize(1000, 800))

	// Background plus a section, its title, a rectangle and a circle.
	if got := len(r.Objects()); got < 5 {
		t.Fatalf("expected at least 5 canvas objects, got %d", got)
	}
}

func TestBoardCanvasSelectionOutline(t *testing.T) {
	eng := testEngine()
	eng.SyncSelection([]string{"e1"})
	bc := NewBoardCanvas(eng)
	r := bc.CreateRenderer().(*boardCanvasRenderer)

	r.Layout(fyne.NewSize(1000, 800))
	base := len(r.Objects())

	eng.SyncSelection(nil)
	r.Layout(fyne.NewSize(1000, 800))
	if len(r.Objects()) >= base {
		t.Fatalf("clearing the selection should drop the outline: %d -> %d", base, len(r.Objects()))
	}
}

func TestParseHex(t *testing.T) {
	def := color.NRGBA{R: 1, G: 2, B: 3, A: 255}
	if c := parseHex("#ffcc00", def); c != (color.NRGBA{R: 0xff, G: 0xcc, B: 0x00, A: 255}) {
		t.Fatalf("parseHex: %v", c)
	}
	if c := parseHex("nonsense", def); c != def {
		t.Fatalf("expected default for invalid input, got %v", c)
	}
	if c := parseHex("#GGGGGG", def); c != def {
		t.Fatalf("expected default for bad digits, got %v", c)
	}
}
