/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"goboard/internal/domain"
	"goboard/internal/storage"
	"goboard/internal/vector"
)

func testHandle(t *testing.T) *storage.BoardHandle {
	t.Helper()
	b := domain.Board{
		Name: "Export Me",
		Sections: []domain.Section{
			{ID: "s1", Name: "Ideas", X: 0, Y: 0, Width: 300, Height: 200, Fill: "#eef2ff"},
		},
		Elements: []domain.Element{
			{ID: "e1", Type: domain.TypeRectangle, X: 400, Y: 50, Width: 100, Height: 80, Fill: "#ffcc00", Stroke: "#333333", StrokeWidth: 2},
			{ID: "e2", Type: domain.TypeCircle, X: 600, Y: 100, Radius: 40, Stroke: "#0000ff"},
			{ID: "e3", Type: domain.TypeStickyNote, X: 20, Y: 60, Width: 120, Height: 120, Text: "remember", SectionID: "s1"},
			{ID: "e4", Type: domain.TypePen, X: 700, Y: 200, Points: []vector.Pt{{X: 0, Y: 0}, {X: 30, Y: 10}, {X: 60, Y: 0}}, Stroke: "#333333", StrokeWidth: 2},
			{ID: "e5", Type: domain.TypeConnector, Start: &domain.Endpoint{X: 500, Y: 90}, End: &domain.Endpoint{X: 600, Y: 100}},
			{ID: "e6", Type: domain.TypeTable, X: 100, Y: 400, Width: 200, Height: 100, Rows: 2, Cols: 2},
		},
	}
	bh, err := storage.InitBoard(filepath.Join(t.TempDir(), "board"), b)
	if err != nil {
		t.Fatalf("InitBoard: %v", err)
	}
	return bh
}

func TestExportBoardSVGContainsShapes(t *testing.T) {
	bh := testHandle(t)
	if err := ExportBoardSVG(bh, "out.svg", SVGOptions{}); err != nil {
		t.Fatalf("ExportBoardSVG: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(bh.Root, "exports", "out.svg"))
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	s := string(data)
	for _, want := range []string{"<svg", "<circle", "<polyline", "<line", "Ideas", "remember"} {
		if !strings.Contains(s, want) {
			t.Fatalf("svg missing %q", want)
		}
	}
	// Sticky lives in a section; its text must land at world coordinates.
	if !strings.Contains(s, `x="26"`) {
		t.Fatalf("section-local element not resolved to world: %s", s[:200])
	}
}

func TestExportBoardSVGEscapesText(t *testing.T) {
	bh := testHandle(t)
	bh.Board.Elements[2].Text = "a <b> & c"
	if err := ExportBoardSVG(bh, "esc.svg", SVGOptions{}); err != nil {
		t.Fatalf("ExportBoardSVG: %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(bh.Root, "exports", "esc.svg"))
	if !bytes.Contains(data, []byte("a &lt;b&gt; &amp; c")) {
		t.Fatalf("text not escaped")
	}
}

func TestExportBoardPNGProducesDecodableImage(t *testing.T) {
	bh := testHandle(t)
	if err := ExportBoardPNG(bh, "out.png", PNGOptions{Scale: 1}); err != nil {
		t.Fatalf("ExportBoardPNG: %v", err)
	}
	f, err := os.Open(filepath.Join(bh.Root, "exports", "out.png"))
	if err != nil {
		t.Fatalf("open png: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	// Content spans roughly x in [0,740], y in [0,500] plus default margin 20
	// on each side.
	w := img.Bounds().Dx()
	if w < 700 || w > 900 {
		t.Fatalf("unexpected raster width %d", w)
	}
}

func TestExportBoardPDFWritesFile(t *testing.T) {
	bh := testHandle(t)
	if err := ExportBoardPDF(bh, "out.pdf", PDFOptions{IncludeFrame: true}); err != nil {
		t.Fatalf("ExportBoardPDF: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(bh.Root, "exports", "out.pdf"))
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestBatchExportPresetWeb(t *testing.T) {
	bh := testHandle(t)
	if err := BatchExport(bh, BatchOptions{Preset: PresetWeb}); err != nil {
		t.Fatalf("BatchExport: %v", err)
	}
	for _, p := range []string{
		filepath.Join("exports", "web", "png", "board.png"),
		filepath.Join("exports", "web", "svg", "board.svg"),
	} {
		if _, err := os.Stat(filepath.Join(bh.Root, p)); err != nil {
			t.Fatalf("missing %s: %v", p, err)
		}
	}
	// Web preset does not include pdf.
	if _, err := os.Stat(filepath.Join(bh.Root, "exports", "web", "pdf")); err == nil {
		t.Fatalf("web preset should not emit pdf")
	}
}

func TestBatchExportRejectsUnknownFormat(t *testing.T) {
	bh := testHandle(t)
	if err := BatchExport(bh, BatchOptions{Formats: []string{"docx"}}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestContentBoundsUnionsSectionsAndElements(t *testing.T) {
	bh := testHandle(t)
	r := contentBounds(bh.Board, 10)
	if r.X < -10.001 || r.X > -9.999 {
		t.Fatalf("left edge wrong: %v", r)
	}
	// Circle e2 extends to x=640; pen e4 to x=760.
	if r.Max().X < 760 {
		t.Fatalf("right edge must cover stroke extent: %v", r)
	}
	if r.Max().Y < 510 {
		t.Fatalf("bottom edge must cover table: %v", r)
	}
}
