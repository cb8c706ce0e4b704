/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
	"goboard/internal/domain"
	"goboard/internal/section"
	"goboard/internal/storage"
)

// PDFOptions controls PDF export behavior.
// Units are points (pt); world units map 1:1 onto page points.
// Vector text uses built-in Helvetica for portability.
//
// The page is sized to the board's content bounds plus Margin, so the whole
// board lands on one page regardless of where content sits in world space.
//
//nolint:revive // keep options grouped and explicit for clarity
type PDFOptions struct {
	IncludeFrame bool
	Margin       float64
}

// ExportBoardPDF exports the board to a single-page PDF placed at outPath.
func ExportBoardPDF(bh *storage.BoardHandle, outPath string, opt PDFOptions) error {
	if bh == nil {
		return fmt.Errorf("board handle is nil")
	}
	b := bh.Board

	margin := opt.Margin
	if margin <= 0 {
		margin = 20
	}
	bounds := contentBounds(b, margin)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: bounds.W, Ht: bounds.H},
		OrientationStr: "",
	})
	pdf.SetTitle(fmt.Sprintf("%s — Board PDF", b.Name), false)
	pdf.SetAuthor("Go Board", false)
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: bounds.W, Ht: bounds.H})

	// Page coordinates: world point minus bounds origin.
	tx := func(x float64) float64 { return x - bounds.X }
	ty := func(y float64) float64 { return y - bounds.Y }

	if opt.IncludeFrame {
		pdf.SetDrawColor(255, 0, 0)
		pdf.SetLineWidth(0.2)
		pdf.Rect(margin/2, margin/2, bounds.W-margin, bounds.H-margin, "D")
	}

	for _, s := range b.Sections {
		setPDFFill(pdf, s.Fill, color.RGBA{245, 245, 245, 255})
		pdf.SetDrawColor(136, 136, 136)
		pdf.SetLineWidth(1)
		pdf.Rect(tx(s.X), ty(s.Y), s.Width, s.Height, "FD")
		if s.Name != "" {
			pdf.SetFont("Helvetica", "", 14)
			pdf.Text(tx(s.X)+8, ty(s.Y)+20, s.Name)
		}
	}

	byID := section.ByID(b.Sections)
	for _, raw := range b.Elements {
		e := section.ResolveWorld(raw, byID)
		sw := e.StrokeWidth
		if sw <= 0 {
			sw = 1
		}
		setPDFDraw(pdf, e.Stroke, color.RGBA{51, 51, 51, 255})
		pdf.SetLineWidth(sw)
		style := "D"
		if e.Fill != "" {
			setPDFFill(pdf, e.Fill, color.RGBA{255, 255, 255, 255})
			style = "FD"
		}

		switch e.Type {
		case domain.TypeEllipse:
			pdf.Ellipse(tx(e.X)+e.Width/2, ty(e.Y)+e.Height/2, e.Width/2, e.Height/2, 0, style)
		case domain.TypeCircle:
			pdf.Ellipse(tx(e.X), ty(e.Y), e.Radius, e.Radius, 0, style)
		case domain.TypeTriangle:
			r := e.Bounds()
			pts := []gofpdf.PointType{
				{X: tx(r.X + r.W/2), Y: ty(r.Y)},
				{X: tx(r.X + r.W), Y: ty(r.Y + r.H)},
				{X: tx(r.X), Y: ty(r.Y + r.H)},
			}
			pdf.Polygon(pts, style)
		case domain.TypeStar:
			pdf.Polygon(starPointsPDF(e, tx, ty), style)
		case domain.TypePen, domain.TypeMarker, domain.TypeHighlighter:
			for i := 1; i < len(e.Points); i++ {
				p0, p1 := e.Points[i-1], e.Points[i]
				pdf.Line(tx(e.X+p0.X), ty(e.Y+p0.Y), tx(e.X+p1.X), ty(e.Y+p1.Y))
			}
		case domain.TypeConnector, domain.TypeLine:
			if e.Start == nil || e.End == nil {
				continue
			}
			pdf.Line(tx(e.Start.X), ty(e.Start.Y), tx(e.End.X), ty(e.End.Y))
		case domain.TypeTable:
			pdf.Rect(tx(e.X), ty(e.Y), e.Width, e.Height, style)
			rows, cols := e.Rows, e.Cols
			if rows < 1 {
				rows = 1
			}
			if cols < 1 {
				cols = 1
			}
			for i := 1; i < rows; i++ {
				y := ty(e.Y) + e.Height*float64(i)/float64(rows)
				pdf.Line(tx(e.X), y, tx(e.X)+e.Width, y)
			}
			for j := 1; j < cols; j++ {
				x := tx(e.X) + e.Width*float64(j)/float64(cols)
				pdf.Line(x, ty(e.Y), x, ty(e.Y)+e.Height)
			}
		default:
			pdf.Rect(tx(e.X), ty(e.Y), e.Width, e.Height, style)
			if e.Text != "" {
				fsz := e.FontSize
				if fsz <= 0 {
					fsz = 14
				}
				pdf.SetFont("Helvetica", "", fsz)
				pdf.Text(tx(e.X)+6, ty(e.Y)+6+fsz, e.Text)
			}
		}
	}

	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(bh.Root, "exports", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func starPointsPDF(e domain.Element, tx, ty func(float64) float64) []gofpdf.PointType {
	// Reuse the SVG vertex math via the shared bounds walk.
	r := e.Bounds()
	verts := starVertices(r)
	out := make([]gofpdf.PointType, len(verts))
	for i, p := range verts {
		out[i] = gofpdf.PointType{X: tx(p.X), Y: ty(p.Y)}
	}
	return out
}

func setPDFDraw(pdf *gofpdf.Fpdf, hex string, def color.RGBA) {
	c := parseHexColor(hex, def)
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setPDFFill(pdf *gofpdf.Fpdf, hex string, def color.RGBA) {
	c := parseHexColor(hex, def)
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
