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
	"fmt"
	"math"
	"os"
	"path/filepath"

	"goboard/internal/domain"
	"goboard/internal/section"
	"goboard/internal/storage"
	"goboard/internal/vector"
)

// SVGOptions controls SVG export behavior.
// The coordinate system matches the model (world units); a viewBox maps the
// board's content bounds onto the output. Margin adds padding around the
// content in world units.
//
//nolint:revive // clarity is preferred
type SVGOptions struct {
	IncludeFrame bool
	Margin       float64
	Background   string
}

// ExportBoardSVG exports the whole board as a single SVG file at outPath.
// A relative outPath is resolved under the board's exports folder.
func ExportBoardSVG(bh *storage.BoardHandle, outPath string, opt SVGOptions) error {
	if bh == nil {
		return fmt.Errorf("board handle is nil")
	}
	b := bh.Board

	margin := opt.Margin
	if margin <= 0 {
		margin = 20
	}
	bg := opt.Background
	if bg == "" {
		bg = "#ffffff"
	}
	bounds := contentBounds(b, margin)

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%gpx\" height=\"%gpx\" viewBox=\"%g %g %g %g\">\n",
		bounds.W, bounds.H, bounds.X, bounds.Y, bounds.W, bounds.H)
	wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n", bounds.X, bounds.Y, bounds.W, bounds.H, bg)

	if opt.IncludeFrame {
		inner := bounds.Inset(margin/2, margin/2)
		wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"none\" stroke=\"#ff0000\" stroke-width=\"0.5\"/>\n",
			inner.X, inner.Y, inner.W, inner.H)
	}

	// Sections render behind their content.
	for _, s := range b.Sections {
		fill := s.Fill
		if fill == "" {
			fill = "#f5f5f5"
		}
		wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\" stroke=\"#888888\" stroke-width=\"1\"/>\n",
			s.X, s.Y, s.Width, s.Height, fill)
		if s.Name != "" {
			wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"14\" fill=\"#333\">%s</text>\n",
				s.X+8, s.Y+20, escText(s.Name))
		}
	}

	byID := section.ByID(b.Sections)
	for _, el := range b.Elements {
		writeElementSVG(wf, section.ResolveWorld(el, byID))
	}

	wf("</svg>\n")
	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}

	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(bh.Root, "exports", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func writeElementSVG(wf func(string, ...any), e domain.Element) {
	fill := e.Fill
	if fill == "" {
		fill = "none"
	}
	stroke := e.Stroke
	if stroke == "" {
		stroke = "#333333"
	}
	sw := e.StrokeWidth
	if sw <= 0 {
		sw = 1
	}

	switch e.Type {
	case domain.TypeEllipse:
		wf("  <ellipse cx=\"%g\" cy=\"%g\" rx=\"%g\" ry=\"%g\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\"/>\n",
			e.X+e.Width/2, e.Y+e.Height/2, e.Width/2, e.Height/2, fill, stroke, sw)
	case domain.TypeCircle:
		wf("  <circle cx=\"%g\" cy=\"%g\" r=\"%g\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\"/>\n",
			e.X, e.Y, e.Radius, fill, stroke, sw)
	case domain.TypeTriangle:
		r := e.Bounds()
		wf("  <polygon points=\"%g,%g %g,%g %g,%g\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\"/>\n",
			r.X+r.W/2, r.Y, r.X+r.W, r.Y+r.H, r.X, r.Y+r.H, fill, stroke, sw)
	case domain.TypeStar:
		wf("  <polygon points=\"%s\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\"/>\n",
			starPoints(e.Bounds()), fill, stroke, sw)
	case domain.TypePen, domain.TypeMarker, domain.TypeHighlighter:
		if len(e.Points) < 2 {
			return
		}
		opacity := e.Opacity
		if opacity <= 0 || opacity > 1 {
			opacity = 1
		}
		var pts bytes.Buffer
		for i, p := range e.Points {
			if i > 0 {
				pts.WriteByte(' ')
			}
			fmt.Fprintf(&pts, "%g,%g", e.X+p.X, e.Y+p.Y)
		}
		wf("  <polyline points=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"%g\" stroke-opacity=\"%g\" stroke-linecap=\"round\" stroke-linejoin=\"round\"/>\n",
			pts.String(), stroke, sw, opacity)
	case domain.TypeConnector, domain.TypeLine:
		if e.Start == nil || e.End == nil {
			return
		}
		wf("  <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"%s\" stroke-width=\"%g\"/>\n",
			e.Start.X, e.Start.Y, e.End.X, e.End.Y, stroke, sw)
	case domain.TypeTable:
		wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\"/>\n",
			e.X, e.Y, e.Width, e.Height, fill, stroke, sw)
		rows, cols := e.Rows, e.Cols
		if rows < 1 {
			rows = 1
		}
		if cols < 1 {
			cols = 1
		}
		for i := 1; i < rows; i++ {
			y := e.Y + e.Height*float64(i)/float64(rows)
			wf("  <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"%s\" stroke-width=\"%g\"/>\n", e.X, y, e.X+e.Width, y, stroke, sw)
		}
		for j := 1; j < cols; j++ {
			x := e.X + e.Width*float64(j)/float64(cols)
			wf("  <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"%s\" stroke-width=\"%g\"/>\n", x, e.Y, x, e.Y+e.Height, stroke, sw)
		}
	default:
		// rectangle, text, sticky-note, image
		wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\"/>\n",
			e.X, e.Y, e.Width, e.Height, fill, stroke, sw)
		if e.Text != "" {
			fsz := e.FontSize
			if fsz <= 0 {
				fsz = 14
			}
			wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"%g\" fill=\"#000\">%s</text>\n",
				e.X+6, e.Y+6+fsz, fsz, escText(e.Text))
		}
	}
}

// contentBounds returns the union of all section and element bounds plus a
// margin. An empty board yields a fixed viewport around the origin.
func contentBounds(b domain.Board, margin float64) vector.Rect {
	var out vector.Rect
	have := false
	add := func(r vector.Rect) {
		if !have {
			out = r
			have = true
			return
		}
		out = out.Union(r)
	}
	for _, s := range b.Sections {
		add(s.Rect())
	}
	byID := section.ByID(b.Sections)
	for _, e := range b.Elements {
		add(section.ResolveWorld(e, byID).Bounds())
	}
	if !have {
		return vector.R(-margin, -margin, 2*margin+400, 2*margin+300)
	}
	return out.Inset(-margin, -margin)
}

// starVertices yields the ten vertices of a five-pointed star inscribed in r.
func starVertices(r vector.Rect) []vector.Pt {
	cx, cy := r.X+r.W/2, r.Y+r.H/2
	rx, ry := r.W/2, r.H/2
	out := make([]vector.Pt, 10)
	for i := range out {
		f := 1.0
		if i%2 == 1 {
			f = 0.5
		}
		a := -math.Pi/2 + float64(i)*math.Pi/5
		out[i] = vector.Pt{X: cx + f*rx*math.Cos(a), Y: cy + f*ry*math.Sin(a)}
	}
	return out
}

func starPoints(r vector.Rect) string {
	var sb bytes.Buffer
	for i, p := range starVertices(r) {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%g,%g", p.X, p.Y)
	}
	return sb.String()
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
