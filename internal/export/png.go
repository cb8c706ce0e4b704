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
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"goboard/internal/domain"
	"goboard/internal/section"
	"goboard/internal/storage"
)

// PNGOptions controls PNG export behavior.
// - Scale: output pixels per world unit; defaults to 1
// - IncludeFrame: draw a hairline around the content bounds
// - Margin: padding around content in world units
//
//nolint:revive // clarity is preferred
type PNGOptions struct {
	IncludeFrame bool
	Scale        float64
	Margin       float64
}

// ExportBoardPNG rasterizes the whole board into a single PNG at outPath.
// A relative outPath is resolved under the board's exports folder.
func ExportBoardPNG(bh *storage.BoardHandle, outPath string, opt PNGOptions) error {
	if bh == nil {
		return fmt.Errorf("board handle is nil")
	}
	b := bh.Board

	scale := opt.Scale
	if scale <= 0 {
		scale = 1
	}
	margin := opt.Margin
	if margin <= 0 {
		margin = 20
	}
	bounds := contentBounds(b, margin)
	pixW := int(math.Round(bounds.W * scale))
	pixH := int(math.Round(bounds.H * scale))
	if pixW < 1 || pixH < 1 {
		return fmt.Errorf("degenerate raster size %dx%d", pixW, pixH)
	}

	// World to pixel mapping.
	px := func(x float64) int { return int(math.Round((x - bounds.X) * scale)) }
	py := func(y float64) int { return int(math.Round((y - bounds.Y) * scale)) }

	img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	if opt.IncludeFrame {
		strokeRect(img, 0, 0, pixW-1, pixH-1, color.RGBA{255, 0, 0, 255})
	}

	sectionFill := color.RGBA{245, 245, 245, 255}
	sectionEdge := color.RGBA{136, 136, 136, 255}
	for _, s := range b.Sections {
		fillRect(img, px(s.X), py(s.Y), px(s.X+s.Width)-1, py(s.Y+s.Height)-1, parseHexColor(s.Fill, sectionFill))
		strokeRect(img, px(s.X), py(s.Y), px(s.X+s.Width)-1, py(s.Y+s.Height)-1, sectionEdge)
	}

	byID := section.ByID(b.Sections)
	defaultEdge := color.RGBA{51, 51, 51, 255}
	for _, raw := range b.Elements {
		e := section.ResolveWorld(raw, byID)
		edge := parseHexColor(e.Stroke, defaultEdge)
		switch e.Type {
		case domain.TypePen, domain.TypeMarker, domain.TypeHighlighter:
			for i := 1; i < len(e.Points); i++ {
				p0, p1 := e.Points[i-1], e.Points[i]
				drawLine(img, px(e.X+p0.X), py(e.Y+p0.Y), px(e.X+p1.X), py(e.Y+p1.Y), edge)
			}
		case domain.TypeConnector, domain.TypeLine:
			if e.Start == nil || e.End == nil {
				continue
			}
			drawLine(img, px(e.Start.X), py(e.Start.Y), px(e.End.X), py(e.End.Y), edge)
		case domain.TypeCircle:
			drawCircle(img, px(e.X), py(e.Y), int(math.Round(e.Radius*scale)), edge)
		default:
			r := e.Bounds()
			x0, y0 := px(r.X), py(r.Y)
			x1, y1 := px(r.X+r.W)-1, py(r.Y+r.H)-1
			if e.Fill != "" {
				fillRect(img, x0, y0, x1, y1, parseHexColor(e.Fill, color.RGBA{255, 255, 255, 255}))
			}
			strokeRect(img, x0, y0, x1, y1, edge)
		}
	}

	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(bh.Root, "exports", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

// parseHexColor parses #rgb or #rrggbb, falling back to def.
func parseHexColor(s string, def color.RGBA) color.RGBA {
	if len(s) == 0 || s[0] != '#' {
		return def
	}
	hex := s[1:]
	hexVal := func(c byte) (uint8, bool) {
		switch {
		case c >= '0' && c <= '9':
			return c - '0', true
		case c >= 'a' && c <= 'f':
			return c - 'a' + 10, true
		case c >= 'A' && c <= 'F':
			return c - 'A' + 10, true
		}
		return 0, false
	}
	switch len(hex) {
	case 3:
		var v [3]uint8
		for i := 0; i < 3; i++ {
			n, ok := hexVal(hex[i])
			if !ok {
				return def
			}
			v[i] = n*16 + n
		}
		return color.RGBA{v[0], v[1], v[2], 255}
	case 6:
		var v [3]uint8
		for i := 0; i < 3; i++ {
			hi, ok1 := hexVal(hex[2*i])
			lo, ok2 := hexVal(hex[2*i+1])
			if !ok1 || !ok2 {
				return def
			}
			v[i] = hi*16 + lo
		}
		return color.RGBA{v[0], v[1], v[2], 255}
	}
	return def
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

// drawLine draws a 1px line with the integer Bresenham walk.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	e := dx - dy
	for {
		img.SetRGBA(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 > -dy {
			e -= dy
			x0 += sx
		}
		if e2 < dx {
			e += dx
			y0 += sy
		}
	}
}

// drawCircle draws a 1px circle outline using the midpoint algorithm.
func drawCircle(img *image.RGBA, cx, cy, r int, col color.RGBA) {
	if r <= 0 {
		img.SetRGBA(cx, cy, col)
		return
	}
	x, y := r, 0
	e := 1 - r
	for x >= y {
		img.SetRGBA(cx+x, cy+y, col)
		img.SetRGBA(cx+y, cy+x, col)
		img.SetRGBA(cx-y, cy+x, col)
		img.SetRGBA(cx-x, cy+y, col)
		img.SetRGBA(cx-x, cy-y, col)
		img.SetRGBA(cx-y, cy-x, col)
		img.SetRGBA(cx+y, cy-x, col)
		img.SetRGBA(cx+x, cy-y, col)
		y++
		if e < 0 {
			e += 2*y + 1
		} else {
			x--
			e += 2*(y-x) + 1
		}
	}
}
