//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"goboard/internal/config"
	"goboard/internal/crash"
	"goboard/internal/domain"
	"goboard/internal/engine"
	"goboard/internal/export"
	applog "goboard/internal/log"
	"goboard/internal/scene"
	"goboard/internal/storage"
	"goboard/internal/store"
	"goboard/internal/tools"
	"goboard/internal/vector"
	"goboard/internal/version"
)

// Run starts the Fyne-based desktop UI with the board canvas editor.
func Run(boardDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("version", version.String()))

	var bh *storage.BoardHandle
	defer func() { crash.Recover(bh) }()

	cfg, _, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}

	fyneApp := app.NewWithID("goboard")
	w := fyneApp.NewWindow("Go Board")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")

	st := store.NewMemStore()
	eng := engine.New(st, engine.Config{
		Viewport: cfg.Canvas.ViewportConfig(),
		Rules:    cfg.Canvas.Rules(),
	})
	bc := NewBoardCanvas(eng)
	eng.SetInvalidator(scene.InvalidatorFunc(func() { bc.Refresh() }))
	eng.OnSelectionChange(func(ids []string) {
		if len(ids) == 0 {
			status.SetText("Ready")
			return
		}
		status.SetText(fmt.Sprintf("%d selected", len(ids)))
	})

	loadBoard := func(dir string) {
		h, err := storage.Open(dir)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		bh = h
		st.Load(h.Board)
		eng.SyncElements()
		bc.Refresh()
		w.SetTitle("Go Board — " + h.Board.Name)
		status.SetText("Opened " + h.Root)
		addRecentBoard(prefs, h.Root)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if rebuilt, err := storage.DetectAndRebuildIndex(ctx, h.Root, h.Board); err != nil {
				l.Warn("index check failed", slog.Any("err", err))
			} else if rebuilt {
				l.Info("search index rebuilt")
			}
		}()
	}

	saveBoard := func() {
		if bh == nil {
			status.SetText("No board open")
			return
		}
		b := st.Board(bh.Board.Name)
		b.Metadata = bh.Board.Metadata
		bh.Board = b
		if err := storage.Save(bh); err != nil {
			dialog.ShowError(err, w)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := storage.UpdateIndex(ctx, bh.Root, bh.Board); err != nil {
			l.Warn("index update failed", slog.Any("err", err))
		}
		status.SetText("Saved " + bh.ManifestPath)
	}

	newBoard := func() {
		entry := widget.NewEntry()
		entry.SetPlaceHolder("Board name")
		dirEntry := widget.NewEntry()
		dirEntry.SetPlaceHolder("Folder path")
		form := dialog.NewForm("New Board", "Create", "Cancel", []*widget.FormItem{
			widget.NewFormItem("Name", entry),
			widget.NewFormItem("Folder", dirEntry),
		}, func(ok bool) {
			if !ok || strings.TrimSpace(dirEntry.Text) == "" {
				return
			}
			name := strings.TrimSpace(entry.Text)
			if name == "" {
				name = "Untitled Board"
			}
			h, err := storage.InitBoard(dirEntry.Text, domain.Board{Name: name})
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			bh = h
			st.Load(h.Board)
			eng.SyncElements()
			bc.Refresh()
			w.SetTitle("Go Board — " + name)
			status.SetText("Created " + h.Root)
			addRecentBoard(prefs, h.Root)
		}, w)
		form.Resize(fyne.NewSize(440, 0))
		form.Show()
	}

	openBoard := func() {
		entry := widget.NewEntry()
		entry.SetPlaceHolder("Board folder path")
		dialog.ShowForm("Open Board", "Open", "Cancel", []*widget.FormItem{
			widget.NewFormItem("Folder", entry),
		}, func(ok bool) {
			if !ok || strings.TrimSpace(entry.Text) == "" {
				return
			}
			loadBoard(entry.Text)
		}, w)
	}

	exportAs := func(format string) {
		if bh == nil {
			status.SetText("No board open")
			return
		}
		b := st.Board(bh.Board.Name)
		b.Metadata = bh.Board.Metadata
		bh.Board = b
		var err error
		switch format {
		case "pdf":
			err = export.ExportBoardPDF(bh, "board.pdf", export.PDFOptions{})
		case "png":
			err = export.ExportBoardPNG(bh, "board.png", export.PNGOptions{Scale: 2})
		case "svg":
			err = export.ExportBoardSVG(bh, "board.svg", export.SVGOptions{})
		}
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Exported " + filepath.Join(bh.Root, "exports", "board."+format))
	}

	searchBoard := func() {
		if bh == nil {
			status.SetText("No board open")
			return
		}
		entry := widget.NewEntry()
		entry.SetPlaceHolder("Search text")
		dialog.ShowForm("Search", "Search", "Cancel", []*widget.FormItem{
			widget.NewFormItem("Query", entry),
		}, func(ok bool) {
			if !ok || strings.TrimSpace(entry.Text) == "" {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			results, err := storage.Search(ctx, bh.Root, storage.SearchQuery{Text: entry.Text})
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if len(results) == 0 {
				status.SetText("No matches")
				return
			}
			items := make([]string, len(results))
			for i, r := range results {
				items[i] = fmt.Sprintf("%s  %s", r.Path, r.Snippet)
			}
			list := widget.NewList(
				func() int { return len(items) },
				func() fyne.CanvasObject { return widget.NewLabel("") },
				func(i widget.ListItemID, o fyne.CanvasObject) { o.(*widget.Label).SetText(items[i]) },
			)
			list.OnSelected = func(i widget.ListItemID) {
				if id := results[i].ElementID; id != "" {
					bc.FocusElement(id)
				}
			}
			d := dialog.NewCustom("Results", "Close", container.NewStack(list), w)
			d.Resize(fyne.NewSize(520, 360))
			d.Show()
		}, w)
	}

	toolButtons := container.NewHBox()
	for _, t := range []tools.Tool{
		tools.ToolSelect, tools.ToolPan, tools.ToolRectangle, tools.ToolEllipse,
		tools.ToolCircle, tools.ToolTriangle, tools.ToolStar, tools.ToolText,
		tools.ToolStickyNote, tools.ToolPen, tools.ToolMarker, tools.ToolHighlighter,
		tools.ToolConnector, tools.ToolLine, tools.ToolTable, tools.ToolSection,
	} {
		tool := t
		toolButtons.Add(widget.NewButton(string(tool), func() {
			eng.Machine().SetTool(tool)
			status.SetText("Tool: " + string(tool))
		}))
	}

	fileMenu := fyne.NewMenu("Board",
		fyne.NewMenuItem("New…", newBoard),
		fyne.NewMenuItem("Open…", openBoard),
		fyne.NewMenuItem("Save", saveBoard),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF", func() { exportAs("pdf") }),
		fyne.NewMenuItem("Export PNG", func() { exportAs("png") }),
		fyne.NewMenuItem("Export SVG", func() { exportAs("svg") }),
	)
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Search…", searchBoard),
		fyne.NewMenuItem("Fit Content", func() { bc.FitContent() }),
	)
	w.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu))

	w.Canvas().SetOnTypedKey(func(e *fyne.KeyEvent) {
		switch e.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			eng.KeyDown("Delete")
		case fyne.KeyEscape:
			eng.KeyDown("Escape")
		}
	})

	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
	})

	content := container.NewBorder(
		container.NewVBox(toolButtons),
		status,
		nil, nil,
		bc,
	)
	w.SetContent(content)

	if boardDir != "" {
		loadBoard(boardDir)
	} else if recents := loadRecentBoards(prefs); len(recents) > 0 {
		status.SetText("Recent: " + recents[0])
	}

	w.ShowAndRun()
	return nil
}

// BoardCanvas is the interactive canvas widget backed by the editor engine.
type BoardCanvas struct {
	widget.BaseWidget
	eng      *engine.Engine
	dragging bool
	lastDrag vector.Pt
}

func NewBoardCanvas(eng *engine.Engine) *BoardCanvas {
	bc := &BoardCanvas{eng: eng}
	bc.ExtendBaseWidget(bc)
	return bc
}

// FocusElement centers the viewport on an element by id.
func (bc *BoardCanvas) FocusElement(id string) {
	if n, ok := bc.eng.Scene().Node(id); ok {
		bc.eng.Viewport().FitToContent(n.Bounds, 80)
		bc.Refresh()
	}
}

// FitContent zooms to show everything on the board.
func (bc *BoardCanvas) FitContent() {
	var bounds vector.Rect
	have := false
	for _, n := range bc.eng.Scene().Nodes() {
		if !have {
			bounds = n.Bounds
			have = true
			continue
		}
		bounds = bounds.Union(n.Bounds)
	}
	if have {
		bc.eng.Viewport().FitToContent(bounds, 60)
		bc.Refresh()
	}
}

func (bc *BoardCanvas) Tapped(e *fyne.PointEvent) {
	p := vector.Pt{X: float64(e.Position.X), Y: float64(e.Position.Y)}
	bc.eng.MouseDown(p, tools.Modifiers{})
	bc.eng.MouseUp(p, tools.Modifiers{})
	bc.eng.Click(p, tools.Modifiers{})
	bc.Refresh()
}

func (bc *BoardCanvas) Dragged(e *fyne.DragEvent) {
	p := vector.Pt{X: float64(e.Position.X), Y: float64(e.Position.Y)}
	if !bc.dragging {
		start := vector.Pt{X: p.X - float64(e.Dragged.DX), Y: p.Y - float64(e.Dragged.DY)}
		bc.eng.MouseDown(start, tools.Modifiers{})
		bc.dragging = true
	}
	bc.eng.MouseMove(p, tools.Modifiers{})
	bc.lastDrag = p
	bc.Refresh()
}

func (bc *BoardCanvas) DragEnd() {
	if bc.dragging {
		bc.eng.MouseUp(bc.lastDrag, tools.Modifiers{})
		bc.dragging = false
		bc.Refresh()
	}
}

func (bc *BoardCanvas) Scrolled(e *fyne.ScrollEvent) {
	dir := 1
	if e.Scrolled.DY < 0 {
		dir = -1
	}
	bc.eng.Wheel(vector.Pt{X: float64(e.Position.X), Y: float64(e.Position.Y)}, dir)
	bc.Refresh()
}

func (bc *BoardCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.White)
	return &boardCanvasRenderer{bc: bc, bg: bg, objects: []fyne.CanvasObject{bg}}
}

type boardCanvasRenderer struct {
	bc      *BoardCanvas
	bg      *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *boardCanvasRenderer) Destroy()                     {}
func (r *boardCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *boardCanvasRenderer) MinSize() fyne.Size           { return fyne.NewSize(800, 600) }
func (r *boardCanvasRenderer) Refresh()                     { r.Layout(r.bc.Size()); canvas.Refresh(r.bc) }

func (r *boardCanvasRenderer) Layout(size fyne.Size) {
	vp := r.bc.eng.Viewport()
	vp.SetSurfaceSize(float64(size.Width), float64(size.Height))

	r.bg.Resize(size)
	r.objects = r.objects[:0]
	r.objects = append(r.objects, r.bg)

	visible := vp.VisibleWorldRect()
	toScreen := func(p vector.Pt) fyne.Position {
		s := vp.WorldToScreen(p)
		return fyne.NewPos(float32(s.X), float32(s.Y))
	}
	scale := vp.State().Scale

	nodes := r.bc.eng.Scene().Nodes()
	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	// Sections first so elements draw above them; ids break ties stably.
	sort.Slice(ids, func(i, j int) bool {
		a, b := nodes[ids[i]], nodes[ids[j]]
		if (a.Type == scene.KindSection) != (b.Type == scene.KindSection) {
			return a.Type == scene.KindSection
		}
		return a.ID < b.ID
	})

	selected := map[string]bool{}
	for _, id := range r.bc.eng.Store().Selection() {
		selected[id] = true
	}

	for _, id := range ids {
		n := nodes[id]
		if !n.Bounds.Intersects(visible) {
			continue
		}
		r.appendNode(n, toScreen, scale)
		if selected[id] {
			sel := canvas.NewRectangle(color.Transparent)
			sel.StrokeColor = color.NRGBA{R: 30, G: 120, B: 255, A: 255}
			sel.StrokeWidth = 2
			sel.Move(toScreen(n.Bounds.Min()))
			sel.Resize(fyne.NewSize(float32(n.Bounds.W*scale), float32(n.Bounds.H*scale)))
			r.objects = append(r.objects, sel)
		}
	}

	r.appendPreview(toScreen, scale)
}

func (r *boardCanvasRenderer) appendNode(n *scene.Node, toScreen func(vector.Pt) fyne.Position, scale float64) {
	w := float32(n.Bounds.W * scale)
	h := float32(n.Bounds.H * scale)
	pos := toScreen(n.Bounds.Min())

	stroke := parseHex(n.Style.Stroke, color.NRGBA{R: 51, G: 51, B: 51, A: 255})
	fill := color.Color(color.Transparent)
	if n.Style.Fill != "" {
		fill = parseHex(n.Style.Fill, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	}

	switch n.Type {
	case scene.KindSection:
		rect := canvas.NewRectangle(parseHex(n.Style.Fill, color.NRGBA{R: 245, G: 245, B: 245, A: 255}))
		rect.StrokeColor = color.NRGBA{R: 136, G: 136, B: 136, A: 255}
		rect.StrokeWidth = 1
		rect.Move(pos)
		rect.Resize(fyne.NewSize(w, h))
		r.objects = append(r.objects, rect)
		if n.Title != "" {
			txt := canvas.NewText(n.Title, color.NRGBA{R: 60, G: 60, B: 60, A: 255})
			txt.TextSize = float32(14 * scale)
			txt.Move(fyne.NewPos(pos.X+8, pos.Y+4))
			r.objects = append(r.objects, txt)
		}
	case domain.TypeCircle, domain.TypeEllipse:
		c := canvas.NewCircle(fill)
		c.StrokeColor = stroke
		c.StrokeWidth = float32(n.Style.StrokeWidth)
		c.Position1 = pos
		c.Position2 = fyne.NewPos(pos.X+w, pos.Y+h)
		r.objects = append(r.objects, c)
	case domain.TypePen, domain.TypeMarker, domain.TypeHighlighter:
		for i := 1; i < len(n.Points); i++ {
			ln := canvas.NewLine(stroke)
			ln.StrokeWidth = float32(n.Style.StrokeWidth * scale)
			ln.Position1 = toScreen(n.Points[i-1])
			ln.Position2 = toScreen(n.Points[i])
			r.objects = append(r.objects, ln)
		}
	case domain.TypeConnector, domain.TypeLine:
		ln := canvas.NewLine(stroke)
		ln.StrokeWidth = float32(n.Style.StrokeWidth * scale)
		ln.Position1 = toScreen(n.Start)
		ln.Position2 = toScreen(n.End)
		r.objects = append(r.objects, ln)
	default:
		rect := canvas.NewRectangle(fill)
		rect.StrokeColor = stroke
		rect.StrokeWidth = float32(n.Style.StrokeWidth)
		rect.Move(pos)
		rect.Resize(fyne.NewSize(w, h))
		r.objects = append(r.objects, rect)
		if n.Type == domain.TypeTable {
			y := n.Bounds.Y
			for _, rh := range n.RowHeights[:max(0, len(n.RowHeights)-1)] {
				y += rh
				ln := canvas.NewLine(stroke)
				ln.Position1 = toScreen(vector.Pt{X: n.Bounds.X, Y: y})
				ln.Position2 = toScreen(vector.Pt{X: n.Bounds.X + n.Bounds.W, Y: y})
				r.objects = append(r.objects, ln)
			}
			x := n.Bounds.X
			for _, cw := range n.ColWidths[:max(0, len(n.ColWidths)-1)] {
				x += cw
				ln := canvas.NewLine(stroke)
				ln.Position1 = toScreen(vector.Pt{X: x, Y: n.Bounds.Y})
				ln.Position2 = toScreen(vector.Pt{X: x, Y: n.Bounds.Y + n.Bounds.H})
				r.objects = append(r.objects, ln)
			}
		}
		lineY := pos.Y + 4
		for _, line := range n.Lines {
			txt := canvas.NewText(line, color.Black)
			txt.TextSize = float32(n.FontSize * scale)
			txt.Move(fyne.NewPos(pos.X+6, lineY))
			r.objects = append(r.objects, txt)
			lineY += float32(n.LineHeight * scale)
		}
	}
}

func (r *boardCanvasRenderer) appendPreview(toScreen func(vector.Pt) fyne.Position, scale float64) {
	pv := r.bc.eng.Machine().Preview()
	if pv == nil {
		return
	}
	accent := color.NRGBA{R: 30, G: 120, B: 255, A: 255}
	switch {
	case len(pv.Points) > 1:
		for i := 1; i < len(pv.Points); i++ {
			ln := canvas.NewLine(accent)
			ln.Position1 = toScreen(pv.Points[i-1])
			ln.Position2 = toScreen(pv.Points[i])
			r.objects = append(r.objects, ln)
		}
	case pv.Tool.IsConnector():
		ln := canvas.NewLine(accent)
		ln.Position1 = toScreen(pv.Start)
		ln.Position2 = toScreen(pv.End)
		r.objects = append(r.objects, ln)
		if pv.SnapTarget != nil {
			dot := canvas.NewCircle(accent)
			p := toScreen(pv.SnapTarget.Pos)
			dot.Position1 = fyne.NewPos(p.X-4, p.Y-4)
			dot.Position2 = fyne.NewPos(p.X+4, p.Y+4)
			r.objects = append(r.objects, dot)
		}
	default:
		rect := canvas.NewRectangle(color.Transparent)
		rect.StrokeColor = accent
		rect.StrokeWidth = 1
		rect.Move(toScreen(pv.Rect.Min()))
		rect.Resize(fyne.NewSize(float32(pv.Rect.W*scale), float32(pv.Rect.H*scale)))
		r.objects = append(r.objects, rect)
	}
	for _, g := range pv.Guides {
		ln := canvas.NewLine(color.NRGBA{R: 255, G: 64, B: 160, A: 255})
		ln.Position1 = toScreen(g.From)
		ln.Position2 = toScreen(g.To)
		r.objects = append(r.objects, ln)
	}
}

func parseHex(s string, def color.NRGBA) color.NRGBA {
	if len(s) != 7 || s[0] != '#' {
		return def
	}
	var v [3]uint8
	for i := 0; i < 3; i++ {
		hi := hexNibble(s[1+2*i])
		lo := hexNibble(s[2+2*i])
		if hi < 0 || lo < 0 {
			return def
		}
		v[i] = uint8(hi*16 + lo)
	}
	return color.NRGBA{R: v[0], G: v[1], B: v[2], A: 255}
}

func hexNibble(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

func loadRecentBoards(p fyne.Preferences) []string {
	raw := p.StringWithFallback("recent.boards", "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "\n")
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func addRecentBoard(p fyne.Preferences, path string) {
	items := loadRecentBoards(p)
	out := []string{path}
	for _, it := range items {
		if it != path && len(out) < 8 {
			out = append(out, it)
		}
	}
	p.SetString("recent.boards", strings.Join(out, "\n"))
}
