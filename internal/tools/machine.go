/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tools

import (
	"log/slog"

	"goboard/internal/domain"
	applog "goboard/internal/log"
	"goboard/internal/section"
	"goboard/internal/snap"
	"goboard/internal/store"
	"goboard/internal/vector"
	"goboard/internal/viewport"
)

// guideThreshold is the alignment-guide snap distance in screen pixels.
const guideThreshold = 6.0

// Modifiers are the keyboard modifiers held during a pointer event.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
}

// Preview is the ephemeral world-space geometry of an in-progress gesture.
// The renderer draws it on top of the scene; it never enters the store.
type Preview struct {
	Tool Tool

	// Rect is the draw-to-size or marquee rectangle.
	Rect    vector.Rect
	Marquee bool

	// Points is the freehand polyline collected so far.
	Points []vector.Pt

	// Start/End are the live connector endpoints; SnapTarget highlights the
	// attachment point the end would bind to.
	Start, End vector.Pt
	SnapTarget *snap.Point

	// Guides are alignment guide lines produced during a select-tool drag.
	Guides []snap.GuideLine
}

// dragItem snapshots one selected element at grab time.
type dragItem struct {
	base   domain.Element // world-resolved copy at grab
	bounds vector.Rect    // world bounds at grab
	offset vector.Pt      // bounds min relative to the grab point
}

type pointerEvent struct {
	screen vector.Pt
	mods   Modifiers
}

// Machine routes pointer and key events to the active tool's behavior. It is
// single-threaded; all calls happen on the event loop.
type Machine struct {
	st    store.Interface
	vp    *viewport.Viewport
	rules section.Rules
	sched FrameScheduler
	log   *slog.Logger

	pendingImage string

	down    bool
	moved   bool
	anchor  vector.Pt // world position at mousedown
	lastPt  vector.Pt // last screen position, for pan deltas
	preview *Preview
	stroke  []vector.Pt
	drag    []dragItem
	downHit string

	connStart, connEnd domain.Endpoint

	pendingMove *pointerEvent
}

// NewMachine creates a state machine over the given store and viewport. The
// default scheduler processes moves synchronously; SetScheduler installs a
// frame-coalescing one.
func NewMachine(st store.Interface, vp *viewport.Viewport) *Machine {
	return &Machine{
		st:    st,
		vp:    vp,
		rules: section.DefaultRules(),
		sched: ImmediateScheduler{},
		log:   applog.WithComponent("tools"),
	}
}

// SetScheduler replaces the frame scheduler used to coalesce mousemoves.
func (m *Machine) SetScheduler(s FrameScheduler) {
	if s != nil {
		m.sched = s
	}
}

// SetRules replaces the section containment tuning.
func (m *Machine) SetRules(r section.Rules) { m.rules = r }

// SetPendingImage records the image reference the next image-tool gesture
// will attach. An empty reference makes the image tool a no-op.
func (m *Machine) SetPendingImage(ref string) { m.pendingImage = ref }

// Active returns the current tool, mapping unknown store values to select.
func (m *Machine) Active() Tool { return Normalize(Tool(m.st.ActiveTool())) }

// SetTool switches the active tool. Switching cancels any in-progress
// gesture, drops preview geometry and the pending frame callback.
func (m *Machine) SetTool(t Tool) {
	m.reset()
	m.st.SetActiveTool(string(Normalize(t)))
}

// Preview returns the in-progress gesture geometry, or nil when idle.
func (m *Machine) Preview() *Preview { return m.preview }

// CancelGesture aborts the current gesture without creating anything.
func (m *Machine) CancelGesture() { m.reset() }

func (m *Machine) reset() {
	m.down = false
	m.moved = false
	m.preview = nil
	m.stroke = nil
	m.drag = nil
	m.downHit = ""
	m.pendingMove = nil
	m.sched.Cancel()
}

// dispatch wraps a handler so a panic cannot leave the machine stuck: the
// gesture state is reset and the tool reverts to select.
func (m *Machine) dispatch(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("tool handler failed",
				slog.String("handler", name),
				slog.String("tool", string(m.Active())),
				slog.Any("err", r))
			m.reset()
			m.st.SetActiveTool(string(ToolSelect))
		}
	}()
	fn()
}

// MouseDown begins a gesture at a screen position.
func (m *Machine) MouseDown(screen vector.Pt, mods Modifiers) {
	m.dispatch("mousedown", func() { m.mouseDown(screen, mods) })
}

func (m *Machine) mouseDown(screen vector.Pt, mods Modifiers) {
	if !m.vp.Ready() {
		return
	}
	world := m.vp.ScreenToWorld(screen)
	m.down = true
	m.moved = false
	m.anchor = world
	m.lastPt = screen

	t := m.Active()
	switch {
	case t == ToolPan:
		// pan tracks lastPt only
	case t == ToolSelect:
		m.beginSelect(world, mods)
	case t.IsDrawToSize():
		m.preview = &Preview{Tool: t, Rect: vector.R(world.X, world.Y, 0, 0)}
	case t.IsStroke():
		m.stroke = []vector.Pt{world}
		m.preview = &Preview{Tool: t, Points: m.stroke}
	case t.IsConnector():
		m.beginConnector(t, world)
	}
}

// MouseMove advances a gesture. Moves are coalesced to one per display frame
// through the scheduler; freehand strokes are the exception and collect every
// point so lines stay smooth.
func (m *Machine) MouseMove(screen vector.Pt, mods Modifiers) {
	m.dispatch("mousemove", func() {
		if m.down && m.Active().IsStroke() {
			world := m.vp.ScreenToWorld(screen)
			m.stroke = append(m.stroke, world)
			if m.preview != nil {
				m.preview.Points = m.stroke
			}
			return
		}
		m.pendingMove = &pointerEvent{screen: screen, mods: mods}
		m.sched.Schedule(m.firePendingMove)
	})
}

func (m *Machine) firePendingMove() {
	ev := m.pendingMove
	if ev == nil {
		return
	}
	m.pendingMove = nil
	m.dispatch("mousemove.frame", func() { m.mouseMove(ev.screen, ev.mods) })
}

func (m *Machine) mouseMove(screen vector.Pt, mods Modifiers) {
	if !m.down {
		return
	}
	world := m.vp.ScreenToWorld(screen)
	t := m.Active()
	switch {
	case t == ToolPan:
		m.vp.PanBy(screen.X-m.lastPt.X, screen.Y-m.lastPt.Y)
		m.lastPt = screen
	case t == ToolSelect:
		switch {
		case len(m.drag) > 0:
			m.moved = true
			m.moveDrag(world)
		case m.preview != nil:
			m.moved = true
			m.preview.Rect = vector.Normalized(m.anchor, world)
		}
	case t.IsDrawToSize():
		if m.preview != nil {
			m.moved = true
			m.preview.Rect = vector.Normalized(m.anchor, world)
		}
	case t.IsConnector():
		m.moved = true
		m.updateConnectorEnd(t, world)
	}
}

// MouseUp finalizes a gesture at a screen position.
func (m *Machine) MouseUp(screen vector.Pt, mods Modifiers) {
	m.dispatch("mouseup", func() { m.mouseUp(screen, mods) })
}

func (m *Machine) mouseUp(screen vector.Pt, mods Modifiers) {
	if !m.down {
		return
	}
	// Flush the coalesced move so the gesture ends at the true position.
	if m.pendingMove != nil {
		ev := m.pendingMove
		m.pendingMove = nil
		m.sched.Cancel()
		m.mouseMove(ev.screen, ev.mods)
	}
	world := m.vp.ScreenToWorld(screen)

	t := m.Active()
	switch {
	case t == ToolSelect:
		m.finishSelect(mods)
	case t.IsDrawToSize():
		m.finishDrawToSize(t)
	case t.IsStroke():
		m.finishStroke(t)
	case t.IsConnector():
		m.finishConnector(t, world)
	}

	m.down = false
	m.moved = false
	m.preview = nil
	m.stroke = nil
	m.drag = nil
	m.downHit = ""
}

// Click places click-to-create elements. Only the sticky-note tool reacts;
// select-tool click semantics are covered by mousedown/mouseup.
func (m *Machine) Click(screen vector.Pt, mods Modifiers) {
	m.dispatch("click", func() {
		if !m.vp.Ready() || m.Active() != ToolStickyNote {
			return
		}
		world := m.vp.ScreenToWorld(screen)
		e := domain.Element{
			Type:     domain.TypeStickyNote,
			X:        world.X - StickySize/2,
			Y:        world.Y - StickySize/2,
			Width:    StickySize,
			Height:   StickySize,
			Fill:     "#ffe066",
			FontSize: 14,
		}
		m.adoptSection(&e)
		id := m.st.AddElement(e)
		m.st.SetSelection([]string{id})
		m.st.SetActiveTool(string(ToolSelect))
	})
}

// KeyDown handles the small keyboard surface of the machine: Escape cancels
// the gesture, Delete removes the selection.
func (m *Machine) KeyDown(key string) {
	m.dispatch("keydown", func() {
		switch key {
		case "Escape":
			m.reset()
		case "Delete", "Backspace":
			for _, id := range m.st.Selection() {
				m.st.DeleteElement(id)
			}
		}
	})
}

// --- select tool ---

func (m *Machine) beginSelect(world vector.Pt, mods Modifiers) {
	id := m.topElementAt(world)
	m.downHit = id
	if id == "" {
		m.preview = &Preview{Tool: ToolSelect, Marquee: true, Rect: vector.R(world.X, world.Y, 0, 0)}
		return
	}
	sel := m.st.Selection()
	if mods.Shift {
		m.st.SetSelection(toggle(sel, id))
	} else if !containsID(sel, id) {
		m.st.SetSelection([]string{id})
	}
	m.grabSelection(world)
}

func (m *Machine) grabSelection(world vector.Pt) {
	byID := section.ByID(m.st.Sections())
	m.drag = m.drag[:0]
	for _, id := range m.st.Selection() {
		e, ok := m.st.Element(id)
		if !ok {
			continue
		}
		w := section.ResolveWorld(e, byID)
		b := w.Bounds()
		m.drag = append(m.drag, dragItem{
			base:   w,
			bounds: b,
			offset: b.Min().Sub(world),
		})
	}
}

func (m *Machine) moveDrag(world vector.Pt) {
	sections := m.st.Sections()
	var guides []snap.GuideLine

	for _, it := range m.drag {
		target := world.Add(it.offset)

		if it.base.Type.IsConnector() {
			m.dragConnector(it, target)
			continue
		}

		if len(m.drag) == 1 {
			target, guides = m.alignTarget(it, target)
		}

		center := vector.Pt{X: target.X + it.bounds.W/2, Y: target.Y + it.bounds.H/2}
		sec, inSection := section.OwningSection(center, sections)

		var patch store.ElementPatch
		if inSection {
			clamped := m.rules.ClampDrag(sec, target, it.bounds.W, it.bounds.H)
			delta := clamped.Sub(it.bounds.Min())
			patch.X = store.F(it.base.X + delta.X - sec.X)
			patch.Y = store.F(it.base.Y + delta.Y - sec.Y)
			patch.SectionID = store.S(sec.ID)
		} else {
			delta := target.Sub(it.bounds.Min())
			patch.X = store.F(it.base.X + delta.X)
			patch.Y = store.F(it.base.Y + delta.Y)
			patch.SectionID = store.S("")
		}
		m.st.UpdateElement(it.base.ID, patch)
	}

	if m.preview == nil {
		m.preview = &Preview{Tool: ToolSelect}
	}
	m.preview.Guides = guides
}

// alignTarget snaps a single-element drag against the other elements and the
// sections, returning the adjusted world top-left plus guide lines.
func (m *Machine) alignTarget(it dragItem, target vector.Pt) (vector.Pt, []snap.GuideLine) {
	var anchors []snap.AlignAnchor
	for _, w := range m.worldElements() {
		if w.ID == it.base.ID || w.Type.IsConnector() || w.Type.IsStroke() {
			continue
		}
		anchors = append(anchors, snap.AlignAnchor{Rect: w.Bounds(), Weight: 1})
	}
	for _, s := range m.st.Sections() {
		anchors = append(anchors, snap.AlignAnchor{Rect: s.Rect(), Weight: 1})
	}
	if len(anchors) == 0 {
		return target, nil
	}
	moving := vector.R(target.X, target.Y, it.bounds.W, it.bounds.H)
	opts := snap.AlignOptions{
		Threshold: guideThreshold / m.vp.State().Scale,
		Edges:     true,
		Centers:   true,
	}
	snapped, guides := snap.AlignToAnchors(moving, anchors, opts)
	return vector.Pt{X: snapped.X, Y: snapped.Y}, guides
}

// dragConnector shifts a directly-dragged connector's free endpoints by the
// drag delta; bound endpoints keep following their hosts.
func (m *Machine) dragConnector(it dragItem, target vector.Pt) {
	delta := target.Sub(it.bounds.Min())
	var patch store.ElementPatch
	if it.base.Start != nil && it.base.Start.ElementID == "" {
		patch.Start = store.E(domain.Endpoint{X: it.base.Start.X + delta.X, Y: it.base.Start.Y + delta.Y})
	}
	if it.base.End != nil && it.base.End.ElementID == "" {
		patch.End = store.E(domain.Endpoint{X: it.base.End.X + delta.X, Y: it.base.End.Y + delta.Y})
	}
	if patch.Start != nil || patch.End != nil {
		m.st.UpdateElement(it.base.ID, patch)
	}
}

func (m *Machine) finishSelect(mods Modifiers) {
	if len(m.drag) > 0 {
		if m.moved {
			// Strip floating-point drift from the persisted positions.
			for _, it := range m.drag {
				e, ok := m.st.Element(it.base.ID)
				if !ok || e.Type.IsConnector() {
					continue
				}
				p := section.Sanitize(vector.Pt{X: e.X, Y: e.Y})
				m.st.UpdateElement(e.ID, store.ElementPatch{X: store.F(p.X), Y: store.F(p.Y)})
			}
		} else if !mods.Shift {
			m.st.SetSelection([]string{m.downHit})
		}
		return
	}
	if m.preview != nil && m.preview.Marquee && m.moved {
		ids := m.elementsIn(m.preview.Rect)
		if mods.Shift {
			ids = union(m.st.Selection(), ids)
		}
		m.st.SetSelection(ids)
		return
	}
	if !mods.Shift {
		m.st.SetSelection(nil)
	}
}

// --- creation tools ---

func (m *Machine) finishDrawToSize(t Tool) {
	if m.preview == nil || !m.moved {
		return
	}
	r := m.preview.Rect
	min := t.MinSize()
	if r.W < min.W || r.H < min.H {
		return
	}

	if t == ToolSection {
		m.st.CreateSection(r.X, r.Y, r.W, r.H)
		m.st.SetSelection(nil)
		m.st.SetActiveTool(string(ToolSelect))
		return
	}

	e := domain.Element{Type: t.ElementType(), X: r.X, Y: r.Y, Width: r.W, Height: r.H}
	switch t {
	case ToolCircle:
		c := r.Center()
		radius := r.W
		if r.H < radius {
			radius = r.H
		}
		radius /= 2
		e = domain.Element{Type: domain.TypeCircle, X: c.X, Y: c.Y, Radius: radius}
	case ToolText:
		e.FontSize = 14
	case ToolTable:
		e.Rows = 3
		e.Cols = 3
	case ToolImage:
		if m.pendingImage == "" {
			return
		}
		e.ImageRef = m.pendingImage
		m.pendingImage = ""
	}
	if e.Fill == "" && t != ToolText {
		e.Fill = "#ffffff"
	}
	if e.Stroke == "" {
		e.Stroke = "#333333"
		e.StrokeWidth = 2
	}

	m.adoptSection(&e)
	id := m.st.AddElement(e)
	m.st.SetSelection([]string{id})
	m.st.SetActiveTool(string(ToolSelect))
}

func (m *Machine) finishStroke(t Tool) {
	if len(m.stroke) < 2 {
		return
	}
	minX, minY := m.stroke[0].X, m.stroke[0].Y
	for _, p := range m.stroke[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
	}
	pts := make([]vector.Pt, len(m.stroke))
	for i, p := range m.stroke {
		pts[i] = vector.Pt{X: p.X - minX, Y: p.Y - minY}
	}
	e := domain.Element{Type: t.ElementType(), X: minX, Y: minY, Points: pts, Stroke: "#1a1a1a"}
	switch t {
	case ToolMarker:
		e.StrokeWidth = 6
	case ToolHighlighter:
		e.StrokeWidth = 12
		e.Opacity = 0.4
	default:
		e.StrokeWidth = 2
	}
	m.adoptSection(&e)
	m.st.AddElement(e)
	// The stroke tool stays active so strokes can be chained.
}

// --- connector tool ---

func (m *Machine) beginConnector(t Tool, world vector.Pt) {
	ep := m.snapEndpoint(t, world)
	m.connStart = ep
	m.connEnd = ep
	m.preview = &Preview{Tool: t, Start: ep.Pt(), End: ep.Pt()}
}

func (m *Machine) updateConnectorEnd(t Tool, world vector.Pt) {
	ep := m.snapEndpoint(t, world)
	m.connEnd = ep
	if m.preview == nil {
		m.preview = &Preview{Tool: t, Start: m.connStart.Pt()}
	}
	m.preview.End = ep.Pt()
	m.preview.SnapTarget = nil
	if ep.ElementID != "" {
		m.preview.SnapTarget = &snap.Point{ElementID: ep.ElementID, Anchor: ep.Anchor, Pos: ep.Pt()}
	}
}

// snapEndpoint resolves a pointer position to a connector endpoint, binding
// to the nearest attachment point within the snap threshold. The line tool
// never binds.
func (m *Machine) snapEndpoint(t Tool, world vector.Pt) domain.Endpoint {
	if t == ToolLine {
		return domain.Endpoint{X: world.X, Y: world.Y}
	}
	threshold := snap.DefaultThreshold / m.vp.State().Scale
	if p, ok := snap.FindNearest(world, m.worldElements(), threshold); ok {
		return domain.Endpoint{X: p.Pos.X, Y: p.Pos.Y, ElementID: p.ElementID, Anchor: p.Anchor}
	}
	return domain.Endpoint{X: world.X, Y: world.Y}
}

func (m *Machine) finishConnector(t Tool, world vector.Pt) {
	if !m.moved {
		return
	}
	start := m.connStart
	end := m.snapEndpoint(t, world)
	if start.X == end.X && start.Y == end.Y {
		return
	}
	e := domain.Element{
		Type:        t.ElementType(),
		Start:       &start,
		End:         &end,
		Stroke:      "#333333",
		StrokeWidth: 2,
	}
	id := m.st.AddElement(e)
	m.st.SetSelection([]string{id})
	m.st.SetActiveTool(string(ToolSelect))
}

// --- shared helpers ---

// adoptSection assigns the element to the section containing its center,
// converting the position to section-local coordinates.
func (m *Machine) adoptSection(e *domain.Element) {
	sec, ok := section.OwningSection(e.Center(), m.st.Sections())
	if !ok {
		return
	}
	e.X -= sec.X
	e.Y -= sec.Y
	e.SectionID = sec.ID
}

// worldElements returns the element collection with positions resolved to
// world space.
func (m *Machine) worldElements() []domain.Element {
	byID := section.ByID(m.st.Sections())
	els := m.st.Elements()
	out := make([]domain.Element, len(els))
	for i, e := range els {
		out[i] = section.ResolveWorld(e, byID)
	}
	return out
}

// topElementAt returns the id of the topmost element containing the world
// point. Later store entries render on top.
func (m *Machine) topElementAt(world vector.Pt) string {
	els := m.worldElements()
	for i := len(els) - 1; i >= 0; i-- {
		if els[i].Bounds().Contains(world) {
			return els[i].ID
		}
	}
	return ""
}

// elementsIn returns the ids of elements whose world bounds intersect rect,
// in store order.
func (m *Machine) elementsIn(rect vector.Rect) []string {
	var ids []string
	for _, w := range m.worldElements() {
		if w.Bounds().Intersects(rect) {
			ids = append(ids, w.ID)
		}
	}
	return ids
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func toggle(ids []string, id string) []string {
	out := make([]string, 0, len(ids)+1)
	found := false
	for _, v := range ids {
		if v == id {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, id)
	}
	return out
}

func union(a, b []string) []string {
	out := append([]string(nil), a...)
	for _, id := range b {
		if !containsID(out, id) {
			out = append(out, id)
		}
	}
	return out
}
