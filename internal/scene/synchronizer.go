/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scene reconciles the authoritative element/section collections
// against a pool of render nodes: removals are processed first, then
// creations, then in-place updates, dispatching per-type layout. A failing
// element is logged and skipped without aborting the pass.
package scene

import (
	"fmt"
	"log/slog"

	"goboard/internal/domain"
	applog "goboard/internal/log"
	"goboard/internal/section"
	"goboard/internal/snap"
	"goboard/internal/spatial"
	"goboard/internal/store"
	"goboard/internal/textlayout"
	"goboard/internal/vector"
)

// textPadding insets wrapped text from the element box on every side.
const textPadding = 4.0

// Invalidator receives the single coalesced redraw request per sync pass.
type Invalidator interface {
	Invalidate()
}

// InvalidatorFunc adapts a function to the Invalidator interface.
type InvalidatorFunc func()

func (f InvalidatorFunc) Invalidate() { f() }

// Stats summarizes one synchronization pass.
type Stats struct {
	Created int
	Updated int
	Removed int
	Failed  int
}

// Synchronizer owns the render-node pool. It is single-threaded by
// contract: Sync runs inside event callbacks, never concurrently.
type Synchronizer struct {
	st    store.Interface
	index *spatial.Index
	inv   Invalidator
	pool  map[string]*Node
	log   *slog.Logger
}

// NewSynchronizer creates a synchronizer over the given store and index.
// inv may be nil when no renderer is attached yet.
func NewSynchronizer(st store.Interface, index *spatial.Index, inv Invalidator) *Synchronizer {
	return &Synchronizer{
		st:    st,
		index: index,
		inv:   inv,
		pool:  make(map[string]*Node),
		log:   applog.WithComponent("scene"),
	}
}

// SetInvalidator attaches (or replaces) the redraw sink.
func (s *Synchronizer) SetInvalidator(inv Invalidator) { s.inv = inv }

// Node returns the pooled node for an id, if present.
func (s *Synchronizer) Node(id string) (*Node, bool) {
	n, ok := s.pool[id]
	return n, ok
}

// Len reports the pool population.
func (s *Synchronizer) Len() int { return len(s.pool) }

// Nodes returns the pool; callers must treat it as read-only.
func (s *Synchronizer) Nodes() map[string]*Node { return s.pool }

// Sync reconciles the store's collections against the node pool, rebuilds
// the spatial index from the current element set and schedules exactly one
// redraw. Auto-grow writebacks (wrapped text taller than its box) are
// applied to the store within the same pass and converge immediately.
func (s *Synchronizer) Sync() Stats {
	var stats Stats
	elements := s.st.Elements()
	sections := s.st.Sections()
	byID := section.ByID(sections)

	present := make(map[string]bool, len(elements)+len(sections))
	for _, e := range elements {
		present[e.ID] = true
	}
	for _, sec := range sections {
		present[sec.ID] = true
	}

	// Removals first: detach nodes whose ids vanished.
	for id := range s.pool {
		if !present[id] {
			delete(s.pool, id)
			stats.Removed++
		}
	}

	// Sections before elements so child layout sees fresh origins.
	for _, sec := range sections {
		created, err := s.applySection(sec)
		s.tally(&stats, sec.ID, created, err)
	}

	elementByID := make(map[string]domain.Element, len(elements))
	world := make([]domain.Element, 0, len(elements))
	for _, e := range elements {
		w := section.ResolveWorld(e, byID)
		elementByID[e.ID] = w
		world = append(world, w)
	}

	for i, w := range world {
		created, grown, err := s.applyElement(w, elementByID)
		if grown != 0 {
			// Keep the world copy current so the index sees the grown box.
			world[i].Height = grown
			elementByID[w.ID] = world[i]
		}
		s.tally(&stats, w.ID, created, err)
	}

	s.index.Rebuild(world)

	if s.inv != nil {
		s.inv.Invalidate()
	}
	return stats
}

func (s *Synchronizer) tally(stats *Stats, id string, created bool, err error) {
	switch {
	case err != nil:
		stats.Failed++
		s.log.Error("sync element failed", slog.String("id", id), slog.Any("err", err))
	case created:
		stats.Created++
	default:
		stats.Updated++
	}
}

func (s *Synchronizer) applySection(sec domain.Section) (created bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("section updater panicked: %v", r)
		}
	}()
	n, ok := s.pool[sec.ID]
	if !ok {
		n = &Node{ID: sec.ID, Type: KindSection}
		created = true
	}
	n.Bounds = sec.Rect()
	n.Title = sec.Name
	n.Style = Style{Fill: sec.Fill, Opacity: 1}
	if created {
		// Pool insertion happens only after the updater succeeded.
		s.pool[sec.ID] = n
	}
	return created, nil
}

// applyElement builds or updates the node for a world-resolved element.
// grown is non-zero when auto-grow enlarged the element's stored height.
func (s *Synchronizer) applyElement(w domain.Element, byID map[string]domain.Element) (created bool, grown float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("updater for %s panicked: %v", w.Type, r)
		}
	}()
	if w.ID == "" {
		return false, 0, fmt.Errorf("element without id")
	}

	existing, ok := s.pool[w.ID]
	created = !ok
	// Layout runs on a staging node; the pool is only touched on success, so
	// a panicking updater leaves the prior state for that id intact.
	n := &Node{ID: w.ID, Type: w.Type}
	if ok {
		tmp := *existing
		n = &tmp
	}
	n.Type = w.Type
	n.Style = Style{Fill: w.Fill, Stroke: w.Stroke, StrokeWidth: w.StrokeWidth, Opacity: opacity(w.Opacity)}

	switch {
	case w.Type.IsStroke():
		s.layoutStroke(n, w)
	case w.Type.IsConnector():
		s.layoutConnector(n, w, byID)
	case w.Type == domain.TypeText || w.Type == domain.TypeStickyNote:
		grown = s.layoutText(n, w)
	case w.Type == domain.TypeTable:
		s.layoutTable(n, w)
	default:
		n.Bounds = w.Bounds()
	}

	if ok {
		*existing = *n
	} else {
		s.pool[w.ID] = n
	}
	return created, grown, nil
}

func opacity(v float64) float64 {
	if v <= 0 || v > 1 {
		return 1
	}
	return v
}

func (s *Synchronizer) layoutStroke(n *Node, w domain.Element) {
	n.Bounds = w.Bounds()
	pts := make([]vector.Pt, len(w.Points))
	for i, p := range w.Points {
		pts[i] = vector.Pt{X: w.X + p.X, Y: w.Y + p.Y}
	}
	n.Points = pts
}

func (s *Synchronizer) layoutConnector(n *Node, w domain.Element, byID map[string]domain.Element) {
	// Bound endpoints follow the host's current geometry every pass.
	c := w
	snap.UpdateConnectorEndpoints(&c, byID)
	if c.Start != nil {
		n.Start = c.Start.Pt()
	}
	if c.End != nil {
		n.End = c.End.Pt()
	}
	n.Bounds = c.Bounds()
}

// layoutText wraps the content into the box and grows the stored height
// when the wrapped block no longer fits. The writeback targets exactly the
// required height, so the next pass is a no-op rather than an oscillation.
func (s *Synchronizer) layoutText(n *Node, w domain.Element) (grown float64) {
	n.Bounds = w.Bounds()
	n.FontSize = w.FontSize
	m := textlayout.ForSize(w.FontSize)
	n.LineHeight = m.LineHeight()
	n.Lines = textlayout.Wrap(m, w.Text, w.Width-2*textPadding)

	needed := textlayout.BlockHeight(m, len(n.Lines)) + 2*textPadding
	if needed > w.Height {
		n.Bounds.H = needed
		if s.st.UpdateElement(w.ID, store.ElementPatch{Height: store.F(needed)}) {
			return needed
		}
	}
	return 0
}

func (s *Synchronizer) layoutTable(n *Node, w domain.Element) {
	n.Bounds = w.Bounds()
	rows, cols := w.Rows, w.Cols
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	n.RowHeights = uniform(w.Height, rows)
	n.ColWidths = uniform(w.Width, cols)
}

func uniform(total float64, parts int) []float64 {
	out := make([]float64, parts)
	each := total / float64(parts)
	for i := range out {
		out[i] = each
	}
	return out
}
