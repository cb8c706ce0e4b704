/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"strings"
	"testing"

	"goboard/internal/domain"
	"goboard/internal/spatial"
	"goboard/internal/store"
	"goboard/internal/vector"
)

func newSync(st store.Interface) (*Synchronizer, *int) {
	invalidations := 0
	ix := spatial.NewIndex(vector.R(-10000, -10000, 20000, 20000))
	s := NewSynchronizer(st, ix, InvalidatorFunc(func() { invalidations++ }))
	return s, &invalidations
}

func TestSyncCreatesUpdatesAndRemoves(t *testing.T) {
	st := store.NewMemStore()
	s, _ := newSync(st)

	a := st.AddElement(domain.Element{Type: domain.TypeRectangle, X: 10, Y: 20, Width: 100, Height: 50})
	b := st.AddElement(domain.Element{Type: domain.TypeEllipse, X: 200, Y: 20, Width: 60, Height: 60})

	stats := s.Sync()
	if stats.Created != 2 || stats.Updated != 0 || stats.Removed != 0 || stats.Failed != 0 {
		t.Fatalf("unexpected first pass stats: %+v", stats)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 pooled nodes, got %d", s.Len())
	}

	st.UpdateElement(a, store.ElementPatch{X: store.F(15)})
	stats = s.Sync()
	if stats.Created != 0 || stats.Updated != 2 {
		t.Fatalf("unexpected second pass stats: %+v", stats)
	}
	n, ok := s.Node(a)
	if !ok || n.Bounds.X != 15 {
		t.Fatalf("node not updated in place: %+v ok=%v", n, ok)
	}

	st.DeleteElement(b)
	stats = s.Sync()
	if stats.Removed != 1 || s.Len() != 1 {
		t.Fatalf("expected removal, stats=%+v len=%d", stats, s.Len())
	}
	if _, ok := s.Node(b); ok {
		t.Fatalf("removed element still pooled")
	}
}

func TestSyncResolvesSectionChildrenToWorld(t *testing.T) {
	st := store.NewMemStore()
	s, _ := newSync(st)

	secID := st.CreateSection(500, 300, 400, 200)
	st.UpdateSection(secID, store.SectionPatch{Name: store.S("Backlog")})
	child := st.AddElement(domain.Element{
		Type: domain.TypeRectangle, X: 40, Y: 50, Width: 80, Height: 30, SectionID: secID,
	})

	s.Sync()

	sn, ok := s.Node(secID)
	if !ok || sn.Type != KindSection {
		t.Fatalf("section node missing or mistyped: %+v", sn)
	}
	if sn.Title != "Backlog" || sn.Bounds != vector.R(500, 300, 400, 200) {
		t.Fatalf("section node wrong: %+v", sn)
	}

	cn, ok := s.Node(child)
	if !ok {
		t.Fatalf("child node missing")
	}
	if cn.Bounds != vector.R(540, 350, 80, 30) {
		t.Fatalf("child not resolved to world space: %+v", cn.Bounds)
	}

	// The spatial index holds the world-resolved element.
	hits := s.index.Query(vector.R(539, 349, 2, 2))
	if len(hits) != 1 || hits[0].ID != child || hits[0].X != 540 {
		t.Fatalf("index query returned %+v", hits)
	}
}

func TestSyncAutoGrowConverges(t *testing.T) {
	st := store.NewMemStore()
	s, _ := newSync(st)

	long := strings.Repeat("overflowing words ", 12)
	id := st.AddElement(domain.Element{
		Type: domain.TypeText, X: 0, Y: 0, Width: 120, Height: 24,
		Text: long, FontSize: 13,
	})

	s.Sync()
	e, _ := st.Element(id)
	if e.Height <= 24 {
		t.Fatalf("expected stored height to grow past 24, got %v", e.Height)
	}
	grownTo := e.Height

	n, _ := s.Node(id)
	if n.Bounds.H != grownTo {
		t.Fatalf("node height %v does not match stored height %v", n.Bounds.H, grownTo)
	}
	if len(n.Lines) < 2 {
		t.Fatalf("expected wrapped lines, got %d", len(n.Lines))
	}

	// A second pass must be a no-op: the writeback hit the exact height.
	s.Sync()
	e2, _ := st.Element(id)
	if e2.Height != grownTo {
		t.Fatalf("height oscillated: %v then %v", grownTo, e2.Height)
	}

	// Growth also lands in the spatial index within the same pass.
	hits := s.index.Query(vector.R(0, grownTo-1, 120, 2))
	if len(hits) != 1 || hits[0].ID != id {
		t.Fatalf("index missed the grown box: %+v", hits)
	}
}

func TestSyncConnectorFollowsHost(t *testing.T) {
	st := store.NewMemStore()
	s, _ := newSync(st)

	host := st.AddElement(domain.Element{Type: domain.TypeRectangle, X: 0, Y: 0, Width: 100, Height: 100})
	conn := st.AddElement(domain.Element{
		Type:  domain.TypeConnector,
		Start: &domain.Endpoint{X: 100, Y: 50, ElementID: host, Anchor: domain.AnchorE},
		End:   &domain.Endpoint{X: 400, Y: 50},
	})
	s.Sync()

	st.UpdateElement(host, store.ElementPatch{X: store.F(30), Y: store.F(40)})
	s.Sync()

	n, _ := s.Node(conn)
	if n.Start != (vector.Pt{X: 130, Y: 90}) {
		t.Fatalf("bound endpoint did not follow host: %+v", n.Start)
	}
	if n.End != (vector.Pt{X: 400, Y: 50}) {
		t.Fatalf("free endpoint moved: %+v", n.End)
	}
}

// badStore injects an element the synchronizer must refuse, alongside
// legitimate ones it must still process.
type badStore struct {
	*store.MemStore
}

func (b *badStore) Elements() []domain.Element {
	return append(b.MemStore.Elements(), domain.Element{Type: domain.TypeRectangle, Width: 10, Height: 10})
}

func TestSyncSkipsFailingElement(t *testing.T) {
	mem := store.NewMemStore()
	good := mem.AddElement(domain.Element{Type: domain.TypeRectangle, X: 1, Y: 2, Width: 3, Height: 4})
	s, _ := newSync(&badStore{MemStore: mem})

	stats := s.Sync()
	if stats.Failed != 1 {
		t.Fatalf("expected one failure, got %+v", stats)
	}
	if stats.Created != 1 {
		t.Fatalf("good element should still sync: %+v", stats)
	}
	if _, ok := s.Node(good); !ok {
		t.Fatalf("good element missing from pool")
	}
}

func TestSyncInvalidatesExactlyOncePerPass(t *testing.T) {
	st := store.NewMemStore()
	s, invalidations := newSync(st)

	for i := 0; i < 5; i++ {
		st.AddElement(domain.Element{Type: domain.TypeRectangle, X: float64(i * 50), Width: 40, Height: 40})
	}
	s.Sync()
	if *invalidations != 1 {
		t.Fatalf("expected 1 invalidation after first sync, got %d", *invalidations)
	}
	s.Sync()
	s.Sync()
	if *invalidations != 3 {
		t.Fatalf("expected 3 invalidations after three syncs, got %d", *invalidations)
	}
}

func TestSyncTableGridGeometry(t *testing.T) {
	st := store.NewMemStore()
	s, _ := newSync(st)

	id := st.AddElement(domain.Element{
		Type: domain.TypeTable, X: 0, Y: 0, Width: 300, Height: 120, Rows: 4, Cols: 3,
	})
	s.Sync()

	n, _ := s.Node(id)
	if len(n.RowHeights) != 4 || len(n.ColWidths) != 3 {
		t.Fatalf("unexpected grid: %d rows, %d cols", len(n.RowHeights), len(n.ColWidths))
	}
	if n.RowHeights[0] != 30 || n.ColWidths[0] != 100 {
		t.Fatalf("uniform sizing wrong: row=%v col=%v", n.RowHeights[0], n.ColWidths[0])
	}
}
