/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package store

import (
	"testing"
	"time"

	"goboard/internal/domain"
)

func TestAddElementAssignsIDAndTimestamps(t *testing.T) {
	m := NewMemStore()
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.SetClock(func() time.Time { return fixed })

	id := m.AddElement(domain.Element{Type: domain.TypeRectangle, Width: 10, Height: 10})
	if id == "" {
		t.Fatalf("expected generated id")
	}
	e, ok := m.Element(id)
	if !ok {
		t.Fatalf("element not stored")
	}
	if !e.CreatedAt.Equal(fixed) || !e.UpdatedAt.Equal(fixed) {
		t.Fatalf("timestamps not set: %+v", e)
	}
}

func TestUpdateElementAppliesPartialPatch(t *testing.T) {
	m := NewMemStore()
	id := m.AddElement(domain.Element{Type: domain.TypeRectangle, X: 1, Y: 2, Width: 10, Height: 10, Fill: "#fff"})
	if !m.UpdateElement(id, ElementPatch{X: F(50), Text: S("hi")}) {
		t.Fatalf("update failed")
	}
	e, _ := m.Element(id)
	if e.X != 50 || e.Y != 2 || e.Fill != "#fff" || e.Text != "hi" {
		t.Fatalf("patch applied incorrectly: %+v", e)
	}
}

func TestUpdateUnknownElementReturnsFalse(t *testing.T) {
	m := NewMemStore()
	if m.UpdateElement("ghost", ElementPatch{X: F(1)}) {
		t.Fatalf("expected false for unknown id")
	}
}

func TestDeleteElementRemovesFromSelection(t *testing.T) {
	m := NewMemStore()
	id := m.AddElement(domain.Element{Type: domain.TypeRectangle, Width: 5, Height: 5})
	m.SetSelection([]string{id, "other"})
	if !m.DeleteElement(id) {
		t.Fatalf("delete failed")
	}
	sel := m.Selection()
	if len(sel) != 1 || sel[0] != "other" {
		t.Fatalf("selection not pruned: %v", sel)
	}
	if _, ok := m.Element(id); ok {
		t.Fatalf("element still present after delete")
	}
}

func TestSectionLifecycle(t *testing.T) {
	m := NewMemStore()
	id := m.CreateSection(10, 20, 300, 200)
	s, ok := m.Section(id)
	if !ok || s.Width != 300 {
		t.Fatalf("section not created: %+v", s)
	}
	m.UpdateSection(id, SectionPatch{Name: S("Ideas"), X: F(40)})
	s, _ = m.Section(id)
	if s.Name != "Ideas" || s.X != 40 || s.Y != 20 {
		t.Fatalf("section patch wrong: %+v", s)
	}
}

func TestClearSectionIDViaPatch(t *testing.T) {
	m := NewMemStore()
	id := m.AddElement(domain.Element{Type: domain.TypeRectangle, SectionID: "s1", Width: 5, Height: 5})
	m.UpdateElement(id, ElementPatch{SectionID: S("")})
	e, _ := m.Element(id)
	if e.SectionID != "" {
		t.Fatalf("sectionId not cleared: %q", e.SectionID)
	}
}

func TestBoardRoundTrip(t *testing.T) {
	m := NewMemStore()
	m.CreateSection(0, 0, 100, 100)
	m.AddElement(domain.Element{Type: domain.TypeText, Text: "note", Width: 100, Height: 24})
	b := m.Board("demo")
	if len(b.Sections) != 1 || len(b.Elements) != 1 || b.Name != "demo" {
		t.Fatalf("unexpected board %+v", b)
	}
	m2 := FromBoard(b)
	if len(m2.Elements()) != 1 || len(m2.Sections()) != 1 {
		t.Fatalf("board not restored")
	}
}

func TestActiveToolDefaultsToSelect(t *testing.T) {
	m := NewMemStore()
	if m.ActiveTool() != "select" {
		t.Fatalf("expected select, got %q", m.ActiveTool())
	}
	m.SetActiveTool("rectangle")
	if m.ActiveTool() != "rectangle" {
		t.Fatalf("tool not set")
	}
}
