/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package store

import (
	"time"

	"github.com/google/uuid"

	"goboard/internal/domain"
)

// MemStore is the in-memory authoritative store used by the desktop app and
// in tests. Insertion order is preserved so iteration stays deterministic.
// Not safe for concurrent use; the editor is single-threaded event-driven.
type MemStore struct {
	elements   []domain.Element
	sections   []domain.Section
	selection  []string
	activeTool string
	now        func() time.Time
}

// NewMemStore creates an empty store with the select tool active.
func NewMemStore() *MemStore {
	return &MemStore{activeTool: "select", now: time.Now}
}

// FromBoard creates a store pre-populated from a board manifest.
func FromBoard(b domain.Board) *MemStore {
	m := NewMemStore()
	m.sections = append(m.sections, b.Sections...)
	m.elements = append(m.elements, b.Elements...)
	return m
}

// Load replaces the store contents with a board manifest and resets the
// selection.
func (m *MemStore) Load(b domain.Board) {
	m.sections = append(m.sections[:0], b.Sections...)
	m.elements = append(m.elements[:0], b.Elements...)
	m.selection = nil
	m.activeTool = "select"
}

// Board snapshots the store back into a manifest.
func (m *MemStore) Board(name string) domain.Board {
	return domain.Board{
		Name:     name,
		Sections: append([]domain.Section(nil), m.sections...),
		Elements: append([]domain.Element(nil), m.elements...),
	}
}

// SetClock overrides the timestamp source (tests).
func (m *MemStore) SetClock(now func() time.Time) { m.now = now }

func (m *MemStore) Elements() []domain.Element {
	return append([]domain.Element(nil), m.elements...)
}

func (m *MemStore) Sections() []domain.Section {
	return append([]domain.Section(nil), m.sections...)
}

func (m *MemStore) Element(id string) (domain.Element, bool) {
	for _, e := range m.elements {
		if e.ID == id {
			return e, true
		}
	}
	return domain.Element{}, false
}

func (m *MemStore) Section(id string) (domain.Section, bool) {
	for _, s := range m.sections {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Section{}, false
}

// AddElement stores e, assigning an id when absent, and returns the id.
func (m *MemStore) AddElement(e domain.Element) string {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	ts := m.now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = ts
	}
	e.UpdatedAt = ts
	m.elements = append(m.elements, e)
	return e.ID
}

func (m *MemStore) UpdateElement(id string, p ElementPatch) bool {
	for i := range m.elements {
		if m.elements[i].ID == id {
			p.Apply(&m.elements[i])
			m.elements[i].UpdatedAt = m.now()
			return true
		}
	}
	return false
}

func (m *MemStore) DeleteElement(id string) bool {
	for i := range m.elements {
		if m.elements[i].ID == id {
			m.elements = append(m.elements[:i], m.elements[i+1:]...)
			m.dropFromSelection(id)
			return true
		}
	}
	return false
}

func (m *MemStore) CreateSection(x, y, w, h float64) string {
	s := domain.Section{
		ID: uuid.NewString(), X: x, Y: y, Width: w, Height: h,
		CreatedAt: m.now(), UpdatedAt: m.now(),
	}
	m.sections = append(m.sections, s)
	return s.ID
}

func (m *MemStore) UpdateSection(id string, p SectionPatch) bool {
	for i := range m.sections {
		if m.sections[i].ID == id {
			p.Apply(&m.sections[i])
			m.sections[i].UpdatedAt = m.now()
			return true
		}
	}
	return false
}

func (m *MemStore) Selection() []string {
	return append([]string(nil), m.selection...)
}

func (m *MemStore) SetSelection(ids []string) {
	m.selection = append([]string(nil), ids...)
}

func (m *MemStore) dropFromSelection(id string) {
	kept := m.selection[:0]
	for _, s := range m.selection {
		if s != id {
			kept = append(kept, s)
		}
	}
	m.selection = kept
}

func (m *MemStore) ActiveTool() string { return m.activeTool }

func (m *MemStore) SetActiveTool(tool string) { m.activeTool = tool }
