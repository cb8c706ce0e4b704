/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package spatial provides a region-quadtree index over canvas elements for
// hit-testing and viewport culling. Inserted elements are treated as
// read-only snapshots; their coordinates must already be world-space.
package spatial

import (
	"goboard/internal/domain"
	"goboard/internal/vector"
)

const (
	// DefaultCapacity is the per-leaf element count before a split.
	DefaultCapacity = 10
	// DefaultMaxDepth bounds subdivision; leaves at max depth grow past capacity.
	DefaultMaxDepth = 5
)

// Index is a quadtree over a fixed bounding universe. It is not safe for
// concurrent use; the engine mutates it only from event callbacks.
type Index struct {
	root     *node
	capacity int
	maxDepth int
}

type node struct {
	region   vector.Rect
	depth    int
	children *[4]*node // nil while the node is a leaf
	items    []domain.Element
}

// NewIndex creates an index over the given universe with default limits.
func NewIndex(universe vector.Rect) *Index {
	return NewIndexWith(universe, DefaultCapacity, DefaultMaxDepth)
}

// NewIndexWith creates an index with explicit capacity and depth limits.
func NewIndexWith(universe vector.Rect, capacity, maxDepth int) *Index {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Index{
		root:     &node{region: universe},
		capacity: capacity,
		maxDepth: maxDepth,
	}
}

// Universe returns the fixed bounding region of the index.
func (ix *Index) Universe() vector.Rect { return ix.root.region }

// Insert adds an element snapshot to every leaf its bounding box overlaps.
// Elements without an id are skipped: they cannot be removed later and are
// hit-tested by direct iteration instead (sections fall in this category).
// Duplicate inserts of the same id are not deduplicated; callers must
// remove-before-insert on update.
func (ix *Index) Insert(e domain.Element) {
	if e.ID == "" {
		return
	}
	bounds := e.Bounds()
	if !bounds.Intersects(ix.root.region) {
		return
	}
	ix.root.insert(e, bounds, ix.capacity, ix.maxDepth)
}

func (n *node) insert(e domain.Element, bounds vector.Rect, capacity, maxDepth int) {
	if n.children == nil {
		n.items = append(n.items, e)
		if len(n.items) > capacity && n.depth < maxDepth {
			n.split(capacity, maxDepth)
		}
		return
	}
	for _, c := range n.children {
		if c.region.Intersects(bounds) {
			c.insert(e, bounds, capacity, maxDepth)
		}
	}
}

func (n *node) split(capacity, maxDepth int) {
	hw := n.region.W / 2
	hh := n.region.H / 2
	kids := [4]*node{
		{region: vector.R(n.region.X, n.region.Y, hw, hh), depth: n.depth + 1},
		{region: vector.R(n.region.X+hw, n.region.Y, hw, hh), depth: n.depth + 1},
		{region: vector.R(n.region.X, n.region.Y+hh, hw, hh), depth: n.depth + 1},
		{region: vector.R(n.region.X+hw, n.region.Y+hh, hw, hh), depth: n.depth + 1},
	}
	items := n.items
	n.items = nil
	n.children = &kids
	for _, e := range items {
		b := e.Bounds()
		for _, c := range kids {
			if c.region.Intersects(b) {
				c.insert(e, b, capacity, maxDepth)
			}
		}
	}
}

// Query returns, without duplicates, every element whose bounding box
// intersects rect. A rect outside the universe yields nil.
func (ix *Index) Query(rect vector.Rect) []domain.Element {
	if !rect.Intersects(ix.root.region) {
		return nil
	}
	seen := make(map[string]bool)
	var out []domain.Element
	ix.root.query(rect, seen, &out)
	return out
}

func (n *node) query(rect vector.Rect, seen map[string]bool, out *[]domain.Element) {
	if !n.region.Intersects(rect) {
		return
	}
	if n.children != nil {
		for _, c := range n.children {
			c.query(rect, seen, out)
		}
		return
	}
	for _, e := range n.items {
		if seen[e.ID] {
			continue
		}
		if e.Bounds().Intersects(rect) {
			seen[e.ID] = true
			*out = append(*out, e)
		}
	}
}

// QueryPoint returns every element whose bounding box contains the point.
func (ix *Index) QueryPoint(p vector.Pt) []domain.Element {
	return ix.Query(vector.R(p.X, p.Y, 0, 0))
}

// Remove deletes the element with the given id from every leaf holding it.
// Emptied sibling leaves are merged back into their parent when their
// combined population fits within capacity, bounding memory growth.
func (ix *Index) Remove(id string) {
	if id == "" {
		return
	}
	ix.root.remove(id, ix.capacity)
}

func (n *node) remove(id string, capacity int) {
	if n.children == nil {
		kept := n.items[:0]
		for _, e := range n.items {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		n.items = kept
		return
	}
	for _, c := range n.children {
		c.remove(id, capacity)
	}
	n.tryMerge(capacity)
}

// tryMerge collapses four child leaves back into this node if their combined
// contents fit within capacity.
func (n *node) tryMerge(capacity int) {
	if n.children == nil {
		return
	}
	total := 0
	for _, c := range n.children {
		if c.children != nil {
			return
		}
		total += len(c.items)
	}
	if total > capacity {
		return
	}
	seen := make(map[string]bool, total)
	var merged []domain.Element
	for _, c := range n.children {
		for _, e := range c.items {
			if !seen[e.ID] {
				seen[e.ID] = true
				merged = append(merged, e)
			}
		}
	}
	n.children = nil
	n.items = merged
}

// Update re-indexes an element after a geometry change. Acceptable for
// moderate update rates; continuous per-frame movement should batch into
// Rebuild instead.
func (ix *Index) Update(e domain.Element) {
	ix.Remove(e.ID)
	ix.Insert(e)
}

// Clear drops all indexed elements, keeping the universe.
func (ix *Index) Clear() {
	ix.root = &node{region: ix.root.region}
}

// Rebuild clears the index and inserts all given elements. Used after bulk
// operations and at the end of every synchronization pass.
func (ix *Index) Rebuild(elements []domain.Element) {
	ix.Clear()
	for _, e := range elements {
		ix.Insert(e)
	}
}

// Len reports the number of distinct element ids currently indexed.
func (ix *Index) Len() int {
	seen := make(map[string]bool)
	ix.root.count(seen)
	return len(seen)
}

func (n *node) count(seen map[string]bool) {
	if n.children != nil {
		for _, c := range n.children {
			c.count(seen)
		}
		return
	}
	for _, e := range n.items {
		seen[e.ID] = true
	}
}
