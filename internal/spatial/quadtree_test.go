/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package spatial

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"goboard/internal/domain"
	"goboard/internal/vector"
)

func universe() vector.Rect { return vector.R(0, 0, 1000, 1000) }

func rect(id string, x, y, w, h float64) domain.Element {
	return domain.Element{ID: id, Type: domain.TypeRectangle, X: x, Y: y, Width: w, Height: h}
}

func ids(es []domain.Element) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.ID)
	}
	sort.Strings(out)
	return out
}

func TestQueryFindsInsertedElementByOwnBounds(t *testing.T) {
	ix := NewIndex(universe())
	for i := 0; i < 40; i++ {
		ix.Insert(rect(fmt.Sprintf("e%d", i), float64(i*20), float64(i*17%900), 30, 30))
	}
	for i := 0; i < 40; i++ {
		e := rect(fmt.Sprintf("e%d", i), float64(i*20), float64(i*17%900), 30, 30)
		got := ids(ix.Query(e.Bounds()))
		found := false
		for _, id := range got {
			if id == e.ID {
				found = true
			}
		}
		if !found {
			t.Fatalf("query(bbox(%s)) did not contain the element; got %v", e.ID, got)
		}
	}
}

func TestQueryMatchesBruteForceOnRandomSets(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ix := NewIndex(universe())
	var all []domain.Element
	for i := 0; i < 200; i++ {
		e := rect(fmt.Sprintf("r%d", i), rng.Float64()*950, rng.Float64()*950, rng.Float64()*80+1, rng.Float64()*80+1)
		all = append(all, e)
		ix.Insert(e)
	}
	for trial := 0; trial < 50; trial++ {
		q := vector.R(rng.Float64()*900, rng.Float64()*900, rng.Float64()*200, rng.Float64()*200)
		var want []string
		for _, e := range all {
			if e.Bounds().Intersects(q) {
				want = append(want, e.ID)
			}
		}
		sort.Strings(want)
		got := ids(ix.Query(q))
		if len(got) != len(want) {
			t.Fatalf("trial %d: got %d ids, want %d (query %+v)", trial, len(got), len(want), q)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("trial %d: mismatch at %d: %s vs %s", trial, i, got[i], want[i])
			}
		}
	}
}

func TestQueryReturnsNoDuplicatesAcrossLeaves(t *testing.T) {
	ix := NewIndex(universe())
	// Big element straddling many leaves after forced splits.
	big := rect("big", 100, 100, 700, 700)
	ix.Insert(big)
	for i := 0; i < 60; i++ {
		ix.Insert(rect(fmt.Sprintf("s%d", i), float64(i*15+5), float64((i*37)%950), 10, 10))
	}
	got := ix.Query(vector.R(0, 0, 1000, 1000))
	count := 0
	for _, e := range got {
		if e.ID == "big" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one occurrence of straddling element, got %d", count)
	}
}

func TestQueryOutsideUniverseIsEmpty(t *testing.T) {
	ix := NewIndex(universe())
	ix.Insert(rect("a", 10, 10, 20, 20))
	if got := ix.Query(vector.R(-500, -500, 100, 100)); len(got) != 0 {
		t.Fatalf("expected empty result, got %d elements", len(got))
	}
}

func TestInsertPartiallyOutsideUniverse(t *testing.T) {
	ix := NewIndex(universe())
	ix.Insert(rect("edge", -50, -50, 100, 100))
	got := ix.Query(vector.R(0, 0, 10, 10))
	if len(got) != 1 || got[0].ID != "edge" {
		t.Fatalf("expected the overlapping element, got %v", ids(got))
	}
}

func TestInsertWithoutIDIsSkipped(t *testing.T) {
	ix := NewIndex(universe())
	ix.Insert(domain.Element{Type: domain.TypeRectangle, X: 10, Y: 10, Width: 50, Height: 50})
	if n := ix.Len(); n != 0 {
		t.Fatalf("expected empty index, got %d", n)
	}
}

func TestUpdateLeavesQueryUnchangedFromSingleInsert(t *testing.T) {
	ixA := NewIndex(universe())
	ixB := NewIndex(universe())
	for i := 0; i < 30; i++ {
		e := rect(fmt.Sprintf("e%d", i), float64(i*30), float64(i*25), 20, 20)
		ixA.Insert(e)
		ixB.Insert(e)
	}
	target := rect("e7", 7*30, 7*25, 20, 20)
	ixB.Update(target)

	q := vector.R(0, 0, 1000, 1000)
	a, b := ids(ixA.Query(q)), ids(ixB.Query(q))
	if len(a) != len(b) {
		t.Fatalf("result sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("results differ at %d: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestRemoveDeletesFromAllLeavesAndMerges(t *testing.T) {
	ix := NewIndexWith(universe(), 4, 5)
	for i := 0; i < 12; i++ {
		ix.Insert(rect(fmt.Sprintf("e%d", i), float64(i*80), float64(i*80), 40, 40))
	}
	for i := 0; i < 12; i++ {
		ix.Remove(fmt.Sprintf("e%d", i))
	}
	if n := ix.Len(); n != 0 {
		t.Fatalf("expected empty index after removals, got %d", n)
	}
	if ix.root.children != nil {
		t.Fatalf("expected root to merge back into a leaf")
	}
}

func TestRebuildResetsContents(t *testing.T) {
	ix := NewIndex(universe())
	for i := 0; i < 20; i++ {
		ix.Insert(rect(fmt.Sprintf("old%d", i), float64(i*40), 10, 20, 20))
	}
	ix.Rebuild([]domain.Element{rect("only", 500, 500, 50, 50)})
	got := ix.Query(universe())
	if len(got) != 1 || got[0].ID != "only" {
		t.Fatalf("expected only the rebuilt element, got %v", ids(got))
	}
}

func TestQueryPoint(t *testing.T) {
	ix := NewIndex(universe())
	ix.Insert(rect("hit", 100, 100, 50, 50))
	ix.Insert(rect("miss", 300, 300, 50, 50))
	got := ix.QueryPoint(vector.Pt{X: 120, Y: 120})
	if len(got) != 1 || got[0].ID != "hit" {
		t.Fatalf("expected single hit, got %v", ids(got))
	}
}
