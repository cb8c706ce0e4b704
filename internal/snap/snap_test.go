/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package snap

import (
	"testing"

	"goboard/internal/domain"
	"goboard/internal/vector"
)

func box(id string, x, y, w, h float64) domain.Element {
	return domain.Element{ID: id, Type: domain.TypeRectangle, X: x, Y: y, Width: w, Height: h}
}

func TestCandidatePointsBoxHasNinePoints(t *testing.T) {
	pts := CandidatePoints(box("e", 0, 0, 100, 50))
	if len(pts) != 9 {
		t.Fatalf("expected 9 candidate points, got %d", len(pts))
	}
	byAnchor := map[domain.Anchor]vector.Pt{}
	for _, p := range pts {
		byAnchor[p.Anchor] = p.Pos
	}
	if byAnchor[domain.AnchorE] != (vector.Pt{X: 100, Y: 25}) {
		t.Fatalf("east anchor wrong: %+v", byAnchor[domain.AnchorE])
	}
	if byAnchor[domain.AnchorSW] != (vector.Pt{X: 0, Y: 50}) {
		t.Fatalf("southwest anchor wrong: %+v", byAnchor[domain.AnchorSW])
	}
	if byAnchor[domain.AnchorCenter] != (vector.Pt{X: 50, Y: 25}) {
		t.Fatalf("center anchor wrong: %+v", byAnchor[domain.AnchorCenter])
	}
}

func TestCandidatePointsCircleHasFivePoints(t *testing.T) {
	c := domain.Element{ID: "c", Type: domain.TypeCircle, X: 100, Y: 100, Radius: 30}
	pts := CandidatePoints(c)
	if len(pts) != 5 {
		t.Fatalf("expected 5 candidate points, got %d", len(pts))
	}
	for _, p := range pts {
		if p.Anchor == domain.AnchorN && p.Pos != (vector.Pt{X: 100, Y: 70}) {
			t.Fatalf("north cardinal wrong: %+v", p.Pos)
		}
	}
}

func TestConnectorsAndStrokesOfferNoPoints(t *testing.T) {
	conn := domain.Element{ID: "k", Type: domain.TypeConnector, Start: &domain.Endpoint{}, End: &domain.Endpoint{X: 10, Y: 10}}
	if pts := CandidatePoints(conn); pts != nil {
		t.Fatalf("connector should have no candidates, got %d", len(pts))
	}
	pen := domain.Element{ID: "p", Type: domain.TypePen, Points: []vector.Pt{{}, {X: 5, Y: 5}}}
	if pts := CandidatePoints(pen); pts != nil {
		t.Fatalf("stroke should have no candidates, got %d", len(pts))
	}
}

func TestFindNearestWithinThreshold(t *testing.T) {
	elements := []domain.Element{
		box("a", 0, 0, 100, 100),
		box("b", 300, 0, 100, 100),
	}
	// Close to a's east midpoint (100, 50).
	got, ok := FindNearest(vector.Pt{X: 110, Y: 55}, elements, 20)
	if !ok || got.ElementID != "a" || got.Anchor != domain.AnchorE {
		t.Fatalf("unexpected snap %+v ok=%v", got, ok)
	}
	// Too far from everything.
	if _, ok := FindNearest(vector.Pt{X: 200, Y: 400}, elements, 20); ok {
		t.Fatalf("expected no snap outside threshold")
	}
}

func TestFindNearestPrefersClosestPoint(t *testing.T) {
	elements := []domain.Element{box("a", 0, 0, 100, 100), box("b", 104, 0, 100, 100)}
	// Pointer between a's east edge (100) and b's west edge (104), nearer b.
	got, ok := FindNearest(vector.Pt{X: 103, Y: 50}, elements, 20)
	if !ok || got.ElementID != "b" || got.Anchor != domain.AnchorW {
		t.Fatalf("expected b west anchor, got %+v", got)
	}
}

func TestUpdateConnectorEndpointsFollowsHost(t *testing.T) {
	host := box("h", 0, 0, 100, 100)
	conn := domain.Element{
		ID:    "c",
		Type:  domain.TypeConnector,
		Start: &domain.Endpoint{X: 100, Y: 50, ElementID: "h", Anchor: domain.AnchorE},
		End:   &domain.Endpoint{X: 400, Y: 400},
	}
	// Host moves by (30, 40).
	host.X += 30
	host.Y += 40
	UpdateConnectorEndpoints(&conn, map[string]domain.Element{"h": host})
	if conn.Start.X != 130 || conn.Start.Y != 90 {
		t.Fatalf("bound endpoint not recomputed: %+v", conn.Start)
	}
	if conn.End.X != 400 || conn.End.Y != 400 {
		t.Fatalf("free endpoint should not move: %+v", conn.End)
	}
}

func TestUpdateConnectorEndpointsMissingHostLeftAlone(t *testing.T) {
	conn := domain.Element{
		ID:    "c",
		Type:  domain.TypeConnector,
		Start: &domain.Endpoint{X: 5, Y: 6, ElementID: "gone", Anchor: domain.AnchorN},
		End:   &domain.Endpoint{X: 7, Y: 8},
	}
	UpdateConnectorEndpoints(&conn, map[string]domain.Element{})
	if conn.Start.X != 5 || conn.Start.Y != 6 {
		t.Fatalf("endpoint with missing host should stay: %+v", conn.Start)
	}
}
