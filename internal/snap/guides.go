/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package snap

// Alignment guides for select-tool drags: a moving rectangle snaps its edges
// and centers to those of nearby anchor rects, independently per axis.

import (
	"math"

	"goboard/internal/vector"
)

// AlignOptions controls which guide candidates are considered.
type AlignOptions struct {
	// Threshold is the maximum distance at which alignment snapping occurs.
	Threshold float64
	Edges     bool
	Centers   bool
}

// AlignAnchor is a static reference rect (another element or a section).
// Weight biases selection when distances tie; 1 when unsure.
type AlignAnchor struct {
	Rect   vector.Rect
	Weight float64
}

// GuideLine describes a visual guide produced by an alignment snap.
// Orientation is "vertical" or "horizontal"; Kind is "edge" or "center".
type GuideLine struct {
	Orientation string
	Kind        string
	Position    float64
	From        vector.Pt
	To          vector.Pt
}

type axisBest struct {
	delta float64
	score float64
	guide GuideLine
	hit   bool
}

func (b *axisBest) consider(delta, threshold, weight float64, g GuideLine) {
	dist := math.Abs(delta)
	if dist > threshold {
		return
	}
	if weight < 1 {
		weight = 1
	}
	score := dist / weight
	if !b.hit || score < b.score {
		b.delta = delta
		b.score = score
		b.guide = g
		b.hit = true
	}
}

// AlignToAnchors computes snapping adjustments for a moving rectangle and
// returns the snapped rect plus any guide lines to render. X and Y snap
// independently; positions are rounded to 3 decimals for determinism.
func AlignToAnchors(moving vector.Rect, anchors []AlignAnchor, opts AlignOptions) (vector.Rect, []GuideLine) {
	if opts.Threshold <= 0 {
		opts.Threshold = 6
	}
	var bx, by axisBest

	mL, mR := moving.X, moving.X+moving.W
	mT, mB := moving.Y, moving.Y+moving.H
	mCX, mCY := moving.X+moving.W/2, moving.Y+moving.H/2

	for _, a := range anchors {
		aL, aR := a.Rect.X, a.Rect.X+a.Rect.W
		aT, aB := a.Rect.Y, a.Rect.Y+a.Rect.H

		if opts.Edges {
			for _, pair := range [][2]float64{{mL, aL}, {mR, aR}, {mL, aR}, {mR, aL}} {
				bx.consider(pair[0]-pair[1], opts.Threshold, a.Weight, verticalGuide(pair[1], moving, a.Rect, "edge"))
			}
			for _, pair := range [][2]float64{{mT, aT}, {mB, aB}, {mT, aB}, {mB, aT}} {
				by.consider(pair[0]-pair[1], opts.Threshold, a.Weight, horizontalGuide(pair[1], moving, a.Rect, "edge"))
			}
		}
		if opts.Centers {
			aCX := a.Rect.X + a.Rect.W/2
			aCY := a.Rect.Y + a.Rect.H/2
			bx.consider(mCX-aCX, opts.Threshold, a.Weight, verticalGuide(aCX, moving, a.Rect, "center"))
			by.consider(mCY-aCY, opts.Threshold, a.Weight, horizontalGuide(aCY, moving, a.Rect, "center"))
		}
	}

	snapped := moving
	var guides []GuideLine
	if bx.hit {
		snapped.X = vector.FloatRound(moving.X-bx.delta, 3)
		guides = append(guides, bx.guide)
	}
	if by.hit {
		snapped.Y = vector.FloatRound(moving.Y-by.delta, 3)
		guides = append(guides, by.guide)
	}
	return snapped, guides
}

func verticalGuide(x float64, a, b vector.Rect, kind string) GuideLine {
	minY := math.Min(a.Y, b.Y)
	maxY := math.Max(a.Y+a.H, b.Y+b.H)
	x = vector.FloatRound(x, 3)
	return GuideLine{
		Orientation: "vertical",
		Kind:        kind,
		Position:    x,
		From:        vector.Pt{X: x, Y: minY},
		To:          vector.Pt{X: x, Y: maxY},
	}
}

func horizontalGuide(y float64, a, b vector.Rect, kind string) GuideLine {
	minX := math.Min(a.X, b.X)
	maxX := math.Max(a.X+a.W, b.X+b.W)
	y = vector.FloatRound(y, 3)
	return GuideLine{
		Orientation: "horizontal",
		Kind:        kind,
		Position:    y,
		From:        vector.Pt{X: minX, Y: y},
		To:          vector.Pt{X: maxX, Y: y},
	}
}
