/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package viewport maintains the pan/zoom state mapping world coordinates to
// screen pixels. The transform is translate-then-scale:
//
//	screen = world*scale + (x, y)
//
// Tools never write the state directly; all mutation goes through this API.
package viewport

import (
	"math"
	"time"

	"goboard/internal/vector"
)

// State is the world-to-screen affine transform.
type State struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// Config bounds the zoom range and sets the wheel-zoom step.
type Config struct {
	MinScale    float64
	MaxScale    float64
	ScaleFactor float64
}

// DefaultConfig mirrors the interactive defaults of the editor.
func DefaultConfig() Config {
	return Config{MinScale: 0.1, MaxScale: 4, ScaleFactor: 1.1}
}

// Viewport owns the camera state. Not safe for concurrent use.
type Viewport struct {
	cfg     Config
	state   State
	surface vector.Size

	anim *animation
	// pinch gesture baseline; gestures apply to this, not incrementally
	pinchBase *pinchStart
}

type animation struct {
	from, to State
	start    time.Time
	duration time.Duration
}

type pinchStart struct {
	state    State
	dist     float64
	midpoint vector.Pt
}

// New creates a viewport at origin with scale 1.
func New(cfg Config) *Viewport {
	if cfg.MinScale <= 0 {
		cfg.MinScale = DefaultConfig().MinScale
	}
	if cfg.MaxScale < cfg.MinScale {
		cfg.MaxScale = DefaultConfig().MaxScale
	}
	if cfg.ScaleFactor <= 1 {
		cfg.ScaleFactor = DefaultConfig().ScaleFactor
	}
	return &Viewport{cfg: cfg, state: State{Scale: 1}}
}

// State returns the current camera state.
func (v *Viewport) State() State { return v.state }

// Config returns the zoom configuration.
func (v *Viewport) Config() Config { return v.cfg }

// SetSurfaceSize records the render surface size in screen pixels. A zero
// size means the surface is not ready yet and gesture operations no-op.
func (v *Viewport) SetSurfaceSize(w, h float64) { v.surface = vector.Size{W: w, H: h} }

// Ready reports whether a render surface has been attached.
func (v *Viewport) Ready() bool { return v.surface.W > 0 && v.surface.H > 0 }

// SetState replaces the camera state, clamping scale. Cancels any in-flight
// animation.
func (v *Viewport) SetState(s State) {
	v.cancelAnimation()
	s.Scale = v.clampScale(s.Scale)
	v.state = s
}

func (v *Viewport) clampScale(s float64) float64 {
	if s < v.cfg.MinScale {
		return v.cfg.MinScale
	}
	if s > v.cfg.MaxScale {
		return v.cfg.MaxScale
	}
	return s
}

// ScreenToWorld converts a screen point to world coordinates.
func (v *Viewport) ScreenToWorld(p vector.Pt) vector.Pt {
	return vector.Pt{
		X: (p.X - v.state.X) / v.state.Scale,
		Y: (p.Y - v.state.Y) / v.state.Scale,
	}
}

// WorldToScreen converts a world point to screen coordinates. It is the
// exact inverse of ScreenToWorld to floating-point precision.
func (v *Viewport) WorldToScreen(p vector.Pt) vector.Pt {
	return vector.Pt{
		X: p.X*v.state.Scale + v.state.X,
		Y: p.Y*v.state.Scale + v.state.Y,
	}
}

// VisibleWorldRect returns the world-space rectangle covered by the surface.
func (v *Viewport) VisibleWorldRect() vector.Rect {
	tl := v.ScreenToWorld(vector.Pt{})
	br := v.ScreenToWorld(vector.Pt{X: v.surface.W, Y: v.surface.H})
	return vector.Normalized(tl, br)
}

// PanBy shifts the camera by a screen-space delta.
func (v *Viewport) PanBy(dx, dy float64) {
	if !v.Ready() {
		return
	}
	v.cancelAnimation()
	v.state.X += dx
	v.state.Y += dy
}

// ZoomToPoint zooms so that the world point currently under screenPt stays
// under screenPt after the scale change.
func (v *Viewport) ZoomToPoint(screenPt vector.Pt, newScale float64) {
	if !v.Ready() {
		return
	}
	v.cancelAnimation()
	newScale = v.clampScale(newScale)
	world := v.ScreenToWorld(screenPt)
	v.state = State{
		X:     screenPt.X - world.X*newScale,
		Y:     screenPt.Y - world.Y*newScale,
		Scale: newScale,
	}
}

// ZoomStep applies one wheel step at the screen point; direction > 0 zooms in.
func (v *Viewport) ZoomStep(screenPt vector.Pt, direction int) {
	factor := v.cfg.ScaleFactor
	if direction < 0 {
		factor = 1 / factor
	}
	v.ZoomToPoint(screenPt, v.state.Scale*factor)
}

// PinchBegin captures the gesture baseline from two touch points.
func (v *Viewport) PinchBegin(a, b vector.Pt) {
	if !v.Ready() {
		return
	}
	v.cancelAnimation()
	v.pinchBase = &pinchStart{
		state:    v.state,
		dist:     a.Dist(b),
		midpoint: vector.Pt{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2},
	}
}

// PinchUpdate recomputes the camera from the gesture baseline. Applying the
// ratio to the start state rather than incrementally avoids drift.
func (v *Viewport) PinchUpdate(a, b vector.Pt) {
	base := v.pinchBase
	if base == nil || base.dist == 0 {
		return
	}
	mid := vector.Pt{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	scale := v.clampScale(base.state.Scale * a.Dist(b) / base.dist)

	// Keep the world point that was under the start midpoint under the start
	// midpoint at the new scale, then shift by the midpoint travel.
	worldAtMid := vector.Pt{
		X: (base.midpoint.X - base.state.X) / base.state.Scale,
		Y: (base.midpoint.Y - base.state.Y) / base.state.Scale,
	}
	v.state = State{
		X:     base.midpoint.X - worldAtMid.X*scale + (mid.X - base.midpoint.X),
		Y:     base.midpoint.Y - worldAtMid.Y*scale + (mid.Y - base.midpoint.Y),
		Scale: scale,
	}
}

// PinchEnd drops the gesture baseline.
func (v *Viewport) PinchEnd() { v.pinchBase = nil }

// FitToContent frames the given world bounds inside the surface minus
// padding, never zooming in past 100%, and centers the content.
func (v *Viewport) FitToContent(bounds vector.Rect, padding float64) {
	if !v.Ready() || bounds.Empty() {
		return
	}
	v.cancelAnimation()
	availW := v.surface.W - 2*padding
	availH := v.surface.H - 2*padding
	if availW <= 0 || availH <= 0 {
		return
	}
	scale := math.Min(availW/bounds.W, availH/bounds.H)
	if scale > 1 {
		scale = 1
	}
	scale = v.clampScale(scale)
	center := bounds.Center()
	v.state = State{
		X:     v.surface.W/2 - center.X*scale,
		Y:     v.surface.H/2 - center.Y*scale,
		Scale: scale,
	}
}

// AnimateTo starts a time-based fly-to toward target. A new request cancels
// an in-flight one; the engine drives progress through Step each frame.
func (v *Viewport) AnimateTo(target State, duration time.Duration, now time.Time) {
	target.Scale = v.clampScale(target.Scale)
	if duration <= 0 {
		v.state = target
		v.anim = nil
		return
	}
	v.anim = &animation{from: v.state, to: target, start: now, duration: duration}
}

// Animating reports whether a fly-to is in flight.
func (v *Viewport) Animating() bool { return v.anim != nil }

// Step advances the in-flight animation. It returns true while more frames
// are needed. Interpolation uses an ease-out-cubic curve.
func (v *Viewport) Step(now time.Time) bool {
	a := v.anim
	if a == nil {
		return false
	}
	t := float64(now.Sub(a.start)) / float64(a.duration)
	if t >= 1 {
		v.state = a.to
		v.anim = nil
		return false
	}
	if t < 0 {
		t = 0
	}
	k := easeOutCubic(t)
	v.state = State{
		X:     a.from.X + (a.to.X-a.from.X)*k,
		Y:     a.from.Y + (a.to.Y-a.from.Y)*k,
		Scale: a.from.Scale + (a.to.Scale-a.from.Scale)*k,
	}
	return true
}

func (v *Viewport) cancelAnimation() { v.anim = nil }

func easeOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}
