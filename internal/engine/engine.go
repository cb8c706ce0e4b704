/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package engine is the embedding facade of the canvas engine: it wires the
// store, viewport, spatial index, scene synchronizer and tool machine
// together and exposes the event entry points a shell calls. One engine per
// board; single-threaded.
package engine

import (
	"time"

	"goboard/internal/scene"
	"goboard/internal/section"
	"goboard/internal/spatial"
	"goboard/internal/store"
	"goboard/internal/tools"
	"goboard/internal/vector"
	"goboard/internal/viewport"
)

// DefaultUniverse is the world region covered by the spatial index.
var DefaultUniverse = vector.R(-100000, -100000, 200000, 200000)

// Config tunes a new engine; zero values use the editor defaults.
type Config struct {
	Universe  vector.Rect
	Viewport  viewport.Config
	Rules     section.Rules
	Scheduler tools.FrameScheduler
}

// Engine owns one board's interactive state.
type Engine struct {
	st      store.Interface
	vp      *viewport.Viewport
	index   *spatial.Index
	scene   *scene.Synchronizer
	machine *tools.Machine

	onElementUpdate   func(id string, p store.ElementPatch)
	onSelectionChange func(ids []string)
}

// New creates an engine over the given authoritative store.
func New(st store.Interface, cfg Config) *Engine {
	if cfg.Universe.Empty() {
		cfg.Universe = DefaultUniverse
	}
	if cfg.Viewport == (viewport.Config{}) {
		cfg.Viewport = viewport.DefaultConfig()
	}
	e := &Engine{}
	watched := &watchedStore{Interface: st, engine: e}
	e.st = watched
	e.vp = viewport.New(cfg.Viewport)
	e.index = spatial.NewIndex(cfg.Universe)
	e.scene = scene.NewSynchronizer(watched, e.index, nil)
	e.machine = tools.NewMachine(watched, e.vp)
	if cfg.Rules != (section.Rules{}) {
		e.machine.SetRules(cfg.Rules)
	}
	if cfg.Scheduler != nil {
		e.machine.SetScheduler(cfg.Scheduler)
	}
	return e
}

// Viewport returns the camera.
func (e *Engine) Viewport() *viewport.Viewport { return e.vp }

// Machine returns the tool state machine.
func (e *Engine) Machine() *tools.Machine { return e.machine }

// Scene returns the synchronizer owning the render-node pool.
func (e *Engine) Scene() *scene.Synchronizer { return e.scene }

// Store returns the store the engine mutates through; updates made through
// it fire the engine callbacks.
func (e *Engine) Store() store.Interface { return e.st }

// SetInvalidator attaches the redraw sink used by the synchronizer.
func (e *Engine) SetInvalidator(inv scene.Invalidator) { e.scene.SetInvalidator(inv) }

// OnElementUpdate registers a callback fired whenever interaction patches an
// element through the store.
func (e *Engine) OnElementUpdate(fn func(id string, p store.ElementPatch)) {
	e.onElementUpdate = fn
}

// OnSelectionChange registers a callback fired whenever the selection set
// changes through the store.
func (e *Engine) OnSelectionChange(fn func(ids []string)) { e.onSelectionChange = fn }

// SyncElements reconciles the scene against the store's current collections.
func (e *Engine) SyncElements() scene.Stats { return e.scene.Sync() }

// SyncSelection replaces the selection set.
func (e *Engine) SyncSelection(ids []string) { e.st.SetSelection(ids) }

// UpdateViewport replaces the camera state.
func (e *Engine) UpdateViewport(s viewport.State) { e.vp.SetState(s) }

// ElementsAtPoint returns the ids of elements whose world bounds contain the
// given world point, in index order.
func (e *Engine) ElementsAtPoint(x, y float64) []string {
	hits := e.index.QueryPoint(vector.Pt{X: x, Y: y})
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	return ids
}

// ElementsInRect returns the ids of elements whose world bounds intersect
// the given world rectangle.
func (e *Engine) ElementsInRect(r vector.Rect) []string {
	hits := e.index.Query(r)
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	return ids
}

// Pointer and key entry points: each forwards to the machine, then runs one
// synchronization pass so the scene reflects any mutation the event caused.

func (e *Engine) MouseDown(screen vector.Pt, mods tools.Modifiers) {
	e.machine.MouseDown(screen, mods)
	e.scene.Sync()
}

func (e *Engine) MouseMove(screen vector.Pt, mods tools.Modifiers) {
	e.machine.MouseMove(screen, mods)
	e.scene.Sync()
}

func (e *Engine) MouseUp(screen vector.Pt, mods tools.Modifiers) {
	e.machine.MouseUp(screen, mods)
	e.scene.Sync()
}

func (e *Engine) Click(screen vector.Pt, mods tools.Modifiers) {
	e.machine.Click(screen, mods)
	e.scene.Sync()
}

func (e *Engine) KeyDown(key string) {
	e.machine.KeyDown(key)
	e.scene.Sync()
}

// Wheel applies one zoom step at the cursor; direction > 0 zooms in.
func (e *Engine) Wheel(screen vector.Pt, direction int) {
	e.vp.ZoomStep(screen, direction)
}

// StepAnimation advances an in-flight viewport fly-to; the shell calls it
// once per frame while it returns true.
func (e *Engine) StepAnimation(now time.Time) bool { return e.vp.Step(now) }

// watchedStore forwards to the wrapped store and fires the engine callbacks
// on mutation, so embedders observe interaction side effects.
type watchedStore struct {
	store.Interface
	engine *Engine
}

func (w *watchedStore) UpdateElement(id string, p store.ElementPatch) bool {
	ok := w.Interface.UpdateElement(id, p)
	if ok && w.engine.onElementUpdate != nil {
		w.engine.onElementUpdate(id, p)
	}
	return ok
}

func (w *watchedStore) SetSelection(ids []string) {
	w.Interface.SetSelection(ids)
	if w.engine.onSelectionChange != nil {
		w.engine.onSelectionChange(append([]string(nil), ids...))
	}
}

func (w *watchedStore) DeleteElement(id string) bool {
	ok := w.Interface.DeleteElement(id)
	if ok && w.engine.onSelectionChange != nil {
		w.engine.onSelectionChange(w.Interface.Selection())
	}
	return ok
}
