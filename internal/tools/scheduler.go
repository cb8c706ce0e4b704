/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tools

// FrameScheduler coalesces high-frequency work onto display frames. Schedule
// replaces any pending callback (last-write-wins); Cancel drops it. The shell
// supplies a real frame-driven implementation; tests use ManualScheduler.
type FrameScheduler interface {
	Schedule(fn func())
	Cancel()
}

// ImmediateScheduler runs callbacks synchronously. It is the default when no
// scheduler is supplied, suitable for headless use.
type ImmediateScheduler struct{}

func (ImmediateScheduler) Schedule(fn func()) { fn() }
func (ImmediateScheduler) Cancel()            {}

// ManualScheduler holds the pending callback until Fire is called, modelling
// one display frame per Fire. Useful for testing coalescing behavior.
type ManualScheduler struct {
	pending func()
	// Scheduled counts Schedule calls, Fired counts executed callbacks.
	Scheduled int
	Fired     int
}

func (m *ManualScheduler) Schedule(fn func()) {
	m.pending = fn
	m.Scheduled++
}

func (m *ManualScheduler) Cancel() { m.pending = nil }

// Pending reports whether a callback is waiting for the next frame.
func (m *ManualScheduler) Pending() bool { return m.pending != nil }

// Fire runs the pending callback, if any, and clears it.
func (m *ManualScheduler) Fire() {
	if m.pending == nil {
		return
	}
	fn := m.pending
	m.pending = nil
	m.Fired++
	fn()
}
