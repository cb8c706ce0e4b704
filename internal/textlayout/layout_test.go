/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"strings"
	"testing"
)

func TestWidthScalesWithFontSize(t *testing.T) {
	small := ForSize(13)
	big := ForSize(26)
	w1 := small.Width("hello")
	w2 := big.Width("hello")
	if w1 <= 0 {
		t.Fatalf("expected positive width")
	}
	if w2 < w1*1.9 || w2 > w1*2.1 {
		t.Fatalf("expected roughly doubled width, got %v vs %v", w1, w2)
	}
}

func TestWrapRespectsMaxWidth(t *testing.T) {
	m := ForSize(13)
	text := "the quick brown fox jumps over the lazy dog"
	maxW := m.Width("the quick brown")
	lines := Wrap(m, text, maxW)
	if len(lines) < 2 {
		t.Fatalf("expected multiple lines, got %v", lines)
	}
	for _, l := range lines {
		if m.Width(l) > maxW {
			t.Fatalf("line %q exceeds max width", l)
		}
	}
	joined := strings.Join(lines, " ")
	if joined != text {
		t.Fatalf("wrapped text lost content: %q", joined)
	}
}

func TestWrapHonorsExplicitNewlines(t *testing.T) {
	m := ForSize(13)
	lines := Wrap(m, "a\nb\nc", 1000)
	if len(lines) != 3 || lines[0] != "a" || lines[2] != "c" {
		t.Fatalf("unexpected lines %v", lines)
	}
}

func TestWrapHardSplitsOverlongWord(t *testing.T) {
	m := ForSize(13)
	word := strings.Repeat("x", 100)
	maxW := m.Width("xxxxxxxxxx") // 10 chars
	lines := Wrap(m, word, maxW)
	if len(lines) < 5 {
		t.Fatalf("expected hard-split lines, got %d", len(lines))
	}
	total := 0
	for _, l := range lines {
		if m.Width(l) > maxW {
			t.Fatalf("segment %q exceeds max width", l)
		}
		total += len(l)
	}
	if total != 100 {
		t.Fatalf("characters lost in split: %d", total)
	}
}

func TestWrapEmptyAndZeroWidth(t *testing.T) {
	m := ForSize(13)
	if lines := Wrap(m, "", 100); lines != nil {
		t.Fatalf("empty text should yield nil, got %v", lines)
	}
	lines := Wrap(m, "a b", 0)
	if len(lines) != 1 || lines[0] != "a b" {
		t.Fatalf("zero width should disable wrapping, got %v", lines)
	}
}

func TestBlockHeight(t *testing.T) {
	m := ForSize(13)
	if h := BlockHeight(m, 0); h != 0 {
		t.Fatalf("expected zero height, got %v", h)
	}
	if h := BlockHeight(m, 3); h != 3*m.LineHeight() {
		t.Fatalf("unexpected block height %v", h)
	}
}
