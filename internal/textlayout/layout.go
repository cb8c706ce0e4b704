/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package textlayout isolates text measurement and line breaking behind a
// deterministic interface so layout results are identical across frontends
// and in tests.
package textlayout

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Measurer measures text in canvas units.
type Measurer interface {
	Width(s string) float64
	LineHeight() float64
}

// baseFontSize is the nominal point size of the embedded bitmap face.
const baseFontSize = 13.0

// faceMeasurer measures with the fixed basicfont face, scaled linearly to
// the requested size. Good enough for box layout; exact rasterization is the
// renderer's concern.
type faceMeasurer struct {
	face  font.Face
	scale float64
}

// ForSize returns a measurer approximating the given font size. Sizes at or
// below zero fall back to the base size.
func ForSize(size float64) Measurer {
	if size <= 0 {
		size = baseFontSize
	}
	return &faceMeasurer{face: basicfont.Face7x13, scale: size / baseFontSize}
}

func (m *faceMeasurer) Width(s string) float64 {
	adv := font.MeasureString(m.face, s)
	return float64(adv) / 64 * m.scale
}

func (m *faceMeasurer) LineHeight() float64 {
	met := m.face.Metrics()
	return float64(met.Height) / 64 * m.scale
}

// Wrap breaks text into lines not exceeding maxWidth. Explicit newlines are
// honored; words are broken on spaces, and a single word wider than the box
// is split at the last rune that still fits.
func Wrap(m Measurer, text string, maxWidth float64) []string {
	if text == "" {
		return nil
	}
	if maxWidth <= 0 {
		return strings.Split(text, "\n")
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(m, para, maxWidth)...)
	}
	return lines
}

func wrapParagraph(m Measurer, para string, maxWidth float64) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	current := ""
	for _, w := range words {
		candidate := w
		if current != "" {
			candidate = current + " " + w
		}
		if m.Width(candidate) <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
		// Hard-split words that alone exceed the box.
		for m.Width(w) > maxWidth {
			cut := len(w)
			runes := []rune(w)
			for i := 1; i <= len(runes); i++ {
				if m.Width(string(runes[:i])) > maxWidth {
					cut = i - 1
					break
				}
			}
			if cut < 1 {
				cut = 1
			}
			lines = append(lines, string(runes[:cut]))
			w = string(runes[cut:])
		}
		current = w
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// BlockHeight returns the height of n wrapped lines.
func BlockHeight(m Measurer, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n) * m.LineHeight()
}
