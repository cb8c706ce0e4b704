/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"goboard/internal/storage"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// BatchOptions controls batch export across multiple formats.
//
// Path semantics:
//   - If OutDir is empty or relative, it will be created under <board>/exports/<preset>/.
//   - Outputs are named board.(pdf|png|svg) in subfolders pdf/, png/ or svg/
//     inside OutDir, keeping assets grouped by preset and format.
//
//nolint:revive // keep fields explicit for clarity
type BatchOptions struct {
	Preset        PresetName
	Formats       []string // allowed: pdf, png, svg; empty means preset defaults
	ScaleOverride float64  // when > 0 overrides raster scale where applicable
	IncludeFrame  *bool    // when set, overrides preset's default for the content frame
	OutDir        string   // base directory for outputs (created per preset if relative)
}

// BatchExport runs exports according to the given preset.
func BatchExport(bh *storage.BoardHandle, opt BatchOptions) error {
	if bh == nil {
		return fmt.Errorf("board handle is nil")
	}

	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	for i := range formats {
		formats[i] = strings.ToLower(strings.TrimSpace(formats[i]))
	}

	baseOut := opt.OutDir
	if baseOut == "" {
		baseOut = string(opt.Preset)
	}
	if !filepath.IsAbs(baseOut) {
		baseOut = filepath.Join(bh.Root, "exports", baseOut)
	}

	frame := presetIncludeFrame(opt.Preset)
	if opt.IncludeFrame != nil {
		frame = *opt.IncludeFrame
	}

	for _, f := range formats {
		switch f {
		case "pdf":
			out := filepath.Join(baseOut, "pdf", "board.pdf")
			if err := ExportBoardPDF(bh, out, PDFOptions{IncludeFrame: frame}); err != nil {
				return fmt.Errorf("pdf export: %w", err)
			}
		case "png":
			out := filepath.Join(baseOut, "png", "board.png")
			po := PNGOptions{IncludeFrame: frame}
			if opt.ScaleOverride > 0 {
				po.Scale = opt.ScaleOverride
			}
			if err := ExportBoardPNG(bh, out, po); err != nil {
				return fmt.Errorf("png export: %w", err)
			}
		case "svg":
			out := filepath.Join(baseOut, "svg", "board.svg")
			if err := ExportBoardSVG(bh, out, SVGOptions{IncludeFrame: frame}); err != nil {
				return fmt.Errorf("svg export: %w", err)
			}
		default:
			return fmt.Errorf("unknown format: %s", f)
		}
	}
	return nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb:
		return []string{"png", "svg"}
	case PresetPrint:
		return []string{"pdf", "png"}
	default:
		return []string{"pdf"}
	}
}

func presetIncludeFrame(p PresetName) bool {
	switch p {
	case PresetWeb:
		return false
	case PresetPrint:
		return true
	default:
		return true
	}
}
