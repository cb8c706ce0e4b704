/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"goboard/internal/crash"
	"goboard/internal/domain"
	"goboard/internal/export"
	applog "goboard/internal/log"
	"goboard/internal/storage"
	"goboard/internal/ui"
	"goboard/internal/version"
)

func usage() {
	fmt.Println("Go Board — collaborative whiteboard editor")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  goboard version|-v|--version               Show version")
	fmt.Println("  goboard init <dir> <name>                  Create a new board at <dir> with name <name>")
	fmt.Println("  goboard open <dir>                         Open board at <dir> and print summary")
	fmt.Println("  goboard save <dir>                         Save board at <dir> (creates backup)")
	fmt.Println("  goboard search <dir> <query>               Full-text search across the board")
	fmt.Println("  goboard export <dir> <pdf|png|svg|web|print>  Export the board")
	fmt.Println("  goboard ui [<dir>]                         Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var bh *storage.BoardHandle
	defer func() { crash.Recover(bh) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Go Board — collaborative whiteboard editor")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 4 {
				fmt.Println("init requires <dir> and <name>")
				usage()
				os.Exit(2)
			}
			dir := args[2]
			name := args[3]
			abs, _ := filepath.Abs(dir)
			l.Info("init board", slog.String("root", abs), slog.String("name", name))
			b := domain.Board{Name: name}
			h, err := storage.InitBoard(abs, b)
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			bh = h
			fmt.Println("Created board at", abs)
			return
		case "open":
			if len(args) < 3 {
				fmt.Println("open requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("open board", slog.String("root", abs))
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			bh = h
			fmt.Printf("Opened board: %s\n", h.Board.Name)
			fmt.Printf("Sections: %d\n", len(h.Board.Sections))
			fmt.Printf("Elements: %d\n", len(h.Board.Elements))
			fmt.Println("Root:", h.Root)
			return
		case "save":
			if len(args) < 3 {
				fmt.Println("save requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("save board", slog.String("root", abs))
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open before save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			bh = h
			// Touch metadata to ensure changed content for demo purposes
			h.Board.Metadata.Notes = fmt.Sprintf("Saved at %s", time.Now().Format(time.RFC3339))
			if err := storage.Save(h); err != nil {
				l.Error("save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := storage.UpdateIndex(ctx, h.Root, h.Board); err != nil {
				l.Warn("index update failed", slog.Any("err", err))
			}
			fmt.Println("Saved board and created a backup of previous manifest (if any).")
			return
		case "search":
			if len(args) < 4 {
				fmt.Println("search requires <dir> and <query>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			bh = h
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := storage.BuildIndexIfEmpty(ctx, h.Root, h.Board); err != nil {
				l.Error("index build failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			results, err := storage.Search(ctx, h.Root, storage.SearchQuery{Text: args[3]})
			if err != nil {
				l.Error("search failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			for _, r := range results {
				fmt.Printf("%-24s %s\n", r.Path, r.Snippet)
			}
			fmt.Printf("%d match(es)\n", len(results))
			return
		case "export":
			if len(args) < 4 {
				fmt.Println("export requires <dir> and a format or preset")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			bh = h
			switch args[3] {
			case "pdf":
				err = export.ExportBoardPDF(h, "board.pdf", export.PDFOptions{})
			case "png":
				err = export.ExportBoardPNG(h, "board.png", export.PNGOptions{Scale: 2})
			case "svg":
				err = export.ExportBoardSVG(h, "board.svg", export.SVGOptions{})
			case "web":
				err = export.BatchExport(h, export.BatchOptions{Preset: export.PresetWeb})
			case "print":
				err = export.BatchExport(h, export.BatchOptions{Preset: export.PresetPrint})
			default:
				fmt.Println("unknown export format:", args[3])
				os.Exit(2)
			}
			if err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Exported to", filepath.Join(h.Root, "exports"))
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}
