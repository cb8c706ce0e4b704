/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestSnapshotRoundTrip(t *testing.T) {
	root := filepath.Join(t.TempDir(), "board")
	bh, err := InitBoard(root, sampleBoard())
	if err != nil {
		t.Fatalf("InitBoard: %v", err)
	}
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := SaveSnapshot(ctx, bh, []byte(`{"name":"v1"}`), base); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if err := SaveSnapshot(ctx, bh, []byte(`{"name":"v2"}`), base.Add(time.Minute)); err != nil {
		t.Fatalf("SaveSnapshot 2: %v", err)
	}
	blob, ts, err := GetLatestSnapshot(ctx, bh)
	if err != nil {
		t.Fatalf("GetLatestSnapshot: %v", err)
	}
	if string(blob) != `{"name":"v2"}` {
		t.Fatalf("latest blob = %s", blob)
	}
	if !ts.Equal(base.Add(time.Minute)) {
		t.Fatalf("latest ts = %v", ts)
	}
	list, err := ListSnapshots(ctx, bh, 10)
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	if len(list) != 2 || string(list[0].Blob) != `{"name":"v2"}` {
		t.Fatalf("list wrong: %d entries", len(list))
	}
}

func TestGetLatestSnapshotEmpty(t *testing.T) {
	root := filepath.Join(t.TempDir(), "board")
	bh, err := InitBoard(root, sampleBoard())
	if err != nil {
		t.Fatalf("InitBoard: %v", err)
	}
	blob, _, err := GetLatestSnapshot(context.Background(), bh)
	if err != nil {
		t.Fatalf("GetLatestSnapshot: %v", err)
	}
	if blob != nil {
		t.Fatalf("expected nil blob for empty history")
	}
}

func TestPruneOldSnapshotsKeepsNewest(t *testing.T) {
	root := filepath.Join(t.TempDir(), "board")
	bh, err := InitBoard(root, sampleBoard())
	if err != nil {
		t.Fatalf("InitBoard: %v", err)
	}
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if err := SaveSnapshot(ctx, bh, []byte{byte('a' + i)}, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("SaveSnapshot %d: %v", i, err)
		}
	}
	deleted, err := PruneOldSnapshots(ctx, bh, 2)
	if err != nil {
		t.Fatalf("PruneOldSnapshots: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("deleted = %d, want 3", deleted)
	}
	list, err := ListSnapshots(ctx, bh, 10)
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	if len(list) != 2 || string(list[0].Blob) != "e" || string(list[1].Blob) != "d" {
		t.Fatalf("wrong survivors: %d entries", len(list))
	}
}
