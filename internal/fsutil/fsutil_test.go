// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

package fsutil

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestWriteFileAtomic_CreatesParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a", "b", "c.bin")
	if err := WriteFileAtomic(path, []byte("data")); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "data" {
		t.Fatalf("content=%q, want data", got)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected no leftover temp files, got %d entries", len(entries))
	}
}

func TestWriteFileIfAbsent_KeepsExisting(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "x.txt")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	wrote, err := WriteFileIfAbsent(path, []byte("new"))
	if err != nil {
		t.Fatalf("WriteFileIfAbsent: %v", err)
	}
	if wrote {
		t.Fatal("expected existing file to be kept")
	}

	got, _ := os.ReadFile(path)
	if string(got) != "old" {
		t.Fatalf("content=%q, want old", got)
	}
}

func TestWriteFileAtomic_ConcurrentIdenticalWriters(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "shared", "out.bin")
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Go(func() {
			errs <- WriteFileAtomic(path, []byte("same bytes"))
		})
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("WriteFileAtomic: %v", err)
		}
	}

	got, _ := os.ReadFile(path)
	if string(got) != "same bytes" {
		t.Fatalf("content=%q", got)
	}
}
