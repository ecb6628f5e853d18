// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestCatalog(t *testing.T) (*Catalog, string) {
	t.Helper()
	dir := t.TempDir()
	modelsDir := filepath.Join(dir, "models")
	c, err := Open(filepath.Join(dir, "catalog.db"), modelsDir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, modelsDir
}

func writeModel(t *testing.T, dir, name string, size int) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), make([]byte, size), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestOpenCreatesDirectoriesAndEmptyCatalog(t *testing.T) {
	c, _ := openTestCatalog(t)

	entries, err := c.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("fresh catalog has %d entries", len(entries))
	}
}

func TestScanPicksUpModelFiles(t *testing.T) {
	c, modelsDir := openTestCatalog(t)

	writeModel(t, modelsDir, "mia-brain-q4.gguf", 128)
	writeModel(t, modelsDir, "tiny.gguf", 64)
	writeModel(t, modelsDir, "notes.txt", 10) // ignored
	if err := c.Scan(); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	entries, err := c.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries: %+v", len(entries), entries)
	}
	// Sorted by name.
	if entries[0].Name != "mia-brain-q4" || entries[1].Name != "tiny" {
		t.Errorf("entries = %+v", entries)
	}
	if entries[0].SizeBytes != 128 {
		t.Errorf("size = %d", entries[0].SizeBytes)
	}
	if filepath.Base(entries[0].Path) != "mia-brain-q4.gguf" {
		t.Errorf("path = %q", entries[0].Path)
	}
}

func TestScanRemovesVanishedModels(t *testing.T) {
	c, modelsDir := openTestCatalog(t)

	writeModel(t, modelsDir, "gone.gguf", 32)
	if err := c.Scan(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Lookup("gone"); err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if err := os.Remove(filepath.Join(modelsDir, "gone.gguf")); err != nil {
		t.Fatal(err)
	}
	if err := c.Scan(); err != nil {
		t.Fatal(err)
	}

	_, err := c.Lookup("gone")
	if !errors.Is(err, ErrUnknownModel) {
		t.Errorf("err = %v, want ErrUnknownModel", err)
	}
}

func TestLookupUnknown(t *testing.T) {
	c, _ := openTestCatalog(t)
	_, err := c.Lookup("never-existed")
	if !errors.Is(err, ErrUnknownModel) {
		t.Errorf("err = %v, want ErrUnknownModel", err)
	}
}

func TestCatalogSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	modelsDir := filepath.Join(dir, "models")
	dbPath := filepath.Join(dir, "catalog.db")

	c, err := Open(dbPath, modelsDir)
	if err != nil {
		t.Fatal(err)
	}
	writeModel(t, modelsDir, "keeper.gguf", 16)
	if err := c.Scan(); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(dbPath, modelsDir)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	if _, err := reopened.Lookup("keeper"); err != nil {
		t.Errorf("Lookup after reopen failed: %v", err)
	}
}

func TestWatchRescansOnNewModel(t *testing.T) {
	c, modelsDir := openTestCatalog(t)

	if err := c.Watch(); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if err := c.Watch(); err == nil {
		t.Error("second Watch should fail")
	}

	writeModel(t, modelsDir, "dropped-in.gguf", 8)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := c.Lookup("dropped-in"); err == nil {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("watcher never cataloged the new model")
}
