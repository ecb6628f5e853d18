// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// modelExt is the model file extension tracked by the catalog.
const modelExt = ".gguf"

// ErrUnknownModel is returned by Lookup for names not in the catalog.
var ErrUnknownModel = errors.New("model not in catalog")

// Entry is one cataloged model file.
type Entry struct {
	// Name is the file name without the extension.
	Name string
	// Path is the absolute file path.
	Path string
	// SizeBytes is the file size at the last scan.
	SizeBytes int64
	// ModTime is the file modification time at the last scan, Unix seconds.
	ModTime int64
}

// Catalog is the SQLite-backed registry of model files.
type Catalog struct {
	mu      sync.Mutex
	db      *sql.DB
	dir     string
	watcher *watcher
}

// Open opens (or creates) the catalog database and runs an initial scan of
// the models directory. A missing directory is created.
func Open(dbPath, modelsDir string) (*Catalog, error) {
	if err := os.MkdirAll(modelsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create models directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	// SQLite supports one writer; keep the pool at a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS models (
			name       TEXT PRIMARY KEY,
			path       TEXT NOT NULL,
			size       INTEGER NOT NULL,
			mod_time   INTEGER NOT NULL,
			scanned_at INTEGER NOT NULL
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	c := &Catalog{db: db, dir: modelsDir}
	if err := c.Scan(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// Scan reconciles the table with the models directory: new and changed
// files are upserted, vanished files are removed.
func (c *Catalog) Scan() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("failed to read models directory: %w", err)
	}

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin scan: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), modelExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), modelExt)
		seen[name] = true
		_, err = tx.Exec(`
			INSERT INTO models (name, path, size, mod_time, scanned_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET
				path = excluded.path,
				size = excluded.size,
				mod_time = excluded.mod_time,
				scanned_at = excluded.scanned_at`,
			name, filepath.Join(c.dir, entry.Name()), info.Size(), info.ModTime().Unix(), now)
		if err != nil {
			return fmt.Errorf("failed to upsert model %s: %w", name, err)
		}
	}

	rows, err := tx.Query("SELECT name FROM models")
	if err != nil {
		return fmt.Errorf("failed to list cataloged models: %w", err)
	}
	var stale []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return err
		}
		if !seen[name] {
			stale = append(stale, name)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, name := range stale {
		if _, err := tx.Exec("DELETE FROM models WHERE name = ?", name); err != nil {
			return fmt.Errorf("failed to remove stale model %s: %w", name, err)
		}
	}

	return tx.Commit()
}

// List returns all cataloged models sorted by name.
func (c *Catalog) List() ([]Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.db.Query("SELECT name, path, size, mod_time FROM models ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Path, &e.SizeBytes, &e.ModTime); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Lookup returns the entry for a model name (without extension).
func (c *Catalog) Lookup(name string) (Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var e Entry
	err := c.db.QueryRow("SELECT name, path, size, mod_time FROM models WHERE name = ?", name).
		Scan(&e.Name, &e.Path, &e.SizeBytes, &e.ModTime)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Watch starts the directory watcher; subsequent file changes trigger
// debounced rescans. Calling Watch twice is an error.
func (c *Catalog) Watch() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.watcher != nil {
		return errors.New("catalog already watching")
	}
	w, err := newWatcher(c, 500*time.Millisecond)
	if err != nil {
		return err
	}
	c.watcher = w
	return nil
}

// Close stops the watcher (if running) and closes the database.
func (c *Catalog) Close() error {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w != nil {
		w.close()
	}
	return c.db.Close()
}
