// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watcher rescans the catalog when model files change. The models directory
// is flat, so one watch plus a debounced full rescan keeps things simple.
type watcher struct {
	cat      *Catalog
	fs       *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	dirtyAt time.Time

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func newWatcher(cat *Catalog, debounce time.Duration) (*watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(cat.dir); err != nil {
		fs.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &watcher{
		cat:      cat,
		fs:       fs,
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *watcher) run() {
	defer close(w.done)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, modelExt) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.mu.Lock()
				w.dirtyAt = time.Now()
				w.mu.Unlock()
			}

		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the next explicit Scan catches up.

		case <-ticker.C:
			w.mu.Lock()
			pending := !w.dirtyAt.IsZero() && time.Since(w.dirtyAt) >= w.debounce
			if pending {
				w.dirtyAt = time.Time{}
			}
			w.mu.Unlock()
			if pending {
				// Rescan errors leave the previous catalog state in place.
				_ = w.cat.Scan()
			}
		}
	}
}

func (w *watcher) close() {
	w.cancel()
	w.fs.Close()
	<-w.done
}
