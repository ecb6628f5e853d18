// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package catalog tracks the model files available to the companion.
//
// The catalog is a small SQLite database over the models directory. A scan
// reconciles the table with the directory contents; an optional fsnotify
// watcher keeps it current while the app runs, debouncing bursts of file
// events into one rescan.
package catalog
