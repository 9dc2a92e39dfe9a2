/*
Copyright (C) 2026  kilkeac contributors

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package buildcache persists a compiled, constant-folded IrModule to disk
// so a second compile of unchanged source can skip lex/parse/check/fold.
// Entries are content-addressed by a hash of the source bytes, gob-encoded
// and lz4-compressed, the way the teacher persists shard data to disk.
package buildcache

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pierrec/lz4/v4"

	"github.com/launix-de/kilkeac/internal/ir"
)

// Entry is one cached compilation: the module produced plus the build ID
// that produced it, so --debug can report which run populated the cache.
type Entry struct {
	BuildID string
	Module  ir.IrModule
}

// Store is a directory of cache entries, one file per source hash.
type Store struct {
	Dir string
}

func NewStore(dir string) *Store { return &Store{Dir: dir} }

// Key returns the content-addressed key for source. Changing a single byte
// of source changes the key.
func Key(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

func (s *Store) path(key string) string {
	return filepath.Join(s.Dir, key+".kcache")
}

// Load returns the cached entry for key, or ok=false on a miss. A corrupt
// or unreadable entry is treated as a miss, never an error: the caller
// always has a fallback (recompile).
func (s *Store) Load(key string) (Entry, bool) {
	var entry Entry
	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		return entry, false
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, lz4.NewReader(bytes.NewReader(raw))); err != nil {
		return entry, false
	}
	if err := gob.NewDecoder(&buf).Decode(&entry); err != nil {
		return entry, false
	}
	return entry, true
}

// Save writes module under key, tagging it with a freshly generated build
// ID, and returns that build ID.
func (s *Store) Save(key string, module ir.IrModule) (string, error) {
	buildID := uuid.New().String()
	entry := Entry{BuildID: buildID, Module: module}

	var encoded bytes.Buffer
	if err := gob.NewEncoder(&encoded).Encode(entry); err != nil {
		return "", err
	}

	var compressed bytes.Buffer
	w := lz4.NewWriter(&compressed)
	if _, err := w.Write(encoded.Bytes()); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.Dir, 0o750); err != nil {
		return "", err
	}
	return buildID, os.WriteFile(s.path(key), compressed.Bytes(), 0o640)
}

// Size reports the on-disk size in bytes of a cache entry, or 0 if absent.
func (s *Store) Size(key string) int64 {
	info, err := os.Stat(s.path(key))
	if err != nil {
		return 0
	}
	return info.Size()
}
