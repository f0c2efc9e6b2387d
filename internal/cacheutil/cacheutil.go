// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/log"
)

const (
	// DirEnv overrides the base cache directory.
	DirEnv = "RSHEET_CACHE_DIR"
	// EnabledEnv disables caching when set to "0" or "false".
	EnabledEnv = "RSHEET_CACHE"
)

const (
	dirMode  = 0o755
	fileMode = 0o600
)

// Dir resolves the base cache directory: RSHEET_CACHE_DIR when set, else
// rsheet under os.UserCacheDir. It reports false when neither is usable.
func Dir() (string, bool) {
	if dir := os.Getenv(DirEnv); dir != "" {
		return dir, true
	}
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		return "", false
	}
	return filepath.Join(dir, "rsheet"), true
}

// Enabled reports whether caching is on. Only "0" and "false", in any case,
// turn it off.
func Enabled() bool {
	v := os.Getenv(EnabledEnv)
	return v != "0" && !strings.EqualFold(v, "false")
}

// EnsureBaseDir creates the base directory. The bool is false when caching
// is off or no base directory resolves.
func EnsureBaseDir() (string, bool, error) {
	base, ok := Dir()
	if !Enabled() || !ok {
		return "", false, nil
	}
	if err := os.MkdirAll(base, dirMode); err != nil {
		return base, false, fmt.Errorf("create cache directory: %w", err)
	}
	return base, true, nil
}

// Bucket is one directory of the cache. Entries are files named by the
// SHA-256 of their key. A nil Bucket caches nothing.
type Bucket struct {
	dir string
}

// Open returns the bucket under the base directory at the given path, or
// nil when caching is off.
func Open(path ...string) *Bucket {
	base, ok := Dir()
	if !Enabled() || !ok {
		return nil
	}
	return &Bucket{dir: filepath.Join(append([]string{base}, path...)...)}
}

// Path is where key is stored, whether or not it is.
func (b *Bucket) Path(key string) string {
	if b == nil {
		return ""
	}
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(b.dir, hex.EncodeToString(sum[:]))
}

// Get returns the stored body of key with surrounding space trimmed.
func (b *Bucket) Get(key string) ([]byte, bool) {
	if b == nil {
		return nil, false
	}
	data, err := os.ReadFile(b.Path(key))
	if err != nil {
		return nil, false
	}
	log.Debugf("cache hit: key=%s", key)
	return bytes.TrimSpace(data), true
}

// Put stores data under key.
func (b *Bucket) Put(key string, data []byte) error {
	if b == nil {
		return nil
	}
	if err := os.MkdirAll(b.dir, dirMode); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	if err := os.WriteFile(b.Path(key), data, fileMode); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	log.Debugf("cache write: key=%s", key)
	return nil
}

// Fetch returns the stored body of key, or calls fill and stores its result.
// The bool reports a hit. Failing to store is logged, not returned.
func (b *Bucket) Fetch(key string, fill func() ([]byte, error)) ([]byte, bool, error) {
	if data, ok := b.Get(key); ok {
		return data, true, nil
	}
	data, err := fill()
	if err != nil {
		return nil, false, err
	}
	if err := b.Put(key, data); err != nil {
		log.WithError(err).Warnf("cache write failed: key=%s", key)
	}
	return data, false, nil
}

// Purge removes every cache file older than maxAge. A zero or negative
// maxAge keeps everything.
func Purge(maxAge time.Duration) error {
	base, ok := Dir()
	if maxAge <= 0 || !ok {
		return nil
	}

	var stale []string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil
		case err != nil:
			return err
		case d.IsDir():
			return nil
		}
		if info, err := d.Info(); err == nil && time.Since(info.ModTime()) > maxAge {
			stale = append(stale, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("purge cache: %w", err)
	}

	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			log.WithError(err).Warnf("cache purge failed: path=%s", path)
			continue
		}
		log.Debugf("cache purge: path=%s", path)
	}
	return nil
}
