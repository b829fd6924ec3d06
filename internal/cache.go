package internal

import (
	"crypto/md5"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	tt "github.com/gnolang/lineconf/internal/types"
)

const (
	cacheFileName = "check_cache.gob"
	DefaultMaxAge = 24 * time.Hour
)

type fileMetadata struct {
	Hash    string
	ModTime time.Time
}

// CacheEntry is the stored result for one file.
type CacheEntry struct {
	Metadata  fileMetadata
	Issues    []tt.Issue
	CreatedAt time.Time
}

// cacheFile is the on-disk layout.
type cacheFile struct {
	Entries      map[string]CacheEntry
	Dependencies map[string]string
}

// Cache stores check results per file. Set only updates memory; Flush
// writes the results to disk.
type Cache struct {
	CacheDir string

	mu           sync.RWMutex
	entries      map[string]CacheEntry
	dependencies map[string]string
	maxAge       time.Duration
	dirty        bool
}

func NewCache(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cache := &Cache{
		CacheDir:     cacheDir,
		entries:      make(map[string]CacheEntry),
		dependencies: make(map[string]string),
		maxAge:       DefaultMaxAge,
	}

	if err := cache.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}

	return cache, nil
}

func (c *Cache) path() string {
	return filepath.Join(c.CacheDir, cacheFileName)
}

func (c *Cache) load() error {
	file, err := os.Open(c.path())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	var stored cacheFile
	if err := gob.NewDecoder(file).Decode(&stored); err != nil {
		return fmt.Errorf("failed to decode cache file: %w", err)
	}
	if stored.Entries != nil {
		c.entries = stored.Entries
	}
	if stored.Dependencies != nil {
		c.dependencies = stored.Dependencies
	}
	return nil
}

// Flush writes the cache to disk if it changed since the last flush.
func (c *Cache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}

	file, err := os.Create(c.path())
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	stored := cacheFile{Entries: c.entries, Dependencies: c.dependencies}
	if err := gob.NewEncoder(file).Encode(stored); err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}

	c.dirty = false
	return nil
}

// Set records the issues found in content, which was read from filename
// when it had the given modification time.
func (c *Cache) Set(filename string, content []byte, modTime time.Time, issues []tt.Issue) {
	entry := CacheEntry{
		Metadata:  fileMetadata{Hash: hashBytes(content), ModTime: modTime},
		Issues:    issues,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[filename] = entry
	c.dirty = true
}

// Get returns the stored issues of filename if the file still has the
// content and modification time they were computed from.
func (c *Cache) Get(filename string) ([]tt.Issue, bool) {
	c.mu.RLock()
	entry, exists := c.entries[filename]
	maxAge := c.maxAge
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if isEntryValid(filename, entry, maxAge) {
		return entry.Issues, true
	}

	c.mu.Lock()
	if current, ok := c.entries[filename]; ok && current.CreatedAt.Equal(entry.CreatedAt) {
		delete(c.entries, filename)
		c.dirty = true
	}
	c.mu.Unlock()
	return nil, false
}

func isEntryValid(filename string, entry CacheEntry, maxAge time.Duration) bool {
	if time.Since(entry.CreatedAt) > maxAge {
		return false
	}

	current, err := getFileMetadata(filename)
	if err != nil {
		return false
	}
	return current.Hash == entry.Metadata.Hash && current.ModTime.Equal(entry.Metadata.ModTime)
}

// SetDependencies registers files, such as the configuration, whose content
// the stored results depend on. If any of them differs from the previous
// run, every entry is dropped.
func (c *Cache) SetDependencies(files ...string) error {
	hashes := make(map[string]string, len(files))
	for _, file := range files {
		metadata, err := getFileMetadata(file)
		if err != nil {
			return fmt.Errorf("failed to get hash for %s: %w", file, err)
		}
		hashes[file] = metadata.Hash
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	changed := len(hashes) != len(c.dependencies)
	for file, hash := range hashes {
		if c.dependencies[file] != hash {
			changed = true
		}
	}
	if changed {
		c.entries = make(map[string]CacheEntry)
		c.dependencies = hashes
		c.dirty = true
	}
	return nil
}

func (c *Cache) SetMaxAge(duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.maxAge = duration
}

// InvalidateAll drops every entry and removes the cache file.
func (c *Cache) InvalidateAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]CacheEntry)
	c.dependencies = make(map[string]string)
	c.dirty = false

	if err := os.Remove(c.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache file: %w", err)
	}
	return nil
}

func getFileMetadata(filename string) (fileMetadata, error) {
	file, err := os.Open(filename)
	if err != nil {
		return fileMetadata{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fileMetadata{}, fmt.Errorf("failed to get file info: %w", err)
	}

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return fileMetadata{}, fmt.Errorf("failed to calculate hash: %w", err)
	}

	return fileMetadata{
		Hash:    fmt.Sprintf("%x", hash.Sum(nil)),
		ModTime: info.ModTime(),
	}, nil
}

func hashBytes(content []byte) string {
	return fmt.Sprintf("%x", md5.Sum(content))
}
