package translate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Cache maps exact sentence text to its translation and is persisted as a
// JSON object, one file per show. Failed translations are kept in memory for
// the current run only so a later run retries them.
type Cache struct {
	mu     sync.Mutex
	path   string
	m      map[string]string
	failed map[string]bool
}

// LoadCache reads the cache at path; a missing file is an empty cache.
func LoadCache(path string) (*Cache, error) {
	c := &Cache{path: path, m: make(map[string]string), failed: make(map[string]bool)}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("translate: read cache %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(data, &c.m); err != nil {
		return nil, fmt.Errorf("translate: parse cache %s: %w", path, err)
	}
	for k, v := range c.m {
		if v == FailedMarker {
			delete(c.m, k)
		}
	}
	return c, nil
}

// Missing returns the sentences with no cached translation.
func (c *Cache) Missing(sentences []string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, s := range sentences {
		if _, ok := c.m[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

// Merge records new results.
func (c *Cache) Merge(results map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range results {
		if v == FailedMarker {
			c.failed[k] = true
			continue
		}
		c.m[k] = v
		delete(c.failed, k)
	}
}

// Lookup returns the translation of sentence, FailedMarker if it failed in
// this run, or Unavailable.
func (c *Cache) Lookup(sentence string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.m[sentence]; ok {
		return v
	}
	if c.failed[sentence] {
		return FailedMarker
	}
	return Unavailable
}

// Len returns the number of cached translations.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// Save writes the cache atomically.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(c.m); err != nil {
		return fmt.Errorf("translate: encode cache: %w", err)
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("translate: create cache dir: %w", err)
		}
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("translate: write cache: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("translate: replace cache: %w", err)
	}
	return nil
}

// Path returns the cache file location.
func (c *Cache) Path() string { return c.path }
