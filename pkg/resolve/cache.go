package resolve

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefinitionCache is the append-only word,meaning,reading,source record file
// shared by every show. The first row for a word wins.
type DefinitionCache struct {
	mu      sync.Mutex
	path    string
	entries map[string]Definition
}

// OpenDefinitionCache loads the cache at path. A missing file is an empty
// cache; it is created on the first Append.
func OpenDefinitionCache(path string) (*DefinitionCache, error) {
	c := &DefinitionCache{path: path, entries: make(map[string]Definition)}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve: open definition cache: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("resolve: read definition cache %s: %w", path, err)
		}
		if len(rec) < 4 {
			continue
		}
		word := strings.TrimSpace(rec[0])
		if word == "" {
			continue
		}
		if _, dup := c.entries[word]; dup {
			continue
		}
		c.entries[word] = Definition{
			Meaning: strings.TrimSpace(rec[1]),
			Reading: strings.TrimSpace(rec[2]),
			Source:  Source(strings.TrimSpace(rec[3])),
		}
	}
	return c, nil
}

// Get returns the cached definition of word with the source it was
// originally resolved from.
func (c *DefinitionCache) Get(word string) (Definition, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.entries[word]
	return d, ok
}

// Append records a definition and flushes it to disk immediately. Words
// already present are ignored.
func (c *DefinitionCache) Append(word string, d Definition) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[word]; ok {
		return nil
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("resolve: create cache dir: %w", err)
		}
	}
	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("resolve: open definition cache for append: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{word, d.Meaning, d.Reading, string(d.Source)}); err != nil {
		f.Close()
		return fmt.Errorf("resolve: append definition: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("resolve: flush definition cache: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("resolve: close definition cache: %w", err)
	}
	c.entries[word] = d
	return nil
}

// Len returns the number of cached words.
func (c *DefinitionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
