package resolve

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
)

// NameMap maps character names to their English rendering. It is persisted
// as a JSON object the user edits by hand.
type NameMap struct {
	names map[string]string
}

// LoadNames reads the name map at path. A missing file is created with the
// default names. An empty path yields the defaults without touching disk.
func LoadNames(path string) (*NameMap, error) {
	if path == "" {
		return &NameMap{names: maps.Clone(defaultNames)}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		nm := &NameMap{names: maps.Clone(defaultNames)}
		if err := nm.save(path); err != nil {
			return nil, err
		}
		return nm, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve: read names %s: %w", path, err)
	}

	names := make(map[string]string)
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("resolve: parse names %s: %w", path, err)
	}
	return &NameMap{names: names}, nil
}

func (nm *NameMap) save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("resolve: create names dir: %w", err)
		}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(nm.names); err != nil {
		return fmt.Errorf("resolve: encode names: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("resolve: write names %s: %w", path, err)
	}
	return nil
}

// Lookup returns the English name for word.
func (nm *NameMap) Lookup(word string) (string, bool) {
	n, ok := nm.names[word]
	return n, ok
}

// Len returns the number of names.
func (nm *NameMap) Len() int { return len(nm.names) }
