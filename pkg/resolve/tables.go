package resolve

import (
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"
)

// Fix is a hand-curated reading and meaning for one word.
type Fix struct {
	Reading string `yaml:"reading"`
	Meaning string `yaml:"meaning"`
}

// Tables holds the manual-fix and grammar tables. Build it once per run and
// share it; it is read-only after construction.
type Tables struct {
	fixes   map[string]Fix
	grammar map[string]string
}

// NewTables returns the built-in tables.
func NewTables() *Tables {
	return &Tables{
		fixes:   maps.Clone(manualFixes),
		grammar: maps.Clone(grammarGlosses),
	}
}

type overrideFile struct {
	Fixes   map[string]Fix    `yaml:"fixes"`
	Grammar map[string]string `yaml:"grammar"`
}

// LoadTables returns the built-in tables with the entries of the YAML file at
// path layered on top. An empty path returns the built-ins.
func LoadTables(path string) (*Tables, error) {
	t := NewTables()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("resolve: read manual fixes %s: %w", path, err)
	}
	var of overrideFile
	if err := yaml.Unmarshal(data, &of); err != nil {
		return nil, fmt.Errorf("resolve: parse manual fixes %s: %w", path, err)
	}
	maps.Copy(t.fixes, of.Fixes)
	maps.Copy(t.grammar, of.Grammar)
	return t, nil
}

// Fix returns the manual correction for word.
func (t *Tables) Fix(word string) (Fix, bool) {
	f, ok := t.fixes[word]
	return f, ok
}

// Grammar returns the fixed gloss of a function word.
func (t *Tables) Grammar(word string) (string, bool) {
	g, ok := t.grammar[word]
	return g, ok
}
