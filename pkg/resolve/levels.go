package resolve

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Unlabeled is the level of a word missing from the JLPT list.
const Unlabeled = "Unlabeled"

// Levels maps words to JLPT levels.
type Levels struct {
	levels map[string]string
}

// LoadLevels reads a JSON object of word → level. Levels may be strings
// ("N3") or bare numbers (3). A missing file yields an empty list.
func LoadLevels(path string) (*Levels, error) {
	l := &Levels{levels: make(map[string]string)}
	if path == "" {
		return l, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve: read levels %s: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("resolve: parse levels %s: %w", path, err)
	}
	for word, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			l.levels[word] = s
			continue
		}
		var n int
		if err := json.Unmarshal(v, &n); err == nil {
			l.levels[word] = "N" + strconv.Itoa(n)
		}
	}
	return l, nil
}

// Level returns the JLPT level of word, or Unlabeled.
func (l *Levels) Level(word string) string {
	if word == "さん" {
		return "N5"
	}
	if lv, ok := l.levels[word]; ok && lv != "" {
		return lv
	}
	return Unlabeled
}

// Exclusions is a core word list: its words never become cards but still
// count as known when ranking sentences.
type Exclusions struct {
	words map[string]struct{}
}

// LoadExclusions reads a JSON array whose items are either strings or
// objects with a "word" field. A missing file yields an empty list.
func LoadExclusions(path string) (*Exclusions, error) {
	e := &Exclusions{words: make(map[string]struct{})}
	if path == "" {
		return e, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return e, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve: read exclusions %s: %w", path, err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("resolve: parse exclusions %s: %w", path, err)
	}
	for _, it := range items {
		var s string
		if err := json.Unmarshal(it, &s); err == nil {
			e.words[s] = struct{}{}
			continue
		}
		var obj struct {
			Word string `json:"word"`
		}
		if err := json.Unmarshal(it, &obj); err == nil && obj.Word != "" {
			e.words[obj.Word] = struct{}{}
		}
	}
	return e, nil
}

// Contains reports whether word is excluded from decks.
func (e *Exclusions) Contains(word string) bool {
	_, ok := e.words[word]
	return ok
}

// Len returns the number of excluded words.
func (e *Exclusions) Len() int { return len(e.words) }
