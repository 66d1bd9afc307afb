package dictionary

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Index is an in-memory lexicon keyed by every kanji and kana writing.
type Index struct {
	// index is read by concurrent media/resolve workers; guard with mu.
	mu      sync.RWMutex
	index   map[string][]JMdictEntry
	entries int
}

// NewIndex builds the lookup index. Each key's entries are sorted by ID so
// the "first entry" of a lookup is stable across runs.
func NewIndex(entries []JMdictEntry) *Index {
	idx := make(map[string][]JMdictEntry)
	for _, e := range entries {
		seen := make(map[string]bool)
		add := func(key string) {
			if key == "" || seen[key] {
				return
			}
			seen[key] = true
			idx[key] = append(idx[key], e)
		}
		for _, k := range e.Kanji {
			add(k.Text)
		}
		for _, k := range e.Kana {
			add(k.Text)
		}
	}
	for _, list := range idx {
		sort.SliceStable(list, func(i, j int) bool { return idLess(list[i].Id, list[j].Id) })
	}
	return &Index{index: idx, entries: len(entries)}
}

// Lookup returns the entries written as term. Katakana terms with no hit are
// retried in hiragana. An empty result means no match.
func (ix *Index) Lookup(term string) []JMdictEntry {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if list, ok := ix.index[term]; ok {
		return list
	}
	if h := ToHiragana(term); h != term {
		return ix.index[h]
	}
	return nil
}

// Stats reports the number of entries and distinct lookup keys.
func (ix *Index) Stats() (entries, keys int) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.entries, len(ix.index)
}

// PrimaryReading returns the first common kana writing of e, else its first
// kana writing, else "".
func PrimaryReading(e JMdictEntry) string {
	for _, k := range e.Kana {
		if k.Common {
			return k.Text
		}
	}
	if len(e.Kana) > 0 {
		return e.Kana[0].Text
	}
	return ""
}

// FormatGlosses renders every sense of e as a numbered list joined by <br>,
// e.g. "1. dog<br>2. spy, snoop".
func FormatGlosses(e JMdictEntry) string {
	lines := make([]string, 0, len(e.Sense))
	for _, s := range e.Sense {
		texts := make([]string, 0, len(s.Gloss))
		for _, g := range s.Gloss {
			texts = append(texts, g.Text)
		}
		lines = append(lines, fmt.Sprintf("%d. %s", len(lines)+1, strings.Join(texts, ", ")))
	}
	return strings.Join(lines, "<br>")
}

// ToHiragana converts Katakana to Hiragana.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}

// idLess orders numeric JMdict sequence numbers numerically, anything else
// lexically.
func idLess(a, b string) bool {
	ai, errA := strconv.Atoi(a)
	bi, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return ai < bi
	}
	return a < b
}
