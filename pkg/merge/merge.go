// Package merge combines per-show vocabulary tables into one cross-show list,
// picking a single representative row per word.
package merge

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/japaniel/animedeck/pkg/deck"
	"github.com/japaniel/animedeck/pkg/media"
	"github.com/japaniel/animedeck/pkg/resolve"
)

// TieBreak selects among equally ranked candidate rows.
type TieBreak string

const (
	// Deterministic picks the lexicographically smallest show, then the
	// earliest row.
	Deterministic TieBreak = "deterministic"
	// Random picks uniformly using the merger's seeded source.
	Random TieBreak = "random"
)

// ParseTieBreak validates a configured tie-break name.
func ParseTieBreak(s string) (TieBreak, error) {
	switch TieBreak(strings.ToLower(strings.TrimSpace(s))) {
	case "", Deterministic:
		return Deterministic, nil
	case Random:
		return Random, nil
	}
	return "", fmt.Errorf("merge: unknown tie break %q", s)
}

// MediaValidator resolves media references against files on disk.
type MediaValidator interface {
	Validate(refs media.Refs) (media.Refs, []string)
}

// Overrides supplies word-level reading and meaning corrections.
type Overrides interface {
	Fix(word string) (resolve.Fix, bool)
}

// Candidate is one show's row for a word.
type Candidate struct {
	Show  string
	Row   deck.VocabRow
	Refs  media.Refs
	Paths []string
	order int
}

// Tier ranks a candidate by its validated media: 1 for image and word
// audio, 2 for image only, 3 for any audio, 4 for none.
func (c Candidate) Tier() int {
	img, wordAudio, sentAudio := c.Refs.Has()
	switch {
	case img && wordAudio:
		return 1
	case img:
		return 2
	case wordAudio || sentAudio:
		return 3
	}
	return 4
}

// Entry is a merged word ready for the cross-show deck.
type Entry struct {
	Word       string
	Frequency  int
	Shows      []string
	Candidates []Candidate
	Chosen     Candidate
	Reading    string
	Meaning    string
}

// Fields renders the entry in deck.MegaFields order. Sentence, translation
// and media all come from the chosen row.
func (e Entry) Fields() []string {
	r := e.Chosen.Row
	return []string{
		e.Word, e.Reading, e.Meaning, r.Level, fmt.Sprint(e.Frequency),
		r.Sentence, r.Translation,
		e.Chosen.Refs.Image, e.Chosen.Refs.WordAudio, e.Chosen.Refs.SentenceAudio,
		strings.Join(e.Shows, ", "),
	}
}

// MediaPaths returns the on-disk media of the chosen row.
func (e Entry) MediaPaths() []string { return e.Chosen.Paths }

type word struct {
	freq       int
	shows      map[string]struct{}
	candidates []Candidate
}

// Merger accumulates rows from many shows.
type Merger struct {
	validator MediaValidator
	overrides Overrides
	tieBreak  TieBreak
	rng       *rand.Rand
	words     map[string]*word
	order     []string
	seq       int
}

// New returns a Merger. validator and overrides may be nil.
func New(validator MediaValidator, overrides Overrides, tieBreak TieBreak, seed int64) *Merger {
	if tieBreak == "" {
		tieBreak = Deterministic
	}
	return &Merger{
		validator: validator,
		overrides: overrides,
		tieBreak:  tieBreak,
		rng:       rand.New(rand.NewSource(seed)),
		words:     make(map[string]*word),
	}
}

// Add records every row of one show's table.
func (m *Merger) Add(show string, rows []deck.VocabRow) {
	for _, r := range rows {
		if r.Expression == "" {
			continue
		}
		w, ok := m.words[r.Expression]
		if !ok {
			w = &word{shows: make(map[string]struct{})}
			m.words[r.Expression] = w
			m.order = append(m.order, r.Expression)
		}
		w.freq += r.Frequency
		w.shows[show] = struct{}{}

		c := Candidate{Show: show, Row: r, order: m.seq}
		m.seq++
		raw := media.Refs{Image: r.Image, WordAudio: r.WordAudio, SentenceAudio: r.SentenceAudio}
		if m.validator != nil {
			c.Refs, c.Paths = m.validator.Validate(raw)
		}
		w.candidates = append(w.candidates, c)
	}
}

// Len returns the number of distinct words seen.
func (m *Merger) Len() int { return len(m.words) }

// Merge selects a representative row for every word and returns the entries
// ordered by total frequency descending, ties in first-seen order.
func (m *Merger) Merge() []Entry {
	out := make([]Entry, 0, len(m.order))
	for _, expr := range m.order {
		w := m.words[expr]
		shows := make([]string, 0, len(w.shows))
		for s := range w.shows {
			shows = append(shows, s)
		}
		sort.Strings(shows)

		chosen := m.choose(w.candidates)
		e := Entry{
			Word:       expr,
			Frequency:  w.freq,
			Shows:      shows,
			Candidates: w.candidates,
			Chosen:     chosen,
			Reading:    chosen.Row.Reading,
			Meaning:    chosen.Row.Meaning,
		}
		if m.overrides != nil {
			if fix, ok := m.overrides.Fix(expr); ok {
				e.Reading, e.Meaning = fix.Reading, fix.Meaning
			}
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Frequency > out[j].Frequency })
	return out
}

// choose applies the media tier cascade, then the tie-break within the
// best non-empty tier.
func (m *Merger) choose(cands []Candidate) Candidate {
	best := 5
	var pool []Candidate
	for _, c := range cands {
		switch t := c.Tier(); {
		case t < best:
			best = t
			pool = append(pool[:0], c)
		case t == best:
			pool = append(pool, c)
		}
	}
	if len(pool) == 1 {
		return pool[0]
	}
	if m.tieBreak == Random {
		return pool[m.rng.Intn(len(pool))]
	}
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].Show != pool[j].Show {
			return pool[i].Show < pool[j].Show
		}
		return pool[i].order < pool[j].order
	})
	return pool[0]
}
