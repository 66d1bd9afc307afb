// Package vocab aggregates scored subtitle lines of one show into per-word
// records: frequency, episodes and the best example sentence.
package vocab

import (
	"math"
	"sort"
	"strings"

	"github.com/japaniel/animedeck/pkg/score"
	"github.com/japaniel/animedeck/pkg/tokenize"
)

// DefaultMinFrequency drops hapax legomena from the exported list.
const DefaultMinFrequency = 2

// Tokenizer yields the vocabulary tokens of a line, garbage already removed.
type Tokenizer interface {
	Vocabulary(text string) []tokenize.Token
}

// Observation is one scored line as seen by the aggregator.
type Observation struct {
	Episode   string
	Text      string
	Timestamp string
	Video     string
}

// WordRecord is everything known about one dictionary-form word of a show.
type WordRecord struct {
	Word      string
	Frequency int

	// Best example sentence, its highlighted variant and its score.
	Sentence string
	Bolded   string
	Score    int
	// Dictionary forms of the best sentence, in order.
	Tokens    []string
	Video     string
	Timestamp string

	// Sorted episode names the word occurred in.
	Episodes []string

	// First-seen token attributes.
	PartOfSpeech   string
	Reading        string
	NormalizedForm string
	ProperNoun     bool
}

type entry struct {
	rec      WordRecord
	episodes map[string]struct{}
	seen     int
}

// Aggregator accumulates observations for a single show. It is not safe for
// concurrent use.
type Aggregator struct {
	tok   Tokenizer
	words map[string]*entry
	next  int
	lines int
}

func NewAggregator(tok Tokenizer) *Aggregator {
	return &Aggregator{tok: tok, words: make(map[string]*entry)}
}

// ObserveLine scores a line and, when usable, counts every vocabulary token
// in it. It returns the number of tokens counted.
func (a *Aggregator) ObserveLine(obs Observation) int {
	s := score.Score(obs.Text)
	if !score.Usable(s) {
		return 0
	}
	a.lines++

	tokens := a.tok.Vocabulary(obs.Text)
	if len(tokens) == 0 {
		return 0
	}
	bases := make([]string, 0, len(tokens))
	var improved []*entry

	for _, t := range tokens {
		bases = append(bases, t.BaseForm)
		e, ok := a.words[t.BaseForm]
		if !ok {
			e = &entry{
				rec: WordRecord{
					Word:           t.BaseForm,
					Score:          math.MinInt,
					PartOfSpeech:   t.PartOfSpeech(),
					Reading:        t.Reading,
					NormalizedForm: t.NormalizedForm,
					ProperNoun:     t.IsProperNoun(),
				},
				episodes: make(map[string]struct{}),
				seen:     a.next,
			}
			a.next++
			a.words[t.BaseForm] = e
		}
		e.rec.Frequency++
		e.episodes[obs.Episode] = struct{}{}

		// strictly greater: ties keep the first-seen sentence
		if s > e.rec.Score {
			e.rec.Sentence = obs.Text
			e.rec.Bolded = Highlight(obs.Text, t.Surface)
			e.rec.Score = s
			e.rec.Video = obs.Video
			e.rec.Timestamp = obs.Timestamp
			improved = append(improved, e)
		}
	}
	for _, e := range improved {
		e.rec.Tokens = bases
	}
	return len(tokens)
}

// Lines returns how many observed lines passed the scorer.
func (a *Aggregator) Lines() int { return a.lines }

// Len returns the number of distinct words seen so far.
func (a *Aggregator) Len() int { return len(a.words) }

// Finalize returns the words seen at least minFreq times ordered by
// descending frequency, ties in first-encounter order.
func (a *Aggregator) Finalize(minFreq int) []WordRecord {
	if minFreq < 1 {
		minFreq = 1
	}
	kept := make([]*entry, 0, len(a.words))
	for _, e := range a.words {
		if e.rec.Frequency >= minFreq {
			kept = append(kept, e)
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].rec.Frequency != kept[j].rec.Frequency {
			return kept[i].rec.Frequency > kept[j].rec.Frequency
		}
		return kept[i].seen < kept[j].seen
	})

	out := make([]WordRecord, len(kept))
	for i, e := range kept {
		rec := e.rec
		rec.Episodes = make([]string, 0, len(e.episodes))
		for ep := range e.episodes {
			rec.Episodes = append(rec.Episodes, ep)
		}
		sort.Strings(rec.Episodes)
		rec.Tokens = append([]string(nil), e.rec.Tokens...)
		out[i] = rec
	}
	return out
}

// Highlight wraps the first occurrence of surface in text with <b></b>.
func Highlight(text, surface string) string {
	if surface == "" {
		return text
	}
	return strings.Replace(text, surface, "<b>"+surface+"</b>", 1)
}
