// Package resolve turns a word into a (meaning, reading, source) triple
// through a fixed chain of tables, caches and dictionaries.
package resolve

import (
	"context"
	"log/slog"

	"github.com/japaniel/animedeck/pkg/dictionary"
	"github.com/japaniel/animedeck/pkg/jisho"
)

// Source tags where a definition came from.
type Source string

const (
	SourceManualFix  Source = "ManualFix"
	SourceGrammar    Source = "GrammarDict"
	SourceNameMap    Source = "NameMap"
	SourceProperNoun Source = "ProperNoun"
	SourceLocalCache Source = "LocalCache"
	SourceDictionary Source = "DictionaryLookup"
	SourceOnline     Source = "OnlineAPI"
	// SourceUnresolved is spelled "None" to match existing cache files.
	SourceUnresolved Source = "None"
)

const (
	NotFoundMeaning   = "No definition found"
	ProperNounMeaning = "[Proper Noun]"
)

// Definition is the resolved gloss of a word.
type Definition struct {
	Meaning string
	Reading string
	Source  Source
}

// Query describes the word to resolve, as captured by the tokenizer.
type Query struct {
	Word           string
	NormalizedForm string
	// Reading is the katakana reading, empty when the analyzer had none.
	Reading    string
	ProperNoun bool
}

// Lexicon is the bundled dictionary.
type Lexicon interface {
	Lookup(term string) []dictionary.JMdictEntry
}

// OnlineDictionary is the web fallback. It returns nil, nil for no match.
type OnlineDictionary interface {
	Search(ctx context.Context, keyword string) (*jisho.Result, error)
}

// Resolver applies the resolution chain. Online may be nil to disable the
// web fallback.
type Resolver struct {
	tables  *Tables
	names   *NameMap
	cache   *DefinitionCache
	lexicon Lexicon
	online  OnlineDictionary
	log     *slog.Logger
}

func NewResolver(tables *Tables, names *NameMap, cache *DefinitionCache, lexicon Lexicon, online OnlineDictionary, logger *slog.Logger) *Resolver {
	return &Resolver{
		tables:  tables,
		names:   names,
		cache:   cache,
		lexicon: lexicon,
		online:  online,
		log:     logger.With("component", "resolve"),
	}
}

// Resolve returns the definition of q.Word. The first tier that matches
// wins: manual fix, grammar table, name map, proper-noun transliteration,
// definition cache, lexicon, online dictionary. It never fails; a word no
// tier knows gets NotFoundMeaning.
func (r *Resolver) Resolve(ctx context.Context, q Query) Definition {
	word := q.Word

	if f, ok := r.tables.Fix(word); ok {
		return Definition{Meaning: f.Meaning, Reading: f.Reading, Source: SourceManualFix}
	}
	if g, ok := r.tables.Grammar(word); ok {
		return Definition{Meaning: g, Reading: readingOr(q.Reading, word), Source: SourceGrammar}
	}
	if n, ok := r.names.Lookup(word); ok {
		return Definition{Meaning: n, Reading: readingOr(q.Reading, word), Source: SourceNameMap}
	}
	if q.ProperNoun {
		meaning := KanaToRomaji(readingOr(q.Reading, word))
		if meaning == "" {
			meaning = ProperNounMeaning
		}
		return Definition{Meaning: meaning, Reading: word, Source: SourceProperNoun}
	}

	if d, ok := r.cache.Get(word); ok {
		d.Source = SourceLocalCache
		return d
	}

	terms := lookupTerms(q)
	for _, term := range terms {
		entries := r.lexicon.Lookup(term)
		if len(entries) == 0 {
			continue
		}
		best := entries[0]
		d := Definition{
			Meaning: dictionary.FormatGlosses(best),
			Reading: readingOr(dictionary.PrimaryReading(best), term),
			Source:  SourceDictionary,
		}
		r.remember(word, d)
		return d
	}

	unresolved := Definition{Meaning: NotFoundMeaning, Reading: word, Source: SourceUnresolved}
	if r.online == nil {
		return unresolved
	}

	term := terms[0]
	res, err := r.online.Search(ctx, term)
	if err != nil {
		// transient: leave uncached so the next run retries
		r.log.WarnContext(ctx, "online lookup failed", slog.String("word", word), slog.String("error", err.Error()))
		return unresolved
	}
	if res == nil || len(res.Senses) == 0 {
		r.remember(word, unresolved)
		return unresolved
	}
	d := Definition{Meaning: res.Meaning(), Reading: readingOr(res.Reading, term), Source: SourceOnline}
	r.remember(word, d)
	return d
}

func (r *Resolver) remember(word string, d Definition) {
	if err := r.cache.Append(word, d); err != nil {
		r.log.Warn("definition cache append failed", slog.String("word", word), slog.String("error", err.Error()))
	}
}

// lookupTerms is the normalized form followed by the word itself, deduped.
func lookupTerms(q Query) []string {
	if q.NormalizedForm == "" || q.NormalizedForm == q.Word {
		return []string{q.Word}
	}
	return []string{q.NormalizedForm, q.Word}
}

func readingOr(reading, fallback string) string {
	if reading != "" {
		return reading
	}
	return fallback
}
