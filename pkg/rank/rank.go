// Package rank orders sentence cards so that sentences built from already
// introduced words come first.
package rank

import (
	"sort"
	"unicode/utf8"
)

// Item is one word of a frequency-ordered vocabulary list.
type Item struct {
	Word     string
	Sentence string
	// Tokens are the retained dictionary forms of the word's best sentence.
	Tokens []string
}

// Ranked is an item with its complexity score and original position.
type Ranked struct {
	Item
	Index      int
	Unknown    int
	Complexity int
}

// Score computes complexity as 100 per unknown token plus the sentence
// length in characters.
func Score(unknown int, sentence string) int {
	return unknown*100 + utf8.RuneCountInString(sentence)
}

// Complexity walks items in order, counting for each the tokens of its
// sentence other than the word itself that no earlier item introduced, and
// returns the items sorted by ascending complexity. Ties keep list order.
// Every walked word joins the known set, including those skip reports true
// for; skipped words are left out of the result.
func Complexity(items []Item, skip func(word string) bool) []Ranked {
	known := make(map[string]struct{}, len(items))
	out := make([]Ranked, 0, len(items))
	for i, it := range items {
		unknown := 0
		for _, t := range it.Tokens {
			if t == it.Word {
				continue
			}
			if _, ok := known[t]; !ok {
				unknown++
			}
		}
		if skip == nil || !skip(it.Word) {
			out = append(out, Ranked{
				Item:       it,
				Index:      i,
				Unknown:    unknown,
				Complexity: Score(unknown, it.Sentence),
			})
		}
		known[it.Word] = struct{}{}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Complexity < out[j].Complexity })
	return out
}
