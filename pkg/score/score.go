// Package score rates subtitle lines for use as flashcard example sentences.
package score

import (
	"strings"
	"unicode/utf8"
)

const (
	// Reject marks a sentence that must never be used as an example.
	Reject = -100

	base            = 20
	minLength       = 5
	maxLength       = 60
	stutterPenalty  = 15
	particleBonus   = 3
	completionBonus = 5
)

var (
	// leftovers of a failed cleaning pass: stage directions, ASS tags, SRT arrows, lyrics
	artifacts = []string{"(", "（", "）", ")", "{\\", "-->", "♪"}

	stutterMarkers = []string{"…", ".."}

	caseParticles = []string{"は", "が", "を", "に", "へ", "と", "も", "で"}

	finalMarks = []string{"。", "!", "！"}
)

// Score returns the desirability of text as an example sentence, or Reject.
func Score(text string) int {
	n := utf8.RuneCountInString(text)
	if n < minLength || n > maxLength {
		return Reject
	}
	for _, a := range artifacts {
		if strings.Contains(text, a) {
			return Reject
		}
	}

	s := base
	for _, m := range stutterMarkers {
		s -= stutterPenalty * strings.Count(text, m)
	}
	for _, p := range caseParticles {
		if strings.Contains(text, p) {
			s += particleBonus
		}
	}
	for _, m := range finalMarks {
		if strings.HasSuffix(text, m) {
			s += completionBonus
			break
		}
	}
	return s
}

// Usable reports whether a score allows the sentence to contribute observations.
func Usable(score int) bool { return score > 0 }
