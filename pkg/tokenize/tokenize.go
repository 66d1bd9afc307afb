// Package tokenize turns a line of dialogue into vocabulary tokens using the
// kagome morphological analyzer.
package tokenize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Token represents a single analyzed unit of text.
type Token struct {
	Surface        string   // The text as it appears (e.g. "行っ")
	BaseForm       string   // The dictionary form (e.g. "行く"); the aggregation key
	NormalizedForm string   // Width-folded NFKC base form used for lexicon lookup
	Reading        string   // The pronunciation (katakana, e.g. "イッ")
	PartsOfSpeech  []string // e.g. ["動詞", "自立", "*", "*"] (Kagome POS labels)
	PrimaryPOS     string
}

// PartOfSpeech returns the POS hierarchy joined by commas, skipping "*" placeholders.
func (t Token) PartOfSpeech() string {
	var parts []string
	for i, p := range t.PartsOfSpeech {
		if i >= 4 {
			break
		}
		if p != "" && p != "*" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ",")
}

// IsProperNoun reports whether the analyzer tagged the token as a proper noun.
func (t Token) IsProperNoun() bool {
	return strings.Contains(t.PartOfSpeech(), "固有名詞")
}

// Analyzer handles text segmentation.
type Analyzer struct {
	t    *tokenizer.Tokenizer
	mode tokenizer.TokenizeMode
}

// ParseMode maps a configuration string to a kagome segmentation mode.
func ParseMode(s string) (tokenizer.TokenizeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return tokenizer.Normal, nil
	case "search":
		return tokenizer.Search, nil
	case "extended":
		return tokenizer.Extended, nil
	}
	return tokenizer.Normal, fmt.Errorf("tokenize: unknown mode %q", s)
}

// NewAnalyzer creates a new tokenizer instance using the IPA dictionary.
func NewAnalyzer(mode tokenizer.TokenizeMode) (*Analyzer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("tokenize: init kagome: %w", err)
	}
	return &Analyzer{t: t, mode: mode}, nil
}

// Analyze breaks text into tokens with readings and base forms.
func (a *Analyzer) Analyze(text string) []Token {
	tokens := a.t.Analyze(text, a.mode)
	result := make([]Token, 0, len(tokens))

	for _, token := range tokens {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		if strings.TrimSpace(token.Surface) == "" {
			continue
		}

		// IPA features:
		// 0-3: POS hierarchy, 4: conjugation type, 5: conjugation form,
		// 6: base form, 7: reading, 8: pronunciation
		features := token.Features()

		base := token.Surface
		if len(features) > 6 && features[6] != "*" {
			base = features[6]
		}

		reading := ""
		if len(features) > 7 && features[7] != "*" {
			reading = features[7]
		}

		primaryPOS := ""
		if len(features) > 0 {
			primaryPOS = features[0]
		}

		result = append(result, Token{
			Surface:        token.Surface,
			BaseForm:       base,
			NormalizedForm: Normalize(base),
			Reading:        reading,
			PartsOfSpeech:  features,
			PrimaryPOS:     primaryPOS,
		})
	}

	return result
}

// Vocabulary analyzes text and drops tokens that are not plausible vocabulary.
func (a *Analyzer) Vocabulary(text string) []Token {
	all := a.Analyze(text)
	kept := all[:0]
	for _, t := range all {
		if IsGarbage(t.BaseForm) {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}

// Normalize folds width variants and applies NFKC so that half-width katakana
// and full-width latin collapse onto their canonical spellings.
func Normalize(s string) string {
	return width.Fold.String(norm.NFKC.String(s))
}

var (
	// hiragana, katakana, CJK ideographs, 々 and ー
	reJapanese = regexp.MustCompile(`^[\x{3040}-\x{309f}\x{30a0}-\x{30ff}\x{4e00}-\x{9faf}\x{3005}\x{30fc}]+$`)
	reHiragana = regexp.MustCompile(`^[\x{3040}-\x{309f}]$`)
)

// IsGarbage reports whether a dictionary form should be excluded from vocabulary:
// anything not written entirely in Japanese script, and lone hiragana, which are
// almost always particle fragments left by mis-segmentation.
func IsGarbage(base string) bool {
	if !reJapanese.MatchString(base) {
		return true
	}
	if utf8.RuneCountInString(base) == 1 && reHiragana.MatchString(base) {
		return true
	}
	return false
}
