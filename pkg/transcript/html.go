package transcript

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-shiori/go-readability"
)

var (
	// (?s) allows dot to match newlines
	// (?i) makes it case-insensitive
	reRT = regexp.MustCompile(`(?si)<rt\b[^>]*>.*?</rt>`)
	reRP = regexp.MustCompile(`(?si)<rp\b[^>]*>.*?</rp>`)

	transcriptURL, _ = url.Parse("http://localhost/transcript")
)

// SanitizeRuby removes ruby text (<rt>...</rt>) and ruby parentheses
// (<rp>...</rp>) so readability does not glue furigana onto the base text
// (e.g. "漢字" becoming "漢字かんじ").
func SanitizeRuby(content []byte) []byte {
	cleaned := reRT.ReplaceAll(content, []byte{})
	cleaned = reRP.ReplaceAll(cleaned, []byte{})
	return cleaned
}

// ParseHTML extracts the readable text of a transcript page and returns one
// untimed line per sentence.
func ParseHTML(content []byte) ([]Line, error) {
	article, err := readability.FromReader(bytes.NewReader(SanitizeRuby(content)), transcriptURL)
	if err != nil {
		return nil, fmt.Errorf("transcript: readability: %w", err)
	}
	var out []Line
	for _, s := range splitSentences(article.TextContent) {
		text, ok := Clean(s)
		if !ok {
			continue
		}
		out = append(out, Line{Text: text})
	}
	return out, nil
}

func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		if r == '\n' {
			sentences = append(sentences, current.String())
			current.Reset()
			continue
		}
		current.WriteRune(r)
		// 。(3002), ！(FF01), ？(FF1F)
		if r == '。' || r == '！' || r == '？' {
			sentences = append(sentences, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}
	return sentences
}
