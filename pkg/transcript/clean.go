package transcript

import (
	"regexp"
	"strings"
)

var (
	reOverride      = regexp.MustCompile(`\{.*?\}`)
	reParenthetical = regexp.MustCompile(`[（(].*?[）)]`)
	reSpaces        = regexp.MustCompile(`\s{2,}`)

	assBreaks = strings.NewReplacer(`\N`, " ", `\n`, " ", `\h`, " ")
)

// Clean strips override tags, ASS line breaks and parenthetical stage
// directions from a raw cue. It returns false when the cue is a song lyric
// (contains ♪) or nothing is left after cleaning.
func Clean(raw string) (string, bool) {
	if strings.Contains(raw, "♪") {
		return "", false
	}
	s := reOverride.ReplaceAllString(raw, "")
	s = assBreaks.Replace(s)
	s = reParenthetical.ReplaceAllString(s, "")
	s = reSpaces.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" || strings.Contains(s, "-->") {
		return "", false
	}
	return s, true
}
