// Package transcript reads episode subtitle and transcript files into
// cleaned dialogue lines.
package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/asticode/go-astisub"
)

// Line is one cleaned line of dialogue.
type Line struct {
	Text string
	// Timestamp is the cue start as HH:MM:SS.mmm, empty for untimed sources.
	Timestamp string
}

var subtitleExts = map[string]bool{
	".srt": true,
	".vtt": true,
	".ass": true,
	".ssa": true,
}

var htmlExts = map[string]bool{
	".html": true,
	".htm":  true,
}

// Supported reports whether path has an extension Parse understands.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return subtitleExts[ext] || htmlExts[ext]
}

// Discover lists the transcript files directly inside dir, sorted by name.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("transcript: read dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !Supported(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Episode returns the episode name for a transcript file: its base name
// without extension.
func Episode(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Parse reads a transcript file and returns its cleaned, non-empty lines in
// file order.
func Parse(path string) ([]Line, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case htmlExts[ext]:
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("transcript: read %s: %w", path, err)
		}
		return ParseHTML(content)
	case subtitleExts[ext]:
		subs, err := astisub.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("transcript: parse %s: %w", path, err)
		}
		return FromSubtitles(subs), nil
	default:
		return nil, fmt.Errorf("transcript: unsupported file %s", path)
	}
}

// FromSubtitles flattens parsed subtitle cues into cleaned lines. Multi-line
// cues are joined with a space; cues that clean to nothing are dropped.
func FromSubtitles(subs *astisub.Subtitles) []Line {
	var out []Line
	for _, item := range subs.Items {
		parts := make([]string, 0, len(item.Lines))
		for _, l := range item.Lines {
			var b strings.Builder
			for _, li := range l.Items {
				b.WriteString(li.Text)
			}
			parts = append(parts, b.String())
		}
		text, ok := Clean(strings.Join(parts, " "))
		if !ok {
			continue
		}
		out = append(out, Line{Text: text, Timestamp: FormatTimestamp(item.StartAt)})
	}
	return out
}

// FormatTimestamp renders d as HH:MM:SS.mmm.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	h := ms / 3_600_000
	m := (ms / 60_000) % 60
	s := (ms / 1000) % 60
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms%1000)
}
