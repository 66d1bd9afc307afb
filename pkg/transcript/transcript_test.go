package transcript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleSRT = `1
00:00:01,500 --> 00:00:03,000
俺は海賊王になる！

2
00:00:04,000 --> 00:00:06,000
（ナレーション）
ここは東の海だ。

3
00:00:07,000 --> 00:00:09,000
♪ 歌が聞こえる ♪

4
01:02:03,045 --> 01:02:05,000
{\an8}そうか
わかった
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestParseSRT(t *testing.T) {
	p := writeFile(t, t.TempDir(), "ep01.srt", sampleSRT)

	lines, err := Parse(p)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []Line{
		{Text: "俺は海賊王になる！", Timestamp: "00:00:01.500"},
		{Text: "ここは東の海だ。", Timestamp: "00:00:04.000"},
		{Text: "そうか わかった", Timestamp: "01:02:03.045"},
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %+v", len(lines), len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %+v, want %+v", i, lines[i], want[i])
		}
	}
}

func TestParseUnsupported(t *testing.T) {
	p := writeFile(t, t.TempDir(), "notes.txt", "hello")
	if _, err := Parse(p); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{`{\an8}行くぞ`, "行くぞ", true},
		{`待って\Nくれ`, "待って くれ", true},
		{`(笑)本当に？`, "本当に？", true},
		{`（ため息）`, "", false},
		{`♪～`, "", false},
		{"   ", "", false},
		{`そう\hだね`, "そう だね", true},
	}
	for _, tt := range tests {
		got, ok := Clean(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Clean(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	d := time.Hour + 2*time.Minute + 3*time.Second + 45*time.Millisecond
	if got := FormatTimestamp(d); got != "01:02:03.045" {
		t.Errorf("got %q", got)
	}
	if got := FormatTimestamp(-time.Second); got != "00:00:00.000" {
		t.Errorf("negative duration: got %q", got)
	}
}

func TestEpisodeAndDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.ass", "")
	writeFile(t, dir, "a.srt", "")
	writeFile(t, dir, "readme.md", "")
	if err := os.Mkdir(filepath.Join(dir, "sub.srt"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "a.srt" || filepath.Base(files[1]) != "b.ass" {
		t.Fatalf("unexpected files: %v", files)
	}
	if got := Episode(files[0]); got != "a" {
		t.Errorf("Episode = %q", got)
	}
	if got := Episode("/x/Show - 01.en.srt"); got != "Show - 01.en" {
		t.Errorf("Episode = %q", got)
	}
}

func TestFindVideo(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "[Group] ep02 [1080p].mkv", strings.Repeat("x", 10))
	writeFile(t, dir, "ep02 preview.mp4", strings.Repeat("x", 100))
	writeFile(t, dir, "ep02.txt", strings.Repeat("x", 1000))

	if got := FindVideo(dir, "ep02"); filepath.Base(got) != "ep02 preview.mp4" {
		t.Errorf("fuzzy match: got %q", got)
	}

	writeFile(t, dir, "ep02.avi", "x")
	if got := FindVideo(dir, "ep02"); filepath.Base(got) != "ep02.avi" {
		t.Errorf("exact match: got %q", got)
	}

	if got := FindVideo(dir, "ep09"); got != "" {
		t.Errorf("no match: got %q", got)
	}
	if got := FindVideo(filepath.Join(dir, "missing"), "ep02"); got != "" {
		t.Errorf("missing dir: got %q", got)
	}
}

func TestSanitizeRuby(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Simple Ruby", "<ruby>漢字<rt>かんじ</rt></ruby>", "<ruby>漢字</ruby>"},
		{"Ruby with RP", "<ruby>漢字<rp>(</rp><rt>かんじ</rt><rp>)</rp></ruby>", "<ruby>漢字</ruby>"},
		{"Attributes in tags", "<ruby class='test'>漢字<rt class='reading'>かんじ</rt></ruby>", "<ruby class='test'>漢字</ruby>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(SanitizeRuby([]byte(tt.input))); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("今日は晴れ。明日は？\n雨かな")
	want := []string{"今日は晴れ。", "明日は？", "", "雨かな"}
	if len(got) != len(want) {
		t.Fatalf("got %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
