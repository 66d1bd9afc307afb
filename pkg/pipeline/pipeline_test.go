package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/animedeck/pkg/deck"
	"github.com/japaniel/animedeck/pkg/merge"
	"github.com/japaniel/animedeck/pkg/resolve"
	"github.com/japaniel/animedeck/pkg/tokenize"
)

const (
	lineChase = "猫が犬を追いかけたんだ。"
	lineWhere = "猫はどこにいるのかな"
	lineWatch = "犬が猫を見ているよ。"
)

type fakeTokenizer map[string][]tokenize.Token

func (f fakeTokenizer) Vocabulary(text string) []tokenize.Token { return f[text] }

func tok(base string) tokenize.Token {
	return tokenize.Token{Surface: base, BaseForm: base, NormalizedForm: base, Reading: "ヨミ", PartsOfSpeech: []string{"名詞", "一般"}}
}

func tokens() fakeTokenizer {
	return fakeTokenizer{
		lineChase: {tok("猫"), tok("犬"), tok("追いかける")},
		lineWhere: {tok("猫"), tok("いる")},
		lineWatch: {tok("犬"), tok("猫"), tok("見る")},
	}
}

type fakeDefiner struct{ calls atomic.Int32 }

func (f *fakeDefiner) Resolve(_ context.Context, q resolve.Query) resolve.Definition {
	f.calls.Add(1)
	return resolve.Definition{Meaning: "m-" + q.Word, Reading: "r-" + q.Word, Source: resolve.SourceDictionary}
}

type fakeTranslator struct{ calls atomic.Int32 }

func (f *fakeTranslator) Translate(_ context.Context, text string) (string, error) {
	f.calls.Add(1)
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = "EN:" + l
	}
	return strings.Join(lines, "\n"), nil
}

type fakeSynth struct{}

func (fakeSynth) Synthesize(_ context.Context, text, dest string) error {
	return os.WriteFile(dest, []byte(text), 0o644)
}

type brokenSynth struct{}

func (brokenSynth) Synthesize(context.Context, string, string) error {
	return errors.New("no voice")
}

type fakeFrames struct{}

func (fakeFrames) Frame(context.Context, string, time.Duration) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 16, 9))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type fakeStore struct {
	mu   sync.Mutex
	rows map[string][]deck.VocabRow
}

func (f *fakeStore) SaveShowVocabulary(_ context.Context, show string, rows []deck.VocabRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows == nil {
		f.rows = map[string][]deck.VocabRow{}
	}
	f.rows[show] = rows
	return nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func setupShow(t *testing.T, root, show string) Options {
	t.Helper()
	opts := Options{
		TranscriptDir: filepath.Join(root, "Transcripts"),
		VideoDir:      filepath.Join(root, "shows"),
		MediaDir:      filepath.Join(root, "media"),
		DeckDir:       filepath.Join(root, "anki"),
		TableDir:      filepath.Join(root, "csv"),
		CacheDir:      filepath.Join(root, "cache"),
		MinFrequency:  2,
		BatchSize:     20,
		Workers:       2,
	}
	writeFile(t, filepath.Join(opts.TranscriptDir, show, "ep01.srt"),
		"1\n00:00:01,000 --> 00:00:02,000\n"+lineChase+"\n\n"+
			"2\n00:00:03,000 --> 00:00:04,000\n"+lineWhere+"\n\n"+
			"3\n00:00:05,000 --> 00:00:06,000\n♪ 歌詞の行だよ ♪\n")
	writeFile(t, filepath.Join(opts.TranscriptDir, show, "ep02.srt"),
		"1\n00:00:07,000 --> 00:00:08,000\n"+lineWatch+"\n")
	writeFile(t, filepath.Join(opts.TranscriptDir, show, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(opts.VideoDir, show, "ep01.mkv"), "video")
	return opts
}

func TestShowBuilder_Build(t *testing.T) {
	root := t.TempDir()
	opts := setupShow(t, root, "Show")
	exclPath := filepath.Join(root, "core.json")
	writeFile(t, exclPath, `["犬"]`)
	excl, err := resolve.LoadExclusions(exclPath)
	require.NoError(t, err)

	definer := &fakeDefiner{}
	tr := &fakeTranslator{}
	store := &fakeStore{}
	b := &ShowBuilder{
		Opts:       opts,
		Tokenizer:  tokens(),
		Resolver:   definer,
		Translator: tr,
		Synth:      fakeSynth{},
		Frames:     fakeFrames{},
		Exclusions: excl,
		Library:    store,
	}

	res, err := b.Build(context.Background(), "Show")
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)

	cat := res.Rows[0]
	assert.Equal(t, "猫", cat.Expression)
	assert.Equal(t, 3, cat.Frequency)
	assert.Equal(t, "r-猫", cat.Reading)
	assert.Equal(t, "m-猫", cat.Meaning)
	assert.Equal(t, resolve.Unlabeled, cat.Level)
	assert.Equal(t, "<b>猫</b>が犬を追いかけたんだ。", cat.Sentence)
	assert.Equal(t, "EN:"+lineChase, cat.Translation)
	assert.Equal(t, "ep01, ep02", cat.Episodes)
	assert.Equal(t, `<img src="ep01_00_00_01_000.jpg">`, cat.Image)
	assert.True(t, strings.HasPrefix(cat.WordAudio, "[sound:Show_word_"))
	assert.True(t, strings.HasPrefix(cat.SentenceAudio, "[sound:Show_sent_"))

	dog := res.Rows[1]
	assert.Equal(t, "犬", dog.Expression)
	assert.Equal(t, 2, dog.Frequency)
	assert.Equal(t, cat.Image, dog.Image, "both words share the best sentence")

	assert.Equal(t, 1, res.VocabNotes, "excluded word gets no card")
	assert.Equal(t, 1, res.SentenceNotes)
	// one screenshot, two word clips, one shared sentence clip
	assert.Equal(t, 4, res.Media)

	table, err := deck.ReadTableFile(res.TablePath)
	require.NoError(t, err)
	assert.Equal(t, res.Rows, table)
	assert.Equal(t, res.Rows, store.rows["Show"])

	_, err = os.Stat(filepath.Join(opts.CacheDir, "Show_cache.json"))
	assert.NoError(t, err)
	require.NotNil(t, res.Manifest)
	assert.Len(t, res.Manifest.Decks, 2)

	// cached translations are not requested again
	calls := tr.calls.Load()
	_, err = b.Build(context.Background(), "Show")
	require.NoError(t, err)
	assert.Equal(t, calls, tr.calls.Load())
}

func TestShowBuilder_NoOptionalStages(t *testing.T) {
	root := t.TempDir()
	opts := setupShow(t, root, "Show")
	b := &ShowBuilder{Opts: opts, Tokenizer: tokens(), Resolver: &fakeDefiner{}}

	res, err := b.Build(context.Background(), "Show")
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "[Unavailable]", res.Rows[0].Translation)
	assert.Empty(t, res.Rows[0].Image)
	assert.Empty(t, res.Rows[0].WordAudio)
	assert.Equal(t, 2, res.VocabNotes)
	assert.Equal(t, 0, res.Media)
}

func TestShowBuilder_AudioFailureKeepsBuilding(t *testing.T) {
	root := t.TempDir()
	opts := setupShow(t, root, "Show")
	var logs bytes.Buffer
	b := &ShowBuilder{
		Opts:      opts,
		Tokenizer: tokens(),
		Resolver:  &fakeDefiner{},
		Synth:     brokenSynth{},
		Frames:    fakeFrames{},
		Logger:    slog.New(slog.NewTextHandler(&logs, nil)),
	}

	res, err := b.Build(context.Background(), "Show")
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	for _, row := range res.Rows {
		assert.NotEmpty(t, row.Image)
		assert.Empty(t, row.WordAudio)
		assert.Empty(t, row.SentenceAudio)
	}
	assert.Equal(t, 1, res.Media)
	assert.Contains(t, logs.String(), "media incomplete")
	assert.Contains(t, logs.String(), "words=2")
}

func TestShowBuilder_MissingShow(t *testing.T) {
	b := &ShowBuilder{Opts: Options{TranscriptDir: t.TempDir()}, Tokenizer: tokens(), Resolver: &fakeDefiner{}}
	_, err := b.Build(context.Background(), "Nope")
	assert.Error(t, err)
}

func TestListShows(t *testing.T) {
	root := t.TempDir()
	opts := setupShow(t, root, "B")
	setupShow(t, root, "A")
	shows, err := ListShows(opts, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, shows)

	shows, err = ListShows(opts, []string{"X"})
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, shows)
}

func TestMegaBuilder_Build(t *testing.T) {
	root := t.TempDir()
	tables := filepath.Join(root, "csv")
	mediaDir := filepath.Join(root, "media")
	writeFile(t, filepath.Join(mediaDir, "A", "a.jpg"), "jpg")
	writeFile(t, filepath.Join(mediaDir, "A", "a.mp3"), "mp3")
	writeFile(t, filepath.Join(mediaDir, "B", "b.mp3"), "mp3")

	require.NoError(t, deck.WriteTableFile(deck.TablePath(tables, "Show B"), []deck.VocabRow{
		{Expression: "猫", Reading: "ねこ", Meaning: "cat B", Frequency: 5, Sentence: "B文", WordAudio: "[sound:b.mp3]"},
		{Expression: "俺", Reading: "x", Meaning: "wrong", Frequency: 2, Sentence: "俺だ"},
	}))
	require.NoError(t, deck.WriteTableFile(deck.TablePath(tables, "Show A"), []deck.VocabRow{
		{Expression: "猫", Reading: "ねこ", Meaning: "cat A", Frequency: 3, Sentence: "A文",
			Image: `<img src="a.jpg">`, WordAudio: "[sound:a.mp3]"},
		{Expression: "犬", Frequency: 4, Sentence: "犬文", Image: `<img src="missing.jpg">`},
	}))

	m := &MegaBuilder{
		DeckName:  "Anime Mega Deck",
		MediaDir:  mediaDir,
		DeckDir:   filepath.Join(root, "anki"),
		TieBreak:  merge.Deterministic,
		Overrides: resolve.NewTables(),
	}
	res, err := m.Build(context.Background(), CSVSource{Dir: tables})
	require.NoError(t, err)
	assert.Equal(t, []string{"Show A", "Show B"}, res.Shows)
	require.Len(t, res.Entries, 3)

	cat := res.Entries[0]
	assert.Equal(t, "猫", cat.Word)
	assert.Equal(t, 8, cat.Frequency)
	assert.Equal(t, "A文", cat.Chosen.Row.Sentence)
	assert.Equal(t, "cat A", cat.Meaning)

	dog := res.Entries[1]
	assert.Empty(t, dog.Chosen.Refs.Image, "unregistered image is dropped")

	ore := res.Entries[2]
	assert.NotEqual(t, "wrong", ore.Meaning)

	require.NotNil(t, res.Manifest)
	assert.ElementsMatch(t, []string{"a.jpg", "a.mp3"}, res.Manifest.Media)
	assert.Equal(t, 3, res.Manifest.Decks[0].Notes)
}

func TestMegaBuilder_NoTables(t *testing.T) {
	m := &MegaBuilder{DeckName: "Mega", MediaDir: t.TempDir(), DeckDir: t.TempDir()}
	_, err := m.Build(context.Background(), CSVSource{Dir: t.TempDir()})
	assert.ErrorIs(t, err, ErrNoTables)
}
