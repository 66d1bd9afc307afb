// Package pipeline wires the per-show build and the cross-show merge out of
// the individual stages.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/japaniel/animedeck/pkg/config"
	"github.com/japaniel/animedeck/pkg/deck"
	"github.com/japaniel/animedeck/pkg/media"
	"github.com/japaniel/animedeck/pkg/rank"
	"github.com/japaniel/animedeck/pkg/resolve"
	"github.com/japaniel/animedeck/pkg/transcript"
	"github.com/japaniel/animedeck/pkg/translate"
	"github.com/japaniel/animedeck/pkg/vocab"
)

// errMediaIncomplete marks a media job that produced only part of its files.
var errMediaIncomplete = errors.New("pipeline: media incomplete")

// Definer resolves a word to its definition. It never fails.
type Definer interface {
	Resolve(ctx context.Context, q resolve.Query) resolve.Definition
}

// VocabStore persists a show's table for later merges.
type VocabStore interface {
	SaveShowVocabulary(ctx context.Context, show string, rows []deck.VocabRow) error
}

// Options are the paths and knobs of a show build.
type Options struct {
	TranscriptDir string
	VideoDir      string
	MediaDir      string
	DeckDir       string
	TableDir      string
	CacheDir      string
	MinFrequency  int
	BatchSize     int
	Delay         time.Duration
	Width         int
	Height        int
	Workers       int
}

// OptionsFromConfig extracts the build options from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		TranscriptDir: cfg.Paths.Transcripts,
		VideoDir:      cfg.Paths.Videos,
		MediaDir:      cfg.Paths.Media,
		DeckDir:       cfg.Paths.Decks,
		TableDir:      cfg.Paths.Tables,
		CacheDir:      cfg.Paths.Cache,
		MinFrequency:  cfg.Vocab.MinFrequency,
		BatchSize:     cfg.Translate.BatchSize,
		Delay:         cfg.Translate.Delay,
		Width:         cfg.Media.Width,
		Height:        cfg.Media.Height,
		Workers:       cfg.Media.Workers,
	}
}

// ShowBuilder runs the full per-show pipeline. Translator, Synth, Frames
// and Library are optional; a nil value disables that stage.
type ShowBuilder struct {
	Opts       Options
	Tokenizer  vocab.Tokenizer
	Resolver   Definer
	Translator translate.Translator
	Synth      media.Synthesizer
	Frames     media.FrameExtractor
	Levels     *resolve.Levels
	Exclusions *resolve.Exclusions
	Library    VocabStore
	Logger     *slog.Logger
}

// ShowResult summarises one built show.
type ShowResult struct {
	Show          string
	Lines         int
	Rows          []deck.VocabRow
	VocabNotes    int
	SentenceNotes int
	Media         int
	TablePath     string
	Manifest      *deck.Manifest
}

// ListShows returns the show folders under the transcript directory, or
// the named ones when given.
func ListShows(opts Options, named []string) ([]string, error) {
	if len(named) > 0 {
		return named, nil
	}
	return listDirs(opts.TranscriptDir)
}

// Build processes every transcript of show and writes its table, library
// rows and decks. Collaborator failures degrade the affected fields; only
// unreadable inputs and unwritable outputs are returned as errors.
func (b *ShowBuilder) Build(ctx context.Context, show string) (*ShowResult, error) {
	log := b.logger().With("show", show)
	start := time.Now()

	files, err := transcript.Discover(filepath.Join(b.Opts.TranscriptDir, show))
	if err != nil {
		return nil, fmt.Errorf("pipeline: %s: %w", show, err)
	}
	log.InfoContext(ctx, "scanning transcripts", slog.Int("files", len(files)))

	agg := vocab.NewAggregator(b.Tokenizer)
	videoDir := filepath.Join(b.Opts.VideoDir, show)
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines, err := transcript.Parse(path)
		if err != nil {
			log.WarnContext(ctx, "skipping transcript", slog.String("file", filepath.Base(path)), slog.String("error", err.Error()))
			continue
		}
		ep := transcript.Episode(path)
		video := transcript.FindVideo(videoDir, ep)
		if video != "" {
			log.DebugContext(ctx, "video found", slog.String("episode", ep), slog.String("video", filepath.Base(video)))
		}
		for _, l := range lines {
			agg.ObserveLine(vocab.Observation{Episode: ep, Text: l.Text, Timestamp: l.Timestamp, Video: video})
		}
	}

	minFreq := b.Opts.MinFrequency
	if minFreq <= 0 {
		minFreq = vocab.DefaultMinFrequency
	}
	records := agg.Finalize(minFreq)
	log.InfoContext(ctx, "vocabulary aggregated",
		slog.Int("lines", agg.Lines()), slog.Int("distinct", agg.Len()), slog.Int("kept", len(records)))

	cache, err := b.translateSentences(ctx, show, records, log)
	if err != nil {
		return nil, err
	}

	rows := make([]deck.VocabRow, len(records))
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		def := b.Resolver.Resolve(ctx, resolve.Query{
			Word:           rec.Word,
			NormalizedForm: rec.NormalizedForm,
			Reading:        rec.Reading,
			ProperNoun:     rec.ProperNoun,
		})
		rows[i] = deck.VocabRow{
			Expression:  rec.Word,
			Reading:     def.Reading,
			Meaning:     def.Meaning,
			Level:       b.level(rec.Word),
			Frequency:   rec.Frequency,
			Sentence:    rec.Bolded,
			Translation: cache.Lookup(rec.Sentence),
			Episodes:    strings.Join(rec.Episodes, ", "),
		}
		if i%100 == 0 {
			log.DebugContext(ctx, "definitions", slog.Int("done", i), slog.Int("total", len(records)))
		}
	}

	mediaPaths, err := b.generateMedia(ctx, show, records, rows, log)
	if err != nil {
		return nil, err
	}

	res := &ShowResult{Show: show, Lines: agg.Lines(), Rows: rows}
	res.TablePath = deck.TablePath(b.Opts.TableDir, show)
	if err := deck.WriteTableFile(res.TablePath, rows); err != nil {
		return nil, fmt.Errorf("pipeline: %s: %w", show, err)
	}
	if b.Library != nil {
		if err := b.Library.SaveShowVocabulary(ctx, show, rows); err != nil {
			log.WarnContext(ctx, "library update failed", slog.String("error", err.Error()))
		}
	}

	pkg, vocabNotes, sentenceNotes, err := b.assemble(show, records, rows, mediaPaths)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %s: %w", show, err)
	}
	res.VocabNotes, res.SentenceNotes, res.Media = vocabNotes, sentenceNotes, len(pkg.Media())
	res.Manifest, err = pkg.Write(b.Opts.DeckDir, show+"_Master")
	if err != nil {
		return nil, fmt.Errorf("pipeline: %s: %w", show, err)
	}

	log.InfoContext(ctx, "show built",
		slog.Int("words", len(rows)),
		slog.Int("vocab_notes", vocabNotes),
		slog.Int("sentence_notes", sentenceNotes),
		slog.Int("media", res.Media),
		slog.Duration("elapsed", time.Since(start)))
	return res, nil
}

// translateSentences loads the show's translation cache and fills it with
// every best sentence not yet translated.
func (b *ShowBuilder) translateSentences(ctx context.Context, show string, records []vocab.WordRecord, log *slog.Logger) (*translate.Cache, error) {
	cache, err := translate.LoadCache(filepath.Join(b.Opts.CacheDir, show+"_cache.json"))
	if err != nil {
		return nil, fmt.Errorf("pipeline: %s: %w", show, err)
	}
	sentences := make([]string, 0, len(records))
	for _, rec := range records {
		if s := strings.TrimSpace(rec.Sentence); s != "" {
			sentences = append(sentences, rec.Sentence)
		}
	}
	missing := cache.Missing(sentences)
	if len(missing) == 0 || b.Translator == nil {
		return cache, nil
	}

	log.InfoContext(ctx, "translating sentences", slog.Int("new", len(missing)))
	batcher := translate.NewBatcher(b.Translator, b.Opts.BatchSize, b.Opts.Delay, log)
	_, err = batcher.Run(ctx, missing, func(results map[string]string) error {
		cache.Merge(results)
		return cache.Save()
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.WarnContext(ctx, "translation cache not saved", slog.String("error", err.Error()))
	}
	return cache, nil
}

// generateMedia fills the media fields of rows and returns each row's
// on-disk media paths.
func (b *ShowBuilder) generateMedia(ctx context.Context, show string, records []vocab.WordRecord, rows []deck.VocabRow, log *slog.Logger) ([][]string, error) {
	paths := make([][]string, len(rows))
	if b.Synth == nil && b.Frames == nil {
		return paths, nil
	}
	dir := filepath.Join(b.Opts.MediaDir, show)
	var audio *media.AudioGenerator
	if b.Synth != nil {
		audio = media.NewAudioGenerator(b.Synth, dir, log)
	}
	var shots *media.Screenshotter
	if b.Frames != nil {
		shots = media.NewScreenshotter(b.Frames, dir, b.Opts.Width, b.Opts.Height, log)
	}

	pool := media.NewPool(b.Opts.Workers, 0)
	pool.Start(ctx)
	var submitErr error
	for i := range records {
		i := i
		submitErr = pool.Submit(ctx, func(ctx context.Context) error {
			rec := records[i]
			var p []string
			missing := false
			if shots != nil && rec.Video != "" {
				if path, ref := shots.Capture(ctx, rec.Video, rec.Timestamp); ref != "" {
					rows[i].Image = ref
					p = append(p, path)
				} else {
					missing = true
				}
			}
			if audio != nil {
				if path, ref := audio.Generate(ctx, rec.Word, media.AudioPrefix(show, "word", rec.Word)); ref != "" {
					rows[i].WordAudio = ref
					p = append(p, path)
				} else {
					missing = true
				}
				if rec.Sentence != "" {
					if path, ref := audio.Generate(ctx, rec.Sentence, media.AudioPrefix(show, "sent", rec.Sentence)); ref != "" {
						rows[i].SentenceAudio = ref
						p = append(p, path)
					} else {
						missing = true
					}
				}
			}
			paths[i] = p
			if missing {
				return errMediaIncomplete
			}
			return nil
		})
		if submitErr != nil {
			break
		}
	}
	pool.Close()
	if submitErr != nil {
		return nil, submitErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n := pool.Failures(); n > 0 {
		log.WarnContext(ctx, "media incomplete", slog.Int64("words", n), slog.Int("total", len(records)))
	}
	return paths, nil
}

// assemble builds the vocabulary and sentence decks. Excluded words stay in
// the table but get no cards.
func (b *ShowBuilder) assemble(show string, records []vocab.WordRecord, rows []deck.VocabRow, mediaPaths [][]string) (*deck.Package, int, int, error) {
	vocabDeck := &deck.Deck{
		ID:       deck.GenerateID(show, deck.SaltVocabDeck),
		Name:     deck.VocabDeckName(show),
		NoteType: deck.VocabNoteType(show),
	}
	sentenceDeck := &deck.Deck{
		ID:       deck.GenerateID(show, deck.SaltSentenceDeck),
		Name:     deck.SentenceDeckName(show),
		NoteType: deck.SentenceNoteType(show),
	}

	pkg := deck.NewPackage()
	items := make([]rank.Item, len(records))
	for i, rec := range records {
		items[i] = rank.Item{Word: rec.Word, Sentence: rec.Sentence, Tokens: rec.Tokens}
		pkg.AddMedia(mediaPaths[i]...)
		if b.excluded(rec.Word) {
			continue
		}
		if err := vocabDeck.AddNote(rows[i].Fields()); err != nil {
			return nil, 0, 0, err
		}
	}
	for _, r := range rank.Complexity(items, b.excluded) {
		if err := sentenceDeck.AddNote(rows[r.Index].Fields()); err != nil {
			return nil, 0, 0, err
		}
	}
	pkg.AddDeck(vocabDeck)
	pkg.AddDeck(sentenceDeck)
	return pkg, len(vocabDeck.Notes), len(sentenceDeck.Notes), nil
}

func (b *ShowBuilder) excluded(word string) bool {
	return b.Exclusions != nil && b.Exclusions.Contains(word)
}

func (b *ShowBuilder) level(word string) string {
	if b.Levels == nil {
		if word == "さん" {
			return "N5"
		}
		return resolve.Unlabeled
	}
	return b.Levels.Level(word)
}

func (b *ShowBuilder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}
