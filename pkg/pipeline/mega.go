package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/japaniel/animedeck/pkg/db"
	"github.com/japaniel/animedeck/pkg/deck"
	"github.com/japaniel/animedeck/pkg/media"
	"github.com/japaniel/animedeck/pkg/merge"
)

// ErrNoTables is returned when a merge finds nothing to merge.
var ErrNoTables = errors.New("pipeline: no vocabulary tables found")

// TableSource yields per-show vocabulary tables.
type TableSource interface {
	Tables(ctx context.Context) ([]db.ShowVocabulary, error)
}

// CSVSource reads every *_Vocabulary_Full.csv in Dir.
type CSVSource struct {
	Dir string
}

// Tables loads the CSV tables, sorted by show.
func (s CSVSource) Tables(context.Context) ([]db.ShowVocabulary, error) {
	found, err := deck.DiscoverTables(s.Dir)
	if err != nil {
		return nil, err
	}
	out := make([]db.ShowVocabulary, 0, len(found))
	for _, t := range found {
		rows, err := deck.ReadTableFile(t.Path)
		if err != nil {
			return nil, err
		}
		out = append(out, db.ShowVocabulary{Show: t.Show, Rows: rows})
	}
	return out, nil
}

// LibrarySource reads tables stored in the SQLite library.
type LibrarySource struct {
	Library *db.Library
	Shows   []string
}

// Tables loads the stored tables, optionally limited to Shows.
func (s LibrarySource) Tables(ctx context.Context) ([]db.ShowVocabulary, error) {
	return s.Library.LoadVocabulary(ctx, s.Shows...)
}

// MegaBuilder merges every show's table into one cross-show deck.
type MegaBuilder struct {
	DeckName  string
	MediaDir  string
	DeckDir   string
	TieBreak  merge.TieBreak
	Seed      int64
	Overrides merge.Overrides
	Logger    *slog.Logger
}

// MegaResult summarises a merged deck.
type MegaResult struct {
	Shows    []string
	Entries  []merge.Entry
	Manifest *deck.Manifest
}

// Build loads the tables from src, merges them and writes the deck.
func (m *MegaBuilder) Build(ctx context.Context, src TableSource) (*MegaResult, error) {
	log := m.Logger
	if log == nil {
		log = slog.Default()
	}
	start := time.Now()

	tables, err := src.Tables(ctx)
	if err != nil {
		return nil, fmt.Errorf("pipeline: load tables: %w", err)
	}
	if len(tables) == 0 {
		return nil, ErrNoTables
	}
	reg, err := media.ScanRegistry(m.MediaDir)
	if err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "merging shows", slog.Int("shows", len(tables)), slog.Int("media_files", reg.Len()))

	merger := merge.New(reg, m.Overrides, m.TieBreak, m.Seed)
	res := &MegaResult{}
	for _, t := range tables {
		merger.Add(t.Show, t.Rows)
		res.Shows = append(res.Shows, t.Show)
		log.DebugContext(ctx, "show added", slog.String("show", t.Show), slog.Int("rows", len(t.Rows)))
	}
	sort.Strings(res.Shows)
	res.Entries = merger.Merge()

	name := m.DeckName
	d := &deck.Deck{
		ID:       deck.GenerateID(name, deck.SaltVocabDeck),
		Name:     name,
		NoteType: deck.MegaNoteType(name),
	}
	pkg := deck.NewPackage()
	for _, e := range res.Entries {
		if err := d.AddNote(e.Fields()); err != nil {
			return nil, err
		}
		pkg.AddMedia(e.MediaPaths()...)
	}
	pkg.AddDeck(d)

	if err := os.MkdirAll(m.DeckDir, 0o755); err != nil {
		return nil, fmt.Errorf("pipeline: create deck dir: %w", err)
	}
	res.Manifest, err = pkg.Write(m.DeckDir, name)
	if err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "mega deck built",
		slog.Int("words", len(res.Entries)),
		slog.Int("media", len(pkg.Media())),
		slog.Duration("elapsed", time.Since(start)))
	return res, nil
}

func listDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("pipeline: list shows: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}
