package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/japaniel/animedeck/pkg/dictionary"
	"github.com/japaniel/animedeck/pkg/jisho"
	"github.com/japaniel/animedeck/pkg/media"
	"github.com/japaniel/animedeck/pkg/merge"
	"github.com/japaniel/animedeck/pkg/pipeline"
	"github.com/japaniel/animedeck/pkg/resolve"
	"github.com/japaniel/animedeck/pkg/tokenize"
	"github.com/japaniel/animedeck/pkg/translate"
)

type buildCommand struct {
	cli *cli

	MinFrequency int  `short:"f" long:"min-frequency" description:"minimum occurrences for a word to be kept (default from config)"`
	NoMedia      bool `long:"no-media" description:"skip screenshots and audio"`
	NoTranslate  bool `long:"no-translate" description:"skip sentence translation; cached translations are still used"`
	Args         struct {
		Shows []string `positional-arg-name:"SHOW" description:"show folders to build (default: all)"`
	} `positional-args:"yes"`
}

// Execute builds every requested show. A show that fails is logged and the
// remaining shows still run.
func (b *buildCommand) Execute([]string) error {
	c := b.cli
	return c.track("build", func() error {
		builder, err := b.builder()
		if err != nil {
			return err
		}
		shows, err := pipeline.ListShows(builder.Opts, b.Args.Shows)
		if err != nil {
			return err
		}
		if len(shows) == 0 {
			return fmt.Errorf("no shows under %s", builder.Opts.TranscriptDir)
		}

		var failed []string
		for _, show := range shows {
			res, err := builder.Build(c.ctx, show)
			if err != nil {
				if c.ctx.Err() != nil {
					return c.ctx.Err()
				}
				c.logger.Error("show failed", "show", show, "error", err)
				failed = append(failed, show)
				continue
			}
			fmt.Printf("%s: %d words, %d vocab cards, %d sentence cards, %d media files\n",
				show, len(res.Rows), res.VocabNotes, res.SentenceNotes, res.Media)
		}
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d shows failed: %v", len(failed), len(shows), failed)
		}
		return nil
	})
}

// builder assembles the collaborators. Only the lexicon is mandatory.
func (b *buildCommand) builder() (*pipeline.ShowBuilder, error) {
	c := b.cli
	cfg := c.cfg

	lexicon, err := dictionary.Open(c.ctx, cfg.Dictionary, c.logger)
	if err != nil {
		return nil, err
	}
	mode, err := tokenize.ParseMode(cfg.Tokenizer.Mode)
	if err != nil {
		return nil, err
	}
	analyzer, err := tokenize.NewAnalyzer(mode)
	if err != nil {
		return nil, err
	}

	tables, err := resolve.LoadTables(cfg.Paths.ManualFixes)
	if err != nil {
		return nil, err
	}
	names, err := resolve.LoadNames(cfg.Paths.Names)
	if err != nil {
		return nil, err
	}
	defs, err := resolve.OpenDefinitionCache(cfg.Paths.DefinitionCache)
	if err != nil {
		return nil, err
	}
	var online resolve.OnlineDictionary
	if cfg.Jisho.Enabled {
		online = jisho.NewClient(cfg.Jisho.BaseURL, cfg.Jisho.Timeout, c.logger)
	}
	levels, err := resolve.LoadLevels(cfg.Paths.Levels)
	if err != nil {
		return nil, err
	}
	exclusions, err := resolve.LoadExclusions(cfg.Paths.Exclusions)
	if err != nil {
		return nil, err
	}
	c.logger.Info("tables loaded",
		slog.Int("names", names.Len()),
		slog.Int("cached_definitions", defs.Len()),
		slog.Int("excluded", exclusions.Len()))

	opts := pipeline.OptionsFromConfig(cfg)
	if b.MinFrequency > 0 {
		opts.MinFrequency = b.MinFrequency
	}
	builder := &pipeline.ShowBuilder{
		Opts:       opts,
		Tokenizer:  analyzer,
		Resolver:   resolve.NewResolver(tables, names, defs, lexicon, online, c.logger),
		Levels:     levels,
		Exclusions: exclusions,
		Logger:     c.logger,
	}
	if !b.NoTranslate {
		tr, err := translate.New(cfg.Translate, c.logger)
		if err != nil {
			return nil, err
		}
		builder.Translator = tr
	}
	if !b.NoMedia {
		if cfg.Media.Audio {
			builder.Synth = media.EdgeTTS{Binary: cfg.Media.EdgeTTS, Voice: cfg.Media.Voice}
		}
		if cfg.Media.Screenshots {
			builder.Frames = media.FFmpeg{Binary: cfg.Media.FFmpeg}
		}
	}
	if c.library != nil {
		builder.Library = c.library
	}
	return builder, nil
}

type mergeCommand struct {
	cli *cli

	CSVDir      string   `long:"csv-dir" description:"directory of per-show tables (default from config)"`
	FromLibrary bool     `long:"from-library" description:"read the tables from the library database instead of CSV"`
	Shows       []string `short:"s" long:"show" description:"limit a library merge to these shows (repeatable)"`
	Name        string   `short:"n" long:"name" description:"deck name (default from config)"`
	TieBreak    string   `long:"tie-break" choice:"deterministic" choice:"random" description:"how equally good examples are chosen"`
	Seed        int64    `long:"seed" description:"seed for the random tie-break"`
}

// Execute merges the tables into the mega deck.
func (m *mergeCommand) Execute([]string) error {
	c := m.cli
	cfg := c.cfg
	return c.track("merge", func() error {
		var src pipeline.TableSource = pipeline.CSVSource{Dir: cfg.Paths.Tables}
		if m.CSVDir != "" {
			src = pipeline.CSVSource{Dir: m.CSVDir}
		}
		if m.FromLibrary {
			if c.library == nil {
				return errors.New("--from-library needs the library database to be enabled")
			}
			src = pipeline.LibrarySource{Library: c.library, Shows: m.Shows}
		}

		mode := cfg.Merge.TieBreak
		if m.TieBreak != "" {
			mode = m.TieBreak
		}
		tieBreak, err := merge.ParseTieBreak(mode)
		if err != nil {
			return err
		}
		seed := cfg.Merge.Seed
		if m.Seed != 0 {
			seed = m.Seed
		}
		name := cfg.Merge.DeckName
		if m.Name != "" {
			name = m.Name
		}
		overrides, err := resolve.LoadTables(cfg.Paths.ManualFixes)
		if err != nil {
			return err
		}

		builder := &pipeline.MegaBuilder{
			DeckName:  name,
			MediaDir:  cfg.Paths.Media,
			DeckDir:   cfg.Paths.Decks,
			TieBreak:  tieBreak,
			Seed:      seed,
			Overrides: overrides,
			Logger:    c.logger,
		}
		res, err := builder.Build(c.ctx, src)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d words from %d shows, %d media files\n",
			name, len(res.Entries), len(res.Shows), len(res.Manifest.Media))
		return nil
	})
}

type importDictCommand struct {
	cli *cli

	Path   string `short:"p" long:"path" description:"lexicon file (default from config)"`
	Format string `long:"format" choice:"json" choice:"xml" description:"lexicon format (default from config)"`
}

// Execute fetches the lexicon when missing and reports its size.
func (d *importDictCommand) Execute([]string) error {
	c := d.cli
	cfg := c.cfg.Dictionary
	if d.Path != "" {
		cfg.Path = d.Path
	}
	if d.Format != "" {
		cfg.Format = d.Format
	}
	cfg.AutoDownload = true
	return c.track("import-dict", func() error {
		ix, err := dictionary.Open(c.ctx, cfg, c.logger)
		if err != nil {
			return err
		}
		entries, keys := ix.Stats()
		fmt.Printf("%s: %d entries, %d lookup keys\n", cfg.Path, entries, keys)
		return nil
	})
}

type importTablesCommand struct {
	cli *cli

	CSVDir string `long:"csv-dir" description:"directory of per-show tables (default from config)"`
}

// Execute copies the CSV tables into the library.
func (i *importTablesCommand) Execute([]string) error {
	c := i.cli
	if c.library == nil {
		return errors.New("import-tables needs the library database to be enabled")
	}
	dir := c.cfg.Paths.Tables
	if i.CSVDir != "" {
		dir = i.CSVDir
	}
	return c.track("import-tables", func() error {
		tables, err := pipeline.CSVSource{Dir: dir}.Tables(c.ctx)
		if err != nil {
			return err
		}
		if len(tables) == 0 {
			return pipeline.ErrNoTables
		}
		n, err := c.library.ImportTables(c.ctx, tables)
		fmt.Printf("imported %d of %d shows from %s\n", n, len(tables), dir)
		return err
	})
}

type showsCommand struct {
	cli *cli
}

// Execute prints the library's shows.
func (s *showsCommand) Execute([]string) error {
	c := s.cli
	if c.library == nil {
		return errors.New("shows needs the library database to be enabled")
	}
	shows, err := c.library.Shows(c.ctx)
	if err != nil {
		return err
	}
	for _, sh := range shows {
		fmt.Printf("%-40s %6d words  %s\n", sh.Name, sh.Words, sh.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
