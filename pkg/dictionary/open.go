package dictionary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/japaniel/animedeck/pkg/config"
)

// Open makes sure the configured lexicon is on disk, loads it and returns the
// index. Any error here is fatal for a run; a missing file that cannot be
// fetched is reported as ErrNoDictionary.
func Open(ctx context.Context, cfg config.DictionaryConfig, logger *slog.Logger) (*Index, error) {
	if _, err := os.Stat(cfg.Path); errors.Is(err, os.ErrNotExist) {
		if !cfg.AutoDownload || cfg.Format == "xml" {
			return nil, fmt.Errorf("%w: %s", ErrNoDictionary, cfg.Path)
		}
		if err := EnsureDictionary(ctx, cfg.Path); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoDictionary, err)
		}
	}

	entries, err := Load(cfg.Path, cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("dictionary: load %s: %w", cfg.Path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s has no entries", ErrNoDictionary, cfg.Path)
	}

	ix := NewIndex(entries)
	n, keys := ix.Stats()
	logger.Info("dictionary loaded", "path", cfg.Path, "format", cfg.Format, "entries", n, "keys", keys)
	return ix, nil
}
