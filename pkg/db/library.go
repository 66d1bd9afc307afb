package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/japaniel/animedeck/pkg/deck"
)

// DefaultBatchSize is the number of shows imported per transaction.
const DefaultBatchSize = 20

// Library is the SQLite store of every show's resolved vocabulary.
type Library struct {
	db        *sql.DB
	batchSize int
	logger    *slog.Logger
}

// OpenLibrary opens the library database at path.
func OpenLibrary(path string, logger *slog.Logger) (*Library, error) {
	conn, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewLibrary(conn, logger), nil
}

// NewLibrary wraps an initialised connection.
func NewLibrary(conn *sql.DB, logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.Default()
	}
	return &Library{db: conn, batchSize: DefaultBatchSize, logger: logger.With("component", "library")}
}

// Close closes the underlying database.
func (l *Library) Close() error { return l.db.Close() }

// SaveShowVocabulary replaces a show's stored table with rows in one
// transaction. On failure the previous table is kept.
func (l *Library) SaveShowVocabulary(ctx context.Context, show string, rows []deck.VocabRow) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("library: begin: %w", err)
	}
	if err := ReplaceShowVocabulary(ctx, tx, show, rows); err != nil {
		tx.Rollback()
		return fmt.Errorf("library: save %s: %w", show, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("library: save %s: %w", show, err)
	}
	l.logger.Debug("show vocabulary stored", "show", show, "rows", len(rows))
	return nil
}

// ImportTables stores many show tables through a BatchWriter, grouping
// batchSize shows per transaction. Each show is replaced as a whole. After
// the first failing batch the remaining ones are skipped; the number of
// shows committed is returned with the error.
func (l *Library) ImportTables(ctx context.Context, tables []ShowVocabulary) (int, error) {
	bw := NewBatchWriter(l.db, l.batchSize)
	bw.OnError = func(err error) {
		l.logger.Error("import batch rolled back", "error", err)
	}

	var submitErr error
	for _, t := range tables {
		t := t
		submitErr = bw.Submit(ctx, func(ctx context.Context, tx *sql.Tx) error {
			return ReplaceShowVocabulary(ctx, tx, t.Show, t.Rows)
		})
		if submitErr != nil {
			break
		}
	}
	closeErr := bw.Close()
	n := bw.Committed()
	if submitErr != nil {
		return n, fmt.Errorf("library: import: %w", submitErr)
	}
	if closeErr != nil {
		return n, fmt.Errorf("library: import: %w", closeErr)
	}
	l.logger.Info("tables imported", "shows", n)
	return n, nil
}

// LoadVocabulary returns stored tables, optionally restricted to some shows.
func (l *Library) LoadVocabulary(ctx context.Context, shows ...string) ([]ShowVocabulary, error) {
	out, err := LoadVocabulary(ctx, l.db, shows...)
	if err != nil {
		return nil, fmt.Errorf("library: load: %w", err)
	}
	return out, nil
}

// StartRun records a new run.
func (l *Library) StartRun(ctx context.Context, id, command string) error {
	if err := StartRun(ctx, l.db, id, command); err != nil {
		return fmt.Errorf("library: start run: %w", err)
	}
	return nil
}

// FinishRun closes a run with the outcome of runErr.
func (l *Library) FinishRun(ctx context.Context, id string, runErr error) error {
	if err := FinishRun(ctx, l.db, id, runErr); err != nil {
		return fmt.Errorf("library: finish run: %w", err)
	}
	return nil
}

// Shows lists the stored shows with their word counts.
func (l *Library) Shows(ctx context.Context) ([]Show, error) {
	shows, err := ListShows(ctx, l.db)
	if err != nil {
		return nil, fmt.Errorf("library: list shows: %w", err)
	}
	return shows, nil
}

// Run returns the recorded run, or nil when id is unknown.
func (l *Library) Run(ctx context.Context, id string) (*Run, error) {
	r, err := GetRun(ctx, l.db, id)
	if err != nil {
		return nil, fmt.Errorf("library: get run: %w", err)
	}
	return r, nil
}
