package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/japaniel/animedeck/pkg/deck"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateOrGetShow returns the id of the named show, inserting it if needed.
func CreateOrGetShow(ctx context.Context, db DBExecutor, name string) (int64, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return 0, fmt.Errorf("show name must be non-empty")
	}
	var id int64
	err := db.QueryRowContext(ctx, `INSERT INTO shows (name, updated_at) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET updated_at = excluded.updated_at
		RETURNING id`, trimmed, time.Now().UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert show: %w", err)
	}
	return id, nil
}

// ClearShowVocabulary removes every stored row of a show.
func ClearShowVocabulary(ctx context.Context, db DBExecutor, showID int64) error {
	if showID <= 0 {
		return fmt.Errorf("showID must be positive")
	}
	_, err := db.ExecContext(ctx, `DELETE FROM vocabulary WHERE show_id = ?`, showID)
	return err
}

// UpsertVocabulary stores one table row of a show at the given position.
func UpsertVocabulary(ctx context.Context, db DBExecutor, showID int64, position int, r deck.VocabRow) error {
	if showID <= 0 {
		return fmt.Errorf("showID must be positive")
	}
	if strings.TrimSpace(r.Expression) == "" {
		return fmt.Errorf("expression must be non-empty")
	}
	_, err := db.ExecContext(ctx, `INSERT INTO vocabulary
		(show_id, position, expression, reading, meaning, level, frequency, sentence, translation, episodes, image, word_audio, sentence_audio)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(show_id, expression) DO UPDATE SET
		  position = excluded.position,
		  reading = excluded.reading,
		  meaning = excluded.meaning,
		  level = excluded.level,
		  frequency = excluded.frequency,
		  sentence = excluded.sentence,
		  translation = excluded.translation,
		  episodes = excluded.episodes,
		  image = excluded.image,
		  word_audio = excluded.word_audio,
		  sentence_audio = excluded.sentence_audio`,
		showID, position, r.Expression, r.Reading, r.Meaning, r.Level, r.Frequency,
		r.Sentence, r.Translation, r.Episodes, r.Image, r.WordAudio, r.SentenceAudio)
	if err != nil {
		return fmt.Errorf("upsert vocabulary %q: %w", r.Expression, err)
	}
	return nil
}

// ReplaceShowVocabulary stores rows as the complete table of show. Run it
// inside a transaction so readers never see a half-replaced table.
func ReplaceShowVocabulary(ctx context.Context, db DBExecutor, show string, rows []deck.VocabRow) error {
	showID, err := CreateOrGetShow(ctx, db, show)
	if err != nil {
		return err
	}
	if err := ClearShowVocabulary(ctx, db, showID); err != nil {
		return fmt.Errorf("clear %s: %w", show, err)
	}
	for i, r := range rows {
		if err := UpsertVocabulary(ctx, db, showID, i, r); err != nil {
			return fmt.Errorf("%s row %d (%s): %w", show, i, r.Expression, err)
		}
	}
	return nil
}

// LoadVocabulary returns every stored show with its rows in export order.
// Shows are ordered by name. A non-empty only list restricts the result.
func LoadVocabulary(ctx context.Context, db DBExecutor, only ...string) ([]ShowVocabulary, error) {
	rows, err := db.QueryContext(ctx, `SELECT s.name, v.expression, v.reading, v.meaning, v.level, v.frequency,
		v.sentence, v.translation, v.episodes, v.image, v.word_audio, v.sentence_audio
		FROM vocabulary v JOIN shows s ON s.id = v.show_id
		ORDER BY s.name, v.position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	want := make(map[string]bool, len(only))
	for _, s := range only {
		want[s] = true
	}
	var out []ShowVocabulary
	for rows.Next() {
		var show string
		var r deck.VocabRow
		var reading, meaning, level, sentence, translation, episodes, image, wordAudio, sentAudio sql.NullString
		if err := rows.Scan(&show, &r.Expression, &reading, &meaning, &level, &r.Frequency,
			&sentence, &translation, &episodes, &image, &wordAudio, &sentAudio); err != nil {
			return nil, err
		}
		if len(want) > 0 && !want[show] {
			continue
		}
		r.Reading, r.Meaning, r.Level = reading.String, meaning.String, level.String
		r.Sentence, r.Translation, r.Episodes = sentence.String, translation.String, episodes.String
		r.Image, r.WordAudio, r.SentenceAudio = image.String, wordAudio.String, sentAudio.String
		if n := len(out); n == 0 || out[n-1].Show != show {
			out = append(out, ShowVocabulary{Show: show})
		}
		out[len(out)-1].Rows = append(out[len(out)-1].Rows, r)
	}
	return out, rows.Err()
}

// ListShows returns the stored shows ordered by name, with their word counts.
func ListShows(ctx context.Context, db DBExecutor) ([]Show, error) {
	rows, err := db.QueryContext(ctx, `SELECT s.id, s.name, s.updated_at, COUNT(v.expression)
		FROM shows s LEFT JOIN vocabulary v ON v.show_id = s.id
		GROUP BY s.id ORDER BY s.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Show
	for rows.Next() {
		var s Show
		var updated sql.NullTime
		if err := rows.Scan(&s.ID, &s.Name, &updated, &s.Words); err != nil {
			return nil, err
		}
		if updated.Valid {
			s.UpdatedAt = updated.Time
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// StartRun records the start of a pipeline run.
func StartRun(ctx context.Context, db DBExecutor, id, command string) error {
	if id == "" {
		return fmt.Errorf("run id must be non-empty")
	}
	_, err := db.ExecContext(ctx, `INSERT INTO runs (id, command, started_at, status) VALUES (?, ?, ?, ?)`,
		id, command, time.Now().UTC(), RunRunning)
	return err
}

// FinishRun marks a run as finished. A nil runErr records success.
func FinishRun(ctx context.Context, db DBExecutor, id string, runErr error) error {
	status, detail := RunOK, ""
	if runErr != nil {
		status, detail = RunFailed, runErr.Error()
	}
	res, err := db.ExecContext(ctx, `UPDATE runs SET finished_at = ?, status = ?, detail = ? WHERE id = ?`,
		time.Now().UTC(), status, detail, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}

// GetRun loads a run by id.
func GetRun(ctx context.Context, db DBExecutor, id string) (*Run, error) {
	var r Run
	var finished sql.NullTime
	var detail sql.NullString
	err := db.QueryRowContext(ctx, `SELECT id, command, started_at, finished_at, status, detail FROM runs WHERE id = ?`, id).
		Scan(&r.ID, &r.Command, &r.StartedAt, &finished, &r.Status, &detail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if finished.Valid {
		t := finished.Time
		r.FinishedAt = &t
	}
	r.Detail = detail.String
	return &r, nil
}
