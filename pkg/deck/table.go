// Package deck holds the per-show vocabulary tables, the note type
// definitions and the Anki text-import export.
package deck

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// TableSuffix is appended to a show name to form its vocabulary table file.
const TableSuffix = "_Vocabulary_Full.csv"

// Header is the fixed column order of a vocabulary table.
var Header = []string{
	"Expression", "Reading", "Meaning", "Level", "Frequency", "Sentence",
	"Translation", "Episodes", "Image", "WordAudio", "SentenceAudio",
}

// VocabRow is one resolved word of a show.
type VocabRow struct {
	Expression    string
	Reading       string
	Meaning       string
	Level         string
	Frequency     int
	Sentence      string
	Translation   string
	Episodes      string
	Image         string
	WordAudio     string
	SentenceAudio string
}

// Fields returns the row in Header order.
func (r VocabRow) Fields() []string {
	return []string{
		r.Expression, r.Reading, r.Meaning, r.Level, strconv.Itoa(r.Frequency),
		r.Sentence, r.Translation, r.Episodes, r.Image, r.WordAudio, r.SentenceAudio,
	}
}

// WriteTable writes the header and rows as CSV.
func WriteTable(w io.Writer, rows []VocabRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.Fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTable parses a vocabulary table. Columns are matched by header name,
// so tables written before the media columns existed still load.
func ReadTable(r io.Reader) ([]VocabRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	head, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("deck: read header: %w", err)
	}
	col := make(map[string]int, len(head))
	for i, h := range head {
		col[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	if _, ok := col["Expression"]; !ok {
		return nil, fmt.Errorf("deck: table has no Expression column")
	}
	get := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var rows []VocabRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("deck: line %d: %w", line, err)
		}
		row := VocabRow{
			Expression:    get(rec, "Expression"),
			Reading:       get(rec, "Reading"),
			Meaning:       get(rec, "Meaning"),
			Level:         get(rec, "Level"),
			Sentence:      get(rec, "Sentence"),
			Translation:   get(rec, "Translation"),
			Episodes:      get(rec, "Episodes"),
			Image:         get(rec, "Image"),
			WordAudio:     get(rec, "WordAudio"),
			SentenceAudio: get(rec, "SentenceAudio"),
		}
		if row.Expression == "" {
			continue
		}
		if f := get(rec, "Frequency"); f != "" {
			n, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return nil, fmt.Errorf("deck: line %d: frequency %q: %w", line, f, err)
			}
			row.Frequency = n
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// TablePath returns the table file for show inside dir.
func TablePath(dir, show string) string {
	return filepath.Join(dir, show+TableSuffix)
}

// WriteTableFile writes rows to path, replacing any previous table.
func WriteTableFile(path string, rows []VocabRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("deck: create table dir: %w", err)
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("deck: create table: %w", err)
	}
	if err := WriteTable(f, rows); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("deck: write table: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// ReadTableFile loads the table at path.
func ReadTableFile(path string) ([]VocabRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("deck: open table: %w", err)
	}
	defer f.Close()
	rows, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// ShowTable is a vocabulary table discovered on disk.
type ShowTable struct {
	Show string
	Path string
}

// DiscoverTables lists every *_Vocabulary_Full.csv in dir, sorted by show.
func DiscoverTables(dir string) ([]ShowTable, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("deck: list tables: %w", err)
	}
	var out []ShowTable
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), TableSuffix) {
			continue
		}
		show := strings.TrimSuffix(e.Name(), TableSuffix)
		if show == "" {
			continue
		}
		out = append(out, ShowTable{Show: show, Path: filepath.Join(dir, e.Name())})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Show < out[j].Show })
	return out, nil
}
