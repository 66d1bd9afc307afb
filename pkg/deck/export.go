package deck

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
)

// MediaDir is the directory, relative to an export, that receives media.
const MediaDir = "collection.media"

// Deck is a named list of notes sharing one note type. Each note carries
// its fields in NoteType.Fields order.
type Deck struct {
	ID       int64
	Name     string
	NoteType NoteType
	Notes    [][]string
}

// AddNote appends a note, checking its arity against the note type.
func (d *Deck) AddNote(fields []string) error {
	if len(fields) != len(d.NoteType.Fields) {
		return fmt.Errorf("deck: %s: note has %d fields, want %d", d.Name, len(fields), len(d.NoteType.Fields))
	}
	d.Notes = append(d.Notes, fields)
	return nil
}

// Package bundles decks with the media they reference.
type Package struct {
	Decks []*Deck
	media []string
	seen  map[string]struct{}
}

// NewPackage returns an empty package.
func NewPackage() *Package {
	return &Package{seen: make(map[string]struct{})}
}

// AddDeck appends a deck to the package.
func (p *Package) AddDeck(d *Deck) { p.Decks = append(p.Decks, d) }

// AddMedia registers media file paths; each path is kept once.
func (p *Package) AddMedia(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, ok := p.seen[path]; ok {
			continue
		}
		p.seen[path] = struct{}{}
		p.media = append(p.media, path)
	}
}

// Media returns the registered media paths in insertion order.
func (p *Package) Media() []string { return append([]string(nil), p.media...) }

// Manifest describes a written export.
type Manifest struct {
	Name      string          `json:"name"`
	Decks     []ManifestDeck  `json:"decks"`
	NoteTypes []ManifestModel `json:"note_types"`
	Media     []string        `json:"media"`
}

// ManifestDeck is one deck entry of a Manifest.
type ManifestDeck struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	NoteType string `json:"note_type"`
	File     string `json:"file"`
	Notes    int    `json:"notes"`
}

// ManifestModel is one note type entry of a Manifest.
type ManifestModel struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Fields    []string `json:"fields"`
	Templates []string `json:"templates"`
}

var unsafeFileRe = regexp.MustCompile(`[\\/*?:"<>|\s]+`)

func fileSlug(s string) string {
	return strings.Trim(unsafeFileRe.ReplaceAllString(s, "_"), "_")
}

// Write exports the package under dir/name: one Anki text-import file per
// deck, minified templates per note type, the media files and a manifest.
func (p *Package) Write(dir, name string) (*Manifest, error) {
	out := filepath.Join(dir, fileSlug(name))
	if err := os.MkdirAll(filepath.Join(out, MediaDir), 0o755); err != nil {
		return nil, fmt.Errorf("deck: create export dir: %w", err)
	}

	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)

	man := &Manifest{Name: name}
	models := make(map[int64]bool)
	for _, d := range p.Decks {
		file := fileSlug(d.Name) + ".txt"
		if err := writeDeck(filepath.Join(out, file), d); err != nil {
			return nil, err
		}
		man.Decks = append(man.Decks, ManifestDeck{
			ID: d.ID, Name: d.Name, NoteType: d.NoteType.Name, File: file, Notes: len(d.Notes),
		})
		if models[d.NoteType.ID] {
			continue
		}
		models[d.NoteType.ID] = true
		names, err := writeTemplates(m, out, d.NoteType)
		if err != nil {
			return nil, err
		}
		man.NoteTypes = append(man.NoteTypes, ManifestModel{
			ID: d.NoteType.ID, Name: d.NoteType.Name, Fields: d.NoteType.Fields, Templates: names,
		})
	}

	for _, src := range p.media {
		base := filepath.Base(src)
		if err := copyFile(src, filepath.Join(out, MediaDir, base)); err != nil {
			return nil, fmt.Errorf("deck: copy media %s: %w", base, err)
		}
		man.Media = append(man.Media, base)
	}

	data, err := json.MarshalIndent(man, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(out, "manifest.json"), data, 0o644); err != nil {
		return nil, fmt.Errorf("deck: write manifest: %w", err)
	}
	return man, nil
}

func writeDeck(path string, d *Deck) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("deck: create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	fmt.Fprintln(f, "#separator:tab")
	fmt.Fprintln(f, "#html:true")
	fmt.Fprintf(f, "#notetype:%s\n", d.NoteType.Name)
	fmt.Fprintf(f, "#deck:%s\n", d.Name)
	fmt.Fprintf(f, "#columns:%s\n", strings.Join(d.NoteType.Fields, "\t"))

	cw := csv.NewWriter(f)
	cw.Comma = '\t'
	for _, note := range d.Notes {
		if err := cw.Write(note); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("deck: write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// writeTemplates stores the note type's stylesheet and card faces, minified,
// and returns the template names.
func writeTemplates(m *minify.M, dir string, nt NoteType) ([]string, error) {
	base := filepath.Join(dir, "templates", fileSlug(nt.Name))
	if err := os.MkdirAll(filepath.Dir(base), 0o755); err != nil {
		return nil, err
	}
	style, err := m.String("text/css", nt.CSS)
	if err != nil {
		return nil, fmt.Errorf("deck: minify css: %w", err)
	}
	if err := os.WriteFile(base+".css", []byte(style), 0o644); err != nil {
		return nil, err
	}
	var names []string
	for _, t := range nt.Templates {
		names = append(names, t.Name)
		for side, src := range map[string]string{"front": t.Front, "back": t.Back} {
			face, err := m.String("text/html", src)
			if err != nil {
				return nil, fmt.Errorf("deck: minify %s %s: %w", t.Name, side, err)
			}
			path := fmt.Sprintf("%s.%s.%s.html", base, fileSlug(t.Name), side)
			if err := os.WriteFile(path, []byte(face), 0o644); err != nil {
				return nil, err
			}
		}
	}
	return names, nil
}

func copyFile(src, dst string) error {
	if src == dst {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
