package media

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sync"
)

var (
	imageRefRe = regexp.MustCompile(`<img\s+src="([^"]+)"\s*/?>`)
	soundRefRe = regexp.MustCompile(`\[sound:([^\]]+)\]`)
)

// ImageRef renders the card field for an image file.
func ImageRef(name string) string {
	if name == "" {
		return ""
	}
	return fmt.Sprintf(`<img src="%s">`, name)
}

// SoundRef renders the card field for an audio file.
func SoundRef(name string) string {
	if name == "" {
		return ""
	}
	return fmt.Sprintf("[sound:%s]", name)
}

// Registry is the set of media filenames known to exist on disk, keyed by
// base name. Cards only keep references that resolve through it.
type Registry struct {
	mu    sync.RWMutex
	files map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{files: make(map[string]string)}
}

// ScanRegistry walks dir recursively and registers every regular file. A
// missing directory yields an empty registry. When two files share a base
// name the first one in lexical walk order wins.
func ScanRegistry(dir string) (*Registry, error) {
	r := NewRegistry()
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if d.Type().IsRegular() {
			r.Add(path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("media: scan %s: %w", dir, err)
	}
	return r, nil
}

// Add registers path under its base name unless that name is already known.
func (r *Registry) Add(path string) {
	name := filepath.Base(path)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[name]; !ok {
		r.files[name] = path
	}
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.files[name]
	return ok
}

// Path returns the on-disk path registered for name.
func (r *Registry) Path(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.files[name]
	return p, ok
}

// Len returns the number of registered files.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.files)
}

// ValidateImage reports whether ref is an image reference to a registered
// file, returning its on-disk path.
func (r *Registry) ValidateImage(ref string) (string, bool) {
	return r.validate(imageRefRe, ref)
}

// ValidateAudio reports whether ref is a sound reference to a registered
// file, returning its on-disk path.
func (r *Registry) ValidateAudio(ref string) (string, bool) {
	return r.validate(soundRefRe, ref)
}

func (r *Registry) validate(re *regexp.Regexp, ref string) (string, bool) {
	if ref == "" {
		return "", false
	}
	m := re.FindStringSubmatch(ref)
	if m == nil {
		return "", false
	}
	return r.Path(m[1])
}

// Refs holds the three media fields of a card.
type Refs struct {
	Image         string
	WordAudio     string
	SentenceAudio string
}

// Has reports which media kinds are present.
func (f Refs) Has() (image, wordAudio, sentenceAudio bool) {
	return f.Image != "", f.WordAudio != "", f.SentenceAudio != ""
}

// Validate blanks every reference that does not resolve to a registered file
// and returns the surviving fields with the distinct paths they point at.
func (r *Registry) Validate(refs Refs) (Refs, []string) {
	var out Refs
	var paths []string
	seen := make(map[string]struct{}, 3)
	keep := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}
	if p, ok := r.ValidateImage(refs.Image); ok {
		out.Image = refs.Image
		keep(p)
	}
	if p, ok := r.ValidateAudio(refs.WordAudio); ok {
		out.WordAudio = refs.WordAudio
		keep(p)
	}
	if p, ok := r.ValidateAudio(refs.SentenceAudio); ok {
		out.SentenceAudio = refs.SentenceAudio
		keep(p)
	}
	return out, paths
}
