package media

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/sync/singleflight"
)

// DefaultVoice is the edge-tts voice used when none is configured.
const DefaultVoice = "ja-JP-NanamiNeural"

const maxNameLen = 100

var unsafeNameRe = regexp.MustCompile(`[\\/*?:"<>|]`)

// Synthesizer renders text as speech into the file at dest.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, dest string) error
}

// EdgeTTS synthesizes speech with the edge-tts command line tool.
type EdgeTTS struct {
	Binary string
	Voice  string
}

// Synthesize runs edge-tts and writes an mp3 to dest. A partial file is
// removed on failure.
func (e EdgeTTS) Synthesize(ctx context.Context, text, dest string) error {
	bin := e.Binary
	if bin == "" {
		bin = "edge-tts"
	}
	voice := e.Voice
	if voice == "" {
		voice = DefaultVoice
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "--voice", voice, "--text", text, "--write-media", dest)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("media: edge-tts: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// AudioPrefix builds the file name prefix for a show's audio clip of the
// given kind ("word" or "sent"): the show name plus the first eight hex
// digits of the text's SHA-256.
func AudioPrefix(show, kind, text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%s_%s_%s", show, kind, hex.EncodeToString(sum[:])[:8])
}

// SafeName strips characters that are invalid in file names and caps the
// result at 100 characters.
func SafeName(prefix string) string {
	s := unsafeNameRe.ReplaceAllString(prefix, "")
	if r := []rune(s); len(r) > maxNameLen {
		s = string(r[:maxNameLen])
	}
	return s
}

// AudioGenerator produces cached audio clips in a show's media directory.
type AudioGenerator struct {
	synth  Synthesizer
	dir    string
	logger *slog.Logger
	group  singleflight.Group
}

// NewAudioGenerator returns a generator writing into dir.
func NewAudioGenerator(synth Synthesizer, dir string, logger *slog.Logger) *AudioGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &AudioGenerator{
		synth:  synth,
		dir:    dir,
		logger: logger.With("component", "audio"),
	}
}

// Generate returns the path and card reference of the clip for text, named
// after prefix. An existing non-empty file is reused without synthesis. Any
// failure yields empty strings; concurrent calls for the same file share one
// synthesis.
func (g *AudioGenerator) Generate(ctx context.Context, text, prefix string) (path, ref string) {
	if text == "" {
		return "", ""
	}
	name := SafeName(prefix) + ".mp3"
	full := filepath.Join(g.dir, name)

	_, err, _ := g.group.Do(full, func() (any, error) {
		if nonEmpty(full) {
			return nil, nil
		}
		if err := os.MkdirAll(g.dir, 0o755); err != nil {
			return nil, err
		}
		return nil, g.synth.Synthesize(ctx, text, full)
	})
	if err != nil {
		g.logger.Warn("audio generation failed", "file", name, "error", err)
		return "", ""
	}
	if !nonEmpty(full) {
		return "", ""
	}
	return full, SoundRef(name)
}

func nonEmpty(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular() && fi.Size() > 0
}
