package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/sync/singleflight"
)

// ErrNoFrame is returned when no frame could be read at the requested time.
var ErrNoFrame = errors.New("media: no frame at timestamp")

// Default screenshot dimensions.
const (
	DefaultWidth  = 854
	DefaultHeight = 480
)

// FrameExtractor returns an encoded still image of video at offset.
type FrameExtractor interface {
	Frame(ctx context.Context, video string, at time.Duration) ([]byte, error)
}

// FFmpeg extracts frames by piping a single PNG from the ffmpeg binary.
type FFmpeg struct {
	Binary string
}

// Frame seeks to at and returns one PNG-encoded frame.
func (f FFmpeg) Frame(ctx context.Context, video string, at time.Duration) ([]byte, error) {
	bin := f.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin,
		"-hide_banner", "-loglevel", "error",
		"-ss", strconv.FormatFloat(at.Seconds(), 'f', 3, 64),
		"-i", video,
		"-frames:v", "1",
		"-f", "image2pipe", "-vcodec", "png", "-",
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("media: ffmpeg: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, ErrNoFrame
	}
	return stdout.Bytes(), nil
}

// ParseTimestamp parses HH:MM:SS with an optional fraction introduced by
// '.' or ','.
func ParseTimestamp(ts string) (time.Duration, error) {
	parts := strings.Split(strings.ReplaceAll(strings.TrimSpace(ts), ",", "."), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("media: invalid timestamp %q", ts)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("media: invalid timestamp %q: %w", ts, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("media: invalid timestamp %q: %w", ts, err)
	}
	s, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("media: invalid timestamp %q: %w", ts, err)
	}
	total := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute
	return total + time.Duration(s*float64(time.Second)).Round(time.Millisecond), nil
}

// ScreenshotName derives the image file name from the video base name (up
// to its first dot) and the timestamp with separators replaced.
func ScreenshotName(video, ts string) string {
	base := filepath.Base(video)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	clean := strings.NewReplacer(":", "_", ",", "_", ".", "_").Replace(ts)
	return base + "_" + clean + ".jpg"
}

// Screenshotter captures resized JPEG stills into a media directory.
type Screenshotter struct {
	frames FrameExtractor
	dir    string
	width  int
	height int
	logger *slog.Logger
	group  singleflight.Group
}

// NewScreenshotter returns a Screenshotter writing width x height JPEGs into
// dir. Non-positive dimensions fall back to 854x480.
func NewScreenshotter(frames FrameExtractor, dir string, width, height int, logger *slog.Logger) *Screenshotter {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Screenshotter{
		frames: frames,
		dir:    dir,
		width:  width,
		height: height,
		logger: logger.With("component", "screenshot"),
	}
}

// Capture returns the path and card reference of the still for video at ts.
// An existing file is reused. Any failure yields empty strings.
func (s *Screenshotter) Capture(ctx context.Context, video, ts string) (path, ref string) {
	if video == "" || ts == "" {
		return "", ""
	}
	name := ScreenshotName(video, ts)
	full := filepath.Join(s.dir, name)
	if nonEmpty(full) {
		return full, ImageRef(name)
	}
	// words sharing a sentence share the still
	_, err, _ := s.group.Do(full, func() (any, error) {
		if nonEmpty(full) {
			return nil, nil
		}
		return nil, s.capture(ctx, video, ts, full)
	})
	if err != nil {
		s.logger.Warn("screenshot failed", "video", filepath.Base(video), "timestamp", ts, "error", err)
		return "", ""
	}
	return full, ImageRef(name)
}

func (s *Screenshotter) capture(ctx context.Context, video, ts, dest string) error {
	at, err := ParseTimestamp(ts)
	if err != nil {
		return err
	}
	raw, err := s.frames.Frame(ctx, video, at)
	if err != nil {
		return err
	}
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("media: decode frame: %w", err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	tmp := dest + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(out, dst, &jpeg.Options{Quality: 90}); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("media: encode jpeg: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dest)
}
