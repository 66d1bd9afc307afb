package transcript

import (
	"os"
	"path/filepath"
	"strings"
)

var videoExts = []string{".mkv", ".mp4", ".avi", ".webm"}

// FindVideo locates the video file for an episode inside dir. An exact
// "<episode><ext>" match wins; otherwise the largest video whose name
// contains the episode name is returned. It returns "" when nothing matches.
func FindVideo(dir, episode string) string {
	for _, ext := range videoExts {
		p := filepath.Join(dir, episode+ext)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var (
		best     string
		bestSize int64 = -1
	)
	for _, e := range entries {
		if e.IsDir() || !isVideo(e.Name()) || !strings.Contains(e.Name(), episode) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		if fi.Size() > bestSize {
			best, bestSize = filepath.Join(dir, e.Name()), fi.Size()
		}
	}
	return best
}

func isVideo(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, v := range videoExts {
		if ext == v {
			return true
		}
	}
	return false
}
