package capture

import (
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// SpoolDevice reads frames a kiosk camera process drops into a directory.
// The newest image file wins; grabbed frames are consumed so the same frame
// is not captured twice.
type SpoolDevice struct {
	dir string
}

func NewSpoolDevice(dir string) *SpoolDevice {
	return &SpoolDevice{dir: dir}
}

func (d *SpoolDevice) Acquire(facing Facing) (Stream, error) {
	info, err := os.Stat(d.dir)
	if err != nil || !info.IsDir() {
		return nil, ErrPermissionDenied
	}
	return &spoolStream{dir: d.dir}, nil
}

type spoolStream struct {
	dir    string
	mu     sync.Mutex
	closed bool
}

func (s *spoolStream) GrabFrame() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrPermissionDenied
	}

	path, err := s.newestFrame()
	if err != nil {
		return nil, err
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}

	// Consume the frame so a second grab gets a fresh one.
	_ = os.Remove(path)
	return img, nil
}

func (s *spoolStream) newestFrame() (string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", ErrPermissionDenied
	}

	var frames []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png":
			frames = append(frames, entry.Name())
		}
	}
	if len(frames) == 0 {
		return "", ErrNoFrame
	}

	sort.Strings(frames)
	return filepath.Join(s.dir, frames[len(frames)-1]), nil
}

func (s *spoolStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
