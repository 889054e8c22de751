package camera

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// StillSource replays still images from a directory as a frame stream. The
// CLI uses it when no live camera is present, and tests use it for
// deterministic capture sequences. Frames repeat from the start once
// exhausted, mimicking a continuous feed.
type StillSource struct {
	paths []string
	next  int
	open  bool
}

// NewStillSource builds a source over the JPEG files in dir, in name order.
func NewStillSource(dir string) (*StillSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		if strings.HasSuffix(name, ".jpg") || strings.HasSuffix(name, ".jpeg") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no images in %s", ErrUnavailable, dir)
	}
	return &StillSource{paths: paths}, nil
}

// Open marks the source ready.
func (s *StillSource) Open() error {
	s.open = true
	s.next = 0
	return nil
}

// ReadFrame returns the next image in sequence, wrapping around at the end.
func (s *StillSource) ReadFrame() (Frame, error) {
	if !s.open {
		return Frame{}, ErrClosed
	}

	path := s.paths[s.next%len(s.paths)]
	s.next++

	data, err := os.ReadFile(path)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrNoFrame, err)
	}
	return Frame{Data: data, Timestamp: time.Now()}, nil
}

// Close releases the source.
func (s *StillSource) Close() error {
	s.open = false
	return nil
}
