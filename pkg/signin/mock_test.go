package signin

import (
	"time"

	"github.com/facewallet/facewallet/pkg/camera"
	"github.com/facewallet/facewallet/pkg/descriptor"
)

// instantClock ticks immediately, so scan loops run without real sleeps.
type instantClock struct{}

func (instantClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

// mockSource implements camera.Source with overridable functions.
type mockSource struct {
	openFunc      func() error
	readFrameFunc func() (camera.Frame, error)
	closed        bool
}

func (m *mockSource) Open() error {
	if m.openFunc != nil {
		return m.openFunc()
	}
	return nil
}

func (m *mockSource) ReadFrame() (camera.Frame, error) {
	if m.readFrameFunc != nil {
		return m.readFrameFunc()
	}
	return camera.Frame{Data: []byte("frame")}, nil
}

func (m *mockSource) Close() error {
	m.closed = true
	return nil
}

// mockExtractor implements extractor.Extractor with overridable functions.
type mockExtractor struct {
	loadModelsFunc func() error
	detectFunc     func(frame []byte) (descriptor.Descriptor, error)
}

func (m *mockExtractor) LoadModels() error {
	if m.loadModelsFunc != nil {
		return m.loadModelsFunc()
	}
	return nil
}

func (m *mockExtractor) Detect(frame []byte) (descriptor.Descriptor, error) {
	if m.detectFunc != nil {
		return m.detectFunc(frame)
	}
	return nil, nil
}

func (m *mockExtractor) Close() error { return nil }
