package enroll

import (
	"github.com/facewallet/facewallet/pkg/camera"
	"github.com/facewallet/facewallet/pkg/descriptor"
)

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
