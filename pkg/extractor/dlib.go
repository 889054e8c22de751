package extractor

import (
	"fmt"
	"sync"

	"github.com/Kagami/go-face"

	"github.com/facewallet/facewallet/pkg/descriptor"
	"github.com/facewallet/facewallet/pkg/logging"
)

// Dlib implements Extractor using dlib via go-face. It produces
// 128-dimensional descriptors.
type Dlib struct {
	modelPath string

	mu     sync.RWMutex
	rec    *face.Recognizer
	loaded bool
}

// NewDlib creates a dlib-backed extractor loading models from modelPath.
// The path should contain:
//   - shape_predictor_5_face_landmarks.dat
//   - dlib_face_recognition_resnet_model_v1.dat
//   - mmod_human_face_detector.dat
func NewDlib(modelPath string) *Dlib {
	return &Dlib{modelPath: modelPath}
}

// LoadModels loads the dlib models. Safe to call repeatedly.
func (d *Dlib) LoadModels() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.loaded {
		return nil
	}

	logging.Component("extractor").Infof("Loading face models from: %s", d.modelPath)

	rec, err := face.NewRecognizer(d.modelPath)
	if err != nil {
		return fmt.Errorf("failed to load models: %w", err)
	}

	d.rec = rec
	d.loaded = true
	return nil
}

// Detect finds the single face in a JPEG frame and returns its descriptor.
// Frames with zero faces, or with more than one face, yield ErrNoFace: a
// crowded frame carries no usable identity signal for a single-user scan.
func (d *Dlib) Detect(frame []byte) (descriptor.Descriptor, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.loaded {
		return nil, ErrModelsNotLoaded
	}

	faces, err := d.rec.Recognize(frame)
	if err != nil {
		return nil, fmt.Errorf("face detection failed: %w", err)
	}
	if len(faces) != 1 {
		return nil, ErrNoFace
	}

	raw := faces[0].Descriptor
	out := make(descriptor.Descriptor, len(raw))
	for i, v := range raw {
		out[i] = v
	}
	return out, nil
}

// Close releases the recognizer resources.
func (d *Dlib) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.rec != nil {
		d.rec.Close()
		d.rec = nil
	}
	d.loaded = false
	return nil
}
