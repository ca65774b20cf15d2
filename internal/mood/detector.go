package mood

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/justestif/go-mood-playlist/internal/camera"
	"github.com/justestif/go-mood-playlist/internal/emotion"
)

// Detector runs one capture session per call, opening the camera fresh each
// time the way the original preview window did.
type Detector struct {
	cameraURL  string
	classifier Classifier
	opts       Options
	log        *logrus.Logger

	mu      sync.Mutex
	current *Session
}

// NewDetector creates a Detector that opens the snapshot camera at cameraURL
// for every capture session.
func NewDetector(cameraURL string, classifier Classifier, opts Options, log *logrus.Logger) *Detector {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Detector{
		cameraURL:  cameraURL,
		classifier: classifier,
		opts:       opts,
		log:        log,
	}
}

// Detect opens the camera, runs a full capture session, and returns the
// aggregated result. A device that cannot be opened is a terminal error:
// the mood is undetectable and no playlist should be attempted.
func (d *Detector) Detect(ctx context.Context) (Result, error) {
	source, err := camera.Open(d.cameraURL)
	if err != nil {
		return Result{}, err
	}

	session := NewSession(source, d.classifier, d.opts, d.log)

	d.mu.Lock()
	d.current = session
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.current = nil
		d.mu.Unlock()
	}()

	return session.Run(ctx)
}

// Snapshot returns the newest frame and classification of the session in
// progress, or (nil, nil) when no capture is running.
func (d *Detector) Snapshot() ([]byte, *emotion.Sample) {
	d.mu.Lock()
	session := d.current
	d.mu.Unlock()

	if session == nil {
		return nil, nil
	}
	return session.Snapshot()
}
