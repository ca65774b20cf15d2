// Package mood implements webcam mood capture: a bounded sampling session
// that feeds frames to the emotion classifier, and the aggregation that
// reduces the sampled labels to a single mood.
package mood

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/justestif/go-mood-playlist/internal/camera"
	"github.com/justestif/go-mood-playlist/internal/emotion"
)

// Classifier analyzes a single frame. Failures must be non-fatal to the
// capture session.
type Classifier interface {
	Analyze(ctx context.Context, frame []byte) (*emotion.Sample, error)
}

// Options control the timing of a capture session.
type Options struct {
	Window      time.Duration // wall-clock capture duration
	Interval    time.Duration // delay between classification attempts
	IdleDelay   time.Duration // delay when no frame is available yet
	JoinTimeout time.Duration // how long to wait for the analysis goroutine on stop
}

// DefaultOptions returns the capture timings used by the server.
func DefaultOptions() Options {
	return Options{
		Window:      30 * time.Second,
		Interval:    500 * time.Millisecond,
		IdleDelay:   100 * time.Millisecond,
		JoinTimeout: 2 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Window <= 0 {
		o.Window = d.Window
	}
	if o.Interval <= 0 {
		o.Interval = d.Interval
	}
	if o.IdleDelay <= 0 {
		o.IdleDelay = d.IdleDelay
	}
	if o.JoinTimeout <= 0 {
		o.JoinTimeout = d.JoinTimeout
	}
	return o
}

// Result is the outcome of a completed capture session.
type Result struct {
	Mood    string          // aggregated final mood
	Series  []string        // dominant emotion per successful classification
	Samples []emotion.Sample // full samples, used for the segment summary
}

// Session owns the shared state for one mood capture: the newest frame, the
// most recent classification, and the accumulated label series. All guarded
// fields live behind one mutex; there are no package-level globals.
type Session struct {
	source     camera.FrameSource
	classifier Classifier
	opts       Options
	log        *logrus.Logger

	mu           sync.Mutex
	latestFrame  []byte
	latestSample *emotion.Sample
	series       []string
	samples      []emotion.Sample
}

// NewSession creates a capture session. A nil logger falls back to the
// logrus standard logger.
func NewSession(source camera.FrameSource, classifier Classifier, opts Options, log *logrus.Logger) *Session {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Session{
		source:     source,
		classifier: classifier,
		opts:       opts.withDefaults(),
		log:        log,
	}
}

// Run captures frames for the configured window (or until ctx is cancelled)
// while a background goroutine classifies the newest frame at a fixed
// interval. The frame source is released on every exit path. Returns a
// terminal error only when the device fails before producing a single
// frame; an empty series aggregates to the default mood instead.
func (s *Session) Run(ctx context.Context) (Result, error) {
	defer s.source.Close()

	stop := make(chan struct{})
	done := make(chan struct{})

	analysisCtx, cancelAnalysis := context.WithCancel(context.Background())
	defer cancelAnalysis()
	go s.analyzeLoop(analysisCtx, stop, done)

	framesRead := 0
	deadline := time.Now().Add(s.opts.Window)

capture:
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			s.log.Info("mood capture cancelled")
			break capture
		default:
		}

		frame, err := s.source.NextFrame(ctx)
		if err != nil {
			if framesRead == 0 {
				s.stopAnalysis(cancelAnalysis, stop, done)
				return Result{}, fmt.Errorf("%w: %v", camera.ErrDeviceUnavailable, err)
			}
			s.log.WithError(err).Warn("frame read failed, ending capture early")
			break
		}
		framesRead++

		s.mu.Lock()
		s.latestFrame = frame
		s.mu.Unlock()
	}

	s.stopAnalysis(cancelAnalysis, stop, done)

	s.mu.Lock()
	series := append([]string(nil), s.series...)
	samples := append([]emotion.Sample(nil), s.samples...)
	s.mu.Unlock()

	final := Aggregate(series)
	s.log.WithFields(logrus.Fields{"mood": final, "samples": len(series)}).Info("mood capture complete")

	return Result{Mood: final, Series: series, Samples: samples}, nil
}

// Snapshot returns the newest frame with the most recent classification,
// which may lag the frame by one or more capture ticks.
func (s *Session) Snapshot() ([]byte, *emotion.Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	frame := append([]byte(nil), s.latestFrame...)
	return frame, s.latestSample
}

// stopAnalysis signals the analysis goroutine and waits for it, bounded by
// JoinTimeout. A goroutine stuck in a slow classifier call is abandoned
// rather than allowed to hang the session.
func (s *Session) stopAnalysis(cancel context.CancelFunc, stop chan struct{}, done chan struct{}) {
	close(stop)
	cancel()
	select {
	case <-done:
	case <-time.After(s.opts.JoinTimeout):
		s.log.Warn("analysis loop did not stop in time, proceeding")
	}
}

// analyzeLoop repeatedly classifies the most recent frame until stopped.
// Classification failures are logged and swallowed; only successful samples
// extend the series.
func (s *Session) analyzeLoop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-stop:
			return
		default:
		}

		s.mu.Lock()
		frame := s.latestFrame
		s.mu.Unlock()

		if frame == nil {
			if !sleepUnlessStopped(stop, s.opts.IdleDelay) {
				return
			}
			continue
		}

		sample, err := s.classifier.Analyze(ctx, frame)
		switch {
		case errors.Is(err, emotion.ErrNoFace):
			s.log.Debug("no face in frame")
		case err != nil:
			s.log.WithError(err).Warn("classification failed")
		default:
			s.mu.Lock()
			s.latestSample = sample
			s.series = append(s.series, sample.DominantEmotion)
			s.samples = append(s.samples, *sample)
			s.mu.Unlock()
		}

		if !sleepUnlessStopped(stop, s.opts.Interval) {
			return
		}
	}
}

// sleepUnlessStopped sleeps for d, returning false if stop closes first.
func sleepUnlessStopped(stop <-chan struct{}, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-stop:
		return false
	case <-timer.C:
		return true
	}
}
