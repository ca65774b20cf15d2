package recommend

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Service turns a mood and optional language into a list of artist names,
// retrying the generation backend with escalating strictness when it
// produces malformed or wrong-length output.
type Service struct {
	cfg       *Config
	completer Completer
	log       *logrus.Logger

	// sleep is replaceable in tests so backoff timing can be asserted
	// without waiting for it.
	sleep func(ctx context.Context, d time.Duration)
}

// NewService creates a recommendation service. A nil logger falls back to
// the logrus standard logger.
func NewService(cfg *Config, completer Completer, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		cfg:       cfg,
		completer: completer,
		log:       log,
		sleep:     sleepContext,
	}
}

// Recommend returns up to count distinct artist names for the mood. A blank
// mood returns an empty list without touching the backend. All failures
// degrade to an empty list; an exact-length parse is the only outcome that
// short-circuits the retry loop, and a short final attempt returns its
// partial list.
func (s *Service) Recommend(ctx context.Context, mood, language string, count int) []string {
	mood = strings.TrimSpace(mood)
	if mood == "" {
		return []string{}
	}
	language = strings.TrimSpace(language)
	if count <= 0 {
		count = DefaultCount
	}

	attempts := s.cfg.Retries
	if attempts < 1 {
		attempts = 1
	}

	user := userPrompt(mood, language)

	var artists []string
	for attempt := 1; attempt <= attempts; attempt++ {
		s.log.WithFields(logrus.Fields{"attempt": attempt, "of": attempts, "mood": mood}).
			Info("requesting artists")

		raw, err := s.completer.Complete(ctx, systemPrompt(count, attempt), user)
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{"attempt": attempt, "of": attempts}).
				Warn("artist request failed")
			if attempt == attempts {
				return []string{}
			}
			s.sleep(ctx, s.backoff(attempt))
			continue
		}

		artists = ParseArtists(raw, count)
		if len(artists) == count {
			return artists
		}

		s.log.WithFields(logrus.Fields{"attempt": attempt, "got": len(artists), "want": count}).
			Warn("artist list has wrong length")
		if attempt < attempts {
			s.sleep(ctx, s.backoff(attempt))
		}
	}

	// Out of attempts: whatever was accumulated is better than nothing.
	return artists
}

// backoff computes the delay after a failed attempt: exponential from
// BackoffInitial, capped at BackoffMax.
func (s *Service) backoff(attempt int) time.Duration {
	d := s.cfg.BackoffInitial << (attempt - 1)
	if d > s.cfg.BackoffMax {
		d = s.cfg.BackoffMax
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
