package recommend

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

// fakeCompleter records prompts and plays back scripted responses.
type fakeCompleter struct {
	responses []string
	err       error
	calls     int
	systems   []string
	users     []string
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string) (string, error) {
	f.calls++
	f.systems = append(f.systems, system)
	f.users = append(f.users, user)
	if f.err != nil {
		return "", f.err
	}
	idx := f.calls - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return f.responses[idx], nil
}

func testConfig() *Config {
	return &Config{
		APIKey:         "test-key",
		Model:          DefaultModel,
		Temperature:    DefaultTemperature,
		MaxTokens:      DefaultMaxTokens,
		Retries:        3,
		BackoffInitial: 600 * time.Millisecond,
		BackoffMax:     6 * time.Second,
	}
}

func newTestService(cfg *Config, completer Completer) (*Service, *[]time.Duration) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	svc := NewService(cfg, completer, log)
	var slept []time.Duration
	svc.sleep = func(_ context.Context, d time.Duration) {
		slept = append(slept, d)
	}
	return svc, &slept
}

func TestRecommendBlankMoodSkipsBackend(t *testing.T) {
	completer := &fakeCompleter{responses: []string{"Adele"}}
	svc, _ := newTestService(testConfig(), completer)

	for _, mood := range []string{"", "   ", "\t\n"} {
		got := svc.Recommend(context.Background(), mood, "", 3)
		if len(got) != 0 {
			t.Errorf("Recommend(%q) = %v, want empty", mood, got)
		}
	}
	if completer.calls != 0 {
		t.Errorf("backend called %d times for blank mood, want 0", completer.calls)
	}
}

func TestRecommendSuccessFirstAttempt(t *testing.T) {
	completer := &fakeCompleter{responses: []string{"Adele\nDrake\nSia"}}
	svc, slept := newTestService(testConfig(), completer)

	got := svc.Recommend(context.Background(), "happy", "", 3)
	if !reflect.DeepEqual(got, []string{"Adele", "Drake", "Sia"}) {
		t.Fatalf("Recommend = %v", got)
	}
	if completer.calls != 1 {
		t.Errorf("calls = %d, want 1", completer.calls)
	}
	if len(*slept) != 0 {
		t.Errorf("unexpected backoff sleeps: %v", *slept)
	}
}

func TestRecommendAlwaysFailingBackend(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("api down")}
	cfg := testConfig()
	cfg.Retries = 4
	cfg.BackoffMax = 2 * time.Second
	svc, slept := newTestService(cfg, completer)

	got := svc.Recommend(context.Background(), "sad", "", 5)
	if len(got) != 0 {
		t.Fatalf("Recommend = %v, want empty", got)
	}
	if completer.calls != 4 {
		t.Errorf("calls = %d, want exactly retries (4)", completer.calls)
	}

	// Exponential from 600ms, doubling, capped at 2s; no sleep after the
	// final attempt.
	want := []time.Duration{600 * time.Millisecond, 1200 * time.Millisecond, 2 * time.Second}
	if !reflect.DeepEqual(*slept, want) {
		t.Errorf("backoff schedule = %v, want %v", *slept, want)
	}
}

func TestRecommendEscalatesInstructions(t *testing.T) {
	// Wrong length every time forces all attempts.
	completer := &fakeCompleter{responses: []string{"Adele"}}
	svc, _ := newTestService(testConfig(), completer)

	svc.Recommend(context.Background(), "happy", "french", 5)

	if len(completer.systems) != 3 {
		t.Fatalf("attempts = %d, want 3", len(completer.systems))
	}
	if strings.Contains(completer.systems[0], "headings") {
		t.Error("attempt 1 should use the base instructions")
	}
	if !strings.Contains(completer.systems[1], "Do not include any headings or counts") {
		t.Error("attempt 2 should forbid headings and counts")
	}
	if !strings.Contains(completer.systems[2], "EXACTLY 5 lines") {
		t.Error("attempt 3 should demand exactly N lines")
	}
}

func TestRecommendExactLengthShortCircuits(t *testing.T) {
	completer := &fakeCompleter{responses: []string{
		"Adele",                            // too short, retry
		"Adele\nDrake\nSia\nBurna Boy\nIU", // exact
	}}
	svc, slept := newTestService(testConfig(), completer)

	got := svc.Recommend(context.Background(), "happy", "", 5)
	if len(got) != 5 {
		t.Fatalf("Recommend = %v, want 5 names", got)
	}
	if completer.calls != 2 {
		t.Errorf("calls = %d, want 2", completer.calls)
	}
	if len(*slept) != 1 {
		t.Errorf("sleeps = %v, want one backoff between attempts", *slept)
	}
}

func TestRecommendReturnsPartialOnExhaustion(t *testing.T) {
	completer := &fakeCompleter{responses: []string{"Adele\nDrake"}}
	svc, _ := newTestService(testConfig(), completer)

	got := svc.Recommend(context.Background(), "happy", "", 5)
	if !reflect.DeepEqual(got, []string{"Adele", "Drake"}) {
		t.Fatalf("Recommend = %v, want the partial final list", got)
	}
	if completer.calls != 3 {
		t.Errorf("calls = %d, want all 3 attempts", completer.calls)
	}
}

func TestRecommendLanguageNormalization(t *testing.T) {
	completer := &fakeCompleter{responses: []string{"Adele\nDrake"}}
	svc, _ := newTestService(testConfig(), completer)

	svc.Recommend(context.Background(), "happy", "   ", 2)
	if completer.calls == 0 {
		t.Fatal("expected a backend call")
	}
	// Blank language must be treated as absent, not sent as "Language:".
	if strings.Contains(completer.users[0], "Language:") {
		t.Errorf("blank language leaked into prompt: %q", completer.users[0])
	}

	completer2 := &fakeCompleter{responses: []string{"Adele\nDrake"}}
	svc2, _ := newTestService(testConfig(), completer2)
	svc2.Recommend(context.Background(), "happy", "french", 2)
	if completer2.users[0] != "Mood: happy | Language: french" {
		t.Errorf("user prompt = %q", completer2.users[0])
	}
}
