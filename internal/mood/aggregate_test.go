package mood

import "testing"

func TestAggregate(t *testing.T) {
	tests := []struct {
		name   string
		series []string
		want   string
	}{
		{
			name:   "empty series defaults to neutral",
			series: nil,
			want:   "neutral",
		},
		{
			name:   "most frequent non-neutral wins",
			series: []string{"happy", "neutral", "happy", "sad"},
			want:   "happy",
		},
		{
			name:   "all neutral stays neutral",
			series: []string{"neutral", "neutral"},
			want:   "neutral",
		},
		{
			name:   "single non-neutral beats many neutrals",
			series: []string{"neutral", "neutral", "neutral", "angry"},
			want:   "angry",
		},
		{
			name:   "tie broken by first appearance",
			series: []string{"sad", "happy", "happy", "sad"},
			want:   "sad",
		},
		{
			name:   "single sample",
			series: []string{"surprise"},
			want:   "surprise",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Aggregate(tt.series); got != tt.want {
				t.Errorf("Aggregate(%v) = %q, want %q", tt.series, got, tt.want)
			}
		})
	}
}

func TestAggregateNeverNeutralWithSignal(t *testing.T) {
	// Any series containing at least one non-neutral label must not
	// aggregate to neutral.
	series := []string{"neutral"}
	for _, label := range []string{"happy", "sad", "angry", "fear", "disgust", "surprise"} {
		s := append(append([]string{}, series...), label)
		if got := Aggregate(s); got == "neutral" {
			t.Errorf("Aggregate(%v) = neutral, want %q", s, label)
		}
	}
}
