package recommend

import (
	"reflect"
	"testing"
)

func TestParseArtists(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		target int
		want   []string
	}{
		{
			name:   "plain lines",
			raw:    "Adele\nDrake\nBurna Boy",
			target: 3,
			want:   []string{"Adele", "Drake", "Burna Boy"},
		},
		{
			name:   "numbered list with duplicate",
			raw:    "1. Adele\n2. Drake\n3. Adele",
			target: 3,
			want:   []string{"Adele", "Drake"},
		},
		{
			name:   "dedup is case-insensitive",
			raw:    "Adele\nADELE\nadele\nDrake",
			target: 3,
			want:   []string{"Adele", "Drake"},
		},
		{
			name:   "preamble line discarded",
			raw:    "Here are the artists:\nAdele\nDrake",
			target: 2,
			want:   []string{"Adele", "Drake"},
		},
		{
			name:   "code fence stripped",
			raw:    "```text\nAdele\nDrake\n```",
			target: 2,
			want:   []string{"Adele", "Drake"},
		},
		{
			name:   "bulleted list",
			raw:    "- Adele\n* Drake\n• Rosalía",
			target: 3,
			want:   []string{"Adele", "Drake", "Rosalía"},
		},
		{
			name:   "quoted names",
			raw:    "\"Adele\"\n“Drake”\n'Sia'",
			target: 3,
			want:   []string{"Adele", "Drake", "Sia"},
		},
		{
			name:   "single line comma separated",
			raw:    "Adele, Drake, Sia",
			target: 3,
			want:   []string{"Adele", "Drake", "Sia"},
		},
		{
			name:   "single line pipe beats comma",
			raw:    "Earth, Wind & Fire | Kool & The Gang",
			target: 2,
			want:   []string{"Earth, Wind & Fire", "Kool & The Gang"},
		},
		{
			name:   "single line bullet beats comma",
			raw:    "Adele • Tyler, The Creator",
			target: 2,
			want:   []string{"Adele", "Tyler, The Creator"},
		},
		{
			name:   "punctuation only lines dropped",
			raw:    "Adele\n---\n1234\nDrake",
			target: 2,
			want:   []string{"Adele", "Drake"},
		},
		{
			name:   "non latin scripts accepted",
			raw:    "宇多田ヒカル\nBTS\nАлла Пугачёва",
			target: 3,
			want:   []string{"宇多田ヒカル", "BTS", "Алла Пугачёва"},
		},
		{
			name:   "truncates to target",
			raw:    "Adele\nDrake\nSia\nBeyoncé",
			target: 2,
			want:   []string{"Adele", "Drake"},
		},
		{
			name:   "empty input",
			raw:    "   \n  ",
			target: 5,
			want:   nil,
		},
		{
			name:   "windows line endings",
			raw:    "Adele\r\nDrake\r\n",
			target: 2,
			want:   []string{"Adele", "Drake"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseArtists(tt.raw, tt.target)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseArtists(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
