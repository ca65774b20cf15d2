package recommend

import (
	"fmt"
	"strings"
)

// systemPrompt builds the system instruction for one attempt. Instructions
// get stricter on later attempts: attempt 2 forbids headings and counts,
// attempt 3 and beyond demands exactly N name-only lines.
func systemPrompt(targetCount, attempt int) string {
	var b strings.Builder
	fmt.Fprintf(&b,
		"You are a music expert. Output exactly %d distinct, well-known, popular recording artists who match the user's mood and optional language. "+
			"Artists must be primary performers (solo singers, bands, DJs). Use official spellings as on Spotify. "+
			"Output format: one artist name per line, no numbers, no bullets, no punctuation, no explanations, no extra text. "+
			"Exclude actors or non-performing composers. If a language is provided, primarily choose artists who release music in that language.",
		targetCount)

	if attempt == 2 {
		b.WriteString(" Return ONLY the names. Do not include any headings or counts.")
	}
	if attempt >= 3 {
		fmt.Fprintf(&b, " Return EXACTLY %d lines with ONLY the artist name on each line.", targetCount)
	}

	return b.String()
}

// userPrompt encodes the mood and optional language as the user message.
func userPrompt(mood, language string) string {
	parts := []string{"Mood: " + mood}
	if language != "" {
		parts = append(parts, "Language: "+language)
	}
	return strings.Join(parts, " | ")
}
