package recommend

import (
	"regexp"
	"strings"
)

// preambleMarkers flag lines that are introductory text rather than artist
// names ("Here are the artists:" and friends).
var preambleMarkers = []string{"artists:", "here are", "list:", "output", "names:"}

var (
	// listMarkerRe strips leading bullets and "1." / "2)" numbering.
	listMarkerRe = regexp.MustCompile(`^\s*(?:[-*\x{2022}]|[0-9]{1,2}[.)])\s*`)

	// quoteRe strips surrounding straight and curly quotes.
	quoteRe = regexp.MustCompile(`^["'\x{201C}\x{201D}\x{2018}\x{2019}]+|["'\x{201C}\x{201D}\x{2018}\x{2019}]+$`)

	// letterRe accepts Latin (incl. accented), Cyrillic, Kana, CJK and
	// Hangul letters; lines without any such letter are punctuation or
	// numbering noise, not names.
	letterRe = regexp.MustCompile(`[A-Za-z\x{00C0}-\x{024F}\x{0400}-\x{04FF}\x{3040}-\x{30FF}\x{4E00}-\x{9FFF}\x{AC00}-\x{D7AF}]`)
)

// ParseArtists cleans a model response into at most targetCount distinct
// artist names, preserving first-seen order. It is a pure function so the
// most bug-prone logic in the system stays independently testable.
func ParseArtists(raw string, targetCount int) []string {
	text := strings.TrimSpace(strings.ReplaceAll(raw, "\r", ""))
	if text == "" {
		return nil
	}

	lines := splitLines(stripFences(text))
	lines = resplitSingleLine(lines)

	cleaned := make([]string, 0, targetCount)
	seen := make(map[string]struct{}, targetCount)
	for _, line := range lines {
		item := listMarkerRe.ReplaceAllString(line, "")
		item = strings.TrimSpace(quoteRe.ReplaceAllString(strings.TrimSpace(item), ""))

		if hasPreambleMarker(item) {
			continue
		}
		if !letterRe.MatchString(item) {
			continue
		}

		key := strings.ToLower(item)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, item)
		if len(cleaned) >= targetCount {
			break
		}
	}

	return cleaned
}

// stripFences removes a single leading and trailing code-fence delimiter
// line, with an optional language tag on the opener.
func stripFences(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[0]), "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// resplitSingleLine handles responses that pack every name onto one line.
// When multiple candidate separators appear, a pipe separator takes
// precedence over a bullet separator, which takes precedence over a comma.
func resplitSingleLine(lines []string) []string {
	if len(lines) != 1 {
		return lines
	}
	line := lines[0]

	var sep string
	switch {
	case strings.Contains(line, " | "):
		sep = " | "
	case strings.Contains(line, " • "):
		sep = " • "
	case strings.Contains(line, ","):
		sep = ","
	default:
		return lines
	}

	var out []string
	for _, part := range strings.Split(line, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func hasPreambleMarker(item string) bool {
	lower := strings.ToLower(item)
	for _, marker := range preambleMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
