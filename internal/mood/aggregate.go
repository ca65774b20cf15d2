package mood

// DefaultMood is substituted when a capture session produces no usable
// emotion samples.
const DefaultMood = "neutral"

// Aggregate collapses a series of dominant-emotion labels into one mood.
//
// Neutral entries are filtered out first so that the classifier's neutral
// bias cannot mask a real emotional signal; "neutral" wins only when every
// sample in the series is neutral. Ties between equally frequent labels go
// to the label seen first.
func Aggregate(series []string) string {
	if len(series) == 0 {
		return DefaultMood
	}

	emotional := make([]string, 0, len(series))
	for _, label := range series {
		if label != DefaultMood {
			emotional = append(emotional, label)
		}
	}

	if len(emotional) > 0 {
		return mostFrequent(emotional)
	}
	return mostFrequent(series)
}

// mostFrequent returns the most common label, breaking ties by first
// appearance. labels must be non-empty.
func mostFrequent(labels []string) string {
	counts := make(map[string]int, len(labels))
	order := make([]string, 0, len(labels))
	for _, label := range labels {
		if counts[label] == 0 {
			order = append(order, label)
		}
		counts[label]++
	}

	best := order[0]
	for _, label := range order[1:] {
		if counts[label] > counts[best] {
			best = label
		}
	}
	return best
}
