package mood

import (
	"sort"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// emotionKeys is the stable feature order for segment clustering. These are
// the seven labels the classifier scores on every frame.
var emotionKeys = []string{"angry", "disgust", "fear", "happy", "sad", "surprise", "neutral"}

// SegmentConfig holds segment-summary clustering parameters.
type SegmentConfig struct {
	NumClusters    int // number of segments to look for (default: 3)
	MinClusterSize int // smaller clusters are folded into the share of none
}

// DefaultSegmentConfig returns the recommended defaults.
func DefaultSegmentConfig() SegmentConfig {
	return SegmentConfig{
		NumClusters:    3,
		MinClusterSize: 2,
	}
}

// Segment is one cluster of similar emotion samples within a capture
// session, described by its dominant label and its share of the session.
// Segments are a summary for the response payload only; they never feed back
// into the final mood.
type Segment struct {
	Label    string             `json:"label"`
	Share    float64            `json:"share"`
	Centroid map[string]float64 `json:"centroid"`
}

// sampleObservation adapts a confidence vector to clusters.Observation.
type sampleObservation struct {
	coords clusters.Coordinates
}

func (o sampleObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o sampleObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// Segments groups a session's samples by confidence-vector similarity using
// k-means. Returns nil when there are too few samples to cluster; callers
// treat that as "no segment summary".
func Segments(result Result, cfg SegmentConfig) []Segment {
	if cfg.NumClusters <= 0 {
		cfg.NumClusters = DefaultSegmentConfig().NumClusters
	}
	if len(result.Samples) < cfg.NumClusters {
		return nil
	}

	var obs clusters.Observations
	for _, s := range result.Samples {
		coords := make(clusters.Coordinates, len(emotionKeys))
		for i, key := range emotionKeys {
			coords[i] = s.Confidences[key]
		}
		obs = append(obs, sampleObservation{coords: coords})
	}

	km := kmeans.New()
	partition, err := km.Partition(obs, cfg.NumClusters)
	if err != nil {
		return nil
	}

	total := float64(len(result.Samples))
	var segments []Segment
	for _, cluster := range partition {
		if len(cluster.Observations) < cfg.MinClusterSize {
			continue
		}

		centroid := make(map[string]float64, len(emotionKeys))
		for i, key := range emotionKeys {
			centroid[key] = cluster.Center[i]
		}

		segments = append(segments, Segment{
			Label:    dominantKey(centroid),
			Share:    float64(len(cluster.Observations)) / total,
			Centroid: centroid,
		})
	}

	// Largest segment first
	sort.Slice(segments, func(i, j int) bool {
		return segments[i].Share > segments[j].Share
	})

	return segments
}

// dominantKey returns the emotion with the highest centroid confidence,
// scanning in the stable key order so ties are deterministic.
func dominantKey(centroid map[string]float64) string {
	best := emotionKeys[0]
	for _, key := range emotionKeys[1:] {
		if centroid[key] > centroid[best] {
			best = key
		}
	}
	return best
}
