package emotion

// Region is the bounding box of a detected face within a frame.
type Region struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Sample is the result of classifying a single frame: the highest-confidence
// emotion label plus the full per-emotion confidence mapping.
type Sample struct {
	DominantEmotion string             `json:"dominant_emotion"`
	Confidences     map[string]float64 `json:"emotion"`
	Region          *Region            `json:"region,omitempty"`
}

// analyzeRequest is the JSON request for the classifier's /analyze endpoint.
// The frame is sent as a base64 data URI, DeepFace-server style.
type analyzeRequest struct {
	Image   string   `json:"img"`
	Actions []string `json:"actions"`
}

// analyzeResponse is the JSON response for /analyze. The service returns one
// result per detected face; we only ever use the first.
type analyzeResponse struct {
	Results []Sample `json:"results"`
	Error   string   `json:"error,omitempty"`
}
