package core

// Labels assigned by the detector.
const (
	LabelFake = "FAKE"
	LabelReal = "REAL"
)

// DetectionResult is the verdict for a single analyzed image.
type DetectionResult struct {
	Status          string  `json:"status"`
	Prediction      string  `json:"prediction"`
	Confidence      float64 `json:"confidence"`
	FakeProbability float64 `json:"fake_probability"`
	RealProbability float64 `json:"real_probability"`
}

// StatusSuccess is the status value of a completed detection.
const StatusSuccess = "success"
