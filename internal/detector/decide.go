package detector

import (
	"math"

	"deepfake-detector/internal/core"
)

// softmax2 converts a pair of logits into probabilities summing to 1.
func softmax2(a, b float32) (float64, float64) {
	// Subtract the max for numerical stability.
	m := math.Max(float64(a), float64(b))
	ea := math.Exp(float64(a) - m)
	eb := math.Exp(float64(b) - m)
	sum := ea + eb
	return ea / sum, eb / sum
}

// verdict applies the decision rule: the image is labeled FAKE iff the
// fake probability exceeds the threshold. Confidence is the probability
// of the chosen label.
func verdict(fakeProb, threshold float64) (label string, confidence float64) {
	if fakeProb > threshold {
		return core.LabelFake, fakeProb
	}
	return core.LabelReal, 1 - fakeProb
}
