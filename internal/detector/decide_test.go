package detector

import (
	"testing"

	"github.com/stretchr/testify/require"

	"deepfake-detector/internal/core"
)

func TestSoftmax2SumsToOne(t *testing.T) {
	tests := []struct {
		name string
		a, b float32
	}{
		{"balanced", 0, 0},
		{"fake heavy", 4.2, -1.3},
		{"real heavy", -3.7, 2.9},
		{"large logits", 900, 850},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pa, pb := softmax2(tt.a, tt.b)
			require.InDelta(t, 1.0, pa+pb, 1e-9)
			require.GreaterOrEqual(t, pa, 0.0)
			require.GreaterOrEqual(t, pb, 0.0)
			if tt.a > tt.b {
				require.Greater(t, pa, pb)
			}
		})
	}
}

func TestVerdictDecisionRule(t *testing.T) {
	tests := []struct {
		name           string
		fakeProb       float64
		threshold      float64
		wantLabel      string
		wantConfidence float64
	}{
		{"above threshold", 0.9, 0.5, core.LabelFake, 0.9},
		{"below threshold", 0.3, 0.5, core.LabelReal, 0.7},
		{"at threshold is real", 0.5, 0.5, core.LabelReal, 0.5},
		{"tiny threshold flags almost everything", 0.001, 0.0001, core.LabelFake, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, confidence := verdict(tt.fakeProb, tt.threshold)
			require.Equal(t, tt.wantLabel, label)
			require.InDelta(t, tt.wantConfidence, confidence, 1e-9)
		})
	}
}
