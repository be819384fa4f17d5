package detector

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Metadata describes the model artifact: tensor shapes, output classes
// and the square input image size. It is stored as a JSON sidecar next to
// the ONNX file.
type Metadata struct {
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	Classes     []string `json:"classes"`
	ImageSize   int      `json:"image_size"`
}

func loadMetadata(path string) (Metadata, error) {
	var meta Metadata

	raw, err := os.ReadFile(path)
	if err != nil {
		return meta, fmt.Errorf("failed to read metadata: %w", err)
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return meta, fmt.Errorf("failed to parse metadata: %w", err)
	}
	if len(meta.Classes) != 2 {
		return meta, fmt.Errorf("expected 2 classes, got %d", len(meta.Classes))
	}
	if meta.ImageSize <= 0 {
		return meta, fmt.Errorf("invalid image_size: %d", meta.ImageSize)
	}
	return meta, nil
}

// fakeClassIndex finds the index of the fake class in the metadata class
// list.
func fakeClassIndex(classes []string) (int, error) {
	for i, c := range classes {
		if strings.EqualFold(c, "fake") {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no fake class among %v", classes)
}
