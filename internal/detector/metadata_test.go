package detector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeMetadata(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metadata.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMetadata(t *testing.T) {
	path := writeMetadata(t, `{
		"input_shape": [1, 3, 224, 224],
		"output_shape": [1, 2],
		"classes": ["real", "fake"],
		"image_size": 224
	}`)

	meta, err := loadMetadata(path)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 3, 224, 224}, meta.InputShape)
	require.Equal(t, []string{"real", "fake"}, meta.Classes)
	require.Equal(t, 224, meta.ImageSize)
}

func TestLoadMetadataInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", `{`},
		{"wrong class count", `{"classes": ["real"], "image_size": 224}`},
		{"missing image size", `{"classes": ["real", "fake"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadMetadata(writeMetadata(t, tt.content))
			require.Error(t, err)
		})
	}
}

func TestLoadMetadataMissingFile(t *testing.T) {
	_, err := loadMetadata(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestFakeClassIndex(t *testing.T) {
	idx, err := fakeClassIndex([]string{"real", "fake"})
	require.NoError(t, err)
	require.Equal(t, 1, idx)

	idx, err = fakeClassIndex([]string{"FAKE", "REAL"})
	require.NoError(t, err)
	require.Equal(t, 0, idx)

	_, err = fakeClassIndex([]string{"cat", "dog"})
	require.Error(t, err)
}
