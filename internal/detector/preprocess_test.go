package detector

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestPreprocessShapeAndRange(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 7))
	for y := 0; y < 7; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 20), G: uint8(y * 30), B: 128, A: 255})
		}
	}

	const size = 4
	data, err := preprocess(encodePNG(t, img), size)
	require.NoError(t, err)
	require.Len(t, data, 3*size*size)

	for i, v := range data {
		require.GreaterOrEqual(t, v, float32(0), "index %d", i)
		require.LessOrEqual(t, v, float32(1), "index %d", i)
	}
}

func TestPreprocessChannelLayout(t *testing.T) {
	// A solid red image must put all weight in the first channel plane.
	img := image.NewNRGBA(image.Rect(0, 0, 6, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			img.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}

	const size = 3
	data, err := preprocess(encodePNG(t, img), size)
	require.NoError(t, err)

	plane := size * size
	for i := 0; i < plane; i++ {
		require.InDelta(t, 1.0, data[i], 0.01)
		require.InDelta(t, 0.0, data[plane+i], 0.01)
		require.InDelta(t, 0.0, data[2*plane+i], 0.01)
	}
}

func TestPreprocessRejectsCorruptInput(t *testing.T) {
	_, err := preprocess(strings.NewReader("definitely not an image"), 4)
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode")
}
