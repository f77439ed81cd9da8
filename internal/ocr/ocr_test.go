package ocr

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			v := uint8(40)
			if x >= w/2 {
				v = 230
			}
			img.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPreprocess_Binarizes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UnsharpSigma = 0

	out, err := Preprocess(samplePNG(t, 20, 10), cfg)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())

	seen := map[uint32]bool{}
	for x := 0; x < 20; x++ {
		r, g, b, _ := img.At(x, 5).RGBA()
		assert.Equal(t, r, g)
		assert.Equal(t, r, b)
		seen[r>>8] = true
	}
	assert.Equal(t, map[uint32]bool{0: true, 255: true}, seen)
}

func TestPreprocess_Scale(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scale = 2.0

	out, err := Preprocess(samplePNG(t, 8, 6), cfg)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 12, img.Bounds().Dy())
}

func TestPreprocess_InvalidImage(t *testing.T) {
	_, err := Preprocess([]byte("not an image"), DefaultConfig())
	assert.Error(t, err)
}

func TestEngine_Unavailable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Command = "definitely-not-a-tesseract-binary"
	e := NewEngine(cfg)

	assert.False(t, e.Available())
	_, err := e.Recognize(context.Background(), samplePNG(t, 4, 4))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestEngine_Args(t *testing.T) {
	e := NewEngine(DefaultConfig())
	assert.Equal(t,
		[]string{"in.png", "stdout", "-l", "kor+eng", "--psm", "6", "--oem", "1", "--dpi", "300"},
		e.args("in.png"))
}
