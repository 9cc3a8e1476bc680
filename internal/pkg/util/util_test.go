package util

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinyJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestDeriveCoinSymbol(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Test", "T"},
		{"my first drop", "MFD"},
		{"  sunset over-the bay 2024 ", "SOTB2"},
		{"a b c d e f g h", "ABCDEF"},
		{"!!! ???", "COIN"},
		{"", "COIN"},
		{"日落 Sunset", "S"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveCoinSymbol(tt.title))
		})
	}
}

func TestDeriveCoinName(t *testing.T) {
	assert.Equal(t, "Test", DeriveCoinName("  Test  "))
	assert.Equal(t, FallbackCoinName, DeriveCoinName("   "))

	long := bytes.Repeat([]byte("x"), 100)
	assert.Len(t, []rune(DeriveCoinName(string(long))), MaxCoinNameRunes)
}

func TestNormalizeCoinSymbol(t *testing.T) {
	assert.Equal(t, "ZORA", NormalizeCoinSymbol(" $zora "))
	assert.Equal(t, "", NormalizeCoinSymbol("$$$"))
}

func TestParseTags(t *testing.T) {
	tags, err := ParseTags(`["art", "#art", " music ", ""]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"art", "music"}, tags)

	tags, err = ParseTags("a,b , a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tags)

	tags, err = ParseTags("")
	require.NoError(t, err)
	assert.Empty(t, tags)

	_, err = ParseTags(`["broken"`)
	assert.Error(t, err)
}

func TestCheckMediaFile(t *testing.T) {
	data := tinyJPEG(t)

	mime, err := CheckMediaFile("photo.jpg", data, "image")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)

	_, err = CheckMediaFile("photo.jpg", data, "video")
	assert.ErrorIs(t, err, ErrFileTypeMismatch)

	_, err = CheckMediaFile("empty.jpg", nil, "image")
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = CheckMediaFile("notes.txt", []byte("hello world"), "image")
	assert.ErrorIs(t, err, ErrUnknownMediaClass)
}

func TestDetectMimeTypeFallsBackToExtension(t *testing.T) {
	assert.Equal(t, "audio/flac", DetectMimeType("track.flac", []byte{0x00, 0x01, 0x02}))
}

func TestImageSize(t *testing.T) {
	w, h, ok := ImageSize(tinyJPEG(t))
	require.True(t, ok)
	assert.Equal(t, 4, w)
	assert.Equal(t, 3, h)

	_, _, ok = ImageSize([]byte("not an image"))
	assert.False(t, ok)
}
