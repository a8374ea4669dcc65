package media

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 120, G: 60, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(95)))
	return buf.Bytes()
}

// TestCompress_ShrinksLargeImage 测试大图长边收缩到上限以内
func TestCompress_ShrinksLargeImage(t *testing.T) {
	original := encodeJPEG(t, 2560, 1440)

	out, err := Compress(original)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.LessOrEqual(t, img.Bounds().Dx(), MaxDimension)
	assert.LessOrEqual(t, img.Bounds().Dy(), MaxDimension)
}

// TestCompress_SmallImageKeepsDimensions 测试小图不放大
func TestCompress_SmallImageKeepsDimensions(t *testing.T) {
	original := encodeJPEG(t, 800, 600)

	out, err := Compress(original)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())
}

// TestCompress_NeverLargerThanOriginal 测试输出不大于输入
func TestCompress_NeverLargerThanOriginal(t *testing.T) {
	original := encodeJPEG(t, 640, 480)

	out, err := Compress(original)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(out), len(original))
}

// TestCompress_InvalidBytes 测试非图片字节返回错误,由调用方退回原始字节
func TestCompress_InvalidBytes(t *testing.T) {
	_, err := Compress([]byte("definitely not an image"))
	assert.Error(t, err)
}
