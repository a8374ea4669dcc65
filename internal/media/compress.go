package media

import (
	"bytes"

	"github.com/disintegration/imaging"
)

const (
	// MaxBytes 压缩目标大小上限
	MaxBytes = 512 * 1024
	// MaxDimension 长边像素上限
	MaxDimension = 1920
	// InitialQuality 起始 JPEG 质量
	InitialQuality = 85
	// minQuality 质量下探下限,到达后不再继续压缩
	minQuality = 45
)

// Compress 压缩图片字节
// 长边收缩到 1920 像素以内并以 JPEG 质量 85 起步重编码,超出目标
// 大小时逐级降低质量;解码失败返回错误,调用方退回使用原始字节
func Compress(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	if img.Bounds().Dx() > MaxDimension || img.Bounds().Dy() > MaxDimension {
		img = imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)
	}

	var out []byte
	for q := InitialQuality; q >= minQuality; q -= 10 {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(q)); err != nil {
			return nil, err
		}
		out = buf.Bytes()
		if len(out) <= MaxBytes {
			break
		}
	}
	// 质量降到下限仍超标时取最后一次结果,总比原图小
	if len(out) >= len(data) {
		return data, nil
	}
	return out, nil
}
