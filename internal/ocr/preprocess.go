package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Preprocess 灰度 → 缩放 → 锐化 → 二值化,返回PNG字节
func Preprocess(src []byte, cfg Config) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("解码图片失败: %w", err)
	}

	out := Transform(img, cfg)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("编码图片失败: %w", err)
	}
	return buf.Bytes(), nil
}

// Transform 对已解码图片执行预处理
func Transform(img image.Image, cfg Config) *image.NRGBA {
	out := imaging.Grayscale(img)

	if cfg.Scale > 0 && math.Abs(cfg.Scale-1.0) > 1e-6 {
		b := out.Bounds()
		w := max(1, int(float64(b.Dx())*cfg.Scale))
		h := max(1, int(float64(b.Dy())*cfg.Scale))
		out = imaging.Resize(out, w, h, imaging.Lanczos)
	}

	if cfg.UnsharpSigma > 0 {
		out = imaging.Sharpen(out, cfg.UnsharpSigma)
	}

	if cfg.Threshold > 0 {
		thr := uint8(min(cfg.Threshold, 255))
		out = imaging.AdjustFunc(out, func(c color.NRGBA) color.NRGBA {
			v := uint8(0)
			if c.R > thr {
				v = 255
			}
			return color.NRGBA{R: v, G: v, B: v, A: c.A}
		})
	}
	return out
}
