// Package ocr 对正文图片做文字识别
//
// 识别通过外部 tesseract 命令完成,图片先经过灰度、缩放、锐化和二值化预处理。
package ocr

import (
	"context"
	"errors"
)

// ErrUnavailable tesseract未安装或不可执行
var ErrUnavailable = errors.New("tesseract不可用")

// Recognizer 图片文字识别
type Recognizer interface {
	// Available 识别器是否可用;不可用时调用方应跳过OCR
	Available() bool
	// Recognize 识别PNG图片中的文字,可能返回空字符串
	Recognize(ctx context.Context, png []byte) (string, error)
}

// Config OCR配置
type Config struct {
	Enabled      bool    `mapstructure:"enabled" json:"enabled"`
	Command      string  `mapstructure:"tesseract_cmd" json:"tesseract_cmd"`
	Lang         string  `mapstructure:"lang" json:"lang"`
	PSM          int     `mapstructure:"psm" json:"psm"`                     // page segmentation mode
	OEM          int     `mapstructure:"oem" json:"oem"`                     // engine mode
	Scale        float64 `mapstructure:"scale" json:"scale"`                 // 1.0 即原尺寸
	Threshold    int     `mapstructure:"threshold" json:"threshold"`         // 二值化阈值 0~255,0表示不二值化
	UnsharpSigma float64 `mapstructure:"unsharp_sigma" json:"unsharp_sigma"` // 锐化半径,0表示不锐化
	DPI          int     `mapstructure:"dpi" json:"dpi"`
	TimeoutSec   int     `mapstructure:"timeout_sec" json:"timeout_sec"` // 单张图片识别超时
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		Enabled:      true,
		Command:      "tesseract",
		Lang:         "kor+eng",
		PSM:          6,
		OEM:          1,
		Scale:        1.0,
		Threshold:    160,
		UnsharpSigma: 1.5,
		DPI:          300,
		TimeoutSec:   30,
	}
}
