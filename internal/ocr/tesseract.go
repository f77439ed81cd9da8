package ocr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Engine 基于tesseract命令行的识别器
type Engine struct {
	config Config

	once      sync.Once
	available bool
}

// NewEngine 创建识别器,可用性在首次使用时检测
func NewEngine(config Config) *Engine {
	if config.Command == "" {
		config.Command = "tesseract"
	}
	if config.TimeoutSec <= 0 {
		config.TimeoutSec = 30
	}
	return &Engine{config: config}
}

// Available 检测tesseract是否可执行(只检测一次)
func (e *Engine) Available() bool {
	e.once.Do(func() {
		e.available = e.checkAvailable()
		if e.available {
			log.Info().Str("cmd", e.config.Command).Msg("✅ tesseract已检测到,详情页图片将进行OCR")
		} else {
			log.Warn().Str("cmd", e.config.Command).Msg("⚠️  未检测到tesseract,跳过OCR")
		}
	})
	return e.available
}

func (e *Engine) checkAvailable() bool {
	if _, err := exec.LookPath(e.config.Command); err != nil {
		log.Debug().Err(err).Msg("tesseract查找失败")
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.config.Command, "--version")
	if err := cmd.Run(); err != nil {
		log.Debug().Err(err).Msg("tesseract检测失败")
		return false
	}
	return true
}

// Recognize 预处理图片后调用tesseract识别
func (e *Engine) Recognize(ctx context.Context, png []byte) (string, error) {
	if !e.Available() {
		return "", ErrUnavailable
	}
	if len(png) == 0 {
		return "", nil
	}

	prepared, err := Preprocess(png, e.config)
	if err != nil {
		return "", err
	}

	tmpDir, err := os.MkdirTemp("", "cafe-ocr-*")
	if err != nil {
		return "", fmt.Errorf("创建临时目录失败: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	inputFile := filepath.Join(tmpDir, "image.png")
	if err := os.WriteFile(inputFile, prepared, 0644); err != nil {
		return "", fmt.Errorf("写入临时文件失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(e.config.TimeoutSec)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.config.Command, e.args(inputFile)...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("tesseract执行失败: %w, stderr: %s", err, stderr.String())
	}
	return strings.TrimSpace(string(output)), nil
}

// args 输出到stdout
func (e *Engine) args(inputFile string) []string {
	args := []string{inputFile, "stdout"}
	if e.config.Lang != "" {
		args = append(args, "-l", e.config.Lang)
	}
	args = append(args,
		"--psm", strconv.Itoa(e.config.PSM),
		"--oem", strconv.Itoa(e.config.OEM),
	)
	if e.config.DPI > 0 {
		args = append(args, "--dpi", strconv.Itoa(e.config.DPI))
	}
	return args
}
