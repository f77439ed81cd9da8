package utils

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestLogger(t *testing.T, level string) (string, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	console := &bytes.Buffer{}

	config := DefaultLogConfig()
	config.Level = level
	config.LogDir = dir
	config.Compress = false
	config.Console = console

	require.NoError(t, InitLogger(config))
	return dir, console
}

func TestInitLogger_Files(t *testing.T) {
	dir, console := initTestLogger(t, "info")

	Info("这是一条中文日志消息")
	Warnf("格式化警告日志: %d", 123)
	Debug("调试日志测试 - 级别为info时不输出")
	Error(errors.New("连接被重置"), "详情页抓取失败")

	main, err := os.ReadFile(filepath.Join(dir, MainLogFile))
	require.NoError(t, err)
	assert.Contains(t, string(main), "这是一条中文日志消息")
	assert.Contains(t, string(main), "格式化警告日志: 123")
	assert.NotContains(t, string(main), "调试日志测试")

	errLog, err := os.ReadFile(filepath.Join(dir, ErrorLogFile))
	require.NoError(t, err)
	assert.Contains(t, string(errLog), "详情页抓取失败")
	assert.NotContains(t, string(errLog), "这是一条中文日志消息")

	assert.Contains(t, console.String(), "这是一条中文日志消息")
}

func TestInitLogger_DebugLevel(t *testing.T) {
	dir, _ := initTestLogger(t, "debug")

	Debugf("格式化调试日志: %v", true)

	main, err := os.ReadFile(filepath.Join(dir, MainLogFile))
	require.NoError(t, err)
	assert.Contains(t, string(main), "格式化调试日志: true")
}

func TestInitLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	dir, _ := initTestLogger(t, "verbose")

	Debug("不应出现")
	Info("应该出现")

	main, err := os.ReadFile(filepath.Join(dir, MainLogFile))
	require.NoError(t, err)
	assert.NotContains(t, string(main), "不应出现")
	assert.Contains(t, string(main), "应该出现")
}

func TestDefaultLogConfig(t *testing.T) {
	config := DefaultLogConfig()

	assert.Equal(t, "info", config.Level)
	assert.Equal(t, "logs", config.LogDir)
	assert.Equal(t, 10, config.MaxSize)
	assert.Equal(t, 3, config.MaxBackups)
	assert.Equal(t, 28, config.MaxAge)
	assert.True(t, config.Compress)
}
