package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/RecoveryAshes/CafeScraper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.Crawl.BaseURL)
	assert.Equal(t, 5, cfg.Crawl.MaxPages)
	assert.False(t, cfg.Crawl.Headless)
	assert.Equal(t, 20000, cfg.Crawl.WaitMS)
	assert.Equal(t, 1.0, cfg.Crawl.RequestDelaySec)
	assert.Equal(t, models.ModeDynamic, cfg.Crawl.Mode)
	assert.NotNil(t, cfg.Crawl.Headers)

	assert.False(t, cfg.Detail.Enabled)
	assert.Equal(t, 0.5, cfg.Detail.DelaySec)
	assert.Equal(t, 1500, cfg.Detail.SelectorTimeoutMS)
	assert.Equal(t, 800, cfg.Detail.InnerSelectorTimeoutMS)

	assert.True(t, cfg.OCR.Enabled)
	assert.Equal(t, "tesseract", cfg.OCR.Command)
	assert.Equal(t, "kor+eng", cfg.OCR.Lang)

	assert.Equal(t, filepath.Join("data", "naver_state.json"), cfg.Session.StatePath)
	assert.Equal(t, 5, cfg.Session.LoginWaitSec)
	assert.Equal(t, filepath.Join("data", "output", "naver_cafe_titles.csv"), cfg.Output.CSV)
	assert.Empty(t, cfg.Output.JSON)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, uint64(512), cfg.Resource.MinAvailableMemoryMB)

	require.NoError(t, cfg.Crawl.Validate())
}

func TestLoadConfig_Env(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("NCS_BASE_URL", "https://cafe.naver.com/ArticleList.nhn?search.clubid=1")
	t.Setenv("NCS_MAX_PAGES", "9")
	t.Setenv("NCS_HEADLESS", "yes")
	t.Setenv("NCS_OCR", "0")
	t.Setenv("NCS_STATE_PATH", "/tmp/state.json")
	t.Setenv("NCS_DETAIL_DELAY_SEC", "2.5")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "https://cafe.naver.com/ArticleList.nhn?search.clubid=1", cfg.Crawl.BaseURL)
	assert.Equal(t, 9, cfg.Crawl.MaxPages)
	assert.True(t, cfg.Crawl.Headless)
	assert.False(t, cfg.OCR.Enabled)
	assert.Equal(t, "/tmp/state.json", cfg.Session.StatePath)
	assert.Equal(t, 2.5, cfg.Detail.DelaySec)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("NCS_WAIT_MS=45000\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("NCS_WAIT_MS") })

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 45000, cfg.Crawl.WaitMS)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "config.yaml")
	content := `
crawl:
  max_pages: 3
  mode: static
  headers:
    Referer: https://cafe.naver.com/
detail:
  enabled: true
output:
  json: out/rows.json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Crawl.MaxPages)
	assert.Equal(t, models.ModeStatic, cfg.Crawl.Mode)
	assert.True(t, cfg.Detail.Enabled)
	assert.Equal(t, "out/rows.json", cfg.Output.JSON)
	// viper把键转为小写
	assert.Equal(t, "https://cafe.naver.com/", cfg.Crawl.Headers["referer"])
	// 未配置的项仍取默认值
	assert.Equal(t, 20000, cfg.Crawl.WaitMS)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := LoadConfig("nope.yaml")
	require.Error(t, err)
	var ce *models.ConfigError
	assert.True(t, errors.As(err, &ce))
}

func TestMergeCLIFlags(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	pages := 2
	detail := true
	mode := "STATIC"
	output := filepath.Join("out", "a.csv")
	empty := ""
	cfg.MergeCLIFlags(CLIFlags{
		Pages:   &pages,
		Detail:  &detail,
		Mode:    &mode,
		Output:  &output,
		BaseURL: &empty,
	})

	assert.Equal(t, 2, cfg.Crawl.MaxPages)
	assert.True(t, cfg.Detail.Enabled)
	assert.Equal(t, models.ModeStatic, cfg.Crawl.Mode)
	assert.Equal(t, output, cfg.Output.CSV)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, DefaultBaseURL, cfg.Crawl.BaseURL, "空字符串不覆盖")
	assert.False(t, cfg.Crawl.Headless, "未设置的参数保持配置值")
}

// chdir 切换工作目录,测试结束后恢复
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
