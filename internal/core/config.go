package core

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/RecoveryAshes/CafeScraper/internal/crawlers"
	"github.com/RecoveryAshes/CafeScraper/internal/models"
	"github.com/RecoveryAshes/CafeScraper/internal/ocr"
	"github.com/RecoveryAshes/CafeScraper/internal/utils"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultBaseURL 默认列表起始URL
const DefaultBaseURL = "https://cafe.naver.com/f-e/cafes/29434212/menus/77?page=1&size=15&viewType=L&headId=183"

// envPrefix 环境变量前缀,如 NCS_CRAWL_MAX_PAGES
const envPrefix = "NCS"

// flatEnv 兼容旧的扁平环境变量名
var flatEnv = map[string]string{
	"crawl.base_url":          "NCS_BASE_URL",
	"crawl.max_pages":         "NCS_MAX_PAGES",
	"crawl.headless":          "NCS_HEADLESS",
	"crawl.wait_ms":           "NCS_WAIT_MS",
	"crawl.request_delay_sec": "NCS_REQUEST_DELAY_SEC",
	"crawl.debug":             "NCS_DEBUG",
	"crawl.login_required":    "NCS_LOGIN_REQUIRED",
	"session.state_path":      "NCS_STATE_PATH",
	"ocr.enabled":             "NCS_OCR",
	"ocr.tesseract_cmd":       "NCS_TESSERACT_CMD",
}

// Config 应用程序配置
type Config struct {
	Crawl    models.CrawlConfig             `mapstructure:"crawl"`
	Detail   models.DetailConfig            `mapstructure:"detail"`
	OCR      ocr.Config                     `mapstructure:"ocr"`
	Session  SessionConfig                  `mapstructure:"session"`
	Output   OutputConfig                   `mapstructure:"output"`
	Logging  utils.LogConfig                `mapstructure:"logging"`
	Resource crawlers.ResourceMonitorConfig `mapstructure:"resource"`
}

// SessionConfig 登录会话配置
type SessionConfig struct {
	StatePath    string `mapstructure:"state_path"`     // Playwright格式的storage state文件
	LoginWaitSec int    `mapstructure:"login_wait_sec"` // 点击登录后等待手动登录的秒数
}

// OutputConfig 输出配置
// JSON与Parquet为空时不输出
type OutputConfig struct {
	Dir     string   `mapstructure:"dir"` // 报告写入 <dir>/reports
	CSV     string   `mapstructure:"csv"`
	JSON    string   `mapstructure:"json"`
	Parquet string   `mapstructure:"parquet"`
	Fields  []string `mapstructure:"fields"` // 显式列顺序,为空时按默认顺序
}

// LoadConfig 加载配置文件
// 优先级: 命令行 > 环境变量(.env) > 配置文件 > 默认值
func LoadConfig(configPath string) (*Config, error) {
	// .env 不覆盖已存在的环境变量,文件不存在时忽略
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		utils.Debugf("读取.env失败: %v", err)
	}

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".cafescraper"))
		}
	}

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range flatEnv {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("绑定环境变量失败 [%s]: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// 配置文件不存在时使用默认值
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, &models.ConfigError{FilePath: configPath, Cause: err}
		}
	}

	var config Config
	hook := mapstructure.ComposeDecodeHookFunc(
		boolWordHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(&config, viper.DecodeHook(hook)); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	if config.Crawl.Headers == nil {
		config.Crawl.Headers = map[string]string{}
	}

	return &config, nil
}

// boolWordHook 布尔值接受 1/true/yes/y (不区分大小写),其余字符串视为false
func boolWordHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
		return data, nil
	}
	switch strings.ToLower(strings.TrimSpace(data.(string))) {
	case "1", "true", "yes", "y":
		return true, nil
	default:
		return false, nil
	}
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// 列表采集
	v.SetDefault("crawl.base_url", DefaultBaseURL)
	v.SetDefault("crawl.max_pages", 5)
	v.SetDefault("crawl.headless", false)
	v.SetDefault("crawl.wait_ms", 20000)
	v.SetDefault("crawl.request_delay_sec", 1.0)
	v.SetDefault("crawl.debug", false)
	v.SetDefault("crawl.login_required", false)
	v.SetDefault("crawl.mode", string(models.ModeDynamic))
	v.SetDefault("crawl.headers", map[string]string{})

	// 详情页
	v.SetDefault("detail.enabled", false)
	v.SetDefault("detail.delay_sec", 0.5)
	v.SetDefault("detail.selector_timeout_ms", 1500)
	v.SetDefault("detail.inner_selector_timeout_ms", 800)
	v.SetDefault("detail.origin", utils.CafeOrigin)

	// OCR
	o := ocr.DefaultConfig()
	v.SetDefault("ocr.enabled", o.Enabled)
	v.SetDefault("ocr.tesseract_cmd", o.Command)
	v.SetDefault("ocr.lang", o.Lang)
	v.SetDefault("ocr.psm", o.PSM)
	v.SetDefault("ocr.oem", o.OEM)
	v.SetDefault("ocr.scale", o.Scale)
	v.SetDefault("ocr.threshold", o.Threshold)
	v.SetDefault("ocr.unsharp_sigma", o.UnsharpSigma)
	v.SetDefault("ocr.dpi", o.DPI)
	v.SetDefault("ocr.timeout_sec", o.TimeoutSec)

	// 会话
	v.SetDefault("session.state_path", filepath.Join("data", "naver_state.json"))
	v.SetDefault("session.login_wait_sec", 5)

	// 输出
	v.SetDefault("output.dir", filepath.Join("data", "output"))
	v.SetDefault("output.csv", filepath.Join("data", "output", "naver_cafe_titles.csv"))
	v.SetDefault("output.json", "")
	v.SetDefault("output.parquet", "")
	v.SetDefault("output.fields", []string{})

	// 日志
	l := utils.DefaultLogConfig()
	v.SetDefault("logging.level", l.Level)
	v.SetDefault("logging.dir", l.LogDir)
	v.SetDefault("logging.max_size", l.MaxSize)
	v.SetDefault("logging.max_backups", l.MaxBackups)
	v.SetDefault("logging.max_age", l.MaxAge)
	v.SetDefault("logging.compress", l.Compress)

	// 资源检查
	v.SetDefault("resource.min_available_memory_mb", 512)
	v.SetDefault("resource.cpu_load_threshold", 90.0)
}

// CLIFlags 命令行中显式给出的参数,nil表示未设置
type CLIFlags struct {
	Pages    *int
	BaseURL  *string
	Detail   *bool
	Headless *bool
	Mode     *string
	Debug    *bool
	Login    *bool
	OCR      *bool
	Output   *string
	JSON     *string
	Parquet  *string
	Fields   *[]string
}

// MergeCLIFlags 合并命令行参数到配置,命令行优先
func (c *Config) MergeCLIFlags(f CLIFlags) {
	if f.Pages != nil && *f.Pages > 0 {
		c.Crawl.MaxPages = *f.Pages
	}
	if f.BaseURL != nil && *f.BaseURL != "" {
		c.Crawl.BaseURL = *f.BaseURL
	}
	if f.Detail != nil {
		c.Detail.Enabled = *f.Detail
	}
	if f.Headless != nil {
		c.Crawl.Headless = *f.Headless
	}
	if f.Mode != nil && *f.Mode != "" {
		c.Crawl.Mode = models.CrawlMode(strings.ToLower(*f.Mode))
	}
	if f.Debug != nil {
		c.Crawl.Debug = *f.Debug
	}
	if f.Login != nil {
		c.Crawl.LoginRequired = *f.Login
	}
	if f.OCR != nil {
		c.OCR.Enabled = *f.OCR
	}
	if f.Output != nil && *f.Output != "" {
		c.Output.CSV = *f.Output
		c.Output.Dir = filepath.Dir(*f.Output)
	}
	if f.JSON != nil && *f.JSON != "" {
		c.Output.JSON = *f.JSON
	}
	if f.Parquet != nil && *f.Parquet != "" {
		c.Output.Parquet = *f.Parquet
	}
	if f.Fields != nil && len(*f.Fields) > 0 {
		c.Output.Fields = *f.Fields
	}
}
