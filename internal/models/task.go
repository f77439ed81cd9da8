package models

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// CrawlMode 页面获取模式
type CrawlMode string

const (
	ModeDynamic CrawlMode = "dynamic" // 浏览器渲染(go-rod)
	ModeStatic  CrawlMode = "static"  // 静态抓取(colly),仅适用于服务端渲染的旧版皮肤
)

// CrawlStats 一次采集任务的统计
type CrawlStats struct {
	PagesVisited      int     `json:"pages_visited"`       // 已访问列表页数
	ListRows          int     `json:"list_rows"`           // 列表解析出的行数
	DetailAttempts    int     `json:"detail_attempts"`     // 详情页尝试次数
	DetailSuccesses   int     `json:"detail_successes"`    // 详情页成功合并次数
	DetailFailures    int     `json:"detail_failures"`     // 详情页失败次数(保留原始行)
	DuplicatesDropped int     `json:"duplicates_dropped"`  // 去重丢弃数
	EmptyDropped      int     `json:"empty_dropped"`       // 无正文无图片丢弃数
	RecordsWritten    int     `json:"records_written"`     // 最终输出记录数
	Duration          float64 `json:"duration"`            // 总耗时(秒)
}

// CrawlConfig 列表采集配置
type CrawlConfig struct {
	BaseURL         string            `mapstructure:"base_url" json:"base_url"`                   // 列表起始URL
	MaxPages        int               `mapstructure:"max_pages" json:"max_pages"`                 // 采集页数 (默认:5)
	Headless        bool              `mapstructure:"headless" json:"headless"`                   // 无头模式 (默认:false,便于手动登录)
	WaitMS          int               `mapstructure:"wait_ms" json:"wait_ms"`                     // 等待iframe的毫秒数 (默认:20000)
	RequestDelaySec float64           `mapstructure:"request_delay_sec" json:"request_delay_sec"` // 列表页之间的延迟(秒)
	Debug           bool              `mapstructure:"debug" json:"debug"`                         // 输出frame等调试信息
	LoginRequired   bool              `mapstructure:"login_required" json:"login_required"`       // 首页是否执行登录检查
	Mode            CrawlMode         `mapstructure:"mode" json:"mode"`                           // dynamic | static
	Headers         map[string]string `mapstructure:"headers" json:"-"`                           // 自定义请求头(可能含敏感信息,不写入报告)
}

// DetailConfig 详情页采集配置
type DetailConfig struct {
	Enabled                bool    `mapstructure:"enabled" json:"enabled"`
	DelaySec               float64 `mapstructure:"delay_sec" json:"delay_sec"`                                 // 每篇详情之间的延迟 (默认:0.5)
	SelectorTimeoutMS      int     `mapstructure:"selector_timeout_ms" json:"selector_timeout_ms"`             // 顶层页面等待正文选择器 (默认:1500)
	InnerSelectorTimeoutMS int     `mapstructure:"inner_selector_timeout_ms" json:"inner_selector_timeout_ms"` // frame内二次确认 (默认:800)
	Origin                 string  `mapstructure:"origin" json:"origin"`                                       // 相对链接的解析基准
}

// Validate 验证配置
func (c *CrawlConfig) Validate() error {
	if err := ValidateURL(c.BaseURL); err != nil {
		return fmt.Errorf("起始URL无效: %w", err)
	}
	if c.MaxPages < 1 || c.MaxPages > 1000 {
		return fmt.Errorf("页数必须在1-1000之间")
	}
	if c.WaitMS < 0 || c.WaitMS > 300000 {
		return fmt.Errorf("等待时间必须在0-300000毫秒之间")
	}
	if c.RequestDelaySec < 0 {
		return fmt.Errorf("请求延迟不能为负数")
	}
	switch c.Mode {
	case ModeDynamic, ModeStatic:
	default:
		return fmt.Errorf("无效的采集模式: %s (有效值: dynamic, static)", c.Mode)
	}
	return nil
}

// ToJSON 序列化为JSON
func (s *CrawlStats) ToJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// ValidateURL 验证URL
func ValidateURL(urlStr string) error {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("无效的URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL必须是HTTP或HTTPS协议")
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL必须包含主机名")
	}
	return nil
}
