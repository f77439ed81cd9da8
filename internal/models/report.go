package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CrawlReport 采集报告
type CrawlReport struct {
	// 任务信息
	RunID   string    `json:"run_id"`
	BaseURL string    `json:"base_url"`
	Mode    CrawlMode `json:"mode"`

	// 时间信息
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Duration  float64   `json:"duration"` // 秒

	// 统计信息
	Stats CrawlStats `json:"stats"`

	// 失败的详情页
	FailedDetails []FailedDetail `json:"failed_details"`

	// 输出文件
	Outputs []string `json:"outputs"`

	// 运行环境
	System SystemSnapshot `json:"system"`

	// 配置快照
	Config CrawlConfig  `json:"config"`
	Detail DetailConfig `json:"detail"`
}

// FailedDetail 详情页失败信息
type FailedDetail struct {
	Page     int    `json:"page"`
	URL      string `json:"url"`
	ErrorMsg string `json:"error_msg"`
}

// SystemSnapshot 系统资源快照
type SystemSnapshot struct {
	TotalMemoryMB     uint64  `json:"total_memory_mb"`
	AvailableMemoryMB uint64  `json:"available_memory_mb"`
	CPUPercent        float64 `json:"cpu_percent"`
	HeapAllocMB       uint64  `json:"heap_alloc_mb"`
	Goroutines        int     `json:"goroutines"`
}

// NewCrawlReport 创建带唯一ID的报告
func NewCrawlReport(config CrawlConfig, detail DetailConfig) *CrawlReport {
	return &CrawlReport{
		RunID:         uuid.New().String(),
		BaseURL:       config.BaseURL,
		Mode:          config.Mode,
		StartTime:     time.Now(),
		FailedDetails: []FailedDetail{},
		Outputs:       []string{},
		Config:        config,
		Detail:        detail,
	}
}

// Finish 记录结束时间
func (r *CrawlReport) Finish(stats CrawlStats) {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime).Seconds()
	r.Stats = stats
}

// ToJSON 序列化为JSON
func (r *CrawlReport) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FromJSON 从JSON反序列化
func (r *CrawlReport) FromJSON(data []byte) error {
	return json.Unmarshal(data, r)
}
