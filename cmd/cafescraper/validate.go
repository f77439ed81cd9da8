package main

import (
	"fmt"
	"strings"

	"github.com/RecoveryAshes/CafeScraper/internal/core"
)

// ValidateConfig 验证合并命令行参数后的配置
func ValidateConfig(cfg *core.Config) error {
	if err := cfg.Crawl.Validate(); err != nil {
		return err
	}

	// 验证详情页参数
	if cfg.Detail.DelaySec < 0 {
		return fmt.Errorf("详情页延迟不能为负数,当前值: %.2f", cfg.Detail.DelaySec)
	}
	if cfg.Detail.SelectorTimeoutMS < 0 || cfg.Detail.InnerSelectorTimeoutMS < 0 {
		return fmt.Errorf("选择器等待时间不能为负数")
	}

	// 验证输出
	if strings.TrimSpace(cfg.Output.CSV) == "" {
		return fmt.Errorf("CSV输出路径不能为空")
	}

	if cfg.Crawl.LoginRequired && strings.TrimSpace(cfg.Session.StatePath) == "" {
		return fmt.Errorf("启用登录检查时必须配置会话文件路径 (session.state_path)")
	}
	if cfg.Session.LoginWaitSec < 0 {
		return fmt.Errorf("登录等待时间不能为负数,当前值: %d", cfg.Session.LoginWaitSec)
	}
	return nil
}
