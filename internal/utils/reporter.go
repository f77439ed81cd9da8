package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/RecoveryAshes/CafeScraper/internal/models"
	"github.com/schollz/progressbar/v3"
)

// Reporter 报告生成器
type Reporter struct {
	outputDir string
}

// NewReporter 创建报告生成器,报告写入 <outputDir>/reports
func NewReporter(outputDir string) *Reporter {
	return &Reporter{outputDir: outputDir}
}

// Dir 报告目录
func (r *Reporter) Dir() string {
	return filepath.Join(r.outputDir, "reports")
}

// GenerateReport 写入 crawl_report.json,有失败详情页时另写 failed_details.json
func (r *Reporter) GenerateReport(report *models.CrawlReport) (string, error) {
	reportsDir := r.Dir()
	if err := EnsureDir(reportsDir); err != nil {
		return "", err
	}

	mainPath := filepath.Join(reportsDir, "crawl_report.json")
	if err := r.saveJSONReport(mainPath, report); err != nil {
		return "", err
	}

	if len(report.FailedDetails) > 0 {
		if err := r.saveJSONReport(filepath.Join(reportsDir, "failed_details.json"), report.FailedDetails); err != nil {
			return "", err
		}
	}

	Infof("✅ 报告已生成: %s", mainPath)
	return mainPath, nil
}

func (r *Reporter) saveJSONReport(path string, data interface{}) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化JSON失败: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("写入报告文件失败: %w", err)
	}

	Debugf("保存报告: %s", path)
	return nil
}

// NewProgressBar 创建进度条
func NewProgressBar(max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
