package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/RecoveryAshes/CafeScraper/internal/core"
	"github.com/RecoveryAshes/CafeScraper/internal/crawlers"
	"github.com/RecoveryAshes/CafeScraper/internal/exporter"
	"github.com/RecoveryAshes/CafeScraper/internal/models"
	"github.com/RecoveryAshes/CafeScraper/internal/ocr"
	"github.com/RecoveryAshes/CafeScraper/internal/parser"
	"github.com/RecoveryAshes/CafeScraper/internal/session"
	"github.com/RecoveryAshes/CafeScraper/internal/utils"
	"github.com/jedib0t/go-pretty/v6/table"
)

// crawlResult 一次采集的汇总
type crawlResult struct {
	Records    []models.Record
	Stats      models.CrawlStats
	Outputs    []string
	ReportPath string
}

// runCrawl 建立页面来源,采集,保存结果并生成报告
func runCrawl(ctx context.Context, cfg *core.Config, hm *core.HeaderManager) (*crawlResult, error) {
	hdrs, err := hm.GetHeaders()
	if err != nil {
		return nil, err
	}
	utils.Debugf("请求头: %v", hm.GetSafeHeaders())

	monitor := crawlers.NewResourceMonitor(cfg.Resource)
	snap := monitor.Snapshot()
	if ok, reason := monitor.CheckResourceAvailability(snap); !ok {
		utils.Warnf("⚠️  %s,浏览器可能运行缓慢", reason)
	}

	source, err := newSource(cfg, hdrs)
	if err != nil {
		return nil, err
	}

	var recognizer ocr.Recognizer
	if cfg.OCR.Enabled && cfg.Detail.Enabled && cfg.Crawl.Mode == models.ModeDynamic {
		recognizer = ocr.NewEngine(cfg.OCR)
	}

	crawler := core.NewCafeCrawler(cfg.Crawl, cfg.Detail, source, core.CrawlerOptions{
		Store:        session.NewStore(cfg.Session.StatePath),
		Extractor:    parser.NewDetailExtractor(cfg.OCR.Enabled, recognizer),
		LoginWait:    time.Duration(cfg.Session.LoginWaitSec) * time.Second,
		ShowProgress: progress,
	})

	report := models.NewCrawlReport(cfg.Crawl, cfg.Detail)
	records, crawlErr := crawler.Collect(ctx)

	result := &crawlResult{Records: records, Stats: crawler.Stats()}
	if crawlErr == nil {
		result.Outputs, err = saveOutputs(cfg.Output, records)
		if err != nil {
			return nil, err
		}
	}

	report.Finish(result.Stats)
	report.FailedDetails = crawler.FailedDetails()
	report.Outputs = append(report.Outputs, result.Outputs...)
	report.System = monitor.Snapshot()
	if path, err := utils.NewReporter(cfg.Output.Dir).GenerateReport(report); err != nil {
		utils.Warnf("生成报告失败: %v", err)
	} else {
		result.ReportPath = path
	}

	if crawlErr != nil {
		if errors.Is(crawlErr, context.Canceled) {
			utils.Warn("采集已中断,未保存结果")
		}
		return nil, crawlErr
	}
	return result, nil
}

func newSource(cfg *core.Config, hdrs http.Header) (core.PageSource, error) {
	switch cfg.Crawl.Mode {
	case models.ModeStatic:
		utils.Info("🔍 静态采集模式 (colly)")
		return crawlers.NewStaticSource(crawlers.StaticConfig{
			Headers: hdrs,
			Timeout: time.Duration(max(cfg.Crawl.WaitMS, 30000)) * time.Millisecond,
			Origin:  cfg.Detail.Origin,
		})
	default:
		utils.Infof("🌐 浏览器采集模式 (headless=%v)", cfg.Crawl.Headless)
		return crawlers.NewDynamicSource(crawlers.DynamicConfig{
			Headless: cfg.Crawl.Headless,
			Headers:  hdrs,
		})
	}
}

// saveOutputs CSV总会写入,JSON与Parquet按配置写入
func saveOutputs(out core.OutputConfig, records []models.Record) ([]string, error) {
	rows := exporter.RowsFromRecords(records)
	written := make([]string, 0, 3)

	if out.CSV != "" {
		if err := exporter.SaveCSV(rows, out.CSV, out.Fields); err != nil {
			return nil, err
		}
		written = append(written, out.CSV)
	}
	if out.JSON != "" {
		if err := exporter.SaveJSON(rows, out.JSON, out.Fields); err != nil {
			return nil, err
		}
		written = append(written, out.JSON)
	}
	if out.Parquet != "" {
		if err := exporter.SaveParquet(rows, out.Parquet, out.Fields); err != nil {
			return nil, err
		}
		written = append(written, out.Parquet)
	}
	return written, nil
}

func printStats(r *crawlResult, elapsed time.Duration) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("📊 采集统计")
	t.AppendHeader(table.Row{"指标", "数值"})
	t.AppendRows([]table.Row{
		{"列表页", r.Stats.PagesVisited},
		{"列表条目", r.Stats.ListRows},
		{"详情成功", r.Stats.DetailSuccesses},
		{"详情失败", r.Stats.DetailFailures},
		{"去重丢弃", r.Stats.DuplicatesDropped},
		{"无正文丢弃", r.Stats.EmptyDropped},
		{"输出记录", len(r.Records)},
		{"总耗时", fmt.Sprintf("%.2f秒", elapsed.Seconds())},
	})
	t.AppendSeparator()
	for _, p := range r.Outputs {
		t.AppendRow(table.Row{"输出文件", p})
	}
	if r.ReportPath != "" {
		t.AppendRow(table.Row{"报告", r.ReportPath})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
