package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RecoveryAshes/CafeScraper/internal/crawlers"
	"github.com/RecoveryAshes/CafeScraper/internal/dom"
	"github.com/RecoveryAshes/CafeScraper/internal/models"
	"github.com/RecoveryAshes/CafeScraper/internal/parser"
	"github.com/RecoveryAshes/CafeScraper/internal/session"
	"github.com/RecoveryAshes/CafeScraper/internal/utils"
	"github.com/schollz/progressbar/v3"
)

// 详情页正文出现的标志
const detailReadySelector = "h3.title_text, .ArticleTitle .title_text, .CafeViewer, .se-viewer"

const (
	// minNavigationTimeout 导航超时下限
	minNavigationTimeout = 30 * time.Second
	// detailSettleDelay 顶层未出现正文时的短暂等待
	detailSettleDelay = 300 * time.Millisecond
)

// PageSource 页面来源: 浏览器(go-rod)或静态抓取(colly)
// 同一来源打开的页面共享cookie
type PageSource interface {
	NewPage() (dom.Page, error)
	session.CookieJar
	Close() error
}

// CrawlerOptions 可选依赖
type CrawlerOptions struct {
	Store        *session.Store          // 为nil时不加载也不保存会话
	Extractor    *parser.DetailExtractor // 为nil时不启用OCR
	LoginWait    time.Duration           // 点击登录后等待手动登录的时长
	ShowProgress bool                    // 详情页进度条
	Sleep        func(time.Duration)     // 测试可替换
}

// CafeCrawler 列表与详情采集协调器
type CafeCrawler struct {
	config    models.CrawlConfig
	detail    models.DetailConfig
	source    PageSource
	store     *session.Store
	extractor *parser.DetailExtractor
	resolver  crawlers.FrameResolver
	loginWait time.Duration
	progress  bool
	sleep     func(time.Duration)

	stats  models.CrawlStats
	failed []models.FailedDetail
}

// NewCafeCrawler 创建协调器,source的生命周期由协调器负责
func NewCafeCrawler(config models.CrawlConfig, detail models.DetailConfig, source PageSource, opts CrawlerOptions) *CafeCrawler {
	if opts.Extractor == nil {
		opts.Extractor = parser.NewDetailExtractor(false, nil)
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	if detail.Origin == "" {
		detail.Origin = utils.CafeOrigin
	}
	return &CafeCrawler{
		config:    config,
		detail:    detail,
		source:    source,
		store:     opts.Store,
		extractor: opts.Extractor,
		resolver: crawlers.FrameResolver{
			Wait:  time.Duration(config.WaitMS) * time.Millisecond,
			Debug: config.Debug,
		},
		loginWait: opts.LoginWait,
		progress:  opts.ShowProgress,
		sleep:     opts.Sleep,
		failed:    []models.FailedDetail{},
	}
}

// Stats 本次采集的统计
func (c *CafeCrawler) Stats() models.CrawlStats {
	return c.stats
}

// FailedDetails 失败的详情页
func (c *CafeCrawler) FailedDetails() []models.FailedDetail {
	return c.failed
}

// Collect 按页采集列表,可选合并详情,最后过滤并去重
// 无论成功与否,退出前都会保存会话并关闭来源
func (c *CafeCrawler) Collect(ctx context.Context) ([]models.Record, error) {
	startTime := time.Now()

	defer func() {
		c.saveSession()
		if err := c.source.Close(); err != nil {
			utils.Warnf("关闭页面来源失败: %v", err)
		}
	}()
	c.restoreSession()

	page, err := c.source.NewPage()
	if err != nil {
		return nil, err
	}
	defer page.Close()

	utils.Infof("🚀 开始采集: %s (共%d页, 详情=%v)", c.config.BaseURL, c.config.MaxPages, c.detail.Enabled)

	var records []models.Record
	for p := 1; p <= c.config.MaxPages; p++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := c.collectPage(ctx, page, p)
		if err != nil {
			return nil, err
		}

		pageRecords := make([]models.Record, 0, len(rows))
		for _, row := range rows {
			row.Page = p
			pageRecords = append(pageRecords, models.RecordFromRow(row))
		}
		if c.detail.Enabled && len(pageRecords) > 0 {
			pageRecords = c.enrich(ctx, p, pageRecords)
		}
		records = append(records, pageRecords...)

		c.sleep(secondsToDuration(c.config.RequestDelaySec))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := Finalize(records, c.detail.Enabled, &c.stats)
	c.stats.RecordsWritten = len(out)
	c.stats.Duration = time.Since(startTime).Seconds()

	utils.Infof("✅ 采集完成: %d条 (重复%d, 无正文%d, 详情失败%d), 耗时%.2f秒",
		len(out), c.stats.DuplicatesDropped, c.stats.EmptyDropped, c.stats.DetailFailures, c.stats.Duration)
	return out, nil
}

// collectPage 加载第p页并解析列表
func (c *CafeCrawler) collectPage(ctx context.Context, page dom.Page, p int) ([]models.ListRow, error) {
	pageURL := utils.BuildPageURL(c.config.BaseURL, p)
	utils.Infof("📄 第%d/%d页: %s", p, c.config.MaxPages, pageURL)

	if err := page.Navigate(pageURL, dom.WaitNetworkIdle, c.navigationTimeout()); err != nil {
		return nil, fmt.Errorf("加载列表页失败 [%s]: %w", pageURL, err)
	}
	c.stats.PagesVisited++

	if p == 1 && c.config.LoginRequired && c.store != nil {
		if err := session.PromptLogin(ctx, page, c.source, c.store, c.loginWait); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil, err
			}
			utils.Warnf("登录流程失败,继续以当前状态采集: %v", err)
		}
	}

	target := c.resolver.Resolve(page)
	rows := parser.ExtractList(target)
	c.stats.ListRows += len(rows)

	if c.config.Debug {
		utils.Infof("🔎 [page %d] 列表条目: %d (frame=%q %s)", p, len(rows), target.Name(), target.URL())
	}
	return rows, nil
}

// enrich 逐条抓取详情并合并,失败时保留原始行
func (c *CafeCrawler) enrich(ctx context.Context, p int, records []models.Record) []models.Record {
	var bar *progressbar.ProgressBar
	if c.progress {
		bar = utils.NewProgressBar(len(records), fmt.Sprintf("第%d页详情", p))
		defer bar.Finish()
	}

	out := make([]models.Record, 0, len(records))
	for _, rec := range records {
		// 已取消时剩余行保持原样,由Collect在页边界返回
		if rec.URL == "" || ctx.Err() != nil {
			out = append(out, rec)
			continue
		}

		c.stats.DetailAttempts++
		merged, err := c.fetchAndMerge(ctx, rec)
		if err != nil {
			c.stats.DetailFailures++
			c.failed = append(c.failed, models.FailedDetail{Page: p, URL: rec.URL, ErrorMsg: err.Error()})
			utils.Warnf("详情页失败,保留列表数据 [%s]: %v", rec.URL, err)
			out = append(out, rec)
		} else {
			c.stats.DetailSuccesses++
			out = append(out, merged)
		}

		if bar != nil {
			_ = bar.Add(1)
		}
		c.sleep(secondsToDuration(c.detail.DelaySec))
	}
	return out
}

func (c *CafeCrawler) fetchAndMerge(ctx context.Context, rec models.Record) (models.Record, error) {
	detail, err := c.fetchDetail(ctx, rec.URL)
	if err != nil {
		return rec, err
	}
	return MergeDetail(rec, detail)
}

// fetchDetail 在新标签页中打开详情页并解析,标签页总会关闭
func (c *CafeCrawler) fetchDetail(ctx context.Context, link string) (detail models.ArticleDetail, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("解析详情页时发生panic: %v", r)
		}
	}()

	detailURL, err := utils.ResolveURL(c.detail.Origin, link)
	if err != nil {
		return detail, err
	}

	tab, err := c.source.NewPage()
	if err != nil {
		return detail, err
	}
	defer tab.Close()

	if err := tab.Navigate(detailURL, dom.WaitDOMContentLoaded, c.navigationTimeout()); err != nil {
		return detail, err
	}

	if err := tab.WaitForSelector(detailReadySelector, msToDuration(c.detail.SelectorTimeoutMS)); err != nil {
		c.sleep(detailSettleDelay)
	}

	target := c.resolver.Resolve(tab)
	// frame内正文可能稍晚出现,超时不算失败
	_ = target.WaitForSelector(detailReadySelector, msToDuration(c.detail.InnerSelectorTimeoutMS))

	return c.extractor.Extract(ctx, target), nil
}

func (c *CafeCrawler) restoreSession() {
	if c.store == nil {
		return
	}
	n, err := c.store.Restore(c.source)
	switch {
	case errors.Is(err, session.ErrNoSession):
		utils.Debugf("未找到会话文件: %s", c.store.Path)
	case err != nil:
		utils.Warnf("加载会话失败,将以未登录状态继续: %v", err)
	default:
		utils.Infof("🔑 已加载会话: %d个cookie", n)
	}
}

func (c *CafeCrawler) saveSession() {
	if c.store == nil {
		return
	}
	if err := c.store.Save(c.source); err != nil {
		utils.Warnf("保存会话失败: %v", err)
		return
	}
	utils.Debugf("会话已保存: %s", c.store.Path)
}

// navigationTimeout 导航超时取 wait_ms 与30秒中的较大者
func (c *CafeCrawler) navigationTimeout() time.Duration {
	t := msToDuration(c.config.WaitMS)
	if t < minNavigationTimeout {
		return minNavigationTimeout
	}
	return t
}

func msToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func secondsToDuration(sec float64) time.Duration {
	if sec <= 0 {
		return 0
	}
	return time.Duration(sec * float64(time.Second))
}
