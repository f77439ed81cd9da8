package crawlers

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/RecoveryAshes/CafeScraper/internal/dom"
	"github.com/RecoveryAshes/CafeScraper/internal/session"
	"github.com/RecoveryAshes/CafeScraper/internal/utils"
	"github.com/gocolly/colly/v2"
)

// StaticConfig 静态来源配置
type StaticConfig struct {
	Headers http.Header   // 合并校验后的请求头
	Timeout time.Duration // 单个请求超时
	Delay   time.Duration // 同域请求间隔
	Origin  string        // cookie作用的站点,为空时使用 https://cafe.naver.com
}

// StaticSource 基于colly的页面来源
// 页面不执行脚本,iframe按src再抓取一层
type StaticSource struct {
	config    StaticConfig
	collector *colly.Collector
	origin    *url.URL
}

// NewStaticSource 创建静态来源
func NewStaticSource(config StaticConfig) (*StaticSource, error) {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.Origin == "" {
		config.Origin = utils.CafeOrigin
	}
	origin, err := url.Parse(config.Origin)
	if err != nil {
		return nil, fmt.Errorf("站点地址无效 [%s]: %w", config.Origin, err)
	}

	c := colly.NewCollector(
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(config.Timeout)
	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       config.Delay,
	}); err != nil {
		utils.Warnf("设置请求间隔失败: %v", err)
	}

	utils.Debugf("静态来源: 超时=%v, 间隔=%v", config.Timeout, config.Delay)
	return &StaticSource{config: config, collector: c, origin: origin}, nil
}

// NewPage 每个页面都是独立的goquery文档,共享同一个HTTP客户端与cookie
func (ss *StaticSource) NewPage() (dom.Page, error) {
	return dom.NewLoadingDocument(ss.fetch), nil
}

// fetch 抓取单个URL并返回解压后的HTML
func (ss *StaticSource) fetch(pageURL string) (string, error) {
	c := ss.collector.Clone()

	var (
		body     []byte
		fetchErr error
	)

	c.OnRequest(func(r *colly.Request) {
		for name, values := range ss.config.Headers {
			if len(values) > 0 {
				r.Headers.Set(name, values[0])
			}
		}
		utils.Debugf("访问: %s", r.URL.String())
	})

	c.OnResponse(func(r *colly.Response) {
		body = r.Body
		if encoding := r.Headers.Get("Content-Encoding"); encoding != "" {
			decompressed, err := decompressResponse(encoding, r.Body)
			if err != nil {
				// colly已自行解压gzip时会走到这里,保留原始body
				utils.Debugf("解压响应失败 [%s] (编码=%s): %v", pageURL, encoding, err)
				return
			}
			body = decompressed
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("请求失败 [%s] (状态码%d): %w", pageURL, r.StatusCode, err)
	})

	if err := c.Visit(pageURL); err != nil && fetchErr == nil {
		fetchErr = err
	}
	c.Wait()

	if fetchErr != nil {
		return "", fetchErr
	}
	return string(body), nil
}

// Cookies 导出站点cookie
// cookie jar不保留域与过期时间,导出时按站点域名填充
func (ss *StaticSource) Cookies() ([]session.Cookie, error) {
	cookies := ss.collector.Cookies(ss.origin.String())
	out := make([]session.Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, session.Cookie{
			Name:   c.Name,
			Value:  c.Value,
			Domain: ss.origin.Hostname(),
			Path:   "/",
		})
	}
	return out, nil
}

// SetCookies 把会话cookie装入cookie jar
func (ss *StaticSource) SetCookies(cookies []session.Cookie) error {
	httpCookies := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		hc := &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HttpOnly: c.HTTPOnly,
		}
		if c.Expires > 0 {
			hc.Expires = time.Unix(int64(c.Expires), 0)
		}
		httpCookies = append(httpCookies, hc)
	}
	return ss.collector.SetCookies(ss.origin.String(), httpCookies)
}

// Close 静态来源没有需要释放的资源
func (ss *StaticSource) Close() error {
	return nil
}
