package crawlers

import (
	"fmt"
	"net/http"

	"github.com/RecoveryAshes/CafeScraper/internal/dom"
	"github.com/RecoveryAshes/CafeScraper/internal/session"
	"github.com/RecoveryAshes/CafeScraper/internal/utils"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DynamicConfig 浏览器来源配置
type DynamicConfig struct {
	Headless bool
	Headers  http.Header // 合并校验后的请求头
}

// DynamicSource 基于go-rod的页面来源
// 同一浏览器上下文内的标签页共享cookie
type DynamicSource struct {
	config   DynamicConfig
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// NewDynamicSource 启动浏览器
func NewDynamicSource(config DynamicConfig) (*DynamicSource, error) {
	ds := &DynamicSource{config: config}
	if err := ds.launchBrowser(); err != nil {
		return nil, err
	}
	return ds, nil
}

func (ds *DynamicSource) launchBrowser() error {
	l := launcher.New().
		Headless(ds.config.Headless).
		Set("lang", "ko-KR")
	// 优先使用本机已安装的浏览器,找不到时由launcher下载
	if path, ok := launcher.LookPath(); ok {
		l = l.Bin(path)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("启动浏览器失败: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("连接浏览器失败: %w", err)
	}

	ds.launcher = l
	ds.browser = browser
	utils.Debugf("浏览器已启动: %s (headless=%v)", controlURL, ds.config.Headless)
	return nil
}

// NewPage 打开新标签页并应用请求头
func (ds *DynamicSource) NewPage() (dom.Page, error) {
	p, err := ds.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("打开标签页失败: %w", err)
	}
	if err := ds.applyHeaders(p); err != nil {
		utils.Warnf("设置请求头失败: %v", err)
	}
	return newRodPage(p), nil
}

// applyHeaders User-Agent走专用接口,其余作为额外请求头
// Accept-Encoding由浏览器自行协商
func (ds *DynamicSource) applyHeaders(p *rod.Page) error {
	if len(ds.config.Headers) == 0 {
		return nil
	}

	dict := make([]string, 0, len(ds.config.Headers)*2)
	for name, values := range ds.config.Headers {
		if len(values) == 0 {
			continue
		}
		switch http.CanonicalHeaderKey(name) {
		case "User-Agent":
			if err := p.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: values[0]}); err != nil {
				return err
			}
		case "Accept-Encoding":
		default:
			dict = append(dict, name, values[0])
		}
	}
	if len(dict) == 0 {
		return nil
	}
	_, err := p.SetExtraHeaders(dict)
	return err
}

// Cookies 导出浏览器中的全部cookie
func (ds *DynamicSource) Cookies() ([]session.Cookie, error) {
	cookies, err := ds.browser.GetCookies()
	if err != nil {
		return nil, err
	}
	out := make([]session.Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, session.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  float64(c.Expires),
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		})
	}
	return out, nil
}

// SetCookies 写入cookie,会话cookie(expires<=0)不设置过期时间
func (ds *DynamicSource) SetCookies(cookies []session.Cookie) error {
	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		p := &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: proto.NetworkCookieSameSite(c.SameSite),
		}
		if c.Expires > 0 {
			p.Expires = proto.TimeSinceEpoch(c.Expires)
		}
		params = append(params, p)
	}
	return ds.browser.SetCookies(params)
}

// Close 关闭浏览器并清理进程
func (ds *DynamicSource) Close() error {
	if ds.browser == nil {
		return nil
	}
	err := ds.browser.Close()
	if ds.launcher != nil {
		ds.launcher.Kill()
	}
	ds.browser = nil
	utils.Debugf("浏览器已关闭")
	return err
}
