package crawlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RecoveryAshes/CafeScraper/internal/dom"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog/log"
)

// rodTarget 把rod页面(或frame对应的页面)适配为dom.Target
type rodTarget struct {
	page *rod.Page
	name string
}

func (t *rodTarget) QueryOne(selector string) (dom.Element, error) {
	has, el, err := t.page.Has(selector)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, fmt.Errorf("%w: %s", dom.ErrNotFound, selector)
	}
	return &rodElement{el: el}, nil
}

func (t *rodTarget) QueryAll(selector string) ([]dom.Element, error) {
	els, err := t.page.Elements(selector)
	if err != nil {
		return nil, err
	}
	return wrapElements(els), nil
}

func (t *rodTarget) WaitForSelector(selector string, timeout time.Duration) error {
	tp := t.page.Timeout(timeout)
	defer tp.CancelTimeout()
	if _, err := tp.Element(selector); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s (%v)", dom.ErrTimeout, selector, timeout)
		}
		return err
	}
	return nil
}

func (t *rodTarget) URL() string {
	res, err := t.page.Eval(`() => location.href`)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

func (t *rodTarget) Name() string {
	return t.name
}

// frames 枚举当前文档的直接子iframe
func (t *rodTarget) frames(owner *rodPage) []dom.Frame {
	els, err := t.page.Elements("iframe")
	if err != nil {
		log.Debug().Err(err).Msg("枚举iframe失败")
		return nil
	}

	frames := make([]dom.Frame, 0, len(els))
	for _, el := range els {
		fp, err := el.Frame()
		if err != nil {
			continue
		}
		name := attribute(el, "name")
		if name == "" {
			name = attribute(el, "id")
		}
		frames = append(frames, &rodFrame{rodTarget: rodTarget{page: fp, name: name}, owner: owner})
	}
	return frames
}

// rodPage 顶层标签页
type rodPage struct {
	rodTarget
}

func newRodPage(p *rod.Page) *rodPage {
	return &rodPage{rodTarget: rodTarget{page: p}}
}

func (p *rodPage) Frames() []dom.Frame {
	return p.frames(p)
}

// Navigate 导航并按策略等待;超时包含导航与等待两个阶段
func (p *rodPage) Navigate(url string, wait dom.WaitPolicy, timeout time.Duration) error {
	tp := p.page
	if timeout > 0 {
		tp = p.page.Timeout(timeout)
		defer tp.CancelTimeout()
	}

	var waitFn func()
	switch wait {
	case dom.WaitNetworkIdle:
		waitFn = tp.WaitNavigation(proto.PageLifecycleEventNameNetworkIdle)
	case dom.WaitDOMContentLoaded:
		waitFn = tp.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	}

	if err := tp.Navigate(url); err != nil {
		return fmt.Errorf("导航失败 [%s]: %w", url, err)
	}

	if waitFn != nil {
		waitFn()
		if err := tp.GetContext().Err(); err != nil {
			return fmt.Errorf("等待页面%s超时 [%s]: %w", wait, url, err)
		}
		return nil
	}

	if err := tp.WaitLoad(); err != nil {
		return fmt.Errorf("等待页面加载失败 [%s]: %w", url, err)
	}
	return nil
}

func (p *rodPage) Close() error {
	return p.page.Close()
}

// rodFrame 页面内的iframe
type rodFrame struct {
	rodTarget
	owner *rodPage
}

func (f *rodFrame) Frames() []dom.Frame {
	return f.frames(f.owner)
}

func (f *rodFrame) Page() dom.Page {
	return f.owner
}

// rodElement 元素适配
type rodElement struct {
	el *rod.Element
}

func wrapElements(els rod.Elements) []dom.Element {
	out := make([]dom.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out
}

func (e *rodElement) QueryOne(selector string) (dom.Element, error) {
	has, el, err := e.el.Has(selector)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, fmt.Errorf("%w: %s", dom.ErrNotFound, selector)
	}
	return &rodElement{el: el}, nil
}

func (e *rodElement) QueryAll(selector string) ([]dom.Element, error) {
	els, err := e.el.Elements(selector)
	if err != nil {
		return nil, err
	}
	return wrapElements(els), nil
}

func (e *rodElement) Text() (string, error) {
	return e.el.Text()
}

func (e *rodElement) Attribute(name string) (string, error) {
	v, err := e.el.Attribute(name)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", fmt.Errorf("%w: @%s", dom.ErrNotFound, name)
	}
	return *v, nil
}

func (e *rodElement) InnerHTML() (string, error) {
	v, err := e.el.Property("innerHTML")
	if err != nil {
		return "", err
	}
	return v.Str(), nil
}

func (e *rodElement) Screenshot() ([]byte, error) {
	return e.el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
}

func (e *rodElement) Click() error {
	return e.el.Click(proto.InputMouseButtonLeft, 1)
}

// attribute 读取属性,失败或不存在时返回空串
func attribute(el *rod.Element, name string) string {
	v, err := el.Attribute(name)
	if err != nil || v == nil {
		return ""
	}
	return *v
}

var (
	_ dom.Page    = (*rodPage)(nil)
	_ dom.Frame   = (*rodFrame)(nil)
	_ dom.Element = (*rodElement)(nil)
)
