package dom

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Loader 按URL返回HTML源码
type Loader func(pageURL string) (string, error)

// Document 基于goquery的静态文档,实现Page
// 用于静态抓取模式和解析器测试
type Document struct {
	url    string
	name   string
	doc    *goquery.Document
	frames []Frame
	loader Loader
	closed bool
}

// NewDocument 解析HTML源码
func NewDocument(pageURL, src string) (*Document, error) {
	d := &Document{}
	if err := d.parse(pageURL, src); err != nil {
		return nil, err
	}
	return d, nil
}

// NewLoadingDocument 创建空文档,Navigate时通过loader加载页面及其iframe
func NewLoadingDocument(loader Loader) *Document {
	d := &Document{loader: loader}
	_ = d.parse("about:blank", "")
	return d
}

func (d *Document) parse(pageURL, src string) error {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return fmt.Errorf("解析HTML失败 [%s]: %w", pageURL, err)
	}
	d.url = pageURL
	d.doc = goquery.NewDocumentFromNode(root)
	d.frames = nil
	return nil
}

// AttachFrame 挂载一个已知内容的frame
func (d *Document) AttachFrame(name, frameURL, src string) (Frame, error) {
	child, err := NewDocument(frameURL, src)
	if err != nil {
		return nil, err
	}
	child.name = name
	child.loader = d.loader
	fr := &documentFrame{Document: child, owner: d}
	d.frames = append(d.frames, fr)
	return fr, nil
}

// Navigate 通过loader加载页面,并加载页面中带src的iframe
// 静态文档没有渲染阶段,wait与timeout只用于日志语义
func (d *Document) Navigate(pageURL string, wait WaitPolicy, timeout time.Duration) error {
	if d.closed {
		return fmt.Errorf("页面已关闭: %w", ErrUnsupported)
	}
	if d.loader == nil {
		return fmt.Errorf("文档未配置加载器: %w", ErrUnsupported)
	}
	src, err := d.loader(pageURL)
	if err != nil {
		return fmt.Errorf("加载页面失败 [%s]: %w", pageURL, err)
	}
	if err := d.parse(pageURL, src); err != nil {
		return err
	}
	d.loadFrames()
	return nil
}

// loadFrames 加载一层iframe,单个frame失败不影响页面
func (d *Document) loadFrames() {
	base, _ := url.Parse(d.url)
	d.doc.Find("iframe[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if src == "" || strings.HasPrefix(src, "javascript:") || src == "about:blank" {
			return
		}
		frameURL := src
		if base != nil {
			if ref, err := url.Parse(src); err == nil {
				frameURL = base.ResolveReference(ref).String()
			}
		}
		name, ok := s.Attr("name")
		if !ok || name == "" {
			name, _ = s.Attr("id")
		}
		body, err := d.loader(frameURL)
		if err != nil {
			return
		}
		_, _ = d.AttachFrame(name, frameURL, body)
	})
}

// Close 关闭页面
func (d *Document) Close() error {
	d.closed = true
	return nil
}

// URL 当前URL
func (d *Document) URL() string { return d.url }

// Name frame名称,顶层页面为空
func (d *Document) Name() string { return d.name }

// Frames 已挂载的frame
func (d *Document) Frames() []Frame {
	out := make([]Frame, len(d.frames))
	copy(out, d.frames)
	return out
}

// WaitForSelector 静态文档不会变化,直接检查一次
func (d *Document) WaitForSelector(selector string, timeout time.Duration) error {
	if d.doc.Find(selector).Length() == 0 {
		return fmt.Errorf("%w: %s (%v)", ErrTimeout, selector, timeout)
	}
	return nil
}

// QueryOne 实现Querier
func (d *Document) QueryOne(selector string) (Element, error) {
	return queryOne(d.doc.Selection, selector)
}

// QueryAll 实现Querier
func (d *Document) QueryAll(selector string) ([]Element, error) {
	return queryAll(d.doc.Selection, selector), nil
}

type documentFrame struct {
	*Document
	owner *Document
}

func (f *documentFrame) Page() Page { return f.owner }

// selection 包装goquery选择结果的元素
type selection struct {
	s *goquery.Selection
}

func queryOne(s *goquery.Selection, selector string) (Element, error) {
	found := s.Find(selector).First()
	if found.Length() == 0 {
		return nil, ErrNotFound
	}
	return &selection{s: found}, nil
}

func queryAll(s *goquery.Selection, selector string) []Element {
	found := s.Find(selector)
	out := make([]Element, 0, found.Length())
	found.Each(func(_ int, item *goquery.Selection) {
		out = append(out, &selection{s: item})
	})
	return out
}

func (e *selection) QueryOne(selector string) (Element, error) {
	return queryOne(e.s, selector)
}

func (e *selection) QueryAll(selector string) ([]Element, error) {
	return queryAll(e.s, selector), nil
}

// Text 近似innerText: 折叠空白
func (e *selection) Text() (string, error) {
	return strings.Join(strings.Fields(e.s.Text()), " "), nil
}

func (e *selection) Attribute(name string) (string, error) {
	v, ok := e.s.Attr(name)
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (e *selection) InnerHTML() (string, error) {
	return e.s.Html()
}

func (e *selection) Screenshot() ([]byte, error) {
	return nil, ErrUnsupported
}

func (e *selection) Click() error {
	return ErrUnsupported
}
