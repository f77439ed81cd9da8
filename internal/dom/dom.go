// Package dom 定义页面、frame与元素的能力接口
//
// 解析器只依赖这里的接口: 浏览器(go-rod)和静态文档(goquery)各自实现,
// 页面与frame可以互换地作为解析目标。
package dom

import (
	"errors"
	"time"
)

var (
	// ErrNotFound 元素或属性不存在
	ErrNotFound = errors.New("元素不存在")
	// ErrTimeout 等待选择器超时
	ErrTimeout = errors.New("等待超时")
	// ErrUnsupported 当前实现不支持该操作(如静态文档截图)
	ErrUnsupported = errors.New("不支持的操作")
)

// WaitPolicy 导航完成的判定方式
type WaitPolicy int

const (
	WaitLoad WaitPolicy = iota
	WaitDOMContentLoaded
	WaitNetworkIdle
)

// String 返回策略名称
func (w WaitPolicy) String() string {
	switch w {
	case WaitDOMContentLoaded:
		return "domcontentloaded"
	case WaitNetworkIdle:
		return "networkidle"
	default:
		return "load"
	}
}

// Querier 可执行CSS查询的对象
type Querier interface {
	// QueryOne 返回文档顺序中第一个匹配元素,无匹配时返回ErrNotFound
	QueryOne(selector string) (Element, error)
	// QueryAll 按文档顺序返回所有匹配元素,无匹配时返回空切片
	QueryAll(selector string) ([]Element, error)
}

// Element 页面元素
type Element interface {
	Querier
	Text() (string, error)
	// Attribute 属性不存在时返回ErrNotFound
	Attribute(name string) (string, error)
	InnerHTML() (string, error)
	Screenshot() ([]byte, error)
	Click() error
}

// Target 解析目标: 页面或frame
type Target interface {
	Querier
	// WaitForSelector 超时返回包装了ErrTimeout的错误
	WaitForSelector(selector string, timeout time.Duration) error
	Frames() []Frame
	URL() string
	Name() string
}

// Frame 页面内嵌的frame
type Frame interface {
	Target
	Page() Page
}

// Page 顶层页面(标签页)
type Page interface {
	Target
	Navigate(url string, wait WaitPolicy, timeout time.Duration) error
	Close() error
}
