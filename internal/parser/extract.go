// Package parser 从列表页和详情页提取结构化数据
//
// 所有字段读取都是独立容错的: 单个字段失败只会得到空值,不会中断整行或整页。
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/RecoveryAshes/CafeScraper/internal/dom"
)

var countPattern = regexp.MustCompile(`\d[\d,]*`)

// ParseCount 取文本中第一段数字(允许逗号分组),没有数字时返回0
func ParseCount(s string) int {
	m := countPattern.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return 0
	}
	return n
}

// textOf 元素文本(去首尾空白),任何错误都返回空串
func textOf(el dom.Element) string {
	if el == nil {
		return ""
	}
	t, err := el.Text()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(t)
}

// attrOf 属性值,不存在或出错时返回空串
func attrOf(el dom.Element, name string) string {
	if el == nil {
		return ""
	}
	v, err := el.Attribute(name)
	if err != nil {
		return ""
	}
	return v
}

// first 按候选顺序查询,第一个命中的选择器胜出
func first(q dom.Querier, selectors ...string) dom.Element {
	if q == nil {
		return nil
	}
	for _, sel := range selectors {
		el, err := q.QueryOne(sel)
		if err == nil && el != nil {
			return el
		}
	}
	return nil
}

// firstText first + textOf
func firstText(q dom.Querier, selectors ...string) string {
	return textOf(first(q, selectors...))
}

// all 查询失败时返回空切片
func all(q dom.Querier, selector string) []dom.Element {
	if q == nil {
		return nil
	}
	els, err := q.QueryAll(selector)
	if err != nil {
		return nil
	}
	return els
}

// dedupKeepOrder 去掉空串和重复项,保留首次出现顺序
func dedupKeepOrder(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
