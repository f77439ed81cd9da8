package utils

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// CafeOrigin 详情页相对链接的解析基准
const CafeOrigin = "https://cafe.naver.com"

var pageParamPattern = regexp.MustCompile(`(page=)\d+`)

// BuildPageURL 生成第pageNo页的列表URL
// 已有page参数时替换其数字,否则以 ? 或 & 追加
func BuildPageURL(baseURL string, pageNo int) string {
	if strings.Contains(baseURL, "page=") {
		return pageParamPattern.ReplaceAllString(baseURL, "${1}"+strconv.Itoa(pageNo))
	}
	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	return baseURL + sep + "page=" + strconv.Itoa(pageNo)
}

// ResolveURL 把href解析为绝对URL,origin为空时使用CafeOrigin
func ResolveURL(origin, href string) (string, error) {
	if origin == "" {
		origin = CafeOrigin
	}
	base, err := url.Parse(origin)
	if err != nil {
		return "", fmt.Errorf("基准URL无效 [%s]: %w", origin, err)
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("链接格式无效 [%s]: %w", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// EnsureDir 目录不存在时创建
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建目录失败 [%s]: %w", dir, err)
	}
	return nil
}
