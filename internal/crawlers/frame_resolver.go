package crawlers

import (
	"strings"
	"time"

	"github.com/RecoveryAshes/CafeScraper/internal/dom"
	"github.com/rs/zerolog/log"
)

// 列表内容所在的iframe
const (
	cafeMainSelector = "iframe#cafe_main"
	cafeMainName     = "cafe_main"
)

// frameURLKeywords frame的URL包含其一即视为列表frame(区分大小写)
var frameURLKeywords = []string{
	"ArticleList",
	"Menu",
	"/menus/",
	"ArticleList.nhn",
	"MenuArticles.nhn",
}

// FrameResolver 定位列表内容所在的frame
type FrameResolver struct {
	Wait  time.Duration // 等待cafe_main的时长
	Debug bool          // 打印所有frame
}

// Resolve 依次尝试: cafe_main -> URL关键字匹配 -> 页面本身,从不返回错误
func (r FrameResolver) Resolve(page dom.Page) dom.Target {
	if err := page.WaitForSelector(cafeMainSelector, r.Wait); err == nil {
		for _, f := range page.Frames() {
			if f.Name() == cafeMainName {
				return f
			}
		}
	} else {
		log.Debug().Err(err).Msg("未找到cafe_main,尝试按URL匹配frame")
	}

	frames := descendantFrames(page)
	if r.Debug {
		log.Info().Int("count", len(frames)).Str("page", page.URL()).Msg("🔎 frame列表")
		for i, f := range frames {
			log.Info().Int("index", i).Str("name", f.Name()).Str("url", f.URL()).Msg("  frame")
		}
	}

	// 主文档排在所有frame之前
	if matchesListURL(page.URL()) {
		return page
	}
	for _, f := range frames {
		if matchesListURL(f.URL()) {
			return f
		}
	}
	return page
}

func matchesListURL(u string) bool {
	for _, kw := range frameURLKeywords {
		if strings.Contains(u, kw) {
			return true
		}
	}
	return false
}

// descendantFrames 深度优先列出所有后代frame
func descendantFrames(t dom.Target) []dom.Frame {
	var out []dom.Frame
	for _, f := range t.Frames() {
		out = append(out, f)
		out = append(out, descendantFrames(f)...)
	}
	return out
}
