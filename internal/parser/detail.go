package parser

import (
	"context"
	"strings"

	"github.com/RecoveryAshes/CafeScraper/internal/dom"
	"github.com/RecoveryAshes/CafeScraper/internal/models"
	"github.com/RecoveryAshes/CafeScraper/internal/ocr"
	"github.com/RecoveryAshes/CafeScraper/internal/textclean"
	"github.com/rs/zerolog/log"
)

// 详情页选择器
const (
	selContentRootLegacy = "div.CafeViewer"
	selContentRootSE     = "div.se-viewer"

	selParagraphs = "p, div.se-text-paragraph, li"
	selLinks      = "a, a.se-link"
	selImages     = "img, .se-oglink-thumbnail-resource"
)

var (
	titleSelectors  = []string{"h3.title_text", ".ArticleTitle .title_text, .TitleText"}
	authorSelectors = []string{".WriterInfo .nickname, .nick_name, .nickname"}
	dateSelectors   = []string{".article_info .date, .date"}
	readSelectors   = []string{".article_info .count, .count, .read"}
	likeSelectors   = []string{".u_likeit_list_btn .u_cnt, .like_no .u_cnt"}

	captionSelectors = []string{
		".se-caption",
		".se-imageCaption",
		".se-oglink-title",
		".se-oglink-summary",
		".se-module-image figcaption",
	}
)

// DetailExtractor 详情页解析器
type DetailExtractor struct {
	ocrEnabled bool
	recognizer ocr.Recognizer
}

// NewDetailExtractor 创建详情页解析器,recognizer可为nil
func NewDetailExtractor(ocrEnabled bool, recognizer ocr.Recognizer) *DetailExtractor {
	return &DetailExtractor{
		ocrEnabled: ocrEnabled,
		recognizer: recognizer,
	}
}

// Extract 解析详情页
// 正文根节点不存在时,正文相关字段保持空值
func (d *DetailExtractor) Extract(ctx context.Context, target dom.Querier) models.ArticleDetail {
	detail := models.NewArticleDetail()

	detail.Title = firstText(target, titleSelectors...)
	detail.Author = firstText(target, authorSelectors...)
	detail.Date = firstText(target, dateSelectors...)
	detail.ReadCount = ParseCount(firstText(target, readSelectors...))
	detail.LikeCount = ParseCount(firstText(target, likeSelectors...))

	root := first(target, selContentRootLegacy, selContentRootSE)
	if root == nil {
		return detail
	}

	body := bodyText(root)
	if html, err := root.InnerHTML(); err == nil {
		detail.ContentHTML = html
	}
	detail.ExternalLinks = externalLinks(root)
	detail.Images = imageSources(root)
	side := sideTexts(root)

	var ocrTexts []string
	if d.ocrEnabled && d.recognizer != nil && d.recognizer.Available() {
		ocrTexts = d.recognizeImages(ctx, root)
	}

	detail.ContentText = composeContent(body, side, ocrTexts)
	return detail
}

// composeContent 正文 + 图片旁文字 + OCR,清洗后为空时依次回退到原始合并文本、正文
func composeContent(body string, side, ocrTexts []string) string {
	parts := make([]string, 0, 1+len(side)+len(ocrTexts))
	for _, p := range append(append([]string{body}, side...), ocrTexts...) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	merged := strings.TrimSpace(strings.Join(parts, "\n"))

	source := merged
	if source == "" {
		source = body
	}
	if cleaned := textclean.Clean(source); cleaned != "" {
		return cleaned
	}
	if merged != "" {
		return merged
	}
	return body
}

func bodyText(root dom.Element) string {
	texts := make([]string, 0)
	for _, p := range all(root, selParagraphs) {
		if t := textOf(p); t != "" {
			texts = append(texts, t)
		}
	}
	return strings.Join(texts, "\n")
}

func externalLinks(root dom.Element) []string {
	links := make([]string, 0)
	for _, a := range all(root, selLinks) {
		href := attrOf(a, "href")
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			links = append(links, href)
		}
	}
	return dedupKeepOrder(links)
}

func imageSources(root dom.Element) []string {
	srcs := make([]string, 0)
	for _, img := range all(root, selImages) {
		srcs = append(srcs, attrOf(img, "src"))
	}
	return dedupKeepOrder(srcs)
}

// sideTexts 图片alt与说明文字
func sideTexts(root dom.Element) []string {
	out := make([]string, 0)
	for _, img := range all(root, "img") {
		if alt := strings.TrimSpace(attrOf(img, "alt")); alt != "" {
			out = append(out, alt)
		}
	}
	for _, sel := range captionSelectors {
		for _, el := range all(root, sel) {
			out = append(out, textOf(el))
		}
	}
	return dedupKeepOrder(out)
}

// recognizeImages 每张图片截图一次;单张失败直接跳过
func (d *DetailExtractor) recognizeImages(ctx context.Context, root dom.Element) []string {
	results := make([]string, 0)
	for _, img := range all(root, "img") {
		shot, err := img.Screenshot()
		if err != nil || len(shot) == 0 {
			continue
		}
		text, err := d.recognizer.Recognize(ctx, shot)
		if err != nil {
			log.Debug().Err(err).Msg("图片OCR失败,跳过")
			continue
		}
		results = append(results, strings.TrimSpace(text))
	}
	return dedupKeepOrder(results)
}
