package parser

import (
	"strings"

	"github.com/RecoveryAshes/CafeScraper/internal/dom"
	"github.com/RecoveryAshes/CafeScraper/internal/models"
)

// 新版皮肤(table.article-table)的选择器
const (
	selArticleTable = "table.article-table"
	selTableRows    = "tbody > tr"
	selArticleNo    = "td.type_articleNumber"
	selArticleLink  = "a.article"
	selHead         = ".head"
	selWriter       = ".ArticleBoardWriterInfo .nickname"
	selDate         = "td.type_date"
	selReadCount    = "td.type_readCount"
	selLikeCount    = "td.type_likeCount"
)

// 旧版皮肤的链接
const selLegacyLinks = "a.article, a.tit"

// ExtractList 解析列表页
// 新版表格解析出至少一行时直接返回,否则按旧版皮肤解析
func ExtractList(target dom.Querier) []models.ListRow {
	if rows := extractTable(target); len(rows) > 0 {
		return rows
	}
	return extractLegacy(target)
}

func extractTable(target dom.Querier) []models.ListRow {
	table, err := target.QueryOne(selArticleTable)
	if err != nil || table == nil {
		return nil
	}

	rows := make([]models.ListRow, 0)
	for _, tr := range all(table, selTableRows) {
		row, ok := extractTableRow(tr)
		if ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// extractTableRow 标题或链接为空的行(公告、占位等)跳过
func extractTableRow(tr dom.Element) (models.ListRow, bool) {
	anchor := first(tr, selArticleLink)
	if anchor == nil {
		return models.ListRow{}, false
	}
	url := attrOf(anchor, "href")
	title := textOf(anchor)

	headRaw := firstText(tr, selHead)
	if headRaw != "" && strings.HasPrefix(title, headRaw) {
		title = strings.TrimSpace(strings.TrimPrefix(title, headRaw))
	}
	if title == "" || url == "" {
		return models.ListRow{}, false
	}

	return models.ListRow{
		ArticleNo: firstText(tr, selArticleNo),
		Head:      strings.Trim(headRaw, "[] "),
		Title:     title,
		URL:       url,
		Author:    firstText(tr, selWriter),
		Date:      firstText(tr, selDate),
		ReadCount: ParseCount(firstText(tr, selReadCount)),
		LikeCount: ParseCount(firstText(tr, selLikeCount)),
	}, true
}

func extractLegacy(target dom.Querier) []models.ListRow {
	rows := make([]models.ListRow, 0)
	for _, a := range all(target, selLegacyLinks) {
		title := textOf(a)
		url := attrOf(a, "href")
		if title == "" || url == "" {
			continue
		}
		rows = append(rows, models.ListRow{Title: title, URL: url, Legacy: true})
	}
	return rows
}
