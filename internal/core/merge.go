package core

import (
	"fmt"
	"strings"

	"dario.cat/mergo"
	"github.com/RecoveryAshes/CafeScraper/internal/models"
)

// MergeDetail 把详情叠加到列表记录上
// 详情中的空白字符串和空切片不会覆盖列表中已有的值;计数总以详情为准
func MergeDetail(rec models.Record, detail models.ArticleDetail) (models.Record, error) {
	patch := models.Record{
		Title:         blank(detail.Title),
		Author:        blank(detail.Author),
		Date:          blank(detail.Date),
		ContentText:   blank(detail.ContentText),
		ContentHTML:   blank(detail.ContentHTML),
		ExternalLinks: detail.ExternalLinks,
		Images:        detail.Images,
	}

	out := rec
	if err := mergo.Merge(&out, patch, mergo.WithOverride); err != nil {
		return rec, fmt.Errorf("合并详情失败 [%s]: %w", rec.URL, err)
	}
	// mergo把0视为空值,计数单独赋值
	out.ReadCount = detail.ReadCount
	out.LikeCount = detail.LikeCount
	out.Detailed = true
	return out, nil
}

// blank 只含空白的字符串视为空值
func blank(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

// Finalize 收尾: 开启详情时先丢弃无正文且无图片的记录,再按(title,url)去重,保留首次出现
func Finalize(records []models.Record, detailEnabled bool, stats *models.CrawlStats) []models.Record {
	seen := make(map[[2]string]struct{}, len(records))
	out := make([]models.Record, 0, len(records))

	for _, r := range records {
		if detailEnabled && strings.TrimSpace(r.ContentText) == "" && len(r.Images) == 0 {
			if stats != nil {
				stats.EmptyDropped++
			}
			continue
		}
		key := r.Key()
		if _, dup := seen[key]; dup {
			if stats != nil {
				stats.DuplicatesDropped++
			}
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
