package core

import (
	"testing"

	"github.com/RecoveryAshes/CafeScraper/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeDetail(t *testing.T) {
	base := models.Record{
		Page:      1,
		ArticleNo: "13709326",
		Head:      "광고",
		Title:     "X",
		URL:       "https://cafe.naver.com/f-e/cafes/1/articles/13709326",
		Author:    "탐딜을찾아",
		Date:      "2025.08.08.",
		ReadCount: 1272,
		LikeCount: 5,
	}

	tests := []struct {
		name   string
		detail models.ArticleDetail
		want   func(r *models.Record)
	}{
		{
			name:   "空标题不覆盖",
			detail: models.ArticleDetail{Title: "", ReadCount: 1272, LikeCount: 5},
			want:   func(r *models.Record) {},
		},
		{
			name:   "空白标题不覆盖",
			detail: models.ArticleDetail{Title: "  \n", ReadCount: 1272, LikeCount: 5},
			want:   func(r *models.Record) {},
		},
		{
			name:   "非空字段覆盖",
			detail: models.ArticleDetail{Title: "상세 제목", Author: "상세작성자", ContentText: "본문", ReadCount: 1300, LikeCount: 6},
			want: func(r *models.Record) {
				r.ReadCount = 1300
				r.LikeCount = 6
				r.Title = "상세 제목"
				r.Author = "상세작성자"
				r.ContentText = "본문"
			},
		},
		{
			name:   "非空列表覆盖",
			detail: models.ArticleDetail{Images: []string{"a"}, ExternalLinks: []string{}, ReadCount: 1272, LikeCount: 5},
			want: func(r *models.Record) {
				r.Images = []string{"a"}
			},
		},
		{
			name:   "空详情的计数为0",
			detail: models.NewArticleDetail(),
			want: func(r *models.Record) {
				r.ReadCount = 0
				r.LikeCount = 0
			},
		},
		{
			name:   "计数总以详情为准",
			detail: models.ArticleDetail{ReadCount: 0, LikeCount: 9},
			want: func(r *models.Record) {
				r.ReadCount = 0
				r.LikeCount = 9
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MergeDetail(base, tt.detail)
			require.NoError(t, err)

			want := base
			tt.want(&want)
			want.Detailed = true
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("合并结果不符 (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("不修改原记录", func(t *testing.T) {
		rec := base
		rec.Images = []string{"old"}
		_, err := MergeDetail(rec, models.ArticleDetail{Images: []string{"new"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"old"}, rec.Images)
		assert.False(t, rec.Detailed)
	})
}

func TestFinalize(t *testing.T) {
	a := models.Record{Title: "A", URL: "u1", ContentText: "본문"}
	aAgain := models.Record{Title: "A", URL: "u1", ContentText: "다른 본문", Page: 2}
	b := models.Record{Title: "B", URL: "u2", Images: []string{"img"}}
	empty := models.Record{Title: "C", URL: "u3", ContentText: "  "}

	t.Run("去重保留首次出现", func(t *testing.T) {
		var stats models.CrawlStats
		got := Finalize([]models.Record{a, b, aAgain}, false, &stats)
		assert.Equal(t, []models.Record{a, b}, got)
		assert.Equal(t, 1, stats.DuplicatesDropped)
		assert.Zero(t, stats.EmptyDropped)
	})

	t.Run("未开启详情时不过滤空正文", func(t *testing.T) {
		got := Finalize([]models.Record{empty}, false, nil)
		assert.Len(t, got, 1)
	})

	t.Run("开启详情时丢弃无正文无图片", func(t *testing.T) {
		var stats models.CrawlStats
		got := Finalize([]models.Record{a, b, empty}, true, &stats)
		assert.Equal(t, []models.Record{a, b}, got)
		assert.Equal(t, 1, stats.EmptyDropped)
	})

	t.Run("先过滤后去重", func(t *testing.T) {
		first := models.Record{Title: "A", URL: "u1"}
		got := Finalize([]models.Record{first, aAgain}, true, nil)
		require.Len(t, got, 1)
		assert.Equal(t, "다른 본문", got[0].ContentText)
	})

	t.Run("幂等", func(t *testing.T) {
		once := Finalize([]models.Record{a, aAgain, b, empty}, true, nil)
		twice := Finalize(once, true, nil)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("二次处理结果变化 (-once +twice):\n%s", diff)
		}
	})

	t.Run("空输入", func(t *testing.T) {
		got := Finalize(nil, true, nil)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
