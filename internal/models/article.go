package models

// ListRow 列表页中的一行
// Title与URL均非空时才会产生
type ListRow struct {
	ArticleNo string `json:"article_no"`
	Head      string `json:"head"` // 分类标签,已去掉[]与空格
	Title     string `json:"title"`
	URL       string `json:"url"`
	Author    string `json:"author"`
	Date      string `json:"date"` // 原样保留,如 "2025.08.08." 或 "12:04"
	ReadCount int    `json:"read_count"`
	LikeCount int    `json:"like_count"`
	Page      int    `json:"page"`

	// Legacy 旧版皮肤只有标题和链接,其余字段在输出中省略
	Legacy bool `json:"-"`
}

// ArticleDetail 详情页解析结果
type ArticleDetail struct {
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Date          string   `json:"date"`
	ReadCount     int      `json:"read_count"`
	LikeCount     int      `json:"like_count"`
	ContentText   string   `json:"content_text"`
	ContentHTML   string   `json:"content_html"`
	ExternalLinks []string `json:"external_links"`
	Images        []string `json:"images"`
}

// NewArticleDetail 返回所有字段为空值的详情(切片非nil)
func NewArticleDetail() ArticleDetail {
	return ArticleDetail{
		ExternalLinks: []string{},
		Images:        []string{},
	}
}

// Record 最终输出的记录: 列表行叠加详情
type Record struct {
	Page          int      `json:"page"`
	ArticleNo     string   `json:"article_no"`
	Head          string   `json:"head"`
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Author        string   `json:"author"`
	Date          string   `json:"date"`
	ReadCount     int      `json:"read_count"`
	LikeCount     int      `json:"like_count"`
	ContentText   string   `json:"content_text"`
	ContentHTML   string   `json:"content_html"`
	ExternalLinks []string `json:"external_links"`
	Images        []string `json:"images"`

	Legacy   bool `json:"-"`
	Detailed bool `json:"-"` // 已成功合并详情
}

// RecordFromRow 从列表行构造记录
func RecordFromRow(row ListRow) Record {
	return Record{
		Page:      row.Page,
		ArticleNo: row.ArticleNo,
		Head:      row.Head,
		Title:     row.Title,
		URL:       row.URL,
		Author:    row.Author,
		Date:      row.Date,
		ReadCount: row.ReadCount,
		LikeCount: row.LikeCount,
		Legacy:    row.Legacy,
	}
}

// Key 去重键 (title, url)
func (r Record) Key() [2]string {
	return [2]string{r.Title, r.URL}
}

// ToMap 转换为导出用的键值结构
// 旧版皮肤行只有 page/title/url;未合并详情的行不含正文相关字段
func (r Record) ToMap() map[string]any {
	m := map[string]any{
		"page":  r.Page,
		"title": r.Title,
		"url":   r.URL,
	}
	if !r.Legacy {
		m["article_no"] = r.ArticleNo
		m["author"] = r.Author
		m["date"] = r.Date
		m["read_count"] = r.ReadCount
		m["like_count"] = r.LikeCount
		if r.Head != "" {
			m["head"] = r.Head
		}
	}
	if r.Detailed {
		if r.Legacy {
			m["author"] = r.Author
			m["date"] = r.Date
			m["read_count"] = r.ReadCount
			m["like_count"] = r.LikeCount
		}
		m["content_text"] = r.ContentText
		m["content_html"] = r.ContentHTML
		m["external_links"] = nonNil(r.ExternalLinks)
		m["images"] = nonNil(r.Images)
	}
	return m
}

// RecordsToMaps 批量转换
func RecordsToMaps(records []Record) []map[string]any {
	out := make([]map[string]any, 0, len(records))
	for _, r := range records {
		out = append(out, r.ToMap())
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
