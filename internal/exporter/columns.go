// Package exporter 把采集结果写成 CSV / JSON / Parquet,并能读回之前的结果
package exporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/RecoveryAshes/CafeScraper/internal/models"
	"github.com/RecoveryAshes/CafeScraper/internal/utils"
)

// Row 一条输出记录,值为字符串、数字、布尔或列表
type Row = map[string]any

// PreferredColumns 默认列顺序,其余列按字母序排在后面
var PreferredColumns = []string{
	"page",
	"article_no",
	"title",
	"url",
	"author",
	"date",
	"read_count",
	"like_count",
	"content_text",
	"content_html",
	"external_links",
	"images",
}

// emptyHeader 没有任何记录时CSV的表头
var emptyHeader = []string{"title", "url"}

// RowsFromRecords 采集记录转为输出行
func RowsFromRecords(records []models.Record) []Row {
	return models.RecordsToMaps(records)
}

// Columns 计算列顺序
// fields非空时按fields原样输出;否则为默认列加上其余键(字母序)
func Columns(rows []Row, fields []string) []string {
	if len(fields) > 0 {
		return fields
	}

	preferred := make(map[string]bool, len(PreferredColumns))
	for _, c := range PreferredColumns {
		preferred[c] = true
	}
	extra := make(map[string]bool)
	for _, r := range rows {
		for k := range r {
			if !preferred[k] {
				extra[k] = true
			}
		}
	}
	tail := make([]string, 0, len(extra))
	for k := range extra {
		tail = append(tail, k)
	}
	sort.Strings(tail)

	return append(append([]string{}, PreferredColumns...), tail...)
}

// ParseFields 解析 "a, b ,c" 形式的列清单
func ParseFields(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// cellString CSV单元格: 列表与对象编码为JSON,nil为空串
func cellString(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(x), nil
	case []string, []any, map[string]any:
		b, err := marshalNoEscape(x)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return fmt.Sprint(x), nil
	}
}

// marshalNoEscape 不转义 < > &,保留非ASCII字符
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func ensureParent(path string) error {
	return utils.EnsureDir(filepath.Dir(path))
}
