// Package dataset 把采集结果转换为分类模型训练用的 Sentence,Label CSV
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/RecoveryAshes/CafeScraper/internal/exporter"
	"github.com/RecoveryAshes/CafeScraper/internal/utils"
)

// Ellipsis 截断后追加的省略号
const Ellipsis = "…"

// Options 转换选项
type Options struct {
	Label string
	// RequireBody 仅为兼容保留: 正文为空的记录总会被跳过
	RequireBody bool
	MaxChars    int // 0表示不限制,按字符(rune)计
}

// Example 一条训练样本
type Example struct {
	Sentence string
	Label    string
}

// Normalize 统一换行,制表符换成空格,折叠连续空格
// nil、false、数值0与空集合返回空字符串
func Normalize(v any) string {
	if isFalsy(v) {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.TrimSpace(s)
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}

func isFalsy(v any) bool {
	if v == nil {
		return true
	}
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		return err == nil && f == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return rv.IsZero()
	}
	return false
}

// truncate 超长时截断,去掉尾部空白后加省略号
func truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return strings.TrimRightFunc(string(runes[:maxChars]), isSpace) + Ellipsis
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r' || r == '\v' || r == '\f'
}

// Build 只使用content_text生成样本,跳过空正文
func Build(rows []exporter.Row, opts Options) []Example {
	out := make([]Example, 0, len(rows))
	for _, r := range rows {
		body := Normalize(r["content_text"])
		if body == "" {
			continue
		}
		out = append(out, Example{Sentence: truncate(body, opts.MaxChars), Label: opts.Label})
	}
	return out
}

// WriteCSV 写入 Sentence,Label 表头的UTF-8 CSV
func WriteCSV(path string, examples []Example) error {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建数据集文件失败 [%s]: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Sentence", "Label"}); err != nil {
		return err
	}
	for _, ex := range examples {
		if err := w.Write([]string{ex.Sentence, ex.Label}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Make 读取采集结果并写出数据集,返回样本数
func Make(input, output string, opts Options) (int, error) {
	rows, err := exporter.LoadRows(input)
	if err != nil {
		return 0, err
	}
	examples := Build(rows, opts)
	if err := WriteCSV(output, examples); err != nil {
		return 0, err
	}
	utils.Infof("✅ 数据集已生成: %d条 -> %s", len(examples), output)
	return len(examples), nil
}
