package exporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedInput 输入文件扩展名不受支持
var ErrUnsupportedInput = errors.New("输入文件必须是 .json 或 .csv")

// LoadRows 读取之前导出的结果
// JSON接受记录数组或 {"rows":[...]};CSV的值一律为字符串
func LoadRows(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取输入文件失败 [%s]: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return decodeJSONRows(data)
	case ".csv":
		return decodeCSVRows(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedInput, path)
	}
}

func decodeJSONRows(data []byte) ([]Row, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("解析JSON失败: %w", err)
	}

	var list []any
	switch x := raw.(type) {
	case []any:
		list = x
	case map[string]any:
		rows, ok := x["rows"].([]any)
		if !ok {
			return nil, errors.New("不支持的JSON结构: 对象中缺少rows数组")
		}
		list = rows
	default:
		return nil, errors.New("不支持的JSON结构: 需要记录数组")
	}

	out := make([]Row, 0, len(list))
	for i, item := range list {
		row, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("第%d条记录不是对象", i+1)
		}
		out = append(out, row)
	}
	return out, nil
}

func decodeCSVRows(data []byte) ([]Row, error) {
	data = bytes.TrimPrefix(data, []byte(utf8BOM))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取CSV表头失败: %w", err)
	}

	out := make([]Row, 0)
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("读取CSV第%d行失败: %w", line, err)
		}
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		out = append(out, row)
	}
	return out, nil
}
