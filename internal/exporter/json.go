package exporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/RecoveryAshes/CafeScraper/internal/utils"
)

// orderedRow 按给定列顺序序列化,行中不存在的键跳过
type orderedRow struct {
	row     Row
	columns []string
}

func (o orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	n := 0
	for _, col := range o.columns {
		v, ok := o.row[col]
		if !ok {
			continue
		}
		key, err := marshalNoEscape(col)
		if err != nil {
			return nil, err
		}
		val, err := marshalNoEscape(v)
		if err != nil {
			return nil, fmt.Errorf("列%s编码失败: %w", col, err)
		}
		if n > 0 {
			buf.WriteByte(',')
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
		n++
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SaveJSON 写入缩进为2的JSON数组,键按列顺序排列
// 指定fields时每行只保留这些键
func SaveJSON(rows []Row, path string, fields []string) error {
	if err := ensureParent(path); err != nil {
		return err
	}

	columns := Columns(rows, fields)
	ordered := make([]orderedRow, len(rows))
	for i, r := range rows {
		ordered[i] = orderedRow{row: r, columns: columns}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ordered); err != nil {
		return fmt.Errorf("序列化JSON失败: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("写入JSON文件失败 [%s]: %w", path, err)
	}

	utils.Infof("💾 JSON已保存: %s (%d行)", path, len(rows))
	return nil
}
