package exporter

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format 输出格式
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
)

// ParseFormat 不区分大小写
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatParquet:
		return f, nil
	default:
		return "", fmt.Errorf("无效的输出格式: %s (有效值: csv, json, parquet)", s)
	}
}

// Save 按格式写入
func Save(rows []Row, path string, format Format, fields []string) error {
	switch format {
	case FormatCSV:
		return SaveCSV(rows, path, fields)
	case FormatJSON:
		return SaveJSON(rows, path, fields)
	case FormatParquet:
		return SaveParquet(rows, path, fields)
	default:
		return fmt.Errorf("无效的输出格式: %s", format)
	}
}

// DefaultOutputPath 输入路径替换扩展名
func DefaultOutputPath(input string, format Format) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + string(format)
}

// Convert 读取之前的结果并按新格式写出,返回输出路径
func Convert(input, output string, format Format, fields []string) (string, error) {
	rows, err := LoadRows(input)
	if err != nil {
		return "", err
	}
	if output == "" {
		output = DefaultOutputPath(input, format)
	}
	if err := Save(rows, output, format, fields); err != nil {
		return "", err
	}
	return output, nil
}
