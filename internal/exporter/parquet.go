package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/RecoveryAshes/CafeScraper/internal/utils"
	"github.com/parquet-go/parquet-go"
)

// intColumns Parquet中按INT64存储的列,其余列为字符串
var intColumns = map[string]bool{
	"page":       true,
	"read_count": true,
	"like_count": true,
}

// parquetSchema 每列都是optional;列表与对象编码为JSON字符串
func parquetSchema(columns []string) *parquet.Schema {
	group := make(parquet.Group, len(columns))
	for _, col := range columns {
		if intColumns[col] {
			group[col] = parquet.Optional(parquet.Int(64))
		} else {
			group[col] = parquet.Optional(parquet.String())
		}
	}
	return parquet.NewSchema("naver_cafe_row", group)
}

// SaveParquet 写入Parquet文件
func SaveParquet(rows []Row, path string, fields []string) error {
	if err := ensureParent(path); err != nil {
		return err
	}

	columns := Columns(rows, fields)
	if len(rows) == 0 && len(fields) == 0 {
		columns = emptyHeader
	}
	schema := parquetSchema(columns)

	// Group按列名排序,叶子列下标以schema为准
	leaves := schema.Columns()
	index := make(map[string]int, len(leaves))
	for i, leaf := range leaves {
		index[strings.Join(leaf, ".")] = i
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建Parquet文件失败 [%s]: %w", path, err)
	}
	defer f.Close()

	w := parquet.NewWriter(f, schema)
	batch := make([]parquet.Row, 0, len(rows))
	for i, r := range rows {
		row := make(parquet.Row, len(leaves))
		for col, idx := range index {
			v, err := parquetValue(col, r[col])
			if err != nil {
				return fmt.Errorf("第%d行列%s编码失败: %w", i+1, col, err)
			}
			if v.IsNull() {
				row[idx] = v.Level(0, 0, idx)
			} else {
				row[idx] = v.Level(0, 1, idx)
			}
		}
		batch = append(batch, row)
	}

	if _, err := w.WriteRows(batch); err != nil {
		return fmt.Errorf("写入Parquet失败: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("写入Parquet失败: %w", err)
	}

	utils.Infof("💾 Parquet已保存: %s (%d行)", path, len(rows))
	return nil
}

// parquetValue 整数列无法解析时写null
func parquetValue(col string, v any) (parquet.Value, error) {
	if v == nil {
		return parquet.NullValue(), nil
	}
	if intColumns[col] {
		n, ok := toInt64(v)
		if !ok {
			return parquet.NullValue(), nil
		}
		return parquet.Int64Value(n), nil
	}
	s, err := cellString(v)
	if err != nil {
		return parquet.Value{}, err
	}
	return parquet.ByteArrayValue([]byte(s)), nil
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int64:
		return x, true
	case float64:
		return int64(x), true
	case json.Number:
		n, err := x.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
