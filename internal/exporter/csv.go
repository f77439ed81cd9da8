package exporter

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/RecoveryAshes/CafeScraper/internal/utils"
)

// utf8BOM Excel按UTF-8打开需要BOM
const utf8BOM = "\xEF\xBB\xBF"

// SaveCSV 写入带BOM的UTF-8 CSV
// 没有记录且未指定列时只写 title,url 表头
func SaveCSV(rows []Row, path string, fields []string) error {
	if err := ensureParent(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建CSV文件失败 [%s]: %w", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if _, err := bw.WriteString(utf8BOM); err != nil {
		return err
	}
	w := csv.NewWriter(bw)

	columns := emptyHeader
	if len(rows) > 0 || len(fields) > 0 {
		columns = Columns(rows, fields)
	}
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("写入CSV表头失败: %w", err)
	}

	record := make([]string, len(columns))
	for i, r := range rows {
		for j, col := range columns {
			cell, err := cellString(r[col])
			if err != nil {
				return fmt.Errorf("第%d行列%s编码失败: %w", i+1, col, err)
			}
			record[j] = cell
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("写入CSV第%d行失败: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("写入CSV失败: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	utils.Infof("💾 CSV已保存: %s (%d行)", path, len(rows))
	return nil
}
