package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/allanpk716/docx_reportgen/internal/domain"
)

// ManifestSheet 清单工作表名称
const ManifestSheet = "月报清单"

var manifestHeaders = []any{"文件名", "日期", "星期", "序号", "工作日", "状态", "说明"}

// WriteManifest 将生成结果写入 xlsx 清单
func WriteManifest(path string, results []domain.GenerationResult) error {
	if path == "" {
		return fmt.Errorf("清单路径不能为空")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ManifestSheet); err != nil {
		return fmt.Errorf("设置工作表名称失败: %w", err)
	}

	if err := f.SetSheetRow(ManifestSheet, "A1", &manifestHeaders); err != nil {
		return fmt.Errorf("写入表头失败: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("创建表头样式失败: %w", err)
	}
	if err := f.SetCellStyle(ManifestSheet, "A1", "G1", headerStyle); err != nil {
		return fmt.Errorf("设置表头样式失败: %w", err)
	}

	for i, r := range results {
		status, note := "成功", ""
		if r.Err != nil {
			status, note = "失败", r.Err.Error()
		}

		row := []any{
			r.FileName,
			r.Target.Date.Format("2006-01-02"),
			WeekdayName(r.Target.Date),
			r.Target.SequenceIndex,
			r.Target.WorkdayCount,
			status,
			note,
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ManifestSheet, cell, &row); err != nil {
			return fmt.Errorf("写入第 %d 行失败: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(ManifestSheet, "A", "A", 32); err != nil {
		return err
	}
	if err := f.SetColWidth(ManifestSheet, "G", "G", 48); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("创建清单目录失败: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("保存清单失败: %w", err)
	}
	return nil
}
