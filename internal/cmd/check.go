package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/allanpk716/docx_reportgen/internal/matcher"
	"github.com/allanpk716/docx_reportgen/internal/report"
	"github.com/allanpk716/docx_reportgen/pkg/docx"
)

// knownKeys 月报上下文提供的占位符
var knownKeys = []string{
	report.KeyDate,
	report.KeyYear,
	report.KeyMonth,
	report.KeyMonthIndex,
	report.KeyDay,
	report.KeyWeekday,
	report.KeyWorkdayCount,
}

// PlaceholderReport 模板中的占位符统计
type PlaceholderReport struct {
	Known   []string
	Random  []string
	Unknown []string
}

// InspectTemplate 列出模板正文中出现的占位符，按是否能被替换分类
func InspectTemplate(templatePath string) (*PlaceholderReport, error) {
	doc, err := docx.OpenDocument(templatePath)
	if err != nil {
		return nil, fmt.Errorf("打开模板失败: %w", err)
	}
	defer doc.Close()

	result := &PlaceholderReport{}
	for _, name := range matcher.ExtractPlaceholders(doc.Text()) {
		if slices.Contains(knownKeys, name) {
			result.Known = append(result.Known, name)
			continue
		}
		if spec, ok := strings.CutPrefix(name, "random:"); ok {
			if _, err := matcher.ParseRandomToken(spec); err == nil {
				result.Random = append(result.Random, name)
				continue
			}
		}
		result.Unknown = append(result.Unknown, name)
	}
	return result, nil
}
