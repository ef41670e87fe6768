package domain

import (
	"context"
	"fmt"
	"time"
)

// 调度模式
const (
	// ModeMonthlyLastWorkday 每个月最后一个工作日生成月报
	ModeMonthlyLastWorkday = "MONTHLY_LAST_WORKDAY"
)

// WorkdayPolicy 工作日判定策略
type WorkdayPolicy interface {
	IsWorkday(date time.Time) bool
	Name() string
}

// PlaceholderResolver 占位符解析器接口
type PlaceholderResolver interface {
	Resolve(text string, data *ContextMap) string
}

// StyledTextUnit 带格式的文本单元（段落）
// Text 返回所有 run 拼接后的文本，SetText 将文本写回第一个 run 并清空其余 run
type StyledTextUnit interface {
	Text() string
	SetText(text string)
}

// DocumentGenerator 文档生成器接口
type DocumentGenerator interface {
	Generate(ctx context.Context, templatePath, outputPath string, data *ContextMap) error
}

// DateRange 生成日期范围，Start <= End
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange 创建日期范围
func NewDateRange(start, end time.Time) (DateRange, error) {
	if start.After(end) {
		return DateRange{}, fmt.Errorf("开始日期 %s 晚于结束日期 %s",
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	return DateRange{Start: start, End: end}, nil
}

// Contains 判断日期是否在范围内（含两端）
func (r DateRange) Contains(date time.Time) bool {
	return !date.Before(r.Start) && !date.After(r.End)
}

// TargetDate 一个月报的生成日期
type TargetDate struct {
	Date          time.Time
	SequenceIndex int
	WorkdayCount  int
}

// RandomToken 随机数占位符的解析结果
type RandomToken struct {
	Low       float64
	High      float64
	IsDecimal bool
	Precision int
}

// GenerationResult 单个月报的生成结果
type GenerationResult struct {
	Target     TargetDate
	FileName   string
	OutputPath string
	Err        error
}

// Succeeded 是否生成成功
func (r GenerationResult) Succeeded() bool {
	return r.Err == nil
}
