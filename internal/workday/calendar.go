package workday

import (
	"time"

	"github.com/allanpk716/docx_reportgen/internal/domain"
)

// Calendar 基于工作日策略的月度工作日计算
type Calendar struct {
	policy domain.WorkdayPolicy
}

// NewCalendar 创建工作日日历
func NewCalendar(policy domain.WorkdayPolicy) *Calendar {
	if policy == nil {
		policy = WeekdayOnlyPolicy{}
	}
	return &Calendar{policy: policy}
}

// Policy 当前使用的工作日策略
func (c *Calendar) Policy() domain.WorkdayPolicy {
	return c.policy
}

// IsWorkday 判断是否为工作日
func (c *Calendar) IsWorkday(date time.Time) bool {
	return c.policy.IsWorkday(date)
}

// WorkdayCount 统计某月的工作日天数
func (c *Calendar) WorkdayCount(year int, month time.Month) int {
	count := 0
	last := DaysIn(year, month)
	for d := 1; d <= last; d++ {
		if c.policy.IsWorkday(Date(year, month, d)) {
			count++
		}
	}
	return count
}

// LastWorkday 某月最后一个工作日：从月末向前逐日查找，不越过月初。
// 整月都不是工作日时 ok 为 false
func (c *Calendar) LastWorkday(year int, month time.Month) (day time.Time, ok bool) {
	for d := DaysIn(year, month); d >= 1; d-- {
		day = Date(year, month, d)
		if c.policy.IsWorkday(day) {
			return day, true
		}
	}
	return time.Time{}, false
}

// DaysIn 某月的天数
func DaysIn(year int, month time.Month) int {
	return Date(year, month+1, 0).Day()
}

// Date 构造 UTC 零点日期
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// MonthStart 日期所在月的第一天
func MonthStart(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), 1)
}
