package schedule

import (
	"iter"
	"slices"
	"time"

	"github.com/allanpk716/docx_reportgen/internal/domain"
	"github.com/allanpk716/docx_reportgen/internal/workday"
)

// Scheduler 按月计算月报生成日期
type Scheduler struct {
	calendar *workday.Calendar
}

// NewScheduler 创建调度器
func NewScheduler(calendar *workday.Calendar) *Scheduler {
	return &Scheduler{calendar: calendar}
}

// Enumerate 枚举范围内每个月的最后一个工作日，按日期升序。
// 返回的序列是惰性的，可重复遍历且结果一致。
func (s *Scheduler) Enumerate(r domain.DateRange) iter.Seq[domain.TargetDate] {
	return func(yield func(domain.TargetDate) bool) {
		for cursor := workday.MonthStart(r.Start); !cursor.After(r.End); cursor = cursor.AddDate(0, 1, 0) {
			last, ok := s.calendar.LastWorkday(cursor.Year(), cursor.Month())
			if !ok || !r.Contains(last) {
				continue
			}

			target := domain.TargetDate{
				Date:          last,
				SequenceIndex: SequenceIndex(r.Start, last),
				WorkdayCount:  s.calendar.WorkdayCount(last.Year(), last.Month()),
			}
			if !yield(target) {
				return
			}
		}
	}
}

// Collect 返回全部生成日期
func (s *Scheduler) Collect(r domain.DateRange) []domain.TargetDate {
	return slices.Collect(s.Enumerate(r))
}

// SequenceIndex 相对起始月份的序号，起始月为 1。
// 边界月份被跳过时不会重新编号。
func SequenceIndex(start, date time.Time) int {
	return (date.Year()-start.Year())*12 + int(date.Month()-start.Month()) + 1
}
