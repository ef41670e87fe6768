package workday

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/allanpk716/docx_reportgen/internal/domain"
)

// 节假日数据来源
const (
	SourceBuiltin = "builtin"
	SourceFile    = "file"
	SourceWeekday = "weekday"
)

// ErrUnknownCalendarSource 未知的节假日数据来源
var ErrUnknownCalendarSource = errors.New("未知的节假日数据来源")

// WeekdayOnlyPolicy 周一至周五为工作日
type WeekdayOnlyPolicy struct{}

// IsWorkday 周六周日为非工作日
func (WeekdayOnlyPolicy) IsWorkday(date time.Time) bool {
	wd := date.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// Name 策略名称
func (WeekdayOnlyPolicy) Name() string {
	return SourceWeekday
}

// ExternalCalendarPolicy 委托节假日日历判定工作日
// 日历未覆盖的年份按周一至周五判定
type ExternalCalendarPolicy struct {
	calendar *HolidayCalendar
	fallback WeekdayOnlyPolicy
}

// NewExternalCalendarPolicy 创建基于节假日日历的策略
func NewExternalCalendarPolicy(calendar *HolidayCalendar) *ExternalCalendarPolicy {
	return &ExternalCalendarPolicy{calendar: calendar}
}

// IsWorkday 判断是否为工作日
func (p *ExternalCalendarPolicy) IsWorkday(date time.Time) bool {
	if isWork, ok := p.calendar.Lookup(date); ok {
		return isWork
	}
	return p.fallback.IsWorkday(date)
}

// Name 策略名称
func (p *ExternalCalendarPolicy) Name() string {
	return "calendar:" + p.calendar.Name
}

// SelectPolicy 启动时根据节假日数据的可用性选择工作日策略，之后不再变化
func SelectPolicy(source, holidayFile string, logger *zap.Logger) (domain.WorkdayPolicy, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch source {
	case "", SourceBuiltin:
		cal, err := BuiltinCalendar()
		if err != nil {
			return nil, fmt.Errorf("加载内置节假日日历失败: %w", err)
		}
		return NewExternalCalendarPolicy(cal), nil

	case SourceFile:
		if holidayFile == "" {
			return nil, fmt.Errorf("节假日数据来源为 file 时必须指定 holiday_file")
		}
		if _, err := os.Stat(holidayFile); os.IsNotExist(err) {
			logger.Warn("节假日文件不存在，按周一至周五判定工作日", zap.String("path", holidayFile))
			return WeekdayOnlyPolicy{}, nil
		}
		cal, err := LoadHolidayFile(holidayFile)
		if err != nil {
			return nil, err
		}
		return NewExternalCalendarPolicy(cal), nil

	case SourceWeekday:
		return WeekdayOnlyPolicy{}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownCalendarSource, source)
}
