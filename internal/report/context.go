package report

import (
	"fmt"
	"time"

	"github.com/allanpk716/docx_reportgen/internal/domain"
)

// 上下文中的占位符键
const (
	KeyDate         = "date"
	KeyYear         = "year"
	KeyMonth        = "month"
	KeyMonthIndex   = "month_index"
	KeyDay          = "day"
	KeyWeekday      = "weekday"
	KeyWorkdayCount = "workday_count"
)

// DateLayout 报告日期格式，如 2024年08月30日
const DateLayout = "2006年01月02日"

// weekdayNames 以周一为首的星期名称
var weekdayNames = [...]string{"星期一", "星期二", "星期三", "星期四", "星期五", "星期六", "星期日"}

// WeekdayName 返回日期的中文星期名称
func WeekdayName(date time.Time) string {
	return weekdayNames[(int(date.Weekday())+6)%7]
}

// BuildContext 为一个生成日期构建占位符上下文
func BuildContext(target domain.TargetDate) *domain.ContextMap {
	d := target.Date

	cm := domain.NewContextMap()
	cm.Set(KeyDate, d.Format(DateLayout))
	cm.Set(KeyYear, d.Year())
	cm.Set(KeyMonth, fmt.Sprintf("%02d", int(d.Month())))
	cm.Set(KeyMonthIndex, target.SequenceIndex)
	cm.Set(KeyDay, d.Day())
	cm.Set(KeyWeekday, WeekdayName(d))
	cm.Set(KeyWorkdayCount, target.WorkdayCount)
	return cm
}

// FileName 输出文件名，只由年份和月份决定
func FileName(date time.Time) string {
	return fmt.Sprintf("%d年%02d月网络安全月报.docx", date.Year(), int(date.Month()))
}
