package workday

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed holidays_cn.yaml
var builtinHolidays []byte

const dateKeyLayout = "2006-01-02"

// yearTable 一年的放假与调休安排
type yearTable struct {
	Holidays []string `yaml:"holidays"`
	Workdays []string `yaml:"workdays"`
}

// holidayFile 节假日文件结构
type holidayFile struct {
	Name  string            `yaml:"name"`
	Years map[int]yearTable `yaml:"years"`
}

// HolidayCalendar 节假日日历：法定假日与调休补班日
type HolidayCalendar struct {
	Name     string
	years    map[int]bool
	holidays map[string]bool
	workdays map[string]bool
}

// BuiltinCalendar 内置的中国大陆节假日安排
func BuiltinCalendar() (*HolidayCalendar, error) {
	return ParseHolidays(builtinHolidays)
}

// LoadHolidayFile 从 YAML 文件加载节假日日历
func LoadHolidayFile(path string) (*HolidayCalendar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取节假日文件失败: %w", err)
	}
	cal, err := ParseHolidays(data)
	if err != nil {
		return nil, fmt.Errorf("解析节假日文件 %s 失败: %w", path, err)
	}
	return cal, nil
}

// ParseHolidays 解析 YAML 格式的节假日数据
func ParseHolidays(data []byte) (*HolidayCalendar, error) {
	var file holidayFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Years) == 0 {
		return nil, fmt.Errorf("节假日数据为空")
	}

	cal := &HolidayCalendar{
		Name:     file.Name,
		years:    make(map[int]bool),
		holidays: make(map[string]bool),
		workdays: make(map[string]bool),
	}
	if cal.Name == "" {
		cal.Name = "custom"
	}

	for year, table := range file.Years {
		cal.years[year] = true
		for _, s := range table.Holidays {
			key, err := normalizeDate(s, year)
			if err != nil {
				return nil, err
			}
			cal.holidays[key] = true
		}
		for _, s := range table.Workdays {
			key, err := normalizeDate(s, year)
			if err != nil {
				return nil, err
			}
			if cal.holidays[key] {
				return nil, fmt.Errorf("日期 %s 同时被标记为假日和工作日", key)
			}
			cal.workdays[key] = true
		}
	}

	return cal, nil
}

func normalizeDate(s string, year int) (string, error) {
	t, err := time.Parse("2006-1-2", s)
	if err != nil {
		return "", fmt.Errorf("无效的日期 %q: %w", s, err)
	}
	if t.Year() != year {
		return "", fmt.Errorf("日期 %s 不属于 %d 年", s, year)
	}
	return t.Format(dateKeyLayout), nil
}

// Covers 日历是否覆盖该年份
func (hc *HolidayCalendar) Covers(year int) bool {
	return hc.years[year]
}

// Lookup 查询日期是否为工作日；日历未覆盖该年份时 ok 为 false
func (hc *HolidayCalendar) Lookup(date time.Time) (isWorkday bool, ok bool) {
	if !hc.Covers(date.Year()) {
		return false, false
	}
	key := date.Format(dateKeyLayout)
	if hc.holidays[key] {
		return false, true
	}
	if hc.workdays[key] {
		return true, true
	}
	return WeekdayOnlyPolicy{}.IsWorkday(date), true
}
