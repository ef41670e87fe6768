package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/allanpk716/docx_reportgen/internal/domain"
	"github.com/allanpk716/docx_reportgen/internal/workday"
)

// 默认配置
const (
	DefaultTemplatePath = "月报模板.docx"
	DefaultOutputDir    = "设备月报库"
)

// DateLayout 配置中的日期格式，月和日可以不补零
const DateLayout = "2006-1-2"

var (
	// ErrUnsupportedMode 不支持的调度模式
	ErrUnsupportedMode = errors.New("不支持的调度模式")
	// ErrInvalidDateRange 日期范围无效
	ErrInvalidDateRange = errors.New("日期范围无效")
)

// CalendarConfig 节假日日历配置
type CalendarConfig struct {
	Source      string `json:"source" yaml:"source" toml:"source"`
	HolidayFile string `json:"holiday_file" yaml:"holiday_file" toml:"holiday_file"`
}

// Config 表示完整的配置文件结构
type Config struct {
	ProjectName  string         `json:"project_name" yaml:"project_name" toml:"project_name"`
	TemplatePath string         `json:"template_path" yaml:"template_path" toml:"template_path"`
	StartDate    string         `json:"start_date" yaml:"start_date" toml:"start_date"`
	EndDate      string         `json:"end_date" yaml:"end_date" toml:"end_date"`
	OutputDir    string         `json:"output_dir" yaml:"output_dir" toml:"output_dir"`
	Mode         string         `json:"mode" yaml:"mode" toml:"mode"`
	ManifestPath string         `json:"manifest_path" yaml:"manifest_path" toml:"manifest_path"`
	Calendar     CalendarConfig `json:"calendar" yaml:"calendar" toml:"calendar"`
}

// Overrides 命令行参数对配置的覆盖，空值表示不覆盖
type Overrides struct {
	TemplatePath string
	StartDate    string
	EndDate      string
	OutputDir    string
	ManifestPath string
	CalendarMode string
}

// ConfigManager 配置管理接口
type ConfigManager interface {
	LoadConfig(filePath string) (*Config, error)
	ValidateConfig(config *Config) error
	GetDateRange(config *Config) (domain.DateRange, error)
}

// configManager 配置管理器实现
type configManager struct{}

// NewConfigManager 创建新的配置管理器
func NewConfigManager() ConfigManager {
	return &configManager{}
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		ProjectName:  "网络安全月报",
		TemplatePath: DefaultTemplatePath,
		OutputDir:    DefaultOutputDir,
		Mode:         domain.ModeMonthlyLastWorkday,
		Calendar: CalendarConfig{
			Source: workday.SourceBuiltin,
		},
	}
}

// LoadConfig 从文件加载配置，未设置的字段使用默认值。
// 格式由扩展名决定：.json、.yaml/.yml、.toml
func (cm *configManager) LoadConfig(filePath string) (*Config, error) {
	if filePath == "" {
		return nil, fmt.Errorf("配置文件路径不能为空")
	}

	// 检查文件是否存在
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("配置文件不存在: %s", filePath)
	}

	// 读取文件内容
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	config := DefaultConfig()

	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".json":
		err = json.Unmarshal(data, config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	case ".toml":
		err = toml.Unmarshal(data, config)
	default:
		return nil, fmt.Errorf("配置文件必须是 JSON、YAML 或 TOML 格式，当前文件: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	config.normalize()
	return config, nil
}

// Apply 应用命令行覆盖
func (c *Config) Apply(o Overrides) {
	if o.TemplatePath != "" {
		c.TemplatePath = o.TemplatePath
	}
	if o.StartDate != "" {
		c.StartDate = o.StartDate
	}
	if o.EndDate != "" {
		c.EndDate = o.EndDate
	}
	if o.OutputDir != "" {
		c.OutputDir = o.OutputDir
	}
	if o.ManifestPath != "" {
		c.ManifestPath = o.ManifestPath
	}
	if o.CalendarMode != "" {
		c.Calendar.Source = o.CalendarMode
	}
	c.normalize()
}

// normalize 显式为空的字段回到默认值
func (c *Config) normalize() {
	c.Mode = strings.TrimSpace(c.Mode)
	if c.Mode == "" {
		c.Mode = domain.ModeMonthlyLastWorkday
	}
	c.Calendar.Source = strings.ToLower(strings.TrimSpace(c.Calendar.Source))
	if c.Calendar.Source == "" {
		c.Calendar.Source = workday.SourceBuiltin
	}
}

// ValidateConfig 验证配置的有效性
func (cm *configManager) ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("配置不能为空")
	}

	if config.TemplatePath == "" {
		return fmt.Errorf("模板路径不能为空")
	}

	if config.OutputDir == "" {
		return fmt.Errorf("输出目录不能为空")
	}

	if config.Mode != domain.ModeMonthlyLastWorkday {
		return fmt.Errorf("%w: %s", ErrUnsupportedMode, config.Mode)
	}

	switch config.Calendar.Source {
	case workday.SourceBuiltin, workday.SourceWeekday:
	case workday.SourceFile:
		if config.Calendar.HolidayFile == "" {
			return fmt.Errorf("节假日数据来源为 file 时必须指定 holiday_file")
		}
	default:
		return fmt.Errorf("%w: %s", workday.ErrUnknownCalendarSource, config.Calendar.Source)
	}

	if _, err := cm.GetDateRange(config); err != nil {
		return err
	}

	return nil
}

// GetDateRange 解析开始和结束日期
func (cm *configManager) GetDateRange(config *Config) (domain.DateRange, error) {
	if config.StartDate == "" || config.EndDate == "" {
		return domain.DateRange{}, fmt.Errorf("%w: 开始日期和结束日期不能为空", ErrInvalidDateRange)
	}

	start, err := ParseDate(config.StartDate)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: 开始日期: %v", ErrInvalidDateRange, err)
	}
	end, err := ParseDate(config.EndDate)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: 结束日期: %v", ErrInvalidDateRange, err)
	}

	r, err := domain.NewDateRange(start, end)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
	}
	return r, nil
}

// ParseDate 解析 2024-8-01 或 2024-08-01 形式的日期
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("无效的日期 %q", s)
	}
	return t, nil
}
