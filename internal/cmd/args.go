package cmd

import (
	"fmt"

	"github.com/allanpk716/docx_reportgen/internal/config"
	"github.com/allanpk716/docx_reportgen/internal/domain"
)

// 应用信息
const (
	AppName    = "docx-reportgen"
	AppVersion = "1.0.0"
)

// CommandLineArgs 命令行参数结构
type CommandLineArgs struct {
	ConfigFile string
	Template   string
	Start      string
	End        string
	Output     string
	Manifest   string
	Calendar   string
	Verbose    bool
	DryRun     bool
}

// Overrides 转换为配置覆盖项
func (a *CommandLineArgs) Overrides() config.Overrides {
	return config.Overrides{
		TemplatePath: a.Template,
		StartDate:    a.Start,
		EndDate:      a.End,
		OutputDir:    a.Output,
		ManifestPath: a.Manifest,
		CalendarMode: a.Calendar,
	}
}

// ResolveConfig 加载配置文件并应用命令行覆盖。
// 未指定配置文件时从默认配置开始，日期必须由命令行给出
func ResolveConfig(args *CommandLineArgs) (*config.Config, domain.DateRange, error) {
	manager := config.NewConfigManager()

	cfg := config.DefaultConfig()
	if args.ConfigFile != "" {
		loaded, err := manager.LoadConfig(args.ConfigFile)
		if err != nil {
			return nil, domain.DateRange{}, fmt.Errorf("加载配置文件失败: %w", err)
		}
		cfg = loaded
	}

	cfg.Apply(args.Overrides())

	if err := manager.ValidateConfig(cfg); err != nil {
		return nil, domain.DateRange{}, fmt.Errorf("配置验证失败: %w", err)
	}

	r, err := manager.GetDateRange(cfg)
	if err != nil {
		return nil, domain.DateRange{}, err
	}
	return cfg, r, nil
}
