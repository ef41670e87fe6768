package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/allanpk716/docx_reportgen/internal/domain"
	"github.com/allanpk716/docx_reportgen/internal/workday"
)

func TestConfigManager_LoadConfig(t *testing.T) {
	tests := []struct {
		name         string
		fileName     string
		configData   string
		wantErr      bool
		wantTemplate string
		wantStart    string
		wantOutput   string
		wantCalendar string
	}{
		{
			name:     "valid json",
			fileName: "config.json",
			configData: `{
				"project_name": "设备月报",
				"template_path": "模板.docx",
				"start_date": "2024-8-01",
				"end_date": "2025-10-23",
				"output_dir": "out",
				"calendar": {"source": "weekday"}
			}`,
			wantTemplate: "模板.docx",
			wantStart:    "2024-8-01",
			wantOutput:   "out",
			wantCalendar: workday.SourceWeekday,
		},
		{
			name:     "valid yaml with defaults",
			fileName: "config.yaml",
			configData: `
start_date: "2024-08-01"
end_date: "2024-10-31"
`,
			wantTemplate: DefaultTemplatePath,
			wantStart:    "2024-08-01",
			wantOutput:   DefaultOutputDir,
			wantCalendar: workday.SourceBuiltin,
		},
		{
			name:     "valid toml",
			fileName: "config.toml",
			configData: `
template_path = "t.docx"
start_date = "2024-08-01"
end_date = "2024-10-31"
mode = "MONTHLY_LAST_WORKDAY"

[calendar]
source = "file"
holiday_file = "holidays.yaml"
`,
			wantTemplate: "t.docx",
			wantStart:    "2024-08-01",
			wantOutput:   DefaultOutputDir,
			wantCalendar: workday.SourceFile,
		},
		{
			name:       "invalid json",
			fileName:   "config.json",
			configData: `{"template_path": `,
			wantErr:    true,
		},
		{
			name:       "invalid yaml",
			fileName:   "config.yml",
			configData: "start_date: [2024",
			wantErr:    true,
		},
		{
			name:       "unsupported extension",
			fileName:   "config.ini",
			configData: "start_date=2024-08-01",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 创建临时配置文件
			path := filepath.Join(t.TempDir(), tt.fileName)
			if err := os.WriteFile(path, []byte(tt.configData), 0644); err != nil {
				t.Fatalf("写入临时文件失败: %v", err)
			}

			// 测试加载配置
			manager := NewConfigManager()
			config, err := manager.LoadConfig(path)

			if tt.wantErr {
				if err == nil {
					t.Errorf("期望出现错误，但没有错误")
				}
				return
			}

			if err != nil {
				t.Errorf("不期望出现错误，但出现了错误: %v", err)
				return
			}

			if config.TemplatePath != tt.wantTemplate {
				t.Errorf("模板路径 = %v, 期望 %v", config.TemplatePath, tt.wantTemplate)
			}
			if config.StartDate != tt.wantStart {
				t.Errorf("开始日期 = %v, 期望 %v", config.StartDate, tt.wantStart)
			}
			if config.OutputDir != tt.wantOutput {
				t.Errorf("输出目录 = %v, 期望 %v", config.OutputDir, tt.wantOutput)
			}
			if config.Calendar.Source != tt.wantCalendar {
				t.Errorf("日历来源 = %v, 期望 %v", config.Calendar.Source, tt.wantCalendar)
			}
			if config.Mode != domain.ModeMonthlyLastWorkday {
				t.Errorf("模式 = %v, 期望 %v", config.Mode, domain.ModeMonthlyLastWorkday)
			}
		})
	}
}

func TestConfigManager_LoadConfig_FileNotFound(t *testing.T) {
	manager := NewConfigManager()
	_, err := manager.LoadConfig("nonexistent.json")
	if err == nil {
		t.Errorf("期望文件不存在错误，但没有错误")
	}
}

func TestConfigManager_LoadConfig_InvalidPath(t *testing.T) {
	manager := NewConfigManager()
	_, err := manager.LoadConfig("")
	if err == nil {
		t.Errorf("期望路径无效错误，但没有错误")
	}
}

func TestConfig_Apply(t *testing.T) {
	config := DefaultConfig()
	config.StartDate = "2024-01-01"
	config.EndDate = "2024-12-31"

	config.Apply(Overrides{
		TemplatePath: "other.docx",
		EndDate:      "2024-06-30",
		CalendarMode: "Weekday",
	})

	if config.TemplatePath != "other.docx" {
		t.Errorf("模板路径 = %v", config.TemplatePath)
	}
	if config.StartDate != "2024-01-01" {
		t.Errorf("未覆盖的开始日期被修改: %v", config.StartDate)
	}
	if config.EndDate != "2024-06-30" {
		t.Errorf("结束日期 = %v", config.EndDate)
	}
	if config.OutputDir != DefaultOutputDir {
		t.Errorf("输出目录 = %v", config.OutputDir)
	}
	if config.Calendar.Source != workday.SourceWeekday {
		t.Errorf("日历来源 = %v", config.Calendar.Source)
	}
}
