package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/allanpk716/docx_reportgen/internal/cmd"
	"github.com/allanpk716/docx_reportgen/internal/config"
	"github.com/allanpk716/docx_reportgen/internal/domain"
	"github.com/allanpk716/docx_reportgen/internal/matcher"
	"github.com/allanpk716/docx_reportgen/internal/processor"
	"github.com/allanpk716/docx_reportgen/internal/schedule"
	"github.com/allanpk716/docx_reportgen/internal/workday"
	"github.com/allanpk716/docx_reportgen/pkg/docx"
)

var (
	args   cmd.CommandLineArgs
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:     cmd.AppName,
	Short:   "按月最后一个工作日批量生成 DOCX 月报",
	Version: cmd.AppVersion,
	Long: `docx-reportgen 根据一个 DOCX 模板，为日期范围内每个月的最后一个工作日生成一份月报。

模板中支持的占位符：
  {{date}} {{year}} {{month}} {{month_index}} {{day}} {{weekday}} {{workday_count}}
  {{random:A-B}}  A 到 B 之间的随机整数或小数`,
	SilenceUsage: true,
	PersistentPreRunE: func(c *cobra.Command, _ []string) error {
		zc := zap.NewProductionConfig()
		if args.Verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("初始化日志失败: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(c *cobra.Command, _ []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runGenerate,
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "预览生成日期，不写入任何文件",
	RunE: func(c *cobra.Command, _ []string) error {
		args.DryRun = true
		return runGenerate(c, nil)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "检查配置和模板，列出模板中的占位符",
	RunE:  runCheck,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&args.ConfigFile, "config", "c", "", "配置文件路径（.yaml/.toml/.json）")
	pf.StringVar(&args.Template, "template", "", "模板文件路径")
	pf.StringVar(&args.Start, "start", "", "开始日期，如 2024-8-01")
	pf.StringVar(&args.End, "end", "", "结束日期，如 2025-10-23")
	pf.StringVar(&args.Output, "output", "", "输出目录")
	pf.StringVar(&args.Manifest, "manifest", "", "生成清单 xlsx 路径")
	pf.StringVar(&args.Calendar, "calendar", "", "节假日数据来源：builtin、file、weekday")
	pf.BoolVarP(&args.Verbose, "verbose", "v", false, "详细输出")

	rootCmd.Flags().BoolVar(&args.DryRun, "dry-run", false, "只打印生成计划")

	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newScheduler 根据配置选择工作日策略
func newScheduler(cfg *config.Config) (*schedule.Scheduler, error) {
	policy, err := workday.SelectPolicy(cfg.Calendar.Source, cfg.Calendar.HolidayFile, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("工作日策略", zap.String("policy", policy.Name()))
	return schedule.NewScheduler(workday.NewCalendar(policy)), nil
}

func runGenerate(c *cobra.Command, _ []string) error {
	cfg, r, err := cmd.ResolveConfig(&args)
	if err != nil {
		return err
	}

	scheduler, err := newScheduler(cfg)
	if err != nil {
		return err
	}

	generator := processor.NewDocumentGenerator(matcher.NewPlaceholderEngine(), logger)
	runner := cmd.NewBatchRunner(scheduler, generator, c.OutOrStdout(), logger)

	if args.DryRun {
		targets := runner.DryRun(r)
		fmt.Fprintf(c.OutOrStdout(), "共 %d 份月报\n", len(targets))
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := runner.Run(ctx, cfg, r)
	if err != nil {
		return err
	}

	printSummary(c, results)
	return nil
}

func printSummary(c *cobra.Command, results []domain.GenerationResult) {
	failed := 0
	for _, r := range results {
		if !r.Succeeded() {
			failed++
		}
	}
	if failed > 0 {
		color.New(color.FgYellow).Fprintf(c.OutOrStdout(), "完成：%d 份成功，%d 份失败\n", len(results)-failed, failed)
		return
	}
	fmt.Fprintf(c.OutOrStdout(), "完成：共生成 %d 份月报\n", len(results))
}

func runCheck(c *cobra.Command, _ []string) error {
	cfg, r, err := cmd.ResolveConfig(&args)
	if err != nil {
		return err
	}
	out := c.OutOrStdout()

	if _, err := newScheduler(cfg); err != nil {
		return err
	}

	if err := docx.ValidateTemplate(cfg.TemplatePath); err != nil {
		return err
	}

	placeholders, err := cmd.InspectTemplate(cfg.TemplatePath)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "模板：%s\n", cfg.TemplatePath)
	fmt.Fprintf(out, "日期范围：%s 至 %s\n", r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	fmt.Fprintf(out, "可替换占位符：%v\n", placeholders.Known)
	fmt.Fprintf(out, "随机数占位符：%v\n", placeholders.Random)
	if len(placeholders.Unknown) > 0 {
		color.New(color.FgYellow).Fprintf(out, "无法替换的占位符：%v\n", placeholders.Unknown)
	}
	return nil
}
