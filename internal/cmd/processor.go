package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/allanpk716/docx_reportgen/internal/config"
	"github.com/allanpk716/docx_reportgen/internal/domain"
	"github.com/allanpk716/docx_reportgen/internal/report"
	"github.com/allanpk716/docx_reportgen/internal/schedule"
)

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	dimColor  = color.New(color.FgCyan)
)

// BatchRunner 按调度顺序逐月生成月报
type BatchRunner struct {
	scheduler *schedule.Scheduler
	generator domain.DocumentGenerator
	out       io.Writer
	logger    *zap.Logger
}

// NewBatchRunner 创建批量生成器
func NewBatchRunner(scheduler *schedule.Scheduler, generator domain.DocumentGenerator, out io.Writer, logger *zap.Logger) *BatchRunner {
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchRunner{
		scheduler: scheduler,
		generator: generator,
		out:       out,
		logger:    logger,
	}
}

// Run 执行一次批量生成。
// 单个月报失败只记录在结果中，不影响后续日期；上下文取消时立即返回已完成的结果
func (br *BatchRunner) Run(ctx context.Context, cfg *config.Config, r domain.DateRange) ([]domain.GenerationResult, error) {
	runID := uuid.NewString()
	logger := br.logger.With(
		zap.String("run_id", runID),
		zap.String("project", cfg.ProjectName),
		zap.String("template", cfg.TemplatePath),
		zap.String("output_dir", cfg.OutputDir),
	)

	// 创建输出目录
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}

	logger.Info("开始生成月报",
		zap.Time("start", r.Start),
		zap.Time("end", r.End))

	var results []domain.GenerationResult
	for target := range br.scheduler.Enumerate(r) {
		if err := ctx.Err(); err != nil {
			logger.Warn("生成被取消", zap.Int("completed", len(results)))
			return results, err
		}

		fileName := report.FileName(target.Date)
		outputPath := filepath.Join(cfg.OutputDir, fileName)

		err := br.generator.Generate(ctx, cfg.TemplatePath, outputPath, report.BuildContext(target))
		results = append(results, domain.GenerationResult{
			Target:     target,
			FileName:   fileName,
			OutputPath: outputPath,
			Err:        err,
		})

		if err != nil {
			failColor.Fprintf(br.out, "生成失败：%s | %v\n", fileName, err)
			logger.Error("生成月报失败",
				zap.String("file", fileName),
				zap.Int("sequence_index", target.SequenceIndex),
				zap.Error(err))
			continue
		}

		okColor.Fprintf(br.out, "生成：%s | 序号: %d | 工作日: %d天\n",
			fileName, target.SequenceIndex, target.WorkdayCount)
		logger.Debug("月报已生成",
			zap.String("path", outputPath),
			zap.Time("date", target.Date))
	}

	failed := countFailed(results)
	logger.Info("月报生成完成",
		zap.Int("total", len(results)),
		zap.Int("failed", failed))

	if cfg.ManifestPath != "" {
		if err := report.WriteManifest(cfg.ManifestPath, results); err != nil {
			return results, fmt.Errorf("写入清单失败: %w", err)
		}
		logger.Info("清单已写入", zap.String("manifest", cfg.ManifestPath))
	}

	return results, nil
}

// DryRun 只打印调度结果，不生成文件
func (br *BatchRunner) DryRun(r domain.DateRange) []domain.TargetDate {
	targets := br.scheduler.Collect(r)
	for _, target := range targets {
		dimColor.Fprintf(br.out, "%s %s | 序号: %d | 工作日: %d天 | %s\n",
			target.Date.Format("2006-01-02"),
			report.WeekdayName(target.Date),
			target.SequenceIndex,
			target.WorkdayCount,
			report.FileName(target.Date))
	}
	return targets
}

func countFailed(results []domain.GenerationResult) int {
	n := 0
	for _, r := range results {
		if !r.Succeeded() {
			n++
		}
	}
	return n
}
