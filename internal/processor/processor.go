package processor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/allanpk716/docx_reportgen/internal/domain"
	"github.com/allanpk716/docx_reportgen/internal/matcher"
	"github.com/allanpk716/docx_reportgen/pkg/docx"
)

// ErrMissingTemplate 模板文件不存在
var ErrMissingTemplate = errors.New("无法找到模板文件")

// templateDoc 已打开的模板文档
type templateDoc interface {
	Units() []domain.StyledTextUnit
	SaveAs(outputPath string) error
	Close() error
}

func openTemplate(path string) (templateDoc, error) {
	doc, err := docx.OpenDocument(path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// documentGenerator 文档生成器实现
type documentGenerator struct {
	resolver domain.PlaceholderResolver
	logger   *zap.Logger
	open     func(path string) (templateDoc, error)
}

// NewDocumentGenerator 创建新的文档生成器
func NewDocumentGenerator(resolver domain.PlaceholderResolver, logger *zap.Logger) domain.DocumentGenerator {
	if resolver == nil {
		resolver = matcher.NewPlaceholderEngine()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &documentGenerator{
		resolver: resolver,
		logger:   logger,
		open:     openTemplate,
	}
}

// Generate 加载模板、替换占位符并保存到 outputPath。
// 模板不存在时返回 ErrMissingTemplate，不写入任何文件。
func (dg *documentGenerator) Generate(ctx context.Context, templatePath, outputPath string, data *domain.ContextMap) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if templatePath == "" {
		return fmt.Errorf("模板路径不能为空")
	}
	if outputPath == "" {
		return fmt.Errorf("输出路径不能为空")
	}

	if _, err := os.Stat(templatePath); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w %s", ErrMissingTemplate, templatePath)
	}

	doc, err := dg.open(templatePath)
	if err != nil {
		return fmt.Errorf("加载模板失败: %w", err)
	}
	defer func() {
		if err := doc.Close(); err != nil {
			dg.logger.Debug("关闭模板失败", zap.String("template", templatePath), zap.Error(err))
		}
	}()

	stats := RewriteUnits(doc.Units(), dg.resolver, data)
	dg.logger.Debug("占位符替换完成",
		zap.String("template", templatePath),
		zap.Int("units", stats.Units),
		zap.Int("rewritten", stats.Rewritten))

	if err := doc.SaveAs(outputPath); err != nil {
		_ = os.Remove(outputPath)
		return fmt.Errorf("保存文档失败: %w", err)
	}

	return nil
}
