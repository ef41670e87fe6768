package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/allanpk716/docx_reportgen/internal/domain"
	"github.com/allanpk716/docx_reportgen/internal/matcher"
	"github.com/allanpk716/docx_reportgen/pkg/docx/docxtest"
)

// MockResolver 用于测试的模拟占位符解析器
type MockResolver struct {
	calls []string
}

func (m *MockResolver) Resolve(text string, data *domain.ContextMap) string {
	m.calls = append(m.calls, text)
	return strings.ToUpper(text)
}

// mockUnit 内存中的文本单元
type mockUnit struct {
	text    string
	setText int
}

func (u *mockUnit) Text() string { return u.text }

func (u *mockUnit) SetText(text string) {
	u.text = text
	u.setText++
}

func monthContext() *domain.ContextMap {
	cm := domain.NewContextMap()
	cm.Set("date", "2024年08月30日")
	cm.Set("year", 2024)
	cm.Set("month", "08")
	cm.Set("month_index", 1)
	cm.Set("day", 30)
	cm.Set("weekday", "星期五")
	cm.Set("workday_count", 22)
	return cm
}

func TestNewDocumentGenerator(t *testing.T) {
	generator := NewDocumentGenerator(nil, nil)
	if generator == nil {
		t.Error("NewDocumentGenerator 返回 nil")
	}

	// 验证接口实现
	var _ domain.DocumentGenerator = generator
}

func TestRewriteUnits(t *testing.T) {
	units := []*mockUnit{
		{text: "no placeholder"},
		{text: "has {{key}}"},
		{text: "half {marker}"},
		{text: "{{"},
	}
	resolver := &MockResolver{}

	asUnits := make([]domain.StyledTextUnit, 0, len(units))
	for _, u := range units {
		asUnits = append(asUnits, u)
	}

	stats := RewriteUnits(asUnits, resolver, domain.NewContextMap())

	assert.Equal(t, RewriteStats{Units: 4, Rewritten: 2}, stats)
	assert.Equal(t, []string{"has {{key}}", "{{"}, resolver.calls)

	assert.Equal(t, 0, units[0].setText)
	assert.Equal(t, "HAS {{KEY}}", units[1].text)
	assert.Equal(t, 1, units[1].setText)
	assert.Equal(t, 0, units[2].setText)
	assert.Equal(t, 1, units[3].setText)
}

func TestDocumentGenerator_Generate(t *testing.T) {
	dir := t.TempDir()
	template := filepath.Join(dir, "月报模板.docx")
	output := filepath.Join(dir, "2024年08月网络安全月报.docx")

	docxtest.WriteDocx(t, template,
		docxtest.Paragraph("网络安全月报（第{{month", "_index}}期）")+
			docxtest.Paragraph("报告日期：", "{{date}} {{weekday}}")+
			docxtest.Table(
				docxtest.Paragraph("本月工作日"),
				docxtest.Paragraph("{{workday_count}}天"),
				docxtest.Paragraph("CPU {{random:10-20}}%"),
			)+
			docxtest.Paragraph("{{unknown}} 保持原样")+
			docxtest.Paragraph("无占位符段落"))

	generator := NewDocumentGenerator(matcher.NewPlaceholderEngine(), nil)
	require.NoError(t, generator.Generate(context.Background(), template, output, monthContext()))

	xml := docxtest.ReadDocumentXML(t, output)
	assert.Contains(t, xml, "网络安全月报（第1期）")
	assert.Contains(t, xml, "报告日期：2024年08月30日 星期五")
	assert.Contains(t, xml, "22天")
	assert.Contains(t, xml, "{{unknown}} 保持原样")
	assert.Contains(t, xml, "无占位符段落")
	assert.NotContains(t, xml, "{{random")
	assert.NotContains(t, xml, "{{month")
	assert.Regexp(t, `CPU (1\d|20)%`, xml)
}

func TestDocumentGenerator_Generate_MissingTemplate(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "output.docx")
	generator := NewDocumentGenerator(nil, nil)

	err := generator.Generate(context.Background(), filepath.Join(dir, "nonexistent.docx"), output, monthContext())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingTemplate)
	assert.Contains(t, err.Error(), "nonexistent.docx")

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "模板不存在时不应写入输出文件")
}

func TestDocumentGenerator_Generate_InvalidArgs(t *testing.T) {
	generator := NewDocumentGenerator(nil, nil)
	ctx := context.Background()

	assert.Error(t, generator.Generate(ctx, "", "output.docx", monthContext()))
	assert.Error(t, generator.Generate(ctx, "template.docx", "", monthContext()))
}

func TestDocumentGenerator_Generate_CorruptTemplate(t *testing.T) {
	dir := t.TempDir()
	template := filepath.Join(dir, "broken.docx")
	require.NoError(t, os.WriteFile(template, []byte{}, 0644))

	err := NewDocumentGenerator(nil, nil).Generate(context.Background(), template, filepath.Join(dir, "out.docx"), monthContext())

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingTemplate)
}

func TestDocumentGenerator_Generate_ContextCancellation(t *testing.T) {
	dir := t.TempDir()
	template := filepath.Join(dir, "template.docx")
	docxtest.WriteDocx(t, template, docxtest.Paragraph("{{year}}"))

	// 创建一个已取消的上下文
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewDocumentGenerator(nil, nil).Generate(ctx, template, filepath.Join(dir, "out.docx"), monthContext())
	assert.ErrorIs(t, err, context.Canceled)
}

// closeFailingTemplate 关闭时返回错误的模板
type closeFailingTemplate struct {
	units []domain.StyledTextUnit
	saved string
}

func (f *closeFailingTemplate) Units() []domain.StyledTextUnit { return f.units }

func (f *closeFailingTemplate) SaveAs(outputPath string) error {
	f.saved = outputPath
	return nil
}

func (f *closeFailingTemplate) Close() error { return errors.New("zip 已损坏") }

func TestDocumentGenerator_Generate_CloseErrorLogged(t *testing.T) {
	dir := t.TempDir()
	templatePath := filepath.Join(dir, "template.docx")
	require.NoError(t, os.WriteFile(templatePath, []byte("stub"), 0644))

	core, logs := observer.New(zapcore.DebugLevel)
	unit := &mockUnit{text: "{{year}}"}
	fake := &closeFailingTemplate{units: []domain.StyledTextUnit{unit}}

	generator := NewDocumentGenerator(matcher.NewPlaceholderEngine(), zap.New(core)).(*documentGenerator)
	generator.open = func(string) (templateDoc, error) { return fake, nil }

	output := filepath.Join(dir, "out.docx")
	require.NoError(t, generator.Generate(context.Background(), templatePath, output, monthContext()))

	assert.Equal(t, "2024", unit.text)
	assert.Equal(t, output, fake.saved)

	entries := logs.FilterMessage("关闭模板失败").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, templatePath, entries[0].ContextMap()["template"])
	assert.Equal(t, "zip 已损坏", entries[0].ContextMap()["error"])
}

// 基准测试
func BenchmarkDocumentGenerator_Generate(b *testing.B) {
	dir := b.TempDir()
	template := filepath.Join(dir, "template.docx")
	output := filepath.Join(dir, "output.docx")
	docxtest.WriteDocx(b, template, strings.Repeat(docxtest.Paragraph("{{date}} ", "{{random:1.0-9.9}}"), 200))

	generator := NewDocumentGenerator(nil, nil)
	data := monthContext()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = generator.Generate(ctx, template, output, data)
	}
}
