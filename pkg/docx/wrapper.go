package docx

import (
	"fmt"
	"os"
	"strings"

	"github.com/gomutex/godocx"
	ndocx "github.com/nguyenthenguyen/docx"

	"github.com/allanpk716/docx_reportgen/internal/domain"
)

// Document 包装 nguyenthenguyen/docx，提供段落级别的文本读写
type Document struct {
	reader   *ndocx.ReplaceDocx
	editable *ndocx.Docx
	body     *Body
	filePath string
}

// OpenDocument 打开DOCX文档
func OpenDocument(filePath string) (*Document, error) {
	reader, err := ndocx.ReadDocxFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("打开文档失败: %w", err)
	}

	editable := reader.Editable()
	return &Document{
		reader:   reader,
		editable: editable,
		body:     ParseBody(editable.GetContent()),
		filePath: filePath,
	}, nil
}

// Units 返回正文段落与表格单元格段落
func (d *Document) Units() []domain.StyledTextUnit {
	paragraphs := d.body.Paragraphs()
	units := make([]domain.StyledTextUnit, 0, len(paragraphs))
	for _, p := range paragraphs {
		units = append(units, p)
	}
	return units
}

// Body 段落视图
func (d *Document) Body() *Body {
	return d.body
}

// Text 文档正文的纯文本，段落之间以换行分隔
func (d *Document) Text() string {
	paragraphs := d.body.Paragraphs()
	lines := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		lines = append(lines, p.Text())
	}
	return strings.Join(lines, "\n")
}

// SaveAs 保存文档到指定路径
func (d *Document) SaveAs(outputPath string) error {
	if d.editable == nil {
		return fmt.Errorf("文档未打开")
	}

	if d.body.Modified() {
		d.editable.SetContent(d.body.String())
	}

	if err := d.editable.WriteToFile(outputPath); err != nil {
		return fmt.Errorf("保存文档失败: %w", err)
	}
	return nil
}

// Close 关闭文档
func (d *Document) Close() error {
	if d.reader != nil {
		err := d.reader.Close()
		d.reader = nil
		d.editable = nil
		return err
	}
	return nil
}

// ValidateTemplate 检查模板文件存在且能被解析为 Word 文档
func ValidateTemplate(filePath string) error {
	if filePath == "" {
		return fmt.Errorf("模板路径不能为空")
	}
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("模板文件不可用: %w", err)
	}

	doc, err := godocx.OpenDocument(filePath)
	if err != nil {
		return fmt.Errorf("无法解析模板文档: %w", err)
	}
	return doc.Close()
}
