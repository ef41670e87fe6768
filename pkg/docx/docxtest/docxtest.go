// Package docxtest 为测试构造最小的 DOCX 文件
package docxtest

import (
	"archive/zip"
	"io"
	"os"
	"strings"
	"testing"
)

const documentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const documentFooter = `<w:sectPr/></w:body></w:document>`

// DocumentXML 用正文片段组装 document.xml
func DocumentXML(body string) string {
	return documentHeader + body + documentFooter
}

// WriteDocx 在 path 写入包含给定正文的 DOCX 文件
func WriteDocx(t testing.TB, path, body string) {
	t.Helper()

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("创建测试文件失败: %v", err)
	}
	defer file.Close()

	zipWriter := zip.NewWriter(file)

	files := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`},
		{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`},
		{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`},
		{"word/document.xml", DocumentXML(body)},
	}

	for _, f := range files {
		writer, err := zipWriter.Create(f.name)
		if err != nil {
			t.Fatalf("创建 %s 失败: %v", f.name, err)
		}
		if _, err := io.WriteString(writer, f.content); err != nil {
			t.Fatalf("写入 %s 失败: %v", f.name, err)
		}
	}

	if err := zipWriter.Close(); err != nil {
		t.Fatalf("关闭 ZIP 失败: %v", err)
	}
}

// ReadDocumentXML 读取 DOCX 文件中的 word/document.xml
func ReadDocumentXML(t testing.TB, path string) string {
	t.Helper()

	reader, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("打开 DOCX 文件失败: %v", err)
	}
	defer reader.Close()

	for _, f := range reader.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("打开 document.xml 失败: %v", err)
		}
		defer rc.Close()

		var sb strings.Builder
		if _, err := io.Copy(&sb, rc); err != nil {
			t.Fatalf("读取 document.xml 失败: %v", err)
		}
		return sb.String()
	}

	t.Fatalf("未找到 document.xml")
	return ""
}

// Paragraph 生成由多个 run 组成的段落，每个 run 带加粗或空格式
func Paragraph(runs ...string) string {
	var sb strings.Builder
	sb.WriteString("<w:p>")
	for i, r := range runs {
		if i == 0 {
			sb.WriteString(`<w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">` + r + `</w:t></w:r>`)
		} else {
			sb.WriteString(`<w:r><w:rPr><w:i/></w:rPr><w:t xml:space="preserve">` + r + `</w:t></w:r>`)
		}
	}
	sb.WriteString("</w:p>")
	return sb.String()
}

// Table 生成单行表格，每个单元格包含一个段落
func Table(cells ...string) string {
	var sb strings.Builder
	sb.WriteString("<w:tbl><w:tr>")
	for _, c := range cells {
		sb.WriteString("<w:tc><w:tcPr/>" + c + "</w:tc>")
	}
	sb.WriteString("</w:tr></w:tbl>")
	return sb.String()
}
