package docx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allanpk716/docx_reportgen/pkg/docx/docxtest"
)

func TestDocument_OpenModifySave(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "template.docx")
	output := filepath.Join(dir, "output.docx")

	docxtest.WriteDocx(t, input,
		docxtest.Paragraph("{{ye", "ar}}年度")+
			docxtest.Table(docxtest.Paragraph("工作日 {{workday_count}}")))

	doc, err := OpenDocument(input)
	require.NoError(t, err)
	defer doc.Close()

	units := doc.Units()
	require.Len(t, units, 2)
	assert.Equal(t, "{{year}}年度\n工作日 {{workday_count}}", doc.Text())

	units[0].SetText("2024年度")
	units[1].SetText("工作日 22")

	require.NoError(t, doc.SaveAs(output))

	xml := docxtest.ReadDocumentXML(t, output)
	assert.Contains(t, xml, "2024年度")
	assert.Contains(t, xml, "工作日 22")
	assert.NotContains(t, xml, "{{")

	// 模板本身不变
	assert.Contains(t, docxtest.ReadDocumentXML(t, input), "{{ye")
}

func TestDocument_SaveUnmodified(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "template.docx")
	output := filepath.Join(dir, "copy.docx")
	docxtest.WriteDocx(t, input, docxtest.Paragraph("无占位符"))

	doc, err := OpenDocument(input)
	require.NoError(t, err)
	defer doc.Close()

	require.NoError(t, doc.SaveAs(output))
	assert.Equal(t, docxtest.ReadDocumentXML(t, input), docxtest.ReadDocumentXML(t, output))
}

func TestDocument_Close(t *testing.T) {
	input := filepath.Join(t.TempDir(), "template.docx")
	docxtest.WriteDocx(t, input, docxtest.Paragraph("x"))

	doc, err := OpenDocument(input)
	require.NoError(t, err)

	assert.NoError(t, doc.Close())
	assert.NoError(t, doc.Close(), "重复关闭不应报错")
	assert.Error(t, doc.SaveAs(filepath.Join(t.TempDir(), "out.docx")))
}

func TestOpenDocument_InvalidFile(t *testing.T) {
	dir := t.TempDir()

	_, err := OpenDocument(filepath.Join(dir, "missing.docx"))
	assert.Error(t, err)

	notZip := filepath.Join(dir, "plain.docx")
	require.NoError(t, os.WriteFile(notZip, []byte("not a zip"), 0644))
	_, err = OpenDocument(notZip)
	assert.Error(t, err)
}

func TestValidateTemplate_Missing(t *testing.T) {
	assert.Error(t, ValidateTemplate(""))
	assert.Error(t, ValidateTemplate(filepath.Join(t.TempDir(), "missing.docx")))
}
