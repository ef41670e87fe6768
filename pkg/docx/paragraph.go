package docx

import (
	"html"
	"regexp"
	"strings"
)

var (
	// 段落与表格单元格标签
	blockTagPattern = regexp.MustCompile(`<w:(p|tc)(?:\s[^>]*)?/?>|</w:(p|tc)>`)
	// run 标签，不匹配 <w:rPr> 等
	runTagPattern = regexp.MustCompile(`<w:r(?:\s[^>]*)?/?>|</w:r>`)
	// run 中的文本、制表符与换行
	runTextPattern = regexp.MustCompile(`<w:t(?:\s[^>]*)?>([^<]*)</w:t>|<w:tab(?:\s[^>]*)?/>|<w:(?:br|cr)(?:\s[^>]*)?/>`)
	// run 属性，使用贪婪匹配以包含 <w:rPrChange> 中嵌套的 <w:rPr>
	runPropsPattern = regexp.MustCompile(`(?s)^\s*(?:<w:rPr(?:\s[^>]*)?/>|<w:rPr(?:\s[^>]*)?>.*</w:rPr>)`)
	// 段落属性
	paraPropsPattern = regexp.MustCompile(`(?s)^\s*(?:<w:pPr(?:\s[^>]*)?/>|<w:pPr(?:\s[^>]*)?>.*?</w:pPr>)`)
)

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// run 段落中的一个格式片段
type run struct {
	start, end int // 在段落 XML 中的位置
	openTag    string
	inner      string
}

func (r run) text() string {
	var sb strings.Builder
	for _, m := range runTextPattern.FindAllStringSubmatch(r.inner, -1) {
		switch {
		case strings.HasPrefix(m[0], "<w:tab"):
			sb.WriteString("\t")
		case strings.HasPrefix(m[0], "<w:br"), strings.HasPrefix(m[0], "<w:cr"):
			sb.WriteString("\n")
		default:
			sb.WriteString(html.UnescapeString(m[1]))
		}
	}
	return sb.String()
}

func (r run) props() string {
	return runPropsPattern.FindString(r.inner)
}

// Paragraph 文档中的一个段落（<w:p>），实现 domain.StyledTextUnit
type Paragraph struct {
	start, end int // 在 document.xml 中的位置
	raw        string
	runs       []run
	inTable    bool
	modified   bool
}

func newParagraph(raw string, start, end int, inTable bool) *Paragraph {
	p := &Paragraph{start: start, end: end, raw: raw, inTable: inTable}
	p.runs = parseRuns(raw)
	return p
}

func parseRuns(raw string) []run {
	var runs []run
	open := -1
	openTag := ""

	for _, loc := range runTagPattern.FindAllStringIndex(raw, -1) {
		tag := raw[loc[0]:loc[1]]
		switch {
		case tag == "</w:r>":
			if open >= 0 {
				runs = append(runs, run{
					start:   open,
					end:     loc[1],
					openTag: openTag,
					inner:   raw[open+len(openTag) : loc[0]],
				})
				open = -1
			}
		case strings.HasSuffix(tag, "/>"):
			if open < 0 {
				runs = append(runs, run{
					start:   loc[0],
					end:     loc[1],
					openTag: strings.TrimSuffix(tag, "/>") + ">",
				})
			}
		default:
			open = loc[0]
			openTag = tag
		}
	}

	return runs
}

// Text 段落中所有 run 拼接后的文本
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.runs {
		sb.WriteString(r.text())
	}
	return sb.String()
}

// SetText 将文本写入第一个 run 并清空其余 run，第一个 run 的格式作用于全部文本。
// 没有 run 的段落会新建一个 run。
func (p *Paragraph) SetText(text string) {
	content := renderRunContent(text)

	if len(p.runs) == 0 {
		openEnd := strings.Index(p.raw, ">") + 1
		openTag := p.raw[:openEnd]
		pPr := paraPropsPattern.FindString(p.raw[openEnd:])
		p.raw = openTag + pPr + "<w:r>" + content + "</w:r></w:p>"
	} else {
		raw := p.raw
		for i := len(p.runs) - 1; i >= 0; i-- {
			r := p.runs[i]
			rebuilt := r.openTag + r.props()
			if i == 0 {
				rebuilt += content
			}
			rebuilt += "</w:r>"
			raw = raw[:r.start] + rebuilt + raw[r.end:]
		}
		p.raw = raw
	}

	p.runs = parseRuns(p.raw)
	p.modified = true
}

// InTable 段落是否位于表格单元格中
func (p *Paragraph) InTable() bool {
	return p.inTable
}

// XML 段落当前的 XML
func (p *Paragraph) XML() string {
	return p.raw
}

// renderRunContent 生成 run 内容，制表符与换行转为对应元素
func renderRunContent(text string) string {
	var sb strings.Builder
	var segment strings.Builder

	flush := func() {
		if segment.Len() > 0 {
			sb.WriteString(`<w:t xml:space="preserve">`)
			sb.WriteString(textEscaper.Replace(segment.String()))
			sb.WriteString(`</w:t>`)
			segment.Reset()
		}
	}

	for _, ch := range text {
		switch ch {
		case '\t':
			flush()
			sb.WriteString("<w:tab/>")
		case '\n':
			flush()
			sb.WriteString("<w:br/>")
		default:
			segment.WriteRune(ch)
		}
	}
	flush()

	return sb.String()
}

// Body document.xml 的段落视图
type Body struct {
	content    string
	paragraphs []*Paragraph
}

// ParseBody 解析 document.xml，收集正文与表格单元格中的段落。
// 包含嵌套段落（如文本框）的外层段落不收集，只收集其内部段落。
func ParseBody(content string) *Body {
	type openPara struct {
		start    int
		hasChild bool
	}

	body := &Body{content: content}
	var stack []*openPara
	cellDepth := 0

	for _, loc := range blockTagPattern.FindAllStringSubmatchIndex(content, -1) {
		tag := content[loc[0]:loc[1]]
		closing := strings.HasPrefix(tag, "</")
		selfClosing := strings.HasSuffix(tag, "/>")

		name := ""
		if loc[2] >= 0 {
			name = content[loc[2]:loc[3]]
		} else {
			name = content[loc[4]:loc[5]]
		}

		if name == "tc" {
			switch {
			case closing:
				if cellDepth > 0 {
					cellDepth--
				}
			case !selfClosing:
				cellDepth++
			}
			continue
		}

		switch {
		case selfClosing:
			if len(stack) > 0 {
				stack[len(stack)-1].hasChild = true
			}
		case closing:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !top.hasChild {
				body.paragraphs = append(body.paragraphs,
					newParagraph(content[top.start:loc[1]], top.start, loc[1], cellDepth > 0))
			}
		default:
			if len(stack) > 0 {
				stack[len(stack)-1].hasChild = true
			}
			stack = append(stack, &openPara{start: loc[0]})
		}
	}

	return body
}

// Paragraphs 按文档顺序返回段落
func (b *Body) Paragraphs() []*Paragraph {
	return b.paragraphs
}

// String 拼接修改后的 document.xml
func (b *Body) String() string {
	var sb strings.Builder
	pos := 0
	for _, p := range b.paragraphs {
		if !p.modified {
			continue
		}
		sb.WriteString(b.content[pos:p.start])
		sb.WriteString(p.raw)
		pos = p.end
	}
	sb.WriteString(b.content[pos:])
	return sb.String()
}

// Modified 是否有段落被修改
func (b *Body) Modified() bool {
	for _, p := range b.paragraphs {
		if p.modified {
			return true
		}
	}
	return false
}
