package matcher

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/allanpk716/docx_reportgen/internal/domain"
)

// OpenMarker 占位符起始标记
const OpenMarker = "{{"

// maxExactInt 整数范围的上限，保证 float64 表示无损
const maxExactInt = 1 << 53

// ErrMalformedRandomToken 随机数占位符格式错误
var ErrMalformedRandomToken = errors.New("随机数占位符格式错误")

// randomPattern 匹配 {{random:A-B}}，A、B 为整数或小数
var randomPattern = regexp.MustCompile(`\{\{random:([\d.\-]+)\}\}`)

// namedPattern 匹配 {{key}}
var namedPattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// RandomSource 随机数来源
type RandomSource interface {
	Int64N(n int64) int64
	Float64() float64
}

type globalSource struct{}

func (globalSource) Int64N(n int64) int64 { return rand.Int64N(n) }
func (globalSource) Float64() float64     { return rand.Float64() }

// Match 表示一个随机数占位符匹配项
type Match struct {
	Token       string
	Replacement string
	StartPos    int
	EndPos      int
}

// placeholderEngine 占位符解析器实现
type placeholderEngine struct {
	source RandomSource
}

// NewPlaceholderEngine 创建新的占位符解析器
func NewPlaceholderEngine() domain.PlaceholderResolver {
	return &placeholderEngine{source: globalSource{}}
}

// NewPlaceholderEngineWithSource 使用指定随机数来源创建占位符解析器
func NewPlaceholderEngineWithSource(source RandomSource) domain.PlaceholderResolver {
	if source == nil {
		source = globalSource{}
	}
	return &placeholderEngine{source: source}
}

// Resolve 先解析随机数占位符，再替换命名占位符
func (pe *placeholderEngine) Resolve(text string, data *domain.ContextMap) string {
	if !strings.Contains(text, OpenMarker) {
		return text
	}

	result := ReplaceMatches(text, pe.FindMatches(text))

	data.Each(func(key, value string) {
		result = strings.ReplaceAll(result, OpenMarker+key+"}}", value)
	})

	return result
}

// FindMatches 查找所有随机数占位符并生成各自的随机值，格式错误的占位符不计入
func (pe *placeholderEngine) FindMatches(text string) []Match {
	var matches []Match

	for _, loc := range randomPattern.FindAllStringSubmatchIndex(text, -1) {
		token, err := ParseRandomToken(text[loc[2]:loc[3]])
		if err != nil {
			// 保留原文
			continue
		}
		matches = append(matches, Match{
			Token:       text[loc[0]:loc[1]],
			Replacement: pe.draw(token),
			StartPos:    loc[0],
			EndPos:      loc[1],
		})
	}

	// 按位置排序，从后往前替换避免位置偏移
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].StartPos > matches[j].StartPos
	})

	return matches
}

// ReplaceMatches 根据匹配结果替换内容，matches 须按位置倒序
func ReplaceMatches(content string, matches []Match) string {
	result := content

	for _, match := range matches {
		if match.StartPos >= 0 && match.EndPos <= len(result) {
			result = result[:match.StartPos] + match.Replacement + result[match.EndPos:]
		}
	}

	return result
}

// draw 按占位符范围生成随机值
func (pe *placeholderEngine) draw(token domain.RandomToken) string {
	if token.IsDecimal {
		val := token.Low + (token.High-token.Low)*pe.source.Float64()
		return strconv.FormatFloat(val, 'f', token.Precision, 64)
	}
	low, high := int64(token.Low), int64(token.High)
	return strconv.FormatInt(low+pe.source.Int64N(high-low+1), 10)
}

// ParseRandomToken 解析 "A-B" 形式的随机数范围。
// 任一端带小数点即按小数处理，保留位数取自 A 的小数位数（A 为整数时取整）。
// 整数范围的上限不能超过 2^53，超出视为格式错误
func ParseRandomToken(spec string) (domain.RandomToken, error) {
	parts := strings.Split(spec, "-")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return domain.RandomToken{}, fmt.Errorf("%w: %q", ErrMalformedRandomToken, spec)
	}
	start, end := parts[0], parts[1]

	if strings.Contains(start, ".") || strings.Contains(end, ".") {
		low, err := strconv.ParseFloat(start, 64)
		if err != nil {
			return domain.RandomToken{}, fmt.Errorf("%w: %q: %v", ErrMalformedRandomToken, spec, err)
		}
		high, err := strconv.ParseFloat(end, 64)
		if err != nil {
			return domain.RandomToken{}, fmt.Errorf("%w: %q: %v", ErrMalformedRandomToken, spec, err)
		}
		if low > high {
			return domain.RandomToken{}, fmt.Errorf("%w: %q 下限大于上限", ErrMalformedRandomToken, spec)
		}
		return domain.RandomToken{Low: low, High: high, IsDecimal: true, Precision: fractionDigits(start)}, nil
	}

	low, err := strconv.ParseInt(start, 10, 64)
	if err != nil {
		return domain.RandomToken{}, fmt.Errorf("%w: %q: %v", ErrMalformedRandomToken, spec, err)
	}
	high, err := strconv.ParseInt(end, 10, 64)
	if err != nil {
		return domain.RandomToken{}, fmt.Errorf("%w: %q: %v", ErrMalformedRandomToken, spec, err)
	}
	if low > high {
		return domain.RandomToken{}, fmt.Errorf("%w: %q 下限大于上限", ErrMalformedRandomToken, spec)
	}
	if high > maxExactInt {
		return domain.RandomToken{}, fmt.Errorf("%w: %q 超出范围", ErrMalformedRandomToken, spec)
	}
	return domain.RandomToken{Low: float64(low), High: float64(high)}, nil
}

func fractionDigits(s string) int {
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return len(s) - i - 1
}

// ExtractPlaceholders 提取文本中的所有占位符名称（去重，按出现顺序）
func ExtractPlaceholders(text string) []string {
	var names []string
	seen := make(map[string]bool)

	for _, m := range namedPattern.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	return names
}
