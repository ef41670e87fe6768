package processor

import (
	"strings"

	"github.com/allanpk716/docx_reportgen/internal/domain"
	"github.com/allanpk716/docx_reportgen/internal/matcher"
)

// RewriteStats 段落改写统计
type RewriteStats struct {
	Units     int
	Rewritten int
}

// RewriteUnits 对每个包含占位符的文本单元：读取完整文本、解析占位符、写回单个 run
func RewriteUnits(units []domain.StyledTextUnit, resolver domain.PlaceholderResolver, data *domain.ContextMap) RewriteStats {
	stats := RewriteStats{Units: len(units)}

	for _, unit := range units {
		text := unit.Text()
		if !strings.Contains(text, matcher.OpenMarker) {
			continue
		}

		unit.SetText(resolver.Resolve(text, data))
		stats.Rewritten++
	}

	return stats
}
