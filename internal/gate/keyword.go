package gate

import (
	"regexp"

	"signalradar/internal/domain"
)

// KeywordGate matches post text against the pain category registry. A post
// passes when at least one category matches; every matched category is
// reported, in the fixed registry order.
type KeywordGate struct {
	patterns map[domain.PainCategory][]*regexp.Regexp
}

func NewKeywordGate() *KeywordGate {
	patterns := make(map[domain.PainCategory][]*regexp.Regexp, len(rawKeywordPatterns))
	for cat, raw := range rawKeywordPatterns {
		patterns[cat] = compilePatterns(raw)
	}
	return &KeywordGate{patterns: patterns}
}

// Categories returns every pain category with at least one pattern hit in
// text. The slice follows the order of domain.AllPainCategories so repeated
// runs over the same text produce identical output.
func (g *KeywordGate) Categories(text string) []domain.PainCategory {
	var matched []domain.PainCategory
	for _, cat := range domain.AllPainCategories {
		for _, re := range g.patterns[cat] {
			if re.MatchString(text) {
				matched = append(matched, cat)
				break
			}
		}
	}
	return matched
}
