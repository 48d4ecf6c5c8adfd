package classify

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"newspipe/internal/region"
)

// keywordGroup is one scoring rule: any keyword hit adds Weight to
// Category and contributes Sub to the subcategory accumulator. Domain
// groups are the strong signals that may override an over-general
// enrichment label; the Event group feeds the region/society correction.
type keywordGroup struct {
	Category string
	Weight   int
	Sub      string
	Domain   bool
	Event    bool
	Keywords []string
}

// Scoring rules, consulted in order. Subcategories accumulate in this
// order too, so a stronger group's suggestion lands first.
var keywordGroups = []keywordGroup{
	{Category: CategoryFinance, Weight: 5, Sub: "금융지원", Domain: true,
		Keywords: []string{"금융", "세제", "대출", "펀드", "투자", "보조금"}},
	{Category: CategoryIndustry, Weight: 5, Sub: "안전관리", Domain: true,
		Keywords: []string{"재난", "안전", "사고", "산업재해", "치안", "보건"}},
	{Category: CategoryExport, Weight: 5, Sub: "수출", Domain: true,
		Keywords: []string{"수출", "무역", "해외", "글로벌", "무역수지"}},
	{Category: CategoryResearch, Weight: 5, Sub: "R&D", Domain: true,
		Keywords: []string{"r&d", "연구", "기술", "ai", "인공지능", "혁신", "제품화"}},
	{Category: CategoryPersonnel, Weight: 4, Sub: "채용", Domain: true,
		Keywords: []string{"노사", "임금", "채용", "고용", "노동", "복지"}},
	{Category: CategorySociety, Weight: 4, Sub: "행사", Event: true,
		Keywords: []string{"축제", "행사", "박람회", "공연", "문화제"}},
	{Category: CategorySociety, Weight: 3, Sub: "지역경제",
		Keywords: []string{"소상공인", "전통시장", "상권", "지역경제"}},
	{Category: CategoryRegulation, Weight: 3, Sub: "제도개선",
		Keywords: []string{"제도 개선", "제도개선", "규제 완화", "규제완화", "특례", "개정안"}},
	{Category: CategoryPolicy, Weight: 3, Sub: "정책",
		Keywords: []string{"대통령", "총리", "국정", "국무회의"}},
	{Category: CategoryPolicy, Weight: 1, Sub: "정책",
		Keywords: []string{"정부", "부처", "정책", "국회", "법안", "위원회", "조례"}},
}

// preferredSubs lists category-flavored subcategory vocabulary used to top
// up short subcategory sets, drawn from the hint vocabulary.
var preferredSubs = map[string][]string{
	CategoryFinance:    {"투자유치", "금융지원", "세제"},
	CategoryIndustry:   {"안전관리", "재난대응", "에너지"},
	CategoryExport:     {"수출", "무역", "글로벌진출"},
	CategoryResearch:   {"R&D", "AI", "혁신"},
	CategoryPersonnel:  {"고용", "채용", "노사"},
	CategorySociety:    {"지역", "환경", "안전관리"},
	CategoryRegulation: {"제도개선", "규제완화"},
	CategoryPolicy:     {"정책", "제도개선"},
	CategoryOther:      {"디지털전환"},
}

// classifyFallback is the deterministic rule-based classifier. The region
// must be detected beforehand since it feeds the subcategory suggestions.
func classifyFallback(title, text, reg string) (string, []string) {
	blob := strings.ToLower(strings.TrimSpace(title + " " + text))

	scores := make(map[string]int, len(PrimaryCategories))
	var subs []string
	for _, g := range keywordGroups {
		if containsAny(blob, g.Keywords) {
			scores[g.Category] += g.Weight
			subs = append(subs, g.Sub)
		}
	}

	primary := pickPrimary(scores)
	subs = topUpSubcategories(subs, primary, reg, title, text)
	return primary, PadSubcategories(subs)
}

// pickPrimary returns the highest-scoring label. All-zero scores yield the
// catch-all. Ties are broken against the policy/government label, which
// over-matches on generic government vocabulary.
func pickPrimary(scores map[string]int) string {
	best := 0
	for _, c := range PrimaryCategories {
		if scores[c] > best {
			best = scores[c]
		}
	}
	if best == 0 {
		return CategoryOther
	}
	var tied []string
	for _, c := range PrimaryCategories {
		if scores[c] == best {
			tied = append(tied, c)
		}
	}
	for _, c := range tied {
		if c != CategoryPolicy {
			return c
		}
	}
	return tied[0]
}

// topUpSubcategories extends a short subcategory set toward four entries:
// frequent content keywords, then the category's preferred vocabulary,
// then region-derived terms when a non-default region was detected.
func topUpSubcategories(subs []string, primary, reg, title, text string) []string {
	if countNonEmpty(subs) >= 4 {
		return subs
	}
	subs = append(subs, frequentKeywords(title+" "+text, 4)...)
	subs = append(subs, preferredSubs[primary]...)
	if reg != region.Nationwide && reg != "" {
		subs = append(subs, reg, "지역", "지자체")
	}
	return subs
}

// debias corrects an enrichment-returned primary label: strong domain
// keyword evidence overrides the over-assigned policy/government label,
// and a detected non-default region plus event keywords overrides toward
// society. The region/society rule is a tunable heuristic and can be
// switched off.
func debias(cat, title, text, reg string, regionEventBias bool) string {
	if cat != CategoryPolicy {
		return cat
	}
	blob := strings.ToLower(strings.TrimSpace(title + " " + text))
	for _, g := range keywordGroups {
		if g.Domain && containsAny(blob, g.Keywords) {
			return g.Category
		}
	}
	if regionEventBias && reg != region.Nationwide && reg != "" {
		for _, g := range keywordGroups {
			if g.Event && containsAny(blob, g.Keywords) {
				return CategorySociety
			}
		}
	}
	return cat
}

func containsAny(blob string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(blob, k) {
			return true
		}
	}
	return false
}

func countNonEmpty(xs []string) int {
	n := 0
	for _, x := range xs {
		if strings.TrimSpace(x) != "" {
			n++
		}
	}
	return n
}

var tokenRx = regexp.MustCompile(`[\p{L}\p{N}]+`)

// stopWords are tokens too generic to serve as subcategories.
var stopWords = map[string]bool{
	"있다": true, "있는": true, "이번": true, "지난": true, "대한": true,
	"통해": true, "위해": true, "위한": true, "밝혔다": true, "했다": true,
	"한다": true, "기자": true, "오늘": true, "올해": true, "관련": true,
	"대해": true, "함께": true, "또한": true, "등을": true, "것으로": true,
	"the": true, "and": true, "for": true, "with": true,
}

// frequentKeywords extracts the most frequent content tokens: tokenized on
// non-alphanumeric boundaries, tokens shorter than 2 characters or in the
// stop-word set dropped, ordered by count descending with ties kept in
// first-occurrence order.
func frequentKeywords(text string, limit int) []string {
	counts := make(map[string]int)
	var order []string
	for _, tok := range tokenRx.FindAllString(text, -1) {
		if utf8.RuneCountInString(tok) < 2 || stopWords[strings.ToLower(tok)] {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}
	return order
}
