package classify

import (
	"regexp"
	"strings"
)

// Primary category labels. CategoryOther is the catch-all assigned when no
// keyword group scores and when an enrichment reply cannot be normalized.
const (
	CategoryPolicy     = "정책_정부"
	CategoryIndustry   = "산업_기업"
	CategoryResearch   = "연구_기술"
	CategoryRegulation = "규제_제도"
	CategoryExport     = "수출_글로벌"
	CategoryFinance    = "투자_금융"
	CategoryPersonnel  = "인사_조직"
	CategorySociety    = "사회"
	CategoryOther      = "기타"
)

// PrimaryCategories is the closed label set, in canonical order. The order
// doubles as the deterministic iteration order of the scorer.
var PrimaryCategories = []string{
	CategoryPolicy, CategoryIndustry, CategoryResearch, CategoryRegulation,
	CategoryExport, CategoryFinance, CategoryPersonnel, CategorySociety,
	CategoryOther,
}

// slash-form and other loose spellings the enrichment collaborator tends
// to return, mapped back onto the closed set.
var looseCategoryForms = map[string]string{
	"정책/정부":  CategoryPolicy,
	"산업/기업":  CategoryIndustry,
	"연구/기술":  CategoryResearch,
	"규제/제도":  CategoryRegulation,
	"수출/글로벌": CategoryExport,
	"투자/금융":  CategoryFinance,
	"인사/조직":  CategoryPersonnel,
}

// SubcategoryHints is shown to the enrichment collaborator as example
// subcategory vocabulary.
var SubcategoryHints = []string{
	"정책", "제도개선", "규제완화", "금융지원", "세제", "투자유치",
	"수출", "무역", "글로벌진출", "고용", "채용", "노사",
	"안전관리", "재난대응", "환경", "에너지", "디지털전환",
	"R&D", "AI", "혁신", "지역", "지자체",
}

// normalizePrimary maps an enrichment-returned label onto the closed set,
// falling back to the catch-all.
func normalizePrimary(cat string) string {
	cat = strings.TrimSpace(cat)
	for _, c := range PrimaryCategories {
		if cat == c {
			return cat
		}
	}
	if mapped, ok := looseCategoryForms[cat]; ok {
		return mapped
	}
	return CategoryOther
}

var spaceRx = regexp.MustCompile(`\s+`)

// normalizeSubs cleans enrichment-returned subcategories: whitespace
// normalization, a couple of synonym fixes, then the canonical pad-to-4.
func normalizeSubs(subs []string) []string {
	cleaned := make([]string, 0, len(subs))
	for _, s := range subs {
		s = strings.TrimSpace(spaceRx.ReplaceAllString(s, " "))
		if s == "" {
			continue
		}
		s = strings.ReplaceAll(s, "R & D", "R&D")
		s = strings.ReplaceAll(s, "r&d", "R&D")
		if lower := strings.ToLower(s); lower == "ai" || s == "인공지능" {
			s = "AI"
		}
		cleaned = append(cleaned, s)
	}
	return PadSubcategories(cleaned)
}

// PadSubcategories is the canonical pad-to-4 transform: drop blanks,
// de-duplicate preserving first-seen order, truncate to 4, right-pad with
// empty strings.
func PadSubcategories(subs []string) []string {
	out := make([]string, 0, 4)
	seen := make(map[string]bool, len(subs))
	for _, s := range subs {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
		if len(out) == 4 {
			break
		}
	}
	for len(out) < 4 {
		out = append(out, "")
	}
	return out
}

// padSummaryLines guarantees exactly three summary lines.
func padSummaryLines(lines []string) []string {
	if len(lines) > 3 {
		lines = lines[:3]
	}
	out := make([]string, 0, 3)
	out = append(out, lines...)
	for len(out) < 3 {
		out = append(out, "")
	}
	return out
}
