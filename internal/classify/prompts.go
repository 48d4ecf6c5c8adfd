package classify

import (
	"fmt"
	"strings"
)

// Prompts are contracts: they pin the reply to a JSON-only shape so the
// client's brace extraction and the normalizers downstream stay stable.
// Prompt construction is deterministic; the body is capped at
// maxPromptChars characters before insertion.

func summaryPrompt(title, text string, maxPromptChars int) string {
	var b strings.Builder
	b.WriteString("너는 한국어 뉴스 요약기다. 아래 기사를 완결된 문장 3줄로 요약하라.\n")
	b.WriteString("- 정확히 3줄, 각 줄은 독립적인 핵심 문장으로 끝맺음(다/이다/합니다 등).\n")
	b.WriteString("- 숫자(날짜·비율·횟수), 기관·정책명, 조치/영향을 우선 포함.\n")
	b.WriteString("- 불필요한 인용부호·이모지·머리표·중복 금지. 문장 중간 생략 금지.\n")
	b.WriteString(`JSON만 출력: {"summary_lines": ["...", "...", "..."]}` + "\n")
	fmt.Fprintf(&b, "제목: %s\n본문:\n%s", title, truncateRunes(text, maxPromptChars))
	return b.String()
}

func categoryPrompt(title, text string, maxPromptChars int) string {
	var b strings.Builder
	b.WriteString("너는 한국어 뉴스 분류기다. 다음 기사에 대해 주카테고리 1개와 서브카테고리 최대 4개를 JSON으로 출력하라.\n")
	fmt.Fprintf(&b, "- 주카테고리 후보: [%s]\n", strings.Join(PrimaryCategories, ", "))
	fmt.Fprintf(&b, "- 서브카테고리 예시(참고, 자유 조합): [%s]\n", strings.Join(SubcategoryHints, ", "))
	b.WriteString("- 서브카테고리는 기사 핵심 주제를 다양하게 포괄하되 중복/동어반복 금지.\n")
	b.WriteString(`JSON만 출력: {"primary":"정책_정부","subcategories":["정책","금융지원","R&D","지역"]}` + "\n")
	fmt.Fprintf(&b, "제목: %s\n본문:\n%s", title, truncateRunes(text, maxPromptChars))
	return b.String()
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
