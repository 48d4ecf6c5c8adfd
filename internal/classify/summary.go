package classify

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Fallback summarization: sentence splitting on a boundary heuristic,
// additive relevance scoring, stable top-3 selection.

var (
	dateRx        = regexp.MustCompile(`\d{4}년|\d+월|\d+일|\d+%`)
	numberRx      = regexp.MustCompile(`[0-9][0-9,\.]{0,6}`)
	institutionRx = regexp.MustCompile(`부|청|처|원|공사|위원회|정부|부처`)
	actionRx      = regexp.MustCompile(`지원|확대|개선|도입|발표|시행|확정|투자|수출|안전|출시`)
	closedRx      = regexp.MustCompile(`([.!?]|다|요|합니다|이다)$`)
)

// splitSentences splits mixed Korean/Latin text into sentences: a boundary
// is sentence-final punctuation or the terminal particle 다 followed by
// whitespace. Fragments shorter than 5 characters are discarded.
func splitSentences(text string) []string {
	blob := strings.TrimSpace(text)
	if blob == "" {
		return nil
	}
	blob = spaceRx.ReplaceAllString(blob, " ")

	var sents []string
	start := 0
	prev := rune(0)
	for i, r := range blob {
		if unicode.IsSpace(r) && isSentenceEnd(prev) {
			if s := strings.TrimSpace(blob[start:i]); utf8.RuneCountInString(s) > 4 {
				sents = append(sents, s)
			}
			start = i + utf8.RuneLen(r)
		}
		prev = r
	}
	if s := strings.TrimSpace(blob[start:]); utf8.RuneCountInString(s) > 4 {
		sents = append(sents, s)
	}
	return sents
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '다'
}

// scoreSentence applies the additive heuristics: date pattern +3, numeric
// token +2, institutional entity +2, action/outcome keyword +2, length of
// at least 20 characters +1.
func scoreSentence(s string) int {
	score := 0
	if dateRx.MatchString(s) {
		score += 3
	}
	if numberRx.MatchString(s) {
		score += 2
	}
	if institutionRx.MatchString(s) {
		score += 2
	}
	if actionRx.MatchString(s) {
		score += 2
	}
	if utf8.RuneCountInString(s) >= 20 {
		score++
	}
	return score
}

// fallbackSummary selects the top three sentences by score (stable, so
// ties keep original order), prepends the title when it is not already
// contained in the top sentence, and normalizes each line to a closed
// sentence. Always returns exactly three lines.
func fallbackSummary(text, title string) []string {
	sents := splitSentences(text)

	picked := make([]string, len(sents))
	copy(picked, sents)
	sort.SliceStable(picked, func(i, j int) bool {
		return scoreSentence(picked[i]) > scoreSentence(picked[j])
	})
	if len(picked) > 3 {
		picked = picked[:3]
	}

	if t := strings.TrimSpace(title); t != "" {
		if len(picked) == 0 || !strings.Contains(picked[0], t) {
			picked = append([]string{t}, picked...)
		}
	}
	if len(picked) > 3 {
		picked = picked[:3]
	}

	lines := make([]string, 0, 3)
	for _, p := range picked {
		lines = append(lines, closeSentence(p))
	}
	return padSummaryLines(lines)
}

// closeSentence normalizes a summary line to end with closing punctuation
// or a terminal particle.
func closeSentence(s string) string {
	s = strings.TrimSpace(spaceRx.ReplaceAllString(s, " "))
	if s == "" {
		return ""
	}
	if closedRx.MatchString(s) {
		return s
	}
	s = strings.TrimRight(s, "…,:;")
	return s + "다"
}
