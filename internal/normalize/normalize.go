// Package normalize resolves canonical identifier, title, and body fields
// from candidate records and strips markup from body text. Missing fields
// resolve to empty values, never errors.
package normalize

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"newspipe/internal/core"
)

// Item normalizes one candidate record. The input map is not mutated.
func Item(rec core.CandidateRecord) core.NormalizedItem {
	title := firstString(rec, core.TitleKeys)
	contents := firstString(rec, core.BodyKeys)
	hasHTML := HasHTML(contents)
	if title == "" && hasHTML {
		title = htmlTitle(contents)
	}
	return core.NormalizedItem{
		ID:        resolveID(rec),
		Title:     title,
		Contents:  contents,
		PlainText: StripHTML(contents),
		HasHTML:   hasHTML,
	}
}

// Items normalizes a batch, preserving order.
func Items(recs []core.CandidateRecord) []core.NormalizedItem {
	out := make([]core.NormalizedItem, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Item(rec))
	}
	return out
}

// firstString returns the first non-empty string among the ranked alias
// keys.
func firstString(rec core.CandidateRecord, keys []string) string {
	for _, k := range keys {
		if s, ok := rec[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// resolveID resolves the record identifier: exact key list first, then a
// fuzzy match on the normalized key name (lower-cased, non-alphanumerics
// stripped) containing "news"+"id" or "identify"+"id".
func resolveID(rec core.CandidateRecord) string {
	for _, k := range core.IDKeys {
		if v, ok := rec[k]; ok {
			if id := coerceID(v); id != "" {
				return id
			}
		}
	}
	for _, k := range sortedKeys(rec) {
		norm := normalizeKey(k)
		newsID := strings.Contains(norm, "news") && strings.Contains(norm, "id")
		identifyID := strings.Contains(norm, "identify") && strings.Contains(norm, "id")
		if !newsID && !identifyID {
			continue
		}
		if id := coerceID(rec[k]); id != "" {
			return id
		}
	}
	return ""
}

// coerceID renders a scalar identifier value as a trimmed string. Nulls,
// containers, and empty strings coerce to "".
func coerceID(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return strings.TrimSpace(t.String())
	default:
		return ""
	}
}

func normalizeKey(k string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(k) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func sortedKeys(rec core.CandidateRecord) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// htmlTitle recovers a title from HTML markup when no title alias was
// present: the <title> element first, then og:title.
func htmlTitle(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if v, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
