package normalize

import (
	"html"
	"regexp"
	"strings"
)

var (
	scriptBlockRx = regexp.MustCompile(`(?is)<script.*?>.*?</script>`)
	styleBlockRx  = regexp.MustCompile(`(?is)<style.*?>.*?</style>`)
	brRx          = regexp.MustCompile(`(?i)<br\s*/?>`)
	closePRx      = regexp.MustCompile(`(?i)</p\s*>`)
	anyTagRx      = regexp.MustCompile(`(?s)<.*?>`)
	hSpaceRx      = regexp.MustCompile(`[ \t]+`)
	nlSpaceRx     = regexp.MustCompile(`[ \t]*\n[ \t]*`)
	blankRunsRx   = regexp.MustCompile(`\n\s*\n\s*\n+`)
	openTagRx     = regexp.MustCompile(`<[a-zA-Z][^>]*>`)
)

// StripHTML converts marked-up body text to plain text. The transform is a
// pure function of its input and idempotent: re-applying it to already
// stripped text is a no-op.
func StripHTML(markup string) string {
	if markup == "" {
		return ""
	}
	text := scriptBlockRx.ReplaceAllString(markup, " ")
	text = styleBlockRx.ReplaceAllString(text, " ")
	text = brRx.ReplaceAllString(text, "\n")
	text = closePRx.ReplaceAllString(text, "\n")
	text = anyTagRx.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = hSpaceRx.ReplaceAllString(text, " ")
	text = nlSpaceRx.ReplaceAllString(text, "\n")
	text = blankRunsRx.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// HasHTML reports whether s contains an HTML-like opening tag. It is
// computed on the raw contents, before stripping.
func HasHTML(s string) bool {
	return s != "" && openTagRx.MatchString(s)
}
