// Package region detects the first-level administrative region a text is
// about, by alias lookup shared between the enrichment and fallback
// classification paths.
package region

import "strings"

// Nationwide is the sentinel returned when no region term matches.
const Nationwide = "전국"

// Canonical short region names, checked after the alias table.
var Regions = []string{
	"서울", "부산", "대구", "인천", "광주", "대전", "울산",
	"세종", "경기", "강원", "충북", "충남", "전북", "전남",
	"경북", "경남", "제주",
}

type alias struct {
	Form   string
	Region string
}

// Longer or more specific forms map to the canonical short name. The table
// is consulted in order before the canonical names, so a full-form alias
// always wins over its embedded short form.
var aliases = []alias{
	{"서울시", "서울"},
	{"부산시", "부산"},
	{"대구시", "대구"},
	{"인천시", "인천"},
	{"광주시", "광주"},
	{"대전시", "대전"},
	{"울산시", "울산"},
	{"세종시", "세종"},
	{"경기도", "경기"},
	{"강원도", "강원"},
	{"충청북도", "충북"},
	{"충청남도", "충남"},
	{"전라북도", "전북"},
	{"전라남도", "전남"},
	{"경상북도", "경북"},
	{"경상남도", "경남"},
	{"제주도", "제주"},
	{"수도권", "경기"},
}

// Detect scans title and body for region terms: aliases first in table
// order, then canonical short names. First match wins; no match returns
// the Nationwide sentinel.
func Detect(title, body string) string {
	blob := title + "\n" + body
	for _, a := range aliases {
		if strings.Contains(blob, a.Form) {
			return a.Region
		}
	}
	for _, r := range Regions {
		if strings.Contains(blob, r) {
			return r
		}
	}
	return Nationwide
}
