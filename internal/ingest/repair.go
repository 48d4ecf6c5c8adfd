package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned when the scanning decoder exhausts its one known
// repair strategy and still cannot parse the input.
var ErrMalformed = errors.New("malformed JSON input")

// ParseValues parses decoded text into a sequence of JSON values. It
// handles, in order: JSON Lines (one object per non-blank line, only
// entertained when the trimmed text begins with "{" and contains a
// newline), a single JSON document, and multiple concatenated documents via
// a scanning decode with the adjacent-array repair. A text that matches no
// strategy returns ErrMalformed; callers degrade to a plain-text record
// unless running strict.
func ParseValues(text string) ([]any, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}

	if vals, ok := parseJSONLines(trimmed); ok {
		return vals, nil
	}

	var single any
	if err := json.Unmarshal([]byte(trimmed), &single); err == nil {
		return []any{single}, nil
	}

	return scanValues(trimmed)
}

// parseJSONLines attempts JSON Lines mode. Every non-blank line must parse
// as a JSON object or the mode is abandoned.
func parseJSONLines(trimmed string) ([]any, bool) {
	if !strings.HasPrefix(trimmed, "{") || !strings.Contains(trimmed, "\n") {
		return nil, false
	}
	var vals []any
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(line), &obj); err != nil || obj == nil {
			return nil, false
		}
		vals = append(vals, obj)
	}
	if len(vals) < 2 {
		// A single line is just a single document.
		return nil, false
	}
	return vals, true
}

// scanValues repeatedly decodes one JSON value at the cursor until end of
// input. On a decode failure it attempts exactly one class of repair: an
// array immediately (or near-immediately) followed by another array with a
// missing separator, i.e. "][" or "] [". The stray "]" is consumed as a
// synthesized separator and scanning resumes at the same boundary. Any
// other failure propagates as ErrMalformed.
func scanValues(text string) ([]any, error) {
	var values []any
	i := 0
	n := len(text)
	for i < n {
		for i < n && isJSONSpace(text[i]) {
			i++
		}
		if i >= n {
			break
		}
		dec := json.NewDecoder(strings.NewReader(text[i:]))
		var v any
		if err := dec.Decode(&v); err != nil {
			if j, ok := adjacentArrayBoundary(text, i); ok {
				i = j
				continue
			}
			return nil, fmt.Errorf("%w: decode at offset %d: %v", ErrMalformed, i, err)
		}
		values = append(values, v)
		i += int(dec.InputOffset())
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no JSON values found", ErrMalformed)
	}
	return values, nil
}

// adjacentArrayBoundary reports whether text[i:] starts with the known
// "][" corruption (optionally whitespace-separated) and, if so, returns
// the offset of the following "[" where scanning should resume.
func adjacentArrayBoundary(text string, i int) (int, bool) {
	if i >= len(text) || text[i] != ']' {
		return 0, false
	}
	j := i + 1
	for j < len(text) && isJSONSpace(text[j]) {
		j++
	}
	if j < len(text) && text[j] == '[' {
		return j, true
	}
	return 0, false
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
