// Package ingest turns raw input bytes into candidate records: it decodes
// text from a short list of tolerated encodings, parses one-or-many JSON
// values out of the text (repairing one known corruption pattern), and
// locates the record objects wherever the producer buried them.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// ErrDecode is returned when no candidate text encoding could decode the
// input. It is the only batch-fatal ingestion error.
var ErrDecode = errors.New("input not decodable with any candidate encoding")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText decodes raw bytes as text, trying UTF-8, UTF-8 with BOM, and
// EUC-KR in that order, and returns the first successful decode.
func DecodeText(raw []byte) (string, error) {
	if bytes.HasPrefix(raw, utf8BOM) {
		body := raw[len(utf8BOM):]
		if utf8.Valid(body) {
			return string(body), nil
		}
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), raw)
	if err == nil && !strings.ContainsRune(string(decoded), utf8.RuneError) {
		return string(decoded), nil
	}
	return "", fmt.Errorf("%w (%d bytes)", ErrDecode, len(raw))
}

// ReadFile reads path and decodes its contents via DecodeText.
func ReadFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input file %s: %w", path, err)
	}
	text, err := DecodeText(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return text, nil
}
