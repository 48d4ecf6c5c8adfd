// Package core defines the domain types shared across the ingestion and
// classification pipeline.
package core

import "strings"

// CandidateRecord is one raw record as recovered by the item extractor: a
// string-keyed map of arbitrary JSON values believed to represent a single
// input document. It is consumed by the normalizer and never mutated.
type CandidateRecord = map[string]any

// NormalizedItem is the canonical internal record produced by the field
// normalizer. An empty ID means no identifier could be resolved.
type NormalizedItem struct {
	ID        string `json:"NewsItemId"` // Resolved identifier, "" if absent
	Title     string `json:"title"`      // First non-empty title alias, may be ""
	Contents  string `json:"contents"`   // Raw body, possibly marked up
	PlainText string `json:"plain_text"` // Contents with markup removed
	HasHTML   bool   `json:"has_html"`   // Whether Contents contained an HTML-like tag
}

// ClassificationResult holds the per-item classification output. It is
// computed once and immutable afterwards.
type ClassificationResult struct {
	Category      string   `json:"category"`      // One of the nine primary labels
	Subcategories []string `json:"subcategories"` // Always exactly 4, empties trailing
	Region        string   `json:"region"`        // Canonical region or the nationwide sentinel
	SummaryLines  []string `json:"summary_lines"` // Always exactly 3, empties trailing
}

// Outcome sources.
const (
	SourceEnriched = "llm"      // Result came from the enrichment collaborator
	SourceFallback = "fallback" // Result came from the local rule engine
)

// Outcome pairs a ClassificationResult with how it was produced, so the
// fallback path is an ordinary branch rather than an error handler. Reason
// is non-nil only when Source is SourceFallback and enrichment was
// attempted but failed.
type Outcome struct {
	Result ClassificationResult
	Source string
	Reason error
}

// SourceMeta describes the source document as seen by the normalizer.
type SourceMeta struct {
	HasHTML     bool `json:"has_html"`
	LengthChars int  `json:"length_chars"`
}

// OutputRecord is the externally visible unit, one per processed record.
type OutputRecord struct {
	NewsItemID    *string    `json:"NewsItemId"`
	Title         string     `json:"title"`
	Summary       string     `json:"summary"`
	SummaryLines  []string   `json:"summary_lines"`
	Category      string     `json:"category"`
	Subcategories []string   `json:"subcategories"`
	Region        string     `json:"region"`
	SourceMeta    SourceMeta `json:"source_meta"`
}

// NewOutputRecord joins a normalized item with its classification result.
func NewOutputRecord(item NormalizedItem, res ClassificationResult) OutputRecord {
	var id *string
	if item.ID != "" {
		v := item.ID
		id = &v
	}
	return OutputRecord{
		NewsItemID:    id,
		Title:         item.Title,
		Summary:       strings.Join(res.SummaryLines, "\n"),
		SummaryLines:  res.SummaryLines,
		Category:      res.Category,
		Subcategories: res.Subcategories,
		Region:        res.Region,
		SourceMeta: SourceMeta{
			HasHTML:     item.HasHTML,
			LengthChars: len([]rune(item.PlainText)),
		},
	}
}
