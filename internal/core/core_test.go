package core

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestIsRecordLike(t *testing.T) {
	tests := []struct {
		name string
		rec  CandidateRecord
		want bool
	}{
		{"contents key", CandidateRecord{"contents": "본문"}, true},
		{"text key", CandidateRecord{"text": "본문"}, true},
		{"empty body string", CandidateRecord{"contents": ""}, false},
		{"non-string body", CandidateRecord{"contents": 3}, false},
		{"title only", CandidateRecord{"title": "제목"}, false},
		{"empty record", CandidateRecord{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRecordLike(tt.rec); got != tt.want {
				t.Errorf("IsRecordLike(%v) = %v, want %v", tt.rec, got, tt.want)
			}
		})
	}
}

func TestNewOutputRecord(t *testing.T) {
	item := NormalizedItem{
		ID:        "n-1",
		Title:     "제목",
		Contents:  "<p>본문</p>",
		PlainText: "본문",
		HasHTML:   true,
	}
	res := ClassificationResult{
		Category:      "사회",
		Subcategories: []string{"지역", "행사", "", ""},
		Region:        "부산",
		SummaryLines:  []string{"첫 줄이다", "둘째 줄이다", ""},
	}

	rec := NewOutputRecord(item, res)
	if rec.NewsItemID == nil || *rec.NewsItemID != "n-1" {
		t.Errorf("NewsItemID = %v, want n-1", rec.NewsItemID)
	}
	if rec.Summary != "첫 줄이다\n둘째 줄이다\n" {
		t.Errorf("Summary = %q, want lines joined with newlines", rec.Summary)
	}
	if !rec.SourceMeta.HasHTML {
		t.Error("SourceMeta.HasHTML = false, want true")
	}
	if rec.SourceMeta.LengthChars != 2 {
		t.Errorf("LengthChars = %d, want 2 (character count, not bytes)", rec.SourceMeta.LengthChars)
	}
}

func TestNewOutputRecordNullID(t *testing.T) {
	rec := NewOutputRecord(NormalizedItem{Title: "제목"}, ClassificationResult{})
	if rec.NewsItemID != nil {
		t.Errorf("NewsItemID = %v, want nil for a missing identifier", *rec.NewsItemID)
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"NewsItemId":null`) {
		t.Errorf("serialized record = %s, want an explicit null NewsItemId", raw)
	}
}
