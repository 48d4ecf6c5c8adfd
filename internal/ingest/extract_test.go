package ingest

import (
	"errors"
	"testing"
)

func TestExtractRecords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{
			name: "top-level array",
			text: `[{"title":"a","contents":"본문 하나"},{"title":"b","contents":"본문 둘"}]`,
			want: 2,
		},
		{
			name: "items container",
			text: `{"items":[{"title":"a","contents":"본문"}]}`,
			want: 1,
		},
		{
			name: "data container",
			text: `{"data":[{"title":"a","contents":"본문"}]}`,
			want: 1,
		},
		{
			name: "nested container one level down",
			text: `{"data":[{"list":[{"title":"a","contents":"본문"},{"title":"b","contents":"본문"}]}]}`,
			want: 2,
		},
		{
			name: "lone object without container",
			text: `{"title":"a","contents":"본문"}`,
			want: 1,
		},
		{
			name: "concatenated documents merge",
			text: `[{"title":"a","contents":"본문"}][{"title":"b","contents":"본문"}]`,
			want: 2,
		},
		{
			name: "deep search finds buried list",
			text: `[[{"title":"a","contents":"본문"}]]`,
			want: 1,
		},
		{
			name: "empty array degrades to plain-text record",
			text: `[]`,
			want: 1,
		},
		{
			name: "empty list followed by an object still recovers it",
			text: `[] {"title":"a","contents":"본문"}`,
			want: 1,
		},
		{
			name: "empty list followed by a concatenated array",
			text: `[][{"title":"a","contents":"본문"},{"title":"b","contents":"본문"}]`,
			want: 2,
		},
		{
			name: "prose degrades to plain-text record",
			text: "부산시에서 행사가 열렸다",
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractRecords(tt.text, false)
			if err != nil {
				t.Fatalf("ExtractRecords() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("ExtractRecords() yielded %d records, want %d", len(got), tt.want)
			}
		})
	}
}

func TestExtractRecordsEmptyInput(t *testing.T) {
	got, err := ExtractRecords("  \n ", false)
	if err != nil {
		t.Fatalf("ExtractRecords() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("empty input yielded %d records, want 0", len(got))
	}
}

func TestExtractRecordsPreservesOrder(t *testing.T) {
	text := `{"items":[{"title":"첫째","contents":"a"},{"title":"둘째","contents":"b"},{"title":"셋째","contents":"c"}]}`
	got, err := ExtractRecords(text, false)
	if err != nil {
		t.Fatalf("ExtractRecords() error = %v", err)
	}
	want := []string{"첫째", "둘째", "셋째"}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i]["title"] != w {
			t.Errorf("record %d title = %v, want %q", i, got[i]["title"], w)
		}
	}
}

func TestExtractRecordsPlainTextFallbackShape(t *testing.T) {
	raw := "완전히 비정형인 본문입니다"
	got, err := ExtractRecords(raw, false)
	if err != nil {
		t.Fatalf("ExtractRecords() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if got[0]["text"] != raw {
		t.Errorf("fallback record text = %v, want the raw input", got[0]["text"])
	}
	if got[0]["title"] != "" {
		t.Errorf("fallback record title = %v, want empty", got[0]["title"])
	}
}

func TestExtractRecordsStrict(t *testing.T) {
	if _, err := ExtractRecords(`{"broken":`, true); !errors.Is(err, ErrMalformed) {
		t.Fatalf("strict mode error = %v, want ErrMalformed", err)
	}
	if _, err := ExtractRecords("그냥 텍스트", true); !errors.Is(err, ErrMalformed) {
		t.Fatalf("strict mode on prose error = %v, want ErrMalformed", err)
	}
}
