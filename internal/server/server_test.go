package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"newspipe/internal/config"
	"newspipe/internal/core"
	"newspipe/internal/pipeline"
)

const testBatch = `[{"contents":"<p>부산시에서 청년 채용 박람회가 열렸다. 1000명이 참가했다.</p>","title":"부산 청년 채용 박람회"}]`

func testServer(apiKey string) *Server {
	pipe := pipeline.New(&config.Config{
		Pipeline: config.Pipeline{Workers: 2},
	})
	return New(pipe, config.Server{
		APIKey:         apiKey,
		MaxUploadBytes: 1 << 20,
	})
}

func doRequest(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	return rr
}

func decodeRecords(t *testing.T, rr *httptest.ResponseRecorder) []core.OutputRecord {
	t.Helper()
	var records []core.OutputRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &records); err != nil {
		t.Fatalf("response is not a record array: %v\n%s", err, rr.Body.String())
	}
	return records
}

func TestHealthz(t *testing.T) {
	s := testServer("secret")
	rr := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if rr.Body.String() != "ok" {
		t.Errorf("body = %q, want ok", rr.Body.String())
	}
}

func TestReadyz(t *testing.T) {
	s := testServer("")
	rr := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["ready"] != true {
		t.Errorf("ready = %v, want true", body["ready"])
	}
	if body["enrichment_enabled"] != false {
		t.Errorf("enrichment_enabled = %v, want false without an API key", body["enrichment_enabled"])
	}
}

func TestRunJSONRequiresAuth(t *testing.T) {
	s := testServer("secret")

	req := httptest.NewRequest(http.MethodPost, "/run/json", strings.NewReader(testBatch))
	if rr := doRequest(t, s, req); rr.Code != http.StatusUnauthorized {
		t.Fatalf("status without token = %d, want 401", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/run/json", strings.NewReader(testBatch))
	req.Header.Set("Authorization", "Bearer wrong")
	if rr := doRequest(t, s, req); rr.Code != http.StatusUnauthorized {
		t.Fatalf("status with wrong token = %d, want 401", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/run/json", strings.NewReader(testBatch))
	req.Header.Set("Authorization", "Bearer secret")
	if rr := doRequest(t, s, req); rr.Code != http.StatusOK {
		t.Fatalf("status with token = %d, want 200: %s", rr.Code, rr.Body.String())
	}
}

func TestRunJSONWithoutConfiguredKeySkipsAuth(t *testing.T) {
	s := testServer("")
	req := httptest.NewRequest(http.MethodPost, "/run/json", strings.NewReader(testBatch))
	rr := doRequest(t, s, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	records := decodeRecords(t, rr)
	if len(records) != 1 || records[0].Region != "부산" {
		t.Errorf("records = %+v, want one 부산 record", records)
	}
}

func TestRunJSONEnvelopes(t *testing.T) {
	s := testServer("")

	quoted, _ := json.Marshal(testBatch)
	envelope, _ := json.Marshal(map[string]string{"runjson": testBatch})

	tests := []struct {
		name string
		body string
	}{
		{"bare array", testBatch},
		{"json string body", string(quoted)},
		{"runjson envelope", string(envelope)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/run/json", strings.NewReader(tt.body))
			rr := doRequest(t, s, req)
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
			}
			records := decodeRecords(t, rr)
			if len(records) != 1 {
				t.Fatalf("got %d records, want 1", len(records))
			}
			if records[0].Title != "부산 청년 채용 박람회" {
				t.Errorf("title = %q", records[0].Title)
			}
		})
	}
}

func TestRunJSONRejectsNonJSON(t *testing.T) {
	s := testServer("")
	req := httptest.NewRequest(http.MethodPost, "/run/json", strings.NewReader("이건 JSON이 아니다"))
	rr := doRequest(t, s, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["detail"] == "" {
		t.Error("error response carries no detail")
	}
}

func TestRunRaw(t *testing.T) {
	s := testServer("")
	form := url.Values{"runjson": {testBatch}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/run/raw", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := doRequest(t, s, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	records := decodeRecords(t, rr)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
}

func TestRunRawMissingField(t *testing.T) {
	s := testServer("")
	req := httptest.NewRequest(http.MethodPost, "/run/raw", strings.NewReader("other=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if rr := doRequest(t, s, req); rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestRunFileUpload(t *testing.T) {
	s := testServer("")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "batch.json")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(testBatch)); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/run/file", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := doRequest(t, s, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	records := decodeRecords(t, rr)
	if len(records) != 1 || records[0].Region != "부산" {
		t.Errorf("records = %+v, want one 부산 record", records)
	}
}

func TestRunFileUploadMissingFile(t *testing.T) {
	s := testServer("")
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("other", "x")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/run/file", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if rr := doRequest(t, s, req); rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}
