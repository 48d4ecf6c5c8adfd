package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"newspipe/internal/ingest"
)

// Upstream callers wrap the batch several ways: a bare array, an
// {"items": [...]} envelope, a JSON string, or an envelope whose
// "runjson"/"data"/"payload" field carries the batch as a JSON string.
// unwrapPayload peels those layers down to the text the pipeline ingests.

var envelopeKeys = []string{"runjson", "data", "payload"}

func unwrapPayload(body []byte) (string, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("body is not valid JSON: %w", err)
	}

	// A JSON string body carries the batch as text.
	if s, ok := payload.(string); ok {
		var inner any
		if err := json.Unmarshal([]byte(s), &inner); err != nil {
			return "", fmt.Errorf("body is a string but not valid JSON: %w", err)
		}
		payload = inner
	}

	if obj, ok := payload.(map[string]any); ok {
		for _, key := range envelopeKeys {
			if s, ok := obj[key].(string); ok {
				var inner any
				if err := json.Unmarshal([]byte(s), &inner); err != nil {
					return "", fmt.Errorf("%q is not a valid JSON string: %w", key, err)
				}
				payload = inner
				break
			}
		}
	}

	out, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to re-encode payload: %w", err)
	}
	return string(out), nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ready":              true,
		"enrichment_enabled": s.pipe.EnrichmentEnabled(),
		"model":              s.pipe.Model(),
	})
}

// handleRunJSON accepts an application/json batch in any of the supported
// envelopes and returns the processed records.
func (s *Server) handleRunJSON(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	text, err := unwrapPayload(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.runAndReply(w, r, text)
}

// handleRunRaw accepts a form submission with the batch JSON in the
// "runjson" field.
func (s *Server) handleRunRaw(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "failed to parse form")
			return
		}
	}
	raw := r.FormValue("runjson")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing runjson field")
		return
	}
	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		writeError(w, http.StatusBadRequest, "runjson is not valid JSON")
		return
	}
	s.runAndReply(w, r, raw)
}

// handleRunFile accepts a multipart upload and runs the pipeline over the
// file contents. The upload goes through the same encoding-tolerant
// decode as file-based batches.
func (s *Server) handleRunFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}
	text, err := ingest.DecodeText(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "upload not decodable as text")
		return
	}
	s.runAndReply(w, r, text)
}

func (s *Server) runAndReply(w http.ResponseWriter, r *http.Request, text string) {
	results, err := s.pipe.ProcessText(r.Context(), text)
	if err != nil {
		s.log.Error("pipeline run failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "pipeline failed")
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
