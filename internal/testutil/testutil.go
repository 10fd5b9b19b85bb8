// Package testutil holds helpers for handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
)

// NewRequest creates a new HTTP request for testing. A non-nil body is
// sent as JSON.
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// RecordResponse is a decoded recorder result.
type RecordResponse struct {
	Code   int
	Header http.Header
	Raw    []byte
	Body   map[string]interface{}
}

// ErrorCode returns error.code from an error envelope, or "".
func (r RecordResponse) ErrorCode() string {
	e, ok := r.Body["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	code, _ := e["code"].(string)
	return code
}

// RecordHTTPResponse decodes the recorded response. Bodies that are not a
// JSON object leave Body nil.
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		_ = json.Unmarshal(bodyBytes, &bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Raw:    bodyBytes,
		Body:   bodyMap,
	}
}
