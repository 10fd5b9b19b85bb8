package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusCreated, []int{1, 2})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, "[1,2]", w.Body.String())
}

func TestJSONError(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/books/9", nil)
	r = r.WithContext(ContextWithRequestID(r.Context(), "req-1"))
	w := httptest.NewRecorder()

	JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "Book not found", resp.Error.Message)
	assert.Equal(t, map[string]interface{}{"request_id": "req-1"}, resp.Meta)
}

func TestRecoveryMiddleware(t *testing.T) {
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	handler := Chain(panicky, AccessLogMiddleware, RecoveryMiddleware)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
