package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimitMiddleware(0.001, 2)
	defer rl.Stop()
	handler := rl.Middleware(okHandler())

	do := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/books", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1111"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1:2222"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:3333"))

	// another client has its own bucket
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1111"))
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:5555"
	assert.Equal(t, "192.168.1.5", clientKey(req))

	req.Header.Set("X-Forwarded-For", "1.2.3.4")
	assert.Equal(t, "1.2.3.4", clientKey(req))
}
