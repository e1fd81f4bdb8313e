package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestSetContentTypeMiddleware(t *testing.T) {
	rec := httptest.NewRecorder()
	SetContentTypeMiddleware(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestAPIKey(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		method     string
		path       string
		header     string
		wantStatus int
	}{
		{"disabled without key", "", http.MethodGet, "/api/customers", "", http.StatusOK},
		{"valid key", "secret", http.MethodGet, "/api/customers", "secret", http.StatusOK},
		{"valid key with spaces", "secret", http.MethodGet, "/api/customers", " secret ", http.StatusOK},
		{"missing key", "secret", http.MethodPost, "/api/bank/sync", "", http.StatusUnauthorized},
		{"wrong key", "secret", http.MethodGet, "/api/customers", "other", http.StatusUnauthorized},
		{"outside api", "secret", http.MethodGet, "/metrics", "", http.StatusOK},
		{"preflight", "secret", http.MethodOptions, "/api/bank/sync", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("X-API-KEY", tt.header)
			}
			rec := httptest.NewRecorder()
			APIKey(tt.key)(okHandler).ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"http://localhost:5173"})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/bank/sync", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "X-API-KEY")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
