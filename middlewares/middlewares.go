package middlewares

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

const apiKeyHeader = "X-API-KEY"

func SetContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// APIKey requires the X-API-KEY header on /api/ routes. An empty key
// disables the check.
func APIKey(key string) func(http.Handler) http.Handler {
	key = strings.TrimSpace(key)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" || r.Method == http.MethodOptions || !strings.HasPrefix(r.URL.Path, "/api/") {
				next.ServeHTTP(w, r)
				return
			}
			received := strings.TrimSpace(r.Header.Get(apiKeyHeader))
			if subtle.ConstantTimeCompare([]byte(received), []byte(key)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{
					"status":  "error",
					"message": "missing or invalid X-API-KEY header",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CORS wraps the whole router so preflight requests are answered before
// route matching.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", apiKeyHeader},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
