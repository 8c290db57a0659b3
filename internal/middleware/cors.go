package middleware

import (
	"net/http"
)

// EnableCORS answers cross-origin requests from allowedOrigin only. An empty
// allowedOrigin keeps the shell same-origin; "*" echoes any origin.
func EnableCORS(next http.Handler, allowedOrigin string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if OriginAllowed(origin, allowedOrigin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Expose-Headers", "Location, Retry-After")
		}

		// Handle preflight
		if r.Method == http.MethodOptions && origin != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// OriginAllowed reports whether a cross-origin caller may use the shell.
func OriginAllowed(origin, allowedOrigin string) bool {
	if origin == "" || allowedOrigin == "" {
		return false
	}
	return allowedOrigin == "*" || origin == allowedOrigin
}
