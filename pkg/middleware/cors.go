package middleware

import (
	"net/http"
	"strings"

	"github.com/vfg2006/cirod-kpi-engine/pkg/log"
)

var defaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:4001",
}

func isOriginAllowed(origin string, allowedOrigins []string) bool {
	for _, allowedOrigin := range allowedOrigins {
		if allowedOrigin == "*" || strings.EqualFold(origin, strings.TrimSpace(allowedOrigin)) {
			return true
		}
	}
	return false
}

// Cors libera as origens informadas; sem origens usa as de desenvolvimento local
func Cors(allowedOrigins ...string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = defaultAllowedOrigins
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" && isOriginAllowed(origin, allowedOrigins) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, X-Requested-With, "+log.CorrelationIDHeader)
				w.Header().Set("Access-Control-Expose-Headers", log.CorrelationIDHeader)
				w.Header().Set("Access-Control-Max-Age", "86400") // Cache do CORS por 24 horas
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
