package handler

import (
	"net/http"
	"time"
)

// HealthcheckHandler responde se o processo está de pé; não consulta o store
func HealthcheckHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
}
