package handler

import (
	"net/http"

	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/requesting"
	"github.com/vfg2006/cirod-kpi-engine/pkg/apiErrors"
	"github.com/vfg2006/cirod-kpi-engine/pkg/log"
)

const maxRequestBody = 1 << 20

// RegisterRequest recebe a requisição salva na origem e atualiza os KPIs do dentista
func RegisterRequest(service requesting.RequestService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var record store.Record
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&record); err != nil {
			logger.WithError(err).Warn("Corpo da requisição inválido")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", nil)
			return
		}
		if len(record) == 0 {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Requisição vazia", nil)
			return
		}

		result, err := service.Register(r.Context(), record)
		if err != nil {
			writeServiceError(w, err, "Erro ao registrar requisição")
			return
		}

		writeJSON(w, http.StatusOK, result)
	})
}
