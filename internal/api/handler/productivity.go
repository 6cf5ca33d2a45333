package handler

import (
	"net/http"
	"strconv"

	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/productivity"
	"github.com/vfg2006/cirod-kpi-engine/pkg/apiErrors"
)

// GetProductivity compara o mês atual com o anterior para a unidade (?unit=5778, padrão 0 = Geral)
func GetProductivity(service productivity.ProductivityService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		unitID := 0
		if raw := r.URL.Query().Get("unit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Unidade inválida", nil)
				return
			}
			unitID = parsed
		}

		report, err := service.Report(r.Context(), unitID)
		if err != nil {
			writeServiceError(w, err, "Erro ao gerar relatório de produtividade")
			return
		}

		writeJSON(w, http.StatusOK, report)
	})
}
