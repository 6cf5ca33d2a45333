package handler

import (
	"net/http"
	"strconv"

	"github.com/spf13/cast"
	"github.com/vfg2006/cirod-kpi-engine/internal/domain"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/health"
	"github.com/vfg2006/cirod-kpi-engine/pkg/apiErrors"
)

type healthItemResponse struct {
	domain.DentistHealth
	GapDisplay string `json:"gapDisplay"`
}

type healthReportResponse struct {
	*domain.HealthReport
	Items []healthItemResponse `json:"items"`
}

// GetPartnershipHealth retorna a saúde das parcerias do ano (?year=2025&force=true)
func GetPartnershipHealth(service health.HealthService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		year := 0
		if raw := query.Get("year"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Ano inválido", nil)
				return
			}
			year = parsed
		}

		force := cast.ToBool(query.Get("force"))

		report, err := service.ComputeForYear(r.Context(), year, force)
		if err != nil {
			writeServiceError(w, err, "Erro ao calcular saúde das parcerias")
			return
		}

		items := make([]healthItemResponse, 0, len(report.Items))
		for _, item := range report.Items {
			items = append(items, healthItemResponse{
				DentistHealth: item,
				GapDisplay:    health.FormatGap(item.GapDays),
			})
		}

		writeJSON(w, http.StatusOK, healthReportResponse{HealthReport: report, Items: items})
	})
}
