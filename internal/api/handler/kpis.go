package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/repository"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/kpi"
	"github.com/vfg2006/cirod-kpi-engine/pkg/apiErrors"
	"github.com/vfg2006/cirod-kpi-engine/pkg/log"
)

// RecalculateKPIs reconstrói os KPIs de todos os dentistas e devolve o resumo da execução
func RecalculateKPIs(service kpi.KPIService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.ForContext(r.Context()).Info("INIT - RecalculateKPIs")

		summary, err := service.RecalculateAll(r.Context())
		if err != nil {
			writeServiceError(w, err, "Erro ao recalcular KPIs")
			return
		}

		writeJSON(w, http.StatusOK, summary)
	})
}

// RecalculateDentistKPIs refaz os KPIs do dentista identificado pelo CRO
func RecalculateDentistKPIs(service kpi.KPIService, codec *repository.KPICodec) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cro := httprouter.ParamsFromContext(r.Context()).ByName("cro")
		if cro == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "CRO não informado", nil)
			return
		}

		kpis, err := service.RecalculateDentist(r.Context(), cro)
		if err != nil {
			writeServiceError(w, err, "Erro ao recalcular KPIs do dentista")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"cro":  cro,
			"KPIs": codec.Encode(kpis),
		})
	})
}

// GetDentistKPIs retorna os KPIs armazenados no formato plano usado pelo painel
func GetDentistKPIs(service kpi.KPIService, codec *repository.KPICodec) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		dentist, err := service.GetDentistKPIs(r.Context(), id)
		if err != nil {
			writeServiceError(w, err, "Erro ao buscar KPIs do dentista")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"dentist_id":                dentist.ID,
			"dentist_name":              dentist.Name,
			"dentist_cro":               dentist.LicenseCode(),
			"actual_partnership_status": dentist.PartnershipStatus,
			"KPIs":                      codec.Encode(dentist.KPIs),
		})
	})
}

func GetKPIDiagnostic(service kpi.KPIService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		diagnostic, err := service.Diagnose(r.Context())
		if err != nil {
			writeServiceError(w, err, "Erro ao gerar diagnóstico de KPIs")
			return
		}

		writeJSON(w, http.StatusOK, diagnostic)
	})
}
