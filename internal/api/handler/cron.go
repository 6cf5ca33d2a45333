package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/cirod-kpi-engine/pkg/apiErrors"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeKPIRecalc         = "kpi-recalc"
	CronJobTypePartnershipHealth = "partnership-health"
	CronJobTypeAll               = "all"
)

// ManualSyncer é um agendador que aceita disparo manual
type ManualSyncer interface {
	TriggerManualSync() bool
	GetStatus() map[string]any
}

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	KPIRecalcSyncService         ManualSyncer
	PartnershipHealthSyncService ManualSyncer
}

func (s CronJobServices) byType(cronType string) (ManualSyncer, bool) {
	switch cronType {
	case CronJobTypeKPIRecalc:
		return s.KPIRecalcSyncService, true
	case CronJobTypePartnershipHealth:
		return s.PartnershipHealthSyncService, true
	}
	return nil, false
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		triggered := map[string]bool{}

		if cronType == CronJobTypeAll {
			for _, name := range []string{CronJobTypeKPIRecalc, CronJobTypePartnershipHealth} {
				if syncer, _ := services.byType(name); syncer != nil {
					triggered[name] = syncer.TriggerManualSync()
				}
			}
		} else {
			syncer, known := services.byType(cronType)
			if !known {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: kpi-recalc, partnership-health, all", nil)
				return
			}
			if syncer == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de sincronização não disponível", nil)
				return
			}
			if !syncer.TriggerManualSync() {
				apiErrors.WriteError(w, apiErrors.ErrConflict, "Cron job já em andamento", nil)
				return
			}
			triggered[cronType] = true
		}

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message":   "Cron job iniciada com sucesso",
			"type":      cronType,
			"triggered": triggered,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}
		if services.KPIRecalcSyncService != nil {
			status[CronJobTypeKPIRecalc] = services.KPIRecalcSyncService.GetStatus()
		}
		if services.PartnershipHealthSyncService != nil {
			status[CronJobTypePartnershipHealth] = services.PartnershipHealthSyncService.GetStatus()
		}

		writeJSON(w, http.StatusOK, status)
	}
}
