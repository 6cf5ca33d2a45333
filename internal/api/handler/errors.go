package handler

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/health"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/kpi"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/productivity"
	"github.com/vfg2006/cirod-kpi-engine/pkg/apiErrors"
)

// writeServiceError converte erros dos casos de uso no erro padronizado da API
func writeServiceError(w http.ResponseWriter, err error, message string) {
	if store.IsCancelled(err) {
		apiErrors.WriteError(w, apiErrors.ErrCancelled, "Operação cancelada", nil)
		return
	}

	var kpiErr *kpi.KPIError
	if errors.As(err, &kpiErr) {
		details := map[string]string{}
		if kpiErr.DentistID != "" {
			details["dentistId"] = kpiErr.DentistID
		}
		if kpiErr.Details != "" {
			details["details"] = kpiErr.Details
		}
		if len(details) == 0 {
			apiErrors.WriteError(w, kpiErr.Code, kpiErr.Err.Error(), nil)
			return
		}
		apiErrors.WriteError(w, kpiErr.Code, kpiErr.Err.Error(), details)
		return
	}

	switch {
	case errors.Is(err, health.ErrInvalidYear),
		errors.Is(err, productivity.ErrUnknownUnit),
		errors.Is(err, productivity.ErrDisabledUnit):
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)

	case errors.Is(err, health.ErrFetchDentists),
		errors.Is(err, health.ErrHealthCache),
		errors.Is(err, productivity.ErrFetchDentists):
		logrus.WithError(err).Error(message)
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, message, nil)

	default:
		logrus.WithError(err).Error(message)
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, message, nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("Erro ao codificar resposta")
	}
}
