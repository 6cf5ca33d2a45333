package handler

import (
	"net/http"

	"github.com/vfg2006/cirod-kpi-engine/infrastructure/repository"
	"github.com/vfg2006/cirod-kpi-engine/internal/api/handler/router"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/health"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/kpi"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/productivity"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/requesting"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Requests(service requesting.RequestService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/requests",
			Method:  http.MethodPost,
			Handler: RegisterRequest(service),
		},
	}
}

func KPIs(service kpi.KPIService, codec *repository.KPICodec) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/kpis/recalculate",
			Method:  http.MethodPost,
			Handler: RecalculateKPIs(service),
		},
		{
			Path:    "/v1/kpis/recalculate/:cro",
			Method:  http.MethodPost,
			Handler: RecalculateDentistKPIs(service, codec),
		},
		{
			Path:    "/v1/kpis/diagnostic",
			Method:  http.MethodGet,
			Handler: GetKPIDiagnostic(service),
		},
		{
			Path:    "/v1/dentists/:id/kpis",
			Method:  http.MethodGet,
			Handler: GetDentistKPIs(service, codec),
		},
	}
}

func PartnershipHealth(service health.HealthService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/partnership-health",
			Method:  http.MethodGet,
			Handler: GetPartnershipHealth(service),
		},
	}
}

func Productivity(service productivity.ProductivityService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/productivity",
			Method:  http.MethodGet,
			Handler: GetProductivity(service),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
