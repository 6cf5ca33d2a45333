package domain

const (
	KPIConfigID    = "kpi_config"
	HealthConfigID = "health_config"
)

// KPIConfig guarda o marcador do último recálculo completo
type KPIConfig struct {
	LastFullRecalculation string `json:"lastFullRecalculation"`
	LastRecalculationTime string `json:"lastRecalculationTime"`
	CachedDentists        int    `json:"cachedDentists"`
}

// HealthConfig guarda o último relatório de saúde calculado
type HealthConfig struct {
	LastHealthCalculation     string          `json:"lastHealthCalculation"`
	LastHealthCalculationTime string          `json:"lastHealthCalculationTime"`
	CacheYear                 int             `json:"cacheYear"`
	HealthData                []DentistHealth `json:"healthData"`
}
