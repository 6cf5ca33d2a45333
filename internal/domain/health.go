package domain

import "time"

type HealthStatus string

const (
	HealthAccelerating HealthStatus = "Acelerando"
	HealthStable       HealthStatus = "Estável"
	HealthOpportunity  HealthStatus = "Oportunidade"
	HealthAttention    HealthStatus = "Atenção"
	HealthDropping     HealthStatus = "Queda"
	HealthInactive     HealthStatus = "Inativa"
)

type Confidence string

const (
	ConfidenceLow    Confidence = "Baixa"
	ConfidenceMedium Confidence = "Média"
	ConfidenceHigh   Confidence = "Alta"
)

// HealthMetrics é a classificação de saúde da parceria de um dentista.
// Campos numéricos nulos indicam histórico insuficiente.
type HealthMetrics struct {
	FreqCurrent      *float64     `json:"freqCurrent"`
	GapDays          *int         `json:"gapDays"`
	BestHistory      *float64     `json:"bestHistory"`
	PercentPotential *float64     `json:"percentPotential"`
	ScoreChurn       *int         `json:"scoreChurn"`
	Confidence       Confidence   `json:"confidence"`
	Status           HealthStatus `json:"status"`
}

type DentistHealth struct {
	DentistID    string `json:"dentistId"`
	DentistName  string `json:"dentistName"`
	AreasDisplay string `json:"areasDisplay"`
	Referrals    int    `json:"referrals"`
	HealthMetrics
}

// HealthReport é o resultado do cálculo de saúde para um ano
type HealthReport struct {
	Year         int             `json:"year"`
	CalculatedAt time.Time       `json:"calculatedAt"`
	FromCache    bool            `json:"fromCache"`
	Items        []DentistHealth `json:"items"`
}
