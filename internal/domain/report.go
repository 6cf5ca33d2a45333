package domain

import "time"

// RecalcSummary resume uma execução do recálculo completo
type RecalcSummary struct {
	RunID             string        `json:"runId"`
	DentistsUpdated   int           `json:"dentistsUpdated"`
	DentistsCreated   int           `json:"dentistsCreated"`
	RequestsProcessed int           `json:"requestsProcessed"`
	RequestsSkipped   int           `json:"requestsSkipped"`
	StartedAt         time.Time     `json:"startedAt"`
	Duration          time.Duration `json:"duration"`
}

type ClinicCount struct {
	ClinicID string `json:"clinicId"`
	UnitName string `json:"unitName,omitempty"`
	Requests int    `json:"requests"`
}

// KPIDiagnostic confronta dentistas e requisições armazenados
type KPIDiagnostic struct {
	TotalDentists       int            `json:"totalDentists"`
	DentistsWithKPIs    int            `json:"dentistsWithKPIs"`
	DentistsWithoutCRO  int            `json:"dentistsWithoutCRO"`
	TotalRequests       int            `json:"totalRequests"`
	RequestsWithoutDate int            `json:"requestsWithoutDate"`
	OrphanLicenseCodes  []string       `json:"orphanLicenseCodes"`
	RequestsByMonth     map[string]int `json:"requestsByMonth"`
	RequestsByClinic    []ClinicCount  `json:"requestsByClinic"`
}

// ProductivityRow compara o mês atual com o anterior para um dentista
type ProductivityRow struct {
	DentistID              string  `json:"dentistId"`
	DentistName            string  `json:"dentistName"`
	LicenseCode            string  `json:"cro,omitempty"`
	PartnershipStatus      string  `json:"partnershipStatus"`
	ExpectedMonthlyRevenue float64 `json:"expectedMonthlyRevenue"`
	PreviousMonthRevenue   float64 `json:"previousMonthRevenue"`
	CurrentMonthRevenue    float64 `json:"currentMonthRevenue"`
	RevenueDifference      float64 `json:"revenueDifference"`
	PreviousMonthOrders    int     `json:"previousMonthOrders"`
	CurrentMonthOrders     int     `json:"currentMonthOrders"`
	OrdersDifference       int     `json:"ordersDifference"`
}

type ProductivityReport struct {
	UnitID        int               `json:"unitId"`
	UnitName      string            `json:"unitName"`
	CurrentMonth  string            `json:"currentMonth"`
	PreviousMonth string            `json:"previousMonth"`
	Rows          []ProductivityRow `json:"rows"`
}
