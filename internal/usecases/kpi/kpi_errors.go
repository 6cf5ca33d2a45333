package kpi

import (
	"errors"
	"fmt"
)

// Erros específicos para o cálculo de KPIs
var (
	// Erros de validação
	ErrMissingDentistIdentifier = errors.New("request has no dentist identifier")
	ErrMissingRequestID         = errors.New("request ID is required")
	ErrLicenseCodeRequired      = errors.New("dentist license code is required")
	ErrDentistNotFound          = errors.New("dentist not found")
	ErrInvalidRequestRecord     = errors.New("invalid request record")

	// Erros de armazenamento
	ErrLookupDentist = errors.New("error looking up dentist")
	ErrSaveDentist   = errors.New("error saving dentist")
	ErrSaveKPIs      = errors.New("error saving dentist KPIs")
	ErrSaveRequest   = errors.New("error saving request")
	ErrFetchRequests = errors.New("error fetching requests")
	ErrFetchDentists = errors.New("error fetching dentists")
	ErrSettings      = errors.New("error accessing KPI settings")
)

// KPIError é um erro com contexto adicional para o cálculo de KPIs
type KPIError struct {
	Err       error  // Erro base
	Code      string // Código de erro para API
	DentistID string // Dentista envolvido (quando aplicável)
	Details   string // Detalhes adicionais
}

func (e *KPIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *KPIError) Unwrap() error {
	return e.Err
}

func NewKPIError(err error, code string, details string) *KPIError {
	return &KPIError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

func NewKPIErrorWithDentist(err error, code string, dentistID string, details string) *KPIError {
	return &KPIError{
		Err:       err,
		Code:      code,
		DentistID: dentistID,
		Details:   details,
	}
}
