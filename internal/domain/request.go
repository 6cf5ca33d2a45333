package domain

import (
	"strconv"
	"strings"
	"time"
)

type RequestClinic struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// RequestDentist são os dados do dentista embutidos na requisição
type RequestDentist struct {
	ID              string         `json:"dentist_id"`
	CRO             *string        `json:"dentist_cro"`
	Name            string         `json:"dentist_name,omitempty"`
	Emails          []string       `json:"dentist_email,omitempty"`
	CommercialPhone string         `json:"commercial_phone,omitempty"`
	MobilePhone     string         `json:"mobile_phone,omitempty"`
	HomePhone       string         `json:"home_phone,omitempty"`
	Comment         string         `json:"comment,omitempty"`
	Clinics         []DentalClinic `json:"dental_clinics,omitempty"`
}

func (d RequestDentist) LicenseCode() string {
	if d.CRO == nil {
		return ""
	}
	return strings.TrimSpace(*d.CRO)
}

// Identified indica se a requisição carrega CRO ou id do dentista
func (d RequestDentist) Identified() bool {
	return d.LicenseCode() != "" || strings.TrimSpace(d.ID) != ""
}

// Request é a requisição (pedido de exame) salva no sistema de origem
type Request struct {
	ID              string         `json:"request_id"`
	CreationDateInv string         `json:"creation_date_inv"`
	TotalValue      float64        `json:"total_value"`
	Clinic          RequestClinic  `json:"clinic"`
	Dentist         RequestDentist `json:"dentist"`
	Extra           map[string]any `json:"-"`
}

// Period extrai ano e mês de creation_date_inv (YYYY-MM-DD)
func (r *Request) Period() (year, month string, ok bool) {
	parts := strings.Split(strings.TrimSpace(r.CreationDateInv), "-")
	if len(parts) < 2 {
		return "", "", false
	}

	year, month = parts[0], parts[1]
	if len(year) != 4 || len(month) != 2 {
		return "", "", false
	}
	if _, err := strconv.Atoi(year); err != nil {
		return "", "", false
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return "", "", false
	}

	return year, month, true
}

// Date converte creation_date_inv para time.Time em UTC
func (r *Request) Date() (time.Time, bool) {
	date, err := time.Parse(time.DateOnly, strings.TrimSpace(r.CreationDateInv))
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}
