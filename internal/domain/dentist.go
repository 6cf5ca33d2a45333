package domain

import (
	"strings"
	"time"
)

// Status de parceria exibidos no painel
const (
	PartnershipExclusive     = "Parceria exclusiva"
	PartnershipConsolidating = "Parceria em consolidação"
	PartnershipTrial         = "Parceria em teste"
	PartnershipProspectable  = "Oportunidade de prospecção"
	PartnershipFragile       = "Fragilidade detectada"
	PartnershipLost          = "Parceria perdida"
	PartnershipProspecting   = "Prospecção em andamento"
)

const DefaultDentistName = "Nome não informado"

type DentalClinic struct {
	ClinicID     string `json:"clinic_id,omitempty"`
	Street       string `json:"street,omitempty"`
	Number       string `json:"number,omitempty"`
	CEP          string `json:"cep,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Country      string `json:"country,omitempty"`
	Complement   string `json:"complement,omitempty"`
	Description  string `json:"description,omitempty"`
	Phone        string `json:"phone,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

// Dentist é o registro espelhado da coleção de dentistas.
// Campos desconhecidos ficam em Extra e são reescritos na gravação completa.
// Campos conhecidos com formato inesperado ficam em Undecoded e são regravados como estavam.
type Dentist struct {
	ID                string         `json:"dentist_id"`
	Name              string         `json:"dentist_name"`
	CRO               *string        `json:"dentist_cro"`
	Emails            []string       `json:"dentist_email"`
	CommercialPhone   string         `json:"commercial_phone"`
	MobilePhone       string         `json:"mobile_phone"`
	HomePhone         string         `json:"home_phone"`
	Comment           string         `json:"comment"`
	Clinics           []DentalClinic `json:"dental_clinics"`
	PartnershipStatus string         `json:"actual_partnership_status"`
	AutoCreated       bool           `json:"auto_created"`
	CreatedAt         string         `json:"created_at"`
	KPIs              *KPIs          `json:"-"`
	Extra             map[string]any `json:"-"`
	Undecoded         map[string]any `json:"-"`
}

// LicenseCode retorna o CRO normalizado; vazio quando ausente
func (d *Dentist) LicenseCode() string {
	if d == nil || d.CRO == nil {
		return ""
	}
	return strings.TrimSpace(*d.CRO)
}

// AreasDisplay junta os dois primeiros bairros das clínicas para exibição
func (d *Dentist) AreasDisplay() string {
	areas := make([]string, 0, 2)
	for _, clinic := range d.Clinics {
		if clinic.Neighborhood == "" {
			continue
		}
		areas = append(areas, clinic.Neighborhood)
		if len(areas) == 2 {
			break
		}
	}
	if len(areas) == 0 {
		return "-"
	}
	return strings.Join(areas, " / ")
}

// NewAutoCreatedDentist monta o dentista sintetizado a partir dos dados embutidos em uma requisição
func NewAutoCreatedDentist(ref RequestDentist, kpis *KPIs, now time.Time) *Dentist {
	name := strings.TrimSpace(ref.Name)
	if name == "" {
		name = DefaultDentistName
	}

	var cro *string
	if code := ref.LicenseCode(); code != "" {
		cro = &code
	}

	emails := ref.Emails
	if emails == nil {
		emails = []string{}
	}

	clinics := ref.Clinics
	if clinics == nil {
		clinics = []DentalClinic{}
	}

	return &Dentist{
		ID:                ref.ID,
		Name:              name,
		CRO:               cro,
		Emails:            emails,
		CommercialPhone:   ref.CommercialPhone,
		MobilePhone:       ref.MobilePhone,
		HomePhone:         ref.HomePhone,
		Comment:           ref.Comment,
		Clinics:           clinics,
		PartnershipStatus: PartnershipTrial,
		AutoCreated:       true,
		CreatedAt:         now.UTC().Format(time.RFC3339),
		KPIs:              kpis,
	}
}
