package domain

import (
	"strconv"
	"strings"
)

// AggregateUnitID identifica a unidade "Geral", cujos campos são os totais globais do mês
const AggregateUnitID = 0

// BusinessUnit representa uma unidade de atendimento configurada
type BusinessUnit struct {
	ID          int    `json:"id" yaml:"id"`
	City        string `json:"city,omitempty" yaml:"city"`
	Name        string `json:"name" yaml:"name"`
	FieldSuffix string `json:"fieldSuffix" yaml:"field_suffix"`
	Color       string `json:"color" yaml:"color"`
	Enabled     bool   `json:"enabled" yaml:"enabled"`
}

// IsAggregate indica se a unidade representa os totais globais
func (u BusinessUnit) IsAggregate() bool {
	return u.ID == AggregateUnitID
}

// BusinessUnits é a lista ordenada de unidades. Não deve ser alterada após a carga.
type BusinessUnits []BusinessUnit

// DefaultBusinessUnits retorna a configuração padrão de unidades
func DefaultBusinessUnits() BusinessUnits {
	return BusinessUnits{
		{ID: 0, Name: "Geral", FieldSuffix: "TotalMes", Color: "#333", Enabled: true},
		{ID: 5778, City: "Niterói", Name: "Icaraí", FieldSuffix: "Icarai", Color: "#1565c0", Enabled: true},
		{ID: 1754, City: "Maricá", Name: "Maricá", FieldSuffix: "Marica", Color: "#e65100", Enabled: true},
		{ID: 5543, City: "Niterói", Name: "Niterói", FieldSuffix: "Niteroi", Color: "#1e88e5", Enabled: true},
		{ID: 2950, City: "Maricá", Name: "Itaipuaçu", FieldSuffix: "Itaipuacu", Color: "#ef6c00", Enabled: true},
		{ID: 5189, City: "Itaboraí", Name: "Itaboraí", FieldSuffix: "Itaborai", Color: "#7b1fa2", Enabled: true},
		{ID: -1, City: "São Gonçalo", Name: "São Gonçalo", FieldSuffix: "SaoGoncalo", Color: "#1a5f1a"},
		{ID: -2, City: "São Gonçalo", Name: "Alcântara", FieldSuffix: "Alcantara", Color: "#2e7d32"},
		{ID: -3, City: "São Gonçalo", Name: "Raul Veiga", FieldSuffix: "RaulVeiga", Color: "#388e3c"},
		{ID: -4, City: "São Gonçalo", Name: "Parque das Águas", FieldSuffix: "ParqueAguas", Color: "#43a047"},
		{ID: -5, City: "Niterói", Name: "Jardim Icaraí", FieldSuffix: "JardimIcarai", Color: "#1976d2"},
		{ID: -6, City: "Niterói", Name: "Centro Niterói", FieldSuffix: "CentroNiteroi", Color: "#1976d2"},
		{ID: -7, City: "Niterói", Name: "Itaipú", FieldSuffix: "Itaipu", Color: "#2196f3"},
		{ID: -8, City: "Niterói", Name: "Fonseca", FieldSuffix: "Fonseca", Color: "#42a5f5"},
		{ID: -9, City: "Rio de Janeiro", Name: "Centro do Rio", FieldSuffix: "CentroRio", Color: "#c62828"},
	}
}

// ByID busca uma unidade pelo identificador, habilitada ou não
func (u BusinessUnits) ByID(id int) (BusinessUnit, bool) {
	for _, unit := range u {
		if unit.ID == id {
			return unit, true
		}
	}
	return BusinessUnit{}, false
}

// Buckets retorna as unidades que possuem contadores próprios no mês (todas exceto a agregada)
func (u BusinessUnits) Buckets() BusinessUnits {
	buckets := make(BusinessUnits, 0, len(u))
	for _, unit := range u {
		if !unit.IsAggregate() {
			buckets = append(buckets, unit)
		}
	}
	return buckets
}

// Resolve converte o id da clínica de uma requisição em uma unidade habilitada.
// Retorna nil para ids desconhecidos, desabilitados ou para a unidade agregada.
func (u BusinessUnits) Resolve(clinicID string) *BusinessUnit {
	id, err := strconv.Atoi(strings.TrimSpace(clinicID))
	if err != nil {
		return nil
	}

	unit, ok := u.ByID(id)
	if !ok || !unit.Enabled || unit.IsAggregate() {
		return nil
	}

	return &unit
}

// Validate verifica ids e sufixos duplicados
func (u BusinessUnits) Validate() error {
	ids := make(map[int]bool, len(u))
	suffixes := make(map[string]bool, len(u))
	for _, unit := range u {
		if unit.FieldSuffix == "" {
			return &UnitConfigError{UnitID: unit.ID, Reason: "sufixo vazio"}
		}
		if ids[unit.ID] {
			return &UnitConfigError{UnitID: unit.ID, Reason: "id duplicado"}
		}
		if suffixes[unit.FieldSuffix] {
			return &UnitConfigError{UnitID: unit.ID, Reason: "sufixo duplicado"}
		}
		ids[unit.ID] = true
		suffixes[unit.FieldSuffix] = true
	}
	return nil
}

// UnitConfigError indica uma configuração de unidades inválida
type UnitConfigError struct {
	UnitID int
	Reason string
}

func (e *UnitConfigError) Error() string {
	return "configuração de unidade inválida (id " + strconv.Itoa(e.UnitID) + "): " + e.Reason
}
