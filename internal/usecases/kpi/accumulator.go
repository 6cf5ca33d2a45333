// Package kpi mantém os indicadores mensais de faturamento e pedidos por dentista
package kpi

import (
	"github.com/shopspring/decimal"
	"github.com/vfg2006/cirod-kpi-engine/internal/domain"
	"github.com/vfg2006/cirod-kpi-engine/pkg/utils"
)

const (
	minQualifyingRevenue = 500
	minQualifyingOrders  = 4
)

// Accumulator concentra a forma e a aritmética de periodKPIs
type Accumulator struct {
	units domain.BusinessUnits
}

func NewAccumulator(units domain.BusinessUnits) *Accumulator {
	return &Accumulator{units: units}
}

func (a *Accumulator) Units() domain.BusinessUnits {
	return a.units
}

func NewKPIs() *domain.KPIs {
	return &domain.KPIs{PeriodKPIs: make(map[string]map[string]*domain.MonthKPI)}
}

// EnsureMonth devolve o mês existente ou insere um zerado com todas as unidades configuradas
func (a *Accumulator) EnsureMonth(kpis *domain.KPIs, year, month string) *domain.MonthKPI {
	if kpis.PeriodKPIs == nil {
		kpis.PeriodKPIs = make(map[string]map[string]*domain.MonthKPI)
	}
	months, ok := kpis.PeriodKPIs[year]
	if !ok {
		months = make(map[string]*domain.MonthKPI)
		kpis.PeriodKPIs[year] = months
	}

	m, ok := months[month]
	if !ok || m == nil {
		m = a.emptyMonth()
		months[month] = m
	}

	for _, unit := range a.units.Buckets() {
		m.Unit(unit.ID)
	}
	return m
}

func (a *Accumulator) emptyMonth() *domain.MonthKPI {
	buckets := a.units.Buckets()
	m := &domain.MonthKPI{Units: make(map[int]*domain.UnitTotals, len(buckets))}
	for _, unit := range buckets {
		m.Units[unit.ID] = &domain.UnitTotals{}
	}
	return m
}

// ResolveUnit converte o id da clínica em unidade habilitada, ou nil
func (a *Accumulator) ResolveUnit(clinicID string) *domain.BusinessUnit {
	return a.units.Resolve(clinicID)
}

// ApplyRequest soma a requisição aos totais do mês e, se houver unidade, aos contadores dela
func (a *Accumulator) ApplyRequest(m *domain.MonthKPI, unit *domain.BusinessUnit, value float64) {
	m.Revenue = utils.Sum(m.Revenue, value)
	m.Orders++

	if unit != nil && !unit.IsAggregate() {
		totals := m.Unit(unit.ID)
		totals.Revenue = utils.Sum(totals.Revenue, value)
		totals.Orders++
	}

	m.AvgTicket = avgTicket(m)
}

func avgTicket(m *domain.MonthKPI) float64 {
	if m.Orders <= 0 {
		return 0
	}
	return decimal.NewFromFloat(m.Revenue).
		Div(decimal.NewFromInt(int64(m.Orders))).
		Round(2).
		InexactFloat64()
}

// RecalcExpectations calcula as médias considerando só os meses significativos;
// sem meses qualificados o valor volta a zero.
func (a *Accumulator) RecalcExpectations(kpis *domain.KPIs) {
	var revenues, orders []float64
	kpis.EachMonth(func(_, _ string, m *domain.MonthKPI) {
		if m == nil {
			return
		}
		if m.Revenue > minQualifyingRevenue {
			revenues = append(revenues, m.Revenue)
		}
		if m.Orders >= minQualifyingOrders {
			orders = append(orders, float64(m.Orders))
		}
	})

	kpis.ExpectedMonthlyRevenue = utils.Mean(revenues, 2)
	kpis.ExpectedMonthlyQtd = utils.Mean(orders, 1)
}

// Finalize recalcula o ticket médio de todos os meses e as expectativas
func (a *Accumulator) Finalize(kpis *domain.KPIs) {
	kpis.EachMonth(func(_, _ string, m *domain.MonthKPI) {
		if m != nil {
			m.AvgTicket = avgTicket(m)
		}
	})
	a.RecalcExpectations(kpis)
}

// Replay aplica uma requisição ao bloco de KPIs; retorna false para data ausente ou inválida
func (a *Accumulator) Replay(kpis *domain.KPIs, request *domain.Request) bool {
	year, month, ok := request.Period()
	if !ok {
		return false
	}
	m := a.EnsureMonth(kpis, year, month)
	a.ApplyRequest(m, a.ResolveUnit(request.Clinic.ID), request.TotalValue)
	return true
}
