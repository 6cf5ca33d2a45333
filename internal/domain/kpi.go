package domain

import "sort"

// UnitTotals são os contadores de uma unidade dentro do mês
type UnitTotals struct {
	Revenue float64
	Orders  int
}

// MonthKPI agrega faturamento e pedidos de um dentista em um mês
type MonthKPI struct {
	Revenue   float64
	Orders    int
	AvgTicket float64
	Units     map[int]*UnitTotals
}

// Unit retorna os contadores da unidade, criando a entrada zerada se necessário
func (m *MonthKPI) Unit(id int) *UnitTotals {
	if m.Units == nil {
		m.Units = make(map[int]*UnitTotals)
	}
	totals, ok := m.Units[id]
	if !ok {
		totals = &UnitTotals{}
		m.Units[id] = totals
	}
	return totals
}

// KPIs é o bloco de indicadores persistido em cada dentista.
// PeriodKPIs é indexado por ano ("YYYY") e mês ("MM").
type KPIs struct {
	ExpectedMonthlyRevenue float64
	ExpectedMonthlyQtd     float64
	PeriodKPIs             map[string]map[string]*MonthKPI
}

// Month retorna o mês existente ou nil
func (k *KPIs) Month(year, month string) *MonthKPI {
	if k == nil || k.PeriodKPIs == nil {
		return nil
	}
	months, ok := k.PeriodKPIs[year]
	if !ok {
		return nil
	}
	return months[month]
}

// EachMonth percorre os meses em ordem cronológica
func (k *KPIs) EachMonth(fn func(year, month string, m *MonthKPI)) {
	if k == nil {
		return
	}

	years := make([]string, 0, len(k.PeriodKPIs))
	for year := range k.PeriodKPIs {
		years = append(years, year)
	}
	sort.Strings(years)

	for _, year := range years {
		months := make([]string, 0, len(k.PeriodKPIs[year]))
		for month := range k.PeriodKPIs[year] {
			months = append(months, month)
		}
		sort.Strings(months)

		for _, month := range months {
			fn(year, month, k.PeriodKPIs[year][month])
		}
	}
}

// HasData indica se existe ao menos um mês registrado
func (k *KPIs) HasData() bool {
	if k == nil {
		return false
	}
	for _, months := range k.PeriodKPIs {
		if len(months) > 0 {
			return true
		}
	}
	return false
}
