package repository

import (
	"math"

	"github.com/spf13/cast"
	"github.com/vfg2006/cirod-kpi-engine/internal/domain"
)

const (
	kpisField            = "KPIs"
	expectedRevenueField = "expectedMonthlyRevenue"
	expectedQtdField     = "expectedMonthlyQtd"
	periodKPIsField      = "periodKPIs"
	revenueField         = "faturamentoTotalMes"
	ordersField          = "totalPedidos"
	avgTicketField       = "avgTicket"
	unitRevenuePrefix    = "faturamento"
	unitOrdersPrefix     = "totalPedidos"
)

// KPICodec converte KPIs tipados no formato plano armazenado (faturamento<Sufixo>, totalPedidos<Sufixo>)
type KPICodec struct {
	units domain.BusinessUnits
}

func NewKPICodec(units domain.BusinessUnits) *KPICodec {
	return &KPICodec{units: units}
}

func (c *KPICodec) Encode(kpis *domain.KPIs) map[string]any {
	if kpis == nil {
		kpis = &domain.KPIs{}
	}

	periods := make(map[string]any, len(kpis.PeriodKPIs))
	for year, months := range kpis.PeriodKPIs {
		encodedMonths := make(map[string]any, len(months))
		for month, m := range months {
			encodedMonths[month] = c.encodeMonth(m)
		}
		periods[year] = encodedMonths
	}

	return map[string]any{
		expectedRevenueField: finite(kpis.ExpectedMonthlyRevenue),
		expectedQtdField:     finite(kpis.ExpectedMonthlyQtd),
		periodKPIsField:      periods,
	}
}

func (c *KPICodec) encodeMonth(m *domain.MonthKPI) map[string]any {
	out := map[string]any{
		revenueField:   finite(m.Revenue),
		ordersField:    m.Orders,
		avgTicketField: finite(m.AvgTicket),
	}

	for _, unit := range c.units.Buckets() {
		var totals domain.UnitTotals
		if t, ok := m.Units[unit.ID]; ok && t != nil {
			totals = *t
		}
		out[unitRevenuePrefix+unit.FieldSuffix] = finite(totals.Revenue)
		out[unitOrdersPrefix+unit.FieldSuffix] = totals.Orders
	}

	return out
}

// Decode aceita o valor armazenado em qualquer formato tolerado; ausente ou inválido vira nil
func (c *KPICodec) Decode(raw any) *domain.KPIs {
	if raw == nil {
		return nil
	}
	fields, err := cast.ToStringMapE(raw)
	if err != nil {
		return nil
	}

	kpis := &domain.KPIs{
		ExpectedMonthlyRevenue: finite(cast.ToFloat64(fields[expectedRevenueField])),
		ExpectedMonthlyQtd:     finite(cast.ToFloat64(fields[expectedQtdField])),
		PeriodKPIs:             make(map[string]map[string]*domain.MonthKPI),
	}

	for year, rawMonths := range cast.ToStringMap(fields[periodKPIsField]) {
		months := make(map[string]*domain.MonthKPI)
		for month, rawMonth := range cast.ToStringMap(rawMonths) {
			months[month] = c.decodeMonth(cast.ToStringMap(rawMonth))
		}
		kpis.PeriodKPIs[year] = months
	}

	return kpis
}

func (c *KPICodec) decodeMonth(fields map[string]any) *domain.MonthKPI {
	m := &domain.MonthKPI{
		Revenue:   finite(cast.ToFloat64(fields[revenueField])),
		Orders:    cast.ToInt(fields[ordersField]),
		AvgTicket: finite(cast.ToFloat64(fields[avgTicketField])),
		Units:     make(map[int]*domain.UnitTotals),
	}

	for _, unit := range c.units.Buckets() {
		m.Units[unit.ID] = &domain.UnitTotals{
			Revenue: finite(cast.ToFloat64(fields[unitRevenuePrefix+unit.FieldSuffix])),
			Orders:  cast.ToInt(fields[unitOrdersPrefix+unit.FieldSuffix]),
		}
	}

	return m
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
