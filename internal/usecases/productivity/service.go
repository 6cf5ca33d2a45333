// Package productivity compara faturamento e pedidos do mês atual com o anterior por unidade
package productivity

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/vfg2006/cirod-kpi-engine/infrastructure/repository"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store"
	"github.com/vfg2006/cirod-kpi-engine/internal/domain"
	"github.com/vfg2006/cirod-kpi-engine/pkg/utils"
)

var (
	ErrUnknownUnit   = errors.New("unknown business unit")
	ErrDisabledUnit  = errors.New("business unit not enabled")
	ErrFetchDentists = errors.New("error fetching dentists")
)

//go:generate mockgen -source=service.go -destination=mocks/service.go -package=mocks
type ProductivityService interface {
	Report(ctx context.Context, unitID int) (*domain.ProductivityReport, error)
}

type Service struct {
	dentistRepo repository.DentistRepository
	units       domain.BusinessUnits
	now         func() time.Time
}

func NewService(dentistRepo repository.DentistRepository, units domain.BusinessUnits) *Service {
	return &Service{
		dentistRepo: dentistRepo,
		units:       units,
		now:         time.Now,
	}
}

// Report monta o comparativo dos dentistas com KPIs; unidade 0 usa os totais globais
func (s *Service) Report(ctx context.Context, unitID int) (*domain.ProductivityReport, error) {
	unit, ok := s.units.ByID(unitID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownUnit, unitID)
	}
	if !unit.Enabled {
		return nil, fmt.Errorf("%w: %s", ErrDisabledUnit, unit.Name)
	}

	dentists, err := s.dentistRepo.List(ctx)
	if err != nil {
		if store.IsCancelled(err) {
			return nil, store.ErrCancelled
		}
		return nil, fmt.Errorf("%w: %v", ErrFetchDentists, err)
	}

	current := s.now()
	previous := utils.PreviousMonth(current)
	curYear, curMonth := current.Format("2006"), current.Format("01")
	prevYear, prevMonth := previous.Format("2006"), previous.Format("01")

	report := &domain.ProductivityReport{
		UnitID:        unit.ID,
		UnitName:      unit.Name,
		CurrentMonth:  curYear + "-" + curMonth,
		PreviousMonth: prevYear + "-" + prevMonth,
		Rows:          []domain.ProductivityRow{},
	}

	for _, dentist := range dentists {
		if !dentist.KPIs.HasData() {
			continue
		}

		curRevenue, curOrders := totals(dentist.KPIs.Month(curYear, curMonth), unit)
		prevRevenue, prevOrders := totals(dentist.KPIs.Month(prevYear, prevMonth), unit)

		report.Rows = append(report.Rows, domain.ProductivityRow{
			DentistID:              dentist.ID,
			DentistName:            dentist.Name,
			LicenseCode:            dentist.LicenseCode(),
			PartnershipStatus:      dentist.PartnershipStatus,
			ExpectedMonthlyRevenue: dentist.KPIs.ExpectedMonthlyRevenue,
			PreviousMonthRevenue:   prevRevenue,
			CurrentMonthRevenue:    curRevenue,
			RevenueDifference:      utils.Sum(curRevenue, -prevRevenue),
			PreviousMonthOrders:    prevOrders,
			CurrentMonthOrders:     curOrders,
			OrdersDifference:       curOrders - prevOrders,
		})
	}

	sort.SliceStable(report.Rows, func(i, j int) bool {
		a, b := report.Rows[i], report.Rows[j]
		if a.CurrentMonthRevenue != b.CurrentMonthRevenue {
			return a.CurrentMonthRevenue > b.CurrentMonthRevenue
		}
		return a.DentistName < b.DentistName
	})

	return report, nil
}

func totals(m *domain.MonthKPI, unit domain.BusinessUnit) (float64, int) {
	if m == nil {
		return 0, 0
	}
	if unit.IsAggregate() {
		return m.Revenue, m.Orders
	}
	t, ok := m.Units[unit.ID]
	if !ok || t == nil {
		return 0, 0
	}
	return t.Revenue, t.Orders
}
