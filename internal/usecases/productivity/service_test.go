package productivity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/repository/mocks"
	"github.com/vfg2006/cirod-kpi-engine/internal/domain"
	"go.uber.org/mock/gomock"
)

func month(revenue float64, orders int, units map[int]*domain.UnitTotals) *domain.MonthKPI {
	return &domain.MonthKPI{Revenue: revenue, Orders: orders, Units: units}
}

func TestService_Report(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC)

	dentists := []*domain.Dentist{
		{
			ID:   "D1",
			Name: "Dra. Ana",
			KPIs: &domain.KPIs{
				ExpectedMonthlyRevenue: 800,
				PeriodKPIs: map[string]map[string]*domain.MonthKPI{
					"2024": {"12": month(1000, 5, map[int]*domain.UnitTotals{5778: {Revenue: 400, Orders: 2}})},
					"2025": {"01": month(600, 3, map[int]*domain.UnitTotals{5778: {Revenue: 600, Orders: 3}})},
				},
			},
		},
		{
			ID:   "D2",
			Name: "Dr. Bruno",
			KPIs: &domain.KPIs{
				PeriodKPIs: map[string]map[string]*domain.MonthKPI{
					"2025": {"01": month(900, 4, map[int]*domain.UnitTotals{1754: {Revenue: 900, Orders: 4}})},
				},
			},
		},
		{ID: "D3", Name: "Sem KPIs"},
	}

	tests := []struct {
		name      string
		unitID    int
		expectErr error
		validate  func(t *testing.T, report *domain.ProductivityReport)
	}{
		{
			name:   "Unidade geral usa totais e ordena pelo mês atual",
			unitID: 0,
			validate: func(t *testing.T, report *domain.ProductivityReport) {
				assert.Equal(t, "2025-01", report.CurrentMonth)
				assert.Equal(t, "2024-12", report.PreviousMonth)
				require.Len(t, report.Rows, 2)
				assert.Equal(t, "D2", report.Rows[0].DentistID)
				assert.Equal(t, "D1", report.Rows[1].DentistID)
				assert.Equal(t, -400.0, report.Rows[1].RevenueDifference)
				assert.Equal(t, -2, report.Rows[1].OrdersDifference)
				assert.Equal(t, 800.0, report.Rows[1].ExpectedMonthlyRevenue)
			},
		},
		{
			name:   "Unidade específica usa apenas seus contadores",
			unitID: 5778,
			validate: func(t *testing.T, report *domain.ProductivityReport) {
				assert.Equal(t, "Icaraí", report.UnitName)
				require.Len(t, report.Rows, 2)
				assert.Equal(t, "D1", report.Rows[0].DentistID)
				assert.Equal(t, 600.0, report.Rows[0].CurrentMonthRevenue)
				assert.Equal(t, 400.0, report.Rows[0].PreviousMonthRevenue)
				assert.Equal(t, 200.0, report.Rows[0].RevenueDifference)
				assert.Zero(t, report.Rows[1].CurrentMonthRevenue)
			},
		},
		{
			name:      "Unidade desconhecida",
			unitID:    42,
			expectErr: ErrUnknownUnit,
		},
		{
			name:      "Unidade desabilitada",
			unitID:    -3,
			expectErr: ErrDisabledUnit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockDentistRepository(ctrl)
			if tt.expectErr == nil {
				repo.EXPECT().List(gomock.Any()).Return(dentists, nil)
			}

			service := NewService(repo, domain.DefaultBusinessUnits())
			service.now = func() time.Time { return now }

			report, err := service.Report(ctx, tt.unitID)
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				return
			}
			require.NoError(t, err)
			tt.validate(t, report)
		})
	}
}

func TestService_Report_ErroNoRepositorio(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockDentistRepository(ctrl)
	repo.EXPECT().List(gomock.Any()).Return(nil, errors.New("boom"))

	_, err := NewService(repo, domain.DefaultBusinessUnits()).Report(context.Background(), 0)
	assert.ErrorIs(t, err, ErrFetchDentists)
}
