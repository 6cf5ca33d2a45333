package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/cirod-kpi-engine/internal/config"
	"github.com/vfg2006/cirod-kpi-engine/internal/domain"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/health"
	healthmocks "github.com/vfg2006/cirod-kpi-engine/internal/usecases/health/mocks"
	kpimocks "github.com/vfg2006/cirod-kpi-engine/internal/usecases/kpi/mocks"
	"go.uber.org/mock/gomock"
)

func testConfig() *config.Config {
	return &config.Config{
		KPIRecalcSync: config.KPIRecalcSync{CronSchedule: "0 3 * * *"},
		HealthSync:    config.HealthSync{CronSchedule: "30 3 * * *"},
	}
}

func TestKPIRecalcSyncService_syncKPIs(t *testing.T) {
	ctx := context.Background()
	summary := &domain.RecalcSummary{RunID: "recalc-abc", DentistsUpdated: 3, RequestsProcessed: 8}

	tests := []struct {
		name     string
		force    bool
		setup    func(m *kpimocks.MockKPIService)
		validate func(t *testing.T, status map[string]any)
	}{
		{
			name:  "Marcador de hoje existente não recalcula",
			force: false,
			setup: func(m *kpimocks.MockKPIService) {
				m.EXPECT().RecalculateIfStale(gomock.Any()).Return(nil, false, nil)
			},
			validate: func(t *testing.T, status map[string]any) {
				assert.NotContains(t, status, "last_summary")
				assert.NotContains(t, status, "last_error")
				assert.False(t, status["last_sync_completed_at"].(time.Time).IsZero())
			},
		},
		{
			name:  "Marcador antigo recalcula",
			force: false,
			setup: func(m *kpimocks.MockKPIService) {
				m.EXPECT().RecalculateIfStale(gomock.Any()).Return(summary, true, nil)
			},
			validate: func(t *testing.T, status map[string]any) {
				assert.Equal(t, summary, status["last_summary"])
			},
		},
		{
			name:  "Execução forçada ignora o marcador",
			force: true,
			setup: func(m *kpimocks.MockKPIService) {
				m.EXPECT().RecalculateAll(gomock.Any()).Return(summary, nil)
			},
			validate: func(t *testing.T, status map[string]any) {
				assert.Equal(t, summary, status["last_summary"])
			},
		},
		{
			name:  "Erro fica registrado no status",
			force: true,
			setup: func(m *kpimocks.MockKPIService) {
				m.EXPECT().RecalculateAll(gomock.Any()).Return(nil, errors.New("store indisponível"))
			},
			validate: func(t *testing.T, status map[string]any) {
				assert.Equal(t, "store indisponível", status["last_error"])
				assert.False(t, status["sync_running"].(bool))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := kpimocks.NewMockKPIService(ctrl)
			tt.setup(mockService)

			service := NewKPIRecalcSyncService(mockService, testConfig())
			service.syncKPIs(ctx, tt.force)

			tt.validate(t, service.GetStatus())
		})
	}
}

func TestKPIRecalcSyncService_TriggerManualSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := kpimocks.NewMockKPIService(ctrl)
	mockService.EXPECT().RecalculateAll(gomock.Any()).Return(&domain.RecalcSummary{RunID: "recalc-manual"}, nil)

	service := NewKPIRecalcSyncService(mockService, testConfig())
	assert.True(t, service.TriggerManualSync())

	require.Eventually(t, func() bool {
		status := service.GetStatus()
		return status["last_summary"] != nil && !status["sync_running"].(bool)
	}, time.Second, 10*time.Millisecond, "recálculo manual não foi executado")

	t.Run("Execução em andamento recusa novo disparo", func(t *testing.T) {
		service.syncMutex.Lock()
		service.syncRunning = true
		service.syncMutex.Unlock()

		assert.False(t, service.TriggerManualSync())
	})
}

func TestKPIRecalcSyncService_Start(t *testing.T) {
	t.Run("Desabilitado não agenda nada", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := NewKPIRecalcSyncService(kpimocks.NewMockKPIService(ctrl), testConfig())
		require.NoError(t, service.Start(context.Background()))
		assert.Empty(t, service.scheduler.Jobs())
	})

	t.Run("Expressão cron inválida retorna erro", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		cfg := testConfig()
		cfg.KPIRecalcSync.Enabled = true
		cfg.KPIRecalcSync.CronSchedule = "todo dia"

		service := NewKPIRecalcSyncService(kpimocks.NewMockKPIService(ctrl), cfg)
		assert.Error(t, service.Start(context.Background()))
	})

	t.Run("Verificação na subida usa o marcador diário", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		done := make(chan struct{})
		mockService := kpimocks.NewMockKPIService(ctrl)
		mockService.EXPECT().RecalculateIfStale(gomock.Any()).DoAndReturn(func(ctx context.Context) (*domain.RecalcSummary, bool, error) {
			defer close(done)
			return nil, false, nil
		})

		cfg := testConfig()
		cfg.KPIRecalcSync.RunOnStart = true

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		service := NewKPIRecalcSyncService(mockService, cfg)
		require.NoError(t, service.Start(ctx))

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("verificação na subida não foi executada")
		}
	})
}

func TestPartnershipHealthSyncService_syncHealth(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(m *healthmocks.MockHealthService)
		validate func(t *testing.T, status map[string]any)
	}{
		{
			name: "Cálculo forçado do ano corrente",
			setup: func(m *healthmocks.MockHealthService) {
				m.EXPECT().ComputeForYear(gomock.Any(), 0, true).Return(&domain.HealthReport{
					Year:  2025,
					Items: []domain.DentistHealth{{DentistID: "D1"}, {DentistID: "D2"}},
				}, nil)
			},
			validate: func(t *testing.T, status map[string]any) {
				assert.Equal(t, 2, status["last_items"])
				assert.NotContains(t, status, "last_error")
			},
		},
		{
			name: "Ano inválido fica registrado",
			setup: func(m *healthmocks.MockHealthService) {
				m.EXPECT().ComputeForYear(gomock.Any(), 0, true).Return(nil, health.ErrInvalidYear)
			},
			validate: func(t *testing.T, status map[string]any) {
				assert.Equal(t, health.ErrInvalidYear.Error(), status["last_error"])
				assert.Equal(t, 0, status["last_items"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := healthmocks.NewMockHealthService(ctrl)
			tt.setup(mockService)

			service := NewPartnershipHealthSyncService(mockService, testConfig())
			service.syncHealth(context.Background())

			tt.validate(t, service.GetStatus())
		})
	}
}

func TestPartnershipHealthSyncService_TriggerManualSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := NewPartnershipHealthSyncService(healthmocks.NewMockHealthService(ctrl), testConfig())

	service.syncMutex.Lock()
	service.syncRunning = true
	service.syncMutex.Unlock()

	assert.False(t, service.TriggerManualSync())
}
