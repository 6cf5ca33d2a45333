package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store"
	"github.com/vfg2006/cirod-kpi-engine/internal/config"
	"github.com/vfg2006/cirod-kpi-engine/internal/domain"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Store: config.Store{
			Driver:               config.StoreDriverMemory,
			RetryInitialInterval: time.Millisecond,
			RetryMaxInterval:     time.Millisecond,
			RetryMaxElapsedTime:  10 * time.Millisecond,
		},
		KPIRecalcSync: config.KPIRecalcSync{CronSchedule: "0 3 * * *"},
		HealthSync:    config.HealthSync{CronSchedule: "30 3 * * *"},
		BusinessUnits: domain.DefaultBusinessUnits(),
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("Store em memória monta todos os serviços", func(t *testing.T) {
		app, err := New(ctx, memoryConfig())
		require.NoError(t, err)
		defer app.Close()

		assert.NotNil(t, app.KPIService)
		assert.NotNil(t, app.HealthService)
		assert.NotNil(t, app.ProductivityService)
		assert.NotNil(t, app.RequestService)
		assert.NotNil(t, app.ImportService)
		assert.NotNil(t, app.KPIRecalcSync)
		assert.NotNil(t, app.HealthSync)

		result, err := app.RequestService.Register(ctx, store.Record{
			"request_id":        "R1",
			"creation_date_inv": "2025-06-10",
			"total_value":       300,
			"clinic":            map[string]any{"id": "1754"},
			"dentist":           map[string]any{"dentist_id": "D1", "dentist_cro": "RJ-1"},
		})
		require.NoError(t, err)
		assert.True(t, result.DentistCreated)
		assert.True(t, app.ProcessedRequests.Has("R1"))

		summary, err := app.KPIService.RecalculateAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.DentistsUpdated)
	})

	t.Run("Store desconhecido", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.Store.Driver = "redis"

		_, err := New(ctx, cfg)
		assert.ErrorContains(t, err, "store desconhecido")
	})

	t.Run("Unidades duplicadas são rejeitadas", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.BusinessUnits = append(cfg.BusinessUnits, domain.BusinessUnit{ID: 5778, Name: "Repetida", FieldSuffix: "Repetida"})

		_, err := New(ctx, cfg)
		var unitErr *domain.UnitConfigError
		assert.ErrorAs(t, err, &unitErr)
	})

	t.Run("Close esvazia os caches", func(t *testing.T) {
		app, err := New(ctx, memoryConfig())
		require.NoError(t, err)

		app.ProcessedRequests.Mark("R1")
		app.Close()
		assert.False(t, app.ProcessedRequests.Has("R1"))
	})
}
