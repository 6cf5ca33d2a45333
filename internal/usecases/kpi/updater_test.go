package kpi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/repository"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/repository/mocks"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store/memory"
	"github.com/vfg2006/cirod-kpi-engine/internal/domain"
	"github.com/vfg2006/cirod-kpi-engine/pkg/cache"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func stringPtr(s string) *string {
	return &s
}

type updaterFixture struct {
	store     *memory.Store
	dentists  repository.DentistRepository
	processed *cache.TTLCache
	updater   *Updater
}

func newUpdaterFixture(t *testing.T) *updaterFixture {
	t.Helper()

	s := memory.New()
	units := domain.DefaultBusinessUnits()
	dentists := repository.NewDentistRepository(s, repository.NewKPICodec(units))
	processed := cache.NewTTLCache(10*time.Minute, time.Minute)

	updater := NewUpdater(dentists, NewAccumulator(units), processed)
	updater.now = func() time.Time { return testNow }

	return &updaterFixture{
		store:     s,
		dentists:  dentists,
		processed: processed,
		updater:   updater,
	}
}

func newRequest(id, date string, value float64, clinicID string, dentist domain.RequestDentist) *domain.Request {
	return &domain.Request{
		ID:              id,
		CreationDateInv: date,
		TotalValue:      value,
		Clinic:          domain.RequestClinic{ID: clinicID},
		Dentist:         dentist,
	}
}

func TestUpdater_UpdateForRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("Mesma requisição duas vezes acumula uma única vez", func(t *testing.T) {
		f := newUpdaterFixture(t)
		require.NoError(t, f.store.Put(ctx, store.Dentists, "D1", store.Record{"dentist_id": "D1", "dentist_cro": "RJ-1", "dentist_name": "Dr. Bruno"}))

		request := newRequest("R1", "2025-06-10", 250, "5778", domain.RequestDentist{CRO: stringPtr("RJ-1")})

		outcome, err := f.updater.UpdateForRequest(ctx, request)
		require.NoError(t, err)
		assert.Equal(t, OutcomeApplied, outcome)

		outcome, err = f.updater.UpdateForRequest(ctx, request)
		require.NoError(t, err)
		assert.Equal(t, OutcomeDuplicate, outcome)

		dentist, err := f.dentists.FindByID(ctx, "D1")
		require.NoError(t, err)
		m := dentist.KPIs.Month("2025", "06")
		require.NotNil(t, m)
		assert.Equal(t, 1, m.Orders)
		assert.Equal(t, 250.0, m.Revenue)
		assert.Equal(t, 250.0, m.Units[5778].Revenue)
		assert.Equal(t, "Dr. Bruno", dentist.Name, "atualização parcial preserva os demais campos")
	})

	t.Run("Busca pelo id quando o CRO não resolve", func(t *testing.T) {
		f := newUpdaterFixture(t)
		require.NoError(t, f.store.Put(ctx, store.Dentists, "D7", store.Record{"dentist_id": "D7"}))

		outcome, err := f.updater.UpdateForRequest(ctx, newRequest("R2", "2025-05-01", 90, "", domain.RequestDentist{ID: "D7", CRO: stringPtr("RJ-404")}))
		require.NoError(t, err)
		assert.Equal(t, OutcomeApplied, outcome)

		dentist, err := f.dentists.FindByID(ctx, "D7")
		require.NoError(t, err)
		assert.Equal(t, 1, dentist.KPIs.Month("2025", "05").Orders)
	})

	t.Run("Dentista inexistente é criado automaticamente", func(t *testing.T) {
		f := newUpdaterFixture(t)

		ref := domain.RequestDentist{ID: "D9", CRO: stringPtr("SP-9"), Name: "Dra. Carla"}
		outcome, err := f.updater.UpdateForRequest(ctx, newRequest("R3", "2025-04-20", 700, "1754", ref))
		require.NoError(t, err)
		assert.Equal(t, OutcomeApplied, outcome)

		dentist, err := f.dentists.FindByCRO(ctx, "SP-9")
		require.NoError(t, err)
		require.NotNil(t, dentist)
		assert.Equal(t, "D9", dentist.ID)
		assert.True(t, dentist.AutoCreated)
		assert.Equal(t, domain.PartnershipTrial, dentist.PartnershipStatus)
		assert.Equal(t, 700.0, dentist.KPIs.ExpectedMonthlyRevenue)
	})

	t.Run("Sem CRO e sem id é ignorada", func(t *testing.T) {
		f := newUpdaterFixture(t)

		outcome, err := f.updater.UpdateForRequest(ctx, newRequest("R4", "2025-04-20", 10, "", domain.RequestDentist{}))
		require.NoError(t, err)
		assert.Equal(t, OutcomeSkipped, outcome)
		assert.False(t, f.processed.Has("R4"))
	})

	t.Run("Data inválida mantém a marcação", func(t *testing.T) {
		f := newUpdaterFixture(t)

		outcome, err := f.updater.UpdateForRequest(ctx, newRequest("R5", "20/04/2025", 10, "", domain.RequestDentist{ID: "D1"}))
		require.NoError(t, err)
		assert.Equal(t, OutcomeSkipped, outcome)
		assert.True(t, f.processed.Has("R5"))

		records, err := f.store.Scan(ctx, store.Dentists)
		require.NoError(t, err)
		assert.Empty(t, records, "nenhum estado deve ser persistido")
	})

	t.Run("Somente CRO sem dentista cadastrado é ignorada", func(t *testing.T) {
		f := newUpdaterFixture(t)

		outcome, err := f.updater.UpdateForRequest(ctx, newRequest("R6", "2025-04-20", 10, "", domain.RequestDentist{CRO: stringPtr("MG-1")}))
		require.NoError(t, err)
		assert.Equal(t, OutcomeSkipped, outcome)
	})
}

func TestUpdater_FalhasLiberamMarcacao(t *testing.T) {
	ctx := context.Background()
	units := domain.DefaultBusinessUnits()
	request := newRequest("R10", "2025-06-01", 100, "5778", domain.RequestDentist{ID: "D1", CRO: stringPtr("RJ-1")})
	existing := &domain.Dentist{ID: "D1", CRO: stringPtr("RJ-1")}

	tests := []struct {
		name            string
		setup           func(repo *mocks.MockDentistRepository)
		expectedOutcome Outcome
		expectErr       bool
	}{
		{
			name: "Erro na busca propaga e libera",
			setup: func(repo *mocks.MockDentistRepository) {
				repo.EXPECT().FindByCRO(gomock.Any(), "RJ-1").Return(nil, errors.New("throttled"))
			},
			expectedOutcome: OutcomeSkipped,
			expectErr:       true,
		},
		{
			name: "Erro ao salvar KPIs propaga e libera",
			setup: func(repo *mocks.MockDentistRepository) {
				repo.EXPECT().FindByCRO(gomock.Any(), "RJ-1").Return(existing, nil)
				repo.EXPECT().SaveKPIs(gomock.Any(), "D1", gomock.Any()).Return(errors.New("timeout"))
			},
			expectedOutcome: OutcomeSkipped,
			expectErr:       true,
		},
		{
			name: "Erro ao criar dentista propaga e libera",
			setup: func(repo *mocks.MockDentistRepository) {
				repo.EXPECT().FindByCRO(gomock.Any(), "RJ-1").Return(nil, nil)
				repo.EXPECT().FindByID(gomock.Any(), "D1").Return(nil, nil)
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("denied"))
			},
			expectedOutcome: OutcomeSkipped,
			expectErr:       true,
		},
		{
			name: "Cancelamento não é erro",
			setup: func(repo *mocks.MockDentistRepository) {
				repo.EXPECT().FindByCRO(gomock.Any(), "RJ-1").Return(existing, nil)
				repo.EXPECT().SaveKPIs(gomock.Any(), "D1", gomock.Any()).Return(store.ErrCancelled)
			},
			expectedOutcome: OutcomeCancelled,
			expectErr:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockDentistRepository(ctrl)
			tt.setup(repo)

			processed := cache.NewTTLCache(10*time.Minute, time.Minute)
			updater := NewUpdater(repo, NewAccumulator(units), processed)

			outcome, err := updater.UpdateForRequest(ctx, request)
			assert.Equal(t, tt.expectedOutcome, outcome)
			if tt.expectErr {
				require.Error(t, err)
				var kpiErr *KPIError
				assert.True(t, errors.As(err, &kpiErr))
			} else {
				assert.NoError(t, err)
			}
			assert.False(t, processed.Has("R10"), "marcação deve ser removida para permitir nova tentativa")
		})
	}
}

func TestUpdater_ContextoCancelado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := mocks.NewMockDentistRepository(ctrl)
	repo.EXPECT().FindByCRO(gomock.Any(), "RJ-1").Return(&domain.Dentist{ID: "D1"}, nil)

	processed := cache.NewTTLCache(10*time.Minute, time.Minute)
	updater := NewUpdater(repo, NewAccumulator(domain.DefaultBusinessUnits()), processed)

	outcome, err := updater.UpdateForRequest(ctx, newRequest("R11", "2025-06-01", 10, "", domain.RequestDentist{CRO: stringPtr("RJ-1")}))
	assert.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, outcome)
	assert.False(t, processed.Has("R11"))
}
