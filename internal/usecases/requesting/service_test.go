package requesting

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
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/kpi"
	"github.com/vfg2006/cirod-kpi-engine/pkg/apiErrors"
	"github.com/vfg2006/cirod-kpi-engine/pkg/cache"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store    *memory.Store
	dentists repository.DentistRepository
	cache    *cache.TTLCache
	service  *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s := memory.New()
	units := domain.DefaultBusinessUnits()
	dentists := repository.NewDentistRepository(s, repository.NewKPICodec(units))
	dentistCache := cache.NewTTLCache(10*time.Minute, time.Minute)
	updater := kpi.NewUpdater(dentists, kpi.NewAccumulator(units), cache.NewTTLCache(10*time.Minute, time.Minute))

	service := NewService(repository.NewRequestRepository(s), dentists, dentistCache, updater)
	service.now = func() time.Time { return testNow }

	return &fixture{store: s, dentists: dentists, cache: dentistCache, service: service}
}

func requestRecord(id, dentistID, cro string) store.Record {
	dentist := map[string]any{"dentist_id": dentistID, "dentist_name": "Dra. Carla"}
	if cro != "" {
		dentist["dentist_cro"] = cro
	}
	return store.Record{
		"request_id":        id,
		"creation_date_inv": "2025-06-10",
		"total_value":       "1.250,50",
		"clinic":            map[string]any{"id": 5778},
		"dentist":           dentist,
		"patient":           "Paciente X",
	}
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Dentista desconhecido é criado e recebe os KPIs", func(t *testing.T) {
		f := newFixture(t)

		result, err := f.service.Register(ctx, requestRecord("R1", "N1", "RJ-9"))
		require.NoError(t, err)
		assert.True(t, result.DentistCreated)
		assert.Equal(t, "applied", result.Outcome)
		assert.True(t, f.cache.Has("dentist_N1"))

		saved, err := f.store.Get(ctx, store.Requests, "R1")
		require.NoError(t, err)
		assert.Equal(t, "Paciente X", saved["patient"], "campos extras da requisição são mantidos")

		dentist, err := f.dentists.FindByID(ctx, "N1")
		require.NoError(t, err)
		require.NotNil(t, dentist)
		assert.True(t, dentist.AutoCreated)
		assert.Equal(t, domain.PartnershipTrial, dentist.PartnershipStatus)

		month := dentist.KPIs.Month("2025", "06")
		require.NotNil(t, month)
		assert.Equal(t, 1250.5, month.Revenue)
		assert.Equal(t, 1, month.Orders)
		assert.Equal(t, 1250.5, month.Units[5778].Revenue)
	})

	t.Run("Dentista existente não é recriado", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.store.Put(ctx, store.Dentists, "D1", store.Record{"dentist_id": "D1", "dentist_name": "Dr. Davi", "dentist_cro": "RJ-1"}))

		result, err := f.service.Register(ctx, requestRecord("R1", "D1", "RJ-1"))
		require.NoError(t, err)
		assert.False(t, result.DentistCreated)
		assert.True(t, f.cache.Has("dentist_D1"))

		dentist, err := f.dentists.FindByID(ctx, "D1")
		require.NoError(t, err)
		assert.Equal(t, "Dr. Davi", dentist.Name)
		assert.False(t, dentist.AutoCreated)
	})

	t.Run("Dentista encontrado pelo CRO com outro id não é duplicado", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.store.Put(ctx, store.Dentists, "D1", store.Record{"dentist_id": "D1", "dentist_cro": "RJ-1"}))

		result, err := f.service.Register(ctx, requestRecord("R1", "outro", "RJ-1"))
		require.NoError(t, err)
		assert.False(t, result.DentistCreated)

		missing, err := f.dentists.FindByID(ctx, "outro")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("Reenvio da mesma requisição é duplicado", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.Register(ctx, requestRecord("R1", "N1", ""))
		require.NoError(t, err)

		result, err := f.service.Register(ctx, requestRecord("R1", "N1", ""))
		require.NoError(t, err)
		assert.Equal(t, "duplicate", result.Outcome)
		assert.False(t, result.DentistCreated)

		dentist, err := f.dentists.FindByID(ctx, "N1")
		require.NoError(t, err)
		assert.Equal(t, 1, dentist.KPIs.Month("2025", "06").Orders)
	})
}

func TestService_Register_Validacao(t *testing.T) {
	tests := []struct {
		name      string
		record    store.Record
		expectErr error
		code      string
	}{
		{
			name:      "Sem identificador",
			record:    store.Record{"dentist": map[string]any{"dentist_id": "D1"}},
			expectErr: kpi.ErrMissingRequestID,
			code:      apiErrors.ErrMissingRequiredData,
		},
		{
			name:      "Sem dentista",
			record:    store.Record{"request_id": "R1"},
			expectErr: kpi.ErrMissingDentistIdentifier,
			code:      apiErrors.ErrMissingRequiredData,
		},
		{
			name:      "Dentista com formato inválido",
			record:    store.Record{"request_id": "R1", "dentist": "texto"},
			expectErr: kpi.ErrInvalidRequestRecord,
			code:      apiErrors.ErrInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			result, err := f.service.Register(context.Background(), tt.record)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.expectErr)

			var kpiErr *kpi.KPIError
			require.True(t, errors.As(err, &kpiErr))
			assert.Equal(t, tt.code, kpiErr.Code)
		})
	}
}

func TestService_Register_FalhasDeArmazenamento(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(requests *mocks.MockRequestRepository, dentists *mocks.MockDentistRepository)
		expectErr error
	}{
		{
			name: "Falha ao salvar a requisição",
			setup: func(requests *mocks.MockRequestRepository, dentists *mocks.MockDentistRepository) {
				requests.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("boom"))
			},
			expectErr: kpi.ErrSaveRequest,
		},
		{
			name: "Cancelamento ao salvar a requisição",
			setup: func(requests *mocks.MockRequestRepository, dentists *mocks.MockDentistRepository) {
				requests.EXPECT().Save(gomock.Any(), gomock.Any()).Return(store.ErrCancelled)
			},
			expectErr: store.ErrCancelled,
		},
		{
			name: "Falha ao consultar o dentista",
			setup: func(requests *mocks.MockRequestRepository, dentists *mocks.MockDentistRepository) {
				requests.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
				dentists.EXPECT().FindByID(gomock.Any(), "D1").Return(nil, errors.New("timeout"))
				dentists.EXPECT().FindByCRO(gomock.Any(), "RJ-1").Return(nil, errors.New("timeout"))
			},
			expectErr: kpi.ErrLookupDentist,
		},
		{
			name: "Falha ao criar o dentista",
			setup: func(requests *mocks.MockRequestRepository, dentists *mocks.MockDentistRepository) {
				requests.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
				dentists.EXPECT().FindByID(gomock.Any(), "D1").Return(nil, nil).Times(2)
				dentists.EXPECT().FindByCRO(gomock.Any(), "RJ-1").Return(nil, nil).Times(2)
				dentists.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("throttled")).Times(2)
			},
			expectErr: kpi.ErrSaveDentist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			requests := mocks.NewMockRequestRepository(ctrl)
			dentists := mocks.NewMockDentistRepository(ctrl)
			tt.setup(requests, dentists)

			processed := cache.NewTTLCache(time.Minute, time.Minute)
			updater := kpi.NewUpdater(dentists, kpi.NewAccumulator(domain.DefaultBusinessUnits()), processed)
			service := NewService(requests, dentists, cache.NewTTLCache(time.Minute, time.Minute), updater)

			result, err := service.Register(context.Background(), requestRecord("R1", "D1", "RJ-1"))
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.expectErr)
			assert.False(t, processed.Has("R1"), "requisição não marcada quando o registro falha")
		})
	}
}

func TestService_Register_FalhaTransitoriaNaoBloqueiaKPIs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	requests := mocks.NewMockRequestRepository(ctrl)
	dentists := mocks.NewMockDentistRepository(ctrl)

	requests.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	dentists.EXPECT().FindByID(gomock.Any(), "D1").Return(nil, errors.New("timeout"))
	dentists.EXPECT().FindByCRO(gomock.Any(), "RJ-1").Return(&domain.Dentist{ID: "D1"}, nil)
	dentists.EXPECT().SaveKPIs(gomock.Any(), "D1", gomock.Any()).Return(nil)

	processed := cache.NewTTLCache(time.Minute, time.Minute)
	updater := kpi.NewUpdater(dentists, kpi.NewAccumulator(domain.DefaultBusinessUnits()), processed)
	service := NewService(requests, dentists, cache.NewTTLCache(time.Minute, time.Minute), updater)

	result, err := service.Register(context.Background(), requestRecord("R1", "D1", "RJ-1"))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "applied", result.Outcome)
	assert.False(t, result.DentistCreated)
	assert.True(t, processed.Has("R1"))
}
