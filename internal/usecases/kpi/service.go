package kpi

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/repository"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store"
	"github.com/vfg2006/cirod-kpi-engine/internal/domain"
	"github.com/vfg2006/cirod-kpi-engine/pkg/apiErrors"
	"github.com/vfg2006/cirod-kpi-engine/pkg/utils"
)

//go:generate mockgen -source=service.go -destination=mocks/service.go -package=mocks
type KPIService interface {
	RecalculateAll(ctx context.Context) (*domain.RecalcSummary, error)
	RecalculateIfStale(ctx context.Context) (*domain.RecalcSummary, bool, error)
	RecalculateDentist(ctx context.Context, cro string) (*domain.KPIs, error)
	GetDentistKPIs(ctx context.Context, dentistID string) (*domain.Dentist, error)
	Diagnose(ctx context.Context) (*domain.KPIDiagnostic, error)
}

type Service struct {
	dentistRepo  repository.DentistRepository
	requestRepo  repository.RequestRepository
	settingsRepo repository.SettingsRepository
	accumulator  *Accumulator
	now          func() time.Time
}

func NewService(
	dentistRepo repository.DentistRepository,
	requestRepo repository.RequestRepository,
	settingsRepo repository.SettingsRepository,
	accumulator *Accumulator,
) *Service {
	return &Service{
		dentistRepo:  dentistRepo,
		requestRepo:  requestRepo,
		settingsRepo: settingsRepo,
		accumulator:  accumulator,
		now:          time.Now,
	}
}

// RecalculateAll reconstrói os KPIs de todos os dentistas a partir das requisições armazenadas.
// Uma falha no meio mantém o progresso parcial; executar de novo é a recuperação.
func (s *Service) RecalculateAll(ctx context.Context) (*domain.RecalcSummary, error) {
	startedAt := s.now()
	summary := &domain.RecalcSummary{
		RunID:     utils.GenerateRunID("recalc"),
		StartedAt: startedAt,
	}
	logger := logrus.WithField("run_id", summary.RunID)
	logger.Info("kpi: iniciando recálculo completo")

	requests, err := s.requestRepo.List(ctx)
	if err != nil {
		return nil, storeError(err, ErrFetchRequests, "")
	}

	dentists, err := s.dentistRepo.List(ctx)
	if err != nil {
		return nil, storeError(err, ErrFetchDentists, "")
	}

	index := newDentistIndex(dentists)
	sortRequests(requests)

	kpisByDentist := make(map[string]*domain.KPIs)
	for _, request := range requests {
		if err := store.CheckContext(ctx); err != nil {
			return nil, err
		}
		summary.RequestsProcessed++

		if !request.Dentist.Identified() {
			summary.RequestsSkipped++
			continue
		}
		if _, _, ok := request.Period(); !ok {
			summary.RequestsSkipped++
			continue
		}

		dentist := index.resolve(request.Dentist)
		if dentist == nil {
			if strings.TrimSpace(request.Dentist.ID) == "" {
				summary.RequestsSkipped++
				continue
			}
			dentist = domain.NewAutoCreatedDentist(request.Dentist, nil, startedAt)
			index.add(dentist)
			summary.DentistsCreated++
		}

		kpis, ok := kpisByDentist[dentist.ID]
		if !ok {
			kpis = NewKPIs()
			kpisByDentist[dentist.ID] = kpis
		}
		s.accumulator.Replay(kpis, request)
	}

	ids := make([]string, 0, len(kpisByDentist))
	for id := range kpisByDentist {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		dentist := index.byID[id]
		kpis := kpisByDentist[id]
		s.accumulator.Finalize(kpis)
		dentist.KPIs = kpis

		if err := s.dentistRepo.Save(ctx, dentist); err != nil {
			logger.WithError(err).WithField("dentists_updated", summary.DentistsUpdated).Error("kpi: recálculo interrompido")
			return nil, storeError(err, ErrSaveDentist, id)
		}
		summary.DentistsUpdated++
	}

	finishedAt := s.now()
	marker := &domain.KPIConfig{
		LastFullRecalculation: utils.FormatDay(finishedAt),
		LastRecalculationTime: utils.FormatClock(finishedAt),
		CachedDentists:        len(index.byID),
	}
	if err := s.settingsRepo.SaveKPIConfig(ctx, marker); err != nil {
		logger.WithError(err).Warn("kpi: não foi possível registrar o último recálculo")
	}

	summary.Duration = finishedAt.Sub(startedAt)
	logger.WithFields(logrus.Fields{
		"dentists_updated":   summary.DentistsUpdated,
		"dentists_created":   summary.DentistsCreated,
		"requests_processed": summary.RequestsProcessed,
		"requests_skipped":   summary.RequestsSkipped,
		"duration":           summary.Duration.String(),
	}).Info("kpi: recálculo completo finalizado")

	return summary, nil
}

// RecalculateIfStale executa o recálculo completo apenas se ainda não rodou hoje
func (s *Service) RecalculateIfStale(ctx context.Context) (*domain.RecalcSummary, bool, error) {
	cfg, err := s.settingsRepo.GetKPIConfig(ctx)
	if err != nil {
		return nil, false, storeError(err, ErrSettings, "")
	}

	today := utils.FormatDay(s.now())
	if cfg != nil && cfg.LastFullRecalculation == today {
		logrus.WithField("last_recalculation", cfg.LastRecalculationTime).Debug("kpi: recálculo diário já executado")
		return nil, false, nil
	}

	summary, err := s.RecalculateAll(ctx)
	if err != nil {
		return nil, false, err
	}
	return summary, true, nil
}

// RecalculateDentist refaz os KPIs de um dentista usando as requisições do seu CRO
func (s *Service) RecalculateDentist(ctx context.Context, cro string) (*domain.KPIs, error) {
	cro = strings.TrimSpace(cro)
	if cro == "" {
		return nil, NewKPIError(ErrLicenseCodeRequired, apiErrors.ErrMissingRequiredData, "Informe o CRO do dentista")
	}

	dentist, err := s.dentistRepo.FindByCRO(ctx, cro)
	if err != nil {
		return nil, storeError(err, ErrLookupDentist, "")
	}
	if dentist == nil {
		return nil, NewKPIError(ErrDentistNotFound, apiErrors.ErrNotFound, "Nenhum dentista com o CRO "+cro)
	}

	requests, err := s.requestRepo.ListByDentistCRO(ctx, cro)
	if err != nil {
		return nil, storeError(err, ErrFetchRequests, dentist.ID)
	}
	sortRequests(requests)

	kpis := NewKPIs()
	for _, request := range requests {
		s.accumulator.Replay(kpis, request)
	}
	s.accumulator.Finalize(kpis)

	if err := s.dentistRepo.SaveKPIs(ctx, dentist.ID, kpis); err != nil {
		return nil, storeError(err, ErrSaveKPIs, dentist.ID)
	}

	logrus.WithFields(logrus.Fields{
		"dentist_id": dentist.ID,
		"requests":   len(requests),
	}).Info("kpi: KPIs do dentista recalculados")

	return kpis, nil
}

// GetDentistKPIs retorna o dentista com seus KPIs armazenados
func (s *Service) GetDentistKPIs(ctx context.Context, dentistID string) (*domain.Dentist, error) {
	dentist, err := s.dentistRepo.FindByID(ctx, dentistID)
	if err != nil {
		return nil, storeError(err, ErrLookupDentist, dentistID)
	}
	if dentist == nil {
		return nil, NewKPIErrorWithDentist(ErrDentistNotFound, apiErrors.ErrNotFound, dentistID, "Dentista não encontrado")
	}
	if dentist.KPIs == nil {
		dentist.KPIs = NewKPIs()
	}
	return dentist, nil
}

// storeError preserva o cancelamento e envolve os demais erros com o código da API
func storeError(err error, sentinel error, dentistID string) error {
	if store.IsCancelled(err) {
		return store.ErrCancelled
	}
	return NewKPIErrorWithDentist(sentinel, apiErrors.ErrDatabaseOperation, dentistID, err.Error())
}

// sortRequests ordena por data de criação e id para que o recálculo seja determinístico
func sortRequests(requests []*domain.Request) {
	sort.SliceStable(requests, func(i, j int) bool {
		if requests[i].CreationDateInv != requests[j].CreationDateInv {
			return requests[i].CreationDateInv < requests[j].CreationDateInv
		}
		return requests[i].ID < requests[j].ID
	})
}

// dentistIndex resolve dentistas pelo CRO e depois pelo id
type dentistIndex struct {
	byCode map[string]*domain.Dentist
	byID   map[string]*domain.Dentist
}

func newDentistIndex(dentists []*domain.Dentist) *dentistIndex {
	index := &dentistIndex{
		byCode: make(map[string]*domain.Dentist, len(dentists)),
		byID:   make(map[string]*domain.Dentist, len(dentists)),
	}
	for _, dentist := range dentists {
		if dentist.ID == "" {
			continue
		}
		index.add(dentist)
	}
	return index
}

func (i *dentistIndex) add(dentist *domain.Dentist) {
	if _, exists := i.byID[dentist.ID]; !exists {
		i.byID[dentist.ID] = dentist
	}
	if code := dentist.LicenseCode(); code != "" {
		if _, exists := i.byCode[code]; !exists {
			i.byCode[code] = dentist
		}
	}
}

func (i *dentistIndex) resolve(ref domain.RequestDentist) *domain.Dentist {
	if code := ref.LicenseCode(); code != "" {
		if dentist, ok := i.byCode[code]; ok {
			return dentist
		}
	}
	if id := strings.TrimSpace(ref.ID); id != "" {
		return i.byID[id]
	}
	return nil
}
