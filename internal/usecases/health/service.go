package health

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/repository"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store"
	"github.com/vfg2006/cirod-kpi-engine/internal/domain"
	"github.com/vfg2006/cirod-kpi-engine/pkg/utils"
)

const defaultMaxConcurrentQueries = 10

var (
	ErrInvalidYear   = errors.New("invalid year")
	ErrFetchDentists = errors.New("error fetching dentists")
	ErrHealthCache   = errors.New("error accessing health cache")
)

//go:generate mockgen -source=service.go -destination=mocks/service.go -package=mocks
type HealthService interface {
	ComputeForYear(ctx context.Context, year int, force bool) (*domain.HealthReport, error)
}

type Service struct {
	dentistRepo   repository.DentistRepository
	requestRepo   repository.RequestRepository
	settingsRepo  repository.SettingsRepository
	maxConcurrent int
	now           func() time.Time
}

func NewService(
	dentistRepo repository.DentistRepository,
	requestRepo repository.RequestRepository,
	settingsRepo repository.SettingsRepository,
	maxConcurrent int,
) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrentQueries
	}
	return &Service{
		dentistRepo:   dentistRepo,
		requestRepo:   requestRepo,
		settingsRepo:  settingsRepo,
		maxConcurrent: maxConcurrent,
		now:           time.Now,
	}
}

// ComputeForYear calcula a saúde das parcerias do ano; reaproveita o cálculo do dia salvo
// em health_config, a menos que force seja verdadeiro. year zero significa o ano corrente.
func (s *Service) ComputeForYear(ctx context.Context, year int, force bool) (*domain.HealthReport, error) {
	now := s.now()
	if year == 0 {
		year = now.Year()
	}
	if year < 2000 || year > now.Year()+1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}

	logger := logrus.WithFields(logrus.Fields{"year": year, "force": force})

	if !force {
		report, err := s.fromCache(ctx, year, now)
		if err != nil {
			return nil, err
		}
		if report != nil {
			logger.Debug("saude: usando cálculo salvo de hoje")
			return report, nil
		}
	}

	dentists, err := s.dentistRepo.List(ctx)
	if err != nil {
		if store.IsCancelled(err) {
			return nil, store.ErrCancelled
		}
		return nil, fmt.Errorf("%w: %v", ErrFetchDentists, err)
	}

	start, end := utils.YearRange(year, now)
	since, until := utils.FormatDay(start), utils.FormatDay(end)
	logger.WithField("dentists", len(dentists)).Info("saude: calculando saúde das parcerias")

	results := make([]*domain.DentistHealth, len(dentists))
	semaphore := make(chan struct{}, s.maxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var cancelled bool

	for i, dentist := range dentists {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(i int, dentist *domain.Dentist) {
			defer wg.Done()
			defer func() { <-semaphore }()

			raw, err := s.requestRepo.ListDates(ctx, dentist.ID, dentist.LicenseCode(), since, until)
			if err != nil {
				if store.IsCancelled(err) {
					mu.Lock()
					cancelled = true
					mu.Unlock()
					return
				}
				logger.WithError(err).WithField("dentist_id", dentist.ID).Warn("saude: falha ao consultar datas do dentista")
				return
			}

			dates := ParseDates(raw)
			if len(dates) == 0 {
				return
			}

			results[i] = &domain.DentistHealth{
				DentistID:     dentist.ID,
				DentistName:   dentist.Name,
				AreasDisplay:  dentist.AreasDisplay(),
				Referrals:     len(dates),
				HealthMetrics: ComputeMetrics(dates, now),
			}
		}(i, dentist)
	}
	wg.Wait()

	if cancelled || store.CheckContext(ctx) != nil {
		logger.Info("saude: cálculo cancelado")
		return nil, store.ErrCancelled
	}

	items := make([]domain.DentistHealth, 0, len(results))
	for _, item := range results {
		if item != nil {
			items = append(items, *item)
		}
	}
	sortByChurn(items)

	report := &domain.HealthReport{
		Year:         year,
		CalculatedAt: now,
		Items:        items,
	}

	cfg := &domain.HealthConfig{
		LastHealthCalculation:     utils.FormatDay(now),
		LastHealthCalculationTime: utils.FormatClock(now),
		CacheYear:                 year,
		HealthData:                items,
	}
	if err := s.settingsRepo.SaveHealthConfig(ctx, cfg); err != nil {
		logger.WithError(err).Warn("saude: não foi possível salvar o cálculo em cache")
	}

	logger.WithField("items", len(items)).Info("saude: cálculo finalizado")
	return report, nil
}

func (s *Service) fromCache(ctx context.Context, year int, now time.Time) (*domain.HealthReport, error) {
	cfg, err := s.settingsRepo.GetHealthConfig(ctx)
	if err != nil {
		if store.IsCancelled(err) {
			return nil, store.ErrCancelled
		}
		return nil, fmt.Errorf("%w: %v", ErrHealthCache, err)
	}

	if cfg == nil || cfg.CacheYear != year || cfg.LastHealthCalculation != utils.FormatDay(now) || len(cfg.HealthData) == 0 {
		return nil, nil
	}

	calculatedAt, err := time.ParseInLocation(utils.DayLayout+" "+utils.ClockLayout, cfg.LastHealthCalculation+" "+cfg.LastHealthCalculationTime, now.Location())
	if err != nil {
		calculatedAt = now
	}

	return &domain.HealthReport{
		Year:         year,
		CalculatedAt: calculatedAt,
		FromCache:    true,
		Items:        cfg.HealthData,
	}, nil
}

// sortByChurn coloca primeiro os dentistas com maior risco; sem pontuação vão para o fim
func sortByChurn(items []domain.DentistHealth) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].ScoreChurn, items[j].ScoreChurn
		switch {
		case a != nil && b != nil && *a != *b:
			return *a > *b
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return items[i].DentistName < items[j].DentistName
	})
}
