package kpi

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/repository"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store"
	"github.com/vfg2006/cirod-kpi-engine/internal/domain"
	"github.com/vfg2006/cirod-kpi-engine/pkg/apiErrors"
)

// Outcome descreve o que aconteceu com uma requisição no caminho incremental
type Outcome int

const (
	OutcomeApplied Outcome = iota
	OutcomeDuplicate
	OutcomeSkipped
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Deduper marca requisições já processadas na sessão
type Deduper interface {
	Mark(key string) bool
	Delete(key string)
}

// Updater aplica uma requisição salva aos KPIs do dentista, uma por vez
type Updater struct {
	dentistRepo repository.DentistRepository
	accumulator *Accumulator
	processed   Deduper
	now         func() time.Time

	mu sync.Mutex
}

func NewUpdater(dentistRepo repository.DentistRepository, accumulator *Accumulator, processed Deduper) *Updater {
	return &Updater{
		dentistRepo: dentistRepo,
		accumulator: accumulator,
		processed:   processed,
		now:         time.Now,
	}
}

// UpdateForRequest processa a requisição no máximo uma vez por sessão.
// Erros de entrada resultam em OutcomeSkipped sem erro; erros de armazenamento liberam a marcação.
func (u *Updater) UpdateForRequest(ctx context.Context, request *domain.Request) (Outcome, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	logger := logrus.WithField("request_id", request.ID)

	if !request.Dentist.Identified() {
		logger.Warn("kpi: requisição sem CRO e sem id de dentista, ignorada")
		return OutcomeSkipped, nil
	}

	key := strings.TrimSpace(request.ID)
	if key == "" {
		logger.Warn("kpi: requisição sem identificador, ignorada")
		return OutcomeSkipped, nil
	}

	if !u.processed.Mark(key) {
		logger.Debug("kpi: requisição já processada nesta sessão")
		return OutcomeDuplicate, nil
	}

	year, month, ok := request.Period()
	if !ok {
		logger.WithField("creation_date_inv", request.CreationDateInv).Warn("kpi: data de criação ausente ou inválida, ignorada")
		return OutcomeSkipped, nil
	}

	dentist, err := u.findDentist(ctx, request.Dentist)
	if err != nil {
		return u.abort(key, err, ErrLookupDentist, request.Dentist.ID)
	}

	if dentist == nil {
		if strings.TrimSpace(request.Dentist.ID) == "" {
			logger.WithField("cro", request.Dentist.LicenseCode()).Warn("kpi: dentista não encontrado pelo CRO e requisição sem id, ignorada")
			return OutcomeSkipped, nil
		}

		dentist = domain.NewAutoCreatedDentist(request.Dentist, NewKPIs(), u.now())
		if err := u.dentistRepo.Save(ctx, dentist); err != nil {
			return u.abort(key, err, ErrSaveDentist, dentist.ID)
		}
		logger.WithField("dentist_id", dentist.ID).Info("kpi: dentista criado automaticamente")
	}

	kpis := dentist.KPIs
	if kpis == nil {
		kpis = NewKPIs()
	}

	m := u.accumulator.EnsureMonth(kpis, year, month)
	u.accumulator.ApplyRequest(m, u.accumulator.ResolveUnit(request.Clinic.ID), request.TotalValue)
	u.accumulator.RecalcExpectations(kpis)

	if err := store.CheckContext(ctx); err != nil {
		return u.abort(key, err, ErrSaveKPIs, dentist.ID)
	}

	if err := u.dentistRepo.SaveKPIs(ctx, dentist.ID, kpis); err != nil {
		return u.abort(key, err, ErrSaveKPIs, dentist.ID)
	}

	logger.WithFields(logrus.Fields{
		"dentist_id": dentist.ID,
		"period":     year + "-" + month,
	}).Debug("kpi: KPIs atualizados")

	return OutcomeApplied, nil
}

// findDentist busca pelo CRO e, sem resultado, pelo id
func (u *Updater) findDentist(ctx context.Context, ref domain.RequestDentist) (*domain.Dentist, error) {
	if code := ref.LicenseCode(); code != "" {
		dentist, err := u.dentistRepo.FindByCRO(ctx, code)
		if err != nil || dentist != nil {
			return dentist, err
		}
	}

	if id := strings.TrimSpace(ref.ID); id != "" {
		return u.dentistRepo.FindByID(ctx, id)
	}
	return nil, nil
}

// abort libera a marcação para permitir nova tentativa; cancelamento não é erro
func (u *Updater) abort(key string, cause error, sentinel error, dentistID string) (Outcome, error) {
	u.processed.Delete(key)

	if store.IsCancelled(cause) {
		logrus.WithField("request_id", key).Info("kpi: processamento cancelado")
		return OutcomeCancelled, nil
	}

	logrus.WithError(cause).WithField("request_id", key).Error("kpi: falha ao atualizar KPIs")
	return OutcomeSkipped, NewKPIErrorWithDentist(sentinel, apiErrors.ErrDatabaseOperation, dentistID, cause.Error())
}
