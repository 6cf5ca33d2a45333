// Package requesting registra requisições salvas na origem e dispara a atualização incremental de KPIs
package requesting

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/repository"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store"
	"github.com/vfg2006/cirod-kpi-engine/internal/domain"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/kpi"
	"github.com/vfg2006/cirod-kpi-engine/pkg/apiErrors"
)

const dentistCachePrefix = "dentist_"

// Result é o retorno do registro de uma requisição
type Result struct {
	RequestID      string `json:"requestId"`
	DentistID      string `json:"dentistId,omitempty"`
	DentistCreated bool   `json:"dentistCreated"`
	Outcome        string `json:"outcome"`
}

// DentistCache guarda os dentistas já verificados na sessão
type DentistCache interface {
	Has(key string) bool
	Set(key string, value any)
}

// RequestUpdater é o caminho incremental de KPIs
type RequestUpdater interface {
	UpdateForRequest(ctx context.Context, request *domain.Request) (kpi.Outcome, error)
}

//go:generate mockgen -source=service.go -destination=mocks/service.go -package=mocks
type RequestService interface {
	Register(ctx context.Context, record store.Record) (*Result, error)
}

type Service struct {
	requestRepo repository.RequestRepository
	dentistRepo repository.DentistRepository
	dentists    DentistCache
	updater     RequestUpdater
	now         func() time.Time
}

func NewService(
	requestRepo repository.RequestRepository,
	dentistRepo repository.DentistRepository,
	dentists DentistCache,
	updater RequestUpdater,
) *Service {
	return &Service{
		requestRepo: requestRepo,
		dentistRepo: dentistRepo,
		dentists:    dentists,
		updater:     updater,
		now:         time.Now,
	}
}

// Register grava a requisição completa, garante que o dentista exista e aplica a requisição aos KPIs.
// Cancelamento retorna store.ErrCancelled.
func (s *Service) Register(ctx context.Context, record store.Record) (*Result, error) {
	request, err := repository.DecodeRequest(record)
	if err != nil {
		return nil, kpi.NewKPIError(kpi.ErrInvalidRequestRecord, apiErrors.ErrInvalidFormat, err.Error())
	}
	if request.ID == "" {
		return nil, kpi.NewKPIError(kpi.ErrMissingRequestID, apiErrors.ErrMissingRequiredData, "")
	}
	if !request.Dentist.Identified() {
		return nil, kpi.NewKPIError(kpi.ErrMissingDentistIdentifier, apiErrors.ErrMissingRequiredData, request.ID)
	}

	logger := logrus.WithField("request_id", request.ID)

	if err := s.requestRepo.Save(ctx, request); err != nil {
		if store.IsCancelled(err) {
			return nil, store.ErrCancelled
		}
		return nil, kpi.NewKPIError(kpi.ErrSaveRequest, apiErrors.ErrDatabaseOperation, err.Error())
	}

	result := &Result{RequestID: request.ID, DentistID: request.Dentist.ID}

	// falha aqui não impede a atualização: o updater também cria o dentista ausente
	created, err := s.ensureDentist(ctx, request.Dentist)
	if err != nil {
		if store.IsCancelled(err) {
			return nil, store.ErrCancelled
		}
		logger.WithError(err).Warn("não foi possível garantir o dentista antes da atualização dos KPIs")
	}
	result.DentistCreated = created

	outcome, err := s.updater.UpdateForRequest(ctx, request)
	if err != nil {
		return nil, err
	}
	if outcome == kpi.OutcomeCancelled {
		return nil, store.ErrCancelled
	}
	result.Outcome = outcome.String()

	logger.WithFields(logrus.Fields{
		"outcome":         result.Outcome,
		"dentist_created": created,
	}).Info("requisição registrada")

	return result, nil
}

// ensureDentist cria o dentista da requisição quando ele ainda não existe.
// Dentistas encontrados ou criados ficam no cache para evitar novas consultas.
func (s *Service) ensureDentist(ctx context.Context, ref domain.RequestDentist) (bool, error) {
	id := strings.TrimSpace(ref.ID)
	if id == "" {
		return false, nil
	}

	key := dentistCachePrefix + id
	if s.dentists.Has(key) {
		return false, nil
	}

	dentist, err := s.dentistRepo.FindByID(ctx, id)
	if err != nil {
		return false, wrapLookup(err, id)
	}
	if dentist == nil && ref.LicenseCode() != "" {
		dentist, err = s.dentistRepo.FindByCRO(ctx, ref.LicenseCode())
		if err != nil {
			return false, wrapLookup(err, id)
		}
	}

	if dentist != nil {
		s.dentists.Set(key, true)
		return false, nil
	}

	dentist = domain.NewAutoCreatedDentist(ref, kpi.NewKPIs(), s.now())
	if err := s.dentistRepo.Save(ctx, dentist); err != nil {
		if store.IsCancelled(err) {
			return false, err
		}
		return false, kpi.NewKPIErrorWithDentist(kpi.ErrSaveDentist, apiErrors.ErrDatabaseOperation, id, err.Error())
	}

	s.dentists.Set(key, true)
	logrus.WithField("dentist_id", id).Info("dentista criado a partir da requisição")
	return true, nil
}

func wrapLookup(err error, dentistID string) error {
	if store.IsCancelled(err) {
		return err
	}
	return kpi.NewKPIErrorWithDentist(kpi.ErrLookupDentist, apiErrors.ErrDatabaseOperation, dentistID, err.Error())
}
