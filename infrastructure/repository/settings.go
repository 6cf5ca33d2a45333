package repository

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store"
	"github.com/vfg2006/cirod-kpi-engine/internal/domain"
)

const settingsKeyField = "config_id"

//go:generate mockgen -source=settings.go -destination=mocks/settings.go -package=mocks
type SettingsRepository interface {
	GetKPIConfig(ctx context.Context) (*domain.KPIConfig, error)
	SaveKPIConfig(ctx context.Context, cfg *domain.KPIConfig) error
	GetHealthConfig(ctx context.Context) (*domain.HealthConfig, error)
	SaveHealthConfig(ctx context.Context, cfg *domain.HealthConfig) error
}

type settingsRepository struct {
	store store.Store
}

func NewSettingsRepository(s store.Store) SettingsRepository {
	return &settingsRepository{store: s}
}

func (r *settingsRepository) GetKPIConfig(ctx context.Context) (*domain.KPIConfig, error) {
	cfg := &domain.KPIConfig{}
	found, err := r.get(ctx, domain.KPIConfigID, cfg)
	if err != nil || !found {
		return nil, err
	}
	return cfg, nil
}

func (r *settingsRepository) SaveKPIConfig(ctx context.Context, cfg *domain.KPIConfig) error {
	return r.put(ctx, domain.KPIConfigID, cfg)
}

func (r *settingsRepository) GetHealthConfig(ctx context.Context) (*domain.HealthConfig, error) {
	cfg := &domain.HealthConfig{}
	found, err := r.get(ctx, domain.HealthConfigID, cfg)
	if err != nil || !found {
		return nil, err
	}
	return cfg, nil
}

func (r *settingsRepository) SaveHealthConfig(ctx context.Context, cfg *domain.HealthConfig) error {
	return r.put(ctx, domain.HealthConfigID, cfg)
}

func (r *settingsRepository) get(ctx context.Context, id string, out any) (bool, error) {
	record, err := r.store.Get(ctx, store.Settings, id)
	if err != nil {
		if store.Classify(err) == store.StatusNotFound {
			return false, nil
		}
		return false, errors.Wrapf(err, "erro ao buscar configuração %s", id)
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return false, errors.Wrapf(err, "erro ao serializar configuração %s", id)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, errors.Wrapf(err, "erro ao decodificar configuração %s", id)
	}
	return true, nil
}

func (r *settingsRepository) put(ctx context.Context, id string, in any) error {
	record, err := toRecord(in, nil)
	if err != nil {
		return errors.Wrapf(err, "erro ao serializar configuração %s", id)
	}
	record[settingsKeyField] = id

	if err := r.store.Put(ctx, store.Settings, id, record); err != nil {
		return errors.Wrapf(err, "erro ao salvar configuração %s", id)
	}
	return nil
}
