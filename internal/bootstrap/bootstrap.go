// Package bootstrap monta o grafo de dependências compartilhado pela API e pelo kpictl
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	pgdb "github.com/vfg2006/cirod-kpi-engine/infrastructure/database/postgres"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/repository"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store/dynamo"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store/memory"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store/postgres"
	"github.com/vfg2006/cirod-kpi-engine/internal/config"
	"github.com/vfg2006/cirod-kpi-engine/internal/scheduler"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/health"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/importing"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/kpi"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/productivity"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/requesting"
	"github.com/vfg2006/cirod-kpi-engine/pkg/cache"
)

const (
	defaultCacheTTL   = 10 * time.Minute
	defaultCacheSweep = time.Minute
)

type App struct {
	Config *config.Config
	Store  store.Store
	Codec  *repository.KPICodec

	DentistRepo  repository.DentistRepository
	RequestRepo  repository.RequestRepository
	SettingsRepo repository.SettingsRepository

	ProcessedRequests *cache.TTLCache
	VerifiedDentists  *cache.TTLCache

	KPIService          *kpi.Service
	Updater             *kpi.Updater
	HealthService       *health.Service
	ProductivityService *productivity.Service
	RequestService      *requesting.Service
	ImportService       *importing.Service

	KPIRecalcSync *scheduler.KPIRecalcSyncService
	HealthSync    *scheduler.PartnershipHealthSyncService

	closers []func()
}

// New abre o store configurado e instancia repositórios, caches, casos de uso e agendadores
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.BusinessUnits.Validate(); err != nil {
		return nil, err
	}

	backend, closer, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg}
	if closer != nil {
		app.closers = append(app.closers, closer)
	}

	app.Store = store.NewRetrying(backend, store.RetryConfig{
		InitialInterval: cfg.Store.RetryInitialInterval,
		MaxInterval:     cfg.Store.RetryMaxInterval,
		MaxElapsedTime:  cfg.Store.RetryMaxElapsedTime,
	})

	units := cfg.BusinessUnits
	app.Codec = repository.NewKPICodec(units)
	app.DentistRepo = repository.NewDentistRepository(app.Store, app.Codec)
	app.RequestRepo = repository.NewRequestRepository(app.Store)
	app.SettingsRepo = repository.NewSettingsRepository(app.Store)

	sweep := orDefault(cfg.KPI.DedupSweepInterval, defaultCacheSweep)
	app.ProcessedRequests = cache.NewTTLCache(orDefault(cfg.KPI.DedupTTL, defaultCacheTTL), sweep)
	app.VerifiedDentists = cache.NewTTLCache(orDefault(cfg.KPI.DentistCacheTTL, defaultCacheTTL), sweep)
	app.closers = append(app.closers, app.ProcessedRequests.Clear, app.VerifiedDentists.Clear)

	accumulator := kpi.NewAccumulator(units)
	app.KPIService = kpi.NewService(app.DentistRepo, app.RequestRepo, app.SettingsRepo, accumulator)
	app.Updater = kpi.NewUpdater(app.DentistRepo, accumulator, app.ProcessedRequests)
	app.HealthService = health.NewService(app.DentistRepo, app.RequestRepo, app.SettingsRepo, cfg.Health.MaxConcurrentQueries)
	app.ProductivityService = productivity.NewService(app.DentistRepo, units)
	app.RequestService = requesting.NewService(app.RequestRepo, app.DentistRepo, app.VerifiedDentists, app.Updater)
	app.ImportService = importing.NewService(app.Store, app.RequestService)

	app.KPIRecalcSync = scheduler.NewKPIRecalcSyncService(app.KPIService, cfg)
	app.HealthSync = scheduler.NewPartnershipHealthSyncService(app.HealthService, cfg)

	logrus.WithFields(logrus.Fields{
		"store_driver": cfg.Store.Driver,
		"units":        len(units),
	}).Info("Dependências inicializadas")

	return app, nil
}

// StartSchedulers inicia os agendadores; falhas são registradas sem derrubar a aplicação
func (a *App) StartSchedulers(ctx context.Context) {
	if err := a.KPIRecalcSync.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de recálculo de KPIs")
	} else {
		logrus.Info("Agendador de recálculo de KPIs iniciado com sucesso")
	}

	if err := a.HealthSync.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de saúde das parcerias")
	} else {
		logrus.Info("Agendador de saúde das parcerias iniciado com sucesso")
	}
}

// Close libera conexões e esvazia os caches, na ordem inversa da abertura
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// OpenStore cria o backend definido em STORE_DRIVER
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.Store.Driver {
	case "", config.StoreDriverMemory:
		logrus.Warn("Usando store em memória; os dados serão perdidos ao encerrar")
		return memory.New(), nil, nil

	case config.StoreDriverPostgres:
		conn, err := pgdb.NewConnection(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("erro ao conectar ao PostgreSQL: %w", err)
		}
		if err := pgdb.RunMigrations(conn); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("erro ao executar migrações: %w", err)
		}
		logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
		return postgres.New(conn), func() { conn.Close() }, nil

	case config.StoreDriverDynamoDB:
		client, err := dynamo.NewClient(ctx, cfg.DynamoDB)
		if err != nil {
			return nil, nil, err
		}
		logrus.WithField("region", cfg.DynamoDB.Region).Info("Cliente DynamoDB configurado")
		return dynamo.New(client, dynamo.TablesFromConfig(cfg.DynamoDB)), nil, nil
	}

	return nil, nil, fmt.Errorf("store desconhecido: %s", cfg.Store.Driver)
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
