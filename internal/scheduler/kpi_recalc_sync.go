package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/cirod-kpi-engine/internal/config"
	"github.com/vfg2006/cirod-kpi-engine/internal/domain"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/kpi"
)

// KPIRecalcSyncConfig representa a configuração do agendador de recálculo de KPIs
type KPIRecalcSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
	RunOnStart   bool
}

// KPIRecalcSyncService agenda o recálculo completo diário dos KPIs dos dentistas
type KPIRecalcSyncService struct {
	scheduler           *gocron.Scheduler
	config              KPIRecalcSyncConfig
	kpiService          kpi.KPIService
	ctx                 context.Context
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSummary         *domain.RecalcSummary
	lastError           string
}

func NewKPIRecalcSyncService(kpiService kpi.KPIService, appConfig *config.Config) *KPIRecalcSyncService {
	syncConfig := KPIRecalcSyncConfig{
		CronSchedule: appConfig.KPIRecalcSync.CronSchedule,
		SyncEnabled:  appConfig.KPIRecalcSync.Enabled,
		RunOnStart:   appConfig.KPIRecalcSync.RunOnStart,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"sync_enabled":  syncConfig.SyncEnabled,
		"run_on_start":  syncConfig.RunOnStart,
	}).Info("Configuração do agendador de recálculo de KPIs carregada")

	return &KPIRecalcSyncService{
		scheduler:  gocron.NewScheduler(time.Local),
		config:     syncConfig,
		kpiService: kpiService,
		ctx:        context.Background(),
	}
}

// Start agenda o recálculo. Com RunOnStart, verifica na subida se o recálculo de hoje já foi feito.
func (s *KPIRecalcSyncService) Start(ctx context.Context) error {
	s.syncMutex.Lock()
	s.ctx = ctx
	s.syncMutex.Unlock()

	if s.config.RunOnStart {
		go s.syncKPIs(ctx, false)
	}

	if !s.config.SyncEnabled {
		logrus.Info("Recálculo agendado de KPIs desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de recálculo de KPIs")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncKPIs(ctx, false)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar recálculo de KPIs: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de recálculo de KPIs")
		s.scheduler.Stop()
	}()

	return nil
}

// syncKPIs executa o recálculo; sem force respeita o marcador diário
func (s *KPIRecalcSyncService) syncKPIs(ctx context.Context, force bool) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Recálculo de KPIs já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	var (
		summary *domain.RecalcSummary
		ran     = true
		err     error
	)
	if force {
		summary, err = s.kpiService.RecalculateAll(ctx)
	} else {
		summary, ran, err = s.kpiService.RecalculateIfStale(ctx)
	}

	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	s.syncRunning = false

	if err != nil {
		s.lastError = err.Error()
		logrus.WithError(err).Error("Erro no recálculo de KPIs")
		return
	}

	s.lastError = ""
	s.lastSyncCompletedAt = time.Now()
	if !ran {
		logrus.Info("KPIs já recalculados hoje, nada a fazer")
		return
	}
	s.lastSummary = summary

	logrus.WithFields(logrus.Fields{
		"run_id":             summary.RunID,
		"dentists_updated":   summary.DentistsUpdated,
		"requests_processed": summary.RequestsProcessed,
		"duration":           summary.Duration.String(),
	}).Info("Recálculo de KPIs concluído")
}

// TriggerManualSync força um recálculo completo. Retorna false se já houver um em andamento.
func (s *KPIRecalcSyncService) TriggerManualSync() bool {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Recálculo de KPIs já em andamento, ignorando solicitação manual")
		return false
	}
	ctx := s.ctx
	s.syncMutex.Unlock()

	logrus.Info("Iniciando recálculo manual de KPIs")
	go s.syncKPIs(ctx, true)
	return true
}

// GetStatus retorna o status atual do recálculo
func (s *KPIRecalcSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := map[string]any{
		"sync_running":           s.syncRunning,
		"sync_cron":              s.config.CronSchedule,
		"sync_enabled":           s.config.SyncEnabled,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
	if s.lastSummary != nil {
		status["last_summary"] = s.lastSummary
	}
	if s.lastError != "" {
		status["last_error"] = s.lastError
	}
	return status
}
