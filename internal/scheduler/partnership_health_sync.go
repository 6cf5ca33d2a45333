package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/cirod-kpi-engine/internal/config"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/health"
)

// PartnershipHealthSyncService atualiza diariamente o cálculo de saúde das parcerias do ano corrente
type PartnershipHealthSyncService struct {
	scheduler           *gocron.Scheduler
	cronSchedule        string
	syncEnabled         bool
	healthService       health.HealthService
	ctx                 context.Context
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastItems           int
	lastError           string
}

func NewPartnershipHealthSyncService(healthService health.HealthService, appConfig *config.Config) *PartnershipHealthSyncService {
	logrus.WithFields(logrus.Fields{
		"cron_schedule": appConfig.HealthSync.CronSchedule,
		"sync_enabled":  appConfig.HealthSync.Enabled,
	}).Info("Configuração do agendador de saúde das parcerias carregada")

	return &PartnershipHealthSyncService{
		scheduler:     gocron.NewScheduler(time.Local),
		cronSchedule:  appConfig.HealthSync.CronSchedule,
		syncEnabled:   appConfig.HealthSync.Enabled,
		healthService: healthService,
		ctx:           context.Background(),
	}
}

// Start inicia o agendador
func (s *PartnershipHealthSyncService) Start(ctx context.Context) error {
	s.syncMutex.Lock()
	s.ctx = ctx
	s.syncMutex.Unlock()

	if !s.syncEnabled {
		logrus.Info("Cálculo agendado de saúde das parcerias desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.cronSchedule).Info("Iniciando agendador de saúde das parcerias")

	_, err := s.scheduler.Cron(s.cronSchedule).Do(func() {
		s.syncHealth(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar cálculo de saúde das parcerias: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de saúde das parcerias")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *PartnershipHealthSyncService) syncHealth(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Cálculo de saúde das parcerias já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	report, err := s.healthService.ComputeForYear(ctx, 0, true)

	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	s.syncRunning = false

	if err != nil {
		s.lastError = err.Error()
		logrus.WithError(err).Error("Erro no cálculo de saúde das parcerias")
		return
	}

	s.lastError = ""
	s.lastItems = len(report.Items)
	s.lastSyncCompletedAt = time.Now()

	logrus.WithFields(logrus.Fields{
		"year":  report.Year,
		"items": s.lastItems,
	}).Info("Cálculo de saúde das parcerias concluído")
}

// TriggerManualSync inicia manualmente o cálculo. Retorna false se já houver um em andamento.
func (s *PartnershipHealthSyncService) TriggerManualSync() bool {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Cálculo de saúde das parcerias já em andamento, ignorando solicitação manual")
		return false
	}
	ctx := s.ctx
	s.syncMutex.Unlock()

	logrus.Info("Iniciando cálculo manual de saúde das parcerias")
	go s.syncHealth(ctx)
	return true
}

// GetStatus retorna o status atual do cálculo
func (s *PartnershipHealthSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := map[string]any{
		"sync_running":           s.syncRunning,
		"sync_cron":              s.cronSchedule,
		"sync_enabled":           s.syncEnabled,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_items":             s.lastItems,
	}
	if s.lastError != "" {
		status["last_error"] = s.lastError
	}
	return status
}
