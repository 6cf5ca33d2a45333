package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/repository"
	"github.com/vfg2006/cirod-kpi-engine/internal/api/handler"
	"github.com/vfg2006/cirod-kpi-engine/internal/api/handler/router"
	"github.com/vfg2006/cirod-kpi-engine/internal/config"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/health"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/kpi"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/productivity"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/requesting"
	"github.com/vfg2006/cirod-kpi-engine/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
	onShutdown []func()
}

// Services agrupa os casos de uso expostos pela API
type Services struct {
	Requests     requesting.RequestService
	KPIs         kpi.KPIService
	Health       health.HealthService
	Productivity productivity.ProductivityService
	Codec        *repository.KPICodec
	CronJobs     handler.CronJobServices
}

func New(config *config.Config, services Services, onShutdown ...func()) (*Server, error) {
	rt := NewHandler(config, services)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           rt,
			ReadHeaderTimeout: 2 * time.Second,
		},
		onShutdown: onShutdown,
	}

	return srv, nil
}

// NewHandler monta o roteador com a cadeia de middlewares
func NewHandler(config *config.Config, services Services) http.Handler {
	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Requests(services.Requests)...),
		router.WithRoutes(handler.KPIs(services.KPIs, services.Codec)...),
		router.WithRoutes(handler.PartnershipHealth(services.Health)...),
		router.WithRoutes(handler.Productivity(services.Productivity)...),
		router.WithRoutes(handler.CronJobs(services.CronJobs)...),
	)

	for _, route := range rt.Routes() {
		logrus.Debugf("Rota registrada: %s %s", route.Method, route.Path)
	}

	middlewares := []alice.Constructor{
		middleware.RequestLogging(config.Server.SlowRequestThreshold),
		middleware.Recover(),
		middleware.Cors(config.Server.AllowedOrigins...),
	}

	return alice.New(middlewares...).Then(rt)
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	// Aguardar pelo sinal ou pelo cancelamento do contexto
	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	// Define timeout para desligamento
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Log de início do desligamento
	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	logrus.Info("Executando operações de limpeza antes do desligamento")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		return err
	}

	for _, cleanup := range s.onShutdown {
		cleanup()
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
