package main

import (
	"context"
	"os"
	"path"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/cirod-kpi-engine/internal/api"
	"github.com/vfg2006/cirod-kpi-engine/internal/api/handler"
	"github.com/vfg2006/cirod-kpi-engine/internal/bootstrap"
	"github.com/vfg2006/cirod-kpi-engine/internal/config"
	"github.com/vfg2006/cirod-kpi-engine/pkg/log"
)

func main() {
	chdirToSource()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel := log.Configure(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao inicializar dependências")
	}

	// Inicia os agendadores em background
	app.StartSchedulers(ctx)

	server, err := api.New(cfg, api.Services{
		Requests:     app.RequestService,
		KPIs:         app.KPIService,
		Health:       app.HealthService,
		Productivity: app.ProductivityService,
		Codec:        app.Codec,
		CronJobs: handler.CronJobServices{
			KPIRecalcSyncService:         app.KPIRecalcSync,
			PartnershipHealthSyncService: app.HealthSync,
		},
	}, app.Close)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// chdirToSource muda para o diretório deste arquivo, onde o .env local é procurado
func chdirToSource() {
	_, file, _, _ := runtime.Caller(0)
	os.Chdir(path.Dir(file))
}
