package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/cirod-kpi-engine/internal/bootstrap"
	"github.com/vfg2006/cirod-kpi-engine/internal/cli"
	"github.com/vfg2006/cirod-kpi-engine/internal/config"
	"github.com/vfg2006/cirod-kpi-engine/pkg/log"
)

// version é sobrescrito no build com -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewCLIApp(version, loadServices)
	if err := app.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		os.Exit(1)
	}
}

func loadServices(ctx context.Context) (*cli.Services, func(), error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, err
	}

	// Acima de warn os logs se misturam às tabelas
	if log.Configure(cfg.App.LogLevel) > logrus.WarnLevel {
		logrus.SetLevel(logrus.WarnLevel)
	}

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	return &cli.Services{
		KPIs:         app.KPIService,
		Health:       app.HealthService,
		Productivity: app.ProductivityService,
		Importer:     app.ImportService,
		Codec:        app.Codec,
	}, app.Close, nil
}
