// Package cli implementa o kpictl, utilitário de operação do motor de KPIs
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/repository"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/health"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/importing"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/kpi"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/productivity"
)

// Services são os casos de uso consumidos pelos comandos
type Services struct {
	KPIs         kpi.KPIService
	Health       health.HealthService
	Productivity productivity.ProductivityService
	Importer     Importer
	Codec        *repository.KPICodec
}

// Importer carrega um lote exportado da origem
type Importer interface {
	Import(ctx context.Context, batch *importing.Batch) (*importing.Summary, error)
}

// ServicesLoader abre o store e devolve os serviços junto da função de encerramento.
// É chamado apenas quando um comando precisa dos dados.
type ServicesLoader func(ctx context.Context) (*Services, func(), error)

// CLIApp representa a aplicação de linha de comando
type CLIApp struct {
	rootCmd *cobra.Command
	loader  ServicesLoader
	version string
	out     io.Writer

	jsonOutput bool
	quiet      bool
}

// NewCLIApp cria o comando raiz e registra os subcomandos
func NewCLIApp(versionStr string, loader ServicesLoader) *CLIApp {
	app := &CLIApp{
		loader:  loader,
		version: versionStr,
		out:     os.Stdout,
	}

	rootCmd := &cobra.Command{
		Use:           "kpictl",
		Short:         "Operação do motor de KPIs e saúde das parcerias CIROD",
		Version:       versionStr,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !app.jsonOutput && !app.quiet {
				displayWelcomeBanner(app.out, app.version)
			}
		},
	}
	rootCmd.SetVersionTemplate(`{{printf "kpictl versão: %s\n" .Version}}`)

	rootCmd.PersistentFlags().BoolVar(&app.jsonOutput, "json", false, "Imprime o resultado em JSON")
	rootCmd.PersistentFlags().BoolVarP(&app.quiet, "quiet", "q", false, "Não exibe o banner")

	rootCmd.AddCommand(
		app.newRecalculateCmd(),
		app.newHealthCmd(),
		app.newDiagnosticCmd(),
		app.newProductivityCmd(),
		app.newImportCmd(),
	)

	app.rootCmd = rootCmd
	return app
}

// Execute executa a aplicação
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// ExecuteContext executa a aplicação propagando o contexto para os comandos
func (app *CLIApp) ExecuteContext(ctx context.Context) error {
	return app.rootCmd.ExecuteContext(ctx)
}

// SetOutput redireciona a saída dos comandos
func (app *CLIApp) SetOutput(w io.Writer) {
	app.out = w
	app.rootCmd.SetOut(w)
	app.rootCmd.SetErr(w)
}

// SetArgs substitui os argumentos de os.Args
func (app *CLIApp) SetArgs(args []string) {
	app.rootCmd.SetArgs(args)
}

// withServices carrega os serviços, executa fn e libera os recursos ao final
func (app *CLIApp) withServices(cmd *cobra.Command, fn func(ctx context.Context, services *Services) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	services, closeFn, err := app.loader(ctx)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}

	return fn(ctx, services)
}
