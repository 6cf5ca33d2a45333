package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/vfg2006/cirod-kpi-engine/internal/domain"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/importing"
)

var ErrMissingImportFile = errors.New("informe o arquivo com --file")

func (app *CLIApp) newImportCmd() *cobra.Command {
	var file string
	var format string
	var recalculate bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Carrega dentistas e requisições de um arquivo YAML ou JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return ErrMissingImportFile
			}
			if format == "" {
				format = importing.FormatFromPath(file)
			}

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			batch, err := importing.ParseBatch(f, format)
			if err != nil {
				return err
			}

			return app.withServices(cmd, func(ctx context.Context, services *Services) error {
				summary, err := services.Importer.Import(ctx, batch)
				if err != nil {
					return err
				}

				if !recalculate {
					app.renderImport(summary, nil)
					return nil
				}

				recalc, err := services.KPIs.RecalculateAll(ctx)
				if err != nil {
					return err
				}
				app.renderImport(summary, recalc)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Arquivo de carga")
	cmd.Flags().StringVar(&format, "format", "", "Formato do arquivo: yaml ou json (padrão: pela extensão)")
	cmd.Flags().BoolVar(&recalculate, "recalculate", false, "Executa o recálculo completo ao final da carga")
	return cmd
}

func (app *CLIApp) renderImport(summary *importing.Summary, recalc *domain.RecalcSummary) {
	if app.jsonOutput {
		out := map[string]any{"import": summary}
		if recalc != nil {
			out["recalculation"] = recalc
		}
		printJSON(app.out, out)
		return
	}

	outcomes := make([]string, 0, len(summary.RequestsByOutcome))
	for outcome := range summary.RequestsByOutcome {
		outcomes = append(outcomes, outcome)
	}
	sort.Strings(outcomes)

	rows := [][]string{
		{"Dentistas importados", fmt.Sprintf("%d", summary.DentistsImported)},
		{"Dentistas ignorados", fmt.Sprintf("%d", summary.DentistsSkipped)},
	}
	for _, outcome := range outcomes {
		rows = append(rows, []string{"Requisições " + outcome, fmt.Sprintf("%d", summary.RequestsByOutcome[outcome])})
	}
	rows = append(rows, []string{"Requisições rejeitadas", fmt.Sprintf("%d", summary.RequestsFailed)})
	renderTable(app.out, []string{"Carga", "Total"}, rows)

	if summary.RequestsFailed > 0 {
		printWarning(app.out, "%d requisições rejeitadas, veja os logs", summary.RequestsFailed)
	}
	if recalc != nil {
		printSuccess(app.out, "Carga finalizada e KPIs recalculados")
		return
	}
	printSuccess(app.out, "Carga finalizada")
}
