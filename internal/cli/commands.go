package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vfg2006/cirod-kpi-engine/internal/domain"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/health"
	"github.com/vfg2006/cirod-kpi-engine/pkg/utils"
)

var ErrConflictingFlags = errors.New("--cro e --if-stale não podem ser usados juntos")

func (app *CLIApp) newRecalculateCmd() *cobra.Command {
	var cro string
	var ifStale bool

	cmd := &cobra.Command{
		Use:   "recalculate",
		Short: "Recalcula os KPIs de todos os dentistas ou de um CRO",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cro != "" && ifStale {
				return ErrConflictingFlags
			}

			return app.withServices(cmd, func(ctx context.Context, services *Services) error {
				if cro != "" {
					return app.recalculateDentist(ctx, services, cro)
				}
				return app.recalculateAll(ctx, services, ifStale)
			})
		},
	}

	cmd.Flags().StringVar(&cro, "cro", "", "Recalcula apenas o dentista com este CRO")
	cmd.Flags().BoolVar(&ifStale, "if-stale", false, "Só recalcula se ainda não houve recálculo hoje")
	return cmd
}

func (app *CLIApp) recalculateAll(ctx context.Context, services *Services, ifStale bool) error {
	var summary *domain.RecalcSummary
	var err error

	if ifStale {
		var ran bool
		summary, ran, err = services.KPIs.RecalculateIfStale(ctx)
		if err != nil {
			return err
		}
		if !ran {
			if app.jsonOutput {
				printJSON(app.out, map[string]any{"skipped": true})
				return nil
			}
			printWarning(app.out, "KPIs já recalculados hoje, nada a fazer")
			return nil
		}
	} else {
		summary, err = services.KPIs.RecalculateAll(ctx)
		if err != nil {
			return err
		}
	}

	if app.jsonOutput {
		printJSON(app.out, summary)
		return nil
	}

	renderTable(app.out, []string{"Execução", "Atualizados", "Criados", "Requisições", "Ignoradas", "Duração"}, [][]string{{
		summary.RunID,
		fmt.Sprintf("%d", summary.DentistsUpdated),
		fmt.Sprintf("%d", summary.DentistsCreated),
		fmt.Sprintf("%d", summary.RequestsProcessed),
		fmt.Sprintf("%d", summary.RequestsSkipped),
		summary.Duration.String(),
	}})
	printSuccess(app.out, "Recálculo completo finalizado")
	return nil
}

func (app *CLIApp) recalculateDentist(ctx context.Context, services *Services, cro string) error {
	kpis, err := services.KPIs.RecalculateDentist(ctx, cro)
	if err != nil {
		return err
	}

	if app.jsonOutput {
		if services.Codec != nil {
			printJSON(app.out, services.Codec.Encode(kpis))
			return nil
		}
		printJSON(app.out, kpis)
		return nil
	}

	rows := [][]string{}
	kpis.EachMonth(func(year, month string, m *domain.MonthKPI) {
		rows = append(rows, []string{
			year + "-" + month,
			money(m.Revenue),
			fmt.Sprintf("%d", m.Orders),
			money(m.AvgTicket),
		})
	})

	if len(rows) == 0 {
		printWarning(app.out, "Nenhum mês com indicações para o CRO %s", cro)
	} else {
		renderTable(app.out, []string{"Mês", "Faturamento", "Pedidos", "Ticket médio"}, rows)
	}

	printInfo(app.out, "Faturamento mensal esperado: %s", money(kpis.ExpectedMonthlyRevenue))
	printInfo(app.out, "Pedidos mensais esperados: %.2f", kpis.ExpectedMonthlyQtd)
	printSuccess(app.out, "KPIs do CRO %s recalculados", cro)
	return nil
}

func (app *CLIApp) newHealthCmd() *cobra.Command {
	var year int
	var force bool
	var limit int

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Calcula a saúde das parcerias do ano",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withServices(cmd, func(ctx context.Context, services *Services) error {
				report, err := services.Health.ComputeForYear(ctx, year, force)
				if err != nil {
					return err
				}

				items := report.Items
				if limit > 0 && len(items) > limit {
					items = items[:limit]
				}

				if app.jsonOutput {
					printJSON(app.out, domain.HealthReport{
						Year:         report.Year,
						CalculatedAt: report.CalculatedAt,
						FromCache:    report.FromCache,
						Items:        items,
					})
					return nil
				}

				app.renderHealth(report, items)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Ano de referência (padrão: ano corrente)")
	cmd.Flags().BoolVar(&force, "force", false, "Ignora o cálculo salvo do dia")
	cmd.Flags().IntVar(&limit, "limit", 0, "Limita a quantidade de dentistas exibidos")
	return cmd
}

func (app *CLIApp) renderHealth(report *domain.HealthReport, items []domain.DentistHealth) {
	if len(items) == 0 {
		printWarning(app.out, "Nenhum dentista com indicações em %d", report.Year)
		return
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.DentistName,
			item.AreasDisplay,
			fmt.Sprintf("%d", item.Referrals),
			health.FormatGap(item.GapDays),
			optionalFloat(item.FreqCurrent),
			optionalInt(item.ScoreChurn),
			string(item.Confidence),
			statusLabel(item.Status),
		})
	}
	renderTable(app.out, []string{"Dentista", "Áreas", "Indicações", "Sem indicar", "Intervalo", "Churn", "Confiança", "Status"}, rows)

	origin := "calculado agora"
	if report.FromCache {
		origin = "cálculo salvo"
	}
	printInfo(app.out, "Ano %d, %s às %s (%s)", report.Year, utils.FormatDay(report.CalculatedAt), utils.FormatClock(report.CalculatedAt), origin)
}

func (app *CLIApp) newDiagnosticCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnostic",
		Short: "Confronta dentistas e requisições armazenados",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withServices(cmd, func(ctx context.Context, services *Services) error {
				diagnostic, err := services.KPIs.Diagnose(ctx)
				if err != nil {
					return err
				}

				if app.jsonOutput {
					printJSON(app.out, diagnostic)
					return nil
				}

				app.renderDiagnostic(diagnostic)
				return nil
			})
		},
	}
}

func (app *CLIApp) renderDiagnostic(d *domain.KPIDiagnostic) {
	renderTable(app.out, []string{"Indicador", "Valor"}, [][]string{
		{"Dentistas", fmt.Sprintf("%d", d.TotalDentists)},
		{"Dentistas com KPIs", fmt.Sprintf("%d", d.DentistsWithKPIs)},
		{"Dentistas sem CRO", fmt.Sprintf("%d", d.DentistsWithoutCRO)},
		{"Requisições", fmt.Sprintf("%d", d.TotalRequests)},
		{"Requisições sem data", fmt.Sprintf("%d", d.RequestsWithoutDate)},
	})

	if len(d.RequestsByMonth) > 0 {
		months := make([]string, 0, len(d.RequestsByMonth))
		for month := range d.RequestsByMonth {
			months = append(months, month)
		}
		sort.Strings(months)

		rows := make([][]string, 0, len(months))
		for _, month := range months {
			rows = append(rows, []string{month, fmt.Sprintf("%d", d.RequestsByMonth[month])})
		}
		renderTable(app.out, []string{"Mês", "Requisições"}, rows)
	}

	if len(d.RequestsByClinic) > 0 {
		rows := make([][]string, 0, len(d.RequestsByClinic))
		for _, clinic := range d.RequestsByClinic {
			unit := clinic.UnitName
			if unit == "" {
				unit = faint("-")
			}
			rows = append(rows, []string{clinic.ClinicID, unit, fmt.Sprintf("%d", clinic.Requests)})
		}
		renderTable(app.out, []string{"Clínica", "Unidade", "Requisições"}, rows)
	}

	if len(d.OrphanLicenseCodes) > 0 {
		printWarning(app.out, "CROs sem dentista cadastrado: %s", strings.Join(d.OrphanLicenseCodes, ", "))
		return
	}
	printSuccess(app.out, "Todas as requisições apontam para dentistas cadastrados")
}

func (app *CLIApp) newProductivityCmd() *cobra.Command {
	var unit int

	cmd := &cobra.Command{
		Use:   "productivity",
		Short: "Compara o faturamento do mês atual com o anterior por dentista",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withServices(cmd, func(ctx context.Context, services *Services) error {
				report, err := services.Productivity.Report(ctx, unit)
				if err != nil {
					return err
				}

				if app.jsonOutput {
					printJSON(app.out, report)
					return nil
				}

				app.renderProductivity(report)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&unit, "unit", 0, "Unidade de negócio (0 para o total)")
	return cmd
}

func (app *CLIApp) renderProductivity(report *domain.ProductivityReport) {
	if len(report.Rows) == 0 {
		printWarning(app.out, "Nenhum dentista com KPIs para %s", report.UnitName)
		return
	}

	rows := make([][]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		rows = append(rows, []string{
			row.DentistName,
			row.PartnershipStatus,
			money(row.PreviousMonthRevenue),
			money(row.CurrentMonthRevenue),
			difference(row.RevenueDifference, money(row.RevenueDifference)),
			fmt.Sprintf("%d", row.PreviousMonthOrders),
			fmt.Sprintf("%d", row.CurrentMonthOrders),
			difference(float64(row.OrdersDifference), fmt.Sprintf("%d", row.OrdersDifference)),
		})
	}

	renderTable(app.out, []string{
		"Dentista", "Parceria", report.PreviousMonth, report.CurrentMonth, "Diferença",
		"Pedidos " + report.PreviousMonth, "Pedidos " + report.CurrentMonth, "Diferença",
	}, rows)
	printInfo(app.out, "Unidade: %s", report.UnitName)
}
