package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/cirod-kpi-engine/internal/domain"
	"github.com/vfg2006/cirod-kpi-engine/pkg/utils"
)

var (
	boldGreen  = color.New(color.FgGreen, color.Bold).SprintFunc()
	boldYellow = color.New(color.FgYellow, color.Bold).SprintFunc()
	boldRed    = color.New(color.FgRed, color.Bold).SprintFunc()
	boldCyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
	faint      = color.New(color.Faint).SprintFunc()
)

// renderTable imprime uma tabela com cabeçalho
func renderTable(w io.Writer, header []string, rows [][]string) {
	data := pterm.TableData{header}
	data = append(data, rows...)

	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(data)

	rendered, err := table.Srender()
	if err != nil {
		fmt.Fprintln(w, err)
		return
	}
	fmt.Fprintln(w, rendered)
}

func printJSON(w io.Writer, v any) {
	fmt.Fprintln(w, utils.PrettyJson(v))
}

func printSuccess(w io.Writer, format string, a ...any) {
	fmt.Fprint(w, pterm.Success.Sprintfln(format, a...))
}

func printWarning(w io.Writer, format string, a ...any) {
	fmt.Fprint(w, pterm.Warning.Sprintfln(format, a...))
}

func printInfo(w io.Writer, format string, a ...any) {
	fmt.Fprint(w, pterm.Info.Sprintfln(format, a...))
}

// statusLabel colore o status conforme o risco da parceria
func statusLabel(status domain.HealthStatus) string {
	switch status {
	case domain.HealthAccelerating, domain.HealthStable:
		return boldGreen(string(status))
	case domain.HealthOpportunity:
		return boldCyan(string(status))
	case domain.HealthAttention:
		return boldYellow(string(status))
	case domain.HealthDropping, domain.HealthInactive:
		return boldRed(string(status))
	}
	return string(status)
}

// difference colore valores positivos de verde e negativos de vermelho
func difference(v float64, text string) string {
	switch {
	case v > 0:
		return boldGreen("+" + text)
	case v < 0:
		return boldRed(text)
	}
	return text
}

func money(v float64) string {
	return "R$ " + decimal.NewFromFloat(v).StringFixed(2)
}

func optionalInt(v *int) string {
	if v == nil {
		return faint("-")
	}
	return fmt.Sprintf("%d", *v)
}

func optionalFloat(v *float64) string {
	if v == nil {
		return faint("-")
	}
	return decimal.NewFromFloat(*v).StringFixed(1)
}
