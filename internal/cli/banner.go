package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// displayWelcomeBanner exibe o banner com a versão
func displayWelcomeBanner(w io.Writer, versionStr string) {
	banner := `
   _  __ ____  ___ ____ _____ _
  | |/ /|  _ \|_ _/ ___|_   _| |
  | ' / | |_) || | |     | | | |
  | . \ |  __/ | | |___  | | | |___
  |_|\_\|_|   |___\____| |_| |_____|
`
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()
	magenta := color.New(color.FgMagenta, color.Bold).SprintFunc()

	fmt.Fprintln(w, blue(banner))
	fmt.Fprintln(w, magenta(fmt.Sprintf("CIROD KPI Engine (v%s)", versionStr)))
}
