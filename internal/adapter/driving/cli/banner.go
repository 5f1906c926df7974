package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/diillson/aws-cost-report-go/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
// Escreve no stderr para não contaminar o stream de dados.
func displayWelcomeBanner(versionStr string) {
	banner := `
          /$$$$$$  /$$      /$$  /$$$$$$         /$$$$$$                        /$$
         /$$__  $$| $$  /$ | $$ /$$__  $$       /$$__  $$                      | $$
        | $$  \ $$| $$ /$$$| $$| $$  \__/      | $$  \__/  /$$$$$$   /$$$$$$$ /$$$$$$
        | $$$$$$$$| $$/$$ $$ $$|  $$$$$$       | $$       /$$__  $$ /$$_____/|_  $$_/
        | $$__  $$| $$$$_  $$$$ \____  $$      | $$      | $$  \ $$|  $$$$$$   | $$
        | $$  | $$| $$$/ \  $$$ /$$  \ $$      | $$    $$| $$  | $$ \____  $$  | $$ /$$
        | $$  | $$| $$/   \  $$|  $$$$$$/      |  $$$$$$/|  $$$$$$/ /$$$$$$$/  |  $$$$/
        |__/  |__/|__/     \__/ \______/        \______/  \______/ |_______/    \___/
        `
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Fprintln(os.Stderr, red(banner))

	formattedVersion := version.FormatVersion()
	fmt.Fprintln(os.Stderr, blue(fmt.Sprintf("AWS Cost Explorer Report CLI (v%s)", formattedVersion)))
}
