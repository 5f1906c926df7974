package cli

import (
	"context"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/diillson/aws-cost-report-go/internal/application/usecase"
	"github.com/diillson/aws-cost-report-go/internal/shared/types"
	"github.com/diillson/aws-cost-report-go/pkg/version"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd       *cobra.Command
	reportUseCase *usecase.ReportUseCase
	version       string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:           "aws-cost-report",
		Short:         "AWS Cost Explorer report CLI",
		Long:          "Retrieves AWS Cost Explorer usage for a date range, aggregated by linked account and service, as a table, CSV, or TSV report.",
		Version:       formattedVersion,
		RunE:          app.runCommand,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{printf "AWS Cost Explorer Report version: %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().StringP("profile", "P", "", "AWS profile name (default: default credential chain)")
	rootCmd.PersistentFlags().StringP("start", "S", "", "Start date YYYY-MM-DD (default: first day of current month)")
	rootCmd.PersistentFlags().StringP("end", "E", "", "End date YYYY-MM-DD, exclusive (default: first day of next month)")
	rootCmd.PersistentFlags().Bool("sort", true, "Sort rows descending by amount")
	rootCmd.PersistentFlags().Bool("no-sort", false, "Keep rows in arrival order (overrides --sort)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format: table, csv, tsv (default: table)")
	rootCmd.PersistentFlags().StringP("threshold", "t", "", "Drop records below this amount (default: 0.00001)")
	rootCmd.PersistentFlags().IntP("limit", "l", 0, "Maximum rows when sorting (default: 1000)")

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// parseArgs parses command-line arguments into a CLIArgs struct. Flags the
// user did not set stay at their zero value so config-file values can apply.
func (app *CLIApp) parseArgs() (*types.CLIArgs, error) {
	flags := app.rootCmd.Flags()

	configFile, _ := flags.GetString("config-file")
	profile, _ := flags.GetString("profile")
	start, _ := flags.GetString("start")
	end, _ := flags.GetString("end")
	output, _ := flags.GetString("output")
	threshold, _ := flags.GetString("threshold")
	limit, _ := flags.GetInt("limit")

	var sort *bool
	if noSort, _ := flags.GetBool("no-sort"); noSort {
		sort = lo.ToPtr(false)
	} else if flags.Changed("sort") {
		v, _ := flags.GetBool("sort")
		sort = &v
	}

	args := &types.CLIArgs{
		ConfigFile: configFile,
		Profile:    profile,
		Start:      start,
		End:        end,
		Sort:       sort,
		Output:     types.OutputFormat(output),
		Threshold:  threshold,
		Limit:      limit,
	}

	return args, nil
}

// runCommand é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runCommand(cmd *cobra.Command, args []string) error {
	cliArgs, err := app.parseArgs()
	if err != nil {
		return err
	}

	// The banner and update check stay off machine-readable outputs so that
	// csv/tsv pipelines see nothing but data rows on stdout.
	if cliArgs.Output == "" || cliArgs.Output == types.OutputTable {
		displayWelcomeBanner(app.version)
		go version.CheckLatestVersion(app.version)
	}

	ctx := context.Background()
	return app.reportUseCase.RunReport(ctx, cliArgs)
}

// SetReportUseCase sets the report use case for the CLI app.
func (app *CLIApp) SetReportUseCase(useCase *usecase.ReportUseCase) {
	app.reportUseCase = useCase
}
