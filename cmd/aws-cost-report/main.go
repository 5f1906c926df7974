package main

import (
	"fmt"
	"os"

	awsadapter "github.com/diillson/aws-cost-report-go/internal/adapter/driven/aws"
	"github.com/diillson/aws-cost-report-go/internal/adapter/driven/config"
	"github.com/diillson/aws-cost-report-go/internal/adapter/driven/render"
	"github.com/diillson/aws-cost-report-go/internal/adapter/driving/cli"
	"github.com/diillson/aws-cost-report-go/internal/application/usecase"
	"github.com/diillson/aws-cost-report-go/pkg/console"
	"github.com/diillson/aws-cost-report-go/pkg/version"
)

func main() {
	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version)

	// Inicializa os repositórios
	consoleImpl := console.NewConsole()
	costRepo := awsadapter.NewCostRepository(consoleImpl)
	renderRepo := render.NewRenderRepository(consoleImpl)
	configRepo := config.NewConfigRepository()

	// Inicializa o caso de uso
	reportUseCase := usecase.NewReportUseCase(
		costRepo,
		renderRepo,
		configRepo,
		consoleImpl,
	)

	app.SetReportUseCase(reportUseCase)

	// Qualquer erro não recuperável chega aqui: mensagem no stderr, saída 1.
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
