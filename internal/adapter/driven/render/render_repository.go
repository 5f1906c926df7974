package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/diillson/aws-cost-report-go/internal/domain/entity"
	"github.com/diillson/aws-cost-report-go/internal/domain/repository"
	"github.com/diillson/aws-cost-report-go/internal/shared/types"
)

// serviceColumnWidth caps the Service column in table output; longer names are
// truncated so the table stays readable on one screen.
const serviceColumnWidth = 50

var headerFields = []string{"TimePeriodStart", "LinkedAccount", "Service", "Amount"}

// RenderRepositoryImpl implementa o RenderRepository.
type RenderRepositoryImpl struct {
	console types.ConsoleInterface
}

// NewRenderRepository cria uma nova implementação do RenderRepository.
func NewRenderRepository(console types.ConsoleInterface) repository.RenderRepository {
	return &RenderRepositoryImpl{console: console}
}

// Render writes the report in the requested format. Data rows always go to
// out. The total goes to out for the table format but to diag for csv and tsv,
// keeping the data stream parseable; this asymmetry is part of the output
// contract.
func (r *RenderRepositoryImpl) Render(report entity.Report, format types.OutputFormat, out, diag io.Writer) error {
	switch format {
	case types.OutputTable:
		return r.renderTable(report, out)
	case types.OutputCSV:
		return renderSeparated(report, ',', out, diag)
	case types.OutputTSV:
		return renderSeparated(report, '\t', out, diag)
	default:
		return fmt.Errorf("%w: got %q", types.ErrInvalidOutput, format)
	}
}

func (r *RenderRepositoryImpl) renderTable(report entity.Report, out io.Writer) error {
	table := r.console.CreateTable()
	table.AddColumn(headerFields[0])
	table.AddColumn(headerFields[1], types.WithAlignment(types.AlignRight))
	table.AddColumn(headerFields[2], types.WithMaxWidth(serviceColumnWidth))
	table.AddColumn(headerFields[3], types.WithAlignment(types.AlignRight))

	for _, row := range report.Rows {
		table.AddRow(row.PeriodStart, row.LinkedAccount, row.Service, row.Amount)
	}

	if _, err := fmt.Fprintf(out, "Total: %s\n", report.Total.StringFixed(5)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out, table.Render())
	return err
}

func renderSeparated(report entity.Report, comma rune, out, diag io.Writer) error {
	writer := csv.NewWriter(out)
	writer.Comma = comma

	if err := writer.Write(headerFields); err != nil {
		return fmt.Errorf("error writing report header: %w", err)
	}
	for _, row := range report.Rows {
		record := []string{row.PeriodStart, row.LinkedAccount, row.Service, row.Amount}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("error writing report row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("error flushing report: %w", err)
	}

	_, err := fmt.Fprintf(diag, "Total: %s\n", report.Total.StringFixed(5))
	return err
}
