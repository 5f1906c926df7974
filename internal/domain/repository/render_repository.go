package repository

import (
	"io"

	"github.com/diillson/aws-cost-report-go/internal/domain/entity"
	"github.com/diillson/aws-cost-report-go/internal/shared/types"
)

// RenderRepository turns a finished report into one of the textual encodings.
// Data rows go to out; for csv and tsv the total goes to diag so the data
// stream stays parseable, while the table format prints it on out.
type RenderRepository interface {
	Render(report entity.Report, format types.OutputFormat, out, diag io.Writer) error
}
