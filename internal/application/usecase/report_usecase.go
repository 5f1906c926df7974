package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/diillson/aws-cost-report-go/internal/application/aggregate"
	"github.com/diillson/aws-cost-report-go/internal/domain/entity"
	"github.com/diillson/aws-cost-report-go/internal/domain/repository"
	"github.com/diillson/aws-cost-report-go/internal/shared/dates"
	"github.com/diillson/aws-cost-report-go/internal/shared/types"
)

const (
	defaultThreshold = "0.00001"
	defaultLimit     = 1000
)

// ReportUseCase drives one report invocation: resolve options, preflight
// credentials, stream records through the collector, render.
type ReportUseCase struct {
	costRepo   repository.CostRepository
	renderRepo repository.RenderRepository
	configRepo repository.ConfigRepository
	console    types.ConsoleInterface

	out  io.Writer
	diag io.Writer
	now  func() time.Time
}

// NewReportUseCase creates a new report use case.
func NewReportUseCase(
	costRepo repository.CostRepository,
	renderRepo repository.RenderRepository,
	configRepo repository.ConfigRepository,
	console types.ConsoleInterface,
) *ReportUseCase {
	return &ReportUseCase{
		costRepo:   costRepo,
		renderRepo: renderRepo,
		configRepo: configRepo,
		console:    console,
		out:        os.Stdout,
		diag:       os.Stderr,
		now:        time.Now,
	}
}

// reportOptions is the fully resolved, validated form of CLIArgs.
type reportOptions struct {
	profile   string
	start     time.Time
	end       time.Time
	sort      bool
	output    types.OutputFormat
	threshold decimal.Decimal
	limit     int
}

// RunReport executa o relatório de custos com os argumentos fornecidos.
func (uc *ReportUseCase) RunReport(ctx context.Context, args *types.CLIArgs) error {
	opts, err := uc.resolveOptions(args)
	if err != nil {
		return err
	}

	if opts.profile != "" {
		profiles := uc.costRepo.GetAWSProfiles()
		if !lo.Contains(profiles, opts.profile) {
			return fmt.Errorf("%w: %s", types.ErrUnknownProfile, opts.profile)
		}
	}

	// Credential preflight: fail before any Cost Explorer call so credential
	// problems surface as such, not as a mid-pagination API error.
	accountID, err := uc.costRepo.GetAccountID(ctx, opts.profile)
	if err != nil {
		return err
	}
	uc.console.LogInfo("Fetching cost and usage for account %s (%s to %s)...",
		accountID, dates.Format(opts.start), dates.Format(opts.end))

	stream, err := uc.costRepo.StreamCostRecords(ctx, entity.CostQuery{
		Profile:   opts.profile,
		Start:     opts.start,
		End:       opts.end,
		Threshold: opts.threshold,
	})
	if err != nil {
		return err
	}

	collector := aggregate.NewCollector(opts.limit, opts.sort)
	for stream.Scan(ctx) {
		collector.Add(stream.Record())
	}
	if err := stream.Err(); err != nil {
		return err
	}

	report := collector.Report()
	if report.Truncated {
		uc.console.LogWarning("Results truncated to the top %d rows by amount; the total still includes the discarded records", opts.limit)
	}

	return uc.renderRepo.Render(report, opts.output, uc.out, uc.diag)
}

// resolveOptions merges the config file under the flags, applies defaults and
// validates everything that can be validated without touching the network.
func (uc *ReportUseCase) resolveOptions(args *types.CLIArgs) (reportOptions, error) {
	merged := *args
	if merged.ConfigFile != "" {
		cfg, err := uc.configRepo.LoadConfigFile(merged.ConfigFile)
		if err != nil {
			return reportOptions{}, err
		}
		applyConfig(&merged, cfg)
	}

	if merged.Output == "" {
		merged.Output = types.OutputTable
	}
	if merged.Threshold == "" {
		merged.Threshold = defaultThreshold
	}
	if merged.Limit == 0 {
		merged.Limit = defaultLimit
	}

	if !merged.Output.Valid() {
		return reportOptions{}, fmt.Errorf("%w: got %q", types.ErrInvalidOutput, merged.Output)
	}
	threshold, err := decimal.NewFromString(merged.Threshold)
	if err != nil {
		return reportOptions{}, fmt.Errorf("%w: got %q", types.ErrInvalidThreshold, merged.Threshold)
	}
	if merged.Limit < 1 {
		return reportOptions{}, fmt.Errorf("limit must be at least 1, got %d", merged.Limit)
	}

	start, end, err := dates.ResolveRange(merged.Start, merged.End, uc.now())
	if err != nil {
		return reportOptions{}, err
	}

	return reportOptions{
		profile:   merged.Profile,
		start:     start,
		end:       end,
		sort:      lo.FromPtrOr(merged.Sort, true),
		output:    merged.Output,
		threshold: threshold,
		limit:     merged.Limit,
	}, nil
}

// applyConfig fills in args fields the command line left unset.
func applyConfig(args *types.CLIArgs, cfg *types.Config) {
	if args.Profile == "" {
		args.Profile = cfg.Profile
	}
	if args.Start == "" {
		args.Start = cfg.Start
	}
	if args.End == "" {
		args.End = cfg.End
	}
	if args.Sort == nil {
		args.Sort = cfg.Sort
	}
	if args.Output == "" {
		args.Output = types.OutputFormat(cfg.Output)
	}
	if args.Threshold == "" {
		args.Threshold = cfg.Threshold
	}
	if args.Limit == 0 {
		args.Limit = cfg.Limit
	}
}
