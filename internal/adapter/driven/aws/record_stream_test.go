package aws

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/smithy-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/aws-cost-report-go/internal/domain/entity"
	"github.com/diillson/aws-cost-report-go/internal/shared/types"
)

type mockCostExplorerAPI struct {
	getCostAndUsageFunc func(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}

func (m *mockCostExplorerAPI) GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
	return m.getCostAndUsageFunc(ctx, params, optFns...)
}

// recordingConsole captures diagnostics so tests can assert on warnings.
type recordingConsole struct {
	infos    []string
	warnings []string
}

func (c *recordingConsole) Print(a ...interface{})                     {}
func (c *recordingConsole) Printf(format string, a ...interface{})     {}
func (c *recordingConsole) Println(a ...interface{})                   {}
func (c *recordingConsole) LogError(format string, a ...interface{})   {}
func (c *recordingConsole) LogSuccess(format string, a ...interface{}) {}
func (c *recordingConsole) CreateTable() types.TableInterface          { return nil }

func (c *recordingConsole) LogInfo(format string, a ...interface{}) {
	c.infos = append(c.infos, fmt.Sprintf(format, a...))
}

func (c *recordingConsole) LogWarning(format string, a ...interface{}) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, a...))
}

func (c *recordingConsole) hasWarning(substr string) bool {
	for _, w := range c.warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

func groupOf(account, service, amount string) ceTypes.Group {
	return ceTypes.Group{
		Keys: []string{account, service},
		Metrics: map[string]ceTypes.MetricValue{
			"UnblendedCost": {Amount: awssdk.String(amount), Unit: awssdk.String("USD")},
		},
	}
}

func pageOf(start string, groups ...ceTypes.Group) *costexplorer.GetCostAndUsageOutput {
	return &costexplorer.GetCostAndUsageOutput{
		ResultsByTime: []ceTypes.ResultByTime{
			{
				TimePeriod: &ceTypes.DateInterval{Start: awssdk.String(start), End: awssdk.String("2024-02-01")},
				Groups:     groups,
			},
		},
	}
}

func newTestStream(client CostExplorerAPI, threshold string, console *recordingConsole) *costRecordStream {
	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod:  &ceTypes.DateInterval{Start: awssdk.String("2024-01-01"), End: awssdk.String("2024-02-01")},
		Granularity: ceTypes.GranularityMonthly,
		Metrics:     []string{"UnblendedCost"},
	}
	s := newCostRecordStream(client, input, decimal.RequireFromString(threshold), console)
	s.retryBaseDelay = time.Millisecond
	return s
}

func drain(t *testing.T, s *costRecordStream) []entity.CostRecord {
	t.Helper()
	var records []entity.CostRecord
	for s.Scan(context.Background()) {
		records = append(records, s.Record())
	}
	return records
}

func TestStreamFollowsPaginationTokens(t *testing.T) {
	var seenTokens []*string
	mock := &mockCostExplorerAPI{
		getCostAndUsageFunc: func(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
			seenTokens = append(seenTokens, params.NextPageToken)
			if params.NextPageToken == nil {
				out := pageOf("2024-01-01", groupOf("111111111111", "AmazonEC2", "12.5"))
				out.NextPageToken = awssdk.String("page-2")
				return out, nil
			}
			return pageOf("2024-01-01", groupOf("111111111111", "AmazonS3", "3.25")), nil
		},
	}

	console := &recordingConsole{}
	s := newTestStream(mock, "0.00001", console)
	records := drain(t, s)

	require.NoError(t, s.Err())
	require.Len(t, records, 2)
	assert.Equal(t, "AmazonEC2", records[0].Service)
	assert.Equal(t, "AmazonS3", records[1].Service)

	require.Len(t, seenTokens, 2)
	assert.Nil(t, seenTokens[0])
	assert.Equal(t, "page-2", *seenTokens[1])
}

func TestStreamFiltersBelowThreshold(t *testing.T) {
	mock := &mockCostExplorerAPI{
		getCostAndUsageFunc: func(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
			return pageOf("2024-01-01",
				groupOf("111111111111", "AmazonEC2", "12.5"),
				groupOf("111111111111", "AmazonS3", "0.00000003"),
			), nil
		},
	}

	s := newTestStream(mock, "0.00001", &recordingConsole{})
	records := drain(t, s)

	require.NoError(t, s.Err())
	require.Len(t, records, 1)
	assert.Equal(t, "AmazonEC2", records[0].Service)
	assert.Equal(t, "12.5", records[0].Amount.String())
}

func TestStreamRetriesThrottlingThenSucceeds(t *testing.T) {
	calls := 0
	mock := &mockCostExplorerAPI{
		getCostAndUsageFunc: func(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
			calls++
			if calls <= 2 {
				return nil, &ceTypes.LimitExceededException{Message: awssdk.String("rate exceeded")}
			}
			return pageOf("2024-01-01", groupOf("111111111111", "AmazonEC2", "12.5")), nil
		},
	}

	console := &recordingConsole{}
	s := newTestStream(mock, "0.00001", console)
	records := drain(t, s)

	require.NoError(t, s.Err())
	require.Len(t, records, 1)
	assert.Equal(t, 3, calls)
	assert.False(t, console.hasWarning("stopping pagination"))
}

func TestStreamStopsWhenThrottlingExhausts(t *testing.T) {
	calls := 0
	mock := &mockCostExplorerAPI{
		getCostAndUsageFunc: func(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
			calls++
			if params.NextPageToken == nil {
				out := pageOf("2024-01-01", groupOf("111111111111", "AmazonEC2", "12.5"))
				out.NextPageToken = awssdk.String("page-2")
				return out, nil
			}
			return nil, &smithy.GenericAPIError{Code: "ThrottlingException", Message: "rate exceeded"}
		},
	}

	console := &recordingConsole{}
	s := newTestStream(mock, "0.00001", console)
	records := drain(t, s)

	// The first page's records still flow downstream; the failed page is
	// downgraded to a warning rather than an error.
	require.NoError(t, s.Err())
	require.Len(t, records, 1)
	assert.Equal(t, 1+maxRetries+1, calls)
	assert.True(t, console.hasWarning("stopping pagination"))
}

func TestStreamFatalOnNonThrottlingError(t *testing.T) {
	mock := &mockCostExplorerAPI{
		getCostAndUsageFunc: func(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
			return nil, &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "not authorized"}
		},
	}

	s := newTestStream(mock, "0.00001", &recordingConsole{})
	records := drain(t, s)

	assert.Empty(t, records)
	require.Error(t, s.Err())

	var apiErr smithy.APIError
	require.True(t, errors.As(s.Err(), &apiErr))
	assert.Equal(t, "AccessDeniedException", apiErr.ErrorCode())
}

func TestStreamRespectsPageCeiling(t *testing.T) {
	calls := 0
	mock := &mockCostExplorerAPI{
		getCostAndUsageFunc: func(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
			calls++
			out := pageOf("2024-01-01", groupOf("111111111111", "AmazonEC2", "1"))
			out.NextPageToken = awssdk.String("again")
			return out, nil
		},
	}

	console := &recordingConsole{}
	s := newTestStream(mock, "0.00001", console)
	records := drain(t, s)

	require.NoError(t, s.Err())
	assert.Equal(t, maxPages, calls)
	assert.Len(t, records, maxPages)
	assert.True(t, console.hasWarning("results may be incomplete"))
}

func TestStreamProgressNotices(t *testing.T) {
	groups := make([]ceTypes.Group, 0, progressEvery)
	for i := 0; i < progressEvery; i++ {
		groups = append(groups, groupOf("111111111111", fmt.Sprintf("svc-%d", i), "1"))
	}
	mock := &mockCostExplorerAPI{
		getCostAndUsageFunc: func(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
			return pageOf("2024-01-01", groups...), nil
		},
	}

	console := &recordingConsole{}
	s := newTestStream(mock, "0.00001", console)
	records := drain(t, s)

	require.Len(t, records, progressEvery)
	require.Len(t, console.infos, 1)
	assert.Contains(t, console.infos[0], "1000")
}

func TestIsThrottlingError(t *testing.T) {
	assert.True(t, isThrottlingError(&ceTypes.LimitExceededException{}))
	assert.True(t, isThrottlingError(&smithy.GenericAPIError{Code: "Throttling"}))
	assert.True(t, isThrottlingError(&smithy.GenericAPIError{Code: "TooManyRequestsException"}))
	assert.False(t, isThrottlingError(&smithy.GenericAPIError{Code: "ValidationException"}))
	assert.False(t, isThrottlingError(errors.New("boom")))
}
