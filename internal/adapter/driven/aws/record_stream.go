package aws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/smithy-go"
	"github.com/shopspring/decimal"

	"github.com/diillson/aws-cost-report-go/internal/domain/entity"
	"github.com/diillson/aws-cost-report-go/internal/shared/types"
)

const (
	// maxPages is a hard ceiling on pagination; past it the report is emitted
	// with a warning instead of looping on a runaway token.
	maxPages = 50

	// maxRetries bounds how often a single throttled page is retried.
	maxRetries = 3

	// progressEvery controls how often a progress notice is logged.
	progressEvery = 1000

	defaultRetryBaseDelay = time.Second
)

// costRecordStream pages through GetCostAndUsage results, yielding one record
// per (time period, linked account, service) group. Records below the threshold
// are dropped before they are yielded, so they never reach the total either.
//
// Throttling is retried per page with exponential backoff (1s, 2s, 4s); when
// retries exhaust, pagination stops with a warning and the records yielded so
// far remain valid. Any other API error ends the stream fatally via Err.
type costRecordStream struct {
	client    CostExplorerAPI
	input     *costexplorer.GetCostAndUsageInput
	threshold decimal.Decimal
	console   types.ConsoleInterface

	retryBaseDelay time.Duration

	buffer    []entity.CostRecord
	pos       int
	current   entity.CostRecord
	nextToken *string
	pages     int
	examined  int
	done      bool
	err       error
}

func newCostRecordStream(client CostExplorerAPI, input *costexplorer.GetCostAndUsageInput, threshold decimal.Decimal, console types.ConsoleInterface) *costRecordStream {
	return &costRecordStream{
		client:         client,
		input:          input,
		threshold:      threshold,
		console:        console,
		retryBaseDelay: defaultRetryBaseDelay,
	}
}

// Scan advances to the next record, fetching pages as needed. It returns false
// when the stream is exhausted or a fatal error occurred; check Err to tell
// the two apart.
func (s *costRecordStream) Scan(ctx context.Context) bool {
	for {
		if s.pos < len(s.buffer) {
			s.current = s.buffer[s.pos]
			s.pos++
			return true
		}
		if s.done {
			return false
		}
		if err := s.nextPage(ctx); err != nil {
			s.err = err
			s.done = true
			return false
		}
	}
}

// Record returns the record produced by the last successful Scan.
func (s *costRecordStream) Record() entity.CostRecord {
	return s.current
}

// Err returns the fatal error that stopped the stream, if any. Exhausted
// throttling retries are not fatal and are reported as a warning instead.
func (s *costRecordStream) Err() error {
	return s.err
}

func (s *costRecordStream) nextPage(ctx context.Context) error {
	if s.pages >= maxPages {
		s.console.LogWarning("Reached the %d page limit; results may be incomplete", maxPages)
		s.done = true
		return nil
	}

	s.input.NextPageToken = s.nextToken

	var out *costexplorer.GetCostAndUsageOutput
	for attempt := 0; ; attempt++ {
		var err error
		out, err = s.client.GetCostAndUsage(ctx, s.input)
		if err == nil {
			break
		}
		if !isThrottlingError(err) {
			return fmt.Errorf("cost and usage query failed: %w", err)
		}
		if attempt >= maxRetries {
			s.console.LogWarning("Throttled %d times on page %d; stopping pagination, results may be incomplete", attempt+1, s.pages+1)
			s.done = true
			return nil
		}

		delay := s.retryBaseDelay * time.Duration(1<<uint(attempt))
		s.console.LogWarning("Cost Explorer throttled the request; retrying in %s (attempt %d/%d)", delay, attempt+1, maxRetries)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	s.pages++
	s.buffer = s.buffer[:0]
	s.pos = 0

	for _, period := range out.ResultsByTime {
		if period.TimePeriod == nil || period.TimePeriod.Start == nil {
			continue
		}
		start := *period.TimePeriod.Start

		for _, group := range period.Groups {
			s.examined++
			if s.examined%progressEvery == 0 {
				s.console.LogInfo("Processed %d cost records so far...", s.examined)
			}

			if len(group.Keys) < 2 {
				continue
			}
			metric, ok := group.Metrics["UnblendedCost"]
			if !ok || metric.Amount == nil {
				continue
			}
			amount, err := decimal.NewFromString(*metric.Amount)
			if err != nil {
				continue
			}
			if amount.LessThan(s.threshold) {
				continue
			}

			s.buffer = append(s.buffer, entity.CostRecord{
				PeriodStart:   start,
				LinkedAccount: group.Keys[0],
				Service:       group.Keys[1],
				Amount:        amount,
			})
		}
	}

	s.nextToken = out.NextPageToken
	if s.nextToken == nil {
		s.done = true
	}
	return nil
}

// isThrottlingError reports whether the error is a rate-limit signal that is
// worth retrying.
func isThrottlingError(err error) bool {
	var limitExceeded *ceTypes.LimitExceededException
	if errors.As(err, &limitExceeded) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "Throttling", "ThrottlingException", "TooManyRequestsException", "RequestLimitExceeded", "LimitExceededException":
			return true
		}
	}
	return false
}
