package aggregate

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/aws-cost-report-go/internal/domain/entity"
)

func record(service string, amount string) entity.CostRecord {
	return entity.CostRecord{
		PeriodStart:   "2024-01-01",
		LinkedAccount: "111111111111",
		Service:       service,
		Amount:        decimal.RequireFromString(amount),
	}
}

func TestCollectorNoSortKeepsArrivalOrder(t *testing.T) {
	c := NewCollector(1000, false)
	c.Add(record("AmazonEC2", "12.5"))
	c.Add(record("AmazonS3", "0.25"))
	c.Add(record("AWSLambda", "3"))

	report := c.Report()
	require.Len(t, report.Rows, 3)
	assert.Equal(t, "AmazonEC2", report.Rows[0].Service)
	assert.Equal(t, "AmazonS3", report.Rows[1].Service)
	assert.Equal(t, "AWSLambda", report.Rows[2].Service)
	assert.Equal(t, "15.75", report.Total.String())
	assert.False(t, report.Truncated)
}

func TestCollectorSortDescending(t *testing.T) {
	c := NewCollector(1000, true)
	c.Add(record("AmazonS3", "0.25"))
	c.Add(record("AmazonEC2", "12.5"))
	c.Add(record("AWSLambda", "3"))

	report := c.Report()
	require.Len(t, report.Rows, 3)
	assert.Equal(t, "12.50000", report.Rows[0].Amount)
	assert.Equal(t, "3.00000", report.Rows[1].Amount)
	assert.Equal(t, "0.25000", report.Rows[2].Amount)
	assert.False(t, report.Truncated)
}

func TestCollectorTopKTruncation(t *testing.T) {
	c := NewCollector(3, true)
	amounts := []string{"5", "1", "9", "3", "7", "2"}
	for i, a := range amounts {
		c.Add(record(fmt.Sprintf("svc-%d", i), a))
	}

	report := c.Report()
	require.Len(t, report.Rows, 3)
	assert.True(t, report.Truncated)

	// The three retained rows are exactly the three largest amounts.
	assert.Equal(t, "9.00000", report.Rows[0].Amount)
	assert.Equal(t, "7.00000", report.Rows[1].Amount)
	assert.Equal(t, "5.00000", report.Rows[2].Amount)

	// The total still covers the discarded records.
	assert.Equal(t, "27", report.Total.String())
}

func TestCollectorTopKExactlyAtLimit(t *testing.T) {
	c := NewCollector(3, true)
	for i, a := range []string{"5", "1", "9"} {
		c.Add(record(fmt.Sprintf("svc-%d", i), a))
	}

	report := c.Report()
	require.Len(t, report.Rows, 3)
	assert.False(t, report.Truncated)
	assert.Equal(t, "9.00000", report.Rows[0].Amount)
	assert.Equal(t, "1.00000", report.Rows[2].Amount)
}

func TestCollectorTopKCorrectnessLargeInput(t *testing.T) {
	c := NewCollector(10, true)
	for i := 0; i < 500; i++ {
		// Amounts 0..499 in a scrambled order.
		c.Add(record(fmt.Sprintf("svc-%d", i), decimal.NewFromInt(int64((i*37)%500)).String()))
	}

	report := c.Report()
	require.Len(t, report.Rows, 10)
	assert.True(t, report.Truncated)

	// Top 10 of 0..499 is 499 down to 490.
	for i, row := range report.Rows {
		assert.Equal(t, decimal.NewFromInt(int64(499-i)).StringFixed(5), row.Amount)
	}
}

func TestCollectorIdempotentNoSort(t *testing.T) {
	build := func() entity.Report {
		c := NewCollector(1000, false)
		c.Add(record("AmazonEC2", "12.5"))
		c.Add(record("AmazonS3", "0.25"))
		return c.Report()
	}
	assert.Equal(t, build(), build())
}

func TestCollectorEmpty(t *testing.T) {
	report := NewCollector(1000, true).Report()
	assert.Empty(t, report.Rows)
	assert.True(t, report.Total.IsZero())
	assert.False(t, report.Truncated)
}

func TestCollectorAmountFormatting(t *testing.T) {
	c := NewCollector(1000, false)
	c.Add(record("AmazonEC2", "12.5"))
	report := c.Report()
	assert.Equal(t, "12.50000", report.Rows[0].Amount)
}
