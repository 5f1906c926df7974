package repository

import (
	"context"

	"github.com/diillson/aws-cost-report-go/internal/domain/entity"
)

// CostRepository defines the AWS interactions needed to build a cost report.
type CostRepository interface {
	// Profile Operations
	GetAWSProfiles() []string
	GetAccountID(ctx context.Context, profile string) (string, error)

	// Cost Operations
	StreamCostRecords(ctx context.Context, query entity.CostQuery) (CostRecordStream, error)
}

// CostRecordStream is a pull iterator over cost records. Records are produced
// lazily: Scan may block on network I/O while a new page is fetched. After Scan
// returns false, Err reports whether the stream stopped on a fatal error or
// simply ran out of records.
//
//	for stream.Scan(ctx) {
//	    rec := stream.Record()
//	    ...
//	}
//	if err := stream.Err(); err != nil { ... }
type CostRecordStream interface {
	Scan(ctx context.Context) bool
	Record() entity.CostRecord
	Err() error
}
