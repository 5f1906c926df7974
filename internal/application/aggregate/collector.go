package aggregate

import (
	"container/heap"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/diillson/aws-cost-report-go/internal/domain/entity"
)

// Collector consumes a cost record stream exactly once and produces the report
// rows plus the running total. In sort mode it keeps at most limit records in a
// min-heap keyed by amount, so memory stays bounded no matter how many records
// the stream yields; without sorting it keeps every record in arrival order.
//
// The total always covers every record added, including records later displaced
// from the heap. Tie order among equal amounts follows heap order and is
// unspecified.
type Collector struct {
	limit      int
	sortByCost bool

	total decimal.Decimal
	seen  int

	rows []entity.CostRecord // arrival order, no-sort mode
	min  recordHeap          // bounded min-heap, sort mode
}

// NewCollector creates a collector. limit only applies when sortByCost is set.
func NewCollector(limit int, sortByCost bool) *Collector {
	return &Collector{
		limit:      limit,
		sortByCost: sortByCost,
		total:      decimal.Zero,
	}
}

// Add feeds one record into the aggregation.
func (c *Collector) Add(rec entity.CostRecord) {
	c.total = c.total.Add(rec.Amount)
	c.seen++

	if !c.sortByCost {
		c.rows = append(c.rows, rec)
		return
	}

	if c.min.Len() < c.limit {
		heap.Push(&c.min, rec)
		return
	}
	if c.limit > 0 && rec.Amount.GreaterThan(c.min[0].Amount) {
		c.min[0] = rec
		heap.Fix(&c.min, 0)
	}
}

// Truncated reports whether more qualifying records were seen than the report
// will display.
func (c *Collector) Truncated() bool {
	return c.sortByCost && c.seen > c.limit
}

// Report drains the collector. Sort mode yields a strict descending order by
// amount; otherwise rows keep arrival order. The collector must not be reused
// after calling Report.
func (c *Collector) Report() entity.Report {
	selected := c.rows
	if c.sortByCost {
		// Popping the min-heap yields ascending amounts; fill back to front.
		selected = make([]entity.CostRecord, c.min.Len())
		for i := len(selected) - 1; i >= 0; i-- {
			selected[i] = heap.Pop(&c.min).(entity.CostRecord)
		}
	}

	return entity.Report{
		Rows:      lo.Map(selected, func(r entity.CostRecord, _ int) entity.ReportRow { return r.Row() }),
		Total:     c.total,
		Truncated: c.Truncated(),
	}
}

// recordHeap is a min-heap of cost records keyed by amount.
type recordHeap []entity.CostRecord

func (h recordHeap) Len() int           { return len(h) }
func (h recordHeap) Less(i, j int) bool { return h[i].Amount.LessThan(h[j].Amount) }
func (h recordHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *recordHeap) Push(x interface{}) { *h = append(*h, x.(entity.CostRecord)) }

func (h *recordHeap) Pop() interface{} {
	old := *h
	n := len(old)
	rec := old[n-1]
	*h = old[:n-1]
	return rec
}
