package aggregator

import (
	"context"
	"time"

	"github.com/farmstand/swarmstatus/internal/types"
)

// Runner drives the aggregator on a fixed interval. Each cycle is run to
// completion before shutdown is honored, so a cancellation never leaves a
// half-written snapshot behind.
type Runner struct {
	agg      *Aggregator
	interval time.Duration

	// onReport is called after every successful cycle with the in-memory
	// report, for terminal rendering. May be nil.
	onReport func(*types.AggregateReport)
}

// NewRunner creates a Runner. A non-positive interval falls back to the
// aggregator's configured interval.
func NewRunner(agg *Aggregator, interval time.Duration, onReport func(*types.AggregateReport)) *Runner {
	if interval <= 0 {
		interval = agg.cfg.Interval
	}
	return &Runner{
		agg:      agg,
		interval: interval,
		onReport: onReport,
	}
}

// Run aggregates immediately and then on every tick until ctx is
// cancelled. It returns nil on cancellation; a failed snapshot write
// aborts the loop with its error. Bad agent reads never abort anything,
// the next scheduled cycle is their retry.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		report, err := r.agg.Aggregate()
		if err != nil {
			return err
		}
		if r.onReport != nil {
			r.onReport(report)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
