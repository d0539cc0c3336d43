package aggregator

import (
	"math"
	"regexp"
	"time"

	"github.com/farmstand/swarmstatus/internal/types"
)

// passCountPattern extracts an "X/Y" pass count from a free-text test
// summary, e.g. "15/20 tests passing".
var passCountPattern = regexp.MustCompile(`(\d+)\s*/\s*(\d+)`)

// testMetrics derives the passed-test count and pass-rate percentage.
//
// A parseable "X/Y" summary wins; otherwise a bare testsPass count is
// assumed to mean all reported tests pass (no visibility into failures
// without a summary). These are self-reported numbers, not verified facts.
func (a *Aggregator) testMetrics(status *types.AgentStatus) (passed, passRate int) {
	if m := passCountPattern.FindStringSubmatch(status.TestSummary); m != nil {
		passed = atoiDigits(m[1])
		total := atoiDigits(m[2])
		if total > 0 {
			passRate = int(math.Round(float64(passed) / float64(total) * 100))
		}
		return passed, passRate
	}

	if status.TestsPass > 0 {
		return status.TestsPass, 100
	}
	return 0, 0
}

// isActive reports whether lastUpdate is recent enough for the agent to
// count as active. Absence of lastUpdate means inactive unconditionally.
// This clock is independent of the heartbeat used for health staleness;
// the two may disagree.
func (a *Aggregator) isActive(status *types.AgentStatus, now time.Time) bool {
	updated, ok := parseTime(status.LastUpdate)
	if !ok {
		return false
	}
	return now.Sub(updated) < a.cfg.Thresholds.ActiveWindow
}

// progress computes the agent's 0-100 progress estimate.
//
// Terminal statuses short-circuit: completed is exactly 100, failed is the
// -1 sentinel, not-started is 0. Everything else accumulates weighted
// signals (modified files, passing tests, elapsed wall clock, an activity
// bonus), each individually capped, with the sum clamped so that no
// in-flight agent can reach 100.
func (a *Aggregator) progress(status *types.AgentStatus, passed int, active bool, now time.Time) int {
	switch status.Status {
	case "completed":
		return 100
	case "failed":
		return types.ProgressFailed
	case "not-started", "":
		return 0
	}

	w := a.cfg.Weights
	total := 0

	total += capped(len(status.FilesModified)*w.PointsPerFile, w.FileCap)
	total += capped(passed*w.PointsPerTest, w.TestCap)

	if started, ok := parseTime(status.StartTime); ok {
		tenMinutes := int(now.Sub(started) / (10 * time.Minute))
		if tenMinutes > 0 {
			total += capped(tenMinutes*w.PointsPerTenMinutes, w.TimeCap)
		}
	}

	if active {
		total += w.ActiveBonus
	}

	if total < 0 {
		return 0
	}
	return capped(total, w.MaxInFlight)
}

// health classifies the agent. The checks are priority-ordered and the
// first match wins: heartbeat staleness is judged before error counts, so
// a stale agent reports stale even when it would otherwise look healthy.
func (a *Aggregator) health(status *types.AgentStatus, now time.Time) types.HealthLevel {
	t := a.cfg.Thresholds

	if beat, ok := parseTime(status.Heartbeat); ok {
		age := now.Sub(beat)
		if age > t.HeartbeatStale {
			return types.HealthStale
		}
		if age > t.HeartbeatSlow {
			return types.HealthSlow
		}
	} else if status.Status == "running" || status.Status == "active" {
		// Claims to be running but gives us no heartbeat to judge by.
		return types.HealthUnknown
	}

	if len(status.Errors) > t.ErrorsUnhealthy {
		return types.HealthUnhealthy
	}
	if len(status.Errors) > t.ErrorsDegraded {
		return types.HealthDegraded
	}

	switch status.Status {
	case "failed":
		return types.HealthFailed
	case "completed":
		return types.HealthCompleted
	case "not-started", "":
		return types.HealthPending
	}

	return types.HealthHealthy
}

func capped(value, limit int) int {
	if value > limit {
		return limit
	}
	return value
}

// atoiDigits converts a digits-only string (already regex-validated).
func atoiDigits(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
