package aggregator

import (
	"fmt"
	"math"
	"strings"

	"github.com/farmstand/swarmstatus/internal/types"
)

// OverallHealth classifies a set of agent reports with a priority-ordered
// scan. It is a pure function so the same algorithm serves both the whole
// roster and each phase subset.
func OverallHealth(reports []*types.AgentReport) types.OverallHealth {
	anyStaleOrDegraded := false
	anyUnknown := false
	allCompleted := true

	for _, r := range reports {
		switch r.Health {
		case types.HealthFailed:
			return types.OverallCritical
		case types.HealthStale, types.HealthDegraded:
			anyStaleOrDegraded = true
		case types.HealthUnknown:
			anyUnknown = true
		}
		if r.Health != types.HealthCompleted {
			allCompleted = false
		}
	}

	for _, r := range reports {
		if r.Health == types.HealthUnhealthy {
			return types.OverallUnhealthy
		}
	}
	if anyStaleOrDegraded {
		return types.OverallDegraded
	}
	if allCompleted {
		return types.OverallCompleted
	}
	if anyUnknown {
		return types.OverallUncertain
	}
	return types.OverallHealthy
}

// overallProgress is the rounded mean progress across agents, excluding
// failed agents (their -1 sentinel would drag the average arbitrarily).
func overallProgress(reports []*types.AgentReport) int {
	sum, count := 0, 0
	for _, r := range reports {
		if r.Progress >= 0 {
			sum += r.Progress
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(count)))
}

func (a *Aggregator) buildSummary(reports []*types.AgentReport) types.Summary {
	s := types.Summary{TotalAgents: len(reports)}

	rateSum, rateCount := 0, 0
	for _, r := range reports {
		switch r.Status {
		case "completed":
			s.Completed++
		case "running", "active":
			s.Running++
		case "failed":
			s.Failed++
		case "not-started":
			s.NotStarted++
		}

		s.TotalTestsPass += r.TestsPass
		if r.Error == "" {
			rateSum += r.TestPassRate
			rateCount++
		}

		if r.ErrorCount > 0 || r.Error != "" {
			s.AgentsWithErrors++
		}
		if r.PatternCompliance.UsesSimplifiedMock && !r.PatternCompliance.HasViolations {
			s.CompliantAgents++
		}
		if r.PatternCompliance.HasViolations {
			s.AgentsWithViolations++
		}
		if r.IsActive {
			s.ActiveAgents++
		}
		if r.Health == types.HealthStale {
			s.StaleAgents++
		}
	}

	if rateCount > 0 {
		s.AverageTestPassRate = int(math.Round(float64(rateSum) / float64(rateCount)))
	}
	return s
}

// buildPhases summarizes each configured phase grouping. The per-phase
// health reuses the roster-wide algorithm on the subset. The mean divides
// by the phase size without a guard; phases are configured non-empty.
func (a *Aggregator) buildPhases(agents map[string]*types.AgentReport) map[string]*types.PhaseReport {
	phases := make(map[string]*types.PhaseReport, len(a.cfg.Phases))
	for _, phase := range a.cfg.Phases {
		members := make([]*types.AgentReport, 0, len(phase.Agents))
		for _, name := range phase.Agents {
			members = append(members, agents[name])
		}

		completed := 0
		sum := 0
		for _, m := range members {
			if m.Status == "completed" {
				completed++
			}
			sum += m.Progress
		}

		phases[phase.Name] = &types.PhaseReport{
			Completed: completed,
			Total:     len(members),
			Progress:  int(math.Round(float64(sum) / float64(len(members)))),
			Health:    OverallHealth(members),
		}
	}
	return phases
}

// buildAlerts emits one alert per agent per triggered condition, in roster
// order. The low-pass-rate boundary is strict: exactly zero means no test
// visibility and raises nothing, and the threshold itself does not alert.
func (a *Aggregator) buildAlerts(roster []string, agents map[string]*types.AgentReport) []types.Alert {
	t := a.cfg.Thresholds
	alerts := []types.Alert{}

	for _, name := range roster {
		r := agents[name]

		if r.Health == types.HealthStale {
			alerts = append(alerts, types.Alert{
				Level:   types.AlertWarning,
				Agent:   name,
				Message: "Heartbeat is stale; agent may be hung or dead",
			})
		}
		if r.Health == types.HealthFailed {
			alerts = append(alerts, types.Alert{
				Level:   types.AlertCritical,
				Agent:   name,
				Message: "Agent reported failure",
			})
		}
		if r.PatternCompliance.HasViolations {
			alerts = append(alerts, types.Alert{
				Level:   types.AlertCritical,
				Agent:   name,
				Message: "Mock pattern violations: " + strings.Join(r.PatternCompliance.Violations, "; "),
			})
		}
		if r.ErrorCount > t.ErrorsUnhealthy {
			alerts = append(alerts, types.Alert{
				Level:   types.AlertWarning,
				Agent:   name,
				Message: fmt.Sprintf("High error count: %d errors reported", r.ErrorCount),
			})
		}
		if r.TestPassRate > 0 && r.TestPassRate < t.LowPassRate {
			alerts = append(alerts, types.Alert{
				Level:   types.AlertWarning,
				Agent:   name,
				Message: fmt.Sprintf("Low test pass rate: %d%%", r.TestPassRate),
			})
		}
	}
	return alerts
}

// buildRecommendations groups agents by condition and emits one summary
// string per non-empty group.
func (a *Aggregator) buildRecommendations(roster []string, agents map[string]*types.AgentReport) []string {
	t := a.cfg.Thresholds

	var stale, violating, lowRate []string
	for _, name := range roster {
		r := agents[name]
		if r.Health == types.HealthStale {
			stale = append(stale, name)
		}
		if r.PatternCompliance.HasViolations {
			violating = append(violating, name)
		}
		if r.TestPassRate > 0 && r.TestPassRate < t.LowPassRate {
			lowRate = append(lowRate, name)
		}
	}

	recs := []string{}
	if len(stale) > 0 {
		recs = append(recs, "Check on stale agents (no recent heartbeat): "+strings.Join(stale, ", "))
	}
	if len(violating) > 0 {
		recs = append(recs, "Review mock usage and switch to createSupabaseMock: "+strings.Join(violating, ", "))
	}
	if len(lowRate) > 0 {
		recs = append(recs, "Stabilize failing tests for: "+strings.Join(lowRate, ", "))
	}
	return recs
}
