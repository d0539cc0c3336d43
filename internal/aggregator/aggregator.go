// Package aggregator is the status aggregation and health-scoring engine
// for the test-fixing agent swarm. Each cycle it re-reads every agent's
// status, progress, and log files from the shared communication directory,
// derives per-agent reports, rolls them up into a single aggregate
// snapshot, and overwrites aggregate-status.json.
//
// The swarm is purely file-based and best-effort: there is no delivery,
// ordering, or atomicity guarantee on the input files, and the aggregator
// keeps no cross-cycle state beyond what it re-derives from them.
package aggregator

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/farmstand/swarmstatus/internal/compliance"
	"github.com/farmstand/swarmstatus/internal/config"
	"github.com/farmstand/swarmstatus/internal/types"
)

// Aggregator produces one consistent AggregateReport per cycle from
// independently-written, possibly stale or missing per-agent artifacts.
type Aggregator struct {
	cfg *config.Config

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// New creates an Aggregator for the given configuration.
func New(cfg *config.Config) *Aggregator {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Aggregator{
		cfg: cfg,
		now: time.Now,
	}
}

// Aggregate runs one full cycle: collect every configured agent, roll up
// the cross-agent summary, and overwrite the aggregate snapshot. A single
// agent's unreadable status file degrades only that agent's report; the
// only returned error is a failed snapshot write, which must not be
// swallowed (a silently missing output file is a debugging trap).
func (a *Aggregator) Aggregate() (*types.AggregateReport, error) {
	report := a.Collect()
	if err := a.writeSnapshot(report); err != nil {
		return nil, err
	}
	return report, nil
}

// Collect builds the aggregate report in memory without writing it.
func (a *Aggregator) Collect() *types.AggregateReport {
	now := a.now()

	agents := make(map[string]*types.AgentReport)
	roster := a.cfg.Agents()
	for _, name := range roster {
		agents[name] = a.collectAgent(name, now)
	}

	ordered := make([]*types.AgentReport, 0, len(roster))
	for _, name := range roster {
		ordered = append(ordered, agents[name])
	}

	return &types.AggregateReport{
		Timestamp:       now.UTC().Format(time.RFC3339),
		OverallHealth:   OverallHealth(ordered),
		OverallProgress: overallProgress(ordered),
		Agents:          agents,
		Summary:         a.buildSummary(ordered),
		Phases:          a.buildPhases(agents),
		Alerts:          a.buildAlerts(roster, agents),
		Recommendations: a.buildRecommendations(roster, agents),
	}
}

// collectAgent derives one agent's report. It never fails: a read or parse
// problem yields an error placeholder for that agent only.
func (a *Aggregator) collectAgent(name string, now time.Time) *types.AgentReport {
	status, err := a.readStatus(name)
	if err != nil {
		return &types.AgentReport{
			Status:            "error",
			Error:             err.Error(),
			ModifiedFiles:     []string{},
			RecentErrors:      []string{},
			PatternCompliance: types.PatternCompliance{Violations: []string{}},
			Progress:          0,
			Health:            types.HealthUnknown,
			AgentType:         a.cfg.AgentType(name),
		}
	}

	passed, passRate := a.testMetrics(status)
	active := a.isActive(status, now)

	files := status.FilesModified
	if files == nil {
		files = []string{}
	}
	errs := status.Errors
	if errs == nil {
		errs = []string{}
	}

	reported := status.Status
	if reported == "" {
		reported = "not-started"
	}

	return &types.AgentReport{
		Status:            reported,
		LastUpdate:        status.LastUpdate,
		Heartbeat:         status.Heartbeat,
		StartTime:         status.StartTime,
		FilesModified:     len(files),
		ModifiedFiles:     files,
		TestsPass:         passed,
		TestPassRate:      passRate,
		ErrorCount:        len(errs),
		RecentErrors:      lastN(errs, 5),
		PatternCompliance: a.scanLog(name),
		Progress:          a.progress(status, passed, active, now),
		Health:            a.health(status, now),
		LastTool:          status.LastTool,
		IsActive:          active,
		AgentType:         a.cfg.AgentType(name),
		ProgressNote:      a.readProgressNote(name),
	}
}

// readStatus loads status/<agent>.json. A missing file is not an error and
// reads as an empty status; a read or parse failure is returned so the
// caller can degrade this one agent.
func (a *Aggregator) readStatus(name string) (*types.AgentStatus, error) {
	data, err := os.ReadFile(a.cfg.StatusPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return &types.AgentStatus{}, nil
		}
		return nil, fmt.Errorf("reading status: %w", err)
	}

	var status types.AgentStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("parsing status: %w", err)
	}
	return &status, nil
}

// scanLog runs the compliance checks over logs/<agent>.log. An absent or
// unreadable log reads as empty text: no marker, no violations.
func (a *Aggregator) scanLog(name string) types.PatternCompliance {
	data, err := os.ReadFile(a.cfg.LogPath(name))
	if err != nil {
		return compliance.Scan("")
	}
	return compliance.Scan(string(data))
}

// readProgressNote returns the latest non-empty line of the agent's
// progress markdown. The file is display-only and never parsed for
// metrics.
func (a *Aggregator) readProgressNote(name string) string {
	data, err := os.ReadFile(a.cfg.ProgressPath(name))
	if err != nil {
		return ""
	}
	lines := strings.Split(string(data), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// writeSnapshot overwrites the aggregate file with the pretty-printed
// report. This is the sole persisted state; no history is kept.
func (a *Aggregator) writeSnapshot(report *types.AggregateReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling aggregate report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(a.cfg.AggregatePath(), data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", a.cfg.AggregatePath(), err)
	}
	return nil
}

// lastN returns the trailing n entries of items (all of them when fewer).
func lastN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}

// parseTime parses an agent-reported ISO-8601 timestamp. Agents write
// toISOString()-style values; anything unparseable is treated as absent.
func parseTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
