// Package render draws the live terminal dashboard for the swarm status
// aggregator.
package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/farmstand/swarmstatus/internal/config"
	"github.com/farmstand/swarmstatus/internal/types"
)

// ClearScreen wipes the terminal and homes the cursor before a redraw.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[2J\033[H")
}

// Dashboard renders one snapshot as the human-readable dashboard. Phases
// and agents render in roster order from cfg; the alerts and
// recommendations sections only appear when non-empty.
func Dashboard(w io.Writer, report *types.AggregateReport, cfg *config.Config) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Fprintf(w, "%s\n", cyan("=== Farmstand Agent Swarm ==="))
	fmt.Fprintf(w, "%s\n\n", gray(report.Timestamp))

	healthColor := overallColor(report.OverallHealth)
	fmt.Fprintf(w, "Overall:    %s  (%d%% complete)\n",
		healthColor(string(report.OverallHealth)), report.OverallProgress)
	fmt.Fprintf(w, "Active:     %d/%d agents\n",
		report.Summary.ActiveAgents, report.Summary.TotalAgents)
	fmt.Fprintf(w, "Tests:      %d passing, %d%% average pass rate\n",
		report.Summary.TotalTestsPass, report.Summary.AverageTestPassRate)
	fmt.Fprintf(w, "Compliance: %d/%d agents on createSupabaseMock\n",
		report.Summary.CompliantAgents, report.Summary.TotalAgents)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s\n", yellow("Phases:"))
	for _, phase := range cfg.Phases {
		p, ok := report.Phases[phase.Name]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %-12s %d/%d complete, %d%%, %s\n",
			phase.Name, p.Completed, p.Total, p.Progress, overallColor(p.Health)(string(p.Health)))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s\n", yellow("Agents:"))
	for _, name := range cfg.Agents() {
		agent, ok := report.Agents[name]
		if !ok {
			continue
		}
		icon, paint := healthIcon(agent.Health)
		progress := fmt.Sprintf("%d%%", agent.Progress)
		if agent.Progress == types.ProgressFailed {
			progress = "--"
		}
		fmt.Fprintf(w, "  %s %-18s %-12s %4s  %s\n",
			paint(icon), name, agent.Status, progress, paint(string(agent.Health)))
		if agent.ProgressNote != "" {
			fmt.Fprintf(w, "      %s\n", gray(agent.ProgressNote))
		}
	}

	if len(report.Alerts) > 0 {
		fmt.Fprintf(w, "\n%s\n", red("Alerts:"))
		for _, alert := range report.Alerts {
			paint := yellow
			if alert.Level == types.AlertCritical {
				paint = red
			}
			fmt.Fprintf(w, "  %s [%s] %s\n", paint(string(alert.Level)), alert.Agent, alert.Message)
		}
	}

	if len(report.Recommendations) > 0 {
		fmt.Fprintf(w, "\n%s\n", yellow("Recommendations:"))
		for _, rec := range report.Recommendations {
			fmt.Fprintf(w, "  - %s\n", rec)
		}
	}
}

// healthIcon maps an agent health level to a status icon and color.
func healthIcon(health types.HealthLevel) (string, func(a ...interface{}) string) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	switch health {
	case types.HealthHealthy, types.HealthCompleted:
		return "●", green
	case types.HealthSlow, types.HealthDegraded, types.HealthStale:
		return "⚠", yellow
	case types.HealthFailed, types.HealthUnhealthy:
		return "✗", red
	case types.HealthPending:
		return "○", gray
	default:
		return "?", gray
	}
}

// overallColor maps a roster or phase health to a color.
func overallColor(health types.OverallHealth) func(a ...interface{}) string {
	switch health {
	case types.OverallHealthy, types.OverallCompleted:
		return color.New(color.FgGreen).SprintFunc()
	case types.OverallDegraded, types.OverallUncertain:
		return color.New(color.FgYellow).SprintFunc()
	case types.OverallUnhealthy, types.OverallCritical:
		return color.New(color.FgRed).SprintFunc()
	default:
		return color.New(color.FgHiBlack).SprintFunc()
	}
}
