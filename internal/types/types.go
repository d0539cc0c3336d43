// Package types defines the data model for the swarm status aggregator:
// raw agent-reported status files, the per-agent reports derived from them,
// and the consolidated aggregate snapshot written each cycle.
package types

// AgentStatus is the raw status document an agent writes to
// status/<agent>.json. Every field is optional and the file itself may be
// absent; agents are external processes and their output is best-effort
// self-reporting, not verified fact.
type AgentStatus struct {
	// Status is a free-form state string. Well-known values are
	// "not-started", "running", "active", "completed", and "failed";
	// anything else is tolerated and passed through.
	Status string `json:"status,omitempty"`

	// LastUpdate is when the agent last made meaningful progress (ISO-8601).
	LastUpdate string `json:"lastUpdate,omitempty"`

	// Heartbeat is the agent's "still alive" timestamp (ISO-8601). Distinct
	// from LastUpdate: an agent can be alive but not progressing.
	Heartbeat string `json:"heartbeat,omitempty"`

	// StartTime is when the agent started its run (ISO-8601).
	StartTime string `json:"startTime,omitempty"`

	// FilesModified lists the files the agent has edited so far.
	FilesModified []string `json:"filesModified,omitempty"`

	// TestsPass is the agent's self-reported passing test count.
	TestsPass int `json:"testsPass,omitempty"`

	// TestSummary is free text, optionally containing an "X/Y" pass count
	// (e.g. "15/20 tests passing").
	TestSummary string `json:"testSummary,omitempty"`

	// Errors is the agent's accumulated error descriptions.
	Errors []string `json:"errors,omitempty"`

	// LastTool names the most recent tool the agent invoked.
	LastTool string `json:"lastTool,omitempty"`
}

// HealthLevel classifies a single agent's health.
type HealthLevel string

const (
	// HealthHealthy means no problem indicators triggered.
	HealthHealthy HealthLevel = "healthy"

	// HealthSlow means the heartbeat is lagging but not yet stale.
	HealthSlow HealthLevel = "slow"

	// HealthStale means the heartbeat has not been refreshed within the
	// stale threshold, regardless of reported status.
	HealthStale HealthLevel = "stale"

	// HealthDegraded means the agent has accumulated a concerning number
	// of errors.
	HealthDegraded HealthLevel = "degraded"

	// HealthUnhealthy means the agent's error count is past the unhealthy
	// threshold.
	HealthUnhealthy HealthLevel = "unhealthy"

	// HealthFailed means the agent reported a failed status.
	HealthFailed HealthLevel = "failed"

	// HealthCompleted means the agent reported a completed status.
	HealthCompleted HealthLevel = "completed"

	// HealthPending means the agent has not started.
	HealthPending HealthLevel = "pending"

	// HealthUnknown means the agent claims to be running but provides no
	// heartbeat, so its health cannot be judged.
	HealthUnknown HealthLevel = "unknown"
)

// OverallHealth classifies a set of agents (the whole swarm or one phase).
type OverallHealth string

const (
	OverallHealthy   OverallHealth = "healthy"
	OverallDegraded  OverallHealth = "degraded"
	OverallUnhealthy OverallHealth = "unhealthy"
	OverallCritical  OverallHealth = "critical"
	OverallCompleted OverallHealth = "completed"
	OverallUncertain OverallHealth = "uncertain"
)

// AgentType is the phase grouping an agent belongs to.
type AgentType string

const (
	AgentFoundation  AgentType = "foundation"
	AgentExtension   AgentType = "extension"
	AgentIntegration AgentType = "integration"
	AgentUnknown     AgentType = "unknown"
)

// ProgressFailed is the progress sentinel for failed agents. Agents with
// this value are excluded from progress averaging.
const ProgressFailed = -1

// PatternCompliance records what the log scan found about the agent's use
// of the project's test-double conventions.
type PatternCompliance struct {
	// UsesSimplifiedMock is true when the log shows the agent using the
	// high-level mock helper.
	UsesSimplifiedMock bool `json:"usesSimplifiedMock"`

	// HasViolations is true when any violation check matched.
	HasViolations bool `json:"hasViolations"`

	// Violations holds one fixed description per matched check.
	Violations []string `json:"violations"`
}

// AgentReport is the derived per-agent record. It is recomputed from
// scratch every cycle; there is no cross-cycle memory.
type AgentReport struct {
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	LastUpdate string `json:"lastUpdate,omitempty"`
	Heartbeat  string `json:"heartbeat,omitempty"`
	StartTime  string `json:"startTime,omitempty"`

	FilesModified int      `json:"filesModified"`
	ModifiedFiles []string `json:"modifiedFiles"`

	TestsPass    int `json:"testsPass"`
	TestPassRate int `json:"testPassRate"`

	ErrorCount   int      `json:"errorCount"`
	RecentErrors []string `json:"recentErrors"`

	PatternCompliance PatternCompliance `json:"patternCompliance"`

	// Progress is 0-100, or ProgressFailed for failed agents. Non-terminal
	// agents are capped at 95; only an explicit completed status yields 100.
	Progress int `json:"progress"`

	Health HealthLevel `json:"health"`

	LastTool string `json:"lastTool,omitempty"`

	// IsActive reflects LastUpdate recency only. It is independent of the
	// heartbeat-based staleness in Health; the two clocks may disagree.
	IsActive bool `json:"isActive"`

	AgentType AgentType `json:"agentType"`

	// ProgressNote is the latest non-empty line of the agent's progress
	// markdown. Display only, never parsed for metrics.
	ProgressNote string `json:"progressNote,omitempty"`
}

// Summary holds cross-agent counts for one snapshot.
type Summary struct {
	TotalAgents          int `json:"totalAgents"`
	Completed            int `json:"completed"`
	Running              int `json:"running"`
	Failed               int `json:"failed"`
	NotStarted           int `json:"notStarted"`
	TotalTestsPass       int `json:"totalTestsPass"`
	AverageTestPassRate  int `json:"averageTestPassRate"`
	AgentsWithErrors     int `json:"agentsWithErrors"`
	CompliantAgents      int `json:"compliantAgents"`
	AgentsWithViolations int `json:"agentsWithViolations"`
	ActiveAgents         int `json:"activeAgents"`
	StaleAgents          int `json:"staleAgents"`
}

// PhaseReport summarizes one phase grouping.
type PhaseReport struct {
	Completed int           `json:"completed"`
	Total     int           `json:"total"`
	Progress  int           `json:"progress"`
	Health    OverallHealth `json:"health"`
}

// AlertLevel is the severity of an alert.
type AlertLevel string

const (
	AlertWarning  AlertLevel = "warning"
	AlertCritical AlertLevel = "critical"
)

// Alert is one triggered condition for one agent. An agent can contribute
// zero or several alerts per cycle.
type Alert struct {
	Level   AlertLevel `json:"level"`
	Agent   string     `json:"agent"`
	Message string     `json:"message"`
}

// AggregateReport is the consolidated snapshot. It is the sole persisted
// artifact and fully overwrites the previous snapshot each cycle.
type AggregateReport struct {
	Timestamp       string                  `json:"timestamp"`
	OverallHealth   OverallHealth           `json:"overallHealth"`
	OverallProgress int                     `json:"overallProgress"`
	Agents          map[string]*AgentReport `json:"agents"`
	Summary         Summary                 `json:"summary"`
	Phases          map[string]*PhaseReport `json:"phases"`
	Alerts          []Alert                 `json:"alerts"`
	Recommendations []string                `json:"recommendations"`
}
