package aggregator

import (
	"testing"
	"time"

	"github.com/farmstand/swarmstatus/internal/config"
	"github.com/farmstand/swarmstatus/internal/types"
)

// fixedNow is an arbitrary reference instant for deterministic derivation
// tests.
var fixedNow = time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

func testAggregator() *Aggregator {
	a := New(config.Default())
	a.now = func() time.Time { return fixedNow }
	return a
}

func iso(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func TestTestMetrics(t *testing.T) {
	a := testAggregator()

	tests := []struct {
		name     string
		status   types.AgentStatus
		wantPass int
		wantRate int
	}{
		{
			name:     "summary with pass count",
			status:   types.AgentStatus{TestSummary: "18/20 tests passing"},
			wantPass: 18,
			wantRate: 90,
		},
		{
			name:     "zero over zero is guarded",
			status:   types.AgentStatus{TestSummary: "0/0 tests passing"},
			wantPass: 0,
			wantRate: 0,
		},
		{
			name:     "summary wins over testsPass field",
			status:   types.AgentStatus{TestSummary: "3/4 passing", TestsPass: 99},
			wantPass: 3,
			wantRate: 75,
		},
		{
			name:     "summary with spaces around slash",
			status:   types.AgentStatus{TestSummary: "ran suite: 7 / 10 green"},
			wantPass: 7,
			wantRate: 70,
		},
		{
			name:     "fallback to testsPass assumes all passing",
			status:   types.AgentStatus{TestsPass: 12, TestSummary: "all good"},
			wantPass: 12,
			wantRate: 100,
		},
		{
			name:     "no signal at all",
			status:   types.AgentStatus{},
			wantPass: 0,
			wantRate: 0,
		},
		{
			name:     "rate rounds to nearest",
			status:   types.AgentStatus{TestSummary: "1/3 passing"},
			wantPass: 1,
			wantRate: 33,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pass, rate := a.testMetrics(&tt.status)
			if pass != tt.wantPass || rate != tt.wantRate {
				t.Errorf("testMetrics() = (%d, %d), want (%d, %d)", pass, rate, tt.wantPass, tt.wantRate)
			}
		})
	}
}

func TestIsActive(t *testing.T) {
	a := testAggregator()

	tests := []struct {
		name       string
		lastUpdate string
		want       bool
	}{
		{"recent update", iso(fixedNow.Add(-30 * time.Second)), true},
		{"just inside window", iso(fixedNow.Add(-119 * time.Second)), true},
		{"exactly at window boundary", iso(fixedNow.Add(-120 * time.Second)), false},
		{"old update", iso(fixedNow.Add(-10 * time.Minute)), false},
		{"absent lastUpdate", "", false},
		{"unparseable lastUpdate", "yesterday-ish", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := &types.AgentStatus{LastUpdate: tt.lastUpdate}
			if got := a.isActive(status, fixedNow); got != tt.want {
				t.Errorf("isActive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProgressTerminalStatuses(t *testing.T) {
	a := testAggregator()

	tests := []struct {
		status string
		want   int
	}{
		{"completed", 100},
		{"failed", types.ProgressFailed},
		{"not-started", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run("status "+tt.status, func(t *testing.T) {
			got := a.progress(&types.AgentStatus{Status: tt.status}, 50, true, fixedNow)
			if got != tt.want {
				t.Errorf("progress() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestProgressSignals(t *testing.T) {
	a := testAggregator()

	files := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = "src/file.ts"
		}
		return out
	}

	tests := []struct {
		name   string
		status types.AgentStatus
		passed int
		active bool
		want   int
	}{
		{
			name:   "files contribute 5 points each",
			status: types.AgentStatus{Status: "running", FilesModified: files(3)},
			want:   15,
		},
		{
			name:   "files cap at 30",
			status: types.AgentStatus{Status: "running", FilesModified: files(20)},
			want:   30,
		},
		{
			name:   "tests contribute 2 points each",
			status: types.AgentStatus{Status: "running"},
			passed: 10,
			want:   20,
		},
		{
			name:   "tests cap at 40",
			status: types.AgentStatus{Status: "running"},
			passed: 50,
			want:   40,
		},
		{
			name: "elapsed time contributes 5 points per 10 minutes",
			status: types.AgentStatus{
				Status:    "running",
				StartTime: iso(fixedNow.Add(-25 * time.Minute)),
			},
			want: 10,
		},
		{
			name: "elapsed time caps at 20",
			status: types.AgentStatus{
				Status:    "running",
				StartTime: iso(fixedNow.Add(-3 * time.Hour)),
			},
			want: 20,
		},
		{
			name:   "activity bonus",
			status: types.AgentStatus{Status: "running"},
			active: true,
			want:   10,
		},
		{
			name: "everything maxed clamps to 95",
			status: types.AgentStatus{
				Status:        "running",
				FilesModified: files(10),
				StartTime:     iso(fixedNow.Add(-2 * time.Hour)),
			},
			passed: 30,
			active: true,
			want:   95,
		},
		{
			name:   "unrecognized status accumulates instead of short-circuiting",
			status: types.AgentStatus{Status: "warming-up", FilesModified: files(2)},
			want:   10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.progress(&tt.status, tt.passed, tt.active, fixedNow)
			if got != tt.want {
				t.Errorf("progress() = %d, want %d", got, tt.want)
			}
		})
	}
}

// Non-terminal progress stays inside [0, 95] no matter how loud the
// signals get.
func TestProgressInFlightBounds(t *testing.T) {
	a := testAggregator()

	status := &types.AgentStatus{
		Status:        "active",
		FilesModified: make([]string, 1000),
		StartTime:     iso(fixedNow.Add(-48 * time.Hour)),
	}
	got := a.progress(status, 100000, true, fixedNow)
	if got < 0 || got > 95 {
		t.Errorf("progress() = %d, want within [0, 95]", got)
	}
	if got != 95 {
		t.Errorf("progress() = %d, want 95 with saturated signals", got)
	}
}

func TestHealth(t *testing.T) {
	a := testAggregator()

	manyErrors := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = "TypeError: cannot read properties of undefined"
		}
		return out
	}

	tests := []struct {
		name   string
		status types.AgentStatus
		want   types.HealthLevel
	}{
		{
			name: "stale heartbeat wins over running",
			status: types.AgentStatus{
				Status:    "running",
				Heartbeat: iso(fixedNow.Add(-400 * time.Second)),
			},
			want: types.HealthStale,
		},
		{
			name: "stale heartbeat wins over low error count",
			status: types.AgentStatus{
				Status:    "running",
				Heartbeat: iso(fixedNow.Add(-301 * time.Second)),
				Errors:    manyErrors(2),
			},
			want: types.HealthStale,
		},
		{
			name: "slow heartbeat",
			status: types.AgentStatus{
				Status:    "running",
				Heartbeat: iso(fixedNow.Add(-200 * time.Second)),
			},
			want: types.HealthSlow,
		},
		{
			name: "fresh heartbeat falls through to error checks",
			status: types.AgentStatus{
				Status:    "running",
				Heartbeat: iso(fixedNow.Add(-10 * time.Second)),
				Errors:    manyErrors(11),
			},
			want: types.HealthUnhealthy,
		},
		{
			name:   "running without heartbeat is unknown",
			status: types.AgentStatus{Status: "running"},
			want:   types.HealthUnknown,
		},
		{
			name:   "active without heartbeat is unknown",
			status: types.AgentStatus{Status: "active"},
			want:   types.HealthUnknown,
		},
		{
			name:   "unparseable heartbeat treated as absent",
			status: types.AgentStatus{Status: "running", Heartbeat: "not-a-time"},
			want:   types.HealthUnknown,
		},
		{
			name:   "more than ten errors is unhealthy",
			status: types.AgentStatus{Status: "completed", Errors: manyErrors(11)},
			want:   types.HealthUnhealthy,
		},
		{
			name:   "more than five errors is degraded",
			status: types.AgentStatus{Status: "completed", Errors: manyErrors(6)},
			want:   types.HealthDegraded,
		},
		{
			name:   "exactly five errors is not degraded",
			status: types.AgentStatus{Status: "completed", Errors: manyErrors(5)},
			want:   types.HealthCompleted,
		},
		{
			name:   "failed status",
			status: types.AgentStatus{Status: "failed"},
			want:   types.HealthFailed,
		},
		{
			name:   "completed status",
			status: types.AgentStatus{Status: "completed"},
			want:   types.HealthCompleted,
		},
		{
			name:   "not started is pending",
			status: types.AgentStatus{Status: "not-started"},
			want:   types.HealthPending,
		},
		{
			name:   "empty status is pending",
			status: types.AgentStatus{},
			want:   types.HealthPending,
		},
		{
			name: "fresh heartbeat and clean slate is healthy",
			status: types.AgentStatus{
				Status:    "running",
				Heartbeat: iso(fixedNow.Add(-5 * time.Second)),
			},
			want: types.HealthHealthy,
		},
		{
			name:   "unrecognized status defaults to healthy",
			status: types.AgentStatus{Status: "warming-up"},
			want:   types.HealthHealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.health(&tt.status, fixedNow); got != tt.want {
				t.Errorf("health() = %q, want %q", got, tt.want)
			}
		})
	}
}
