package aggregator

import (
	"testing"

	"github.com/farmstand/swarmstatus/internal/types"
)

func reportsWithHealth(levels ...types.HealthLevel) []*types.AgentReport {
	out := make([]*types.AgentReport, len(levels))
	for i, h := range levels {
		out[i] = &types.AgentReport{Health: h}
	}
	return out
}

func TestOverallHealth(t *testing.T) {
	tests := []struct {
		name   string
		levels []types.HealthLevel
		want   types.OverallHealth
	}{
		{
			name:   "any failed is critical",
			levels: []types.HealthLevel{types.HealthCompleted, types.HealthFailed, types.HealthHealthy},
			want:   types.OverallCritical,
		},
		{
			name:   "failed beats unhealthy",
			levels: []types.HealthLevel{types.HealthUnhealthy, types.HealthFailed},
			want:   types.OverallCritical,
		},
		{
			name:   "any unhealthy",
			levels: []types.HealthLevel{types.HealthHealthy, types.HealthUnhealthy},
			want:   types.OverallUnhealthy,
		},
		{
			name:   "any stale degrades",
			levels: []types.HealthLevel{types.HealthHealthy, types.HealthStale},
			want:   types.OverallDegraded,
		},
		{
			name:   "any degraded degrades",
			levels: []types.HealthLevel{types.HealthCompleted, types.HealthDegraded},
			want:   types.OverallDegraded,
		},
		{
			name:   "all completed",
			levels: []types.HealthLevel{types.HealthCompleted, types.HealthCompleted},
			want:   types.OverallCompleted,
		},
		{
			name:   "any unknown is uncertain",
			levels: []types.HealthLevel{types.HealthHealthy, types.HealthUnknown},
			want:   types.OverallUncertain,
		},
		{
			name:   "all pending falls through to healthy",
			levels: []types.HealthLevel{types.HealthPending, types.HealthPending, types.HealthPending},
			want:   types.OverallHealthy,
		},
		{
			name:   "slow agents still read healthy overall",
			levels: []types.HealthLevel{types.HealthSlow, types.HealthHealthy},
			want:   types.OverallHealthy,
		},
		{
			name:   "mixed completed and healthy",
			levels: []types.HealthLevel{types.HealthCompleted, types.HealthHealthy},
			want:   types.OverallHealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverallHealth(reportsWithHealth(tt.levels...)); got != tt.want {
				t.Errorf("OverallHealth() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOverallProgress(t *testing.T) {
	tests := []struct {
		name     string
		progress []int
		want     int
	}{
		{
			name:     "plain mean rounds",
			progress: []int{50, 75},
			want:     63,
		},
		{
			name:     "failed agents are excluded",
			progress: []int{100, 100, types.ProgressFailed},
			want:     100,
		},
		{
			name:     "all failed yields zero",
			progress: []int{types.ProgressFailed, types.ProgressFailed},
			want:     0,
		},
		{
			name:     "no agents yields zero",
			progress: nil,
			want:     0,
		},
		{
			name:     "zeros still count toward the mean",
			progress: []int{0, 100},
			want:     50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports := make([]*types.AgentReport, len(tt.progress))
			for i, p := range tt.progress {
				reports[i] = &types.AgentReport{Progress: p}
			}
			if got := overallProgress(reports); got != tt.want {
				t.Errorf("overallProgress() = %d, want %d", got, tt.want)
			}
		})
	}
}
