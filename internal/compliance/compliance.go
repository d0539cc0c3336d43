// Package compliance scans agent tool logs for adherence to the project's
// test-double convention: agents must use the createSupabaseMock helper
// instead of low-level jest mock APIs.
//
// The checks are deliberately crude single-pass textual heuristics. False
// positives and negatives are an accepted trade-off for zero-dependency
// log scanning; do not replace them with real parsing, and do not broaden
// the patterns without re-evaluating detection sensitivity.
package compliance

import (
	"regexp"
	"strings"

	"github.com/farmstand/swarmstatus/internal/types"
)

// simplifiedMockMarker is written to the log whenever an agent calls the
// high-level mock helper.
const simplifiedMockMarker = "createSupabaseMock"

// manualMockPattern matches an inline mock object literal assigned to a
// mock* identifier that constructs jest.fn() stubs inline, e.g.
//
//	const mockSupabase = { from: jest.fn(), auth: jest.fn() }
//
// Single-line only: multi-line constructions are missed, a known
// limitation of the heuristic.
var manualMockPattern = regexp.MustCompile(`(?m)(?:const|let|var)\s+mock\w*\s*=\s*\{[^}\n]*jest\.fn\(`)

// violationCheck is one named violation heuristic. Each returns a fixed
// human-readable description when the raw log text matches.
type violationCheck struct {
	name   string
	detect func(text string) bool
	reason string
}

// violationChecks are applied in order; each match appends its reason.
var violationChecks = []violationCheck{
	{
		name:   "low-level-supabase-mock",
		detect: HasLowLevelSupabaseMock,
		reason: "Low-level jest.mock() of @supabase/supabase-js detected; use createSupabaseMock instead",
	},
	{
		name:   "manual-mock-object",
		detect: HasManualMockObject,
		reason: "Manual mock object with inline jest.fn() stubs detected; use createSupabaseMock instead",
	},
}

// UsesSimplifiedMock reports whether the log shows the agent using the
// high-level mock helper.
func UsesSimplifiedMock(text string) bool {
	return strings.Contains(text, simplifiedMockMarker)
}

// HasLowLevelSupabaseMock reports whether the log shows a raw jest.mock()
// registration together with the Supabase client package. The two markers
// only need to co-occur anywhere in the file.
func HasLowLevelSupabaseMock(text string) bool {
	return strings.Contains(text, "jest.mock(") && strings.Contains(text, "@supabase/supabase-js")
}

// HasManualMockObject reports whether the log contains a single-line
// hand-built mock object literal with inline jest.fn() stubs.
func HasManualMockObject(text string) bool {
	return manualMockPattern.MatchString(text)
}

// Scan runs every check against the raw log text. Empty text (including
// the absent-log case) yields the zero result with no violations.
func Scan(text string) types.PatternCompliance {
	result := types.PatternCompliance{Violations: []string{}}
	if text == "" {
		return result
	}

	result.UsesSimplifiedMock = UsesSimplifiedMock(text)
	for _, check := range violationChecks {
		if check.detect(text) {
			result.Violations = append(result.Violations, check.reason)
		}
	}
	result.HasViolations = len(result.Violations) > 0
	return result
}
