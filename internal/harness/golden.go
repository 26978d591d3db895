package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/contacts/internal/ir"
)

// GoldenDir is where golden trace files live, relative to the test's package.
const GoldenDir = "testdata/golden"

// TraceSnapshot is the part of a run that golden files pin down.
// Content digests are left out so golden files stay readable and stable.
type TraceSnapshot struct {
	ScenarioName string
	FlowToken    string
	Trace        []TraceEvent
	State        ir.State
}

// Canonical returns the snapshot as RFC 8785 canonical JSON.
func (s *TraceSnapshot) Canonical() ([]byte, error) {
	return ir.MarshalCanonical(s.toCanonicalMap())
}

func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	trace := make([]any, len(s.Trace))
	for i, ev := range s.Trace {
		m := map[string]any{
			"type": ev.Type,
			"seq":  ev.Seq,
			"name": ev.Name,
		}
		if ev.Flow != "" {
			m["flow"] = ev.Flow
		}
		if ev.ContactID != 0 {
			m["contact_id"] = ev.ContactID
		}
		if ev.Fields != nil {
			m["fields"] = ev.Fields
		}
		if ev.Type == TraceTypeEvent {
			m["changed"] = ev.Changed
		}
		if ev.Error != "" {
			m["error"] = ev.Error
		}
		if ev.Result != nil {
			m["result"] = ev.Result
		}
		trace[i] = m
	}

	out := map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         trace,
		"state":         s.State.ToCanonical(),
	}
	if s.FlowToken != "" {
		out["flow_token"] = s.FlowToken
	}
	return out
}

// Snapshot builds the golden snapshot for a finished run.
func Snapshot(scenario *Scenario, result *Result) *TraceSnapshot {
	return &TraceSnapshot{
		ScenarioName: scenario.Name,
		FlowToken:    scenario.FlowToken,
		Trace:        result.Trace,
		State:        result.State,
	}
}

// RunWithGolden runs a scenario and compares its canonical trace with
// testdata/golden/<scenario.Name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	data, err := Snapshot(scenario, result).Canonical()
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return result, nil
}
