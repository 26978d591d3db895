package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/contacts/internal/ir"
	"github.com/roach88/contacts/internal/seed"
	"github.com/roach88/contacts/internal/state"
	"github.com/roach88/contacts/internal/testutil"
)

// Harness executes one scenario against its own store.
type Harness struct {
	store    *state.Store
	recorder *state.TraceRecorder
	notified int
	logger   *slog.Logger
}

// Option configures Run.
type Option func(*Harness)

// WithLogger routes store logs to l. By default logs are discarded.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Load the seed (or seed.Default())
//  2. Create a store with a fresh clock and deterministic flow tokens
//  3. Run each step, checking its expect clause
//  4. Evaluate assertions against the final state
//
// A non-nil error means the scenario could not run at all (bad seed file);
// expectation and assertion failures are reported in Result.Errors.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	initial := seed.Default()
	if scenario.Seed != "" {
		s, err := seed.Load(scenario.Seed)
		if err != nil {
			return nil, fmt.Errorf("failed to load seed: %w", err)
		}
		initial = s
	}

	h := &Harness{
		recorder: state.NewTraceRecorder(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.store = state.New(
		state.WithState(initial),
		state.WithClock(state.NewClock()),
		state.WithFlowGenerator(testutil.NewFlowGenerator(scenario.FlowToken)),
		state.WithRecorder(h.recorder),
		state.WithLogger(h.logger),
	)
	h.store.OnUpdate(func(ir.State) { h.notified++ })

	result := NewResult()
	for i, step := range scenario.Steps {
		h.runStep(i, step, result)
	}

	result.State = h.store.State()
	result.Notifications = h.notified

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// runStep executes one step and checks its expect clause.
func (h *Harness) runStep(i int, step Step, result *Result) {
	if step.Query != "" {
		h.runQuery(i, step, result)
		return
	}

	before := len(h.recorder.Records())
	err := h.store.Send(step.Event, step.Data, step.Identity)

	// Every Send produces exactly one record, even when it fails.
	records := h.recorder.Records()
	for _, rec := range records[before:] {
		result.AddEventTrace(rec)
	}

	var changed bool
	if len(records) > before {
		changed = records[len(records)-1].Changed
	}

	checkError(i, step, err, result)
	if step.Expect != nil && step.Expect.Changed != nil && *step.Expect.Changed != changed {
		result.AddError(fmt.Sprintf("steps[%d] %s: expected changed=%t, got changed=%t",
			i, step.Event, *step.Expect.Changed, changed))
	}
}

func (h *Harness) runQuery(i int, step Step, result *Result) {
	value, err := h.store.Query(step.Query, step.Data)
	result.AddQueryTrace(step.Query, h.store.Seq(), traceValue(value), string(state.CodeOf(err)))

	checkError(i, step, err, result)
	if err != nil || step.Expect == nil || step.Expect.Result == nil {
		return
	}
	if msg := matchResult(step.Expect.Result, value); msg != "" {
		result.AddError(fmt.Sprintf("steps[%d] %s: %s", i, step.Query, msg))
	}
}

// checkError compares err with the step's expected error code.
func checkError(i int, step Step, err error, result *Result) {
	name := step.Event
	if name == "" {
		name = step.Query
	}

	var want string
	if step.Expect != nil {
		want = step.Expect.Error
	}
	got := string(state.CodeOf(err))
	if err != nil && got == "" {
		got = err.Error()
	}

	switch {
	case want == "" && err != nil:
		result.AddError(fmt.Sprintf("steps[%d] %s: unexpected error: %v", i, name, err))
	case want != "" && err == nil:
		result.AddError(fmt.Sprintf("steps[%d] %s: expected error %s, got success", i, name, want))
	case want != "" && got != want:
		result.AddError(fmt.Sprintf("steps[%d] %s: expected error %s, got %s", i, name, want, got))
	}
}

// traceValue converts a query result into a canonical-JSON friendly value.
func traceValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case ir.Contact:
		return val.ToCanonical()
	default:
		return val
	}
}
