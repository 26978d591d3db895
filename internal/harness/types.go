package harness

import (
	"github.com/roach88/contacts/internal/ir"
	"github.com/roach88/contacts/internal/state"
)

// Trace event types.
const (
	TraceTypeEvent = "event"
	TraceTypeQuery = "query"
)

// TraceEvent is one step as it actually ran.
type TraceEvent struct {
	Type string `json:"type"` // "event" or "query"

	// Seq is the dispatch seq for events; for queries it is the seq of the
	// last dispatch before the query ran.
	Seq int64 `json:"seq"`

	Flow      string         `json:"flow,omitempty"`
	Name      string         `json:"name"`
	ContactID int64          `json:"contact_id,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
	Changed   bool           `json:"changed,omitempty"`
	Error     string         `json:"error,omitempty"`
	Result    any            `json:"result,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace contains every step in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation and assertion failures.
	Errors []string `json:"errors,omitempty"`

	// State is the document after the last step.
	State ir.State `json:"state"`

	// Notifications counts callback invocations caused by the steps.
	Notifications int `json:"notifications"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddEventTrace adds a dispatch record to the trace.
func (r *Result) AddEventTrace(rec state.Record) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:      TraceTypeEvent,
		Seq:       rec.Seq,
		Flow:      rec.Flow,
		Name:      rec.Event,
		ContactID: rec.ContactID,
		Fields:    rec.Fields,
		Changed:   rec.Changed,
		Error:     string(rec.ErrCode),
	})
}

// AddQueryTrace adds a query to the trace.
func (r *Result) AddQueryTrace(name string, seq int64, result any, errCode string) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:   TraceTypeQuery,
		Seq:    seq,
		Name:   name,
		Result: result,
		Error:  errCode,
	})
}
