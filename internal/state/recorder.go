package state

// Record describes one dispatch attempt, successful or not.
type Record struct {
	Seq  int64  `json:"seq"`
	Flow string `json:"flow"`

	// ID is the content-addressed event id (see ir.EventID).
	// Empty when the event name was not recognized.
	ID string `json:"id,omitempty"`

	Event     string         `json:"event"`
	ContactID int64          `json:"contact_id,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
	Changed   bool           `json:"changed"`
	ErrCode   ErrorCode      `json:"error,omitempty"`

	// Digest is ir.StateDigest of the state after the dispatch.
	Digest string `json:"digest"`
}

// Recorder receives a Record for every dispatch.
type Recorder interface {
	Record(Record)
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(Record)

// Record calls f(r).
func (f RecorderFunc) Record(r Record) { f(r) }

// TraceRecorder keeps every record in dispatch order.
type TraceRecorder struct {
	records []Record
}

// NewTraceRecorder creates an empty TraceRecorder.
func NewTraceRecorder() *TraceRecorder {
	return &TraceRecorder{}
}

// Record implements Recorder.
func (t *TraceRecorder) Record(r Record) {
	t.records = append(t.records, r)
}

// Records returns a copy of the collected records.
func (t *TraceRecorder) Records() []Record {
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// MultiRecorder forwards every record to each of its recorders in order.
type MultiRecorder []Recorder

// Record implements Recorder.
func (m MultiRecorder) Record(r Record) {
	for _, rec := range m {
		if rec != nil {
			rec.Record(r)
		}
	}
}
