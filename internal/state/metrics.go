package state

import (
	"fmt"
	"io"

	"github.com/VictoriaMetrics/metrics"
)

// Dispatch outcomes used as the status label.
const (
	StatusChanged   = "changed"
	StatusUnchanged = "unchanged"
	StatusError     = "error"
)

// MetricsRecorder counts dispatches in a private metrics.Set, labelled by
// event name and outcome:
//
//	contacts_events_total{event="nameChange",status="changed"}
//	contacts_event_errors_total{event="bogus",code="UNRECOGNIZED_OPERATION"}
type MetricsRecorder struct {
	set *metrics.Set
}

// NewMetricsRecorder creates a recorder with an empty metrics set.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{set: metrics.NewSet()}
}

// Record implements Recorder.
func (m *MetricsRecorder) Record(r Record) {
	status := StatusUnchanged
	switch {
	case r.ErrCode != "":
		status = StatusError
		m.counter(fmt.Sprintf(`contacts_event_errors_total{event=%q,code=%q}`, r.Event, r.ErrCode)).Inc()
	case r.Changed:
		status = StatusChanged
	}
	m.counter(fmt.Sprintf(`contacts_events_total{event=%q,status=%q}`, r.Event, status)).Inc()
}

// Count returns the number of dispatches of event with the given status.
// Asking registers the series at zero if it did not exist.
func (m *MetricsRecorder) Count(event, status string) uint64 {
	return m.counter(fmt.Sprintf(`contacts_events_total{event=%q,status=%q}`, event, status)).Get()
}

// WritePrometheus writes all counters in Prometheus text format.
func (m *MetricsRecorder) WritePrometheus(w io.Writer) {
	m.set.WritePrometheus(w)
}

func (m *MetricsRecorder) counter(name string) *metrics.Counter {
	return m.set.GetOrCreateCounter(name)
}
