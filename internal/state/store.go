package state

import (
	"io"
	"log/slog"

	"github.com/roach88/contacts/internal/ir"
	"github.com/roach88/contacts/internal/seed"
)

// Callback receives a copy of the state after a change or ForceUpdate.
type Callback func(ir.State)

type subscription struct {
	cb Callback
}

// Store owns one state document and notifies callbacks when it changes.
//
// Store is not safe for concurrent use. See the package documentation.
type Store struct {
	state ir.State

	// primary is the OnUpdate callback; subs are Subscribe callbacks.
	// primary is notified first, then subs in registration order.
	primary Callback
	subs    []*subscription

	clock    SeqSource
	flowGen  FlowTokenGenerator
	recorder Recorder
	logger   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithState seeds the store with a copy of s instead of seed.Default().
func WithState(s ir.State) Option {
	return func(st *Store) {
		st.state = s.Clone()
	}
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(l *slog.Logger) Option {
	return func(st *Store) {
		if l != nil {
			st.logger = l
		}
	}
}

// WithClock replaces the logical clock, e.g. to resume from a known seq.
func WithClock(c SeqSource) Option {
	return func(st *Store) {
		if c != nil {
			st.clock = c
		}
	}
}

// WithFlowGenerator replaces the flow token generator.
// The default is UUIDv7Generator.
func WithFlowGenerator(g FlowTokenGenerator) Option {
	return func(st *Store) {
		if g != nil {
			st.flowGen = g
		}
	}
}

// WithRecorder attaches a Recorder that sees every dispatch.
func WithRecorder(r Recorder) Option {
	return func(st *Store) {
		st.recorder = r
	}
}

// New creates a Store holding seed.Default() unless WithState is given.
func New(opts ...Option) *Store {
	s := &Store{
		state:   seed.Default(),
		clock:   NewClock(),
		flowGen: UUIDv7Generator{},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnUpdate registers cb as the primary callback, replacing any previous one.
// Passing nil removes the primary callback.
func (s *Store) OnUpdate(cb Callback) {
	s.primary = cb
}

// Subscribe registers an additional callback. It is notified after the
// primary callback, in registration order. The returned function removes
// the subscription; calling it more than once is harmless.
func (s *Store) Subscribe(cb Callback) (unsubscribe func()) {
	if cb == nil {
		return func() {}
	}
	sub := &subscription{cb: cb}
	s.subs = append(s.subs, sub)
	return func() {
		for i, other := range s.subs {
			if other == sub {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// ForceUpdate invokes every registered callback with the current state.
// It does nothing if no callback is registered.
func (s *Store) ForceUpdate() {
	s.notify()
}

// Send parses name into an Event and dispatches it.
//
// Unknown names return an ErrCodeUnrecognized error before anything is
// mutated. identity is the target contact id; changeName ignores it.
func (s *Store) Send(name string, data any, identity int64) error {
	ev, err := ParseEvent(name, data, identity)
	if err != nil {
		seq := s.clock.Next()
		flow := s.flowGen.Generate()
		s.logger.Warn("event rejected",
			"seq", seq,
			"flow", flow,
			"event", name,
			"error", err,
		)
		s.record(Record{
			Seq:       seq,
			Flow:      flow,
			Event:     name,
			ContactID: identity,
			ErrCode:   CodeOf(err),
		}, nil)
		return err
	}
	return s.SendEvent(ev)
}

// SendEvent applies ev to the state. If the state changed, every callback is
// invoked once with the new state; otherwise no callback runs.
//
// Returns an ErrCodeContactNotFound error, without mutating or notifying,
// when ev targets an id that matches no contact.
func (s *Store) SendEvent(ev Event) error {
	seq := s.clock.Next()
	flow := s.flowGen.Generate()

	changed, err := Apply(&s.state, ev)

	rec := Record{Seq: seq, Flow: flow, Changed: changed, ErrCode: CodeOf(err)}
	if ev != nil {
		rec.Event = ev.Name()
		rec.ContactID, _ = ev.Target()
	}
	s.record(rec, ev)

	if err != nil {
		s.logger.Warn("event failed",
			"seq", seq,
			"flow", flow,
			"event", rec.Event,
			"contact_id", rec.ContactID,
			"error", err,
		)
		return err
	}

	s.logger.Debug("event applied",
		"seq", seq,
		"flow", flow,
		"event", rec.Event,
		"contact_id", rec.ContactID,
		"changed", changed,
	)

	if changed {
		s.notify()
	}
	return nil
}

// Query parses name into a Query and resolves it.
// Unknown names return an ErrCodeUnrecognized error.
func (s *Store) Query(name string, data any) (any, error) {
	q, err := ParseQuery(name, data)
	if err != nil {
		return nil, err
	}
	return s.QueryState(q)
}

// QueryState resolves q against the current state without modifying it.
func (s *Store) QueryState(q Query) (any, error) {
	return Resolve(s.state, q)
}

// State returns a deep copy of the current state.
func (s *Store) State() ir.State {
	return s.state.Clone()
}

// Seq returns the sequence number of the most recent dispatch.
func (s *Store) Seq() int64 {
	return s.clock.Current()
}

// notify calls the primary callback and then each subscriber. The
// subscriber list is captured first so callbacks may subscribe or
// unsubscribe while being notified.
func (s *Store) notify() {
	if s.primary == nil && len(s.subs) == 0 {
		return
	}
	subs := make([]*subscription, len(s.subs))
	copy(subs, s.subs)

	if s.primary != nil {
		s.primary(s.state.Clone())
	}
	for _, sub := range subs {
		sub.cb(s.state.Clone())
	}
}

// record fills in the content ids and hands rec to the recorder, if any.
func (s *Store) record(rec Record, ev Event) {
	if s.recorder == nil {
		return
	}
	if ev != nil {
		rec.Fields = ev.Fields()
		if id, err := ir.EventID(rec.Flow, rec.Event, rec.Fields, rec.Seq); err == nil {
			rec.ID = id
		}
	}
	if digest, err := ir.StateDigest(s.state); err == nil {
		rec.Digest = digest
	}
	s.recorder.Record(rec)
}
