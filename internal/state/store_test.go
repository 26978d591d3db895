package state

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/contacts/internal/ir"
	"github.com/roach88/contacts/internal/seed"
	"github.com/roach88/contacts/internal/testutil"
)

func newTestStore(opts ...Option) *Store {
	base := []Option{
		WithClock(NewClock()),
		WithFlowGenerator(testutil.NewFlowGenerator("store")),
	}
	return New(append(base, opts...)...)
}

func TestNewSeedsDefaultState(t *testing.T) {
	s := newTestStore()
	assert.Equal(t, seed.Default(), s.State())
	assert.Equal(t, int64(0), s.Seq())
}

func TestWithStateCopiesInput(t *testing.T) {
	in := twoContacts()
	s := newTestStore(WithState(in))
	in.Contacts[0].Name = "mutated"

	assert.Equal(t, "Ada", s.State().Contacts[0].Name)
}

func TestSendNameChange(t *testing.T) {
	s := newTestStore()
	spy := &testutil.CallbackSpy{}
	s.OnUpdate(spy.Func)

	require.NoError(t, s.Send("nameChange", "A. Einstein", 1))

	assert.Equal(t, "A. Einstein", s.State().Contacts[0].Name)
	require.Equal(t, 1, spy.Count(), "subscriber invoked once")
	assert.Equal(t, s.State(), spy.Last())
}

func TestSendUnchangedValueDoesNotNotify(t *testing.T) {
	s := newTestStore()
	spy := &testutil.CallbackSpy{}
	s.OnUpdate(spy.Func)

	require.NoError(t, s.Send("emailChange", "aeinstein@example.com", 1))

	assert.Equal(t, 0, spy.Count())
	assert.Equal(t, seed.Default(), s.State())
}

func TestSendUnrecognizedEvent(t *testing.T) {
	s := newTestStore()
	spy := &testutil.CallbackSpy{}
	s.OnUpdate(spy.Func)

	err := s.Send("bogusEvent", nil, 1)
	require.Error(t, err)
	assert.True(t, IsUnrecognized(err))
	assert.Equal(t, 0, spy.Count())
	assert.Equal(t, seed.Default(), s.State())
}

func TestSendUnknownContact(t *testing.T) {
	s := newTestStore()
	spy := &testutil.CallbackSpy{}
	s.OnUpdate(spy.Func)

	err := s.Send("numChange", "16505551234", 999)
	require.Error(t, err)
	assert.True(t, IsContactNotFound(err))
	assert.Equal(t, 0, spy.Count())
	assert.Equal(t, seed.Default(), s.State())
}

func TestSendEventEachField(t *testing.T) {
	s := newTestStore()
	spy := &testutil.CallbackSpy{}
	s.OnUpdate(spy.Func)

	require.NoError(t, s.SendEvent(EmailChange{ID: 1, Email: "albert@example.com"}))
	require.NoError(t, s.SendEvent(NumberChange{ID: 1, PhoneNumber: "16505551234"}))
	require.NoError(t, s.SendEvent(URLChange{ID: 1, ImageURL: "https://example.com/albert.png"}))
	require.NoError(t, s.SendEvent(ChangeName{Title: "Physicists"}))

	want := seed.Default()
	want.Contacts[0].Email = "albert@example.com"
	want.Contacts[0].PhoneNumber = "16505551234"
	want.Contacts[0].ImageURL = "https://example.com/albert.png"
	want.Name = "Physicists"

	assert.Equal(t, want, s.State())
	assert.Equal(t, 4, spy.Count())
	assert.Equal(t, int64(4), s.Seq())
}

func TestForceUpdateWithoutCallbackIsNoop(t *testing.T) {
	s := newTestStore()
	assert.NotPanics(t, s.ForceUpdate)
}

func TestOnUpdateThenForceUpdate(t *testing.T) {
	s := newTestStore()
	spy := &testutil.CallbackSpy{}
	s.OnUpdate(spy.Func)

	s.ForceUpdate()

	require.Equal(t, 1, spy.Count())
	assert.Equal(t, seed.Default(), spy.Last())
}

func TestOnUpdateReplacesPrevious(t *testing.T) {
	s := newTestStore()
	first := &testutil.CallbackSpy{}
	second := &testutil.CallbackSpy{}

	s.OnUpdate(first.Func)
	s.OnUpdate(second.Func)
	require.NoError(t, s.Send("nameChange", "A. Einstein", 1))

	assert.Equal(t, 0, first.Count())
	assert.Equal(t, 1, second.Count())
}

func TestOnUpdateNilClears(t *testing.T) {
	s := newTestStore()
	spy := &testutil.CallbackSpy{}
	s.OnUpdate(spy.Func)
	s.OnUpdate(nil)

	s.ForceUpdate()
	assert.Equal(t, 0, spy.Count())
}

func TestSubscribeOrder(t *testing.T) {
	s := newTestStore()
	var order []string
	s.Subscribe(func(ir.State) { order = append(order, "sub-a") })
	s.OnUpdate(func(ir.State) { order = append(order, "primary") })
	s.Subscribe(func(ir.State) { order = append(order, "sub-b") })

	s.ForceUpdate()

	assert.Equal(t, []string{"primary", "sub-a", "sub-b"}, order)
}

func TestUnsubscribe(t *testing.T) {
	s := newTestStore()
	a := &testutil.CallbackSpy{}
	b := &testutil.CallbackSpy{}
	unsubA := s.Subscribe(a.Func)
	s.Subscribe(b.Func)

	unsubA()
	unsubA()
	s.ForceUpdate()

	assert.Equal(t, 0, a.Count())
	assert.Equal(t, 1, b.Count())
}

func TestUnsubscribeDuringNotify(t *testing.T) {
	s := newTestStore()
	var unsub func()
	calls := 0
	unsub = s.Subscribe(func(ir.State) {
		calls++
		unsub()
	})
	later := &testutil.CallbackSpy{}
	s.Subscribe(later.Func)

	s.ForceUpdate()
	s.ForceUpdate()

	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, later.Count())
}

func TestCallbackReceivesCopy(t *testing.T) {
	s := newTestStore()
	s.OnUpdate(func(st ir.State) {
		st.Contacts[0].Name = "vandal"
	})
	spy := &testutil.CallbackSpy{}
	s.Subscribe(spy.Func)

	s.ForceUpdate()

	assert.Equal(t, "Albert Einstein", s.State().Contacts[0].Name)
	assert.Equal(t, "Albert Einstein", spy.Last().Contacts[0].Name)
}

func TestStateReturnsCopy(t *testing.T) {
	s := newTestStore()
	st := s.State()
	st.Contacts[0].Email = "changed@example.com"

	assert.Equal(t, "aeinstein@example.com", s.State().Contacts[0].Email)
}

func TestReentrantSend(t *testing.T) {
	s := newTestStore()
	spy := &testutil.CallbackSpy{}
	s.OnUpdate(func(st ir.State) {
		if st.Contacts[0].Name == "A. Einstein" && st.Name == "" {
			require.NoError(t, s.Send("changeName", "renamed", 0))
		}
	})
	s.Subscribe(spy.Func)

	require.NoError(t, s.Send("nameChange", "A. Einstein", 1))

	assert.Equal(t, "renamed", s.State().Name)
	assert.Equal(t, int64(2), s.Seq())
	// The nested dispatch notifies first, then the outer one finishes.
	require.Equal(t, 2, spy.Count())
	assert.Equal(t, "renamed", spy.Calls[0].Name)
	assert.Equal(t, "renamed", spy.Calls[1].Name)
}

func TestQuery(t *testing.T) {
	s := newTestStore()

	name, err := s.Query("getName", nil)
	require.NoError(t, err)
	assert.Equal(t, "", name)

	require.NoError(t, s.Send("changeName", "Physicists", 0))
	name, err = s.Query("getName", nil)
	require.NoError(t, err)
	assert.Equal(t, "Physicists", name)

	c, err := s.Query("getContact", 1)
	require.NoError(t, err)
	assert.Equal(t, "Albert Einstein", c.(ir.Contact).Name)

	_, err = s.Query("getContact", 2)
	assert.True(t, IsContactNotFound(err))

	_, err = s.Query("bogusQuery", nil)
	assert.True(t, IsUnrecognized(err))
}

func TestQueryDoesNotDispatch(t *testing.T) {
	s := newTestStore()
	spy := &testutil.CallbackSpy{}
	s.OnUpdate(spy.Func)

	_, err := s.QueryState(GetName{})
	require.NoError(t, err)

	assert.Equal(t, 0, spy.Count())
	assert.Equal(t, int64(0), s.Seq())
}

func TestRecorderSeesEveryDispatch(t *testing.T) {
	rec := NewTraceRecorder()
	s := newTestStore(WithRecorder(rec))

	require.NoError(t, s.Send("nameChange", "A. Einstein", 1))
	require.NoError(t, s.Send("nameChange", "A. Einstein", 1))
	require.Error(t, s.Send("bogusEvent", "x", 1))
	require.Error(t, s.Send("urlChange", "x", 999))

	records := rec.Records()
	require.Len(t, records, 4)

	assert.Equal(t, int64(1), records[0].Seq)
	assert.Equal(t, "store-1", records[0].Flow)
	assert.Equal(t, "nameChange", records[0].Event)
	assert.Equal(t, int64(1), records[0].ContactID)
	assert.True(t, records[0].Changed)
	assert.Empty(t, records[0].ErrCode)
	assert.Len(t, records[0].ID, 64)
	assert.Equal(t, map[string]any{"id": int64(1), "name": "A. Einstein"}, records[0].Fields)

	assert.False(t, records[1].Changed)
	assert.Equal(t, records[0].Digest, records[1].Digest, "no change, same digest")
	assert.NotEqual(t, records[0].ID, records[1].ID, "different seq, different id")

	assert.Equal(t, "bogusEvent", records[2].Event)
	assert.Equal(t, ErrCodeUnrecognized, records[2].ErrCode)
	assert.Empty(t, records[2].ID)
	assert.Nil(t, records[2].Fields)

	assert.Equal(t, ErrCodeContactNotFound, records[3].ErrCode)
	assert.Equal(t, int64(999), records[3].ContactID)
	assert.Equal(t, int64(4), records[3].Seq)

	assert.Equal(t, ir.MustStateDigest(s.State()), records[3].Digest)
}

func TestRecorderFunc(t *testing.T) {
	var got []Record
	s := newTestStore(WithRecorder(RecorderFunc(func(r Record) { got = append(got, r) })))

	require.NoError(t, s.Send("changeName", "x", 0))

	require.Len(t, got, 1)
	assert.Equal(t, "changeName", got[0].Event)
	assert.Equal(t, int64(0), got[0].ContactID)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := newTestStore(WithLogger(logger))

	require.NoError(t, s.Send("nameChange", "A. Einstein", 1))
	require.Error(t, s.Send("nameChange", "x", 404))
	require.Error(t, s.Send("bogus", "x", 1))

	out := buf.String()
	assert.Contains(t, out, "event applied")
	assert.Contains(t, out, "changed=true")
	assert.Contains(t, out, "event failed")
	assert.Contains(t, out, "contact_id=404")
	assert.Contains(t, out, "event rejected")
	assert.Contains(t, out, "event=bogus")
}

func TestDefaultFlowGeneratorIsUUID(t *testing.T) {
	rec := NewTraceRecorder()
	s := New(WithRecorder(rec))

	require.NoError(t, s.Send("changeName", "x", 0))
	require.Len(t, rec.Records(), 1)
	assert.Len(t, rec.Records()[0].Flow, 36)
}

func TestChangeNameToEmptyOnFreshStoreDoesNotNotify(t *testing.T) {
	s := newTestStore()
	spy := &testutil.CallbackSpy{}
	s.OnUpdate(spy.Func)

	require.NoError(t, s.Send(EventChangeName, nil, 0))

	assert.Equal(t, 0, spy.Count())
	assert.Equal(t, int64(1), s.Seq())
}
