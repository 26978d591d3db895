package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/contacts/internal/ir"
)

func twoContacts() ir.State {
	return ir.State{
		NextID: 3,
		Contacts: []ir.Contact{
			{ID: 1, Name: "Ada", ImageURL: "https://example.com/ada.png", Email: "ada@example.com", PhoneNumber: "1"},
			{ID: 2, Name: "Emmy", ImageURL: "https://example.com/emmy.png", Email: "emmy@example.com", PhoneNumber: "2"},
		},
	}
}

func TestApplyUpdatesOnlyTargetField(t *testing.T) {
	tests := []struct {
		name   string
		event  Event
		mutate func(*ir.State)
	}{
		{"nameChange", NameChange{ID: 2, NewName: "Emmy Noether"}, func(s *ir.State) { s.Contacts[1].Name = "Emmy Noether" }},
		{"emailChange", EmailChange{ID: 2, Email: "noether@example.com"}, func(s *ir.State) { s.Contacts[1].Email = "noether@example.com" }},
		{"numChange", NumberChange{ID: 1, PhoneNumber: "16505551234"}, func(s *ir.State) { s.Contacts[0].PhoneNumber = "16505551234" }},
		{"urlChange", URLChange{ID: 1, ImageURL: "https://example.com/x.png"}, func(s *ir.State) { s.Contacts[0].ImageURL = "https://example.com/x.png" }},
		{"changeName", ChangeName{Title: "Mathematicians"}, func(s *ir.State) { s.Name = "Mathematicians" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := twoContacts()
			want := twoContacts()
			tt.mutate(&want)

			changed, err := Apply(&s, tt.event)
			require.NoError(t, err)
			assert.True(t, changed)
			assert.Equal(t, want, s)
		})
	}
}

func TestApplySameValueIsNotAChange(t *testing.T) {
	tests := []Event{
		NameChange{ID: 1, NewName: "Ada"},
		EmailChange{ID: 1, Email: "ada@example.com"},
		NumberChange{ID: 1, PhoneNumber: "1"},
		URLChange{ID: 1, ImageURL: "https://example.com/ada.png"},
		ChangeName{Title: ""},
	}

	for _, ev := range tests {
		t.Run(ev.Name(), func(t *testing.T) {
			s := twoContacts()
			changed, err := Apply(&s, ev)
			require.NoError(t, err)
			assert.False(t, changed)
			assert.Equal(t, twoContacts(), s)
		})
	}
}

func TestApplyContactNotFound(t *testing.T) {
	for _, ev := range []Event{
		NameChange{ID: 999, NewName: "x"},
		EmailChange{ID: 999, Email: "x"},
		NumberChange{ID: 999, PhoneNumber: "16505551234"},
		URLChange{ID: 999, ImageURL: "x"},
	} {
		t.Run(ev.Name(), func(t *testing.T) {
			s := twoContacts()
			changed, err := Apply(&s, ev)
			require.Error(t, err)
			assert.False(t, changed)
			assert.True(t, IsContactNotFound(err))
			assert.Equal(t, twoContacts(), s, "state must be untouched")

			var se *Error
			require.ErrorAs(t, err, &se)
			assert.Equal(t, int64(999), se.ContactID)
			assert.Equal(t, ev.Name(), se.Operation)
		})
	}
}

func TestApplyFirstMatchWins(t *testing.T) {
	// Seeds are validated for unique ids, but Apply itself only scans.
	s := ir.State{Contacts: []ir.Contact{{ID: 1, Name: "a"}, {ID: 1, Name: "b"}}}

	changed, err := Apply(&s, NameChange{ID: 1, NewName: "z"})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "z", s.Contacts[0].Name)
	assert.Equal(t, "b", s.Contacts[1].Name)
}

func TestApplyNilEvent(t *testing.T) {
	s := twoContacts()
	changed, err := Apply(&s, nil)
	require.Error(t, err)
	assert.False(t, changed)
	assert.True(t, IsUnrecognized(err))
}

func TestApplyNeverTouchesNextID(t *testing.T) {
	s := twoContacts()
	for _, ev := range []Event{
		ChangeName{Title: "x"},
		NameChange{ID: 1, NewName: "x"},
		EmailChange{ID: 1, Email: "x"},
		NumberChange{ID: 1, PhoneNumber: "x"},
		URLChange{ID: 1, ImageURL: "x"},
	} {
		_, err := Apply(&s, ev)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(3), s.NextID)
	assert.Len(t, s.Contacts, 2)
}
