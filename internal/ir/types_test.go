package ir

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneIsDeep(t *testing.T) {
	current := int64(1)
	orig := State{
		CurrentContact: &current,
		NextID:         2,
		Contacts:       []Contact{{ID: 1, Name: "Ada"}},
	}

	cp := orig.Clone()
	cp.Contacts[0].Name = "Grace"
	*cp.CurrentContact = 7
	cp.Contacts = append(cp.Contacts, Contact{ID: 2})

	assert.Equal(t, "Ada", orig.Contacts[0].Name)
	assert.Equal(t, int64(1), *orig.CurrentContact)
	assert.Len(t, orig.Contacts, 1)
}

func TestCloneNilFields(t *testing.T) {
	cp := State{NextID: 5}.Clone()
	assert.Nil(t, cp.CurrentContact)
	assert.Nil(t, cp.Contacts)
	assert.Equal(t, int64(5), cp.NextID)
}

func TestFindContact(t *testing.T) {
	s := State{Contacts: []Contact{{ID: 3}, {ID: 1}, {ID: 9}}}

	assert.Equal(t, 0, s.FindContact(3))
	assert.Equal(t, 1, s.FindContact(1))
	assert.Equal(t, 2, s.FindContact(9))
	assert.Equal(t, -1, s.FindContact(999))
	assert.Equal(t, -1, State{}.FindContact(1))
}

func TestValidate(t *testing.T) {
	require.NoError(t, State{}.Validate())
	require.NoError(t, State{Contacts: []Contact{{ID: 1}, {ID: 2}}}.Validate())

	err := State{Contacts: []Contact{{ID: 1}, {ID: 2}, {ID: 1}}}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id 1")
	assert.Contains(t, err.Error(), "contacts[2]")
}

func TestValidateReportsEveryViolation(t *testing.T) {
	missing := int64(5)
	err := State{
		CurrentContact: &missing,
		Contacts:       []Contact{{ID: 1}, {ID: 1}, {ID: 2}, {ID: 2}},
	}.Validate()
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 3)
	assert.Contains(t, err.Error(), "duplicate id 1")
	assert.Contains(t, err.Error(), "duplicate id 2")
	assert.Contains(t, err.Error(), "current_contact: no contact with id 5")
}
