package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() State {
	return State{
		NextID: 2,
		Contacts: []Contact{
			{ID: 1, Name: "Albert Einstein", Email: "aeinstein@example.com", PhoneNumber: "15555555555"},
		},
	}
}

func TestStateDigestDeterminism(t *testing.T) {
	d1, err := StateDigest(sampleState())
	require.NoError(t, err)
	d2, err := StateDigest(sampleState())
	require.NoError(t, err)

	assert.Equal(t, d1, d2, "StateDigest must be deterministic")
	assert.Len(t, d1, 64, "SHA-256 hex is 64 characters")
}

func TestStateDigestChangesWithContent(t *testing.T) {
	base := sampleState()
	renamed := base.Clone()
	renamed.Contacts[0].Name = "A. Einstein"
	titled := base.Clone()
	titled.Name = "Physicists"

	assert.NotEqual(t, MustStateDigest(base), MustStateDigest(renamed))
	assert.NotEqual(t, MustStateDigest(base), MustStateDigest(titled))
	assert.NotEqual(t, MustStateDigest(renamed), MustStateDigest(titled))
}

func TestEventIDChangesWithInput(t *testing.T) {
	fields := map[string]any{"id": int64(1), "name": "A. Einstein"}

	id1, err := EventID("flow-1", "nameChange", fields, 1)
	require.NoError(t, err)
	id2, err := EventID("flow-2", "nameChange", fields, 1)
	require.NoError(t, err)
	id3, err := EventID("flow-1", "nameChange", fields, 2)
	require.NoError(t, err)
	id4, err := EventID("flow-1", "emailChange", fields, 1)
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2, "different flow tokens should produce different IDs")
	assert.NotEqual(t, id1, id3, "different seq should produce different IDs")
	assert.NotEqual(t, id1, id4, "different event names should produce different IDs")
}

func TestEventIDRejectsFloats(t *testing.T) {
	_, err := EventID("flow-1", "nameChange", map[string]any{"x": 1.5}, 1)
	assert.Error(t, err)
}

func TestDomainSeparation(t *testing.T) {
	data := []byte(`{"a":1}`)
	assert.NotEqual(t, hashWithDomain(DomainState, data), hashWithDomain(DomainEvent, data))
}
