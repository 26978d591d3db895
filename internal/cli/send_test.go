package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/contacts/internal/state"
)

type sendResponse struct {
	Status string     `json:"status"`
	Data   SendResult `json:"data"`
	Error  *CLIError  `json:"error"`
}

func sendJSON(t *testing.T, args ...string) (sendResponse, error) {
	t.Helper()
	out, err := executeRoot(t, append([]string{"send", "--format", "json"}, args...)...)
	var resp sendResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp, err
}

func TestSendChangesContact(t *testing.T) {
	resp, err := sendJSON(t, "emailChange", "albert@example.com", "--identity", "1")
	require.NoError(t, err)

	assert.True(t, resp.Data.Changed)
	assert.Equal(t, 1, resp.Data.Notifications)
	assert.Equal(t, "albert@example.com", resp.Data.State.Contacts[0].Email)
}

func TestSendSameValueDoesNotNotify(t *testing.T) {
	resp, err := sendJSON(t, "nameChange", "Albert Einstein", "--identity", "1")
	require.NoError(t, err)

	assert.False(t, resp.Data.Changed)
	assert.Equal(t, 0, resp.Data.Notifications)
}

func TestSendChangeNameText(t *testing.T) {
	out, err := executeRoot(t, "send", "changeName", "Physicists")
	require.NoError(t, err)
	assert.Contains(t, out, "changeName: changed")
	assert.Contains(t, out, "Name: Physicists")
}

func TestSendWithTrace(t *testing.T) {
	resp, err := sendJSON(t, "urlChange", "https://example.com/a.png", "--identity", "1", "--trace")
	require.NoError(t, err)

	require.Len(t, resp.Data.Trace, 1)
	rec := resp.Data.Trace[0]
	assert.Equal(t, int64(1), rec.Seq)
	assert.Equal(t, state.EventURLChange, rec.Event)
	assert.True(t, rec.Changed)
	assert.NotEmpty(t, rec.ID)
	assert.NotEmpty(t, rec.Digest)
}

func TestSendUnrecognizedEvent(t *testing.T) {
	resp, err := sendJSON(t, "bogus", "x")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, state.IsUnrecognized(err))

	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(state.ErrCodeUnrecognized), resp.Error.Code)
}

func TestSendUnknownContact(t *testing.T) {
	resp, err := sendJSON(t, "numChange", "1", "--identity", "42")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	require.NotNil(t, resp.Error)
	assert.Equal(t, string(state.ErrCodeContactNotFound), resp.Error.Code)
}

func TestSendMetrics(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{"send", "numChange", "42", "--identity", "9", "--metrics"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, errOut.String(), `contacts_event_errors_total{event="numChange",code="CONTACT_NOT_FOUND"} 1`)
	assert.Contains(t, errOut.String(), `contacts_events_total{event="numChange",status="error"} 1`)
}

func TestSendRequiresEventName(t *testing.T) {
	_, err := executeRoot(t, "send")
	require.Error(t, err)
}
