package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_Scenarios(t *testing.T) {
	for _, name := range []string{"einstein_edits", "seeded_team"} {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestSnapshotOmitsEmptyFields(t *testing.T) {
	snap := &TraceSnapshot{
		ScenarioName: "empty",
		Trace: []TraceEvent{
			{Type: TraceTypeQuery, Seq: 0, Name: "getName", Result: ""},
		},
	}

	data, err := snap.Canonical()
	require.NoError(t, err)
	assert.Equal(t,
		`{"scenario_name":"empty","state":{"contacts":[],"next_id":0},"trace":[{"name":"getName","result":"","seq":0,"type":"query"}]}`,
		string(data))
}
