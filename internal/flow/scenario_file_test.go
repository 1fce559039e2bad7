package flow

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const scenarioYAML = `
name: bulk-invite
steps:
  - name: open members
    precondition:
      kind: element_visible
      selector: "//span[text()='Members & Teams']"
      within: 20s
    actions:
      - op: click
        target: "//span[text()='Members & Teams']"
  - name: upload csv
    actions:
      - op: upload
        target: "input[type='file']"
        value: "/tmp/bulk_invite.csv"
      - op: click
        target: "button:has-text('Send invites')"
    postcondition:
      kind: text_present
      text: "Invite sent"
      within: 20s
`

func TestParseScenario(t *testing.T) {
	scenario, err := ParseScenario([]byte(scenarioYAML))
	require.NoError(t, err)
	require.Equal(t, "bulk-invite", scenario.Name)
	require.Len(t, scenario.Steps, 2)

	first := scenario.Steps[0]
	require.Equal(t, CheckElementVisible, first.Precondition.Kind)
	require.Equal(t, 20*time.Second, first.Precondition.Within)

	second := scenario.Steps[1]
	require.Equal(t, OpUpload, second.Actions[0].Op)
	require.Equal(t, "/tmp/bulk_invite.csv", second.Actions[0].Value)
	require.Equal(t, "Invite sent", second.Postcondition.Text)
}

func TestParseScenarioRejectsInvalid(t *testing.T) {
	_, err := ParseScenario([]byte("name: broken\nsteps:\n  - name: x\n    actions:\n      - op: hover\n        target: \"#y\"\n"))
	require.Error(t, err)
}

func TestParseScenarioRejectsBadYAML(t *testing.T) {
	_, err := ParseScenario([]byte("steps: [unclosed"))
	require.Error(t, err)
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0o644))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	require.Equal(t, "bulk-invite", scenario.Name)
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
