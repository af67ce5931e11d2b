package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScenario = `
rules:
  - name: flee
    belief: {name: danger, values: {x: 1}}
    all: true
    new_desire: flee
    lifetime: 3
  - name: scared
    desire: {name: flee, values: {x: 1}}
    new_emotion: {kind: fear, intensity: 0.5}
agents:
  - name: alice
    beliefs: [{name: danger, values: {x: 1}}]
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "bdirules.yaml")

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--config", cfgFile))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		format = "yaml"
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func scenarioFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testScenario), 0644))
	return path
}

func TestCheckCmd(t *testing.T) {
	out, err := execute(t, "check", scenarioFile(t))
	require.NoError(t, err)
	assert.Contains(t, out, "2 rules, 1 agents")
}

func TestCheckCmd_ReportsLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - name: r\n    when: maybe\n"), 0644))

	_, err := execute(t, "check", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestCheckCmd_NoScenario(t *testing.T) {
	_, err := execute(t, "check")
	assert.Error(t, err)
}

func TestDumpCmd_Datalog(t *testing.T) {
	out, err := execute(t, "dump", scenarioFile(t), "--format", "datalog")
	require.NoError(t, err)
	assert.Contains(t, out, "# agent alice")
	assert.Contains(t, out, `belief("danger"`)
}

func TestDumpCmd_Table(t *testing.T) {
	out, err := execute(t, "dump", scenarioFile(t), "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "1 agents")
	assert.Contains(t, out, "AGENT")
	assert.Contains(t, out, "danger{x: 1}")
}

func TestDumpCmd_UnknownFormat(t *testing.T) {
	_, err := execute(t, "dump", scenarioFile(t), "--format", "xml")
	assert.Error(t, err)
}

func TestRunCmd(t *testing.T) {
	out, err := execute(t, "run", scenarioFile(t), "--steps", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "id: alice")
	assert.Contains(t, out, "category: desire")
	assert.Contains(t, out, "name: flee")
	assert.Contains(t, out, "kind: fear")
	// Lifetime 3 was decremented once at the end of the step.
	assert.Contains(t, out, "lifetime: 2")
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "bdirules")
}
