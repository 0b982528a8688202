package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTablesCommand(t *testing.T) {
	out, err := run(t, "tables")
	require.NoError(t, err)
	assert.Contains(t, out, "TABLE")
	assert.Contains(t, out, "current")
	assert.Contains(t, out, "planned")
}

func TestTablesWithCustomZones(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zones.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
current:
  - zone: A
    entries:
      - { street: "Paz", from: 1, to: 10 }
      - { street: "paz", from: 11, to: 20 }
planned: []
`), 0o600))

	out, err := run(t, "--zones", path, "tables", "--streets")
	require.NoError(t, err)
	assert.Contains(t, out, "paz: 1-20")
}

func TestCheckCommandOffline(t *testing.T) {
	out, err := run(t, "--offline", "check", "Nicaragua", "250")
	require.NoError(t, err)
	assert.Contains(t, out, "verdict: covered")
	assert.NotContains(t, out, "marker:")
}

func TestCheckCommandInvalid(t *testing.T) {
	out, err := run(t, "--offline", "check", "--json", "Nigro")
	assert.Error(t, err)
	assert.Contains(t, out, `"verdict": "invalid"`)
	assert.Contains(t, out, `"reason": "invalid_format"`)
}
