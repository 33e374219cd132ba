package rules_test

import (
	"os"
	"path/filepath"
	"testing"

	"ukuvi-assistant/internal/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallRules = `
rules:
  - name: greeting
    keywords: ["Hola", "buenos días"]
    priority: 10
    response: "¡Hola!"
  - name: fallback
    keywords: []
    priority: 0
    response: |-
      No entiendo.
      Intenta de nuevo.
`

func TestLoad(t *testing.T) {
	table, err := rules.Load([]byte(smallRules))
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, "¡Hola!", table.SelectResponse("HOLA"))
	assert.Equal(t, "No entiendo.\nIntenta de nuevo.", table.SelectResponse("qué"))
}

func TestLoadRejectsBadInput(t *testing.T) {
	_, err := rules.Load([]byte("rules: [this is: not valid"))
	assert.ErrorIs(t, err, rules.ErrInvalidTable)

	_, err = rules.Load([]byte("rules:\n  - name: a\n    colour: red\n"))
	assert.ErrorIs(t, err, rules.ErrInvalidTable)

	_, err = rules.Load([]byte("rules:\n  - name: a\n    keywords: [a]\n    response: A\n    priority: 1\n"))
	assert.ErrorIs(t, err, rules.ErrInvalidTable)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(smallRules), 0644))

	table, err := rules.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "greeting", table.Select("buenos días").Name)

	_, err = rules.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultYAMLRoundTrips(t *testing.T) {
	table, err := rules.Load(rules.DefaultYAML())
	require.NoError(t, err)
	assert.Equal(t, rules.Default().Entries(), table.Entries())
}
