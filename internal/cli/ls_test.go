package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rewind/internal/codec"
)

func TestLsListsCassettes(t *testing.T) {
	configPath, store := writeLibrary(t)
	seedCassette(t, store, "github_api", 2)
	seedCassette(t, store, "stripe_charges", 1)

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	err := runCommand(out, errOut, "--config", configPath, "ls")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "github_api")
	assert.Contains(t, out.String(), "stripe_charges")
	assert.Contains(t, out.String(), codec.RecordedWith)
	assert.Contains(t, out.String(), "2 cassette(s)")
}

func TestLsEmptyLibrary(t *testing.T) {
	configPath, _ := writeLibrary(t)

	out := &bytes.Buffer{}
	err := runCommand(out, &bytes.Buffer{}, "--config", configPath, "ls")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "No cassettes found")
}

func TestLsMarksUnreadableCassettes(t *testing.T) {
	configPath, store := writeLibrary(t)
	seedCassette(t, store, "good", 1)
	require.NoError(t, store.Write("broken", []byte("{{{{")))

	out := &bytes.Buffer{}
	err := runCommand(out, &bytes.Buffer{}, "--config", configPath, "ls")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "broken")
	assert.Contains(t, out.String(), "(unreadable)")
	assert.Contains(t, out.String(), "good")
}

func TestLsJSON(t *testing.T) {
	configPath, store := writeLibrary(t)
	seedCassette(t, store, "github_api", 2)
	seedCassette(t, store, "stripe_charges", 1)

	out := &bytes.Buffer{}
	err := runCommand(out, &bytes.Buffer{}, "--config", configPath, "--format", "json", "ls")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	payload, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result ListResult
	require.NoError(t, json.Unmarshal(payload, &result))

	assert.Equal(t, 2, result.Count)
	require.Len(t, result.Cassettes, 2)
	assert.Equal(t, "github_api", result.Cassettes[0].Name)
	assert.Equal(t, 2, result.Cassettes[0].Interactions)
	assert.Equal(t, codec.RecordedWith, result.Cassettes[0].RecordedWith)
	assert.NotEmpty(t, result.Cassettes[0].UpdatedAt)
	assert.Equal(t, "stripe_charges", result.Cassettes[1].Name)
	assert.Equal(t, 1, result.Cassettes[1].Interactions)
}

func TestLsBadConfig(t *testing.T) {
	configPath, _ := writeLibrary(t)
	out := &bytes.Buffer{}

	err := runCommand(out, &bytes.Buffer{}, "--config", configPath+".missing-section", "ls")
	require.NoError(t, err) // missing config file falls back to defaults

	badPath := configPath + ".bad"
	writeBadConfig(t, badPath)
	err = runCommand(out, &bytes.Buffer{}, "--config", badPath, "ls")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out.String(), ErrCodeConfig)
}
