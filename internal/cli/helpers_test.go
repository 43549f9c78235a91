package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/rewind/internal/codec"
	"github.com/roach88/rewind/internal/persister"
	"github.com/roach88/rewind/internal/tape"
)

// writeLibrary creates a cassette directory plus a config file pointing
// at it, returning the config path and the opened file store.
func writeLibrary(t *testing.T) (string, *persister.Files) {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "cassettes")
	configPath := filepath.Join(root, ".rewind.toml")

	content := fmt.Sprintf("[cassettes]\nstorage = \"files\"\ndir = %q\n", dir)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	return configPath, persister.NewFiles(dir)
}

// seedCassette encodes count interactions and stores them under name.
func seedCassette(t *testing.T, store *persister.Files, name string, count int) {
	t.Helper()
	interactions := make([]tape.Interaction, 0, count)
	for i := 0; i < count; i++ {
		interactions = append(interactions, tape.Interaction{
			Request: tape.Request{
				Method: "GET",
				URI:    fmt.Sprintf("https://api.example.com/users/%d", i+1),
				Body:   "",
			},
			Response: tape.Response{
				Status: tape.Status{Code: 200, Message: "OK"},
				Body:   fmt.Sprintf(`{"id":%d}`, i+1),
			},
			RecordedAt: time.Date(2026, 8, 21, 10, 0, 0, 0, time.UTC),
		})
	}

	encoded, err := codec.Encode(interactions)
	require.NoError(t, err)
	require.NoError(t, store.Write(name, encoded))
}

// legacyCassette is the obsolete bare-sequence layout.
const legacyCassette = `- request:
    method: GET
    uri: https://api.example.com/users
    body: ""
  response:
    status:
      code: 200
      message: OK
    body: ""
  recorded_at: 2026-08-21T10:00:00Z
`

// foreignCassette decodes cleanly but was written by another recorder,
// so it violates the storage schema.
const foreignCassette = `recorded_with: vcr/6.3.1
interactions:
  - request:
      method: GET
      uri: https://api.example.com/users
      body: ""
    response:
      status:
        code: 200
        message: OK
      body: ""
    recorded_at: 2026-08-21T10:00:00Z
`

// writeBadConfig writes a config file with an unknown key, which the
// strict TOML decoder rejects.
func writeBadConfig(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("[cassettes]\ndirectory = \"x\"\n"), 0o644))
}

// runCommand executes the CLI with args, capturing both output streams.
func runCommand(out, errOut io.Writer, args ...string) error {
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	return cmd.Execute()
}
