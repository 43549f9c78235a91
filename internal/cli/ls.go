package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/rewind/internal/codec"
)

// ListEntry describes one stored cassette in ls output.
type ListEntry struct {
	Name         string `json:"name"`
	Interactions int    `json:"interactions"`
	RecordedWith string `json:"recorded_with,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
	Error        string `json:"error,omitempty"` // set when the cassette cannot be decoded
}

// ListResult holds ls results.
type ListResult struct {
	Cassettes []ListEntry `json:"cassettes"`
	Count     int         `json:"count"`
}

// NewLsCommand creates the ls command.
func NewLsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List cassettes in the configured library",
		Long: `List every cassette in the configured storage backend.

Each entry shows the interaction count, the recorder that wrote it, and
the last update time. Cassettes that fail to decode are listed with the
failure instead of a count.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLs(rootOpts, cmd)
		},
	}

	return cmd
}

func runLs(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	lib, lerr := OpenLibrary(opts.ConfigPath)
	if lerr != nil {
		return outputCommandError(formatter, lerr.Code, lerr.Message)
	}
	defer lib.Close()

	names, lerr := lib.ListNames()
	if lerr != nil {
		return outputCommandError(formatter, lerr.Code, lerr.Message)
	}

	formatter.VerboseLog("Found %d cassette(s)", len(names))

	entries := make([]ListEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, describeCassette(lib, name))
	}

	result := ListResult{Cassettes: entries, Count: len(entries)}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	return outputListText(formatter, result)
}

// describeCassette builds the ls entry for one stored cassette. Decode
// failures are folded into the entry so a single bad cassette does not
// abort the listing.
func describeCassette(lib *Library, name string) ListEntry {
	entry := ListEntry{Name: name}

	if mtime, ok, err := lib.Store.Stat(name); err == nil && ok {
		entry.UpdatedAt = mtime.Format(time.RFC3339)
	}

	raw, ok, err := lib.Store.Read(name)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}
	if !ok {
		entry.Error = "stored record is empty"
		return entry
	}

	env, err := codec.DecodeEnvelope(name, raw)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}

	entry.Interactions = len(env.Interactions)
	entry.RecordedWith = env.RecordedWith
	return entry
}

func outputListText(formatter *OutputFormatter, result ListResult) error {
	if result.Count == 0 {
		fmt.Fprintln(formatter.Writer, "No cassettes found")
		return nil
	}

	rows := make([][]string, 0, result.Count)
	for _, entry := range result.Cassettes {
		interactions := strconv.Itoa(entry.Interactions)
		recordedWith := entry.RecordedWith
		if entry.Error != "" {
			interactions = "-"
			recordedWith = "(unreadable)"
		}
		updated := entry.UpdatedAt
		if updated == "" {
			updated = "-"
		}
		rows = append(rows, []string{entry.Name, interactions, recordedWith, updated})
	}

	aligns := []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft}
	fmt.Fprintln(formatter.Writer, renderTable([]string{"NAME", "INTERACTIONS", "RECORDED WITH", "UPDATED"}, rows, aligns))
	fmt.Fprintf(formatter.Writer, "%d cassette(s)\n", result.Count)
	return nil
}
