package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/rewind/internal/codec"
	"github.com/roach88/rewind/internal/tape"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Raw bool
}

// ShowInteraction summarizes one recorded exchange in show output.
type ShowInteraction struct {
	Index      int    `json:"index"`
	Method     string `json:"method"`
	URI        string `json:"uri"`
	Status     int    `json:"status"`
	BodyBytes  int    `json:"body_bytes"`
	RecordedAt string `json:"recorded_at"`
}

// ShowResult holds show results.
type ShowResult struct {
	Name         string            `json:"name"`
	RecordedWith string            `json:"recorded_with"`
	Interactions []ShowInteraction `json:"interactions"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <cassette>",
		Short: "Show the recorded interactions of one cassette",
		Long: `Show the recorded interactions of a single cassette.

By default the cassette is decoded and summarized one line per
interaction. With --raw the stored YAML is printed exactly as the
backend holds it.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "print the stored document without decoding")

	return cmd
}

func runShow(opts *ShowOptions, name string, cmd *cobra.Command) error {
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

	raw, ok, err := lib.Store.Read(name)
	if err != nil {
		return outputCommandError(formatter, ErrCodeStorage, fmt.Sprintf("reading cassette %q: %v", name, err))
	}
	if !ok {
		return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("cassette %q not found", name))
	}

	if opts.Raw {
		return outputShowRaw(formatter, name, raw)
	}

	env, err := codec.DecodeEnvelope(name, raw)
	if err != nil {
		code := classifyDecodeError(err)
		_ = formatter.Error(code, err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	result := ShowResult{
		Name:         name,
		RecordedWith: env.RecordedWith,
		Interactions: summarizeInteractions(env.Interactions),
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	return outputShowText(formatter, result)
}

// classifyDecodeError maps a codec failure to its finding code.
func classifyDecodeError(err error) string {
	switch {
	case codec.IsLegacyFormat(err):
		return ErrCodeLegacy
	case codec.IsCorruptCassette(err):
		return ErrCodeCorrupt
	default:
		return ErrCodeGeneric
	}
}

func summarizeInteractions(interactions []tape.Interaction) []ShowInteraction {
	summaries := make([]ShowInteraction, 0, len(interactions))
	for i, interaction := range interactions {
		summaries = append(summaries, ShowInteraction{
			Index:      i,
			Method:     interaction.Request.Method,
			URI:        interaction.Request.URI,
			Status:     interaction.Response.Status.Code,
			BodyBytes:  len(interaction.Response.Body),
			RecordedAt: interaction.RecordedAt.Format(time.RFC3339),
		})
	}
	return summaries
}

func outputShowRaw(formatter *OutputFormatter, name string, raw []byte) error {
	if formatter.Format == "json" {
		return formatter.Success(map[string]string{"name": name, "raw": string(raw)})
	}
	_, err := formatter.Writer.Write(raw)
	return err
}

func outputShowText(formatter *OutputFormatter, result ShowResult) error {
	fmt.Fprintf(formatter.Writer, "Cassette: %s\n", result.Name)
	fmt.Fprintf(formatter.Writer, "Recorded with: %s\n", result.RecordedWith)
	fmt.Fprintln(formatter.Writer)

	if len(result.Interactions) == 0 {
		fmt.Fprintln(formatter.Writer, "No interactions recorded")
		return nil
	}

	rows := make([][]string, 0, len(result.Interactions))
	for _, s := range result.Interactions {
		rows = append(rows, []string{
			strconv.Itoa(s.Index),
			s.Method,
			s.URI,
			strconv.Itoa(s.Status),
			strconv.Itoa(s.BodyBytes),
			s.RecordedAt,
		})
	}

	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft}
	fmt.Fprintln(formatter.Writer, renderTable([]string{"#", "METHOD", "URI", "STATUS", "BODY", "RECORDED AT"}, rows, aligns))
	return nil
}
