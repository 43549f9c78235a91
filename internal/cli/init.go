package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/rewind/internal/config"
)

// InitResult holds init results.
type InitResult struct {
	Path string `json:"path"`
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Long: `Write a fully commented starter config file.

The file is written to the path given with --config, or to ` + config.DefaultConfigName + `
in the working directory. Existing files are never overwritten.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(rootOpts, cmd)
		},
	}

	return cmd
}

func runInit(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultConfigName
	}

	if err := config.CreateSample(path); err != nil {
		return outputCommandError(formatter, ErrCodeWriteFailed, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(InitResult{Path: path})
	}

	mark := paint("✓", ansiGreen, shouldColorize(formatter.Writer))
	fmt.Fprintf(formatter.Writer, "%s Wrote starter config to %s\n", mark, path)
	return nil
}
