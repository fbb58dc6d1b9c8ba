package cmd

import (
	"github.com/spf13/cobra"

	"tubegrab/internal/api"
	"tubegrab/internal/ui"
)

func newTuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [url]",
		Short: "Open the interactive terminal UI",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuiExecute,
	}
}

func tuiExecute(cmd *cobra.Command, args []string) error {
	opts := assembleOptions(cmd)
	log := newLogger(opts.Verbose, true)

	client := api.NewClient(opts.ServerURL,
		api.WithLogger(log.With().Str("component", "api").Logger()))

	initial := ""
	if len(args) > 0 {
		initial = args[0]
	}

	if err := ui.Run(cmd.Context(), client, initial, opts, log); err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	return nil
}
