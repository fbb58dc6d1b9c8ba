package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tubegrab/internal/api"
)

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the processing service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := assembleOptions(cmd)
			log := newLogger(opts.Verbose, false)
			client := api.NewClient(opts.ServerURL,
				api.WithLogger(log.With().Str("component", "api").Logger()))

			if err := client.Ping(cmd.Context()); err != nil {
				return &ExitError{Code: ExitServerError, Err: err}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "service reachable at %s\n", opts.ServerURL)
			return nil
		},
	}
}
