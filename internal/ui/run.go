package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"tubegrab/internal/api"
	"tubegrab/internal/model"
	"tubegrab/internal/session"
)

// Run launches the interactive session UI and blocks until the user quits or
// the context is cancelled.
func Run(ctx context.Context, client *api.Client, initialURL string, opts model.CLIOptions, log zerolog.Logger) error {
	ctrl := session.NewController(client,
		session.WithPollInterval(opts.PollInterval),
		session.WithLogger(log.With().Str("component", "session").Logger()))
	defer ctrl.Teardown()

	m := NewModel(ctx, ctrl, client, initialURL, opts, log)
	prog := tea.NewProgram(m, tea.WithContext(ctx))
	_, err := prog.Run()
	return err
}
