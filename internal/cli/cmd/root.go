package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"tubegrab/internal/config"
	"tubegrab/internal/dirs"
	"tubegrab/internal/model"
)

const (
	ExitOK          = 0
	ExitCLIError    = 1
	ExitServerError = 2
	ExitJobFailed   = 3
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tubegrab [url]",
		Short:         "Terminal client for a remote video download service",
		Long:          "Tubegrab drives a remote video download/convert service from the terminal. Paste a link, preview the video, pick a quality, and watch the remote job through to a finished artifact, either interactively in a TUI or headless with 'tubegrab get'.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Interactive on a terminal, headless otherwise.
			noUI, _ := cmd.Flags().GetBool("no-ui")
			if !noUI && isTerminal() {
				return tuiExecute(cmd, args)
			}
			if len(args) == 0 {
				_ = cmd.Usage()
				return &ExitError{Code: ExitCLIError, Err: errors.New("no url given")}
			}
			return getExecute(cmd, args)
		},
	}

	// Persistent flags available to all subcommands
	root.PersistentFlags().String("server", config.DefaultServerURL, "Base URL of the processing service")
	root.PersistentFlags().StringP("out-dir", "o", "", "Directory for saved artifacts (default: ~/Downloads/tubegrab)")
	root.PersistentFlags().BoolP("verbose", "v", false, "Debug logging")
	root.PersistentFlags().Int("jobs", 2, "Max concurrent sessions in 'get'")
	root.PersistentFlags().Duration("poll-interval", time.Second, "Job status poll interval")

	// Also bind get-specific flags on root, so `tubegrab <url>` works piped.
	bindGetFlags(root.Flags())

	_ = config.Init(root)

	// Subcommands
	root.AddCommand(newGetCmd())
	root.AddCommand(newTuiCmd())
	root.AddCommand(newPingCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

func bindGetFlags(fs *pflag.FlagSet) {
	fs.Bool("audio", false, "Extract audio (MP3) instead of video")
	fs.String("quality", "", "Video quality label (e.g. 720p); default is the server's first offer")
	fs.Bool("save", false, "Download the finished artifact instead of printing its URL")
	fs.Duration("timeout", 15*time.Minute, "Give up on a URL after this long (0 = never)")
	fs.Bool("no-ui", false, "Disable TUI; use plain textual output")
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	return root.ExecuteContext(ctx)
}

// assembleOptions resolves runtime options with precedence
// flag > env/config > default.
func assembleOptions(cmd *cobra.Command) model.CLIOptions {
	opts := model.CLIOptions{
		ServerURL:    config.Server(),
		OutDir:       viper.GetString("out_dir"),
		Verbose:      viper.GetBool("verbose"),
		Jobs:         viper.GetInt("jobs"),
		PollInterval: viper.GetDuration("poll_interval"),
	}
	if opts.Jobs <= 0 {
		opts.Jobs = 2
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	if opts.OutDir == "" {
		opts.OutDir = dirs.DefaultDownloadDir()
	}

	opts.Audio, _ = cmd.Flags().GetBool("audio")
	opts.Quality, _ = cmd.Flags().GetString("quality")
	opts.Save, _ = cmd.Flags().GetBool("save")
	opts.Timeout, _ = cmd.Flags().GetDuration("timeout")
	opts.NoUI, _ = cmd.Flags().GetBool("no-ui")
	return opts
}

// newLogger builds the diagnostics logger. In TUI mode output goes to a log
// file under the state dir so it cannot corrupt the rendered screen.
func newLogger(verbose, tui bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	if tui {
		if dir, err := dirs.StateDir(); err == nil && dirs.Ensure(dir) == nil {
			path := filepath.Join(dir, "tubegrab.log")
			if f, ferr := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); ferr == nil {
				return zerolog.New(f).With().Timestamp().Logger().Level(level)
			}
		}
		return zerolog.Nop()
	}

	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(w).With().Timestamp().Logger().Level(level)
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
