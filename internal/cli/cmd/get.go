package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"tubegrab/internal/api"
	"tubegrab/internal/dirs"
	"tubegrab/internal/model"
	"tubegrab/internal/session"
	"tubegrab/internal/util"
	"tubegrab/internal/util/format"
)

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <url> [url...]",
		Short: "Process one or more video links without the TUI",
		Long:  "Submits each URL to the processing service, waits for the remote job to finish, and prints the artifact URL (or saves the file with --save). URLs are processed concurrently up to --jobs.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  getExecute,
	}
	bindGetFlags(cmd.Flags())
	return cmd
}

func getExecute(cmd *cobra.Command, args []string) error {
	opts := assembleOptions(cmd)
	log := newLogger(opts.Verbose, false)

	for _, u := range args {
		if !session.ValidateURL(u) {
			return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("not a recognized video link: %s", u)}
		}
	}

	client := api.NewClient(opts.ServerURL,
		api.WithLogger(log.With().Str("component", "api").Logger()))

	out := cmd.OutOrStdout()
	var mu sync.Mutex
	var failures []string

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(opts.Jobs)
	for _, u := range args {
		u := u
		g.Go(func() error {
			if err := runSession(ctx, client, u, opts, log, out, &mu); err != nil {
				log.Error().Str("url", u).Err(err).Msg("session failed")
				mu.Lock()
				failures = append(failures, fmt.Sprintf("%s: %v", u, err))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return &ExitError{Code: ExitServerError, Err: err}
	}

	if len(failures) > 0 {
		for _, f := range failures {
			fmt.Fprintln(cmd.ErrOrStderr(), "failed:", f)
		}
		return &ExitError{
			Code: ExitJobFailed,
			Err:  fmt.Errorf("%d of %d job(s) failed", len(failures), len(args)),
		}
	}
	return nil
}

// runSession drives one URL through the whole lifecycle: preview fetch, job
// submission, status polling, and finally printing or saving the artifact.
func runSession(ctx context.Context, client *api.Client, rawURL string, opts model.CLIOptions, log zerolog.Logger, out io.Writer, mu *sync.Mutex) error {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	ctrl := session.NewController(client,
		session.WithPollInterval(opts.PollInterval),
		session.WithLogger(log.With().Str("component", "session").Str("url", rawURL).Logger()))
	defer ctrl.Teardown()

	ctrl.ConfirmURL(rawURL)

	say := func(fmtStr string, a ...any) {
		mu.Lock()
		fmt.Fprintf(out, fmtStr+"\n", a...)
		mu.Unlock()
	}

	label := trimURL(rawURL)
	started := false
	lastProgress := -1
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-ctrl.Events():
			ctrl.Apply(ev)
		}

		snap := ctrl.Snapshot()

		if !started {
			if snap.PreviewLoading {
				continue
			}
			if snap.Preview == nil {
				return fmt.Errorf("could not fetch video details")
			}
			kind := session.FormatVideo
			if opts.Audio {
				kind = session.FormatAudio
			}
			quality := opts.Quality
			if kind == session.FormatVideo && quality == "" {
				quality = snap.SelectedFormat
			}
			if !ctrl.StartJob(kind, quality) {
				return fmt.Errorf("could not start processing")
			}
			say("%s: submitting %s job", snap.Preview.Title, kind)
			started = true
			continue
		}

		job := snap.Job
		if job == nil {
			continue
		}
		switch job.State {
		case session.JobCompleted:
			if opts.Save {
				return saveArtifact(ctx, client, snap, opts, say)
			}
			say("%s: done %s", label, client.ArtifactURL(job.DownloadRef))
			return nil
		case session.JobFailed:
			return fmt.Errorf("%s", job.ErrMessage)
		default:
			if job.Progress != lastProgress {
				lastProgress = job.Progress
				say("%s: %s %d%%", label, job.State, job.Progress)
			}
		}
	}
}

func saveArtifact(ctx context.Context, client *api.Client, snap session.Snapshot, opts model.CLIOptions, say func(string, ...any)) error {
	if err := dirs.Ensure(opts.OutDir); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	title := "untitled"
	if snap.Preview != nil && snap.Preview.Title != "" {
		title = snap.Preview.Title
	}
	ext := ".mp4"
	if opts.Audio {
		ext = ".mp3"
	}
	dest := filepath.Join(opts.OutDir, util.SanitizeFilename(title)+ext)

	var lastMark int64 = -1
	err := client.DownloadArtifact(ctx, snap.Job.DownloadRef, dest, func(written, total int64) {
		// Report every ~4MB so concurrent sessions don't flood the output.
		const stride = 4 << 20
		if written/stride != lastMark {
			lastMark = written / stride
			if total > 0 {
				say("%s: saving %s / %s", title, format.HumanizeBytes(written), format.HumanizeBytes(total))
			} else {
				say("%s: saving %s", title, format.HumanizeBytes(written))
			}
		}
	})
	if err != nil {
		return fmt.Errorf("download artifact: %w", err)
	}
	say("%s: saved %s", title, dest)
	return nil
}

// trimURL shortens a URL for log lines.
func trimURL(u string) string {
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	return strings.TrimPrefix(u, "www.")
}
