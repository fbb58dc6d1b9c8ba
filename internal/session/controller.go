package session

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"tubegrab/internal/api"
)

const defaultPollInterval = time.Second

// Client is the slice of the remote service the session needs.
// *api.Client satisfies it.
type Client interface {
	VideoDetails(ctx context.Context, srcURL string) (api.VideoDetails, error)
	StartProcessing(ctx context.Context, req api.JobRequest) (string, error)
	JobStatus(ctx context.Context, jobID string) (api.JobStatus, error)
}

// Controller owns one session's state and orchestrates the validate →
// preview → submit → poll flow.
//
// Controller is confined to a single owner goroutine: all operations,
// Apply, and Snapshot must be called from it. Asynchronous work runs in
// goroutines that never touch state; they deliver an Event on Events(),
// and the owner hands it back through Apply. Apply drops events whose
// generation no longer matches the latest request, so a superseded fetch or
// a cancelled poller can never overwrite newer state.
type Controller struct {
	client   Client
	log      zerolog.Logger
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	events chan Event

	url            string
	valid          bool
	previewState   PreviewState
	preview        *Preview
	selectedFormat string
	job            *Job

	fetchGen    uint64
	cancelFetch context.CancelFunc

	jobGen     uint64
	cancelPoll context.CancelFunc
}

// Option configures a Controller.
type Option func(*Controller)

// WithPollInterval overrides the status-poll interval (default 1s).
func WithPollInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithLogger attaches a diagnostics logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// NewController constructs a Controller bound to the given service client.
func NewController(client Client, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		client:   client,
		log:      zerolog.Nop(),
		interval: defaultPollInterval,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Events is the channel asynchronous completions arrive on. The owner must
// pass each received event to Apply.
func (c *Controller) Events() <-chan Event {
	return c.events
}

// SetURL records an edit of the URL text. Empty text resets validation and
// preview state to the baseline; a running job, if any, is left alone.
func (c *Controller) SetURL(text string) {
	c.url = text
	if text == "" {
		c.resetPreview()
	}
}

// ConfirmURL validates text and, when it passes, starts a preview fetch that
// supersedes any fetch still in flight. Invalid text clears the preview and
// marks the URL invalid; no request is issued.
func (c *Controller) ConfirmURL(text string) {
	c.url = text
	if !ValidateURL(text) {
		c.resetPreview()
		return
	}

	c.valid = true
	c.previewState = PreviewLoading
	c.preview = nil
	c.selectedFormat = ""

	c.fetchGen++
	if c.cancelFetch != nil {
		c.cancelFetch()
	}
	gen := c.fetchGen
	fctx, fcancel := context.WithCancel(c.ctx)
	c.cancelFetch = fcancel

	go func() {
		vd, err := c.client.VideoDetails(fctx, text)
		c.deliver(previewEvent{gen: gen, details: vd, err: err})
	}()
}

// SelectFormat records a quality choice. Choices outside the current
// preview's format list are ignored, so a selection can never outlive the
// preview it belongs to.
func (c *Controller) SelectFormat(choice string) {
	if c.previewState != PreviewReady || !c.preview.HasFormat(choice) {
		return
	}
	c.selectedFormat = choice
}

// StartJob submits a processing job for the confirmed URL. It is a no-op
// (returning false) unless a preview is ready. Any previous job and poller
// are discarded first; the session never tracks two jobs at once.
func (c *Controller) StartJob(kind FormatKind, quality string) bool {
	if c.previewState != PreviewReady || c.preview == nil {
		return false
	}
	if kind == FormatVideo && quality == "" {
		quality = c.selectedFormat
	}

	c.jobGen++
	c.stopPoller()
	c.job = &Job{State: JobQueued}

	req := api.JobRequest{
		URL:        c.url,
		FormatType: string(kind),
		Title:      c.preview.Title,
		Artist:     c.preview.Artist,
	}
	if kind == FormatVideo {
		q := quality
		req.Quality = &q
	}

	gen := c.jobGen
	go func() {
		id, err := c.client.StartProcessing(c.ctx, req)
		c.deliver(submitEvent{gen: gen, jobID: id, err: err})
	}()
	return true
}

// Teardown cancels any in-flight fetch and any armed poller. Idempotent;
// call when the session ends.
func (c *Controller) Teardown() {
	c.stopPoller()
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}
	c.cancel()
}

// Apply folds an asynchronous completion into session state. Events from
// superseded fetches, replaced jobs, or cancelled pollers are dropped here.
func (c *Controller) Apply(ev Event) {
	switch ev := ev.(type) {
	case previewEvent:
		c.applyPreview(ev)
	case submitEvent:
		c.applySubmit(ev)
	case statusEvent:
		c.applyStatus(ev)
	}
}

// Snapshot returns a read-only copy of the observable state.
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		URL:            c.url,
		ValidURL:       c.valid,
		PreviewLoading: c.previewState == PreviewLoading,
		SelectedFormat: c.selectedFormat,
	}
	if c.preview != nil {
		p := *c.preview
		p.Formats = append([]string(nil), c.preview.Formats...)
		snap.Preview = &p
	}
	if c.job != nil {
		j := *c.job
		snap.Job = &j
	}
	return snap
}

func (c *Controller) applyPreview(ev previewEvent) {
	if ev.gen != c.fetchGen {
		c.log.Debug().Uint64("gen", ev.gen).Msg("dropping superseded preview result")
		return
	}
	if ev.err != nil {
		// Silent for the user: no preview is the signal. Diagnostics only.
		c.log.Warn().Err(ev.err).Str("url", c.url).Msg("preview unavailable")
		c.previewState = PreviewFailed
		c.preview = nil
		return
	}
	c.previewState = PreviewReady
	c.preview = &Preview{
		Title:        ev.details.Title,
		ThumbnailURL: ev.details.Thumbnail,
		Artist:       ev.details.Uploader,
		Formats:      append([]string(nil), ev.details.Formats...),
	}
	if c.selectedFormat == "" || !c.preview.HasFormat(c.selectedFormat) {
		if len(c.preview.Formats) > 0 {
			c.selectedFormat = c.preview.Formats[0]
		} else {
			c.selectedFormat = ""
		}
	}
}

func (c *Controller) applySubmit(ev submitEvent) {
	if ev.gen != c.jobGen {
		c.log.Debug().Uint64("gen", ev.gen).Msg("dropping superseded submission result")
		return
	}
	if ev.err != nil {
		c.job = &Job{State: JobFailed, ErrMessage: msgSubmitFailed}
		return
	}
	c.job = &Job{ID: ev.jobID, State: JobProcessing}
	c.armPoller(ev.jobID, ev.gen)
}

func (c *Controller) applyStatus(ev statusEvent) {
	if ev.gen != c.jobGen || c.job == nil || c.job.ID != ev.jobID {
		c.log.Debug().Str("job_id", ev.jobID).Msg("dropping stale status result")
		return
	}
	if ev.err != nil {
		c.job.State = JobFailed
		c.job.ErrMessage = msgPollingFailed
		c.stopPoller()
		return
	}

	c.job.State = JobState(ev.status.Status)
	c.job.Progress = ev.status.Progress
	switch {
	case c.job.State == JobCompleted:
		c.job.DownloadRef = ev.status.DownloadURL
	case c.job.State == JobFailed:
		c.job.ErrMessage = ev.status.ErrorMessage
		if c.job.ErrMessage == "" {
			c.job.ErrMessage = msgUnknownError
		}
	}
	if c.job.State.Terminal() {
		c.stopPoller()
	}
}

func (c *Controller) resetPreview() {
	c.valid = false
	c.previewState = PreviewNone
	c.preview = nil
	c.selectedFormat = ""
	// Invalidate any fetch still in flight so its late result cannot
	// repopulate the slot we just cleared.
	c.fetchGen++
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}
}

// deliver hands an event to the owner goroutine. Returns false when the
// session is being torn down and nobody is listening anymore.
func (c *Controller) deliver(ev Event) bool {
	select {
	case c.events <- ev:
		return true
	case <-c.ctx.Done():
		return false
	}
}
