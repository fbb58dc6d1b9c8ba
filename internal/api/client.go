// Package api is the HTTP+JSON client for the remote processing service.
// It covers the three request/response endpoints (preview lookup, job
// submission, status query) plus artifact retrieval.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultTimeout = 30 * time.Second

// Client talks to one service instance identified by its base URL.
type Client struct {
	baseURL   string
	httpc     *http.Client
	userAgent string
	log       zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient injects a custom *http.Client (useful for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpc = hc
	}
}

// WithLogger attaches a diagnostics logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpc.Timeout = d
		}
	}
}

// NewClient constructs a Client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		httpc:     &http.Client{Timeout: defaultTimeout},
		userAgent: "tubegrab",
		log:       zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the configured service base address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// VideoDetails fetches preview metadata for a source URL.
// Any non-2xx response is an error; callers treat every error uniformly as a
// preview failure.
func (c *Client) VideoDetails(ctx context.Context, srcURL string) (VideoDetails, error) {
	var vd VideoDetails
	err := c.postJSON(ctx, "/video-details", detailsRequest{URL: srcURL}, &vd)
	if err != nil {
		c.log.Warn().Err(err).Str("url", srcURL).Msg("preview lookup failed")
		return VideoDetails{}, err
	}
	c.log.Debug().Str("url", srcURL).Str("title", vd.Title).Int("formats", len(vd.Formats)).Msg("preview fetched")
	return vd, nil
}

// StartProcessing submits a job and returns the server-assigned job id.
// A response without a job_id counts as a submission failure.
func (c *Client) StartProcessing(ctx context.Context, req JobRequest) (string, error) {
	var created jobCreated
	if err := c.postJSON(ctx, "/start-processing", req, &created); err != nil {
		c.log.Warn().Err(err).Str("url", req.URL).Msg("job submission failed")
		return "", err
	}
	if created.JobID == "" {
		err := fmt.Errorf("service accepted request but returned no job_id")
		c.log.Warn().Err(err).Str("url", req.URL).Msg("job submission failed")
		return "", err
	}
	c.log.Info().Str("job_id", created.JobID).Str("format", req.FormatType).Msg("job submitted")
	return created.JobID, nil
}

// JobStatus queries the current status of a job.
func (c *Client) JobStatus(ctx context.Context, jobID string) (JobStatus, error) {
	var st JobStatus
	endpoint := c.baseURL + "/status/" + url.PathEscape(jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return JobStatus{}, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return JobStatus{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return JobStatus{}, fmt.Errorf("status query: HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return JobStatus{}, fmt.Errorf("status query: decode: %w", err)
	}
	return st, nil
}

// ArtifactURL resolves a download reference published on completion into an
// absolute URL a user can open.
func (c *Client) ArtifactURL(ref string) string {
	return c.baseURL + "/download/" + url.PathEscape(ref)
}

// Ping checks whether the service base address answers HTTP at all. Any
// response counts, including 404 from the root path; only transport failures
// are reported.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("service unreachable at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// ProgressWriter wraps a writer and reports cumulative bytes after each
// write. Total is -1 when the server sent no Content-Length.
type ProgressWriter struct {
	Writer   io.Writer
	Total    int64
	Written  int64
	OnUpdate func(written, total int64)
}

// Write implements io.Writer.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// DownloadArtifact streams a completed job's artifact to destPath. The
// content goes straight to disk; onProgress may be nil.
func (c *Client) DownloadArtifact(ctx context.Context, ref, destPath string, onProgress func(written, total int64)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ArtifactURL(ref), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("artifact download: HTTP %d", resp.StatusCode)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = f
	if onProgress != nil {
		w = &ProgressWriter{Writer: f, Total: resp.ContentLength, OnUpdate: onProgress}
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return err
	}
	c.log.Info().Str("ref", ref).Str("dest", destPath).Msg("artifact saved")
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: HTTP %d", path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode: %w", path, err)
	}
	return nil
}
