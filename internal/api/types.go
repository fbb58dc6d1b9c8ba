package api

// VideoDetails is the preview metadata returned by the service for a source
// URL, including the selectable output formats in server-preferred order.
type VideoDetails struct {
	Title     string   `json:"title"`
	Thumbnail string   `json:"thumbnail"`
	Uploader  string   `json:"uploader"`
	Formats   []string `json:"formats"`
}

// JobRequest describes a processing job to submit. Quality is nil for audio
// jobs; the server ignores it in that case anyway.
type JobRequest struct {
	URL        string  `json:"url"`
	FormatType string  `json:"format_type"`
	Quality    *string `json:"quality"`
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
}

// JobStatus is one status-poll response. DownloadURL is set only once Status
// is "completed"; ErrorMessage only when the job failed server-side.
type JobStatus struct {
	Status       string `json:"status"`
	Progress     int    `json:"progress"`
	ErrorMessage string `json:"error_message,omitempty"`
	DownloadURL  string `json:"download_url,omitempty"`
}

type detailsRequest struct {
	URL string `json:"url"`
}

type jobCreated struct {
	JobID string `json:"job_id"`
}
