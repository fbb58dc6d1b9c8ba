// Package session holds the job-session state machine: URL validation,
// preview fetching, job submission, and status polling against the remote
// processing service. It knows nothing about rendering; a renderer drives it
// through Controller operations and reads Snapshot values.
package session

// PreviewState tags the lifecycle of the preview slot.
type PreviewState int

const (
	PreviewNone PreviewState = iota
	PreviewLoading
	PreviewReady
	PreviewFailed
)

// Preview is an immutable metadata snapshot for a confirmed URL. It is
// replaced wholesale by the next successful fetch, never merged.
type Preview struct {
	Title        string
	ThumbnailURL string
	Artist       string
	Formats      []string
}

// HasFormat reports whether choice is one of the preview's formats.
func (p *Preview) HasFormat(choice string) bool {
	if p == nil {
		return false
	}
	for _, f := range p.Formats {
		if f == choice {
			return true
		}
	}
	return false
}

// FormatKind selects between the two fixed output kinds.
type FormatKind string

const (
	FormatVideo FormatKind = "video"
	FormatAudio FormatKind = "audio"
)

// JobState mirrors the status strings reported by the service. Unknown
// strings pass through and are treated as non-terminal.
type JobState string

const (
	JobQueued     JobState = "queued"
	JobProcessing JobState = "processing"
	JobCompleted  JobState = "completed"
	JobFailed     JobState = "failed"
)

// Terminal reports whether no further transitions occur for this state.
func (s JobState) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// Job is the client-side view of one remote processing job. ID is empty
// between submission and the server's acknowledgement.
type Job struct {
	ID          string
	State       JobState
	Progress    int
	DownloadRef string // set once State is JobCompleted
	ErrMessage  string // set once State is JobFailed
}

// Generic user-facing messages for failures the service gave no detail on.
const (
	msgSubmitFailed  = "could not start processing"
	msgPollingFailed = "lost contact with the processing service"
	msgUnknownError  = "an unknown error occurred"
)

// Snapshot is the read-only view a renderer consumes. Preview and Job are
// copies; mutating them does not touch session state.
type Snapshot struct {
	URL            string
	ValidURL       bool
	PreviewLoading bool
	Preview        *Preview
	SelectedFormat string
	Job            *Job
}
