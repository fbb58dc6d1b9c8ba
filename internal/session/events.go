package session

import "tubegrab/internal/api"

// Event is an asynchronous completion delivered on the controller's event
// channel. The owner goroutine must feed every received event back through
// Controller.Apply; events never mutate state on their own.
type Event interface {
	isEvent()
}

// previewEvent resolves a preview fetch, successful or not.
type previewEvent struct {
	gen     uint64
	details api.VideoDetails
	err     error
}

// submitEvent resolves a job submission.
type submitEvent struct {
	gen   uint64
	jobID string
	err   error
}

// statusEvent carries one status-poll response (or the transport error that
// ended the polling loop).
type statusEvent struct {
	gen    uint64
	jobID  string
	status api.JobStatus
	err    error
}

func (previewEvent) isEvent() {}
func (submitEvent) isEvent()  {}
func (statusEvent) isEvent()  {}
