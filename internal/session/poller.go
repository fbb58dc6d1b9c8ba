package session

import (
	"context"
	"time"
)

// armPoller starts the status-polling loop for a job. At most one loop is
// armed per session; arming cancels any previous one first.
func (c *Controller) armPoller(jobID string, gen uint64) {
	c.stopPoller()
	pctx, cancel := context.WithCancel(c.ctx)
	c.cancelPoll = cancel
	go c.pollLoop(pctx, jobID, gen)
}

// stopPoller cancels the armed polling loop, if any. Safe to call repeatedly.
func (c *Controller) stopPoller() {
	if c.cancelPoll != nil {
		c.cancelPoll()
		c.cancelPoll = nil
	}
}

// pollLoop queries the job's status once per interval until it observes a
// terminal status, a transport failure, or cancellation. Each response is
// delivered as an event; the generation check in Apply covers the window
// between cancellation and an already-resolved request, so a late response
// can never resurrect a replaced job.
func (c *Controller) pollLoop(ctx context.Context, jobID string, gen uint64) {
	timer := time.NewTimer(c.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		if ctx.Err() != nil {
			return
		}

		st, err := c.client.JobStatus(ctx, jobID)
		if ctx.Err() != nil {
			// Cancelled while the request was in flight; the response is stale.
			return
		}
		if !c.deliver(statusEvent{gen: gen, jobID: jobID, status: st, err: err}) {
			return
		}
		if err != nil || JobState(st.Status).Terminal() {
			return
		}
		timer.Reset(c.interval)
	}
}
