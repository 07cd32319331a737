package orpar

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// AdvanceRequest is one loop's advance input for a bulk fan-out.
type AdvanceRequest struct {
	AgentID   string
	ChannelID string
	Result    PhaseResult
	Success   bool
}

// AdvanceOutcome pairs a bulk AdvanceMany request with its outcome.
type AdvanceOutcome struct {
	Request AdvanceRequest
	Status  Status
	Err     error
}

// AdvanceMany advances every request concurrently, one goroutine per
// (agentID, channelID), matching SPEC_FULL.md §4.4's addition of a
// concurrent bulk-advance path alongside the single-loop Advance. The
// Controller's own mutex still serializes access to shared loop state; this
// only parallelizes the per-loop work that happens outside that lock (here,
// none - but the errgroup shape keeps the surface ready for providers whose
// per-loop advance does real I/O before calling Advance).
func (c *Controller) AdvanceMany(ctx context.Context, requests []AdvanceRequest) []AdvanceOutcome {
	outcomes := make([]AdvanceOutcome, len(requests))
	g, _ := errgroup.WithContext(ctx)

	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			status, err := c.Advance(req.AgentID, req.ChannelID, req.Result, req.Success)
			outcomes[i] = AdvanceOutcome{Request: req, Status: status, Err: err}
			return nil
		})
	}

	_ = g.Wait()
	return outcomes
}
