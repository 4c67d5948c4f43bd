package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/zkchannel-org/zkchannel/logger"
	"github.com/zkchannel-org/zkchannel/wire"
)

const (
	// DefaultPollInterval paces the completion polls. Proving takes tens
	// of seconds for this workload and polls are cheap idempotent reads,
	// so a fixed interval without backoff is enough.
	DefaultPollInterval = 20 * time.Second

	// DefaultTrackTimeout caps the total wall-clock time a tracker runs.
	// This is a client side safety bound, separate from the on-chain
	// expiration slot.
	DefaultTrackTimeout = 10 * time.Minute
)

type Tracker struct {
	transport    Transport
	pollInterval time.Duration
	timeout      time.Duration
	log          *slog.Logger
}

func NewTracker(transport Transport, pollInterval, timeout time.Duration, log *slog.Logger) *Tracker {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = DefaultTrackTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{
		transport:    transport,
		pollInterval: pollInterval,
		timeout:      timeout,
		log:          log,
	}
}

/*
Track polls the submission's execution account until a terminal state is
observed, the wall-clock timeout elapses or the context is cancelled.

The returned channel delivers exactly one terminal TrackResult and is then
closed. Cancelling the context stops polling and closes the channel
without a result, the submitted request itself is unaffected, cancellation
is purely local bookkeeping. Each call owns its own timer and state, any
number of submissions may be tracked concurrently over one transport.
*/
func (t *Tracker) Track(ctx context.Context, sub *Submission) <-chan TrackResult {
	results := make(chan TrackResult, 1)
	go t.run(ctx, sub, results)
	return results
}

func (t *Tracker) run(ctx context.Context, sub *Submission, results chan<- TrackResult) {
	defer close(results)

	log := t.log.With(logger.ExecutionID(sub.ExecutionID))
	deadline := time.NewTimer(t.timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		if res, terminal := t.pollOnce(ctx, sub, log); terminal {
			log.Info("tracking finished", logger.Status(res.Status.String()))
			results <- res
			return
		}
		select {
		case <-ctx.Done():
			log.Debug("tracking cancelled")
			return
		case <-deadline.C:
			log.Info("tracking timed out")
			results <- TrackResult{Status: StatusPending, Err: ErrTrackTimeout}
			return
		case <-ticker.C:
		}
	}
}

// pollOnce is a single idempotent read of the execution state. Transport
// errors are not terminal, the poll is simply retried on the next tick
// and the wall-clock timeout bounds the total exposure.
func (t *Tracker) pollOnce(ctx context.Context, sub *Submission, log *slog.Logger) (TrackResult, bool) {
	currentSlot, err := t.transport.CurrentSlot(ctx)
	if err != nil {
		log.Warn("reading current slot failed", logger.Error(err))
		return TrackResult{}, false
	}
	if currentSlot > sub.ExpirationSlot {
		return TrackResult{Status: StatusExpired, Err: ErrExpired}, true
	}

	data, err := t.transport.ReadAccount(ctx, sub.ExecutionAddress)
	if errors.Is(err, ErrAccountNotFound) {
		// the request has not been picked up yet
		return TrackResult{}, false
	}
	if err != nil {
		log.Warn("reading execution account failed", logger.Error(err))
		return TrackResult{}, false
	}

	state, err := wire.DecodeExecutionStateV1(data)
	if err != nil {
		return TrackResult{Status: StatusFailed, Err: fmt.Errorf("decoding execution state: %w", err)}, true
	}
	switch state.Status {
	case wire.ExecutionCompleted:
		return TrackResult{Status: StatusCompleted, Output: state.Payload}, true
	case wire.ExecutionFailed:
		return TrackResult{Status: StatusFailed, Err: &RemoteError{Message: string(state.Payload)}}, true
	default:
		return TrackResult{}, false
	}
}
