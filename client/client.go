package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zkchannel-org/zkchannel/execution"
	"github.com/zkchannel-org/zkchannel/logger"
	"github.com/zkchannel-org/zkchannel/types"
	"github.com/zkchannel-org/zkchannel/wire"
)

type (
	// Config wires a Client together. The program identities are network
	// configuration, injected here rather than compiled in.
	Config struct {
		Transport        Transport
		ChannelProgramID types.Address
		SystemProgramID  types.Address

		// PollInterval and TrackTimeout default to DefaultPollInterval
		// and DefaultTrackTimeout when zero.
		PollInterval time.Duration
		TrackTimeout time.Duration

		// Store is optional, without it submissions are not persisted.
		Store *Store

		Logger *slog.Logger
	}

	// Client submits execution requests and tracks their completion.
	Client struct {
		transport Transport
		builder   *execution.Builder
		tracker   *Tracker
		store     *Store
		log       *slog.Logger
	}
)

func New(cfg Config) (*Client, error) {
	if cfg.Transport == nil {
		return nil, fmt.Errorf("transport is nil")
	}
	builder, err := execution.NewBuilder(cfg.ChannelProgramID, cfg.SystemProgramID)
	if err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With(logger.Module("client"))
	return &Client{
		transport: cfg.Transport,
		builder:   builder,
		tracker:   NewTracker(cfg.Transport, cfg.PollInterval, cfg.TrackTimeout, log),
		store:     cfg.Store,
		log:       log,
	}, nil
}

/*
Execute validates and builds the request, submits the instruction and
returns the resulting submission in Pending state. Validation and
derivation errors are returned before anything reaches the transport. A
transport error here may be retried by the caller, Execute itself never
resubmits, a duplicate execution request must be a deliberate act.
*/
func (c *Client) Execute(ctx context.Context, requester, payer types.Address, req *execution.Request) (*Submission, error) {
	built, err := c.builder.Build(ctx, c.transport, requester, payer, req)
	if err != nil {
		return nil, err
	}
	sub := &Submission{
		ExecutionID:      built.ExecutionID,
		Requester:        requester,
		ExecutionAddress: built.ExecutionAddress,
		ExpirationSlot:   built.ExpirationSlot,
		Status:           StatusSubmitted,
	}

	sig, err := c.transport.SubmitInstruction(ctx, built.Instruction)
	if err != nil {
		return nil, fmt.Errorf("submitting execution request: %w", err)
	}
	sub.Signature = sig
	sub.Status = StatusPending
	c.log.Info("execution request submitted",
		logger.ExecutionID(sub.ExecutionID),
		logger.Addr(sub.ExecutionAddress),
		logger.Signature(sig))

	if c.store != nil {
		if err := c.store.Put(sub); err != nil {
			return nil, fmt.Errorf("persisting submission: %w", err)
		}
	}
	return sub, nil
}

// Track follows the submission to a terminal state, persisting the
// outcome when a store is configured. Semantics are those of
// Tracker.Track: one terminal result, or a closed channel on
// cancellation.
func (c *Client) Track(ctx context.Context, sub *Submission) <-chan TrackResult {
	results := make(chan TrackResult, 1)
	go func() {
		defer close(results)
		res, ok := <-c.tracker.Track(ctx, sub)
		if !ok {
			return
		}
		sub.Status = res.Status
		sub.Output = res.Output
		if res.Err != nil {
			sub.Error = res.Err.Error()
		}
		if c.store != nil && res.Status.Terminal() {
			if err := c.store.Put(sub); err != nil {
				c.log.Warn("persisting tracked submission failed",
					logger.ExecutionID(sub.ExecutionID), logger.Error(err))
			}
		}
		results <- res
	}()
	return results
}

// Status is a single manual poll of the submission's execution account.
// It works independently of any tracker, including after one has been
// cancelled. ErrAccountNotFound means the request has not been picked up
// yet (or its account has already been reaped).
func (c *Client) Status(ctx context.Context, sub *Submission) (*wire.ExecutionStateV1, error) {
	data, err := c.transport.ReadAccount(ctx, sub.ExecutionAddress)
	if err != nil {
		return nil, err
	}
	state, err := wire.DecodeExecutionStateV1(data)
	if err != nil {
		return nil, fmt.Errorf("decoding execution state: %w", err)
	}
	return state, nil
}

// Store exposes the configured submission store, nil when none is set.
func (c *Client) Store() *Store {
	return c.store
}
