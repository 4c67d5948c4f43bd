/*
Package client submits execution requests to the channel and tracks their
completion by polling the derived execution account.
*/
package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/zkchannel-org/zkchannel/types"
)

// ErrAccountNotFound is returned by ReadAccount when no account exists at
// the queried address.
var ErrAccountNotFound = errors.New("account not found")

// ErrExpired means the on-chain clock passed the request's expiration slot
// before completion was observed. No computation error occurred, the
// window simply lapsed, so it is distinct from a remote failure.
var ErrExpired = errors.New("execution request expired")

// ErrTrackTimeout is the client side wall-clock bound on tracking. It is
// distinct from ErrExpired: the request may still complete on-chain.
var ErrTrackTimeout = errors.New("tracking timed out")

type (
	// Transport is the connection to the host chain node. Implementations
	// must tolerate concurrent readers, multiple trackers share one
	// transport.
	Transport interface {
		// CurrentSlot returns the node's current logical clock value.
		CurrentSlot(ctx context.Context) (types.Slot, error)

		// SubmitInstruction hands the instruction to the network and
		// returns an opaque acknowledgment token.
		SubmitInstruction(ctx context.Context, ix types.Instruction) (types.Signature, error)

		// ReadAccount returns the raw state bytes stored at the address,
		// or ErrAccountNotFound. The read has no remote side effects.
		ReadAccount(ctx context.Context, addr types.Address) ([]byte, error)
	}

	// RemoteError is an error the remote computation itself reported.
	// Resubmitting identical inputs will fail identically, so remote
	// errors are never retried automatically.
	RemoteError struct {
		Message string
	}
)

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote execution failed: %s", e.Message)
}
