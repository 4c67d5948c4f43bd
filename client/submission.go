package client

import (
	"fmt"

	"github.com/zkchannel-org/zkchannel/types"
)

// TrackStatus is the lifecycle state of a tracked execution request.
// Completed, Failed and Expired are terminal, a tracker leaves Pending at
// most once.
type TrackStatus uint8

const (
	StatusSubmitted TrackStatus = 0
	StatusPending   TrackStatus = 1
	StatusCompleted TrackStatus = 2
	StatusFailed    TrackStatus = 3
	StatusExpired   TrackStatus = 4
)

type (
	// Submission is what survives of an execution request after it has
	// been built and handed to the transport: the identifiers needed for
	// polling plus the last observed state.
	Submission struct {
		_                struct{} `cbor:",toarray"`
		ExecutionID      string
		Requester        types.Address
		ExecutionAddress types.Address
		ExpirationSlot   types.Slot
		Signature        types.Signature
		Status           TrackStatus
		Output           []byte
		Error            string
	}

	// TrackResult is the single terminal notification of a tracked
	// request. Exactly one result is delivered per tracker unless it is
	// cancelled first.
	TrackResult struct {
		Status TrackStatus
		Output []byte
		Err    error
	}
)

func (s TrackStatus) String() string {
	switch s {
	case StatusSubmitted:
		return "submitted"
	case StatusPending:
		return "pending"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusExpired:
		return "expired"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

func (s TrackStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusExpired
}
