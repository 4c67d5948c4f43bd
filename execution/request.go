/*
Package execution builds submittable execution request instructions for
the channel program: it validates the request, derives the execution and
deployment addresses, encodes the wire payload and assembles the account
list in the order the channel program's calling convention mandates.
*/
package execution

import (
	"errors"
	"fmt"

	"github.com/zkchannel-org/zkchannel/derivation"
	"github.com/zkchannel-org/zkchannel/types"
	"github.com/zkchannel-org/zkchannel/wire"
)

var (
	ErrExecutionIDMissing = errors.New("execution id is missing")
	ErrExecutionIDTooLong = errors.New("execution id too long")
	ErrImageIDMissing     = errors.New("image id is missing")
	ErrCallbackMissing    = errors.New("callback program id is missing")
	ErrNoExpirationWindow = errors.New("expiration window must be greater than zero")
)

type (
	// Request is a single unit of work for the remote proving network.
	// A request is constructed fresh for every submission and never
	// mutated after it has been encoded.
	Request struct {
		// Tip is the fee offered to the network, in native units.
		Tip uint64

		// ExecutionID is the caller chosen identifier, unique per
		// (requester, id) pair. It seeds the execution address and is the
		// lookup key for tracking.
		ExecutionID string

		// ImageID identifies the remote program to invoke.
		ImageID string

		CallbackProgramID         types.Address
		CallbackInstructionPrefix []byte
		CallbackAccounts          []types.AccountMeta

		// ForwardOutput requests the raw output bytes to be forwarded to
		// the callback verbatim.
		ForwardOutput bool

		// VerifyInputHash asks the network to check InputDigest against
		// the inputs before proving.
		VerifyInputHash bool
		InputDigest     []byte

		// Inputs are the positional arguments of the remote program.
		Inputs []wire.Input

		// ExpirationWindow is the number of slots the request stays valid
		// after the slot observed at build time.
		ExpirationWindow uint64

		// ProverVersion selects the proving backend, zero means default.
		ProverVersion wire.ProverVersion
	}
)

func (r *Request) IsValid() error {
	if r.ExecutionID == "" {
		return ErrExecutionIDMissing
	}
	if len(r.ExecutionID) > derivation.MaxSeedLength {
		return fmt.Errorf("%w: %d bytes, max %d", ErrExecutionIDTooLong, len(r.ExecutionID), derivation.MaxSeedLength)
	}
	if r.ImageID == "" {
		return ErrImageIDMissing
	}
	if r.CallbackProgramID.IsZero() {
		return ErrCallbackMissing
	}
	if r.ExpirationWindow == 0 {
		return ErrNoExpirationWindow
	}
	wireReq := r.toWire(0)
	if err := wireReq.IsValid(); err != nil {
		return err
	}
	return nil
}

// ComputedDigest returns the digest of the request's inputs, for callers
// that enable input hash verification without supplying one themselves.
func (r *Request) ComputedDigest() []byte {
	return wire.InputsDigest(r.Inputs)
}

func (r *Request) toWire(expirationSlot types.Slot) *wire.ExecutionRequestV1 {
	callbackAccounts := make([]wire.CallbackAccount, 0, len(r.CallbackAccounts))
	for _, meta := range r.CallbackAccounts {
		callbackAccounts = append(callbackAccounts, wire.CallbackAccount{Address: meta.Address, Role: meta.Role()})
	}
	proverVersion := r.ProverVersion
	if proverVersion == 0 {
		proverVersion = wire.ProverVersionDefault
	}
	return &wire.ExecutionRequestV1{
		Tip:                       r.Tip,
		ExecutionID:               r.ExecutionID,
		ImageID:                   r.ImageID,
		CallbackProgramID:         r.CallbackProgramID,
		CallbackInstructionPrefix: r.CallbackInstructionPrefix,
		ForwardOutput:             r.ForwardOutput,
		VerifyInputHash:           r.VerifyInputHash,
		Inputs:                    r.Inputs,
		InputDigest:               r.InputDigest,
		ExpirationSlot:            expirationSlot,
		CallbackAccounts:          callbackAccounts,
		ProverVersion:             proverVersion,
	}
}
