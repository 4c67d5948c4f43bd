package execution

import (
	"context"
	"errors"
	"fmt"

	"github.com/zkchannel-org/zkchannel/derivation"
	"github.com/zkchannel-org/zkchannel/types"
)

var (
	ErrChannelProgramMissing = errors.New("channel program id is missing")
	ErrRequesterMissing      = errors.New("requester address is missing")
	ErrPayerMissing          = errors.New("payer address is missing")
)

type (
	// ClockSource supplies the current slot of the host chain. Reading it
	// is the single point where building an otherwise pure instruction
	// touches the outside world.
	ClockSource interface {
		CurrentSlot(ctx context.Context) (types.Slot, error)
	}

	// Builder assembles execution request instructions. The program
	// identities are injected, never compiled-in literals, so the builder
	// is testable against any network identity.
	Builder struct {
		channelProgramID types.Address
		systemProgramID  types.Address
	}

	// BuiltRequest is a wire-ready instruction together with the derived
	// addresses needed to track its completion. The request itself is
	// discarded after the build, only these survive for polling.
	BuiltRequest struct {
		Instruction       types.Instruction
		ExecutionID       string
		ExecutionAddress  types.Address
		DeploymentAddress types.Address
		ExpirationSlot    types.Slot
	}
)

func NewBuilder(channelProgramID, systemProgramID types.Address) (*Builder, error) {
	if channelProgramID.IsZero() {
		return nil, ErrChannelProgramMissing
	}
	return &Builder{
		channelProgramID: channelProgramID,
		systemProgramID:  systemProgramID,
	}, nil
}

/*
Build validates the request, reads the current slot once to anchor the
expiration window, derives the execution and deployment addresses and
assembles the final instruction.

The account order is fixed by the channel program's calling convention:
requester (signer, writable), payer (signer, writable), execution account
(writable), deployment account (read-only), callback program (read-only),
system program (read-only), then the callback's extra accounts in caller
order with their declared roles. Build does not validate the business
semantics of the inputs, that is the remote program's concern.
*/
func (b *Builder) Build(ctx context.Context, clock ClockSource, requester, payer types.Address, req *Request) (*BuiltRequest, error) {
	if requester.IsZero() {
		return nil, ErrRequesterMissing
	}
	if payer.IsZero() {
		return nil, ErrPayerMissing
	}
	if req == nil {
		return nil, errors.New("request is nil")
	}
	if err := req.IsValid(); err != nil {
		return nil, fmt.Errorf("invalid execution request: %w", err)
	}

	currentSlot, err := clock.CurrentSlot(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading current slot: %w", err)
	}
	expirationSlot := currentSlot + req.ExpirationWindow

	executionAddr, _, err := derivation.ExecutionAddress(b.channelProgramID, requester, req.ExecutionID)
	if err != nil {
		return nil, fmt.Errorf("deriving execution address: %w", err)
	}
	deploymentAddr, _, err := derivation.DeploymentAddress(b.channelProgramID, req.ImageID)
	if err != nil {
		return nil, fmt.Errorf("deriving deployment address: %w", err)
	}

	data, err := req.toWire(expirationSlot).Encode()
	if err != nil {
		return nil, fmt.Errorf("encoding execution request: %w", err)
	}

	accounts := make([]types.AccountMeta, 0, 6+len(req.CallbackAccounts))
	accounts = append(accounts,
		types.NewAccount(requester, true),
		types.NewAccount(payer, true),
		types.NewAccount(executionAddr, false),
		types.NewReadOnlyAccount(deploymentAddr, false),
		types.NewReadOnlyAccount(req.CallbackProgramID, false),
		types.NewReadOnlyAccount(b.systemProgramID, false),
	)
	accounts = append(accounts, req.CallbackAccounts...)

	return &BuiltRequest{
		Instruction: types.Instruction{
			ProgramID: b.channelProgramID,
			Accounts:  accounts,
			Data:      data,
		},
		ExecutionID:       req.ExecutionID,
		ExecutionAddress:  executionAddr,
		DeploymentAddress: deploymentAddr,
		ExpirationSlot:    expirationSlot,
	}, nil
}
