package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zkchannel-org/zkchannel/client"
	"github.com/zkchannel-org/zkchannel/derivation"
	"github.com/zkchannel-org/zkchannel/wire"
)

func newStatusCmd(config *baseConfiguration) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "poll the current state of a submitted execution request",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execStatusCmd(cmd, config)
		},
	}
	addClientFlags(cmd)
	addStoreFlag(cmd)
	cmd.Flags().String(flagNameRequester, "", "base58 address of the requester")
	cmd.Flags().String(flagNameExecutionID, "", "identifier of the execution")
	_ = cmd.MarkFlagRequired(flagNameRequester)
	_ = cmd.MarkFlagRequired(flagNameExecutionID)
	return cmd
}

func execStatusCmd(cmd *cobra.Command, config *baseConfiguration) error {
	c, err := buildClient(cmd, config)
	if err != nil {
		return err
	}
	defer func() { _ = c.Store().Close() }()

	requester, err := addressFlag(cmd, flagNameRequester)
	if err != nil {
		return err
	}
	executionID, err := cmd.Flags().GetString(flagNameExecutionID)
	if err != nil {
		return err
	}

	sub, err := c.Store().Get(requester, executionID)
	if err != nil {
		return err
	}
	if sub == nil {
		// not submitted through this store, the execution address is
		// still derivable from the identities alone
		channelProgram, err := addressFlag(cmd, flagNameChannelProgram)
		if err != nil {
			return err
		}
		addr, _, err := derivation.ExecutionAddress(channelProgram, requester, executionID)
		if err != nil {
			return err
		}
		sub = &client.Submission{
			ExecutionID:      executionID,
			Requester:        requester,
			ExecutionAddress: addr,
			Status:           client.StatusSubmitted,
		}
	}

	state, err := c.Status(cmd.Context(), sub)
	if errors.Is(err, client.ErrAccountNotFound) {
		if sub.Status.Terminal() {
			// the account has been reaped, the stored outcome is all
			// that is left
			consoleWriter.Println("status: " + sub.Status.String())
			return nil
		}
		consoleWriter.Println("status: pending, not picked up yet")
		return nil
	}
	if err != nil {
		return err
	}

	switch state.Status {
	case wire.ExecutionPending:
		sub.Status = client.StatusPending
		consoleWriter.Println("status: pending")
	case wire.ExecutionCompleted:
		sub.Status = client.StatusCompleted
		sub.Output = state.Payload
		consoleWriter.Println("status: completed")
	case wire.ExecutionFailed:
		sub.Status = client.StatusFailed
		sub.Error = string(state.Payload)
		consoleWriter.Println("status: failed, " + sub.Error)
	default:
		return fmt.Errorf("unexpected execution status %d", state.Status)
	}
	if err := c.Store().Put(sub); err != nil {
		return fmt.Errorf("persisting submission: %w", err)
	}
	return nil
}
