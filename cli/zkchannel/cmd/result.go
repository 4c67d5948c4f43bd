package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zkchannel-org/zkchannel/calculator"
	"github.com/zkchannel-org/zkchannel/client"
)

func newResultCmd(config *baseConfiguration) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "result",
		Short: "decode the calculator result of a completed execution",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execResultCmd(cmd, config)
		},
	}
	addStoreFlag(cmd)
	cmd.Flags().String(flagNameRequester, "", "base58 address of the requester")
	cmd.Flags().String(flagNameExecutionID, "", "identifier of the execution")
	_ = cmd.MarkFlagRequired(flagNameRequester)
	_ = cmd.MarkFlagRequired(flagNameExecutionID)
	return cmd
}

func execResultCmd(cmd *cobra.Command, config *baseConfiguration) error {
	store, err := openStore(cmd, config)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	requester, err := addressFlag(cmd, flagNameRequester)
	if err != nil {
		return err
	}
	executionID, err := cmd.Flags().GetString(flagNameExecutionID)
	if err != nil {
		return err
	}

	sub, err := store.Get(requester, executionID)
	if err != nil {
		return err
	}
	if sub == nil {
		return fmt.Errorf("no stored submission for execution id %q", executionID)
	}
	switch sub.Status {
	case client.StatusCompleted:
		value, err := calculator.DecodeResult(sub.Output)
		if err != nil {
			return fmt.Errorf("decoding calculator result: %w", err)
		}
		consoleWriter.Println(value)
		return nil
	case client.StatusFailed:
		return fmt.Errorf("execution failed: %s", sub.Error)
	default:
		return fmt.Errorf("execution is not completed, current status: %s (run the status command to refresh)", sub.Status)
	}
}
