package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/zkchannel-org/zkchannel/calculator"
	"github.com/zkchannel-org/zkchannel/client"
	"github.com/zkchannel-org/zkchannel/execution"
	"github.com/zkchannel-org/zkchannel/types"
	"github.com/zkchannel-org/zkchannel/wire"
)

const (
	flagNamePayer            = "payer"
	flagNameImageID          = "image-id"
	flagNameCallbackProgram  = "callback-program"
	flagNameCallbackPrefix   = "callback-prefix"
	flagNameTip              = "tip"
	flagNameExpirationWindow = "expiration-window"
	flagNameOperation        = "operation"
	flagNameOperandA         = "operand-a"
	flagNameOperandB         = "operand-b"
	flagNameVerifyInputHash  = "verify-input-hash"
	flagNameForwardOutput    = "forward-output"
	flagNameWait             = "wait"
)

func newSubmitCmd(config *baseConfiguration) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "submit a calculator execution request",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execSubmitCmd(cmd, config)
		},
	}
	addClientFlags(cmd)
	addStoreFlag(cmd)
	cmd.Flags().String(flagNameRequester, "", "base58 address of the requester")
	cmd.Flags().String(flagNamePayer, "", "base58 address of the fee payer (default is the requester)")
	cmd.Flags().String(flagNameExecutionID, "", "identifier of the execution, unique per requester")
	cmd.Flags().String(flagNameImageID, "", "identifier of the remote calculator image")
	cmd.Flags().String(flagNameCallbackProgram, "", "base58 address of the callback program")
	cmd.Flags().String(flagNameCallbackPrefix, "", "hex encoded callback instruction prefix, must start with 0x")
	cmd.Flags().Uint64(flagNameTip, 0, "tip offered to the proving network")
	cmd.Flags().Uint64(flagNameExpirationWindow, 1000, "number of slots the request stays valid")
	cmd.Flags().StringP(flagNameOperation, "o", "", "calculator operation, one of: add, subtract, multiply, divide")
	cmd.Flags().Int64P(flagNameOperandA, "a", 0, "first operand")
	cmd.Flags().Int64P(flagNameOperandB, "b", 0, "second operand")
	cmd.Flags().Bool(flagNameVerifyInputHash, false, "ask the network to verify the input digest before proving")
	cmd.Flags().Bool(flagNameForwardOutput, false, "forward the raw output to the callback")
	cmd.Flags().BoolP(flagNameWait, "w", false, "wait for the execution to reach a terminal state")
	_ = cmd.MarkFlagRequired(flagNameRequester)
	_ = cmd.MarkFlagRequired(flagNameExecutionID)
	_ = cmd.MarkFlagRequired(flagNameImageID)
	_ = cmd.MarkFlagRequired(flagNameCallbackProgram)
	_ = cmd.MarkFlagRequired(flagNameOperation)
	return cmd
}

func execSubmitCmd(cmd *cobra.Command, config *baseConfiguration) error {
	c, err := buildClient(cmd, config)
	if err != nil {
		return err
	}
	defer func() { _ = c.Store().Close() }()

	requester, err := addressFlag(cmd, flagNameRequester)
	if err != nil {
		return err
	}
	payer := requester
	if payerStr, err := cmd.Flags().GetString(flagNamePayer); err != nil {
		return err
	} else if payerStr != "" {
		if payer, err = types.AddressFromBase58(payerStr); err != nil {
			return fmt.Errorf("invalid payer address: %w", err)
		}
	}

	op, operandA, operandB, err := calculatorArgs(cmd)
	if err != nil {
		return err
	}
	input, err := calculator.Input(op, operandA, operandB)
	if err != nil {
		return err
	}
	req, err := submitRequestFromFlags(cmd, input)
	if err != nil {
		return err
	}

	sub, err := c.Execute(cmd.Context(), requester, payer, req)
	if err != nil {
		return err
	}
	consoleWriter.Println(fmt.Sprintf("submitted: %d %s %d", operandA, op.Symbol(), operandB))
	consoleWriter.Println("execution id: " + sub.ExecutionID)
	consoleWriter.Println("execution address: " + sub.ExecutionAddress.String())
	consoleWriter.Println("signature: " + string(sub.Signature))
	consoleWriter.Println(fmt.Sprintf("expires at slot: %d", sub.ExpirationSlot))

	wait, err := cmd.Flags().GetBool(flagNameWait)
	if err != nil || !wait {
		return err
	}
	res, ok := <-c.Track(cmd.Context(), sub)
	if !ok {
		return cmd.Context().Err()
	}
	return printOutcome(res)
}

func calculatorArgs(cmd *cobra.Command) (op calculator.Operation, operandA, operandB int64, err error) {
	opStr, err := cmd.Flags().GetString(flagNameOperation)
	if err != nil {
		return 0, 0, 0, err
	}
	if op, err = calculator.ParseOperation(opStr); err != nil {
		return 0, 0, 0, err
	}
	if operandA, err = cmd.Flags().GetInt64(flagNameOperandA); err != nil {
		return 0, 0, 0, err
	}
	if operandB, err = cmd.Flags().GetInt64(flagNameOperandB); err != nil {
		return 0, 0, 0, err
	}
	return op, operandA, operandB, nil
}

func submitRequestFromFlags(cmd *cobra.Command, input wire.Input) (*execution.Request, error) {
	callbackProgram, err := addressFlag(cmd, flagNameCallbackProgram)
	if err != nil {
		return nil, err
	}
	var callbackPrefix []byte
	if prefixStr, err := cmd.Flags().GetString(flagNameCallbackPrefix); err != nil {
		return nil, err
	} else if prefixStr != "" {
		if callbackPrefix, err = hexutil.Decode(prefixStr); err != nil {
			return nil, fmt.Errorf("invalid callback prefix: %w", err)
		}
	}

	req := &execution.Request{
		CallbackProgramID:         callbackProgram,
		CallbackInstructionPrefix: callbackPrefix,
		Inputs:                    []wire.Input{input},
	}
	if req.ExecutionID, err = cmd.Flags().GetString(flagNameExecutionID); err != nil {
		return nil, err
	}
	if req.ImageID, err = cmd.Flags().GetString(flagNameImageID); err != nil {
		return nil, err
	}
	if req.Tip, err = cmd.Flags().GetUint64(flagNameTip); err != nil {
		return nil, err
	}
	if req.ExpirationWindow, err = cmd.Flags().GetUint64(flagNameExpirationWindow); err != nil {
		return nil, err
	}
	if req.ForwardOutput, err = cmd.Flags().GetBool(flagNameForwardOutput); err != nil {
		return nil, err
	}
	if req.VerifyInputHash, err = cmd.Flags().GetBool(flagNameVerifyInputHash); err != nil {
		return nil, err
	}
	if req.VerifyInputHash {
		req.InputDigest = req.ComputedDigest()
	}
	return req, nil
}

func printOutcome(res client.TrackResult) error {
	switch res.Status {
	case client.StatusCompleted:
		value, err := calculator.DecodeResult(res.Output)
		if err != nil {
			return fmt.Errorf("decoding calculator result: %w", err)
		}
		consoleWriter.Println(fmt.Sprintf("completed, result: %d", value))
		return nil
	case client.StatusFailed, client.StatusExpired, client.StatusPending:
		consoleWriter.Println("status: " + res.Status.String())
		return res.Err
	default:
		return fmt.Errorf("unexpected tracking status %s", res.Status)
	}
}
