package calculator

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/zkchannel-org/zkchannel/wire"
)

const (
	// InputLength is the size of the combined calculator input: three
	// consecutive 8 byte little-endian signed integers, no padding.
	InputLength = 24

	// ResultLength is the size of the committed result: the decimal string
	// representation of the value, padded with spaces to 32 bytes.
	ResultLength = 32
)

// EncodeInput packs operation code and operands into the 24 byte buffer
// the remote guest expects. The guest reads the three values positionally,
// the order here is part of the contract.
func EncodeInput(op Operation, operandA, operandB int64) ([]byte, error) {
	if err := op.IsValid(); err != nil {
		return nil, err
	}
	buf := make([]byte, InputLength)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(op))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(operandA))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(operandB))
	return buf, nil
}

// Input wraps the encoded calculator arguments into the single public
// input carried by the execution request.
func Input(op Operation, operandA, operandB int64) (wire.Input, error) {
	data, err := EncodeInput(op, operandA, operandB)
	if err != nil {
		return wire.Input{}, err
	}
	return wire.PublicInput(data), nil
}

// DecodeInput unpacks a 24 byte calculator input, rejecting unknown
// operation codes.
func DecodeInput(data []byte) (op Operation, operandA, operandB int64, err error) {
	if len(data) != InputLength {
		return 0, 0, 0, fmt.Errorf("calculator input must be %d bytes, got %d bytes", InputLength, len(data))
	}
	op = Operation(binary.LittleEndian.Uint64(data[0:8]))
	if err := op.IsValid(); err != nil {
		return 0, 0, 0, err
	}
	operandA = int64(binary.LittleEndian.Uint64(data[8:16]))
	operandB = int64(binary.LittleEndian.Uint64(data[16:24]))
	return op, operandA, operandB, nil
}

// EncodeResult renders a result value the way the remote guest commits it.
func EncodeResult(value int64) []byte {
	buf := make([]byte, ResultLength)
	s := strconv.FormatInt(value, 10)
	copy(buf, s)
	for i := len(s); i < ResultLength; i++ {
		buf[i] = ' '
	}
	return buf
}

// DecodeResult parses a committed calculator result back into its value.
func DecodeResult(payload []byte) (int64, error) {
	if len(payload) != ResultLength {
		return 0, fmt.Errorf("calculator result must be %d bytes, got %d bytes", ResultLength, len(payload))
	}
	s := string(bytes.TrimRight(payload, " "))
	value, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing calculator result %q: %w", s, err)
	}
	return value, nil
}
