/*
Package calculator implements the input and result formats of the remote
calculator program, the demo workload of the channel. The remote guest
reads three little-endian signed 64 bit values (operation code, operand A,
operand B) from a single public input and commits the result as a 32 byte
space padded decimal string.
*/
package calculator

import (
	"errors"
	"fmt"
	"strings"
)

// Operation is the arithmetic operation code as the remote guest reads it.
type Operation int64

const (
	Add      Operation = 0
	Subtract Operation = 1
	Multiply Operation = 2
	Divide   Operation = 3
)

var ErrUnknownOperation = errors.New("unknown operation")

// ParseOperation maps a user supplied operation name to its code. Both the
// long names and their common short forms are accepted.
func ParseOperation(s string) (Operation, error) {
	switch strings.ToLower(s) {
	case "add":
		return Add, nil
	case "subtract", "sub":
		return Subtract, nil
	case "multiply", "mul":
		return Multiply, nil
	case "divide", "div":
		return Divide, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOperation, s)
	}
}

func (op Operation) IsValid() error {
	if op < Add || op > Divide {
		return fmt.Errorf("%w: code %d", ErrUnknownOperation, int64(op))
	}
	return nil
}

func (op Operation) String() string {
	switch op {
	case Add:
		return "add"
	case Subtract:
		return "subtract"
	case Multiply:
		return "multiply"
	case Divide:
		return "divide"
	default:
		return fmt.Sprintf("operation(%d)", int64(op))
	}
}

func (op Operation) Symbol() string {
	switch op {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	default:
		return "?"
	}
}
