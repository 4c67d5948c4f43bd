package wire

import (
	"errors"
	"fmt"
)

// ExecutionStatus is the completion flag stored in the derived execution
// account by the channel program.
type ExecutionStatus byte

const (
	ExecutionPending   ExecutionStatus = 0
	ExecutionCompleted ExecutionStatus = 1
	ExecutionFailed    ExecutionStatus = 2
)

const executionStateVersion = 1

var (
	ErrUnknownStateVersion = errors.New("unknown execution state version")
	ErrUnknownStatus       = errors.New("unknown execution status")
)

type (
	/*
	   ExecutionStateV1 is the layout of the derived execution account:

	     version_u8 || status_u8 || payload_len_u32 || payload_bytes

	   On completion the payload is the output committed by the remote
	   program, on failure it is the error message reported by it.
	*/
	ExecutionStateV1 struct {
		Status  ExecutionStatus
		Payload []byte
	}
)

func (s ExecutionStatus) String() string {
	switch s {
	case ExecutionPending:
		return "pending"
	case ExecutionCompleted:
		return "completed"
	case ExecutionFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", byte(s))
	}
}

func (s *ExecutionStateV1) Encode() ([]byte, error) {
	if s.Status > ExecutionFailed {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, s.Status)
	}
	buf := make([]byte, 0, 2+4+len(s.Payload))
	buf = append(buf, executionStateVersion, byte(s.Status))
	return appendLenPrefixed(buf, s.Payload), nil
}

func DecodeExecutionStateV1(buf []byte) (*ExecutionStateV1, error) {
	d := decoder{buf: buf}
	if v := d.byteVal(); d.err == nil && v != executionStateVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStateVersion, v)
	}
	s := &ExecutionStateV1{}
	s.Status = ExecutionStatus(d.byteVal())
	s.Payload = cloned(d.lenPrefixed())
	if d.err != nil {
		return nil, d.err
	}
	if s.Status > ExecutionFailed {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, s.Status)
	}
	return s, nil
}
