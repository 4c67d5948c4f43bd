// Package wire implements the binary instruction format of the channel
// program. The layouts here are a wire contract: field order and widths are
// parsed positionally on the remote side, so every structure is encoded by
// a dedicated serializer instead of ad hoc buffer concatenation.
package wire

import (
	"errors"
	"fmt"
)

// Tag selects the payload variant of a channel instruction envelope.
type Tag byte

const (
	TagExecuteV1 Tag = 0
	TagStatusV1  Tag = 1
	TagDeployV1  Tag = 2
	TagClaimV1   Tag = 3
)

var (
	ErrUnknownTag  = errors.New("unknown channel instruction tag")
	ErrEmptyBuffer = errors.New("empty instruction buffer")
)

func (t Tag) IsValid() error {
	if t > TagClaimV1 {
		return fmt.Errorf("%w: %d", ErrUnknownTag, t)
	}
	return nil
}

func (t Tag) String() string {
	switch t {
	case TagExecuteV1:
		return "ExecuteV1"
	case TagStatusV1:
		return "StatusV1"
	case TagDeployV1:
		return "DeployV1"
	case TagClaimV1:
		return "ClaimV1"
	default:
		return fmt.Sprintf("Tag(%d)", byte(t))
	}
}

// EncodeEnvelope prepends the variant tag to an already encoded payload.
func EncodeEnvelope(tag Tag, payload []byte) ([]byte, error) {
	if err := tag.IsValid(); err != nil {
		return nil, err
	}
	buf := make([]byte, 0, 1+len(payload))
	buf = append(buf, byte(tag))
	return append(buf, payload...), nil
}

// DecodeEnvelope splits an instruction buffer into its variant tag and
// payload. The payload is a sub-slice of the input, not a copy.
func DecodeEnvelope(buf []byte) (Tag, []byte, error) {
	if len(buf) == 0 {
		return 0, nil, ErrEmptyBuffer
	}
	tag := Tag(buf[0])
	if err := tag.IsValid(); err != nil {
		return 0, nil, err
	}
	return tag, buf[1:], nil
}
