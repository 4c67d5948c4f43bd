package wire

import (
	"crypto/sha256"
	"errors"
	"fmt"
)

// InputType tags an execution input as either publicly visible data or
// data only the prover sees. The set is closed, unknown tags are rejected
// before anything reaches the wire.
type InputType byte

const (
	InputPublicData  InputType = 0
	InputPrivateData InputType = 1
)

var ErrUnknownInputType = errors.New("unknown input type")

type (
	// Input is a single positional argument of the remote program. The
	// byte layout inside Data is program specific and is not interpreted
	// at this layer.
	Input struct {
		Type InputType
		Data []byte
	}
)

func PublicInput(data []byte) Input {
	return Input{Type: InputPublicData, Data: data}
}

func PrivateInput(data []byte) Input {
	return Input{Type: InputPrivateData, Data: data}
}

func (i Input) IsValid() error {
	if i.Type != InputPublicData && i.Type != InputPrivateData {
		return fmt.Errorf("%w: %d", ErrUnknownInputType, i.Type)
	}
	return nil
}

/*
InputsDigest returns the SHA-256 digest over the payloads of all inputs,
concatenated in order. Requests with VerifyInputHash set carry this digest
so the remote network can reject inputs tampered with in transit.
*/
func InputsDigest(inputs []Input) []byte {
	hasher := sha256.New()
	for _, in := range inputs {
		hasher.Write(in.Data)
	}
	return hasher.Sum(nil)
}
