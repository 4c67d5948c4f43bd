package types

import (
	"bytes"
	"fmt"

	"github.com/mr-tron/base58"
)

const AddressLength = 32

// Address is a 32 byte account address on the host chain. The zero value
// is not a valid address of any account.
type Address [AddressLength]byte

func AddressFromBytes(b []byte) (Address, error) {
	if len(b) != AddressLength {
		return Address{}, fmt.Errorf("address must be %d bytes, got %d bytes", AddressLength, len(b))
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

func AddressFromBase58(s string) (Address, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("decoding address %q: %w", s, err)
	}
	return AddressFromBytes(b)
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) String() string {
	return base58.Encode(a[:])
}

func (a Address) Eq(b Address) bool {
	return bytes.Equal(a[:], b[:])
}

func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(src []byte) error {
	res, err := AddressFromBase58(string(src))
	if err == nil {
		*a = res
	}
	return err
}
