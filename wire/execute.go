package wire

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/zkchannel-org/zkchannel/types"
)

const (
	// MaxCallbackPrefixLen is the longest instruction prefix the channel
	// program accepts in a callback configuration.
	MaxCallbackPrefixLen = 64

	// DigestLength is the length of the optional input digest.
	DigestLength = 32
)

var (
	ErrPrefixTooLong     = errors.New("callback instruction prefix too long")
	ErrDigestLength      = errors.New("input digest must be 32 bytes")
	ErrDigestMissing     = errors.New("input digest required when input hash verification is on")
	ErrDigestUnexpected  = errors.New("input digest present without input hash verification")
	ErrBufferTooShort    = errors.New("buffer too short")
	ErrTrailingBytes     = errors.New("trailing bytes after request")
	errInvalidBodyLength = errors.New("invalid element length")
)

type (
	// CallbackAccount is an account reference passed through to the
	// callback program, as it appears on the wire.
	CallbackAccount struct {
		Address types.Address
		Role    types.AccountRole
	}

	/*
	   ExecutionRequestV1 is the payload of an ExecuteV1 channel
	   instruction. Canonical encoding, all integers little-endian:

	     tip_u64 ||
	     execution_id_len_u32 || execution_id_bytes ||
	     image_id_len_u32 || image_id_bytes ||
	     callback_program_id (32) ||
	     callback_prefix_len_u32 || callback_prefix_bytes ||
	     forward_output_u8 ||
	     verify_input_hash_u8 ||
	     input_count_u32 || { input_type_u8 || data_len_u32 || data_bytes }* ||
	     input_digest (32, iff verify_input_hash) ||
	     expiration_slot_u64 ||
	     callback_account_count_u32 || { address (32) || role_u8 }* ||
	     prover_version_u8

	   The digest field is present-or-absent, never zero-filled: a zero
	   filled buffer is a different, valid looking digest.
	*/
	ExecutionRequestV1 struct {
		Tip                       uint64
		ExecutionID               string
		ImageID                   string
		CallbackProgramID         types.Address
		CallbackInstructionPrefix []byte
		ForwardOutput             bool
		VerifyInputHash           bool
		Inputs                    []Input
		InputDigest               []byte
		ExpirationSlot            types.Slot
		CallbackAccounts          []CallbackAccount
		ProverVersion             ProverVersion
	}
)

// ProverVersion selects the remote proving backend variant that must
// service the request.
type ProverVersion byte

const (
	ProverVersionDefault ProverVersion = 1
)

func (r *ExecutionRequestV1) IsValid() error {
	if len(r.CallbackInstructionPrefix) > MaxCallbackPrefixLen {
		return fmt.Errorf("%w: %d bytes, max %d", ErrPrefixTooLong, len(r.CallbackInstructionPrefix), MaxCallbackPrefixLen)
	}
	for idx, in := range r.Inputs {
		if err := in.IsValid(); err != nil {
			return fmt.Errorf("input %d: %w", idx, err)
		}
	}
	if r.VerifyInputHash {
		if len(r.InputDigest) == 0 {
			return ErrDigestMissing
		}
		if len(r.InputDigest) != DigestLength {
			return fmt.Errorf("%w, got %d bytes", ErrDigestLength, len(r.InputDigest))
		}
	} else if len(r.InputDigest) != 0 {
		return ErrDigestUnexpected
	}
	for idx, ca := range r.CallbackAccounts {
		if err := ca.Role.IsValid(); err != nil {
			return fmt.Errorf("callback account %d: %w", idx, err)
		}
	}
	return nil
}

// Encode serializes the request into an ExecuteV1 envelope. The encoder
// performs no I/O, it fails only on a malformed request.
func (r *ExecutionRequestV1) Encode() ([]byte, error) {
	if err := r.IsValid(); err != nil {
		return nil, err
	}

	buf := make([]byte, 0, r.encodedSize())
	buf = appendUint64(buf, r.Tip)
	buf = appendLenPrefixed(buf, []byte(r.ExecutionID))
	buf = appendLenPrefixed(buf, []byte(r.ImageID))
	buf = append(buf, r.CallbackProgramID[:]...)
	buf = appendLenPrefixed(buf, r.CallbackInstructionPrefix)
	buf = appendBool(buf, r.ForwardOutput)
	buf = appendBool(buf, r.VerifyInputHash)

	buf = appendUint32(buf, uint32(len(r.Inputs)))
	for _, in := range r.Inputs {
		buf = append(buf, byte(in.Type))
		buf = appendLenPrefixed(buf, in.Data)
	}

	if r.VerifyInputHash {
		buf = append(buf, r.InputDigest...)
	}

	buf = appendUint64(buf, r.ExpirationSlot)

	buf = appendUint32(buf, uint32(len(r.CallbackAccounts)))
	for _, ca := range r.CallbackAccounts {
		buf = append(buf, ca.Address[:]...)
		buf = append(buf, byte(ca.Role))
	}

	buf = append(buf, byte(r.ProverVersion))

	return EncodeEnvelope(TagExecuteV1, buf)
}

func (r *ExecutionRequestV1) encodedSize() int {
	size := 1 + 8 + // tag, tip
		4 + len(r.ExecutionID) +
		4 + len(r.ImageID) +
		types.AddressLength +
		4 + len(r.CallbackInstructionPrefix) +
		1 + 1 + // forward output, verify input hash
		4 + // input count
		8 + // expiration slot
		4 + // callback account count
		1 // prover version
	for _, in := range r.Inputs {
		size += 1 + 4 + len(in.Data)
	}
	if r.VerifyInputHash {
		size += DigestLength
	}
	size += len(r.CallbackAccounts) * (types.AddressLength + 1)
	return size
}

// DecodeExecutionRequestV1 parses an ExecuteV1 envelope produced by Encode.
func DecodeExecutionRequestV1(buf []byte) (*ExecutionRequestV1, error) {
	tag, payload, err := DecodeEnvelope(buf)
	if err != nil {
		return nil, err
	}
	if tag != TagExecuteV1 {
		return nil, fmt.Errorf("expected %s envelope, got %s", TagExecuteV1, tag)
	}

	d := decoder{buf: payload}
	r := &ExecutionRequestV1{}

	r.Tip = d.uint64()
	r.ExecutionID = string(d.lenPrefixed())
	r.ImageID = string(d.lenPrefixed())
	copy(r.CallbackProgramID[:], d.bytes(types.AddressLength))
	r.CallbackInstructionPrefix = cloned(d.lenPrefixed())
	r.ForwardOutput = d.boolean()
	r.VerifyInputHash = d.boolean()

	inputCount := d.uint32()
	if d.err == nil && inputCount > 0 {
		if uint64(inputCount)*5 > uint64(len(payload)) { // 5 = min encoded input size
			d.err = fmt.Errorf("%w: input count %d", errInvalidBodyLength, inputCount)
		} else {
			r.Inputs = make([]Input, 0, inputCount)
			for i := uint32(0); i < inputCount && d.err == nil; i++ {
				in := Input{Type: InputType(d.byteVal())}
				in.Data = cloned(d.lenPrefixed())
				r.Inputs = append(r.Inputs, in)
			}
		}
	}

	if r.VerifyInputHash {
		r.InputDigest = cloned(d.bytes(DigestLength))
	}

	r.ExpirationSlot = d.uint64()

	accountCount := d.uint32()
	if d.err == nil && accountCount > 0 {
		if uint64(accountCount)*(types.AddressLength+1) > uint64(len(payload)) {
			d.err = fmt.Errorf("%w: callback account count %d", errInvalidBodyLength, accountCount)
		} else {
			r.CallbackAccounts = make([]CallbackAccount, 0, accountCount)
			for i := uint32(0); i < accountCount && d.err == nil; i++ {
				var ca CallbackAccount
				copy(ca.Address[:], d.bytes(types.AddressLength))
				ca.Role = types.AccountRole(d.byteVal())
				r.CallbackAccounts = append(r.CallbackAccounts, ca)
			}
		}
	}

	r.ProverVersion = ProverVersion(d.byteVal())

	if d.err != nil {
		return nil, d.err
	}
	if d.off != len(payload) {
		return nil, fmt.Errorf("%w: %d bytes", ErrTrailingBytes, len(payload)-d.off)
	}
	if err := r.IsValid(); err != nil {
		return nil, err
	}
	return r, nil
}

// decoder is a cursor over a payload buffer. The first failure sticks,
// subsequent reads return zero values.
type decoder struct {
	buf []byte
	off int
	err error
}

func (d *decoder) bytes(n int) []byte {
	if d.err != nil {
		return nil
	}
	if d.off+n > len(d.buf) {
		d.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrBufferTooShort, n, d.off, len(d.buf)-d.off)
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) byteVal() byte {
	b := d.bytes(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *decoder) boolean() bool {
	return d.byteVal() != 0
}

func (d *decoder) uint32() uint32 {
	b := d.bytes(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (d *decoder) uint64() uint64 {
	b := d.bytes(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (d *decoder) lenPrefixed() []byte {
	n := d.uint32()
	return d.bytes(int(n))
}

func appendUint32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func appendUint64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

func appendLenPrefixed(buf, data []byte) []byte {
	buf = appendUint32(buf, uint32(len(data)))
	return append(buf, data...)
}

func appendBool(buf []byte, v bool) []byte {
	if v {
		return append(buf, 1)
	}
	return append(buf, 0)
}

func cloned(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
