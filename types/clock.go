package types

// Slot is the logical clock of the host chain. Expiration of execution
// requests is expressed in slots, not wall-clock time.
type Slot = uint64

// Signature is the opaque acknowledgment token returned by the transport
// for a submitted instruction.
type Signature string
