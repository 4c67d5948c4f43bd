/*
Package derivation computes deterministic program derived addresses.

An address is derived from an ordered seed list and a namespace program by
searching bump values from 255 downward until the candidate hash is not a
valid curve point. Derivation is a pure function: identical seeds and
namespace always yield the identical address and bump, with no randomness
and no network access.
*/
package derivation

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"filippo.io/edwards25519"

	"github.com/zkchannel-org/zkchannel/types"
)

const (
	// MaxSeeds is the seed count limit of the derivation scheme, the bump
	// seed appended during the search counts towards it.
	MaxSeeds = 16

	// MaxSeedLength is the length limit of a single seed.
	MaxSeedLength = 32

	// derivedAddressMarker domain-separates derived addresses from
	// regular public keys in the hash input.
	derivedAddressMarker = "ProgramDerivedAddress"

	executionSeed  = "execution"
	deploymentSeed = "deployment"
)

var (
	// ErrSeedsExhausted means no bump value yields a valid off-curve
	// address for the given seeds. The caller must change a seed, for an
	// execution address that means picking a new execution id.
	ErrSeedsExhausted = errors.New("no derived address found for seeds")

	ErrTooManySeeds = errors.New("too many seeds")
	ErrSeedTooLong  = errors.New("seed too long")
)

// Derive finds the address and bump seed for the given seeds under the
// namespace program. Failure to find any candidate is surfaced as
// ErrSeedsExhausted, never silently defaulted.
func Derive(seeds [][]byte, programID types.Address) (types.Address, uint8, error) {
	if len(seeds) >= MaxSeeds {
		return types.Address{}, 0, fmt.Errorf("%w: %d seeds, max %d plus bump", ErrTooManySeeds, len(seeds), MaxSeeds-1)
	}
	for i, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return types.Address{}, 0, fmt.Errorf("%w: seed %d is %d bytes, max %d", ErrSeedTooLong, i, len(seed), MaxSeedLength)
		}
	}

	for bump := 255; bump >= 0; bump-- {
		candidate := deriveCandidate(seeds, byte(bump), programID)
		if !onCurve(candidate) {
			return candidate, uint8(bump), nil
		}
	}
	return types.Address{}, 0, ErrSeedsExhausted
}

func deriveCandidate(seeds [][]byte, bump byte, programID types.Address) types.Address {
	hasher := sha256.New()
	for _, seed := range seeds {
		hasher.Write(seed)
	}
	hasher.Write([]byte{bump})
	hasher.Write(programID[:])
	hasher.Write([]byte(derivedAddressMarker))

	var addr types.Address
	copy(addr[:], hasher.Sum(nil))
	return addr
}

// onCurve reports whether b is a valid point encoding, ie whether it could
// collide with an actual public key. Derived addresses must be off curve.
func onCurve(addr types.Address) bool {
	_, err := new(edwards25519.Point).SetBytes(addr[:])
	return err == nil
}

// ExecutionAddress derives the account holding the state of a single
// execution request, seeded by the requester identity and the caller
// chosen execution id.
func ExecutionAddress(programID, requester types.Address, executionID string) (types.Address, uint8, error) {
	return Derive([][]byte{[]byte(executionSeed), requester[:], []byte(executionID)}, programID)
}

// DeploymentAddress derives the account holding the deployment record of a
// remote program image. The image id is hashed first, image ids are not
// bounded by the seed length limit.
func DeploymentAddress(programID types.Address, imageID string) (types.Address, uint8, error) {
	imageDigest := sha256.Sum256([]byte(imageID))
	return Derive([][]byte{[]byte(deploymentSeed), imageDigest[:]}, programID)
}
