package types

import "fmt"

// AccountRole is the permission bit of an account reference as it appears
// on the wire: the remote program rejects instructions where the role does
// not match the access the callback actually needs.
type AccountRole byte

const (
	RoleReadOnly AccountRole = 0
	RoleWritable AccountRole = 1
)

type (
	// AccountMeta references an account in an instruction's account list.
	// The position of the meta in the list is part of the remote program's
	// calling convention.
	AccountMeta struct {
		Address  Address
		Signer   bool
		Writable bool
	}

	// Instruction is a single submittable unit: the program to invoke, the
	// ordered account list and the opaque instruction data.
	Instruction struct {
		ProgramID Address
		Accounts  []AccountMeta
		Data      []byte
	}
)

func NewAccount(addr Address, signer bool) AccountMeta {
	return AccountMeta{Address: addr, Signer: signer, Writable: true}
}

func NewReadOnlyAccount(addr Address, signer bool) AccountMeta {
	return AccountMeta{Address: addr, Signer: signer, Writable: false}
}

func (m AccountMeta) Role() AccountRole {
	if m.Writable {
		return RoleWritable
	}
	return RoleReadOnly
}

func (r AccountRole) IsValid() error {
	if r != RoleReadOnly && r != RoleWritable {
		return fmt.Errorf("unknown account role %d", r)
	}
	return nil
}
