// Package cryptox hashes and verifies account passwords.
package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns a password into a salted one-way hash and checks candidates
// against it. Hash output is self-describing; Verify needs no extra state.
type Hasher interface {
	Hash(password []byte) ([]byte, error)
	Verify(hash, password []byte) bool
}

type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a Hasher using the given bcrypt work factor.
// Costs outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Cost() int {
	return h.cost
}

func (h *BcryptHasher) Hash(password []byte) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword(password, h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("password longer than 72 bytes: %w", err)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

func (h *BcryptHasher) Verify(hash, password []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, password) == nil
}

// Wipe zeroes b so a password does not linger in memory after use.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
