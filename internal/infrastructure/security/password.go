// Package security holds the credential primitives used when provisioning
// users: a random password generator and a bcrypt hasher.
package security

import (
	"errors"
	"fmt"

	"github.com/sethvargo/go-password/password"
	"golang.org/x/crypto/bcrypt"
)

var ErrEmptyPassword = errors.New("password must not be empty")

// PasswordPolicy controls the shape of generated passwords.
type PasswordPolicy struct {
	Length  int
	Digits  int
	Symbols int
}

// DefaultPasswordPolicy is used when a policy field is left at zero.
var DefaultPasswordPolicy = PasswordPolicy{Length: 12, Digits: 3, Symbols: 2}

// Generator produces a new random password on every call.
type Generator struct {
	policy PasswordPolicy
	gen    *password.Generator
}

// NewGenerator validates policy and returns a Generator. Symbols are limited
// to a set that survives copy-paste from an email client.
func NewGenerator(policy PasswordPolicy) (*Generator, error) {
	if policy.Length <= 0 {
		policy.Length = DefaultPasswordPolicy.Length
	}
	if policy.Digits < 0 || policy.Symbols < 0 || policy.Digits+policy.Symbols > policy.Length {
		return nil, fmt.Errorf("invalid password policy: length=%d digits=%d symbols=%d",
			policy.Length, policy.Digits, policy.Symbols)
	}

	gen, err := password.NewGenerator(&password.GeneratorInput{Symbols: "!@#$%&*-_=+?"})
	if err != nil {
		return nil, fmt.Errorf("password generator: %w", err)
	}
	return &Generator{policy: policy, gen: gen}, nil
}

func (g *Generator) Generate() (string, error) {
	return g.gen.Generate(g.policy.Length, g.policy.Digits, g.policy.Symbols, false, true)
}

// BcryptHasher hashes passwords with bcrypt at a fixed cost.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher clamps cost into bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
