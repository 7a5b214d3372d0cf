package security

import (
	"strings"
	"testing"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

func TestGenerator_RespectsPolicy(t *testing.T) {
	gen, err := NewGenerator(PasswordPolicy{Length: 16, Digits: 4, Symbols: 3})
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	pwd, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(pwd) != 16 {
		t.Fatalf("expected length 16, got %d (%q)", len(pwd), pwd)
	}

	var digits, symbols int
	for _, r := range pwd {
		switch {
		case unicode.IsDigit(r):
			digits++
		case strings.ContainsRune("!@#$%&*-_=+?", r):
			symbols++
		}
	}
	if digits != 4 {
		t.Fatalf("expected 4 digits, got %d in %q", digits, pwd)
	}
	if symbols != 3 {
		t.Fatalf("expected 3 symbols, got %d in %q", symbols, pwd)
	}
}

func TestGenerator_NeverReusesValue(t *testing.T) {
	gen, err := NewGenerator(DefaultPasswordPolicy)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		pwd, err := gen.Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if _, dup := seen[pwd]; dup {
			t.Fatalf("password %q generated twice", pwd)
		}
		seen[pwd] = struct{}{}
	}
}

func TestGenerator_InvalidPolicy(t *testing.T) {
	if _, err := NewGenerator(PasswordPolicy{Length: 4, Digits: 3, Symbols: 3}); err == nil {
		t.Fatalf("expected error when digits+symbols exceed length")
	}
	if _, err := NewGenerator(PasswordPolicy{Length: 8, Digits: -1}); err == nil {
		t.Fatalf("expected error for negative digits")
	}
}

func TestBcryptHasher_SaltedAndVerifiable(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	second, err := h.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	if first == second {
		t.Fatalf("expected different hashes for the same plaintext")
	}
	if first == "s3cret-pass" {
		t.Fatalf("hash must not equal plaintext")
	}
	if !h.Verify("s3cret-pass", first) || !h.Verify("s3cret-pass", second) {
		t.Fatalf("both hashes must verify against the plaintext")
	}
	if h.Verify("wrong", first) {
		t.Fatalf("wrong password must not verify")
	}
}

func TestBcryptHasher_RejectsEmpty(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	if _, err := h.Hash(""); err != ErrEmptyPassword {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	if got := NewBcryptHasher(1).cost; got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
	if got := NewBcryptHasher(bcrypt.MinCost).cost; got != bcrypt.MinCost {
		t.Fatalf("expected min cost, got %d", got)
	}
}
