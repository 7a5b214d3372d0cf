package ports

import "context"

// PasswordGenerator produces a fresh random plaintext password on every call.
type PasswordGenerator interface {
	Generate() (string, error)
}

// PasswordHasher one-way hashes passwords with a salted adaptive function.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// CredentialEmail is the message sent to a freshly provisioned user.
type CredentialEmail struct {
	To       string
	Name     string
	Username string
	Password string
}

// Notifier delivers credentials out-of-band. Implementations may deliver
// asynchronously; a nil error only means the message was accepted.
type Notifier interface {
	SendCredentialEmail(ctx context.Context, msg CredentialEmail) error
}
