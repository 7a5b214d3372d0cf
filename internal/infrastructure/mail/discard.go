package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/comedor/admin-api/internal/core/ports"
)

// DiscardMailer stands in for SMTP when no server is configured. It logs the
// recipient and drops the message; the password is never logged.
type DiscardMailer struct {
	log zerolog.Logger
}

func NewDiscardMailer(log zerolog.Logger) *DiscardMailer {
	return &DiscardMailer{log: log}
}

func (m *DiscardMailer) Send(_ context.Context, msg ports.CredentialEmail) error {
	m.log.Warn().
		Str("to", msg.To).
		Str("username", msg.Username).
		Msg("smtp not configured, credential email discarded")
	return nil
}
