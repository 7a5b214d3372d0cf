package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/comedor/admin-api/internal/core/domain"
	"github.com/comedor/admin-api/internal/core/ports"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []ports.CredentialEmail
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg ports.CredentialEmail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func TestMailDispatcher_DeliversQueuedEmails(t *testing.T) {
	sender := &recordingSender{}
	d := NewMailDispatcher(sender, 2, 10, time.Second, zerolog.Nop())
	d.Start(context.Background())

	for _, to := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		if err := d.SendCredentialEmail(context.Background(), ports.CredentialEmail{To: to, Username: to, Password: "p"}); err != nil {
			t.Fatalf("enqueue %s: %v", to, err)
		}
	}

	d.Close()

	if got := sender.count(); got != 3 {
		t.Fatalf("expected 3 deliveries, got %d", got)
	}
}

func TestMailDispatcher_QueueFull(t *testing.T) {
	sender := &recordingSender{}
	d := NewMailDispatcher(sender, 1, 1, time.Second, zerolog.Nop())
	// Not started: the single slot fills and the next call must not block.

	if err := d.SendCredentialEmail(context.Background(), ports.CredentialEmail{To: "a@example.com"}); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	if err := d.SendCredentialEmail(context.Background(), ports.CredentialEmail{To: "b@example.com"}); !errors.Is(err, domain.ErrMailQueueFull) {
		t.Fatalf("expected ErrMailQueueFull, got %v", err)
	}
}

func TestMailDispatcher_RejectsAfterClose(t *testing.T) {
	d := NewMailDispatcher(&recordingSender{}, 1, 4, time.Second, zerolog.Nop())
	d.Start(context.Background())
	d.Close()

	if err := d.SendCredentialEmail(context.Background(), ports.CredentialEmail{To: "a@example.com"}); !errors.Is(err, domain.ErrMailQueueFull) {
		t.Fatalf("expected ErrMailQueueFull after close, got %v", err)
	}
}

func TestMailDispatcher_SenderFailureDoesNotStopWorkers(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	d := NewMailDispatcher(sender, 1, 4, time.Second, zerolog.Nop())
	d.Start(context.Background())

	_ = d.SendCredentialEmail(context.Background(), ports.CredentialEmail{To: "a@example.com"})
	_ = d.SendCredentialEmail(context.Background(), ports.CredentialEmail{To: "b@example.com"})
	d.Close()

	if got := sender.count(); got != 0 {
		t.Fatalf("expected no successful deliveries, got %d", got)
	}
}
