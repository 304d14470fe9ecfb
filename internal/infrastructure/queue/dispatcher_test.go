package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/scientifictooffi/itransition-4task/internal/core/ports"
)

type chanMailer struct {
	sent chan ports.VerificationEmail
	err  error
}

func (m *chanMailer) SendVerification(_ context.Context, to, link string) error {
	m.sent <- ports.VerificationEmail{To: to, Link: link}
	return m.err
}

func TestDispatcher_DeliversEnqueuedEmail(t *testing.T) {
	mailer := &chanMailer{sent: make(chan ports.VerificationEmail, 1)}
	d := NewDispatcher(2, mailer, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(ports.VerificationEmail{To: "ann@example.com", Link: "http://localhost:4000/api/verify?token=t1"})

	select {
	case email := <-mailer.sent:
		if email.To != "ann@example.com" {
			t.Fatalf("unexpected recipient: %s", email.To)
		}
		if email.Link != "http://localhost:4000/api/verify?token=t1" {
			t.Fatalf("unexpected link: %s", email.Link)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("email not delivered")
	}
}

func TestDispatcher_SendFailureIsSwallowed(t *testing.T) {
	mailer := &chanMailer{sent: make(chan ports.VerificationEmail, 2), err: errors.New("relay down")}
	d := NewDispatcher(1, mailer, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	// A failed delivery must not take the worker down with it.
	d.Enqueue(ports.VerificationEmail{To: "a@example.com", Link: "l1"})
	d.Enqueue(ports.VerificationEmail{To: "b@example.com", Link: "l2"})

	for i := 0; i < 2; i++ {
		select {
		case <-mailer.sent:
		case <-time.After(2 * time.Second):
			t.Fatalf("delivery %d never attempted", i+1)
		}
	}
}

func TestDispatcher_ShardIsStablePerRecipient(t *testing.T) {
	d := NewDispatcher(4, &chanMailer{sent: make(chan ports.VerificationEmail, 1)}, zerolog.Nop())

	first := d.shardIndex("ann@example.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("ann@example.com"); got != first {
			t.Fatalf("shard changed between calls: %d vs %d", first, got)
		}
	}
}
