package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/wneessen/go-mail"
)

type SMTPTransport struct {
	client *mail.Client
}

func NewSMTPTransport(host string, port int, username, password string) (*SMTPTransport, error) {
	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(username),
			mail.WithPassword(password),
		)
	}
	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPTransport{client: client}, nil
}

func (t *SMTPTransport) Deliver(ctx context.Context, env Envelope) error {
	m := mail.NewMsg()
	if err := m.From(env.From); err != nil {
		return fmt.Errorf("from %q: %w", env.From, err)
	}
	if err := m.To(env.To...); err != nil {
		return fmt.Errorf("to %v: %w", env.To, err)
	}
	m.Subject(env.Subject)
	m.SetBodyString(mail.TypeTextPlain, env.Text)
	if env.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, env.HTML)
	}
	return t.client.DialAndSendWithContext(ctx, m)
}

// ConsoleTransport logs messages instead of sending them. Used in dev.
type ConsoleTransport struct {
	Log *slog.Logger
}

func (t ConsoleTransport) Deliver(_ context.Context, env Envelope) error {
	t.Log.Info("mail", "to", env.To, "subject", env.Subject, "body", env.Text)
	return nil
}

// Outbox keeps delivered messages in memory.
type Outbox struct {
	mu       sync.Mutex
	messages []Envelope
}

func (o *Outbox) Deliver(_ context.Context, env Envelope) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, env)
	return nil
}

func (o *Outbox) Messages() []Envelope {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Envelope, len(o.messages))
	copy(out, o.messages)
	return out
}

func (o *Outbox) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = nil
}
