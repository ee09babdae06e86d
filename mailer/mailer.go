// Package mailer renders templated notification emails and hands them to a transport.
package mailer

import (
	"context"
	"errors"
	"fmt"
)

var ErrNoRecipients = errors.New("mailer: no recipients")

// Message is what callers ask to have sent: a template name, its context,
// the recipients and the timezone dates should be shown in.
type Message struct {
	Template string
	Context  map[string]any
	To       []string
	Timezone string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Envelope is a rendered message ready for delivery.
type Envelope struct {
	From    string
	To      []string
	Subject string
	Text    string
	HTML    string
}

type Transport interface {
	Deliver(ctx context.Context, env Envelope) error
}

// Owl renders messages from the embedded templates and delivers them.
type Owl struct {
	renderer  *Renderer
	transport Transport
	from      string
}

func NewOwl(transport Transport, from string) (*Owl, error) {
	r, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	return &Owl{renderer: r, transport: transport, from: from}, nil
}

func (o *Owl) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	for _, to := range msg.To {
		if to == "" {
			return ErrNoRecipients
		}
	}

	rendered, err := o.renderer.Render(msg.Template, msg.Context, msg.Timezone)
	if err != nil {
		return err
	}

	env := Envelope{
		From:    o.from,
		To:      msg.To,
		Subject: rendered.Subject,
		Text:    rendered.Text,
		HTML:    rendered.HTML,
	}
	if err := o.transport.Deliver(ctx, env); err != nil {
		return fmt.Errorf("deliver %s: %w", msg.Template, err)
	}
	return nil
}
