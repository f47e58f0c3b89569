// Package mail sends transactional email.
package mail

import "context"

// Message is an outgoing email
type Message struct {
	To       string // Recipient address
	Subject  string // Subject line
	HTMLBody string // HTML body
	TextBody string // Plain text alternative, optional
}

// Sender delivers messages. Implementations report delivery failures to the caller
// and never retry.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to Sender
type SenderFunc func(ctx context.Context, msg Message) error

// Send calls f
func (f SenderFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}
