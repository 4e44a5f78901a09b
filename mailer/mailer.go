package mailer

import "context"

// Message is one outbound notification email.
type Message struct {
	To       string
	Subject  string
	Body     string
	Kind     string
	Metadata map[string]string
}

// Mailer is the transport implemented by the embedding application (SMTP,
// provider API, message queue). Send may block; the engine never calls it
// directly, only through a [Dispatcher].
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NoOp discards every message.
type NoOp struct{}

// Send implements [Mailer].
func (NoOp) Send(context.Context, Message) error { return nil }

// Channel delivers messages to an in-process channel. Intended for tests.
type Channel struct {
	messages chan Message
}

// NewChannel creates a Channel mailer with the given buffer.
func NewChannel(buffer int) *Channel {
	if buffer <= 0 {
		buffer = 1
	}
	return &Channel{
		messages: make(chan Message, buffer),
	}
}

// Send implements [Mailer].
func (c *Channel) Send(ctx context.Context, msg Message) error {
	select {
	case c.messages <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Messages exposes the delivery channel.
func (c *Channel) Messages() <-chan Message {
	return c.messages
}
