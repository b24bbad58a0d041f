package notify

import "context"

// Sender delivers a single notification message to an external endpoint.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// SenderFunc adapts an ordinary function to the Sender interface.
type SenderFunc func(ctx context.Context, text string) error

// Send calls f(ctx, text).
func (f SenderFunc) Send(ctx context.Context, text string) error {
	return f(ctx, text)
}
