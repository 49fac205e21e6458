package notify

import "context"

// Notifier delivers one message to a human operator. Implementations may
// fail transiently; failures are the caller's problem to log and must never
// block or corrupt the alert state machine.
type Notifier interface {
	Send(ctx context.Context, subject, body string) error
}

// Multi fans a message out to every configured channel and reports the
// first failure (the rest still get attempted).
type Multi []Notifier

func (m Multi) Send(ctx context.Context, subject, body string) error {
	var firstErr error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Send(ctx, subject, body); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
