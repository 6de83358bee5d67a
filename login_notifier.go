package gate

import (
	"context"
	"time"
)

// LoginNotification is the payload for the post-login side channel.
type LoginNotification struct {
	Email     string
	Timestamp time.Time
}

// LoginNotifier consumes login notifications, typically forwarding them to
// an external mailer. Implementations run best-effort.
type LoginNotifier interface {
	Notify(ctx context.Context, event LoginNotification) error
}

// LoginNotifierFunc adapts a function to the LoginNotifier interface.
type LoginNotifierFunc func(ctx context.Context, event LoginNotification) error

// Notify implements LoginNotifier.
func (f LoginNotifierFunc) Notify(ctx context.Context, event LoginNotification) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopLoginNotifier struct{}

func (noopLoginNotifier) Notify(context.Context, LoginNotification) error {
	return nil
}

func normalizeLoginNotifier(n LoginNotifier) LoginNotifier {
	if n == nil {
		return noopLoginNotifier{}
	}
	return n
}

// NotifyLogin fires the notification without blocking the caller. A failed
// or slow mailer never affects the login success path; errors are logged
// and dropped. The notification outlives the request context.
func NotifyLogin(ctx context.Context, notifier LoginNotifier, logger Logger, email string) {
	if logger == nil {
		logger = defLogger{}
	}

	sink := normalizeLoginNotifier(notifier)
	event := LoginNotification{
		Email:     email,
		Timestamp: time.Now(),
	}

	go func() {
		if err := sink.Notify(context.WithoutCancel(ctx), event); err != nil {
			logger.Warn("login notification failed", "error", err, "email", email)
		}
	}()
}
