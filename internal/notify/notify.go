// Package notify tells the user that the process is about to go down.
// Notifications are best effort: the crash path never waits on them.
package notify

import (
	"context"
	"errors"

	"github.com/hugo-lorenzo-mato/crashkeeper/internal/logging"
)

// ErrNoDisplay is returned by notifiers that have nowhere to show a message.
var ErrNoDisplay = errors.New("no display available")

// Notifier shows a short message to the user.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, message string) error

// Notify calls f.
func (f Func) Notify(ctx context.Context, message string) error { return f(ctx, message) }

// Nop discards notifications.
var Nop Notifier = Func(func(context.Context, string) error { return nil })

// LogNotifier reports the message through the logger at error level.
type LogNotifier struct {
	Logger *logging.Logger
}

// Notify implements Notifier.
func (n LogNotifier) Notify(_ context.Context, message string) error {
	if n.Logger == nil {
		return ErrNoDisplay
	}
	n.Logger.Error(message)
	return nil
}

type fallback struct {
	primary, secondary Notifier
}

// Fallback returns a notifier that uses secondary whenever primary fails.
func Fallback(primary, secondary Notifier) Notifier {
	return fallback{primary: primary, secondary: secondary}
}

func (f fallback) Notify(ctx context.Context, message string) error {
	err := f.primary.Notify(ctx, message)
	if err == nil {
		return nil
	}
	if err2 := f.secondary.Notify(ctx, message); err2 != nil {
		return errors.Join(err, err2)
	}
	return nil
}
