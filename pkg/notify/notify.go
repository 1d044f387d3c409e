// Package notify provides the delivery boundary for finished invoices.
// The core pipeline only depends on the Notifier interface; the concrete
// transport lives behind it.
package notify

import (
	"context"
	"fmt"
	"time"
)

// Notifier delivers a rendered invoice summary to a destination.
type Notifier interface {
	// Deliver sends the summary to the destination identifier.
	// Failures are returned as *DeliveryError; transport-level problems
	// never panic.
	Deliver(ctx context.Context, summary, destination string) (*DeliveryResult, error)
}

// DeliveryResult reports a successful delivery.
type DeliveryResult struct {
	Channel     string
	Destination string
	SentAt      time.Time
}

// DeliveryError reports a failed delivery. Transient failures (network
// conditions, timeouts, server-side errors) may be retried by the
// caller; permanent ones will not succeed without operator action.
type DeliveryError struct {
	Transient bool
	Reason    string
	Err       error
}

func (e *DeliveryError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	if e.Err != nil {
		return fmt.Sprintf("delivery failed (%s): %s: %v", kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("delivery failed (%s): %s", kind, e.Reason)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Greeting returns a greeting for the given time of day. It prefixes
// delivered messages, matching the tone of a personal assistant.
func Greeting(t time.Time) string {
	hour := t.Hour()
	switch {
	case hour < 12:
		return "Good Morning"
	case hour < 17:
		return "Good Afternoon"
	default:
		return "Good Evening"
	}
}
