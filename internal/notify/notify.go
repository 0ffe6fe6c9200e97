// Package notify sends best-effort SMS notifications. Delivery failures
// never roll back the business state that triggered them.
package notify

import (
	"context"
	"log"
)

type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// ConsoleSender logs messages instead of sending them. It is the
// default when no Twilio credentials are configured.
type ConsoleSender struct{}

func (ConsoleSender) Send(_ context.Context, to, body string) error {
	log.Printf("SMS to %s: %s", to, body)
	return nil
}
