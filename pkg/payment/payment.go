// Package payment abstracts the hosted checkout processor.
package payment

import (
	"context"
	"errors"
)

// EventCheckoutCompleted is the event type emitted once a checkout is paid.
const EventCheckoutCompleted = "checkout.session.completed"

var (
	// ErrInvalidSignature means the webhook payload failed verification.
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	// ErrMalformedEvent means a verified payload could not be decoded.
	ErrMalformedEvent = errors.New("malformed webhook event")
)

// LineItem is one priced line of a checkout session. UnitAmount is in the
// currency's minor unit.
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
	Images     []string
	Metadata   map[string]string
}

// CheckoutRequest describes a hosted checkout session to create.
type CheckoutRequest struct {
	ClientReferenceID string
	Currency          string
	LineItems         []LineItem
	SuccessURL        string
	CancelURL         string
	Metadata          map[string]string
}

// CheckoutSession is the processor's answer to a CheckoutRequest.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CompletedCheckout is the payload of a checkout.session.completed event.
type CompletedCheckout struct {
	SessionID         string
	ClientReferenceID string
	AmountTotal       int64
	Metadata          map[string]string
}

// Event is a verified webhook notification. Checkout is only set for
// EventCheckoutCompleted.
type Event struct {
	ID       string
	Type     string
	Checkout *CompletedCheckout
}

// Gateway is the payment processor used by checkout and the webhook.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	// ParseWebhook verifies signatureHeader against payload and decodes the event.
	ParseWebhook(payload []byte, signatureHeader string) (*Event, error)
}
