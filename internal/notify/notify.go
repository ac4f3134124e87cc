// Package notify delivers templated email notifications.
//
// Delivery is best effort by contract: services record the returned Outcome
// in their logs and carry on, so a failed or skipped notification never
// fails the operation that triggered it.
package notify

import "context"

// Kind identifies the notification template.
type Kind string

const (
	KindExpenseAssigned     Kind = "expense_assigned"
	KindSettlementConfirmed Kind = "settlement_confirmed"
)

// Message is the payload handed to a sender.
type Message struct {
	Kind           Kind
	RecipientEmail string
	RecipientName  string
	SenderName     string
	ExpenseTitle   string
	Amount         float64
}

// Status distinguishes "did not attempt" from "attempted and failed".
type Status string

const (
	StatusDelivered Status = "delivered"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Outcome is the result of a delivery attempt. It is a value, not an error:
// callers log it and never propagate it as their own failure.
type Outcome struct {
	Status Status
	Err    error
}

func Delivered() Outcome       { return Outcome{Status: StatusDelivered} }
func Failed(err error) Outcome { return Outcome{Status: StatusFailed, Err: err} }
func Skipped() Outcome         { return Outcome{Status: StatusSkipped} }

// Notifier sends a single notification message.
type Notifier interface {
	Send(ctx context.Context, msg Message) Outcome
}

// Nop is a Notifier that skips every message. Used in tests and when
// notifications are disabled.
type Nop struct{}

func (Nop) Send(ctx context.Context, msg Message) Outcome { return Skipped() }
