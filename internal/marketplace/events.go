package marketplace

import (
	"context"
	"errors"
	"time"
)

type EventType string

const (
	EventUserRegistered   EventType = "user.registered"
	EventOrderPlaced      EventType = "order.placed"
	EventOrderCompleted   EventType = "order.completed"
	EventMessageCreated   EventType = "message.created"
	EventConversationRead EventType = "conversation.read"
	EventSellerDecision   EventType = "seller.decision"
)

// Event describes something a recipient may want to hear about. Delivery is
// best effort: a failing Notifier never fails the operation that raised it.
type Event struct {
	Type EventType
	// Recipient
	UserID   string
	Email    string
	Username string
	// Set for conversation and message events.
	ConversationID string
	Payload        any
	At             time.Time
}

type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

type NotifierFunc func(ctx context.Context, ev Event) error

func (f NotifierFunc) Notify(ctx context.Context, ev Event) error { return f(ctx, ev) }

// Notifiers fans an event out to every member and joins their errors.
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, ev Event) error {
	var errs []error
	for _, n := range ns {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
