package alerts

import "time"

// Task type constants
const (
	TaskWelcomeEmail   = "email:welcome"
	TaskOrderPlaced    = "email:order_placed"
	TaskOrderCompleted = "email:order_completed"
	TaskMessageNew     = "email:message_new"
	TaskSellerDecision = "email:seller_decision"
)

const QueueEmails = "emails"

// Common envelope for email-like notifications
type EmailEnvelope struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// EmailPayload is the body of every email task.
type EmailPayload struct {
	UserID    string        `json:"user_id"`
	Reference string        `json:"reference,omitempty"` // order or conversation id
	Envelope  EmailEnvelope `json:"envelope"`
	SentAt    time.Time     `json:"sent_at"`
}
