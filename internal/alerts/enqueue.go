package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/sudo-init-do/talktrade/internal/marketplace"
)

// Enqueuer is the part of *asynq.Client the notifier needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Notifier turns marketplace events into email tasks.
type Notifier struct {
	client Enqueuer
	appURL string
}

func NewNotifier(client Enqueuer, appURL string) *Notifier {
	if appURL == "" {
		appURL = "http://localhost:3000"
	}
	return &Notifier{client: client, appURL: appURL}
}

func (n *Notifier) Notify(ctx context.Context, ev marketplace.Event) error {
	task, ok, err := n.Task(ev)
	if err != nil || !ok {
		return err
	}
	if _, err := n.client.EnqueueContext(ctx, task, asynq.Queue(QueueEmails), asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}
	return nil
}

// Task builds the email task for ev. Events with no email recipient, and
// event types nobody is mailed about, yield ok=false.
func (n *Notifier) Task(ev marketplace.Event) (*asynq.Task, bool, error) {
	if ev.Email == "" {
		return nil, false, nil
	}
	name := ev.Username
	if name == "" {
		name = "there"
	}

	var taskType, ref string
	env := EmailEnvelope{To: ev.Email}
	switch ev.Type {
	case marketplace.EventUserRegistered:
		taskType = TaskWelcomeEmail
		env.Subject = fmt.Sprintf("Welcome to TalkTrade, %s!", name)
		env.Body = fmt.Sprintf("Hi %s, thanks for joining TalkTrade.\n\nOpen TalkTrade: %s\n\nIf the link doesn't work, copy and paste the URL above.", name, n.appURL)
	case marketplace.EventOrderPlaced:
		o, _ := ev.Payload.(marketplace.Order)
		taskType, ref = TaskOrderPlaced, o.ID
		env.Subject = "You have a new order"
		env.Body = fmt.Sprintf("Hi %s, someone ordered %q for ₹%d.\n\nSee your orders: %s/orders", name, o.Title, o.Price, n.appURL)
	case marketplace.EventOrderCompleted:
		o, _ := ev.Payload.(marketplace.Order)
		taskType, ref = TaskOrderCompleted, o.ID
		env.Subject = "Your order is complete"
		env.Body = fmt.Sprintf("Hi %s, your order %q has been completed. Leave a review: %s/gig/%s", name, o.Title, n.appURL, o.GigID)
	case marketplace.EventMessageCreated:
		m, _ := ev.Payload.(marketplace.Message)
		taskType, ref = TaskMessageNew, ev.ConversationID
		env.Subject = "You have a new message"
		env.Body = fmt.Sprintf("Hi %s, you have a new message:\n\n%s\n\nReply: %s/message/%s", name, m.Desc, n.appURL, ev.ConversationID)
	case marketplace.EventSellerDecision:
		status, _ := ev.Payload.(marketplace.SellerRequestStatus)
		taskType = TaskSellerDecision
		env.Subject = "Your seller request was " + string(status)
		env.Body = fmt.Sprintf("Hi %s, your request to sell on TalkTrade was %s.", name, status)
		if status == marketplace.SellerRequestApproved {
			env.Body += fmt.Sprintf("\n\nCreate your first gig: %s/add", n.appURL)
		}
	default:
		return nil, false, nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	b, err := json.Marshal(EmailPayload{UserID: ev.UserID, Reference: ref, Envelope: env, SentAt: at})
	if err != nil {
		return nil, false, err
	}
	return asynq.NewTask(taskType, b), true, nil
}
