package alerts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/sudo-init-do/talktrade/internal/logger"
)

// Worker consumes email tasks and hands them to a Mailer.
type Worker struct {
	server *asynq.Server
	mailer Mailer
}

func NewWorker(redis asynq.RedisClientOpt, mailer Mailer) *Worker {
	server := asynq.NewServer(redis, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			QueueEmails: 10,
		},
	})
	return &Worker{server: server, mailer: mailer}
}

func (w *Worker) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	for _, t := range []string{TaskWelcomeEmail, TaskOrderPlaced, TaskOrderCompleted, TaskMessageNew, TaskSellerDecision} {
		mux.HandleFunc(t, w.HandleEmail)
	}
	return mux
}

// Start runs the worker in the background.
func (w *Worker) Start() error {
	if err := w.server.Start(w.Mux()); err != nil {
		return fmt.Errorf("start asynq worker: %w", err)
	}
	logger.Info("alerts worker started")
	return nil
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func (w *Worker) HandleEmail(ctx context.Context, t *asynq.Task) error {
	var p EmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// retrying a malformed payload cannot succeed
		return fmt.Errorf("decode %s: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	if err := w.mailer.Send(ctx, p.Envelope.To, p.Envelope.Subject, p.Envelope.Body); err != nil {
		logger.Error("email send failed", "task", t.Type(), "to", p.Envelope.To, "error", err)
		return err
	}
	logger.Info("email sent", "task", t.Type(), "to", p.Envelope.To, "user_id", p.UserID)
	return nil
}
