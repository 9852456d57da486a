package marketplace

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Notify(_ context.Context, ev Event) error {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	return nil
}

func (r *recorder) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

func TestOperationsRaiseEvents(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	l := newTestLocal(t, WithNotifier(rec))

	sam, samUser := seller(t, l, "sam")
	bob, _ := buyer(t, l, "bob")

	g, err := sam.CreateGig(ctx, gigRequest("Logo", CategoryDesign, 500))
	require.NoError(t, err)
	o, err := bob.CreateOrder(ctx, CreateOrderRequest{GigID: g.ID})
	require.NoError(t, err)
	_, err = sam.ConfirmOrder(ctx, o.ID)
	require.NoError(t, err)
	c, err := bob.CreateConversation(ctx, CreateConversationRequest{To: samUser.ID})
	require.NoError(t, err)
	_, err = bob.CreateMessage(ctx, CreateMessageRequest{ConversationID: c.ID, Desc: "hi"})
	require.NoError(t, err)
	_, err = sam.UpdateConversation(ctx, c.ID)
	require.NoError(t, err)

	assert.Equal(t, []EventType{
		EventUserRegistered,
		EventSellerDecision,
		EventUserRegistered,
		EventOrderPlaced,
		EventOrderCompleted,
		EventMessageCreated,
		EventConversationRead,
	}, rec.types())

	msg := rec.events[5]
	assert.Equal(t, samUser.ID, msg.UserID)
	assert.Equal(t, c.ID, msg.ConversationID)
	assert.Equal(t, "sam@example.com", msg.Email)
}

func TestFailingNotifierDoesNotFailOperation(t *testing.T) {
	broken := NotifierFunc(func(context.Context, Event) error { return errors.New("queue down") })
	rec := &recorder{}
	l := newTestLocal(t, WithNotifier(Notifiers{broken, nil, rec}))

	register(t, l, "bob", false)
	assert.Equal(t, []EventType{EventUserRegistered}, rec.types())
}

func TestNotifiersJoinErrors(t *testing.T) {
	a := NotifierFunc(func(context.Context, Event) error { return errors.New("a") })
	b := NotifierFunc(func(context.Context, Event) error { return errors.New("b") })
	err := Notifiers{a, b}.Notify(context.Background(), Event{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a")
	assert.Contains(t, err.Error(), "b")
}
