package marketplace

import (
	"context"
	"fmt"
	"sort"
)

// CreateConversation opens a conversation between the signed-in user and
// req.To. A seller initiator takes the seller side, anyone else the buyer
// side. An existing conversation between the two users is returned as is,
// whichever side each of them took in it.
func (l *Local) CreateConversation(ctx context.Context, req CreateConversationRequest) (*Conversation, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	users, err := l.users(ctx)
	if err != nil {
		return nil, err
	}
	me, err := l.requireUser(ctx, users)
	if err != nil {
		return nil, err
	}
	u := users[me]
	if req.To == u.ID {
		return nil, fmt.Errorf("%w: cannot start a conversation with yourself", ErrInvalidInput)
	}
	if findUser(users, req.To) < 0 {
		return nil, fmt.Errorf("%w: user %q", ErrNotFound, req.To)
	}

	sellerID, buyerID := req.To, u.ID
	if u.IsSeller {
		sellerID, buyerID = u.ID, req.To
	}

	convs, err := l.conversations(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range convs {
		if (c.SellerID == sellerID && c.BuyerID == buyerID) || (c.SellerID == buyerID && c.BuyerID == sellerID) {
			return &c, nil
		}
	}

	now := l.now()
	c := Conversation{
		ID:           l.newID(),
		SellerID:     sellerID,
		BuyerID:      buyerID,
		ReadBySeller: u.IsSeller,
		ReadByBuyer:  !u.IsSeller,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := l.saveConversations(ctx, append(convs, c)); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetConversations lists the signed-in user's conversations, most recently
// active first.
func (l *Local) GetConversations(ctx context.Context) ([]Conversation, error) {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	users, err := l.users(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := l.requireUser(ctx, users)
	if err != nil {
		return nil, err
	}
	convs, err := l.conversations(ctx)
	if err != nil {
		return nil, err
	}
	out := []Conversation{}
	for _, c := range convs {
		if c.HasParticipant(users[idx].ID) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (l *Local) GetSingleConversation(ctx context.Context, id string) (*Conversation, error) {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	convs, err := l.conversations(ctx)
	if err != nil {
		return nil, err
	}
	ci := findConversation(convs, id)
	if ci < 0 {
		return nil, fmt.Errorf("%w: conversation %q", ErrNotFound, id)
	}
	users, err := l.users(ctx)
	if err != nil {
		return nil, err
	}
	c := convs[ci]
	if err := l.authorize(users, c.SellerID, c.BuyerID); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateConversation marks the conversation read for the signed-in participant.
func (l *Local) UpdateConversation(ctx context.Context, id string) (*Conversation, error) {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	users, err := l.users(ctx)
	if err != nil {
		return nil, err
	}
	me, err := l.requireUser(ctx, users)
	if err != nil {
		return nil, err
	}
	convs, err := l.conversations(ctx)
	if err != nil {
		return nil, err
	}
	ci := findConversation(convs, id)
	if ci < 0 {
		return nil, fmt.Errorf("%w: conversation %q", ErrNotFound, id)
	}
	c := &convs[ci]
	uid := users[me].ID
	switch uid {
	case c.SellerID:
		c.ReadBySeller = true
	case c.BuyerID:
		c.ReadByBuyer = true
	default:
		return nil, ErrForbidden
	}
	if err := l.saveConversations(ctx, convs); err != nil {
		return nil, err
	}
	l.emit(ctx, Event{Type: EventConversationRead, UserID: uid, ConversationID: c.ID, Payload: *c})
	out := *c
	return &out, nil
}

// CreateMessage appends a message from the signed-in participant and marks
// the conversation unread for the other side.
func (l *Local) CreateMessage(ctx context.Context, req CreateMessageRequest) (*Message, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	users, err := l.users(ctx)
	if err != nil {
		return nil, err
	}
	me, err := l.requireUser(ctx, users)
	if err != nil {
		return nil, err
	}
	convs, err := l.conversations(ctx)
	if err != nil {
		return nil, err
	}
	ci := findConversation(convs, req.ConversationID)
	if ci < 0 {
		return nil, fmt.Errorf("%w: conversation %q", ErrNotFound, req.ConversationID)
	}
	c := &convs[ci]
	uid := users[me].ID
	if !c.HasParticipant(uid) {
		return nil, ErrForbidden
	}
	msgs, err := l.messages(ctx)
	if err != nil {
		return nil, err
	}

	m := Message{
		ID:             l.newID(),
		ConversationID: c.ID,
		UserID:         uid,
		Desc:           req.Desc,
		CreatedAt:      l.now(),
	}
	c.LastMessage = m.Desc
	c.UpdatedAt = m.CreatedAt
	c.ReadBySeller = uid == c.SellerID
	c.ReadByBuyer = uid == c.BuyerID

	if err := l.saveMessages(ctx, append(msgs, m)); err != nil {
		return nil, err
	}
	if err := l.saveConversations(ctx, convs); err != nil {
		return nil, err
	}

	other := c.BuyerID
	if uid == c.BuyerID {
		other = c.SellerID
	}
	ev := Event{Type: EventMessageCreated, UserID: other, ConversationID: c.ID, Payload: m}
	if oi := findUser(users, other); oi >= 0 {
		ev.Email = users[oi].Email
		ev.Username = users[oi].Username
	}
	l.emit(ctx, ev)
	return &m, nil
}

func (l *Local) GetMessages(ctx context.Context, conversationID string) ([]Message, error) {
	l.data.mu.Lock()
	defer l.data.mu.Unlock()

	convs, err := l.conversations(ctx)
	if err != nil {
		return nil, err
	}
	ci := findConversation(convs, conversationID)
	if ci < 0 {
		return nil, fmt.Errorf("%w: conversation %q", ErrNotFound, conversationID)
	}
	users, err := l.users(ctx)
	if err != nil {
		return nil, err
	}
	if err := l.authorize(users, convs[ci].SellerID, convs[ci].BuyerID); err != nil {
		return nil, err
	}
	msgs, err := l.messages(ctx)
	if err != nil {
		return nil, err
	}
	out := []Message{}
	for _, m := range msgs {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}
