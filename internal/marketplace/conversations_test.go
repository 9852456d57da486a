package marketplace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationFlow(t *testing.T) {
	ctx := context.Background()
	l := newTestLocal(t)
	sam, samUser := seller(t, l, "sam")
	bob, bobUser := buyer(t, l, "bob")
	eve, _ := buyer(t, l, "eve")

	_, err := bob.CreateConversation(ctx, CreateConversationRequest{To: bobUser.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = bob.CreateConversation(ctx, CreateConversationRequest{To: "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)

	c, err := bob.CreateConversation(ctx, CreateConversationRequest{To: samUser.ID})
	require.NoError(t, err)
	assert.Equal(t, samUser.ID, c.SellerID)
	assert.Equal(t, bobUser.ID, c.BuyerID)
	assert.True(t, c.ReadByBuyer)
	assert.False(t, c.ReadBySeller)

	again, err := sam.CreateConversation(ctx, CreateConversationRequest{To: bobUser.ID})
	require.NoError(t, err)
	assert.Equal(t, c.ID, again.ID, "the pair shares one conversation")

	m1, err := bob.CreateMessage(ctx, CreateMessageRequest{ConversationID: c.ID, Desc: "hi"})
	require.NoError(t, err)
	assert.Equal(t, bobUser.ID, m1.UserID)
	m2, err := sam.CreateMessage(ctx, CreateMessageRequest{ConversationID: c.ID, Desc: "hello bob"})
	require.NoError(t, err)

	_, err = eve.CreateMessage(ctx, CreateMessageRequest{ConversationID: c.ID, Desc: "let me in"})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = eve.GetSingleConversation(ctx, c.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = eve.GetMessages(ctx, c.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	msgs, err := bob.GetMessages(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, []string{m1.ID, m2.ID}, []string{msgs[0].ID, msgs[1].ID})

	got, err := bob.GetSingleConversation(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello bob", got.LastMessage)
	assert.True(t, got.ReadBySeller)
	assert.False(t, got.ReadByBuyer)
	assert.Equal(t, m2.CreatedAt, got.UpdatedAt)

	read, err := bob.UpdateConversation(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, read.ReadByBuyer)
	_, err = eve.UpdateConversation(ctx, c.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = bob.GetMessages(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = bob.GetSingleConversation(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetConversationsNewestFirst(t *testing.T) {
	ctx := context.Background()
	l := newTestLocal(t)
	bob, _ := buyer(t, l, "bob")

	first, err := bob.CreateConversation(ctx, CreateConversationRequest{To: "101"})
	require.NoError(t, err)
	second, err := bob.CreateConversation(ctx, CreateConversationRequest{To: "102"})
	require.NoError(t, err)

	convs, err := bob.GetConversations(ctx)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, second.ID, convs[0].ID)

	_, err = bob.CreateMessage(ctx, CreateMessageRequest{ConversationID: first.ID, Desc: "bump"})
	require.NoError(t, err)
	convs, err = bob.GetConversations(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, convs[0].ID)

	_, err = l.GetConversations(ctx)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSellersContactingEachOtherShareOneConversation(t *testing.T) {
	ctx := context.Background()
	l := newTestLocal(t)
	sam, samUser := seller(t, l, "sam")
	rita, ritaUser := seller(t, l, "rita")

	first, err := sam.CreateConversation(ctx, CreateConversationRequest{To: ritaUser.ID})
	require.NoError(t, err)
	assert.Equal(t, samUser.ID, first.SellerID)
	assert.Equal(t, ritaUser.ID, first.BuyerID)

	back, err := rita.CreateConversation(ctx, CreateConversationRequest{To: samUser.ID})
	require.NoError(t, err)
	assert.Equal(t, first.ID, back.ID)

	convs, err := rita.GetConversations(ctx)
	require.NoError(t, err)
	assert.Len(t, convs, 1)
}
