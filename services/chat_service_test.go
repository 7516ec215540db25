package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatService(t *testing.T) (*fakeDynamo, *MatchService, *ChatService) {
	t.Helper()
	fake, matches, _, _ := newTestServices()
	return fake, matches, &ChatService{Dynamo: fake, Matches: matches}
}

func TestSendMessageRequiresMembership(t *testing.T) {
	_, matches, chat := newChatService(t)
	ctx := context.Background()
	match := seedMatch(t, matches, "u1", 4, time.Now().Add(time.Hour))

	msg, err := chat.SendMessage(ctx, match.MatchID, "u1", "anyone up for a warmup?")
	require.NoError(t, err)
	assert.NotEmpty(t, msg.MessageID)
	assert.True(t, msg.IsUnread)

	_, err = chat.SendMessage(ctx, match.MatchID, "stranger", "hi")
	assert.ErrorIs(t, err, ErrNotAParticipant)

	_, err = chat.SendMessage(ctx, "missing-match", "u1", "hello?")
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestGetMessagesByMatch(t *testing.T) {
	_, matches, chat := newChatService(t)
	ctx := context.Background()
	match := seedMatch(t, matches, "u1", 4, time.Now().Add(time.Hour))
	_, err := matches.JoinMatch(ctx, match.MatchID, "u2")
	require.NoError(t, err)

	_, err = chat.SendMessage(ctx, match.MatchID, "u1", "court is booked")
	require.NoError(t, err)
	_, err = chat.SendMessage(ctx, match.MatchID, "u2", "see you there")
	require.NoError(t, err)

	messages, err := chat.GetMessagesByMatchID(ctx, match.MatchID, 100)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	contents := []string{messages[0].Content, messages[1].Content}
	assert.ElementsMatch(t, []string{"court is booked", "see you there"}, contents)
}

func TestMarkMessagesAsRead(t *testing.T) {
	_, matches, chat := newChatService(t)
	ctx := context.Background()
	match := seedMatch(t, matches, "u1", 4, time.Now().Add(time.Hour))
	_, err := matches.JoinMatch(ctx, match.MatchID, "u2")
	require.NoError(t, err)

	_, err = chat.SendMessage(ctx, match.MatchID, "u1", "running late")
	require.NoError(t, err)
	_, err = chat.SendMessage(ctx, match.MatchID, "u2", "no rush")
	require.NoError(t, err)

	require.NoError(t, chat.MarkMessagesAsRead(ctx, match.MatchID, "u2"))

	messages, err := chat.GetMessagesByMatchID(ctx, match.MatchID, 100)
	require.NoError(t, err)
	for _, msg := range messages {
		if msg.SenderID == "u1" {
			assert.False(t, msg.IsUnread, "messages received by u2 are read")
		} else {
			assert.True(t, msg.IsUnread, "u2's own messages stay untouched")
		}
	}
}
