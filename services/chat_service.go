package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"padel_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// ChatService stores per-match chat messages. Only joined players may post.
type ChatService struct {
	Dynamo  DynamoAPI
	Matches *MatchService
}

// GetMessagesByMatchID fetches messages for a match, newest first.
func (cs *ChatService) GetMessagesByMatchID(ctx context.Context, matchID string, limit int) ([]models.Message, error) {
	keyCondition := "#matchId = :matchId"
	expressionValues := map[string]types.AttributeValue{
		":matchId": &types.AttributeValueMemberS{Value: matchID},
	}
	expressionNames := map[string]string{
		"#matchId": "matchId",
	}

	items, err := cs.Dynamo.QueryItems(ctx, models.MessagesTable, keyCondition, expressionValues, expressionNames, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt > messages[j].CreatedAt
	})
	return messages, nil
}

// SendMessage stores a new message after checking the sender is a participant.
func (cs *ChatService) SendMessage(ctx context.Context, matchID, senderID, content string) (*models.Message, error) {
	match, err := cs.Matches.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasPlayer(senderID) {
		return nil, ErrNotAParticipant
	}

	message := models.Message{
		MatchID:   matchID,
		MessageID: uuid.NewString(),
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		IsUnread:  true,
	}
	if err := cs.Dynamo.PutItem(ctx, models.MessagesTable, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}
	return &message, nil
}

// MarkMessagesAsRead marks the messages the user received in a match as read.
func (cs *ChatService) MarkMessagesAsRead(ctx context.Context, matchID, userID string) error {
	messages, err := cs.GetMessagesByMatchID(ctx, matchID, 100)
	if err != nil {
		return err
	}

	for _, msg := range messages {
		if msg.SenderID == userID || !msg.IsUnread {
			continue
		}
		key := map[string]types.AttributeValue{
			"matchId":   &types.AttributeValueMemberS{Value: matchID},
			"messageId": &types.AttributeValueMemberS{Value: msg.MessageID},
		}
		updateExpression := "SET isUnread = :false"
		expressionValues := map[string]types.AttributeValue{
			":false": &types.AttributeValueMemberBOOL{Value: false},
		}
		if _, err := cs.Dynamo.UpdateItem(ctx, models.MessagesTable, updateExpression, key, expressionValues, nil); err != nil {
			return fmt.Errorf("failed to mark message %s as read: %w", msg.MessageID, err)
		}
	}
	return nil
}
