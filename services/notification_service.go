package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"padel_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// NotificationService fans out typed notifications for match events.
// Emission is fire-and-forget relative to the transition that triggered it:
// callers log a failed emit and move on.
type NotificationService struct {
	Dynamo DynamoAPI
}

// EmitMatchEvent writes one notification per recipient for a match event.
// The sort key is derived from (type, matchId), so retries and duplicate
// emissions overwrite instead of piling up.
func (ns *NotificationService) EmitMatchEvent(ctx context.Context, notificationType string, match *models.Match, recipients []string) error {
	if len(recipients) == 0 {
		return nil
	}
	createdAt := time.Now().UTC().Format(time.RFC3339)

	var writeRequests []types.WriteRequest
	for _, userID := range recipients {
		notification := models.Notification{
			UserID:         userID,
			NotificationID: models.NotificationID(notificationType, match.MatchID),
			Type:           notificationType,
			MatchID:        match.MatchID,
			MatchTitle:     match.Title,
			CreatedAt:      createdAt,
		}
		switch notificationType {
		case models.NotificationTypeResultAdded:
			notification.Score = match.Score
		case models.NotificationTypeResultConfirmed:
			notification.Score = match.Score
			notification.ConfirmedBy = match.ConfirmedBy
		}

		item, err := attributevalue.MarshalMap(notification)
		if err != nil {
			return fmt.Errorf("failed to marshal notification for %s: %w", userID, err)
		}
		writeRequests = append(writeRequests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}

	if err := ns.Dynamo.BatchWriteItems(ctx, models.NotificationsTable, writeRequests); err != nil {
		return fmt.Errorf("failed to emit %s notifications: %w", notificationType, err)
	}
	return nil
}

// GetNotifications returns a user's notifications, newest first.
func (ns *NotificationService) GetNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	keyCondition := "userId = :userId"
	expressionValues := map[string]types.AttributeValue{
		":userId": &types.AttributeValueMemberS{Value: userID},
	}

	items, err := ns.Dynamo.QueryItems(ctx, models.NotificationsTable, keyCondition, expressionValues, nil, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	var notifications []models.Notification
	if err := attributevalue.UnmarshalListOfMaps(items, &notifications); err != nil {
		return nil, fmt.Errorf("failed to parse notifications: %w", err)
	}

	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt > notifications[j].CreatedAt
	})
	return notifications, nil
}

// MarkRead flips the read flag; only the recipient may call this.
func (ns *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	key := map[string]types.AttributeValue{
		"userId":         &types.AttributeValueMemberS{Value: userID},
		"notificationId": &types.AttributeValueMemberS{Value: notificationID},
	}
	updateExpression := "SET #r = :read"
	expressionValues := map[string]types.AttributeValue{
		":read": &types.AttributeValueMemberBOOL{Value: true},
	}
	expressionNames := map[string]string{
		"#r": "read",
	}

	_, err := ns.Dynamo.UpdateItem(ctx, models.NotificationsTable, updateExpression, key, expressionValues, expressionNames)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return nil
}

// CleanupOrphans deletes notifications whose match no longer exists and
// returns how many were removed. Safe to run repeatedly.
func (ns *NotificationService) CleanupOrphans(ctx context.Context) (int, error) {
	var notifications []models.Notification
	if err := ns.Dynamo.ScanWithFilter(ctx, models.NotificationsTable, nil, nil, &notifications); err != nil {
		return 0, fmt.Errorf("failed to scan notifications: %w", err)
	}

	// Cache match existence so a fan-out to N users costs one lookup
	matchExists := map[string]bool{}
	removed := 0
	for _, n := range notifications {
		exists, seen := matchExists[n.MatchID]
		if !seen {
			key := map[string]types.AttributeValue{
				"matchId": &types.AttributeValueMemberS{Value: n.MatchID},
			}
			_, err := ns.Dynamo.GetItem(ctx, models.MatchesTable, key)
			switch {
			case err == nil:
				exists = true
			case errors.Is(err, ErrItemNotFound):
				exists = false
			default:
				log.Printf("cleanup: failed to check match %s: %v", n.MatchID, err)
				continue
			}
			matchExists[n.MatchID] = exists
		}
		if exists {
			continue
		}

		key := map[string]types.AttributeValue{
			"userId":         &types.AttributeValueMemberS{Value: n.UserID},
			"notificationId": &types.AttributeValueMemberS{Value: n.NotificationID},
		}
		if err := ns.Dynamo.DeleteItem(ctx, models.NotificationsTable, key); err != nil {
			log.Printf("cleanup: failed to delete notification %s/%s: %v", n.UserID, n.NotificationID, err)
			continue
		}
		removed++
	}
	return removed, nil
}
