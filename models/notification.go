package models

import "fmt"

// NotificationsTable is the DynamoDB table for notifications
const NotificationsTable = "Notifications"

// Notification represents an event raised for a single recipient. The sort
// key is derived from (type, matchId), so re-emitting the same logical event
// overwrites the earlier item instead of duplicating it.
type Notification struct {
	UserID         string   `json:"userId" dynamodbav:"userId"`                 // PK (recipient)
	NotificationID string   `json:"notificationId" dynamodbav:"notificationId"` // SK, "<type>#<matchId>"
	Type           string   `json:"type" dynamodbav:"type"`
	MatchID        string   `json:"matchId" dynamodbav:"matchId"`
	MatchTitle     string   `json:"matchTitle" dynamodbav:"matchTitle"`
	Read           bool     `json:"read" dynamodbav:"read"`
	CreatedAt      string   `json:"createdAt" dynamodbav:"createdAt"`
	Score          *Score   `json:"score,omitempty" dynamodbav:"score,omitempty"`
	ConfirmedBy    []string `json:"confirmedBy,omitempty" dynamodbav:"confirmedBy,stringset,omitempty"`
}

// NotificationID builds the dedupe key for a match event.
func NotificationID(notificationType, matchID string) string {
	return fmt.Sprintf("%s#%s", notificationType, matchID)
}
