package models

// MessagesTable is the DynamoDB table for per-match chat messages
const MessagesTable = "Messages"

// Message represents a chat message inside a match.
type Message struct {
	MatchID   string `json:"matchId" dynamodbav:"matchId"`     // PK
	MessageID string `json:"messageId" dynamodbav:"messageId"` // SK
	SenderID  string `json:"senderId" dynamodbav:"senderId"`
	Content   string `json:"content" dynamodbav:"content"`
	CreatedAt string `json:"createdAt" dynamodbav:"createdAt"`
	IsUnread  bool   `json:"isUnread" dynamodbav:"isUnread"`
}
