package models

// Match lifecycle statuses (derived from the document, not stored directly)
const (
	MatchStatusOpen                = "open"
	MatchStatusFull                = "full"
	MatchStatusAwaitingResult      = "awaiting_result"
	MatchStatusPendingConfirmation = "pending_confirmation"
	MatchStatusConfirmed           = "confirmed"
)

// Result statuses stored on the match document
const (
	ResultStatusNone      = ""
	ResultStatusPending   = "pending"
	ResultStatusConfirmed = "confirmed"
)

// Team identifiers
const (
	TeamOne = "team1"
	TeamTwo = "team2"
)

// Notification types
const (
	NotificationTypeMatchFull       = "match_full"
	NotificationTypeResultAdded     = "result_added"
	NotificationTypeResultConfirmed = "result_confirmed"
)
