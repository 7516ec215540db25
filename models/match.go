package models

import "time"

// MatchesTable is the DynamoDB table for matches
const MatchesTable = "Matches"

// Match represents a padel match document.
// playersJoined, team1, team2 and confirmedBy are stored as DynamoDB string
// sets so that ADD/DELETE updates behave as idempotent set-union/set-remove.
type Match struct {
	MatchID       string   `json:"matchId" dynamodbav:"matchId"` // PK
	Title         string   `json:"title" dynamodbav:"title"`
	Venue         string   `json:"venue,omitempty" dynamodbav:"venue,omitempty"`
	CreatedBy     string   `json:"createdBy" dynamodbav:"createdBy"` // provenance, not ownership
	Date          string   `json:"date" dynamodbav:"date"`           // scheduled start, RFC3339
	CreatedAt     string   `json:"createdAt" dynamodbav:"createdAt"`
	PlayersNeeded int      `json:"playersNeeded" dynamodbav:"playersNeeded"`
	PlayersJoined []string `json:"playersJoined,omitempty" dynamodbav:"playersJoined,stringset,omitempty"`
	Team1         []string `json:"team1,omitempty" dynamodbav:"team1,stringset,omitempty"`
	Team2         []string `json:"team2,omitempty" dynamodbav:"team2,stringset,omitempty"`
	Score         *Score   `json:"score,omitempty" dynamodbav:"score,omitempty"`
	ResultStatus  string   `json:"resultStatus,omitempty" dynamodbav:"resultStatus,omitempty"`
	ConfirmedBy   []string `json:"confirmedBy,omitempty" dynamodbav:"confirmedBy,stringset,omitempty"`
}

// TeamSize is the fixed capacity of each side in padel.
const TeamSize = 2

// HasPlayer reports whether userID has joined the match.
func (m *Match) HasPlayer(userID string) bool {
	return containsString(m.PlayersJoined, userID)
}

// HasConfirmed reports whether userID already confirmed the pending result.
func (m *Match) HasConfirmed(userID string) bool {
	return containsString(m.ConfirmedBy, userID)
}

// TeamOf returns the team userID occupies, or "" if unassigned.
func (m *Match) TeamOf(userID string) string {
	if containsString(m.Team1, userID) {
		return TeamOne
	}
	if containsString(m.Team2, userID) {
		return TeamTwo
	}
	return ""
}

// IsFull reports whether the match has reached its configured size.
func (m *Match) IsFull() bool {
	return len(m.PlayersJoined) >= m.PlayersNeeded
}

// IsConfirmed reports whether the result is final. A confirmed score and its
// teams are immutable.
func (m *Match) IsConfirmed() bool {
	return m.ResultStatus == ResultStatusConfirmed
}

// StartTime parses the scheduled start. A zero time is returned for malformed
// dates so that callers treat the match as not yet eligible for results.
func (m *Match) StartTime() time.Time {
	t, err := time.Parse(time.RFC3339, m.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Status derives the lifecycle status at the given instant.
func (m *Match) Status(now time.Time) string {
	switch m.ResultStatus {
	case ResultStatusConfirmed:
		return MatchStatusConfirmed
	case ResultStatusPending:
		return MatchStatusPendingConfirmation
	}
	start := m.StartTime()
	if !start.IsZero() && now.After(start) {
		return MatchStatusAwaitingResult
	}
	if m.IsFull() {
		return MatchStatusFull
	}
	return MatchStatusOpen
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
