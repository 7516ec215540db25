package models

// UserProfilesTable is the DynamoDB table for user profiles
const UserProfilesTable = "UserProfiles"

// UserProfile represents a registered player. Followers and following are
// string sets holding the two directions of the follow graph; a complete
// follow operation leaves an edge present in both or in neither.
type UserProfile struct {
	UserID       string   `json:"userId" dynamodbav:"userId"` // PK
	Email        string   `json:"email" dynamodbav:"email"`
	PasswordHash string   `json:"-" dynamodbav:"passwordHash"`
	Name         string   `json:"name" dynamodbav:"name"`
	Level        float64  `json:"level,omitempty" dynamodbav:"level,omitempty"` // self-reported padel level
	Photos       []string `json:"photos,omitempty" dynamodbav:"photos,omitempty"`
	CreatedAt    string   `json:"createdAt" dynamodbav:"createdAt"`

	// Derived statistics, updated once per confirmed match
	MatchesPlayed int `json:"matchesPlayed" dynamodbav:"matchesPlayed"`
	MatchesWon    int `json:"matchesWon" dynamodbav:"matchesWon"`
	MatchesLost   int `json:"matchesLost" dynamodbav:"matchesLost"`
	CurrentStreak int `json:"currentStreak" dynamodbav:"currentStreak"`
	BestStreak    int `json:"bestStreak" dynamodbav:"bestStreak"`

	Followers []string `json:"followers,omitempty" dynamodbav:"followers,stringset,omitempty"`
	Following []string `json:"following,omitempty" dynamodbav:"following,stringset,omitempty"`
}

// IsFollowing reports whether the profile follows userID.
func (p *UserProfile) IsFollowing(userID string) bool {
	return containsString(p.Following, userID)
}

// IsFollowedBy reports whether userID follows the profile.
func (p *UserProfile) IsFollowedBy(userID string) bool {
	return containsString(p.Followers, userID)
}
