package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScoreValidate(t *testing.T) {
	tests := []struct {
		name    string
		score   Score
		wantErr bool
	}{
		{
			name: "straight sets win",
			score: Score{
				Set1:   &SetScore{Team1: 6, Team2: 4},
				Set2:   &SetScore{Team1: 6, Team2: 3},
				Winner: TeamOne,
			},
		},
		{
			name: "split decided by third set",
			score: Score{
				Set1:   &SetScore{Team1: 6, Team2: 4},
				Set2:   &SetScore{Team1: 3, Team2: 6},
				Set3:   &SetScore{Team1: 2, Team2: 6},
				Winner: TeamTwo,
			},
		},
		{
			name: "missing second set",
			score: Score{
				Set1:   &SetScore{Team1: 6, Team2: 4},
				Winner: TeamOne,
			},
			wantErr: true,
		},
		{
			name: "tied set",
			score: Score{
				Set1:   &SetScore{Team1: 6, Team2: 6},
				Set2:   &SetScore{Team1: 6, Team2: 3},
				Winner: TeamOne,
			},
			wantErr: true,
		},
		{
			name: "negative games",
			score: Score{
				Set1:   &SetScore{Team1: -1, Team2: 4},
				Set2:   &SetScore{Team1: 6, Team2: 3},
				Winner: TeamOne,
			},
			wantErr: true,
		},
		{
			name: "set3 missing on a 1-1 split",
			score: Score{
				Set1:   &SetScore{Team1: 6, Team2: 4},
				Set2:   &SetScore{Team1: 3, Team2: 6},
				Winner: TeamOne,
			},
			wantErr: true,
		},
		{
			name: "set3 present without a split",
			score: Score{
				Set1:   &SetScore{Team1: 6, Team2: 4},
				Set2:   &SetScore{Team1: 6, Team2: 3},
				Set3:   &SetScore{Team1: 6, Team2: 0},
				Winner: TeamOne,
			},
			wantErr: true,
		},
		{
			name: "winner contradicts the set majority",
			score: Score{
				Set1:   &SetScore{Team1: 2, Team2: 6},
				Set2:   &SetScore{Team1: 3, Team2: 6},
				Winner: TeamOne,
			},
			wantErr: true,
		},
		{
			name: "unknown winner label",
			score: Score{
				Set1:   &SetScore{Team1: 6, Team2: 4},
				Set2:   &SetScore{Team1: 6, Team2: 3},
				Winner: "team3",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.score.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMatchStatusDerivation(t *testing.T) {
	m := Match{
		MatchID:       "m1",
		Date:          "2030-05-01T10:00:00Z",
		PlayersNeeded: 4,
		PlayersJoined: []string{"a", "b"},
	}
	now := mustParse(t, "2030-04-30T10:00:00Z")

	assert.Equal(t, MatchStatusOpen, m.Status(now))

	m.PlayersJoined = []string{"a", "b", "c", "d"}
	assert.Equal(t, MatchStatusFull, m.Status(now))

	after := mustParse(t, "2030-05-01T12:00:00Z")
	assert.Equal(t, MatchStatusAwaitingResult, m.Status(after))

	m.ResultStatus = ResultStatusPending
	assert.Equal(t, MatchStatusPendingConfirmation, m.Status(after))

	m.ResultStatus = ResultStatusConfirmed
	assert.Equal(t, MatchStatusConfirmed, m.Status(after))
}

func TestMatchTeamOf(t *testing.T) {
	m := Match{
		PlayersJoined: []string{"a", "b", "c"},
		Team1:         []string{"a"},
		Team2:         []string{"b"},
	}
	assert.Equal(t, TeamOne, m.TeamOf("a"))
	assert.Equal(t, TeamTwo, m.TeamOf("b"))
	assert.Equal(t, "", m.TeamOf("c"))
}

func mustParse(t *testing.T, value string) (parsed time.Time) {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", value, err)
	}
	return parsed
}
