package services

import (
	"context"
	"testing"
	"time"

	"padel_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notificationsOfType(t *testing.T, ns *NotificationService, userID, notificationType string) []models.Notification {
	t.Helper()
	items, err := ns.GetNotifications(context.Background(), userID)
	require.NoError(t, err)
	var matched []models.Notification
	for _, n := range items {
		if n.Type == notificationType {
			matched = append(matched, n)
		}
	}
	return matched
}

func straightSetsScore(winner string) models.Score {
	return models.Score{
		Set1:   &models.SetScore{Team1: 6, Team2: 4},
		Set2:   &models.SetScore{Team1: 6, Team2: 3},
		Winner: winner,
	}
}

// fullMatch seeds four profiles, creates a match in the past and joins the
// remaining three players.
func fullMatch(t *testing.T, fake *fakeDynamo, matches *MatchService) *models.Match {
	t.Helper()
	ctx := context.Background()
	for _, u := range []string{"u1", "u2", "u3", "u4"} {
		seedProfile(t, fake, u)
	}
	match := seedMatch(t, matches, "u1", 4, time.Now().Add(-2*time.Hour))
	for _, u := range []string{"u2", "u3", "u4"} {
		_, err := matches.JoinMatch(ctx, match.MatchID, u)
		require.NoError(t, err)
	}
	stored, err := matches.GetMatch(ctx, match.MatchID)
	require.NoError(t, err)
	return stored
}

func TestSubmitResultValidation(t *testing.T) {
	fake, matches, results, _ := newTestServices()
	ctx := context.Background()
	match := fullMatch(t, fake, matches)

	// Outsiders cannot submit.
	_, err := results.SubmitResult(ctx, match.MatchID, "u9", straightSetsScore(models.TeamOne))
	assert.ErrorIs(t, err, ErrNotAParticipant)

	// Incomplete score.
	bad := models.Score{Set1: &models.SetScore{Team1: 6, Team2: 4}, Winner: models.TeamOne}
	_, err = results.SubmitResult(ctx, match.MatchID, "u1", bad)
	assert.ErrorIs(t, err, ErrInvalidScore)

	// Winner must match the sets.
	contradiction := straightSetsScore(models.TeamTwo)
	_, err = results.SubmitResult(ctx, match.MatchID, "u1", contradiction)
	assert.ErrorIs(t, err, ErrInvalidScore)
}

func TestSubmitResultCountsAsConfirmation(t *testing.T) {
	fake, matches, results, notifications := newTestServices()
	ctx := context.Background()
	match := fullMatch(t, fake, matches)

	updated, err := results.SubmitResult(ctx, match.MatchID, "u1", straightSetsScore(models.TeamOne))
	require.NoError(t, err)
	assert.Equal(t, models.ResultStatusPending, updated.ResultStatus)
	assert.Equal(t, []string{"u1"}, updated.ConfirmedBy)

	// result_added goes to everyone except the submitter.
	for _, u := range []string{"u2", "u3", "u4"} {
		added := notificationsOfType(t, notifications, u, models.NotificationTypeResultAdded)
		require.Len(t, added, 1)
		require.NotNil(t, added[0].Score)
	}
	assert.Empty(t, notificationsOfType(t, notifications, "u1", models.NotificationTypeResultAdded))
}

func TestResubmissionResetsConfirmations(t *testing.T) {
	fake, matches, results, _ := newTestServices()
	ctx := context.Background()
	match := fullMatch(t, fake, matches)

	_, err := results.SubmitResult(ctx, match.MatchID, "u1", straightSetsScore(models.TeamOne))
	require.NoError(t, err)
	_, err = results.ConfirmResult(ctx, match.MatchID, "u2")
	require.NoError(t, err)

	// u3 disagrees and submits a corrected score: prior confirmations drop.
	corrected := models.Score{
		Set1:   &models.SetScore{Team1: 4, Team2: 6},
		Set2:   &models.SetScore{Team1: 3, Team2: 6},
		Winner: models.TeamTwo,
	}
	updated, err := results.SubmitResult(ctx, match.MatchID, "u3", corrected)
	require.NoError(t, err)
	assert.Equal(t, []string{"u3"}, updated.ConfirmedBy)
	assert.Equal(t, models.ResultStatusPending, updated.ResultStatus)

	stored, err := matches.GetMatch(ctx, match.MatchID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u3"}, stored.ConfirmedBy)
	assert.Equal(t, models.TeamTwo, stored.Score.Winner)
}

func TestConfirmResultQuorumBoundary(t *testing.T) {
	fake, matches, results, _ := newTestServices()
	ctx := context.Background()
	match := fullMatch(t, fake, matches)

	_, err := results.SubmitResult(ctx, match.MatchID, "u1", straightSetsScore(models.TeamOne))
	require.NoError(t, err)

	// 2 of 4 is not a strict majority.
	updated, err := results.ConfirmResult(ctx, match.MatchID, "u2")
	require.NoError(t, err)
	assert.Equal(t, models.ResultStatusPending, updated.ResultStatus)

	// 3 of 4 finalizes.
	updated, err = results.ConfirmResult(ctx, match.MatchID, "u3")
	require.NoError(t, err)
	assert.Equal(t, models.ResultStatusConfirmed, updated.ResultStatus)

	stored, err := matches.GetMatch(ctx, match.MatchID)
	require.NoError(t, err)
	assert.True(t, stored.IsConfirmed())
	assert.ElementsMatch(t, []string{"u1", "u2", "u3"}, stored.ConfirmedBy)
}

func TestConfirmResultRacingConfirmationsReachQuorum(t *testing.T) {
	fake, matches, results, _ := newTestServices()
	ctx := context.Background()
	match := fullMatch(t, fake, matches)

	_, err := results.SubmitResult(ctx, match.MatchID, "u1", straightSetsScore(models.TeamOne))
	require.NoError(t, err)

	// u2's confirmation lands between u3's snapshot read and write. u3's
	// snapshot says 2 of 4, but the post-write set is 3 of 4: quorum must be
	// judged against what the store returned, so u3 finalizes.
	fake.beforeUpdates[models.MatchesTable+"/"+match.MatchID] = func() {
		item := fake.tables[models.MatchesTable][match.MatchID]
		item["confirmedBy"] = &types.AttributeValueMemberSS{Value: []string{"u1", "u2"}}
	}
	updated, err := results.ConfirmResult(ctx, match.MatchID, "u3")
	require.NoError(t, err)
	assert.Equal(t, models.ResultStatusConfirmed, updated.ResultStatus)

	stored, err := matches.GetMatch(ctx, match.MatchID)
	require.NoError(t, err)
	assert.True(t, stored.IsConfirmed())
	assert.ElementsMatch(t, []string{"u1", "u2", "u3"}, stored.ConfirmedBy)

	// The finalization side effects ran.
	profiles := &UserProfileService{Dynamo: fake}
	p, err := profiles.GetUserProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.MatchesPlayed)
}

func TestConfirmResultErrors(t *testing.T) {
	fake, matches, results, _ := newTestServices()
	ctx := context.Background()
	match := fullMatch(t, fake, matches)

	// Nothing submitted yet.
	_, err := results.ConfirmResult(ctx, match.MatchID, "u2")
	assert.ErrorIs(t, err, ErrNoResultPending)

	_, err = results.SubmitResult(ctx, match.MatchID, "u1", straightSetsScore(models.TeamOne))
	require.NoError(t, err)

	// The submitter already counts.
	_, err = results.ConfirmResult(ctx, match.MatchID, "u1")
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)

	// Outsider.
	_, err = results.ConfirmResult(ctx, match.MatchID, "u9")
	assert.ErrorIs(t, err, ErrNotAParticipant)

	_, err = results.ConfirmResult(ctx, match.MatchID, "u2")
	require.NoError(t, err)
	_, err = results.ConfirmResult(ctx, match.MatchID, "u3")
	require.NoError(t, err)

	// Confirmed is terminal: no resubmission, no further confirmation.
	_, err = results.ConfirmResult(ctx, match.MatchID, "u4")
	assert.ErrorIs(t, err, ErrNoResultPending)
	_, err = results.SubmitResult(ctx, match.MatchID, "u4", straightSetsScore(models.TeamTwo))
	assert.ErrorIs(t, err, ErrResultConfirmed)
}

func TestListPendingResults(t *testing.T) {
	fake, matches, results, _ := newTestServices()
	ctx := context.Background()
	seedProfile(t, fake, "u1")

	past := seedMatch(t, matches, "u1", 2, time.Now().Add(-3*time.Hour))
	future := seedMatch(t, matches, "u1", 2, time.Now().Add(3*time.Hour))

	pending, err := results.ListPendingResults(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, past.MatchID, pending[0].MatchID)
	assert.NotEqual(t, future.MatchID, pending[0].MatchID)

	mine, err := results.ListPendingResultsForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	none, err := results.ListPendingResultsForUser(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, none)
}

// TestFourPlayerMatchLifecycle walks the whole flow: create, fill, assign
// teams, play, submit, confirm to quorum, then check stats and notifications.
func TestFourPlayerMatchLifecycle(t *testing.T) {
	fake, matches, results, notifications := newTestServices()
	ctx := context.Background()
	match := fullMatch(t, fake, matches)

	_, err := matches.AssignTeam(ctx, match.MatchID, "u1", models.TeamOne)
	require.NoError(t, err)
	_, err = matches.AssignTeam(ctx, match.MatchID, "u2", models.TeamOne)
	require.NoError(t, err)
	_, err = matches.AssignTeam(ctx, match.MatchID, "u3", models.TeamTwo)
	require.NoError(t, err)
	_, err = matches.AssignTeam(ctx, match.MatchID, "u4", models.TeamTwo)
	require.NoError(t, err)

	_, err = results.SubmitResult(ctx, match.MatchID, "u1", straightSetsScore(models.TeamOne))
	require.NoError(t, err)
	_, err = results.ConfirmResult(ctx, match.MatchID, "u3")
	require.NoError(t, err)
	final, err := results.ConfirmResult(ctx, match.MatchID, "u4")
	require.NoError(t, err)
	require.Equal(t, models.ResultStatusConfirmed, final.ResultStatus)

	profiles := &UserProfileService{Dynamo: fake}
	for _, winner := range []string{"u1", "u2"} {
		p, err := profiles.GetUserProfile(ctx, winner)
		require.NoError(t, err)
		assert.Equal(t, 1, p.MatchesPlayed, winner)
		assert.Equal(t, 1, p.MatchesWon, winner)
		assert.Equal(t, 0, p.MatchesLost, winner)
		assert.Equal(t, 1, p.CurrentStreak, winner)
		assert.Equal(t, 1, p.BestStreak, winner)
	}
	for _, loser := range []string{"u3", "u4"} {
		p, err := profiles.GetUserProfile(ctx, loser)
		require.NoError(t, err)
		assert.Equal(t, 1, p.MatchesPlayed, loser)
		assert.Equal(t, 0, p.MatchesWon, loser)
		assert.Equal(t, 1, p.MatchesLost, loser)
		assert.Equal(t, 0, p.CurrentStreak, loser)
	}

	// Everyone hears about the confirmed result.
	for _, u := range []string{"u1", "u2", "u3", "u4"} {
		confirmed := notificationsOfType(t, notifications, u, models.NotificationTypeResultConfirmed)
		require.Len(t, confirmed, 1, u)
		assert.Equal(t, match.MatchID, confirmed[0].MatchID)
		require.NotNil(t, confirmed[0].Score)
		assert.Equal(t, models.TeamOne, confirmed[0].Score.Winner)
	}
}

func TestStatsForUnassignedPlayer(t *testing.T) {
	fake, matches, results, _ := newTestServices()
	ctx := context.Background()
	match := fullMatch(t, fake, matches)

	// Only u1 and u3 pick a side before the score lands.
	_, err := matches.AssignTeam(ctx, match.MatchID, "u1", models.TeamOne)
	require.NoError(t, err)
	_, err = matches.AssignTeam(ctx, match.MatchID, "u3", models.TeamTwo)
	require.NoError(t, err)

	_, err = results.SubmitResult(ctx, match.MatchID, "u1", straightSetsScore(models.TeamOne))
	require.NoError(t, err)
	_, err = results.ConfirmResult(ctx, match.MatchID, "u2")
	require.NoError(t, err)
	_, err = results.ConfirmResult(ctx, match.MatchID, "u3")
	require.NoError(t, err)

	profiles := &UserProfileService{Dynamo: fake}
	p, err := profiles.GetUserProfile(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, p.MatchesPlayed)
	assert.Equal(t, 0, p.MatchesWon)
	assert.Equal(t, 0, p.MatchesLost)
	assert.Equal(t, 0, p.CurrentStreak)
}
