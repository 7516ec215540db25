package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"padel_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// StatsService projects a confirmed score into per-player statistics.
// Callers invoke it only on the pending->confirmed transition, which keeps
// the projection exactly-once per match and player.
type StatsService struct {
	Dynamo DynamoAPI
}

// applyResult folds one confirmed match into a profile. A player who joined
// without taking a team slot gets participation credit only: no win, no loss
// and an untouched streak, since the result says nothing about them.
func applyResult(profile *models.UserProfile, team, winner string) {
	profile.MatchesPlayed++
	if team == "" {
		return
	}
	if team == winner {
		profile.MatchesWon++
		profile.CurrentStreak++
		if profile.CurrentStreak > profile.BestStreak {
			profile.BestStreak = profile.CurrentStreak
		}
	} else {
		profile.MatchesLost++
		profile.CurrentStreak = 0
	}
}

// ProjectMatch updates every participant's statistics from the finalized
// score. A failure for one player is logged and does not block the others.
func (ss *StatsService) ProjectMatch(ctx context.Context, match *models.Match) error {
	if match.Score == nil {
		return errors.New("match has no score to project")
	}
	var firstErr error
	for _, userID := range match.PlayersJoined {
		if err := ss.projectPlayer(ctx, userID, match); err != nil {
			log.Printf("failed to project stats for %s in match %s: %v", userID, match.MatchID, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (ss *StatsService) projectPlayer(ctx context.Context, userID string, match *models.Match) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	item, err := ss.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to fetch profile: %w", err)
	}
	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	applyResult(&profile, match.TeamOf(userID), match.Score.Winner)

	updateExpression := "SET matchesPlayed = :mp, matchesWon = :mw, matchesLost = :ml, currentStreak = :cs, bestStreak = :bs"
	expressionValues := map[string]types.AttributeValue{
		":mp": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", profile.MatchesPlayed)},
		":mw": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", profile.MatchesWon)},
		":ml": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", profile.MatchesLost)},
		":cs": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", profile.CurrentStreak)},
		":bs": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", profile.BestStreak)},
	}
	if _, err := ss.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, key, expressionValues, nil); err != nil {
		return fmt.Errorf("failed to write statistics: %w", err)
	}
	return nil
}
