package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"padel_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// MatchService handles match creation, the join capacity gate and team slots.
type MatchService struct {
	Dynamo        DynamoAPI
	Notifications *NotificationService
}

// CreateMatchInput carries the fields fixed at creation.
type CreateMatchInput struct {
	Title         string
	Venue         string
	Date          string
	PlayersNeeded int
	CreatedBy     string
}

// CreateMatch stores a new match. The creator joins immediately.
func (ms *MatchService) CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	if input.PlayersNeeded < 2 {
		return nil, errors.New("playersNeeded must be at least 2")
	}
	if _, err := time.Parse(time.RFC3339, input.Date); err != nil {
		return nil, fmt.Errorf("invalid match date: %w", err)
	}

	match := models.Match{
		MatchID:       uuid.NewString(),
		Title:         input.Title,
		Venue:         input.Venue,
		CreatedBy:     input.CreatedBy,
		Date:          input.Date,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		PlayersNeeded: input.PlayersNeeded,
		PlayersJoined: []string{input.CreatedBy},
	}
	if err := ms.Dynamo.PutItem(ctx, models.MatchesTable, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return &match, nil
}

// GetMatch retrieves a match by id
func (ms *MatchService) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	key := map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}
	item, err := ms.Dynamo.GetItem(ctx, models.MatchesTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to fetch match: %w", err)
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &match, nil
}

// ListUpcomingMatches returns matches whose scheduled start has not passed.
func (ms *MatchService) ListUpcomingMatches(ctx context.Context) ([]models.Match, error) {
	now := time.Now()
	var matches []models.Match
	err := ms.Dynamo.ScanWithFilter(ctx, models.MatchesTable, func(item map[string]types.AttributeValue) bool {
		var m models.Match
		if err := attributevalue.UnmarshalMap(item, &m); err != nil {
			return false
		}
		start := m.StartTime()
		return !start.IsZero() && start.After(now)
	}, nil, &matches)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming matches: %w", err)
	}
	return matches, nil
}

// ListMatchesForUser returns every match the user has joined.
func (ms *MatchService) ListMatchesForUser(ctx context.Context, userID string) ([]models.Match, error) {
	var matches []models.Match
	err := ms.Dynamo.ScanWithFilter(ctx, models.MatchesTable, func(item map[string]types.AttributeValue) bool {
		var m models.Match
		if err := attributevalue.UnmarshalMap(item, &m); err != nil {
			return false
		}
		return m.HasPlayer(userID)
	}, nil, &matches)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for user: %w", err)
	}
	return matches, nil
}

// DeleteMatch removes a match document. Only the creator may delete; the
// notification cleanup job prunes anything still referencing it.
func (ms *MatchService) DeleteMatch(ctx context.Context, matchID, userID string) error {
	match, err := ms.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if match.CreatedBy != userID {
		return fmt.Errorf("only the creator can delete a match")
	}
	key := map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}
	return ms.Dynamo.DeleteItem(ctx, models.MatchesTable, key)
}

// applyJoin is the pure capacity gate: it validates and mutates the local
// snapshot without touching the store.
func applyJoin(match *models.Match, userID string) error {
	if match.HasPlayer(userID) {
		return ErrAlreadyJoined
	}
	if match.IsFull() {
		return ErrMatchFull
	}
	match.PlayersJoined = append(match.PlayersJoined, userID)
	return nil
}

// JoinMatch admits a player if the capacity gate allows it. The write is a
// conditional set-union so a concurrent join past capacity is rejected by the
// store even when both callers saw a free slot.
func (ms *MatchService) JoinMatch(ctx context.Context, matchID, userID string) (*models.Match, error) {
	match, err := ms.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := applyJoin(match, userID); err != nil {
		return nil, err
	}

	key := map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}
	updateExpression := "ADD playersJoined :user"
	conditionExpression := "attribute_not_exists(playersJoined) OR (size(playersJoined) < :needed AND NOT contains(playersJoined, :userId))"
	expressionValues := map[string]types.AttributeValue{
		":user":   &types.AttributeValueMemberSS{Value: []string{userID}},
		":userId": &types.AttributeValueMemberS{Value: userID},
		":needed": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", match.PlayersNeeded)},
	}
	if _, err := ms.Dynamo.UpdateItemWithCondition(ctx, models.MatchesTable, updateExpression, conditionExpression, key, expressionValues, nil); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			// The gate also rejects a duplicate join that raced past the
			// snapshot check; re-read to tell the two apart.
			if current, readErr := ms.GetMatch(ctx, matchID); readErr == nil && current.HasPlayer(userID) {
				return nil, ErrAlreadyJoined
			}
			return nil, ErrMatchFull
		}
		return nil, fmt.Errorf("failed to join match: %w", err)
	}

	if match.IsFull() {
		// Side effect only: a failed fan-out must not fail the join
		if err := ms.Notifications.EmitMatchEvent(ctx, models.NotificationTypeMatchFull, match, match.PlayersJoined); err != nil {
			log.Printf("failed to emit match_full notifications for %s: %v", matchID, err)
		}
	}
	return match, nil
}

// LeaveMatch removes a player and vacates any team slot they held. Remaining
// members are not shifted. A confirmed result freezes membership and teams.
func (ms *MatchService) LeaveMatch(ctx context.Context, matchID, userID string) (*models.Match, error) {
	match, err := ms.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.IsConfirmed() {
		return nil, ErrResultConfirmed
	}
	if !match.HasPlayer(userID) {
		return nil, ErrNotAMember
	}

	deleteClauses := []string{"playersJoined :user"}
	switch match.TeamOf(userID) {
	case models.TeamOne:
		deleteClauses = append(deleteClauses, "team1 :user")
	case models.TeamTwo:
		deleteClauses = append(deleteClauses, "team2 :user")
	}
	updateExpression := "DELETE " + strings.Join(deleteClauses, ", ")
	key := map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}
	expressionValues := map[string]types.AttributeValue{
		":user": &types.AttributeValueMemberSS{Value: []string{userID}},
	}
	if _, err := ms.Dynamo.UpdateItem(ctx, models.MatchesTable, updateExpression, key, expressionValues, nil); err != nil {
		return nil, fmt.Errorf("failed to leave match: %w", err)
	}

	match.PlayersJoined = removeString(match.PlayersJoined, userID)
	match.Team1 = removeString(match.Team1, userID)
	match.Team2 = removeString(match.Team2, userID)
	return match, nil
}

// applyAssignTeam validates a team slot request against the local snapshot.
func applyAssignTeam(match *models.Match, userID, team string) error {
	if !match.HasPlayer(userID) {
		return ErrNotAMember
	}
	if match.TeamOf(userID) != "" {
		return ErrAlreadyAssigned
	}
	switch team {
	case models.TeamOne:
		if len(match.Team1) >= models.TeamSize {
			return ErrTeamFull
		}
		match.Team1 = append(match.Team1, userID)
	case models.TeamTwo:
		if len(match.Team2) >= models.TeamSize {
			return ErrTeamFull
		}
		match.Team2 = append(match.Team2, userID)
	default:
		return fmt.Errorf("unknown team %q", team)
	}
	return nil
}

// AssignTeam places a joined player on a side. Position within the pair is
// advisory in the app; sides are unordered sets here. No balancing is done.
func (ms *MatchService) AssignTeam(ctx context.Context, matchID, userID, team string) (*models.Match, error) {
	match, err := ms.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.IsConfirmed() {
		return nil, ErrResultConfirmed
	}
	if err := applyAssignTeam(match, userID, team); err != nil {
		return nil, err
	}

	key := map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}
	updateExpression := fmt.Sprintf("ADD %s :user", team)
	expressionValues := map[string]types.AttributeValue{
		":user": &types.AttributeValueMemberSS{Value: []string{userID}},
	}
	if _, err := ms.Dynamo.UpdateItem(ctx, models.MatchesTable, updateExpression, key, expressionValues, nil); err != nil {
		return nil, fmt.Errorf("failed to assign team: %w", err)
	}
	return match, nil
}

func removeString(list []string, value string) []string {
	out := list[:0]
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}
