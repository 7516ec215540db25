package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"padel_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ResultService owns the result state machine:
// NO_RESULT -> PENDING_CONFIRMATION -> CONFIRMED (terminal).
type ResultService struct {
	Dynamo        DynamoAPI
	Stats         *StatsService
	Notifications *NotificationService
}

func (rs *ResultService) getMatch(ctx context.Context, matchID string) (*models.Match, error) {
	key := map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}
	item, err := rs.Dynamo.GetItem(ctx, models.MatchesTable, key)
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

// SubmitResult records a proposed score. A pending score may be replaced by a
// later submission, which resets the confirmation list to just the submitter.
// A confirmed score is immutable.
func (rs *ResultService) SubmitResult(ctx context.Context, matchID, submitterID string, score models.Score) (*models.Match, error) {
	match, err := rs.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasPlayer(submitterID) {
		return nil, ErrNotAParticipant
	}
	if match.IsConfirmed() {
		return nil, ErrResultConfirmed
	}
	if err := score.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScore, err)
	}

	scoreAttr, err := attributevalue.Marshal(&score)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal score: %w", err)
	}

	// Single-document write: score, status and the reset confirmation list go
	// together, so an abandoned call can never leave them half-mutated.
	key := map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}
	updateExpression := "SET score = :score, resultStatus = :pending, confirmedBy = :confirmedBy"
	conditionExpression := "attribute_not_exists(resultStatus) OR resultStatus <> :confirmedStatus"
	expressionValues := map[string]types.AttributeValue{
		":score":           scoreAttr,
		":pending":         &types.AttributeValueMemberS{Value: models.ResultStatusPending},
		":confirmedBy":     &types.AttributeValueMemberSS{Value: []string{submitterID}},
		":confirmedStatus": &types.AttributeValueMemberS{Value: models.ResultStatusConfirmed},
	}
	if _, err := rs.Dynamo.UpdateItemWithCondition(ctx, models.MatchesTable, updateExpression, conditionExpression, key, expressionValues, nil); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return nil, ErrResultConfirmed
		}
		return nil, fmt.Errorf("failed to submit result: %w", err)
	}

	match.Score = &score
	match.ResultStatus = models.ResultStatusPending
	match.ConfirmedBy = []string{submitterID}

	recipients := otherParticipants(match, submitterID)
	if err := rs.Notifications.EmitMatchEvent(ctx, models.NotificationTypeResultAdded, match, recipients); err != nil {
		log.Printf("failed to emit result_added notifications for %s: %v", matchID, err)
	}
	return match, nil
}

// applyConfirm validates a confirmation against the local snapshot and
// reports whether it reaches the quorum: strictly more than half of the
// joined players, submitter included.
func applyConfirm(match *models.Match, confirmerID string) (bool, error) {
	if !match.HasPlayer(confirmerID) {
		return false, ErrNotAParticipant
	}
	if match.ResultStatus != models.ResultStatusPending {
		return false, ErrNoResultPending
	}
	if match.HasConfirmed(confirmerID) {
		return false, ErrAlreadyConfirmed
	}
	match.ConfirmedBy = append(match.ConfirmedBy, confirmerID)
	return 2*len(match.ConfirmedBy) > len(match.PlayersJoined), nil
}

// ConfirmResult registers a confirmation. On quorum the match is finalized
// with a conditional update, so two racing confirmers cannot both trigger the
// finalization side effects; statistics are projected exactly once.
func (rs *ResultService) ConfirmResult(ctx context.Context, matchID, confirmerID string) (*models.Match, error) {
	match, err := rs.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	finalized, err := applyConfirm(match, confirmerID)
	if err != nil {
		return nil, err
	}

	key := map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}
	expressionValues := map[string]types.AttributeValue{
		":user":    &types.AttributeValueMemberSS{Value: []string{confirmerID}},
		":pending": &types.AttributeValueMemberS{Value: models.ResultStatusPending},
	}

	if !finalized {
		updateExpression := "ADD confirmedBy :user"
		conditionExpression := "resultStatus = :pending"
		updated, err := rs.Dynamo.UpdateItemWithCondition(ctx, models.MatchesTable, updateExpression, conditionExpression, key, expressionValues, nil)
		if err != nil {
			if errors.Is(err, ErrConditionFailed) {
				return nil, ErrNoResultPending
			}
			return nil, fmt.Errorf("failed to confirm result: %w", err)
		}

		// Quorum is judged against the post-write set the store returned:
		// confirmations that landed between our read and the ADD count too.
		var stored models.Match
		if err := attributevalue.UnmarshalMap(updated, &stored); err != nil {
			return nil, fmt.Errorf("failed to unmarshal match: %w", err)
		}
		if 2*len(stored.ConfirmedBy) <= len(stored.PlayersJoined) {
			return &stored, nil
		}
		match = &stored
	}

	updateExpression := "SET resultStatus = :confirmed ADD confirmedBy :user"
	conditionExpression := "resultStatus = :pending"
	expressionValues[":confirmed"] = &types.AttributeValueMemberS{Value: models.ResultStatusConfirmed}
	if _, err := rs.Dynamo.UpdateItemWithCondition(ctx, models.MatchesTable, updateExpression, conditionExpression, key, expressionValues, nil); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			// Another confirmer finalized (or a resubmission reset the list)
			// between our read and write; the store copy wins.
			return nil, ErrNoResultPending
		}
		return nil, fmt.Errorf("failed to finalize result: %w", err)
	}
	match.ResultStatus = models.ResultStatusConfirmed

	// This call sits on the pending->confirmed edge, which the conditional
	// write above made exclusive, so projections cannot double-apply.
	if err := rs.Stats.ProjectMatch(ctx, match); err != nil {
		log.Printf("failed to project statistics for match %s: %v", matchID, err)
	}
	if err := rs.Notifications.EmitMatchEvent(ctx, models.NotificationTypeResultConfirmed, match, match.PlayersJoined); err != nil {
		log.Printf("failed to emit result_confirmed notifications for %s: %v", matchID, err)
	}
	return match, nil
}

// ListPendingResults surfaces matches whose scheduled start has passed and
// which have no confirmed score yet. Read-only and idempotent: safe to run
// concurrently with user-initiated submissions.
func (rs *ResultService) ListPendingResults(ctx context.Context) ([]models.Match, error) {
	now := time.Now()
	var matches []models.Match
	// The confirmed check lives in the callback: a match with no result yet
	// has no resultStatus attribute, and a server-side <> filter would drop
	// items missing the attribute entirely.
	err := rs.Dynamo.ScanWithFilter(ctx, models.MatchesTable, func(item map[string]types.AttributeValue) bool {
		var m models.Match
		if err := attributevalue.UnmarshalMap(item, &m); err != nil {
			return false
		}
		if m.IsConfirmed() {
			return false
		}
		start := m.StartTime()
		return !start.IsZero() && now.After(start)
	}, nil, &matches)
	if err != nil {
		return nil, fmt.Errorf("failed to scan pending results: %w", err)
	}
	return matches, nil
}

// ListPendingResultsForUser narrows the sweep to matches the user played in.
func (rs *ResultService) ListPendingResultsForUser(ctx context.Context, userID string) ([]models.Match, error) {
	all, err := rs.ListPendingResults(ctx)
	if err != nil {
		return nil, err
	}
	var mine []models.Match
	for _, m := range all {
		if m.HasPlayer(userID) {
			mine = append(mine, m)
		}
	}
	return mine, nil
}

func otherParticipants(match *models.Match, excludeID string) []string {
	var others []string
	for _, id := range match.PlayersJoined {
		if id != excludeID {
			others = append(others, id)
		}
	}
	return others
}
