package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"padel_server/models"
	"padel_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// FollowService maintains the directed follow edge across two profile
// documents: follower.following and followee.followers. The store has no
// multi-document transaction, so a failure between the two writes is
// surfaced as ErrPartialWrite and repaired by Reconcile.
type FollowService struct {
	Dynamo DynamoAPI
}

func (fs *FollowService) getProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	item, err := fs.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

func (fs *FollowService) updateEdgeSet(ctx context.Context, userID, attribute, verb, value string) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	updateExpression := fmt.Sprintf("%s %s :value", verb, attribute)
	expressionValues := map[string]types.AttributeValue{
		":value": &types.AttributeValueMemberSS{Value: []string{value}},
	}
	_, err := fs.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, key, expressionValues, nil)
	return err
}

// Follow adds the edge follower -> followee. Idempotent: the sets absorb a
// repeated follow. The follower side is written first; if the followee side
// fails the divergence is reported, not hidden.
func (fs *FollowService) Follow(ctx context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		return ErrSelfFollow
	}
	if _, err := fs.getProfile(ctx, followeeID); err != nil {
		return err
	}
	if _, err := fs.getProfile(ctx, followerID); err != nil {
		return err
	}

	if err := fs.updateEdgeSet(ctx, followerID, "following", "ADD", followeeID); err != nil {
		return fmt.Errorf("failed to update following set: %w", err)
	}
	if err := fs.updateEdgeSet(ctx, followeeID, "followers", "ADD", followerID); err != nil {
		return fmt.Errorf("%w: followers side of %s -> %s not applied: %v", ErrPartialWrite, followerID, followeeID, err)
	}
	return nil
}

// Unfollow removes the edge in both directions. Unfollowing a user who was
// never followed is a no-op thanks to set semantics.
func (fs *FollowService) Unfollow(ctx context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		return ErrSelfFollow
	}
	if err := fs.updateEdgeSet(ctx, followerID, "following", "DELETE", followeeID); err != nil {
		return fmt.Errorf("failed to update following set: %w", err)
	}
	if err := fs.updateEdgeSet(ctx, followeeID, "followers", "DELETE", followerID); err != nil {
		return fmt.Errorf("%w: followers side of %s -> %s not removed: %v", ErrPartialWrite, followerID, followeeID, err)
	}
	return nil
}

// Reconcile compares both directions of every edge touching userID and
// repairs missing mirror entries. Returns the repaired edge descriptions.
func (fs *FollowService) Reconcile(ctx context.Context, userID string) ([]string, error) {
	profile, err := fs.getProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	var repaired []string
	for _, followeeID := range profile.Following {
		other, err := fs.getProfile(ctx, followeeID)
		if err != nil {
			log.Printf("reconcile: skipping %s: %v", followeeID, err)
			continue
		}
		if !other.IsFollowedBy(userID) {
			if err := fs.updateEdgeSet(ctx, followeeID, "followers", "ADD", userID); err != nil {
				return repaired, fmt.Errorf("failed to repair edge %s -> %s: %w", userID, followeeID, err)
			}
			repaired = append(repaired, fmt.Sprintf("%s -> %s", userID, followeeID))
		}
	}
	for _, followerID := range profile.Followers {
		other, err := fs.getProfile(ctx, followerID)
		if err != nil {
			log.Printf("reconcile: skipping %s: %v", followerID, err)
			continue
		}
		if !other.IsFollowing(userID) {
			if err := fs.updateEdgeSet(ctx, followerID, "following", "ADD", userID); err != nil {
				return repaired, fmt.Errorf("failed to repair edge %s -> %s: %w", followerID, userID, err)
			}
			repaired = append(repaired, fmt.Sprintf("%s -> %s", followerID, userID))
		}
	}
	return repaired, nil
}

// ProfileSummary is the enriched shape returned by the follower listings.
type ProfileSummary struct {
	UserID string  `json:"userId"`
	Name   string  `json:"name"`
	Level  float64 `json:"level,omitempty"`
	Photo  string  `json:"photo,omitempty"`
}

// GetFollowers returns enriched summaries of everyone following userID.
func (fs *FollowService) GetFollowers(ctx context.Context, userID string) ([]ProfileSummary, error) {
	profile, err := fs.getProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return fs.summarize(ctx, profile.Followers), nil
}

// GetFollowing returns enriched summaries of everyone userID follows.
func (fs *FollowService) GetFollowing(ctx context.Context, userID string) ([]ProfileSummary, error) {
	profile, err := fs.getProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return fs.summarize(ctx, profile.Following), nil
}

// summarize reads only the listed fields off the raw documents; there is no
// need to unmarshal whole profiles for a listing.
func (fs *FollowService) summarize(ctx context.Context, userIDs []string) []ProfileSummary {
	summaries := []ProfileSummary{}
	for _, id := range userIDs {
		key := map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: id},
		}
		item, err := fs.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
		if err != nil {
			continue // deleted profiles drop out of the listing
		}
		summaries = append(summaries, ProfileSummary{
			UserID: utils.ExtractString(item, "userId"),
			Name:   utils.ExtractString(item, "name"),
			Level:  utils.ExtractFloat(item, "level"),
			Photo:  utils.ExtractFirstPhoto(item, "photos"),
		})
	}
	return summaries
}
