package models

import (
	"errors"
	"fmt"
)

// SetScore holds the games won by each side in a single set.
type SetScore struct {
	Team1 int `json:"team1" dynamodbav:"team1"`
	Team2 int `json:"team2" dynamodbav:"team2"`
}

// WinnerSide returns the side that won the set, or "" on a tie.
func (s SetScore) WinnerSide() string {
	if s.Team1 > s.Team2 {
		return TeamOne
	}
	if s.Team2 > s.Team1 {
		return TeamTwo
	}
	return ""
}

// Score is a proposed match result. Set3 is only present when sets 1 and 2
// split 1-1. Winner is not trusted independently: Validate checks it against
// the set majority.
type Score struct {
	Set1   *SetScore `json:"set1,omitempty" dynamodbav:"set1,omitempty"`
	Set2   *SetScore `json:"set2,omitempty" dynamodbav:"set2,omitempty"`
	Set3   *SetScore `json:"set3,omitempty" dynamodbav:"set3,omitempty"`
	Winner string    `json:"winner" dynamodbav:"winner"`
}

// Validate enforces the score invariants at the boundary, so malformed shapes
// never reach the store.
func (s *Score) Validate() error {
	if s.Set1 == nil || s.Set2 == nil {
		return errors.New("set1 and set2 are required")
	}
	if s.Winner != TeamOne && s.Winner != TeamTwo {
		return fmt.Errorf("winner must be %q or %q", TeamOne, TeamTwo)
	}

	wins := map[string]int{}
	for i, set := range []*SetScore{s.Set1, s.Set2} {
		if set.Team1 < 0 || set.Team2 < 0 {
			return fmt.Errorf("set%d has a negative game count", i+1)
		}
		side := set.WinnerSide()
		if side == "" {
			return fmt.Errorf("set%d is tied", i+1)
		}
		wins[side]++
	}

	split := wins[TeamOne] == 1 && wins[TeamTwo] == 1
	if split && s.Set3 == nil {
		return errors.New("set3 is required when sets split 1-1")
	}
	if !split && s.Set3 != nil {
		return errors.New("set3 must be absent unless sets split 1-1")
	}
	if s.Set3 != nil {
		if s.Set3.Team1 < 0 || s.Set3.Team2 < 0 {
			return errors.New("set3 has a negative game count")
		}
		side := s.Set3.WinnerSide()
		if side == "" {
			return errors.New("set3 is tied")
		}
		wins[side]++
	}

	majority := TeamOne
	if wins[TeamTwo] > wins[TeamOne] {
		majority = TeamTwo
	}
	if s.Winner != majority {
		return fmt.Errorf("winner %q does not match the set majority", s.Winner)
	}
	return nil
}
