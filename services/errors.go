package services

import "errors"

// Domain errors surfaced to controllers. Validation-class errors are never
// retried; ErrPartialWrite marks a detectable multi-document divergence.
var (
	ErrMatchNotFound = errors.New("match not found")
	ErrUserNotFound  = errors.New("user not found")

	ErrAlreadyJoined = errors.New("user already joined this match")
	ErrMatchFull     = errors.New("match is full")
	ErrNotAMember    = errors.New("user is not a member of this match")

	ErrTeamFull        = errors.New("team already has two players")
	ErrAlreadyAssigned = errors.New("user already occupies a team slot")

	ErrNotAParticipant  = errors.New("user is not a participant of this match")
	ErrInvalidScore     = errors.New("invalid score")
	ErrResultConfirmed  = errors.New("result is already confirmed")
	ErrAlreadyConfirmed = errors.New("user already confirmed this result")
	ErrNoResultPending  = errors.New("no result is pending confirmation")

	ErrSelfFollow   = errors.New("cannot follow yourself")
	ErrPartialWrite = errors.New("partial multi-document update")

	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
