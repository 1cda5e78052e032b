package s3_report

import (
	"errors"
	"fmt"
)

// Kind classifies a game resolution failure
type Kind string

const (
	KindInvalidID Kind = "invalid_id"
	KindNotFound  Kind = "not_found"
	KindNoPlays   Kind = "no_plays"
	KindExcluded  Kind = "excluded"
	KindUpstream  Kind = "upstream"
)

// Error is a described game resolution failure.
// Message is user-facing and printed verbatim.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalidID(gameID string) *Error {
	return &Error{Kind: KindInvalidID, Message: fmt.Sprintf("Invalid game ID format: %s", gameID)}
}

func notFound(gameID string, season int) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("Game ID %s not found in %d schedule.", gameID, season)}
}

func noPlays(gameID string) *Error {
	return &Error{Kind: KindNoPlays, Message: fmt.Sprintf("No play-by-play data found for game %s.", gameID)}
}

func postseason(game string, gameType string) *Error {
	return &Error{Kind: KindExcluded, Message: fmt.Sprintf("Game ID %s is a postseason (%s) game; only regular season games are analyzed.", game, gameType)}
}

func upstream(err error) *Error {
	return &Error{Kind: KindUpstream, Message: fmt.Sprintf("Error loading data: %v", err), Err: err}
}

// KindOf returns the failure kind of err, or "" when err is not a resolution error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
