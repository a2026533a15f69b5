package matcherrors

import "errors"

// Rejoin/matchmaking sentinel errors. Used by both matchmaking and ws packages
// to avoid circular imports.
var (
	ErrGameNotFound    = errors.New("game not found")
	ErrGameFinished    = errors.New("game finished")
	ErrInvalidToken    = errors.New("invalid rejoin token")
	ErrNotDisconnected = errors.New("this player is not disconnected")
	ErrNoActiveGame    = errors.New("no active game for this user")
	ErrAlreadyQueued   = errors.New("already waiting for a match")
)

// Kind maps a matchmaking error to the protocol error kind sent to clients.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrGameNotFound), errors.Is(err, ErrGameFinished), errors.Is(err, ErrNoActiveGame):
		return "no_active_game"
	case errors.Is(err, ErrInvalidToken):
		return "invalid_rejoin_token"
	case errors.Is(err, ErrNotDisconnected):
		return "not_disconnected"
	case errors.Is(err, ErrAlreadyQueued):
		return "already_queued"
	default:
		return "rejoin_failed"
	}
}
