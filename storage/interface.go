package storage

import "context"

// HistoryStore abstracts persistence for match history.
// Implementations can be swapped for testing (mocks) or different backends.
type HistoryStore interface {
	// Read
	ListByUserID(ctx context.Context, userID string) ([]MatchRecord, error)

	// Write
	CreateMatch(ctx context.Context, matchID string, userIDs, names [2]string) error
	FinishMatch(ctx context.Context, matchID string, roundsWon [2]int, winnerIndex int, endReason string) error
	InsertRound(ctx context.Context, matchID string, round int, scores [2]int, winnerIndex int) error
	InsertBlightUse(ctx context.Context, matchID string, round, playerIdx int, blightID string) error

	// Lifecycle
	Close()
}

// Ensure *Store implements HistoryStore at compile time.
var _ HistoryStore = (*Store)(nil)
