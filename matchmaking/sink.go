package matchmaking

import (
	"context"
	"log/slog"
	"time"

	"gwan-server/rules"
	"gwan-server/storage"
)

const storeTimeout = 5 * time.Second

// storeSink writes round results and Blight uses of one match to the history store.
// It is called on the game goroutine, so each write is bounded by storeTimeout.
type storeSink struct {
	store storage.HistoryStore
}

func (s *storeSink) RecordRound(matchID string, out rules.RoundOutcome) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := s.store.InsertRound(ctx, matchID, out.Round, out.Scores, out.Winner); err != nil {
		slog.Error("saving round", "tag", "matchmaker", "game", matchID, "round", out.Round, "err", err)
	}
}

func (s *storeSink) RecordBlightUse(matchID string, round, playerIdx int, blightID string) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := s.store.InsertBlightUse(ctx, matchID, round, playerIdx, blightID); err != nil {
		slog.Error("saving blight use", "tag", "matchmaker", "game", matchID, "blight", blightID, "err", err)
	}
}
