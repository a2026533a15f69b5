package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS match_history (
	id UUID PRIMARY KEY,
	started_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	finished_at TIMESTAMPTZ,
	player0_user_id TEXT NOT NULL,
	player1_user_id TEXT NOT NULL,
	player0_name TEXT NOT NULL,
	player1_name TEXT NOT NULL,
	player0_rounds_won INT NOT NULL DEFAULT 0,
	player1_rounds_won INT NOT NULL DEFAULT 0,
	winner_index SMALLINT,
	end_reason TEXT
);
CREATE INDEX IF NOT EXISTS idx_match_history_player0 ON match_history(player0_user_id);
CREATE INDEX IF NOT EXISTS idx_match_history_player1 ON match_history(player1_user_id);
CREATE TABLE IF NOT EXISTS match_round (
	match_id      UUID NOT NULL REFERENCES match_history(id),
	round         INT NOT NULL,
	player0_score INT NOT NULL,
	player1_score INT NOT NULL,
	winner_index  SMALLINT,
	PRIMARY KEY (match_id, round)
);
CREATE TABLE IF NOT EXISTS blight_use (
	id         UUID PRIMARY KEY,
	match_id   UUID NOT NULL REFERENCES match_history(id),
	round      INT NOT NULL,
	played_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	player_idx SMALLINT NOT NULL,
	blight_id  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_blight_use_match_id ON blight_use(match_id);
CREATE INDEX IF NOT EXISTS idx_blight_use_blight_id ON blight_use(blight_id);
`

// Store persists and retrieves match history.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres and ensures the history tables exist.
// If databaseURL is empty, NewStore returns (nil, nil) and no persistence occurs.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, err
	}
	slog.Info("connected to Postgres", "tag", "storage")
	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

func checkMatchID(matchID string) error {
	if _, err := uuid.Parse(matchID); err != nil {
		return fmt.Errorf("storage: match id %q: %w", matchID, err)
	}
	return nil
}

func nullableWinner(idx int) *int {
	if idx == 0 || idx == 1 {
		return &idx
	}
	return nil
}

// CreateMatch inserts the match row when the match starts, so rounds and Blight uses can refer to it.
func (s *Store) CreateMatch(ctx context.Context, matchID string, userIDs, names [2]string) error {
	if s == nil || s.pool == nil {
		return nil
	}
	if err := checkMatchID(matchID); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO match_history (id, player0_user_id, player1_user_id, player0_name, player1_name)
		VALUES ($1, $2, $3, $4, $5)`,
		matchID, userIDs[0], userIDs[1], names[0], names[1])
	return err
}

// FinishMatch stores the final result. winnerIndex is 0 or 1, or -1 for a draw (stored as NULL).
// For end_reason "opponent_disconnected", winnerIndex is the player who stayed.
func (s *Store) FinishMatch(ctx context.Context, matchID string, roundsWon [2]int, winnerIndex int, endReason string) error {
	if s == nil || s.pool == nil {
		return nil
	}
	if err := checkMatchID(matchID); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `
		UPDATE match_history
		SET finished_at = now(), player0_rounds_won = $2, player1_rounds_won = $3, winner_index = $4, end_reason = $5
		WHERE id = $1`,
		matchID, roundsWon[0], roundsWon[1], nullableWinner(winnerIndex), endReason)
	return err
}

// InsertRound records one scored round.
func (s *Store) InsertRound(ctx context.Context, matchID string, round int, scores [2]int, winnerIndex int) error {
	if s == nil || s.pool == nil {
		return nil
	}
	if err := checkMatchID(matchID); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO match_round (match_id, round, player0_score, player1_score, winner_index)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (match_id, round) DO NOTHING`,
		matchID, round, scores[0], scores[1], nullableWinner(winnerIndex))
	return err
}

// InsertBlightUse records a Blight card being invoked.
func (s *Store) InsertBlightUse(ctx context.Context, matchID string, round, playerIdx int, blightID string) error {
	if s == nil || s.pool == nil {
		return nil
	}
	if err := checkMatchID(matchID); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO blight_use (id, match_id, round, player_idx, blight_id)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), matchID, round, playerIdx, blightID)
	return err
}

// RoundRecord is one round of a MatchRecord.
type RoundRecord struct {
	Round       int    `json:"round"`
	Scores      [2]int `json:"scores"`
	WinnerIndex *int   `json:"winner_index"`
}

// MatchRecord is a single row returned for the history API.
type MatchRecord struct {
	ID            string        `json:"id"`
	StartedAt     string        `json:"started_at"` // ISO8601
	Player0UserID string        `json:"player0_user_id"`
	Player1UserID string        `json:"player1_user_id"`
	Player0Name   string        `json:"player0_name"`
	Player1Name   string        `json:"player1_name"`
	RoundsWon     [2]int        `json:"rounds_won"`
	WinnerIndex   *int          `json:"winner_index"` // 0 or 1, or null for a draw
	EndReason     string        `json:"end_reason"`
	YourIndex     int           `json:"your_index"`
	Rounds        []RoundRecord `json:"rounds"`
	Blights       []string      `json:"blights"`
}

// ListByUserID returns the finished matches the user played, newest first, with their rounds
// and the Blight cards used.
func (s *Store) ListByUserID(ctx context.Context, userID string) ([]MatchRecord, error) {
	if s == nil || s.pool == nil {
		return []MatchRecord{}, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, started_at, player0_user_id, player1_user_id, player0_name, player1_name,
			player0_rounds_won, player1_rounds_won, winner_index, COALESCE(end_reason, '')
		FROM match_history
		WHERE (player0_user_id = $1 OR player1_user_id = $1) AND finished_at IS NOT NULL
		ORDER BY started_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []MatchRecord{}
	for rows.Next() {
		var r MatchRecord
		var id uuid.UUID
		var startedAt time.Time
		if err := rows.Scan(&id, &startedAt, &r.Player0UserID, &r.Player1UserID, &r.Player0Name, &r.Player1Name,
			&r.RoundsWon[0], &r.RoundsWon[1], &r.WinnerIndex, &r.EndReason); err != nil {
			return nil, err
		}
		r.ID = id.String()
		r.StartedAt = startedAt.UTC().Format(time.RFC3339)
		r.YourIndex = yourIndex(r, userID)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	if err := s.attachDetails(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func yourIndex(r MatchRecord, userID string) int {
	if r.Player1UserID == userID && r.Player0UserID != userID {
		return 1
	}
	return 0
}

// attachDetails loads rounds and Blight uses for records in two queries.
func (s *Store) attachDetails(ctx context.Context, records []MatchRecord) error {
	ids := make([]string, len(records))
	for i := range records {
		ids[i] = records[i].ID
	}

	rounds := map[string][]RoundRecord{}
	rows, err := s.pool.Query(ctx, `
		SELECT match_id, round, player0_score, player1_score, winner_index
		FROM match_round WHERE match_id = ANY($1::uuid[]) ORDER BY round`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var id uuid.UUID
		var rr RoundRecord
		if err := rows.Scan(&id, &rr.Round, &rr.Scores[0], &rr.Scores[1], &rr.WinnerIndex); err != nil {
			rows.Close()
			return err
		}
		rounds[id.String()] = append(rounds[id.String()], rr)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	blights := map[string][]string{}
	rows, err = s.pool.Query(ctx, `
		SELECT match_id, blight_id FROM blight_use WHERE match_id = ANY($1::uuid[]) ORDER BY played_at`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var id uuid.UUID
		var b string
		if err := rows.Scan(&id, &b); err != nil {
			rows.Close()
			return err
		}
		blights[id.String()] = append(blights[id.String()], b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range records {
		records[i].Rounds = append([]RoundRecord{}, rounds[records[i].ID]...)
		records[i].Blights = append([]string{}, blights[records[i].ID]...)
	}
	return nil
}
