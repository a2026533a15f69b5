package matchmaking

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"gwan-server/card"
	"gwan-server/config"
	"gwan-server/dice"
	"gwan-server/game"
	"gwan-server/matcherrors"
	"gwan-server/rules"
	"gwan-server/storage"
	"gwan-server/ws"
	"gwan-server/wsutil"
)

// Matchmaker manages the queue of players waiting for a match and the matches in progress.
type Matchmaker struct {
	queue   chan *ws.Client
	config  *config.Config
	blights rules.BlightProvider
	dice    dice.Roller
	store   storage.HistoryStore

	// NewDeck builds the deck of each new match. Tests replace it to deal known hands.
	NewDeck func() card.Deck

	mu      sync.Mutex
	waiting map[*ws.Client]bool
	left    map[*ws.Client]bool
	games   map[string]*game.Game
}

// NewMatchmaker creates a new Matchmaker. store may be nil.
func NewMatchmaker(cfg *config.Config, blights rules.BlightProvider, roller dice.Roller, store storage.HistoryStore) *Matchmaker {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var rngMu sync.Mutex
	return &Matchmaker{
		queue:   make(chan *ws.Client, 100),
		config:  cfg,
		blights: blights,
		dice:    roller,
		store:   store,
		NewDeck: func() card.Deck {
			rngMu.Lock()
			defer rngMu.Unlock()
			return card.NewShuffledDeck(rng)
		},
		waiting: make(map[*ws.Client]bool),
		left:    make(map[*ws.Client]bool),
		games:   make(map[string]*game.Game),
	}
}

// Enqueue adds a client to the matchmaking queue.
func (m *Matchmaker) Enqueue(c *ws.Client) error {
	m.mu.Lock()
	if m.waiting[c] {
		defer m.mu.Unlock()
		if m.left[c] {
			// Still queued from before; cancel the pending leave.
			delete(m.left, c)
			return nil
		}
		return matcherrors.ErrAlreadyQueued
	}
	m.waiting[c] = true
	m.mu.Unlock()
	m.queue <- c
	return nil
}

// LeaveQueue drops a waiting client; it is skipped when the matchmaker reaches it.
func (m *Matchmaker) LeaveQueue(c *ws.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.waiting[c] {
		m.left[c] = true
	}
}

// stillWaiting reports whether c has not left the queue. A client that left is forgotten.
func (m *Matchmaker) stillWaiting(c *ws.Client) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.left[c] || !m.waiting[c] {
		delete(m.left, c)
		delete(m.waiting, c)
		return false
	}
	return true
}

// Run is the matchmaker's main loop. It pairs clients from the queue and creates games
// for them until ctx is cancelled. Should be run as a goroutine.
func (m *Matchmaker) Run(ctx context.Context) {
	var first *ws.Client
	for {
		var c *ws.Client
		select {
		case <-ctx.Done():
			return
		case c = <-m.queue:
		}
		if !m.stillWaiting(c) {
			continue
		}
		// The first player may have left while we waited for a second one.
		if first == nil || !m.stillWaiting(first) {
			first = c
			continue
		}
		m.mu.Lock()
		delete(m.waiting, first)
		delete(m.waiting, c)
		m.mu.Unlock()
		m.startMatch(first, c)
		first = nil
	}
}

func (m *Matchmaker) startMatch(c0, c1 *ws.Client) {
	id := uuid.NewString()
	names := [2]string{c0.Name, c1.Name}
	userIDs := [2]string{c0.UserID, c1.UserID}

	engine := rules.New(m.config.RulesOptions(), m.NewDeck(), names, m.blights)
	p0 := game.NewPlayer(c0.Name, c0.Send)
	p0.UserID = c0.UserID
	p1 := game.NewPlayer(c1.Name, c1.Send)
	p1.UserID = c1.UserID

	g := game.NewGame(id, m.config, p0, p1, engine, m.blights, m.dice)
	g.RejoinTokens = [2]string{uuid.NewString(), uuid.NewString()}
	g.PlayerUserIDs = userIDs
	if m.store != nil {
		g.Results = &storeSink{store: m.store}
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		if err := m.store.CreateMatch(ctx, id, userIDs, names); err != nil {
			slog.Error("creating match record", "tag", "matchmaker", "game", id, "err", err)
		}
		cancel()
	}
	g.OnMatchEnd = m.matchEnded

	m.mu.Lock()
	m.games[id] = g
	m.mu.Unlock()

	c0.SetGame(g, 0)
	c1.SetGame(g, 1)
	slog.Info("match created", "tag", "matchmaker", "game", id, "player0", c0.Name, "player1", c1.Name)

	m.sendMatchFound(c0, g, 0)
	m.sendMatchFound(c1, g, 1)

	// The game broadcasts the initial state itself.
	go g.Run()
}

// matchEnded runs on the game's goroutine once the match is over.
func (m *Matchmaker) matchEnded(s game.MatchSummary) {
	m.mu.Lock()
	delete(m.games, s.MatchID)
	m.mu.Unlock()

	if m.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := m.store.FinishMatch(ctx, s.MatchID, s.RoundsWon, s.Winner, s.EndReason); err != nil {
		slog.Error("saving match result", "tag", "matchmaker", "game", s.MatchID, "err", err)
	}
}

// Game returns a running match by id.
func (m *Matchmaker) Game(id string) (*game.Game, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	return g, ok
}

// Rejoin validates a rejoin token for a match whose player is inside the reconnection window.
func (m *Matchmaker) Rejoin(gameID, rejoinToken, name string) (*game.Game, int, error) {
	g, ok := m.Game(gameID)
	if !ok {
		return nil, 0, matcherrors.ErrGameNotFound
	}
	if g.Finished() {
		return nil, 0, matcherrors.ErrGameFinished
	}
	seat := -1
	for i, tok := range g.RejoinTokens {
		if tok != "" && tok == rejoinToken {
			seat = i
		}
	}
	if seat < 0 {
		return nil, 0, matcherrors.ErrInvalidToken
	}
	if g.DisconnectedSeat() != seat {
		return nil, 0, matcherrors.ErrNotDisconnected
	}
	return g, seat, nil
}

// RejoinByUser finds the running match of an authenticated user who lost their connection.
// It returns the seat's rejoin token as well.
func (m *Matchmaker) RejoinByUser(userID string) (*game.Game, int, string, error) {
	if userID == "" {
		return nil, 0, "", matcherrors.ErrNoActiveGame
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.games {
		if g.Finished() {
			continue
		}
		for seat, uid := range g.PlayerUserIDs {
			if uid == userID && g.DisconnectedSeat() == seat {
				return g, seat, g.RejoinTokens[seat], nil
			}
		}
	}
	return nil, 0, "", matcherrors.ErrNoActiveGame
}

func (m *Matchmaker) sendMatchFound(client *ws.Client, g *game.Game, seat int) {
	opp := g.Players[1-seat]
	msg := ws.MatchFoundMsg{
		Type:           "match_found",
		GameID:         g.ID,
		RejoinToken:    g.RejoinTokens[seat],
		OpponentName:   opp.Name,
		OpponentUserID: opp.UserID,
		Seat:           seat,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshaling match_found", "tag", "matchmaker", "err", err)
		return
	}
	wsutil.SafeSend(client.Send, data)
}
