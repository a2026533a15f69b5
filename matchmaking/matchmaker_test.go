package matchmaking

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"gwan-server/blight"
	"gwan-server/config"
	"gwan-server/dice"
	"gwan-server/game"
	"gwan-server/matcherrors"
	"gwan-server/storage"
	"gwan-server/ws"
)

type fakeStore struct {
	mu       sync.Mutex
	created  []string
	finished map[string]string
	done     chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{finished: map[string]string{}, done: make(chan struct{}, 1)}
}

func (f *fakeStore) ListByUserID(ctx context.Context, userID string) ([]storage.MatchRecord, error) {
	return nil, nil
}

func (f *fakeStore) CreateMatch(ctx context.Context, matchID string, userIDs, names [2]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, matchID)
	return nil
}

func (f *fakeStore) FinishMatch(ctx context.Context, matchID string, roundsWon [2]int, winner int, reason string) error {
	f.mu.Lock()
	f.finished[matchID] = reason
	f.mu.Unlock()
	f.done <- struct{}{}
	return nil
}

func (f *fakeStore) InsertRound(ctx context.Context, matchID string, round int, scores [2]int, winner int) error {
	return nil
}

func (f *fakeStore) InsertBlightUse(ctx context.Context, matchID string, round, playerIdx int, blightID string) error {
	return nil
}

func (f *fakeStore) Close() {}

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.TurnLimitSec = 0
	return cfg
}

func newTestMatchmaker(t *testing.T, store storage.HistoryStore) *Matchmaker {
	t.Helper()
	mm := NewMatchmaker(testConfig(), blight.NewDefaultRegistry(), dice.NewRandRoller(7), store)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go mm.Run(ctx)
	return mm
}

func newClient(name, userID string) *ws.Client {
	c := ws.NewClient(nil, nil, name)
	c.UserID = userID
	return c
}

func waitMatchFound(t *testing.T, c *ws.Client) ws.MatchFoundMsg {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case msg := <-c.Send:
			var mf ws.MatchFoundMsg
			if err := json.Unmarshal(msg, &mf); err != nil {
				t.Fatalf("failed to unmarshal: %v", err)
			}
			if mf.Type == "match_found" {
				return mf
			}
		case <-deadline:
			t.Fatalf("timed out waiting for match_found for %s", c.Name)
			return ws.MatchFoundMsg{}
		}
	}
}

func endGame(t *testing.T, g *game.Game) {
	t.Helper()
	g.Submit(game.Action{Type: game.ActionDisconnect, PlayerIdx: 0})
	<-g.Done
}

func TestMatchmakerPairsPlayers(t *testing.T) {
	mm := newTestMatchmaker(t, nil)
	c1 := newClient("Alice", "u1")
	c2 := newClient("Bob", "u2")

	if err := mm.Enqueue(c1); err != nil {
		t.Fatal(err)
	}
	if err := mm.Enqueue(c2); err != nil {
		t.Fatal(err)
	}

	mf1 := waitMatchFound(t, c1)
	mf2 := waitMatchFound(t, c2)
	if mf1.OpponentName != "Bob" || mf1.Seat != 0 || mf1.OpponentUserID != "u2" {
		t.Errorf("client 1 got %+v", mf1)
	}
	if mf2.OpponentName != "Alice" || mf2.Seat != 1 {
		t.Errorf("client 2 got %+v", mf2)
	}
	if _, err := uuid.Parse(mf1.GameID); err != nil || mf1.GameID != mf2.GameID {
		t.Errorf("game ids %q / %q", mf1.GameID, mf2.GameID)
	}
	if mf1.RejoinToken == "" || mf1.RejoinToken == mf2.RejoinToken {
		t.Error("rejoin tokens must be set and distinct")
	}

	g1, seat1 := c1.Game()
	g2, seat2 := c2.Game()
	if g1 == nil || g1 != g2 || seat1 != 0 || seat2 != 1 {
		t.Fatal("both clients should be seated in the same game")
	}
	if len(g1.Engine.State().Players[0].Hand) != 10 {
		t.Errorf("opening hand = %d cards", len(g1.Engine.State().Players[0].Hand))
	}
	endGame(t, g1)
}

func TestMatchmakerDuplicateEnqueue(t *testing.T) {
	mm := NewMatchmaker(testConfig(), blight.NewDefaultRegistry(), dice.NewRandRoller(1), nil)
	c := newClient("Alice", "")
	if err := mm.Enqueue(c); err != nil {
		t.Fatal(err)
	}
	if err := mm.Enqueue(c); !errors.Is(err, matcherrors.ErrAlreadyQueued) {
		t.Fatalf("err = %v", err)
	}
}

func TestMatchmakerLeaveQueue(t *testing.T) {
	mm := newTestMatchmaker(t, nil)
	c1 := newClient("Alice", "")
	c2 := newClient("Bob", "")
	c3 := newClient("Carol", "")

	mm.Enqueue(c1)
	time.Sleep(50 * time.Millisecond)
	mm.LeaveQueue(c1)
	mm.Enqueue(c2)
	mm.Enqueue(c3)

	mf := waitMatchFound(t, c2)
	if mf.OpponentName != "Carol" {
		t.Errorf("Bob paired with %q", mf.OpponentName)
	}
	if g, _ := c1.Game(); g != nil {
		t.Error("client who left the queue got a game")
	}
	select {
	case msg := <-c1.Send:
		t.Errorf("client who left received %s", msg)
	case <-time.After(100 * time.Millisecond):
	}
	g, _ := c2.Game()
	endGame(t, g)
}

func TestMatchmakerRejoin(t *testing.T) {
	mm := newTestMatchmaker(t, nil)
	c1 := newClient("Alice", "u1")
	c2 := newClient("Bob", "u2")
	mm.Enqueue(c1)
	mm.Enqueue(c2)
	mf := waitMatchFound(t, c2)
	waitMatchFound(t, c1)

	if _, _, err := mm.Rejoin("nope", mf.RejoinToken, "Bob"); !errors.Is(err, matcherrors.ErrGameNotFound) {
		t.Errorf("unknown game: %v", err)
	}
	if _, _, err := mm.Rejoin(mf.GameID, "bad", "Bob"); !errors.Is(err, matcherrors.ErrInvalidToken) {
		t.Errorf("bad token: %v", err)
	}
	if _, _, err := mm.Rejoin(mf.GameID, mf.RejoinToken, "Bob"); !errors.Is(err, matcherrors.ErrNotDisconnected) {
		t.Errorf("connected player: %v", err)
	}

	g, _ := c2.Game()
	g.Submit(game.Action{Type: game.ActionPlayerDisconnected, PlayerIdx: 1})
	deadline := time.Now().Add(time.Second)
	for g.DisconnectedSeat() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("disconnect not registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	rg, seat, err := mm.Rejoin(mf.GameID, mf.RejoinToken, "Bob")
	if err != nil || rg != g || seat != 1 {
		t.Fatalf("Rejoin = %v, %d, %v", rg, seat, err)
	}
	ug, useat, tok, err := mm.RejoinByUser("u2")
	if err != nil || ug != g || useat != 1 || tok != mf.RejoinToken {
		t.Fatalf("RejoinByUser = %v, %d, %q, %v", ug, useat, tok, err)
	}
	if _, _, _, err := mm.RejoinByUser("u1"); !errors.Is(err, matcherrors.ErrNoActiveGame) {
		t.Errorf("connected user: %v", err)
	}
	endGame(t, g)
}

func TestMatchmakerRecordsMatch(t *testing.T) {
	store := newFakeStore()
	mm := newTestMatchmaker(t, store)
	c1 := newClient("Alice", "u1")
	c2 := newClient("Bob", "u2")
	mm.Enqueue(c1)
	mm.Enqueue(c2)
	mf := waitMatchFound(t, c1)

	g, _ := c1.Game()
	if g.Results == nil {
		t.Fatal("result sink not wired")
	}
	endGame(t, g)

	select {
	case <-store.done:
	case <-time.After(time.Second):
		t.Fatal("FinishMatch not called")
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.created) != 1 || store.created[0] != mf.GameID {
		t.Errorf("created = %v", store.created)
	}
	if store.finished[mf.GameID] != game.EndForfeit {
		t.Errorf("finished = %v", store.finished)
	}
	if _, ok := mm.Game(mf.GameID); ok {
		t.Error("finished game still registered")
	}
}
