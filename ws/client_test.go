package ws

import (
	"encoding/json"
	"testing"

	"gwan-server/auth"
	"gwan-server/config"
	"gwan-server/game"
	"gwan-server/matcherrors"
	"gwan-server/rules"
)

type fakeMatchmaker struct {
	enqueued []*Client
	left     []*Client
	rejoin   *game.Game
}

func (f *fakeMatchmaker) Enqueue(c *Client) error {
	for _, q := range f.enqueued {
		if q == c {
			return matcherrors.ErrAlreadyQueued
		}
	}
	f.enqueued = append(f.enqueued, c)
	return nil
}

func (f *fakeMatchmaker) LeaveQueue(c *Client) { f.left = append(f.left, c) }

func (f *fakeMatchmaker) Rejoin(gameID, token, name string) (*game.Game, int, error) {
	if f.rejoin == nil || gameID != f.rejoin.ID || token != "tok" {
		return nil, 0, matcherrors.ErrInvalidToken
	}
	return f.rejoin, 1, nil
}

func (f *fakeMatchmaker) RejoinByUser(userID string) (*game.Game, int, string, error) {
	return nil, 0, "", matcherrors.ErrNoActiveGame
}

func newTestClient() (*Client, *fakeMatchmaker) {
	mm := &fakeMatchmaker{}
	hub := NewHub(&config.Config{MaxNameLength: 8}, mm, auth.NewValidator(""))
	return NewClient(hub, nil, ""), mm
}

func lastMessage(t *testing.T, c *Client) map[string]interface{} {
	t.Helper()
	var last []byte
	for {
		select {
		case data := <-c.Send:
			last = data
			continue
		default:
		}
		break
	}
	if last == nil {
		t.Fatal("no message sent")
	}
	var m map[string]interface{}
	if err := json.Unmarshal(last, &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	return m
}

func TestSetNameEnqueues(t *testing.T) {
	c, mm := newTestClient()
	c.handleMessage([]byte(`{"type":"set_name","name":"Alice"}`))

	if len(mm.enqueued) != 1 || c.Name != "Alice" {
		t.Fatalf("enqueued=%d name=%q", len(mm.enqueued), c.Name)
	}
	if m := lastMessage(t, c); m["type"] != "waiting_for_match" {
		t.Fatalf("got %v", m)
	}

	c.handleMessage([]byte(`{"type":"set_name","name":"Alice"}`))
	if m := lastMessage(t, c); m["kind"] != "already_queued" {
		t.Fatalf("second enqueue: %v", m)
	}
}

func TestSetNameValidation(t *testing.T) {
	c, mm := newTestClient()
	for _, msg := range []string{
		`{"type":"set_name","name":""}`,
		`{"type":"set_name","name":"Bartholomew"}`,
		`{"type":"set_name","name":1}`,
	} {
		c.handleMessage([]byte(msg))
		if m := lastMessage(t, c); m["type"] != "error" {
			t.Errorf("%s: got %v", msg, m)
		}
	}
	if len(mm.enqueued) != 0 {
		t.Fatal("invalid names were queued")
	}
}

func TestAuthWithoutProvider(t *testing.T) {
	c, _ := newTestClient()
	c.handleMessage([]byte(`{"type":"auth","token":"x"}`))
	if m := lastMessage(t, c); m["kind"] != "auth_unavailable" {
		t.Fatalf("got %v", m)
	}
}

func TestGameActionsOutsideGame(t *testing.T) {
	c, _ := newTestClient()
	for _, typ := range []string{"pass", "end_turn", "undo", "roll_dice"} {
		c.handleMessage([]byte(`{"type":"` + typ + `"}`))
		if m := lastMessage(t, c); m["kind"] != "not_in_game" {
			t.Errorf("%s: got %v", typ, m)
		}
	}
	c.handleMessage([]byte(`{"type":"dance"}`))
	if m := lastMessage(t, c); m["kind"] != "bad_message" {
		t.Errorf("unknown type: got %v", m)
	}
}

func TestActionsReachGame(t *testing.T) {
	c, _ := newTestClient()
	g := game.NewGame("g1", c.Hub.Config, game.NewPlayer("A", nil), game.NewPlayer("B", nil), nil, nil, nil)
	c.SetGame(g, 1)

	c.handleMessage([]byte(`{"type":"play_card","index":2}`))
	c.handleMessage([]byte(`{"type":"choose_target","lane":1,"cardIndex":0}`))
	c.handleMessage([]byte(`{"type":"select_blight","blightId":"devil","second":true}`))

	a := <-g.Actions
	if a.Type != game.ActionPlayCard || a.PlayerIdx != 1 || a.Index != 2 || a.Lane != rules.NoLane {
		t.Errorf("play_card action = %+v", a)
	}
	a = <-g.Actions
	if a.Type != game.ActionChooseTarget || a.Target.Lane != 1 || a.Target.CardIndex != 0 || a.Target.Owner != rules.NoLane {
		t.Errorf("choose_target action = %+v", a)
	}
	a = <-g.Actions
	if a.Type != game.ActionSelectBlight || a.BlightID != "devil" || !a.Second {
		t.Errorf("select_blight action = %+v", a)
	}
}

func TestRejoinByToken(t *testing.T) {
	c, mm := newTestClient()
	g := game.NewGame("g1", c.Hub.Config, game.NewPlayer("A", nil), game.NewPlayer("B", nil), nil, nil, nil)
	mm.rejoin = g

	c.handleMessage([]byte(`{"type":"rejoin","gameId":"g1","rejoinToken":"bad","name":"B"}`))
	if m := lastMessage(t, c); m["kind"] != "invalid_rejoin_token" {
		t.Fatalf("bad token: %v", m)
	}

	c.handleMessage([]byte(`{"type":"rejoin","gameId":"g1","rejoinToken":"tok","name":"B"}`))
	m := lastMessage(t, c)
	if m["type"] != "match_found" || m["seat"] != float64(1) || m["opponentName"] != "A" {
		t.Fatalf("match_found = %v", m)
	}
	a := <-g.Actions
	if a.Type != game.ActionRejoinCompleted || a.PlayerIdx != 1 || a.NewSend != c.Send {
		t.Fatalf("rejoin action = %+v", a)
	}
}

func TestChooseTargetChoice(t *testing.T) {
	msg := ChooseTargetMsg{Choice: "second_blight"}
	a, ok := msg.Action(0)
	if !ok || a.Target.Choice != rules.ChoiceSecondBlight || a.Target.Lane != rules.NoLane {
		t.Fatalf("action = %+v, %v", a, ok)
	}
	if _, ok := (ChooseTargetMsg{Choice: "nap"}).Action(0); ok {
		t.Fatal("unknown choice accepted")
	}
}

func TestTruncateName(t *testing.T) {
	if got := truncateName("Åsa-Lisa", 3); got != "Åsa" {
		t.Errorf("got %q", got)
	}
	if got := truncateName("Bo", 8); got != "Bo" {
		t.Errorf("got %q", got)
	}
}
