package rules

import (
	"testing"

	"gwan-server/card"
)

// bonusBlight adds one point to the invoker's bonus.
type bonusBlight struct{ id string }

func (b bonusBlight) ID() string          { return b.id }
func (b bonusBlight) Name() string        { return b.id }
func (b bonusBlight) Description() string { return "test blight" }
func (b bonusBlight) Invoke(x *Effect) string {
	x.Self().Bonus++
	return "bonus"
}
func (b bonusBlight) Resume(x *Effect, in Input) (string, error) {
	return "", ErrNoPendingResolution
}

// rollBlight waits for a d20 and adds it to the invoker's bonus.
type rollBlight struct{ id string }

func (b rollBlight) ID() string          { return b.id }
func (b rollBlight) Name() string        { return b.id }
func (b rollBlight) Description() string { return "test dice blight" }
func (b rollBlight) Invoke(x *Effect) string {
	x.Await(Pending{Kind: AwaitDice, Lane: NoLane, Dice: DiceSpec{Count: 1, Sides: 20}})
	return "rolling"
}
func (b rollBlight) Resume(x *Effect, in Input) (string, error) {
	x.Self().Bonus += in.Dice[0]
	return "rolled", nil
}

type stubProvider struct {
	order []string
	m     map[string]BlightEffect
}

func newStubProvider(effs ...BlightEffect) *stubProvider {
	p := &stubProvider{m: make(map[string]BlightEffect)}
	for _, e := range effs {
		p.m[e.ID()] = e
		p.order = append(p.order, e.ID())
	}
	return p
}

func (p *stubProvider) Blight(id string) (BlightEffect, bool) {
	e, ok := p.m[id]
	return e, ok
}

func (p *stubProvider) BlightIDs() []string { return p.order }

var nextTestID = 100

func mk(s card.Suit, rank, base int, a card.Ability) card.Card {
	nextTestID++
	return card.Card{ID: nextTestID, Suit: s, Rank: rank, Base: base, Ability: a}
}

func plain(s card.Suit, v int) card.Card { return mk(s, v, v, card.Plain) }

func commander(s card.Suit, rank int) card.Card { return mk(s, rank, rank, card.Commander) }

func filler(n int) []card.Card {
	out := make([]card.Card, n)
	for i := range out {
		out[i] = plain(card.Diamonds, 2)
	}
	return out
}

// newTestEngine deals hand0 and hand1 (same length) and leaves rest in the deck. Player 0
// holds "bonus" and player 1 holds "roll"; round 1 starts with player 0 to act.
func newTestEngine(t *testing.T, hand0, hand1 []card.Card, rest ...card.Card) *Engine {
	t.Helper()
	if len(hand0) != len(hand1) {
		t.Fatalf("hands differ in size: %d vs %d", len(hand0), len(hand1))
	}
	opts := DefaultOptions()
	opts.HandSize = len(hand0)
	cards := append(append(append([]card.Card{}, hand0...), hand1...), rest...)
	e := New(opts, card.NewDeck(cards), [2]string{"Alice", "Bob"},
		newStubProvider(bonusBlight{id: "bonus"}, rollBlight{id: "roll"}, bonusBlight{id: "spare"}))
	mustOK(t, e.SelectBlight(0, "bonus", false))
	mustOK(t, e.SelectBlight(1, "roll", false))
	mustOK(t, e.SubmitFirstTurnRoll(0))
	return e
}

func mustOK(t *testing.T, r Result) Result {
	t.Helper()
	if !r.Success {
		t.Fatalf("action failed: %v", r.Err)
	}
	return r
}
