package blight

import (
	"fmt"

	"gwan-server/card"
	"gwan-server/rules"
)

// Fool steals the opponent's highest-value commander onto the invoker's matching lane.
type Fool struct{}

func (Fool) ID() string   { return IDFool }
func (Fool) Name() string { return "The Fool" }
func (Fool) Description() string {
	return "Steals your opponent's strongest commander and places it on your matching lane."
}

func (Fool) Invoke(x *rules.Effect) string {
	opp := x.OpponentIndex()
	lane, idx, best := rules.NoLane, rules.NoLane, -1
	for l, cards := range x.Opponent().Lanes {
		for i, c := range cards {
			if c.IsCommander() && c.Base > best {
				lane, idx, best = l, i, c.Base
			}
		}
	}
	if best < 0 {
		x.NoEffect()
		return "The Fool found no commander to steal"
	}
	c := x.State.TakeFromLane(opp, lane, idx)
	x.State.Place(x.Invoker, card.LaneOf(c.Suit), c)
	return fmt.Sprintf("The Fool stole %s's %s", x.Opponent().Name, c.Label())
}

func (Fool) Resume(x *rules.Effect, in rules.Input) (string, error) {
	return "", rules.ErrNoPendingResolution
}
