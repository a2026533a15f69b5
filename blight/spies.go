package blight

import (
	"fmt"

	"gwan-server/card"
	"gwan-server/rules"
)

func isSpy(c card.Card) bool { return c.Ability == card.Spy }

// HangedMan destroys the first spy found on the opponent's field.
type HangedMan struct{}

func (HangedMan) ID() string          { return IDHangedMan }
func (HangedMan) Name() string        { return "The Hanged Man" }
func (HangedMan) Description() string { return "Destroys the first spy on your opponent's field." }

func (HangedMan) Invoke(x *rules.Effect) string {
	opp := x.OpponentIndex()
	l, i, ok := x.State.FindOnField(opp, isSpy)
	if !ok {
		x.NoEffect()
		return "The Hanged Man found no spy"
	}
	c := x.State.DiscardFromLane(opp, l, i)
	return fmt.Sprintf("The Hanged Man destroyed the %s", c.Label())
}

func (HangedMan) Resume(x *rules.Effect, in rules.Input) (string, error) {
	return "", rules.ErrNoPendingResolution
}

// Emperor recalls the invoker's spy from the opponent's field back to hand.
type Emperor struct{}

func (Emperor) ID() string          { return IDEmperor }
func (Emperor) Name() string        { return "The Emperor" }
func (Emperor) Description() string { return "Returns your spy from your opponent's field to your hand." }

func (Emperor) Invoke(x *rules.Effect) string {
	opp := x.OpponentIndex()
	l, i, ok := x.State.FindOnField(opp, isSpy)
	if !ok {
		x.NoEffect()
		return "The Emperor has no spy to recall"
	}
	c := x.State.TakeFromLane(opp, l, i)
	x.State.AddToHand(x.Invoker, c.Reset())
	return fmt.Sprintf("The Emperor recalled the %s", c.Label())
}

func (Emperor) Resume(x *rules.Effect, in rules.Input) (string, error) {
	return "", rules.ErrNoPendingResolution
}
