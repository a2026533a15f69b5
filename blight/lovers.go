package blight

import (
	"fmt"

	"gwan-server/card"
	"gwan-server/rules"
)

// Lovers doubles one of the invoker's non-commander field cards for the rest of the round.
type Lovers struct{}

func (Lovers) ID() string   { return IDLovers }
func (Lovers) Name() string { return "The Lovers" }
func (Lovers) Description() string {
	return "Doubles the value of one of your non-commander cards until the round ends."
}

func loversTarget(c card.Card) bool {
	return !c.IsCommander() && !c.Doubled
}

func (Lovers) Invoke(x *rules.Effect) string {
	if _, _, ok := x.State.FindOnField(x.Invoker, loversTarget); !ok {
		x.NoEffect()
		return "The Lovers found no card to bless"
	}
	x.Await(rules.Pending{Kind: rules.AwaitTarget, Lane: rules.NoLane, Prompt: "Choose one of your non-commander cards."})
	return "The Lovers are choosing a card"
}

func (Lovers) Resume(x *rules.Effect, in rules.Input) (string, error) {
	l, i := in.Target.Lane, in.Target.CardIndex
	if !rules.ValidLane(l) || i < 0 || i >= len(x.Self().Lanes[l]) {
		return "", fmt.Errorf("%w: no card there", rules.ErrIllegalTarget)
	}
	c := x.Self().Lanes[l][i]
	if !loversTarget(c) {
		return "", fmt.Errorf("%w: the Lovers cannot bless the %s", rules.ErrIllegalTarget, c.Label())
	}
	x.State.SetCard(x.Invoker, l, i, c.WithDoubled(true))
	return fmt.Sprintf("The Lovers doubled the %s", c.Label()), nil
}
