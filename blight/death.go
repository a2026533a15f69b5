package blight

import (
	"fmt"

	"gwan-server/rules"
)

// Death discards the invoker's hand and draws the same number of cards.
type Death struct{}

func (Death) ID() string          { return IDDeath }
func (Death) Name() string        { return "Death" }
func (Death) Description() string { return "Discard your whole hand and draw that many new cards." }

func (Death) Invoke(x *rules.Effect) string {
	n := x.State.DiscardHand(x.Invoker)
	drawn := x.State.Draw(x.Invoker, n)
	if n == 0 {
		x.NoEffect()
	}
	return fmt.Sprintf("Death took %d cards and returned %d", n, drawn)
}

func (Death) Resume(x *rules.Effect, in rules.Input) (string, error) {
	return "", rules.ErrNoPendingResolution
}
