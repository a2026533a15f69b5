package blight

import (
	"fmt"

	"gwan-server/rules"
)

// Magician rolls a d20 against one opponent lane; beating the lane's base total clears it.
type Magician struct{}

func (Magician) ID() string   { return IDMagician }
func (Magician) Name() string { return "The Magician" }
func (Magician) Description() string {
	return "Pick an opponent lane and roll a d20. If the roll beats the lane's total, every card there is discarded."
}

func (Magician) Invoke(x *rules.Effect) string {
	if x.Opponent().FieldSize() == 0 {
		x.NoEffect()
		return "The Magician found no lane to curse"
	}
	x.Await(rules.Pending{Kind: rules.AwaitTarget, Lane: rules.NoLane, Prompt: "Choose one of your opponent's lanes."})
	return "The Magician is choosing a lane"
}

func (Magician) Resume(x *rules.Effect, in rules.Input) (string, error) {
	opp := x.OpponentIndex()
	switch x.Pending.Step {
	case 0:
		l := in.Target.Lane
		if !rules.ValidLane(l) || len(x.Opponent().Lanes[l]) == 0 {
			return "", fmt.Errorf("%w: choose a non-empty opponent lane", rules.ErrIllegalTarget)
		}
		x.Await(rules.Pending{
			Kind:   rules.AwaitDice,
			Step:   1,
			Lane:   l,
			Dice:   rules.DiceSpec{Count: 1, Sides: 20},
			Prompt: fmt.Sprintf("Roll a d20. Beat %d to clear the lane.", x.State.LaneBase(opp, l)),
		})
		return "The Magician chose a lane", nil
	default:
		roll := in.Dice[0]
		total := x.State.LaneBase(opp, x.Pending.Lane)
		if roll <= total {
			x.NoEffect()
			return fmt.Sprintf("The Magician rolled %d against %d and failed", roll, total), nil
		}
		n := x.State.DiscardLane(opp, x.Pending.Lane)
		return fmt.Sprintf("The Magician rolled %d against %d and discarded %d cards", roll, total, n), nil
	}
}
