package blight

import (
	"fmt"

	"gwan-server/rules"
)

// WheelOfFortune adds a d20 roll to the invoker's score for the round.
type WheelOfFortune struct{}

func (WheelOfFortune) ID() string          { return IDWheel }
func (WheelOfFortune) Name() string        { return "Wheel of Fortune" }
func (WheelOfFortune) Description() string { return "Roll a d20 and add the result to your score this round." }

func (WheelOfFortune) Invoke(x *rules.Effect) string {
	x.Await(rules.Pending{
		Kind:   rules.AwaitDice,
		Lane:   rules.NoLane,
		Dice:   rules.DiceSpec{Count: 1, Sides: 20},
		Prompt: "Spin the wheel: roll a d20.",
	})
	return "The Wheel of Fortune is spinning"
}

func (WheelOfFortune) Resume(x *rules.Effect, in rules.Input) (string, error) {
	x.Self().Bonus += in.Dice[0]
	return fmt.Sprintf("The Wheel of Fortune granted %d points", in.Dice[0]), nil
}
