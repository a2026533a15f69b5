package rules

import (
	"fmt"

	"gwan-server/card"
)

// playLane resolves the lane a card goes to. Lane-suit cards are bound to their suit's lane;
// hearts and jokers need an explicit lane; the Suicide King never reaches the field.
func playLane(c card.Card, lane int) (int, error) {
	switch {
	case c.Ability == card.Hidden:
		return NoLane, ErrInvalidCardIndex
	case c.Ability == card.SuicideKing:
		return NoLane, nil
	case c.FreeLane():
		if !ValidLane(lane) {
			return NoLane, fmt.Errorf("%w: choose a lane for the %s", ErrIllegalTarget, c.Label())
		}
		return lane, nil
	default:
		l := card.LaneOf(c.Suit)
		if lane != NoLane && lane != l {
			return NoLane, fmt.Errorf("%w: the %s belongs to the %s lane", ErrIllegalTarget, c.Label(), laneName(l))
		}
		return l, nil
	}
}

// resolveCard applies the immediate part of a played card's ability and opens the
// sub-resolution it needs, if any.
func (e *Engine) resolveCard(x *Effect, c card.Card, lane int) string {
	s := x.State
	me, opp := x.Invoker, x.OpponentIndex()
	name := s.Players[me].Name

	switch c.Ability {
	case card.Plain, card.Commander:
		s.Place(me, lane, c)
		return fmt.Sprintf("%s played the %s", name, c.Label())

	case card.Weather:
		p := &s.Players[me]
		p.Discard = appendCard(p.Discard, c)
		if s.Weather[lane] {
			x.NoEffect()
			return fmt.Sprintf("The %s lane is already under weather", laneName(lane))
		}
		s.Weather[lane] = true
		return fmt.Sprintf("%s brought weather to the %s lane", name, laneName(lane))

	case card.Spy, card.Joker:
		s.Place(opp, lane, c)
		n := s.Draw(me, e.opts.SpyDraw)
		return fmt.Sprintf("%s planted the %s in %s's %s lane and drew %d", name, c.Label(), s.Players[opp].Name, laneName(lane), n)

	case card.Medic:
		s.Place(me, lane, c)
		if len(s.Players[me].Discard) == 0 {
			x.NoEffect()
			return fmt.Sprintf("%s played a medic but has nothing to revive", name)
		}
		x.Await(Pending{Kind: AwaitTarget, Lane: lane, Prompt: "Choose a card from your discard pile to return to your hand."})
		return fmt.Sprintf("%s played a medic", name)

	case card.Decoy:
		s.Place(me, lane, c)
		if _, _, ok := s.FindOnField(me, decoyTarget(c.ID)); !ok {
			x.NoEffect()
			return fmt.Sprintf("%s played a decoy with nothing to swap", name)
		}
		x.Await(Pending{Kind: AwaitTarget, Lane: lane, Prompt: "Choose a card on your field to take back into your hand."})
		return fmt.Sprintf("%s played a decoy", name)

	case card.Rogue:
		s.Place(me, lane, c)
		x.Await(Pending{Kind: AwaitDice, Lane: lane, Dice: DiceSpec{Count: 2, Sides: 6}, Prompt: "Roll two dice to set the rogue's value."})
		return fmt.Sprintf("%s played a rogue", name)

	case card.Sniper:
		s.Place(me, lane, c)
		x.Await(Pending{Kind: AwaitDice, Lane: lane, Dice: DiceSpec{Count: 2, Sides: 6}, Prompt: "Roll two dice. Doubles take the shot."})
		return fmt.Sprintf("%s played a sniper", name)

	case card.SuicideKing:
		// The king leaves play for good: it is neither placed nor discarded.
		x.Await(Pending{Kind: AwaitChoice, Lane: NoLane, Prompt: "Clear all weather, or take a second Blight card."})
		return fmt.Sprintf("%s sacrificed the Suicide King", name)

	case card.Hidden:
	}
	return ""
}

// resumeCard continues the sub-resolution opened by a played card.
func (e *Engine) resumeCard(x *Effect, in Input) (string, error) {
	s := x.State
	pd := x.Pending
	me, opp := x.Invoker, x.OpponentIndex()
	name := s.Players[me].Name

	switch pd.Card.Ability {
	case card.Medic:
		idx := in.Target.CardIndex
		if idx < 0 || idx >= len(s.Players[me].Discard) {
			return "", fmt.Errorf("%w: no card at discard index %d", ErrIllegalTarget, idx)
		}
		c := s.TakeFromDiscard(me, idx)
		s.AddToHand(me, c)
		return fmt.Sprintf("%s's medic returned the %s to hand", name, c.Label()), nil

	case card.Decoy:
		l, i := in.Target.Lane, in.Target.CardIndex
		if !ValidLane(l) || i < 0 || i >= len(s.Players[me].Lanes[l]) {
			return "", fmt.Errorf("%w: no card there", ErrIllegalTarget)
		}
		if !decoyTarget(pd.Card.ID)(s.Players[me].Lanes[l][i]) {
			return "", fmt.Errorf("%w: the decoy cannot take that card", ErrIllegalTarget)
		}
		c := s.TakeFromLane(me, l, i)
		s.AddToHand(me, c.Reset())
		return fmt.Sprintf("%s's decoy took the %s back", name, c.Label()), nil

	case card.Rogue:
		idx := indexOf(s.Players[me].Lanes[pd.Lane], pd.Card.ID)
		if idx < 0 {
			return "", fmt.Errorf("%w: rogue no longer on the field", ErrNoPendingResolution)
		}
		total := 0
		for _, v := range in.Dice {
			total += v
		}
		s.SetCard(me, pd.Lane, idx, s.Players[me].Lanes[pd.Lane][idx].WithRoll(total))
		return fmt.Sprintf("%s's rogue rolled %d", name, total), nil

	case card.Sniper:
		if in.Dice[0] != in.Dice[1] {
			x.NoEffect()
			return fmt.Sprintf("%s's sniper missed (%d, %d)", name, in.Dice[0], in.Dice[1]), nil
		}
		l, i, ok := highestNonCommander(s, opp)
		if !ok {
			x.NoEffect()
			return fmt.Sprintf("%s's sniper rolled doubles but found no target", name), nil
		}
		c := s.DiscardFromLane(opp, l, i)
		return fmt.Sprintf("%s's sniper eliminated %s's %s", name, s.Players[opp].Name, c.Label()), nil

	case card.SuicideKing:
		switch in.Target.Choice {
		case ChoiceClearWeather:
			s.Weather = [LaneCount]bool{}
			x.endTurn = true
			return fmt.Sprintf("%s cleared the weather", name), nil
		case ChoiceSecondBlight:
			if len(e.availableBlights(me)) == 0 {
				return "", fmt.Errorf("%w: no Blight card left to take", ErrIllegalTarget)
			}
			x.Await(Pending{Kind: AwaitBlightSelection, Lane: NoLane, Prompt: "Select a second Blight card."})
			return fmt.Sprintf("%s will take a second Blight card", name), nil
		default:
			return "", fmt.Errorf("%w: pick clear weather or a second Blight", ErrIllegalTarget)
		}
	}
	return "", ErrNoPendingResolution
}

// decoyTarget matches cards a decoy may take back: anything but commanders and itself.
func decoyTarget(decoyID int) func(card.Card) bool {
	return func(c card.Card) bool {
		return c.ID != decoyID && !c.IsCommander()
	}
}

// highestNonCommander finds the player's non-commander field card with the highest
// effective value; the first one found wins ties.
func highestNonCommander(s *State, player int) (lane, idx int, ok bool) {
	best := -1
	lane, idx = NoLane, NoLane
	for l, cards := range s.Players[player].Lanes {
		for i, c := range cards {
			if c.IsCommander() {
				continue
			}
			if v := s.CardValue(player, l, i); v > best {
				best, lane, idx, ok = v, l, i, true
			}
		}
	}
	return lane, idx, ok
}

func indexOf(cards []card.Card, id int) int {
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func laneName(l int) string {
	if !ValidLane(l) {
		return "unknown"
	}
	return card.LaneSuits[l].String()
}
