package rules

import "gwan-server/card"

// Score computes a player's total from lane contents, the shared weather and the lane bonuses,
// plus the player's scalar bonus. It reads nothing else and has no side effects.
func Score(p *Player, weather [LaneCount]bool, laneBonus [LaneCount]int) int {
	total := 0
	for l := range p.Lanes {
		total += LaneScore(p.Lanes[l], weather[l], laneBonus[l])
	}
	return total + p.Bonus
}

// LaneScore is the contribution of a single lane including its bonus.
func LaneScore(cards []card.Card, weathered bool, bonus int) int {
	if len(cards) == 0 {
		return 0
	}
	total := 0
	for _, c := range cards {
		total += cardValue(c, cards, weathered)
	}
	if !weathered {
		total += bonus
	}
	return total
}

// cardValue is the effective value of c placed in lane.
// Commanders always count in full. Weather flattens every other card to 1. Otherwise a
// same-suit commander doubles the card once, and the Lovers flag doubles it again.
// Spies and jokers count their fixed value.
func cardValue(c card.Card, lane []card.Card, weathered bool) int {
	if c.IsCommander() {
		return c.Base
	}
	if weathered {
		return 1
	}
	v := c.Value()
	if c.Ability != card.Spy && c.Ability != card.Joker && hasCommander(lane, c.Suit) {
		v *= 2
	}
	if c.Doubled {
		v *= 2
	}
	return v
}

func hasCommander(lane []card.Card, suit card.Suit) bool {
	for _, c := range lane {
		if c.IsCommander() && c.Suit == suit {
			return true
		}
	}
	return false
}

func (s *State) rescore() {
	for i := range s.Players {
		s.Players[i].Score = Score(&s.Players[i], s.Weather, s.LaneBonus)
	}
}
