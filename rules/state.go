package rules

import (
	"slices"

	"gwan-server/card"
)

// NoLane marks an unspecified lane or index in a Target or PlayCard call.
const NoLane = -1

// LaneCount is the number of lanes per player.
const LaneCount = 3

// Phase is the match-level state of the rules engine.
type Phase int

const (
	PhaseBlightSelection Phase = iota
	PhaseFirstTurnRoll
	PhaseInRound
	PhaseMatchComplete
)

// String returns the protocol string for a Phase.
func (p Phase) String() string {
	switch p {
	case PhaseBlightSelection:
		return "blight_selection"
	case PhaseFirstTurnRoll:
		return "first_turn_roll"
	case PhaseInRound:
		return "in_round"
	case PhaseMatchComplete:
		return "match_complete"
	default:
		return "unknown"
	}
}

// BlightSlot is one Blight card held by a player.
type BlightSlot struct {
	ID   string `json:"id"`
	Used bool   `json:"used"`
	// Granted is set for the extra card obtained through the Suicide King.
	Granted bool `json:"granted,omitempty"`
}

// Player is one seat's authoritative state.
//
// Slices are shared between a State and its snapshots and must never be written in place;
// every mutation goes through the copy-on-write helpers in this file.
type Player struct {
	Name      string
	Hand      []card.Card
	Lanes     [LaneCount][]card.Card
	Discard   []card.Card
	Score     int
	RoundsWon int
	Passed    bool
	Blights   []BlightSlot
	// BlightUsedThisTurn is set once the player invokes a Blight during the current turn.
	BlightUsedThisTurn bool
	// Bonus is a scalar score addend for the current round (Wheel of Fortune).
	Bonus int
}

// BlightsUsed counts the player's used Blight cards.
func (p Player) BlightsUsed() int {
	n := 0
	for _, b := range p.Blights {
		if b.Used {
			n++
		}
	}
	return n
}

// HoldsBlight reports whether the player owns a Blight card with the given id.
func (p Player) HoldsBlight(id string) bool {
	for _, b := range p.Blights {
		if b.ID == id {
			return true
		}
	}
	return false
}

// FieldSize is the number of cards on the player's three lanes.
func (p Player) FieldSize() int {
	n := 0
	for _, l := range p.Lanes {
		n += len(l)
	}
	return n
}

// RoundOutcome records how a finished round was scored. Winner is -1 on a tie.
type RoundOutcome struct {
	Round  int    `json:"round"`
	Scores [2]int `json:"scores"`
	Winner int    `json:"winner"`
}

// MatchOutcome is reported once the match is over. Winner is -1 on a tie.
type MatchOutcome struct {
	Winner    int    `json:"winner"`
	RoundsWon [2]int `json:"roundsWon"`
}

// State is the authoritative GameState of one match. It is a value: assigning a State
// produces an independent snapshot because nested slices are copy-on-write.
type State struct {
	Players [2]Player
	Phase   Phase
	// Selecting is the player who must select a Blight next (PhaseBlightSelection).
	Selecting int
	Turn      int
	Round     int
	// RoundStarter is who took the first turn of the current round.
	RoundStarter int
	Deck         card.Deck
	Weather      [LaneCount]bool
	LaneBonus    [LaneCount]int
	Pending      *Pending
	// PlayedThisTurn is set once the acting player has placed a card this turn.
	PlayedThisTurn bool
	Rounds         []RoundOutcome
	Outcome        *MatchOutcome
}

// BlightSelectionComplete reports whether both players finished their initial selection.
func (s *State) BlightSelectionComplete() bool {
	return s.Phase != PhaseBlightSelection
}

// Place appends c to a player's lane.
func (s *State) Place(player, lane int, c card.Card) {
	p := &s.Players[player]
	p.Lanes[lane] = appendCard(p.Lanes[lane], c)
}

// TakeFromLane removes and returns the card at idx of a player's lane.
func (s *State) TakeFromLane(player, lane, idx int) card.Card {
	p := &s.Players[player]
	c := p.Lanes[lane][idx]
	p.Lanes[lane] = removeCard(p.Lanes[lane], idx)
	return c
}

// DiscardFromLane moves the card at idx of a player's lane to that player's discard pile.
func (s *State) DiscardFromLane(player, lane, idx int) card.Card {
	c := s.TakeFromLane(player, lane, idx)
	p := &s.Players[player]
	p.Discard = appendCard(p.Discard, c.Reset())
	return c
}

// DiscardLane moves a whole lane to its owner's discard pile and returns how many cards moved.
func (s *State) DiscardLane(player, lane int) int {
	p := &s.Players[player]
	n := len(p.Lanes[lane])
	for _, c := range p.Lanes[lane] {
		p.Discard = appendCard(p.Discard, c.Reset())
	}
	p.Lanes[lane] = nil
	return n
}

// SetCard replaces the card at idx of a player's lane.
func (s *State) SetCard(player, lane, idx int, c card.Card) {
	p := &s.Players[player]
	p.Lanes[lane] = replaceCard(p.Lanes[lane], idx, c)
}

// TakeFromDiscard removes and returns the card at idx of a player's discard pile.
func (s *State) TakeFromDiscard(player, idx int) card.Card {
	p := &s.Players[player]
	c := p.Discard[idx]
	p.Discard = removeCard(p.Discard, idx)
	return c
}

// AddToHand appends cards to a player's hand.
func (s *State) AddToHand(player int, cs ...card.Card) {
	p := &s.Players[player]
	p.Hand = append(slices.Clip(p.Hand), cs...)
}

// DiscardHand moves a player's whole hand to the discard pile and returns its size.
func (s *State) DiscardHand(player int) int {
	p := &s.Players[player]
	n := len(p.Hand)
	p.Discard = append(slices.Clip(p.Discard), p.Hand...)
	p.Hand = nil
	return n
}

// Draw deals up to n cards from the deck into a player's hand and returns how many were drawn.
func (s *State) Draw(player, n int) int {
	deck, drawn := s.Deck.Draw(n)
	s.Deck = deck
	if len(drawn) > 0 {
		s.AddToHand(player, drawn...)
	}
	return len(drawn)
}

// FindOnField returns the first card on a player's field, in lane order, matching fn.
func (s *State) FindOnField(player int, fn func(card.Card) bool) (lane, idx int, ok bool) {
	for l, cards := range s.Players[player].Lanes {
		for i, c := range cards {
			if fn(c) {
				return l, i, true
			}
		}
	}
	return NoLane, NoLane, false
}

// CardValue is the effective value of the card at idx of a player's lane, lane bonus excluded.
func (s *State) CardValue(player, lane, idx int) int {
	cards := s.Players[player].Lanes[lane]
	return cardValue(cards[idx], cards, s.Weather[lane])
}

// LaneBase sums the values of a player's lane without commander doubling, weather or lane bonus.
func (s *State) LaneBase(player, lane int) int {
	total := 0
	for _, c := range s.Players[player].Lanes[lane] {
		total += c.Value()
	}
	return total
}

// ValidLane reports whether l names one of the three lanes.
func ValidLane(l int) bool {
	return l >= 0 && l < LaneCount
}

func appendCard(cs []card.Card, c card.Card) []card.Card {
	return append(slices.Clip(cs), c)
}

func removeCard(cs []card.Card, idx int) []card.Card {
	out := make([]card.Card, 0, len(cs)-1)
	out = append(out, cs[:idx]...)
	return append(out, cs[idx+1:]...)
}

func replaceCard(cs []card.Card, idx int, c card.Card) []card.Card {
	out := slices.Clone(cs)
	out[idx] = c
	return out
}
