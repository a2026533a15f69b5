package card

import "fmt"

// Suit is one of the four card suits. Clubs, spades and diamonds each map to a lane;
// hearts are the free-lane special suit.
type Suit int

const (
	NoSuit Suit = iota
	Clubs
	Spades
	Diamonds
	Hearts
)

// String returns the protocol string for a Suit.
func (s Suit) String() string {
	switch s {
	case Clubs:
		return "clubs"
	case Spades:
		return "spades"
	case Diamonds:
		return "diamonds"
	case Hearts:
		return "hearts"
	default:
		return ""
	}
}

// MarshalText encodes a Suit by name.
func (s Suit) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a Suit name; the empty string is NoSuit.
func (s *Suit) UnmarshalText(b []byte) error {
	for c := NoSuit; c <= Hearts; c++ {
		if c.String() == string(b) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("card: unknown suit %q", b)
}

// Ability is the closed set of card behaviours. Exactly one applies to every card.
type Ability int

const (
	Plain Ability = iota
	Commander
	Weather
	Spy
	Medic
	Decoy
	Rogue
	Sniper
	Joker
	SuicideKing
	// Hidden marks an opaque placeholder produced for the opponent's hand.
	Hidden
)

// String returns the protocol string for an Ability.
func (a Ability) String() string {
	switch a {
	case Plain:
		return "plain"
	case Commander:
		return "commander"
	case Weather:
		return "weather"
	case Spy:
		return "spy"
	case Medic:
		return "medic"
	case Decoy:
		return "decoy"
	case Rogue:
		return "rogue"
	case Sniper:
		return "sniper"
	case Joker:
		return "joker"
	case SuicideKing:
		return "suicide_king"
	case Hidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// MarshalText encodes an Ability by name.
func (a Ability) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes an Ability name.
func (a *Ability) UnmarshalText(b []byte) error {
	for c := Plain; c <= Hidden; c++ {
		if c.String() == string(b) {
			*a = c
			return nil
		}
	}
	return fmt.Errorf("card: unknown ability %q", b)
}

// Rank values. Numeric ranks use their face number.
const (
	Ace   = 1
	Jack  = 11
	Queen = 12
	King  = 13
)

// Card is an immutable card value. Rolled is the resolved dice value of a played rogue
// (0 until rolled); Doubled is set by the Lovers blight for the rest of the round.
type Card struct {
	ID      int     `json:"id"`
	Suit    Suit    `json:"suit,omitempty"`
	Rank    int     `json:"rank,omitempty"`
	Base    int     `json:"base"`
	Ability Ability `json:"ability"`
	Rolled  int     `json:"rolled,omitempty"`
	Doubled bool    `json:"doubled,omitempty"`
}

// Placeholder returns the opaque card shown in place of an unseen hand card.
func Placeholder() Card {
	return Card{ID: -1, Ability: Hidden}
}

// IsCommander reports whether c is a commander.
func (c Card) IsCommander() bool { return c.Ability == Commander }

// WithRoll returns a copy of c carrying the resolved dice value.
func (c Card) WithRoll(v int) Card {
	c.Rolled = v
	return c
}

// WithDoubled returns a copy of c with the Lovers doubling flag set to on.
func (c Card) WithDoubled(on bool) Card {
	c.Doubled = on
	return c
}

// Reset strips state picked up while on the field (rolled value, Lovers doubling).
func (c Card) Reset() Card {
	c.Rolled = 0
	c.Doubled = false
	return c
}

// Value is the card's value before lane modifiers: the rolled value for a resolved rogue,
// otherwise the base value.
func (c Card) Value() int {
	if c.Ability == Rogue {
		return c.Rolled
	}
	return c.Base
}

// FreeLane reports whether the player picks the lane when playing c.
func (c Card) FreeLane() bool {
	return c.Suit == Hearts || c.Ability == Joker
}

// Label is a short human readable name used in result messages.
func (c Card) Label() string {
	if c.Ability == Joker {
		return "Joker"
	}
	if c.Ability == Hidden {
		return "?"
	}
	return rankLabel(c.Rank) + " of " + c.Suit.String()
}

func rankLabel(r int) string {
	switch r {
	case Ace:
		return "Ace"
	case Jack:
		return "Jack"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return fmt.Sprintf("%d", r)
	}
}
