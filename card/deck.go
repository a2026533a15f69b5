package card

import "math/rand"

// LaneSuits lists the lane suits in lane order.
var LaneSuits = [3]Suit{Clubs, Spades, Diamonds}

// Deck is the match's card supplier. It is a value: Draw returns a new Deck and never
// mutates the receiver, so a copied Deck is an independent snapshot.
type Deck struct {
	cards []Card
	next  int
}

// NewDeck returns a deck over cards in the given order (top of deck first).
func NewDeck(cards []Card) Deck {
	cp := make([]Card, len(cards))
	copy(cp, cards)
	return Deck{cards: cp}
}

// NewShuffledDeck builds the standard GWAN deck and shuffles it with rng.
func NewShuffledDeck(rng *rand.Rand) Deck {
	cards := StandardCards()
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return Deck{cards: cards}
}

// Draw takes up to n cards from the top. Fewer are returned when the deck runs low.
func (d Deck) Draw(n int) (Deck, []Card) {
	if n <= 0 {
		return d, nil
	}
	end := d.next + n
	if end > len(d.cards) {
		end = len(d.cards)
	}
	drawn := make([]Card, end-d.next)
	copy(drawn, d.cards[d.next:end])
	d.next = end
	return d, drawn
}

// Remaining is the number of cards left to draw.
func (d Deck) Remaining() int {
	return len(d.cards) - d.next
}

// StandardCards returns the 54-card GWAN deck in a fixed order. IDs are 1..54.
func StandardCards() []Card {
	cards := make([]Card, 0, 54)
	id := 0
	add := func(s Suit, rank, base int, a Ability) {
		id++
		cards = append(cards, Card{ID: id, Suit: s, Rank: rank, Base: base, Ability: a})
	}
	for _, s := range LaneSuits {
		add(s, Ace, 0, Weather)
		for r := 2; r <= 10; r++ {
			if r == 5 {
				add(s, r, 5, Spy)
				continue
			}
			add(s, r, r, Plain)
		}
		add(s, Jack, 11, Commander)
		add(s, Queen, 12, Commander)
		add(s, King, 13, Commander)
	}
	add(Hearts, Ace, 0, Decoy)
	for r := 2; r <= 4; r++ {
		add(Hearts, r, 0, Rogue)
	}
	for r := 5; r <= 7; r++ {
		add(Hearts, r, 2, Sniper)
	}
	for r := 8; r <= 10; r++ {
		add(Hearts, r, r, Medic)
	}
	add(Hearts, Jack, 0, Decoy)
	add(Hearts, Queen, 4, Medic)
	add(Hearts, King, 0, SuicideKing)
	add(NoSuit, 0, 1, Joker)
	add(NoSuit, 0, 1, Joker)
	return cards
}

// LaneOf returns the lane index for a lane suit, or -1 for hearts and jokers.
func LaneOf(s Suit) int {
	for i, ls := range LaneSuits {
		if ls == s {
			return i
		}
	}
	return -1
}
