package rules

// Options holds the tunable constants of a match.
type Options struct {
	// HandSize is the number of cards dealt to each player at match creation.
	HandSize int
	// LaneBonus is added once per non-empty, weather-free lane (clubs, spades, diamonds).
	LaneBonus [3]int
	// SpyDraw is how many cards a spy or joker draws for the player who played it.
	SpyDraw int
	// RoundsToWin ends the match as soon as a player has won this many rounds.
	RoundsToWin int
	// MaxRounds ends the match after this many rounds even without a clear winner.
	MaxRounds int
	// RoundDeal is how many cards each player receives at the start of rounds after the first.
	RoundDeal int
}

// DefaultOptions returns the standard GWAN rules.
func DefaultOptions() Options {
	return Options{
		HandSize:    10,
		LaneBonus:   [3]int{2, 3, 5},
		SpyDraw:     2,
		RoundsToWin: 2,
		MaxRounds:   3,
		RoundDeal:   1,
	}
}
