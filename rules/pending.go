package rules

import (
	"fmt"

	"gwan-server/card"
)

// PendingKind is the input a sub-resolution waits for.
type PendingKind int

const (
	AwaitTarget PendingKind = iota + 1
	AwaitDice
	AwaitChoice
	AwaitBlightSelection
)

// String returns the protocol string for a PendingKind.
func (k PendingKind) String() string {
	switch k {
	case AwaitTarget:
		return "target"
	case AwaitDice:
		return "dice"
	case AwaitChoice:
		return "choice"
	case AwaitBlightSelection:
		return "blight_selection"
	default:
		return "unknown"
	}
}

// MarshalText encodes a PendingKind by name.
func (k PendingKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a PendingKind name.
func (k *PendingKind) UnmarshalText(b []byte) error {
	for c := AwaitTarget; c <= AwaitBlightSelection; c++ {
		if c.String() == string(b) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("rules: unknown pending kind %q", b)
}

// DiceSpec describes the roll a dice sub-resolution expects.
type DiceSpec struct {
	Count int `json:"count"`
	Sides int `json:"sides"`
}

// Pending is an open sub-resolution. It records the card or Blight that opened it so a later
// ChooseTarget or SupplyDiceResult can be matched to the right context. Values are never
// modified after being stored on a State; transitions install a new Pending.
type Pending struct {
	Kind   PendingKind `json:"kind"`
	Player int         `json:"player"`
	// Blight is the id of the Blight effect that opened this, empty for cards.
	Blight string `json:"blight,omitempty"`
	// Card is the played card that opened this (zero for Blights).
	Card card.Card `json:"card"`
	// Lane is where Card was placed, or the lane chosen in an earlier step.
	Lane   int      `json:"lane"`
	Step   int      `json:"step"`
	Dice   DiceSpec `json:"dice"`
	Rolls  int      `json:"rolls,omitempty"`
	Tally  int      `json:"tally,omitempty"`
	Prompt string   `json:"prompt"`
	// Committed is set once dice were supplied for this action; it can no longer be undone.
	Committed bool `json:"committed,omitempty"`
}

// Choice is the answer to an AwaitChoice sub-resolution.
type Choice int

const (
	ChoiceNone Choice = iota
	ChoiceClearWeather
	ChoiceSecondBlight
)

// Target answers an AwaitTarget or AwaitChoice sub-resolution. Unused fields are NoLane.
type Target struct {
	Lane      int
	CardIndex int
	// Owner selects whose pile or field is targeted when both are eligible.
	Owner  int
	Choice Choice
}

// NoTarget returns a Target with every field unset.
func NoTarget() Target {
	return Target{Lane: NoLane, CardIndex: NoLane, Owner: NoLane}
}

// Input is what resumes a sub-resolution: a target, or dice values already validated
// against the pending DiceSpec.
type Input struct {
	Target Target
	Dice   []int
}

// Effect is the working context handed to card and Blight effects. Effects mutate State
// through its copy-on-write helpers and open the next sub-resolution with Await.
type Effect struct {
	State   *State
	Invoker int
	// Pending is the sub-resolution being resumed; nil when the effect starts.
	Pending *Pending

	next     *Pending
	noEffect bool
	endTurn  bool
}

// Self is the invoking player.
func (x *Effect) Self() *Player { return &x.State.Players[x.Invoker] }

// OpponentIndex is the invoker's opponent seat.
func (x *Effect) OpponentIndex() int { return 1 - x.Invoker }

// Opponent is the invoker's opponent.
func (x *Effect) Opponent() *Player { return &x.State.Players[1-x.Invoker] }

// Await opens the next sub-resolution. The engine fills in the player and the source.
func (x *Effect) Await(p Pending) {
	x.next = &p
}

// NoEffect marks the effect as having resolved without changing anything.
func (x *Effect) NoEffect() {
	x.noEffect = true
}
