// Package dice rolls dice on behalf of players who ask the server to roll.
package dice

import (
	"errors"
	"math/rand"
	"sync"
	"time"
)

var ErrInvalidSpec = errors.New("dice: count and sides must be positive")

// Roller produces dice results.
type Roller interface {
	Roll(count, sides int) ([]int, error)
}

// RandRoller is a Roller over math/rand. It is safe for concurrent use.
type RandRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandRoller returns a Roller seeded with seed; the same seed yields the same rolls.
func NewRandRoller(seed int64) *RandRoller {
	return &RandRoller{rng: rand.New(rand.NewSource(seed))}
}

// NewTimeRoller returns a Roller seeded from the clock.
func NewTimeRoller() *RandRoller {
	return NewRandRoller(time.Now().UnixNano())
}

// Roll rolls count dice with the given number of sides.
func (r *RandRoller) Roll(count, sides int) ([]int, error) {
	if count <= 0 || sides <= 0 {
		return nil, ErrInvalidSpec
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, count)
	for i := range out {
		out[i] = r.rng.Intn(sides) + 1
	}
	return out, nil
}

// FirstTurnRoll is one round of the first-turn tie-break: each player rolls a d6.
type FirstTurnRoll struct {
	Values [2]int `json:"values"`
}

// FirstTurn rolls a d6 per player until the values differ and returns the higher roller's
// seat along with every roll made, ties included.
func FirstTurn(r Roller) (int, []FirstTurnRoll, error) {
	var rolls []FirstTurnRoll
	for {
		v, err := r.Roll(2, 6)
		if err != nil {
			return 0, nil, err
		}
		rolls = append(rolls, FirstTurnRoll{Values: [2]int{v[0], v[1]}})
		switch {
		case v[0] > v[1]:
			return 0, rolls, nil
		case v[1] > v[0]:
			return 1, rolls, nil
		}
	}
}

// Fixed replays a fixed sequence of values. Tests use it to script rolls.
type Fixed struct {
	mu     sync.Mutex
	values []int
}

// NewFixed returns a Roller that hands out values in order.
func NewFixed(values ...int) *Fixed {
	return &Fixed{values: values}
}

// Roll takes the next count values. It returns ErrInvalidSpec once the sequence runs out.
func (f *Fixed) Roll(count, sides int) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if count <= 0 || sides <= 0 || count > len(f.values) {
		return nil, ErrInvalidSpec
	}
	out := append([]int(nil), f.values[:count]...)
	f.values = f.values[count:]
	return out, nil
}
