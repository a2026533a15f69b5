package dice

import (
	"errors"
	"reflect"
	"testing"
)

func TestRandRollerRange(t *testing.T) {
	r := NewRandRoller(42)
	for i := 0; i < 200; i++ {
		v, err := r.Roll(3, 6)
		if err != nil {
			t.Fatalf("Roll: %v", err)
		}
		if len(v) != 3 {
			t.Fatalf("got %d dice, want 3", len(v))
		}
		for _, d := range v {
			if d < 1 || d > 6 {
				t.Fatalf("die out of range: %d", d)
			}
		}
	}
}

func TestRandRollerDeterministic(t *testing.T) {
	a, _ := NewRandRoller(7).Roll(5, 20)
	b, _ := NewRandRoller(7).Roll(5, 20)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed gave %v and %v", a, b)
	}
}

func TestRollInvalidSpec(t *testing.T) {
	r := NewRandRoller(1)
	for _, tc := range [][2]int{{0, 6}, {1, 0}, {-1, 6}} {
		if _, err := r.Roll(tc[0], tc[1]); !errors.Is(err, ErrInvalidSpec) {
			t.Errorf("Roll(%d, %d): got %v", tc[0], tc[1], err)
		}
	}
}

func TestFirstTurnRerollsTies(t *testing.T) {
	winner, rolls, err := FirstTurn(NewFixed(3, 3, 5, 5, 2, 6))
	if err != nil {
		t.Fatalf("FirstTurn: %v", err)
	}
	if winner != 1 {
		t.Fatalf("winner = %d, want 1", winner)
	}
	if len(rolls) != 3 || rolls[2].Values != [2]int{2, 6} {
		t.Fatalf("rolls = %+v", rolls)
	}
}

func TestFixedRunsOut(t *testing.T) {
	f := NewFixed(4)
	if v, err := f.Roll(1, 6); err != nil || v[0] != 4 {
		t.Fatalf("first roll: %v %v", v, err)
	}
	if _, err := f.Roll(1, 6); !errors.Is(err, ErrInvalidSpec) {
		t.Fatalf("exhausted: got %v", err)
	}
}
