package rules

import "fmt"

// Verify checks the invariants that no action may break: every cached score equals a fresh
// recomputation, and no player has used more Blight cards than they were allotted.
func (s *State) Verify() error {
	for i := range s.Players {
		p := &s.Players[i]
		if fresh := Score(p, s.Weather, s.LaneBonus); fresh != p.Score {
			return fmt.Errorf("rules: player %d score %d diverges from recomputed %d", i, p.Score, fresh)
		}
		allowed := 1
		for _, b := range p.Blights {
			if b.Granted {
				allowed++
			}
		}
		if len(p.Blights) > 2 || p.BlightsUsed() > allowed {
			return fmt.Errorf("rules: player %d used %d of %d blight cards", i, p.BlightsUsed(), len(p.Blights))
		}
	}
	return nil
}
