package rules

// snapshot is the state captured right before a card or Blight play. Because State keeps
// its slices copy-on-write, capturing it is a plain value copy.
type snapshot struct {
	state  State
	player int
}

// CanUndo reports whether player may revert the action they just took. Undo is available
// until the turn is ceded, the player passes, or dice are supplied for the action.
func (e *Engine) CanUndo(player int) bool {
	s := &e.state
	if e.snap == nil || e.snap.player != player {
		return false
	}
	if s.Phase != PhaseInRound || s.Turn != player {
		return false
	}
	return s.Pending == nil || !s.Pending.Committed
}

// Undo restores the state captured before the player's last card or Blight play, including
// hand, lanes, discard piles, weather and the deck. An open sub-resolution of that play is
// cancelled along with it. There is a single undo level and no redo.
func (e *Engine) Undo(player int) Result {
	if !validSeat(player) {
		return failure(ErrNotYourTurn)
	}
	if e.state.Phase == PhaseInRound && e.state.Turn != player {
		return failure(ErrNotYourTurn)
	}
	if !e.CanUndo(player) {
		return failure(ErrUndoUnavailable)
	}
	e.state = e.snap.state
	e.snap = nil
	return Result{
		Success: true,
		Message: e.state.Players[player].Name + " took back their play",
		Pending: e.state.Pending,
	}
}
