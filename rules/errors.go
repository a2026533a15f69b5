package rules

import "errors"

// Action failures. Every failed action leaves the state untouched; callers match with errors.Is.
var (
	ErrNotYourTurn                    = errors.New("not your turn")
	ErrInvalidCardIndex               = errors.New("invalid card index")
	ErrIllegalTarget                  = errors.New("illegal target")
	ErrNoPendingResolution            = errors.New("no pending resolution")
	ErrBlightAlreadyUsed              = errors.New("blight already used")
	ErrBlightSelectionAlreadyComplete = errors.New("blight selection already complete")
	ErrUndoUnavailable                = errors.New("undo unavailable")
	ErrWrongPhase                     = errors.New("action not allowed now")
	ErrResolutionPending              = errors.New("a pending resolution must be completed first")
	ErrInvalidDice                    = errors.New("invalid dice result")
	ErrUnknownBlight                  = errors.New("unknown blight")
	ErrAlreadyPlayed                  = errors.New("a card was already played this turn")
	ErrNothingPlayed                  = errors.New("play a card or pass")
)

// Kind returns a stable protocol name for one of the sentinel errors wrapped by err.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, ErrInvalidCardIndex):
		return "invalid_card_index"
	case errors.Is(err, ErrIllegalTarget):
		return "illegal_target"
	case errors.Is(err, ErrNoPendingResolution):
		return "no_pending_resolution"
	case errors.Is(err, ErrBlightAlreadyUsed):
		return "blight_already_used"
	case errors.Is(err, ErrBlightSelectionAlreadyComplete):
		return "blight_selection_already_complete"
	case errors.Is(err, ErrUndoUnavailable):
		return "undo_unavailable"
	case errors.Is(err, ErrWrongPhase):
		return "wrong_phase"
	case errors.Is(err, ErrResolutionPending):
		return "resolution_pending"
	case errors.Is(err, ErrInvalidDice):
		return "invalid_dice"
	case errors.Is(err, ErrUnknownBlight):
		return "unknown_blight"
	case errors.Is(err, ErrAlreadyPlayed):
		return "already_played"
	case errors.Is(err, ErrNothingPlayed):
		return "nothing_played"
	default:
		return "internal"
	}
}
