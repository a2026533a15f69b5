package rules

import (
	"fmt"
	"slices"

	"gwan-server/card"
)

// Result is returned by every engine action. A failed action carries Err and leaves the
// state untouched.
type Result struct {
	Success bool
	Message string
	Err     error
	// NoEffect is set when the action succeeded but changed nothing beyond consuming the card.
	NoEffect bool
	Pending  *Pending
	Round    *RoundOutcome
	Match    *MatchOutcome
}

func failure(err error) Result {
	return Result{Err: err, Message: err.Error()}
}

// Engine is the authoritative rules engine of one match. It is not safe for concurrent use:
// the hosting runtime serializes every action onto a single goroutine.
type Engine struct {
	opts    Options
	blights BlightProvider
	state   State
	snap    *snapshot
}

// New creates a match and deals the opening hands from deck, player 0 first.
func New(opts Options, deck card.Deck, names [2]string, blights BlightProvider) *Engine {
	s := State{
		Phase:     PhaseBlightSelection,
		Round:     1,
		Deck:      deck,
		LaneBonus: opts.LaneBonus,
	}
	for i := range s.Players {
		s.Players[i].Name = names[i]
	}
	s.Draw(0, opts.HandSize)
	s.Draw(1, opts.HandSize)
	s.rescore()
	return &Engine{opts: opts, blights: blights, state: s}
}

// State returns the authoritative state. The returned value shares copy-on-write slices with
// the engine and must be treated as read-only.
func (e *Engine) State() State {
	return e.state
}

// Options returns the rules the engine was created with.
func (e *Engine) Options() Options {
	return e.opts
}

// Project returns the state as seen by viewer.
func (e *Engine) Project(viewer int) View {
	return Project(e.state, viewer, e.CanUndo(viewer))
}

// SelectBlight records a Blight choice. The initial selection happens before round 1, player 0
// first. With second set it answers the Suicide King's second-Blight follow-up.
func (e *Engine) SelectBlight(player int, id string, second bool) Result {
	if !validSeat(player) {
		return failure(fmt.Errorf("%w: seat %d", ErrNotYourTurn, player))
	}
	if second {
		return e.selectSecondBlight(player, id)
	}
	s := e.state
	if s.Phase != PhaseBlightSelection || len(s.Players[player].Blights) > 0 {
		return failure(ErrBlightSelectionAlreadyComplete)
	}
	if s.Selecting != player {
		return failure(ErrNotYourTurn)
	}
	eff, ok := e.lookupBlight(id)
	if !ok {
		return failure(fmt.Errorf("%w: %q", ErrUnknownBlight, id))
	}
	p := &s.Players[player]
	p.Blights = append(slices.Clip(p.Blights), BlightSlot{ID: eff.ID()})
	if player == 0 {
		s.Selecting = 1
	} else {
		s.Phase = PhaseFirstTurnRoll
	}
	return e.commit(s, Result{Message: p.Name + " selected a Blight card"})
}

func (e *Engine) selectSecondBlight(player int, id string) Result {
	s := e.state
	pd := s.Pending
	if pd == nil || pd.Kind != AwaitBlightSelection {
		return failure(ErrNoPendingResolution)
	}
	if pd.Player != player {
		return failure(ErrNotYourTurn)
	}
	eff, ok := e.lookupBlight(id)
	if !ok {
		return failure(fmt.Errorf("%w: %q", ErrUnknownBlight, id))
	}
	p := &s.Players[player]
	if p.HoldsBlight(id) {
		return failure(fmt.Errorf("%w: %s is already held", ErrIllegalTarget, eff.Name()))
	}
	p.Blights = append(slices.Clip(p.Blights), BlightSlot{ID: eff.ID(), Granted: true})
	s.Pending = nil
	s.cede(player)
	e.snap = nil
	return e.commit(s, Result{Message: p.Name + " took a second Blight card"})
}

// SubmitFirstTurnRoll starts round 1 with the winner of the out-of-band die tie-break.
func (e *Engine) SubmitFirstTurnRoll(winner int) Result {
	s := e.state
	if s.Phase != PhaseFirstTurnRoll {
		return failure(ErrWrongPhase)
	}
	if !validSeat(winner) {
		return failure(fmt.Errorf("%w: seat %d", ErrIllegalTarget, winner))
	}
	s.Phase = PhaseInRound
	s.RoundStarter = winner
	s.beginTurn(winner)
	return e.commit(s, Result{Message: s.Players[winner].Name + " goes first"})
}

// PlayCard plays the card at handIndex. lane is required for hearts and jokers and optional
// (but must match) for lane-suit cards; pass NoLane to omit it. The turn does not end.
func (e *Engine) PlayCard(player, handIndex, lane int) Result {
	if err := e.checkActor(player); err != nil {
		return failure(err)
	}
	s := e.state
	if s.Pending != nil {
		return failure(ErrResolutionPending)
	}
	if s.PlayedThisTurn {
		return failure(ErrAlreadyPlayed)
	}
	p := &s.Players[player]
	if handIndex < 0 || handIndex >= len(p.Hand) {
		return failure(fmt.Errorf("%w: %d", ErrInvalidCardIndex, handIndex))
	}
	c := p.Hand[handIndex]
	target, err := playLane(c, lane)
	if err != nil {
		return failure(err)
	}

	before := e.state
	p.Hand = removeCard(p.Hand, handIndex)
	s.PlayedThisTurn = true
	x := &Effect{State: &s, Invoker: player}
	msg := e.resolveCard(x, c, target)
	s.open(x, "", c)

	e.snap = &snapshot{state: before, player: player}
	return e.commit(s, Result{Message: msg, NoEffect: x.noEffect})
}

// PlayBlight invokes one of the player's Blight cards. It is only legal at the start of the
// player's turn, before a card is played, and each card works once per match.
func (e *Engine) PlayBlight(player, blightIndex int) Result {
	if err := e.checkActor(player); err != nil {
		return failure(err)
	}
	s := e.state
	if s.Pending != nil {
		return failure(ErrResolutionPending)
	}
	if s.PlayedThisTurn {
		return failure(fmt.Errorf("%w: blights are played before a card", ErrWrongPhase))
	}
	p := &s.Players[player]
	if p.BlightUsedThisTurn {
		return failure(fmt.Errorf("%w: one blight per turn", ErrBlightAlreadyUsed))
	}
	if blightIndex < 0 || blightIndex >= len(p.Blights) {
		return failure(fmt.Errorf("%w: blight %d", ErrInvalidCardIndex, blightIndex))
	}
	slot := p.Blights[blightIndex]
	if slot.Used {
		return failure(ErrBlightAlreadyUsed)
	}
	eff, ok := e.lookupBlight(slot.ID)
	if !ok {
		return failure(fmt.Errorf("%w: %q", ErrUnknownBlight, slot.ID))
	}

	before := e.state
	p.Blights = slices.Clone(p.Blights)
	p.Blights[blightIndex].Used = true
	p.BlightUsedThisTurn = true
	x := &Effect{State: &s, Invoker: player}
	msg := eff.Invoke(x)
	s.open(x, slot.ID, card.Card{})

	e.snap = &snapshot{state: before, player: player}
	return e.commit(s, Result{Message: msg, NoEffect: x.noEffect})
}

// ChooseTarget resolves an open target or choice sub-resolution.
func (e *Engine) ChooseTarget(player int, t Target) Result {
	pd, err := e.pendingFor(player, AwaitTarget, AwaitChoice)
	if err != nil {
		return failure(err)
	}
	return e.resume(pd, Input{Target: t}, false)
}

// SupplyDiceResult resolves an open dice sub-resolution with already rolled values.
// Supplying dice commits the action: it can no longer be undone.
func (e *Engine) SupplyDiceResult(player int, values []int) Result {
	pd, err := e.pendingFor(player, AwaitDice)
	if err != nil {
		return failure(err)
	}
	if len(values) != pd.Dice.Count {
		return failure(fmt.Errorf("%w: want %d dice, got %d", ErrInvalidDice, pd.Dice.Count, len(values)))
	}
	for _, v := range values {
		if v < 1 || v > pd.Dice.Sides {
			return failure(fmt.Errorf("%w: %d is not a d%d result", ErrInvalidDice, v, pd.Dice.Sides))
		}
	}
	return e.resume(pd, Input{Dice: slices.Clone(values)}, true)
}

// Abandon closes an open sub-resolution that can no longer be undone, forgoing the rest of
// its effect. The hosting runtime uses it when a player times out mid-resolution.
func (e *Engine) Abandon(player int) Result {
	if err := e.checkActor(player); err != nil {
		return failure(err)
	}
	s := e.state
	if s.Pending == nil {
		return failure(ErrNoPendingResolution)
	}
	if e.CanUndo(player) {
		return failure(fmt.Errorf("%w: undo instead", ErrWrongPhase))
	}
	s.Pending = nil
	return e.commit(s, Result{Message: s.Players[player].Name + " abandoned the effect", NoEffect: true})
}

// Pass ends the player's participation in the round. When both players have passed the
// round is scored and the next round (or the end of the match) follows immediately.
func (e *Engine) Pass(player int) Result {
	if err := e.checkActor(player); err != nil {
		return failure(err)
	}
	s := e.state
	if s.Pending != nil {
		return failure(ErrResolutionPending)
	}
	s.Players[player].Passed = true
	res := Result{Message: s.Players[player].Name + " passed"}
	if s.Players[1-player].Passed {
		e.endRound(&s, &res)
	} else {
		s.beginTurn(1 - player)
	}
	e.snap = nil
	return e.commit(s, res)
}

// EndTurn cedes control after the player has played a card. If the opponent already
// passed, the same player starts a new turn.
func (e *Engine) EndTurn(player int) Result {
	if err := e.checkActor(player); err != nil {
		return failure(err)
	}
	s := e.state
	if s.Pending != nil {
		return failure(ErrResolutionPending)
	}
	if !s.PlayedThisTurn {
		return failure(ErrNothingPlayed)
	}
	s.cede(player)
	e.snap = nil
	return e.commit(s, Result{Message: s.Players[player].Name + " ended the turn"})
}

func (e *Engine) resume(pd *Pending, in Input, dice bool) Result {
	s := e.state
	x := &Effect{State: &s, Invoker: pd.Player, Pending: pd}
	var (
		msg string
		err error
	)
	if pd.Blight != "" {
		eff, ok := e.lookupBlight(pd.Blight)
		if !ok {
			return failure(fmt.Errorf("%w: %q", ErrUnknownBlight, pd.Blight))
		}
		msg, err = eff.Resume(x, in)
	} else {
		msg, err = e.resumeCard(x, in)
	}
	if err != nil {
		return failure(err)
	}
	s.open(x, pd.Blight, pd.Card)
	if s.Pending != nil && (dice || pd.Committed) {
		np := *s.Pending
		np.Committed = true
		s.Pending = &np
	}
	if dice {
		e.snap = nil
	}
	if x.endTurn && s.Pending == nil {
		s.cede(pd.Player)
		e.snap = nil
	}
	return e.commit(s, Result{Message: msg, NoEffect: x.noEffect})
}

func (e *Engine) pendingFor(player int, kinds ...PendingKind) (*Pending, error) {
	if !validSeat(player) {
		return nil, fmt.Errorf("%w: seat %d", ErrNotYourTurn, player)
	}
	if e.state.Phase != PhaseInRound {
		return nil, ErrWrongPhase
	}
	pd := e.state.Pending
	if pd == nil || !slices.Contains(kinds, pd.Kind) {
		return nil, ErrNoPendingResolution
	}
	if pd.Player != player {
		return nil, ErrNotYourTurn
	}
	return pd, nil
}

func (e *Engine) checkActor(player int) error {
	if !validSeat(player) {
		return fmt.Errorf("%w: seat %d", ErrNotYourTurn, player)
	}
	if e.state.Phase != PhaseInRound {
		return ErrWrongPhase
	}
	if e.state.Turn != player {
		return ErrNotYourTurn
	}
	return nil
}

func (e *Engine) lookupBlight(id string) (BlightEffect, bool) {
	if e.blights == nil {
		return nil, false
	}
	return e.blights.Blight(id)
}

// availableBlights lists the Blight ids a player does not hold yet.
func (e *Engine) availableBlights(player int) []string {
	if e.blights == nil {
		return nil
	}
	var out []string
	for _, id := range e.blights.BlightIDs() {
		if !e.state.Players[player].HoldsBlight(id) {
			out = append(out, id)
		}
	}
	return out
}

// commit installs s as the authoritative state. A broken invariant here is a bug in the
// engine, not a user error, so it panics.
func (e *Engine) commit(s State, res Result) Result {
	s.rescore()
	if err := s.Verify(); err != nil {
		panic(err)
	}
	e.state = s
	res.Success = true
	res.Err = nil
	res.Pending = s.Pending
	return res
}

func (e *Engine) endRound(s *State, res *Result) {
	s.rescore()
	out := RoundOutcome{
		Round:  s.Round,
		Scores: [2]int{s.Players[0].Score, s.Players[1].Score},
		Winner: -1,
	}
	switch {
	case out.Scores[0] > out.Scores[1]:
		out.Winner = 0
	case out.Scores[1] > out.Scores[0]:
		out.Winner = 1
	}
	if out.Winner >= 0 {
		s.Players[out.Winner].RoundsWon++
	}
	s.Rounds = append(slices.Clip(s.Rounds), out)
	res.Round = &out

	w := [2]int{s.Players[0].RoundsWon, s.Players[1].RoundsWon}
	if w[0] >= e.opts.RoundsToWin || w[1] >= e.opts.RoundsToWin || s.Round >= e.opts.MaxRounds {
		m := MatchOutcome{Winner: -1, RoundsWon: w}
		switch {
		case w[0] > w[1]:
			m.Winner = 0
		case w[1] > w[0]:
			m.Winner = 1
		}
		s.Phase = PhaseMatchComplete
		s.Outcome = &m
		res.Match = &m
		return
	}
	e.nextRound(s, out.Winner)
}

// nextRound clears the board and hands the first turn to the loser of the previous round.
// After a tie the player who did not start the previous round goes first.
func (e *Engine) nextRound(s *State, winner int) {
	for i := range s.Players {
		for l := 0; l < LaneCount; l++ {
			s.DiscardLane(i, l)
		}
		p := &s.Players[i]
		p.Passed = false
		p.Bonus = 0
	}
	s.Weather = [LaneCount]bool{}
	s.Round++
	starter := 1 - winner
	if winner < 0 {
		starter = 1 - s.RoundStarter
	}
	s.RoundStarter = starter
	s.Draw(0, e.opts.RoundDeal)
	s.Draw(1, e.opts.RoundDeal)
	s.beginTurn(starter)
}

func (s *State) beginTurn(player int) {
	s.Turn = player
	s.PlayedThisTurn = false
	for i := range s.Players {
		s.Players[i].BlightUsedThisTurn = false
	}
}

// cede passes control to the opponent, or starts a new turn for player when the opponent
// has already passed.
func (s *State) cede(player int) {
	next := 1 - player
	if s.Players[next].Passed {
		next = player
	}
	s.beginTurn(next)
}

// open installs the sub-resolution requested by an effect, if any.
func (s *State) open(x *Effect, blightID string, c card.Card) {
	if x.next == nil {
		s.Pending = nil
		return
	}
	p := *x.next
	p.Player = x.Invoker
	p.Blight = blightID
	p.Card = c
	s.Pending = &p
}

func validSeat(player int) bool {
	return player == 0 || player == 1
}
