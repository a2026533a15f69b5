package game

import (
	"fmt"
	"log/slog"

	"gwan-server/dice"
	"gwan-server/rules"
)

func (g *Game) handle(a Action) {
	switch a.Type {
	case ActionDisconnect:
		g.forfeit(a.PlayerIdx, EndForfeit)
		return
	case ActionPlayerDisconnected:
		g.handlePlayerDisconnected(a.PlayerIdx)
		return
	case ActionReconnectionTimeout:
		g.handleReconnectionTimeout()
		return
	case ActionRejoinCompleted:
		g.handleRejoinCompleted(a.PlayerIdx, a.NewSend)
		return
	case ActionTurnTimeout:
		g.handleTurnTimeout(a.Seq)
		return
	}
	if !validSeat(a.PlayerIdx) {
		return
	}
	// Late messages from a dropped connection; that seat is being auto-passed.
	if g.DisconnectedPlayerIdx == a.PlayerIdx {
		return
	}
	g.apply(a.PlayerIdx, a, g.dispatch(a))
}

func (g *Game) dispatch(a Action) rules.Result {
	e := g.Engine
	p := a.PlayerIdx
	switch a.Type {
	case ActionSelectBlight:
		return e.SelectBlight(p, a.BlightID, a.Second)
	case ActionPlayCard:
		return e.PlayCard(p, a.Index, a.Lane)
	case ActionPlayBlight:
		return e.PlayBlight(p, a.Index)
	case ActionPass:
		return e.Pass(p)
	case ActionEndTurn:
		return e.EndTurn(p)
	case ActionUndo:
		return e.Undo(p)
	case ActionChooseTarget:
		return e.ChooseTarget(p, a.Target)
	case ActionRollDice:
		return g.rollDice(p)
	case actionAbandon:
		return e.Abandon(p)
	default:
		return failed(fmt.Errorf("unsupported action %d", a.Type))
	}
}

func failed(err error) rules.Result {
	return rules.Result{Err: err, Message: err.Error()}
}

// rollDice rolls the open dice sub-resolution on the player's behalf.
func (g *Game) rollDice(player int) rules.Result {
	pd := g.Engine.State().Pending
	if pd == nil || pd.Kind != rules.AwaitDice {
		return failed(rules.ErrNoPendingResolution)
	}
	if pd.Player != player {
		return failed(rules.ErrNotYourTurn)
	}
	values, err := g.Dice.Roll(pd.Dice.Count, pd.Dice.Sides)
	if err != nil {
		return failed(err)
	}
	res := g.Engine.SupplyDiceResult(player, values)
	if res.Success {
		g.broadcast(DiceRolledMsg{Type: "dice_rolled", PlayerIdx: player, Sides: pd.Dice.Sides, Values: values})
	}
	return res
}

// apply reports an engine result: errors go to the actor only, successes to both players,
// followed by round/match transitions and fresh projected state.
func (g *Game) apply(player int, a Action, res rules.Result) {
	if !res.Success {
		g.sendError(player, rules.Kind(res.Err), res.Message)
		return
	}
	g.broadcast(ResultMsg{Type: "result", PlayerIdx: player, Action: a.Type.String(), Message: res.Message, NoEffect: res.NoEffect})

	s := g.Engine.State()
	if a.Type == ActionPlayBlight && a.Index >= 0 && a.Index < len(s.Players[player].Blights) {
		g.unsettled = append(g.unsettled, blightUse{round: s.Round, player: player, id: s.Players[player].Blights[a.Index].ID})
	}
	g.settleBlightUses(false)
	if s.Phase == rules.PhaseFirstTurnRoll {
		g.rollFirstTurn()
	}
	if res.Round != nil {
		for i := 0; i < 2; i++ {
			g.sendJSON(i, RoundOverMsg{Type: "round_over", Outcome: *res.Round, You: i})
		}
		if g.Results != nil {
			g.Results.RecordRound(g.ID, *res.Round)
		}
	}
	if res.Match != nil {
		g.finish(res.Match.Winner, EndCompleted)
		return
	}

	newTurn := a.Type == ActionPass || a.Type == ActionEndTurn || a.Type == ActionSelectBlight || res.Round != nil
	g.resetTurnTimer(newTurn)
	g.broadcastState()
}

type blightUse struct {
	round, player int
	id            string
}

// settleBlightUses reports Blight plays to the result sink once they can no longer be undone
// and forgets the ones an undo took back. With final set every play still in effect is reported.
func (g *Game) settleBlightUses(final bool) {
	if len(g.unsettled) == 0 {
		return
	}
	s := g.Engine.State()
	keep := g.unsettled[:0]
	for _, u := range g.unsettled {
		if !blightUsed(s.Players[u.player], u.id) {
			continue
		}
		if !final && g.Engine.CanUndo(u.player) {
			keep = append(keep, u)
			continue
		}
		if g.Results != nil {
			g.Results.RecordBlightUse(g.ID, u.round, u.player, u.id)
		}
	}
	g.unsettled = keep
}

func blightUsed(p rules.Player, id string) bool {
	for _, b := range p.Blights {
		if b.ID == id {
			return b.Used
		}
	}
	return false
}

// rollFirstTurn settles who opens round 1 with a d6 per player, rerolling ties.
func (g *Game) rollFirstTurn() {
	winner, rolls, err := dice.FirstTurn(g.Dice)
	if err != nil {
		slog.Error("first turn roll failed, seat 0 starts", "tag", "game", "game", g.ID, "err", err)
		winner = 0
	}
	values := make([][2]int, len(rolls))
	for i, r := range rolls {
		values[i] = r.Values
	}
	for i := 0; i < 2; i++ {
		g.sendJSON(i, FirstTurnRollMsg{Type: "first_turn_roll", Rolls: values, Winner: winner, You: i})
	}
	if res := g.Engine.SubmitFirstTurnRoll(winner); !res.Success {
		slog.Error("submitting first turn roll", "tag", "game", "game", g.ID, "err", res.Err)
	}
}

// autoPass moves a player who cannot act (timed out or disconnected) out of the way. An
// undoable play is taken back, a committed sub-resolution is abandoned, then the player
// passes. During Blight selection the first offered card is picked for them.
func (g *Game) autoPass(player int) {
	for !g.Finished() {
		s := g.Engine.State()
		switch s.Phase {
		case rules.PhaseBlightSelection:
			if s.Selecting != player {
				return
			}
			offer := BlightOffer(s, player, g.Blights)
			if len(offer) == 0 {
				return
			}
			a := Action{Type: ActionSelectBlight, PlayerIdx: player, BlightID: offer[0].ID}
			g.apply(player, a, g.dispatch(a))
			return
		case rules.PhaseInRound:
		default:
			return
		}

		if s.Pending != nil && s.Pending.Player == player {
			a := Action{Type: actionAbandon, PlayerIdx: player}
			if g.Engine.CanUndo(player) {
				a.Type = ActionUndo
			}
			res := g.dispatch(a)
			if !res.Success {
				slog.Error("auto-pass could not clear resolution", "tag", "game", "game", g.ID, "err", res.Err)
				return
			}
			g.settleBlightUses(false)
			g.broadcast(ResultMsg{Type: "result", PlayerIdx: player, Action: a.Type.String(), Message: res.Message})
			continue
		}
		if s.Turn != player {
			return
		}
		a := Action{Type: ActionPass, PlayerIdx: player}
		g.apply(player, a, g.dispatch(a))
		return
	}
}


func (g *Game) forfeit(leaver int, reason string) {
	if !validSeat(leaver) {
		return
	}
	g.finish(1-leaver, reason)
}
