package game

import (
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"gwan-server/config"
	"gwan-server/dice"
	"gwan-server/rules"
	"gwan-server/wsutil"
)

// ActionType enumerates the kinds of actions a game can process.
type ActionType int

const (
	ActionSelectBlight ActionType = iota
	ActionPlayCard
	ActionPlayBlight
	ActionPass
	ActionEndTurn
	ActionUndo
	ActionChooseTarget
	ActionRollDice
	ActionDisconnect          // player left for good; the opponent wins by forfeit
	ActionPlayerDisconnected  // player lost connection; start reconnection window
	ActionReconnectionTimeout // reconnection window expired; forfeit
	ActionRejoinCompleted     // player rejoined; restore Send and clear disconnect state
	ActionTurnTimeout         // internal: fired when turn time limit is reached
	actionAbandon             // internal: auto-pass closing a committed sub-resolution
)

// String returns the protocol string for an ActionType.
func (t ActionType) String() string {
	switch t {
	case ActionSelectBlight:
		return "select_blight"
	case ActionPlayCard:
		return "play_card"
	case ActionPlayBlight:
		return "play_blight"
	case ActionPass:
		return "pass"
	case ActionEndTurn:
		return "end_turn"
	case ActionUndo:
		return "undo"
	case ActionChooseTarget:
		return "choose_target"
	case ActionRollDice:
		return "roll_dice"
	case actionAbandon:
		return "abandon"
	default:
		return "unknown"
	}
}

// Action represents a player action sent into the game's action channel.
type Action struct {
	Type      ActionType
	PlayerIdx int          // 0 or 1
	Index     int          // hand index (PlayCard) or Blight slot (PlayBlight)
	Lane      int          // lane for PlayCard; rules.NoLane when omitted
	BlightID  string       // SelectBlight
	Second    bool         // SelectBlight answering the Suicide King
	Target    rules.Target // ChooseTarget
	NewSend   chan []byte  // for ActionRejoinCompleted: new send channel for the reconnected player
	Seq       uint64       // for ActionTurnTimeout: timer generation that fired
}

// Match end reasons reported to OnMatchEnd and persisted with the result.
const (
	EndCompleted = "completed"
	EndForfeit   = "opponent_disconnected"
	EndAbandoned = "abandoned"
	EndAborted   = "aborted"
)

// ResultSink records round results and Blight uses as they happen. Optional; may be nil.
type ResultSink interface {
	RecordRound(matchID string, out rules.RoundOutcome)
	RecordBlightUse(matchID string, round, playerIdx int, blightID string)
}

// MatchSummary is handed to OnMatchEnd once per match. Winner is 0, 1, or -1 for a draw.
type MatchSummary struct {
	MatchID   string
	UserIDs   [2]string
	Names     [2]string
	RoundsWon [2]int
	Winner    int
	EndReason string
}

// Game hosts a single match between two players. Run owns Engine: every action is applied
// on the Run goroutine, so matches never share state.
type Game struct {
	ID      string
	Engine  *rules.Engine
	Players [2]*Player
	Config  *config.Config
	Blights rules.BlightProvider
	Dice    dice.Roller

	finished atomic.Bool
	// disconnected mirrors DisconnectedPlayerIdx for readers outside Run.
	disconnected atomic.Int32

	// turnEndsAt is when the current actor's time runs out (zero = timer disabled).
	turnEndsAt      time.Time
	turnTimerCancel chan struct{}
	turnSeq         uint64
	timedActor      int

	// Results records rounds and Blight uses; optional, set by matchmaker.
	Results ResultSink
	// unsettled holds Blight plays that an undo can still take back.
	unsettled []blightUse

	// RejoinTokens allow a disconnected player to rejoin; set by matchmaker.
	RejoinTokens [2]string

	// PlayerUserIDs are the auth user IDs for each seat; used for rejoin by user. Set by matchmaker.
	PlayerUserIDs [2]string

	// DisconnectedPlayerIdx is the player who lost connection (-1 = none). Their turns are cut
	// to Config.DisconnectGraceSec, after which they are auto-passed.
	DisconnectedPlayerIdx   int
	ReconnectionDeadline    time.Time
	reconnectionTimerCancel chan struct{}

	Actions chan Action
	Done    chan struct{}

	// OnMatchEnd is called once when the match ends, whatever the reason.
	OnMatchEnd func(MatchSummary)
}

// NewGame creates a Game around an engine that has dealt its opening hands.
func NewGame(id string, cfg *config.Config, p0, p1 *Player, engine *rules.Engine, blights rules.BlightProvider, roller dice.Roller) *Game {
	g := &Game{
		ID:                    id,
		Engine:                engine,
		Players:               [2]*Player{p0, p1},
		Config:                cfg,
		Blights:               blights,
		Dice:                  roller,
		timedActor:            -1,
		DisconnectedPlayerIdx: -1,
		Actions:               make(chan Action, 16),
		Done:                  make(chan struct{}),
	}
	g.disconnected.Store(-1)
	return g
}

// Finished reports whether the match is over. Safe to call from any goroutine.
func (g *Game) Finished() bool {
	return g.finished.Load()
}

// DisconnectedSeat returns the seat inside its reconnection window, or -1. Safe to call from any goroutine.
func (g *Game) DisconnectedSeat() int {
	return int(g.disconnected.Load())
}

// Submit queues an action unless the match has ended. It reports whether the action was queued.
func (g *Game) Submit(a Action) bool {
	if g.Finished() {
		return false
	}
	select {
	case g.Actions <- a:
		return true
	case <-g.Done:
		return false
	}
}

// Run is the main game loop. It processes actions sequentially.
// It should be run as a goroutine.
func (g *Game) Run() {
	defer close(g.Done)
	defer func() {
		if r := recover(); r != nil {
			slog.Error("match aborted", "tag", "game", "game", g.ID, "panic", r)
			g.finish(-1, EndAborted)
		}
	}()

	g.resetTurnTimer(true)
	g.broadcastState()

	for {
		action, ok := <-g.Actions
		if !ok || g.Finished() {
			return
		}
		g.handle(action)
		if g.Finished() {
			return
		}
	}
}

// actor is the seat the match is waiting on, or -1 when nobody has to act.
func (g *Game) actor() int {
	s := g.Engine.State()
	switch s.Phase {
	case rules.PhaseBlightSelection:
		return s.Selecting
	case rules.PhaseInRound:
		if s.Pending != nil {
			return s.Pending.Player
		}
		return s.Turn
	default:
		return -1
	}
}

// cancelTurnTimer closes the turn timer cancel channel so the timer goroutine exits. Safe if already nil.
func (g *Game) cancelTurnTimer() {
	if g.turnTimerCancel != nil {
		close(g.turnTimerCancel)
		g.turnTimerCancel = nil
	}
	g.turnEndsAt = time.Time{}
}

// turnLimit is how long seat gets to act. A disconnected seat gets the shorter of the turn
// limit and the disconnect grace. Zero means no timer.
func (g *Game) turnLimit(seat int) time.Duration {
	limit := time.Duration(g.Config.TurnLimitSec) * time.Second
	if seat == g.DisconnectedPlayerIdx && g.Config.DisconnectGraceSec > 0 {
		grace := time.Duration(g.Config.DisconnectGraceSec) * time.Second
		if limit <= 0 || grace < limit {
			limit = grace
		}
	}
	return limit
}

// resetTurnTimer restarts the clock when the actor changed or force is set.
// No-op when the actor has no time limit.
func (g *Game) resetTurnTimer(force bool) {
	a := g.actor()
	if !force && a == g.timedActor && g.turnTimerCancel != nil {
		return
	}
	g.timedActor = a
	g.cancelTurnTimer()
	if a < 0 {
		return
	}
	limit := g.turnLimit(a)
	if limit <= 0 {
		return
	}
	g.turnEndsAt = time.Now().Add(limit)
	g.turnTimerCancel = make(chan struct{})
	g.turnSeq++
	cancel, seq := g.turnTimerCancel, g.turnSeq
	go func() {
		select {
		case <-time.After(limit):
			select {
			case g.Actions <- Action{Type: ActionTurnTimeout, Seq: seq}:
			case <-g.Done:
			}
		case <-cancel:
		}
	}()
}

func (g *Game) handleTurnTimeout(seq uint64) {
	// A newer timer replaced this one, or it was cancelled after firing.
	if seq != g.turnSeq || g.turnTimerCancel == nil {
		return
	}
	g.cancelTurnTimer()
	a := g.actor()
	if a < 0 {
		return
	}
	g.broadcast(map[string]interface{}{"type": "turn_timeout", "player": a})
	g.autoPass(a)
}

func (g *Game) sendJSON(playerIdx int, v interface{}) {
	player := g.Players[playerIdx]
	if player == nil || player.Send == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshaling message", "tag", "game", "game", g.ID, "err", err)
		return
	}
	wsutil.SafeSend(player.Send, data)
}

func (g *Game) broadcast(v interface{}) {
	for i := 0; i < 2; i++ {
		g.sendJSON(i, v)
	}
}

func (g *Game) sendError(playerIdx int, kind, message string) {
	g.sendJSON(playerIdx, ErrorMsg{Type: "error", Kind: kind, Message: message})
}

func (g *Game) broadcastState() {
	for i := 0; i < 2; i++ {
		g.sendJSON(i, g.BuildStateForPlayer(i))
	}
}

// BuildStateForPlayer returns the game state view for the given player (0 or 1).
func (g *Game) BuildStateForPlayer(playerIdx int) GameStateMsg {
	state := GameStateMsg{
		Type:        "game_state",
		State:       g.Engine.Project(playerIdx),
		BlightOffer: BlightOffer(g.Engine.State(), playerIdx, g.Blights),
	}
	if playerIdx == g.timedActor && !g.turnEndsAt.IsZero() {
		state.TurnEndsAtUnixMs = g.turnEndsAt.UnixMilli()
		state.TurnCountdownShowSec = g.Config.TurnCountdownShowSec
	}
	return state
}

// finish ends the match, tells both players and reports the summary once.
func (g *Game) finish(winner int, reason string) {
	if g.finished.Swap(true) {
		return
	}
	g.cancelTurnTimer()
	g.cancelReconnectionTimer()
	g.settleBlightUses(true)

	s := g.Engine.State()
	won := [2]int{s.Players[0].RoundsWon, s.Players[1].RoundsWon}
	g.broadcastState()
	for i := 0; i < 2; i++ {
		result := "draw"
		switch winner {
		case i:
			result = "win"
		case 1 - i:
			result = "lose"
		}
		g.sendJSON(i, MatchOverMsg{Type: "match_over", Result: result, Reason: reason, RoundsWon: won, You: i})
	}
	slog.Info("match over", "tag", "game", "game", g.ID, "winner", winner, "reason", reason)

	if g.OnMatchEnd != nil {
		g.OnMatchEnd(MatchSummary{
			MatchID:   g.ID,
			UserIDs:   g.PlayerUserIDs,
			Names:     [2]string{g.Players[0].Name, g.Players[1].Name},
			RoundsWon: won,
			Winner:    winner,
			EndReason: reason,
		})
	}
}

func validSeat(idx int) bool {
	return idx == 0 || idx == 1
}
