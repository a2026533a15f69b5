package game

import (
	"time"
)

func (g *Game) cancelReconnectionTimer() {
	if g.reconnectionTimerCancel != nil {
		close(g.reconnectionTimerCancel)
		g.reconnectionTimerCancel = nil
	}
	g.DisconnectedPlayerIdx = -1
	g.disconnected.Store(-1)
}

func (g *Game) handlePlayerDisconnected(playerIdx int) {
	if !validSeat(playerIdx) || g.Finished() || g.DisconnectedPlayerIdx == playerIdx {
		return
	}
	if g.DisconnectedPlayerIdx >= 0 {
		// Both players are gone; nobody is left to win.
		g.finish(-1, EndAbandoned)
		return
	}
	g.DisconnectedPlayerIdx = playerIdx
	g.disconnected.Store(int32(playerIdx))
	timeoutSec := g.Config.ReconnectTimeoutSec
	if timeoutSec <= 0 {
		timeoutSec = 120
	}
	g.ReconnectionDeadline = time.Now().Add(time.Duration(timeoutSec) * time.Second)
	g.sendJSON(1-playerIdx, map[string]interface{}{
		"type":                       "opponent_reconnecting",
		"reconnectionDeadlineUnixMs": g.ReconnectionDeadline.UnixMilli(),
	})
	g.reconnectionTimerCancel = make(chan struct{})
	cancel := g.reconnectionTimerCancel
	go func() {
		select {
		case <-time.After(time.Duration(timeoutSec) * time.Second):
			select {
			case g.Actions <- Action{Type: ActionReconnectionTimeout}:
			case <-g.Done:
			}
		case <-cancel:
		}
	}()
	// The dropped seat keeps its turn for the grace period only.
	if g.actor() == playerIdx && g.turnLimit(playerIdx) > 0 {
		if g.turnEndsAt.IsZero() || time.Until(g.turnEndsAt) > g.turnLimit(playerIdx) {
			g.resetTurnTimer(true)
		}
	}
}

func (g *Game) handleReconnectionTimeout() {
	idx := g.DisconnectedPlayerIdx
	if idx < 0 {
		return
	}
	g.cancelReconnectionTimer()
	g.forfeit(idx, EndForfeit)
}

func (g *Game) handleRejoinCompleted(playerIdx int, newSend chan []byte) {
	if !validSeat(playerIdx) {
		return
	}
	g.cancelReconnectionTimer()
	if g.Players[playerIdx] != nil && newSend != nil {
		g.Players[playerIdx].Send = newSend
	}
	g.sendJSON(1-playerIdx, map[string]string{"type": "opponent_reconnected"})
	g.resetTurnTimer(true)
	g.broadcastState()
}
