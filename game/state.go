package game

import (
	"gwan-server/rules"
)

// GameStateMsg is the projected match state broadcast to a specific player.
type GameStateMsg struct {
	Type  string     `json:"type"`
	State rules.View `json:"state"`
	// BlightOffer lists the Blight cards the player may select right now; empty otherwise.
	BlightOffer          []BlightInfo `json:"blightOffer,omitempty"`
	TurnEndsAtUnixMs     int64        `json:"turnEndsAtUnixMs,omitempty"`
	TurnCountdownShowSec int          `json:"turnCountdownShowSec,omitempty"`
}

// BlightInfo describes one Blight card for display.
type BlightInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ResultMsg reports the outcome of a successful action to both players.
type ResultMsg struct {
	Type      string `json:"type"`
	PlayerIdx int    `json:"player"`
	Action    string `json:"action"`
	Message   string `json:"message"`
	NoEffect  bool   `json:"noEffect,omitempty"`
}

// ErrorMsg is sent to the acting player when an action is rejected.
type ErrorMsg struct {
	Type    string `json:"type"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// DiceRolledMsg announces a server-side roll.
type DiceRolledMsg struct {
	Type      string `json:"type"`
	PlayerIdx int    `json:"player"`
	Sides     int    `json:"sides"`
	Values    []int  `json:"values"`
}

// FirstTurnRollMsg announces the d6 tie-break that decides who opens round 1.
type FirstTurnRollMsg struct {
	Type   string   `json:"type"`
	Rolls  [][2]int `json:"rolls"`
	Winner int      `json:"winner"`
	You    int      `json:"you"`
}

// RoundOverMsg is broadcast when both players have passed.
type RoundOverMsg struct {
	Type    string             `json:"type"`
	Outcome rules.RoundOutcome `json:"outcome"`
	You     int                `json:"you"`
}

// MatchOverMsg is sent to each player when the match ends. Result is win, lose or draw.
type MatchOverMsg struct {
	Type      string `json:"type"`
	Result    string `json:"result"`
	Reason    string `json:"reason"`
	RoundsWon [2]int `json:"roundsWon"`
	You       int    `json:"you"`
}

// BlightOffer returns the Blight cards viewer may pick now: all of them during the opening
// selection, or those not yet held while the Suicide King grants a second one.
func BlightOffer(s rules.State, viewer int, blights rules.BlightProvider) []BlightInfo {
	if blights == nil {
		return nil
	}
	picking := s.Phase == rules.PhaseBlightSelection && s.Selecting == viewer && len(s.Players[viewer].Blights) == 0
	if s.Pending != nil && s.Pending.Kind == rules.AwaitBlightSelection && s.Pending.Player == viewer {
		picking = true
	}
	if !picking {
		return nil
	}
	var out []BlightInfo
	for _, id := range blights.BlightIDs() {
		if s.Players[viewer].HoldsBlight(id) {
			continue
		}
		b, ok := blights.Blight(id)
		if !ok {
			continue
		}
		out = append(out, BlightInfo{ID: b.ID(), Name: b.Name(), Description: b.Description()})
	}
	return out
}
