package ws

import (
	"encoding/json"

	"gwan-server/game"
	"gwan-server/rules"
)

// InboundEnvelope is the generic envelope for all client-to-server messages.
// The Type field is used for routing; Raw holds the full JSON payload.
type InboundEnvelope struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// UnmarshalJSON implements custom unmarshaling to capture the raw payload.
func (e *InboundEnvelope) UnmarshalJSON(data []byte) error {
	type typeOnly struct {
		Type string `json:"type"`
	}
	var t typeOnly
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	e.Type = t.Type
	e.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// --- Client-to-Server message payloads ---

// AuthMsg is sent by the client as the first message with a JWT from the identity provider.
type AuthMsg struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// SetNameMsg is sent by the client to declare a display name when auth is not configured.
type SetNameMsg struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// SelectBlightMsg picks a Blight card. Second answers the Suicide King's extra Blight.
type SelectBlightMsg struct {
	Type     string `json:"type"`
	BlightID string `json:"blightId"`
	Second   bool   `json:"second,omitempty"`
}

// PlayCardMsg plays the hand card at Index. Lane is required for hearts and jokers only.
type PlayCardMsg struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
	Lane  *int   `json:"lane,omitempty"`
}

// PlayBlightMsg invokes the Blight card in slot Index.
type PlayBlightMsg struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// ChooseTargetMsg answers a target or choice prompt. Omitted fields mean "unspecified".
type ChooseTargetMsg struct {
	Type      string `json:"type"`
	Lane      *int   `json:"lane,omitempty"`
	CardIndex *int   `json:"cardIndex,omitempty"`
	Owner     *int   `json:"owner,omitempty"`
	// Choice is "clear_weather" or "second_blight" for the Suicide King.
	Choice string `json:"choice,omitempty"`
}

// RejoinMsg is sent by the client to rejoin a game after reconnect or page refresh.
type RejoinMsg struct {
	Type        string `json:"type"`
	GameID      string `json:"gameId"`
	RejoinToken string `json:"rejoinToken"`
	Name        string `json:"name"`
}

func orNoLane(v *int) int {
	if v == nil {
		return rules.NoLane
	}
	return *v
}

// Action converts the message for the game loop.
func (m PlayCardMsg) Action(seat int) game.Action {
	return game.Action{Type: game.ActionPlayCard, PlayerIdx: seat, Index: m.Index, Lane: orNoLane(m.Lane)}
}

// Action converts the message for the game loop.
func (m ChooseTargetMsg) Action(seat int) (game.Action, bool) {
	t := rules.Target{Lane: orNoLane(m.Lane), CardIndex: orNoLane(m.CardIndex), Owner: orNoLane(m.Owner)}
	switch m.Choice {
	case "":
	case "clear_weather":
		t.Choice = rules.ChoiceClearWeather
	case "second_blight":
		t.Choice = rules.ChoiceSecondBlight
	default:
		return game.Action{}, false
	}
	return game.Action{Type: game.ActionChooseTarget, PlayerIdx: seat, Target: t}, true
}

// --- Server-to-Client messages ---

// ErrorMsg is sent when a client message cannot be handled. Kind is a stable machine-readable code.
type ErrorMsg struct {
	Type    string `json:"type"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

// WaitingForMatchMsg confirms the player is in the matchmaking queue.
type WaitingForMatchMsg struct {
	Type string `json:"type"`
}

// MatchFoundMsg is sent when two players are paired, and again after a successful rejoin.
type MatchFoundMsg struct {
	Type           string `json:"type"`
	GameID         string `json:"gameId"`
	RejoinToken    string `json:"rejoinToken"`
	OpponentName   string `json:"opponentName"`
	OpponentUserID string `json:"opponentUserId,omitempty"`
	Seat           int    `json:"seat"`
}
