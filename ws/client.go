package ws

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"

	"gwan-server/auth"
	"gwan-server/game"
	"gwan-server/matcherrors"
	"gwan-server/wsutil"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	Name   string
	UserID string // set after a successful auth message

	mu   sync.Mutex
	game *game.Game
	seat int
}

// NewClient returns a client with a buffered send channel. Conn and Hub may be nil in tests.
func NewClient(hub *Hub, conn *websocket.Conn, name string) *Client {
	return &Client{Hub: hub, Conn: conn, Send: make(chan []byte, 256), Name: name}
}

// SetGame attaches the client to seat of g. The matchmaker calls it from its own goroutine.
func (c *Client) SetGame(g *game.Game, seat int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.game, c.seat = g, seat
}

// Game returns the client's current match and seat; the match is nil outside a game.
func (c *Client) Game() (*game.Game, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.game, c.seat
}

// inActiveGame reports whether the client is seated in an unfinished match.
func (c *Client) inActiveGame() bool {
	g, _ := c.Game()
	return g != nil && !g.Finished()
}

// ReadPump pumps messages from the websocket connection to the hub.
// It runs in its own goroutine per connection.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("read error", "tag", "ws", "err", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// WritePump pumps messages from the send channel to the websocket connection.
// It runs in its own goroutine per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(data []byte) {
	var envelope InboundEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.sendError("bad_message", "Invalid message format.")
		return
	}

	switch envelope.Type {
	case "auth":
		c.handleAuth(envelope.Raw)
	case "set_name":
		c.handleSetName(envelope.Raw)
	case "rejoin":
		c.handleRejoin(envelope.Raw)
	case "play_again":
		c.handlePlayAgain()
	case "select_blight":
		var msg SelectBlightMsg
		if c.decode(envelope.Raw, &msg) {
			c.submit(game.Action{Type: game.ActionSelectBlight, BlightID: msg.BlightID, Second: msg.Second})
		}
	case "play_card":
		var msg PlayCardMsg
		if c.decode(envelope.Raw, &msg) {
			c.submit(msg.Action(0))
		}
	case "play_blight":
		var msg PlayBlightMsg
		if c.decode(envelope.Raw, &msg) {
			c.submit(game.Action{Type: game.ActionPlayBlight, Index: msg.Index})
		}
	case "choose_target":
		var msg ChooseTargetMsg
		if !c.decode(envelope.Raw, &msg) {
			return
		}
		a, ok := msg.Action(0)
		if !ok {
			c.sendError("bad_message", "Unknown choice: "+msg.Choice)
			return
		}
		c.submit(a)
	case "pass":
		c.submit(game.Action{Type: game.ActionPass})
	case "end_turn":
		c.submit(game.Action{Type: game.ActionEndTurn})
	case "undo":
		c.submit(game.Action{Type: game.ActionUndo})
	case "roll_dice":
		c.submit(game.Action{Type: game.ActionRollDice})
	default:
		c.sendError("bad_message", "Unknown message type: "+envelope.Type)
	}
}

func (c *Client) decode(raw json.RawMessage, v interface{}) bool {
	if err := json.Unmarshal(raw, v); err != nil {
		c.sendError("bad_message", "Invalid message payload.")
		return false
	}
	return true
}

// submit forwards a game action for the client's seat.
func (c *Client) submit(a game.Action) {
	g, seat := c.Game()
	if g == nil || g.Finished() {
		c.sendError("not_in_game", "You are not in a game.")
		return
	}
	a.PlayerIdx = seat
	if !g.Submit(a) {
		c.sendError("not_in_game", "The match is over.")
	}
}

func (c *Client) handleAuth(raw json.RawMessage) {
	var msg AuthMsg
	if !c.decode(raw, &msg) {
		return
	}
	v := c.Hub.Auth
	if !v.Configured() {
		c.sendError("auth_unavailable", "Server auth not configured.")
		return
	}
	if c.inActiveGame() {
		c.sendError("in_game", "Already in a game.")
		return
	}
	claims, err := v.Validate(msg.Token)
	if err != nil {
		slog.Info("auth rejected", "tag", "ws", "err", err)
		c.sendError("auth_failed", "Invalid or expired token.")
		return
	}
	c.UserID = auth.UserIDFromClaims(claims)
	c.Name = truncateName(auth.FirstNameFromClaims(claims), c.Hub.Config.MaxNameLength)

	// A returning player goes straight back into their running match.
	if g, seat, token, err := c.Hub.Matchmaker.RejoinByUser(c.UserID); err == nil {
		c.completeRejoin(g, seat, token)
		return
	}
	c.enqueue()
}

func (c *Client) handleSetName(raw json.RawMessage) {
	var msg SetNameMsg
	if !c.decode(raw, &msg) {
		return
	}
	if c.Hub.Auth.Configured() {
		c.sendError("auth_required", "Sign in to play.")
		return
	}

	n := utf8.RuneCountInString(msg.Name)
	if n < 1 || n > c.Hub.Config.MaxNameLength {
		c.sendError("bad_name", "Name must be between 1 and "+strconv.Itoa(c.Hub.Config.MaxNameLength)+" characters.")
		return
	}

	if c.inActiveGame() {
		c.sendError("in_game", "Cannot change name while in a game.")
		return
	}

	c.Name = msg.Name
	c.enqueue()
}

func (c *Client) handleRejoin(raw json.RawMessage) {
	var msg RejoinMsg
	if !c.decode(raw, &msg) {
		return
	}
	if c.inActiveGame() {
		c.sendError("in_game", "Already in a game.")
		return
	}
	g, seat, err := c.Hub.Matchmaker.Rejoin(msg.GameID, msg.RejoinToken, msg.Name)
	if err != nil {
		c.sendError(matcherrors.Kind(err), err.Error())
		return
	}
	if c.Name == "" {
		c.Name = msg.Name
	}
	c.completeRejoin(g, seat, msg.RejoinToken)
}

// completeRejoin seats the client and hands its send channel to the game, which then
// pushes fresh state.
func (c *Client) completeRejoin(g *game.Game, seat int, token string) {
	c.SetGame(g, seat)
	opp := g.Players[1-seat]
	c.sendJSON(MatchFoundMsg{
		Type:           "match_found",
		GameID:         g.ID,
		RejoinToken:    token,
		OpponentName:   opp.Name,
		OpponentUserID: opp.UserID,
		Seat:           seat,
	})
	g.Submit(game.Action{Type: game.ActionRejoinCompleted, PlayerIdx: seat, NewSend: c.Send})
	slog.Info("player rejoined", "tag", "ws", "game", g.ID, "seat", seat)
}

func (c *Client) handlePlayAgain() {
	if c.inActiveGame() {
		c.sendError("in_game", "Cannot play again while in an active game.")
		return
	}
	if c.Name == "" {
		c.sendError("auth_required", "Set a name first.")
		return
	}
	c.SetGame(nil, 0)
	c.enqueue()
}

func (c *Client) enqueue() {
	if err := c.Hub.Matchmaker.Enqueue(c); err != nil {
		c.sendError(matcherrors.Kind(err), err.Error())
		return
	}
	c.sendJSON(WaitingForMatchMsg{Type: "waiting_for_match"})
}

func (c *Client) sendJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshaling message", "tag", "ws", "err", err)
		return
	}
	wsutil.SafeSend(c.Send, data)
}

func (c *Client) sendError(kind, message string) {
	c.sendJSON(ErrorMsg{Type: "error", Kind: kind, Message: message})
}

func truncateName(name string, max int) string {
	if max <= 0 || utf8.RuneCountInString(name) <= max {
		return name
	}
	return string([]rune(name)[:max])
}
