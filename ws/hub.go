package ws

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"gwan-server/auth"
	"gwan-server/config"
	"gwan-server/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development; restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// MatchmakerInterface defines what the Hub needs from the Matchmaker.
type MatchmakerInterface interface {
	Enqueue(c *Client) error
	LeaveQueue(c *Client)
	Rejoin(gameID, rejoinToken, name string) (*game.Game, int, error)
	RejoinByUser(userID string) (*game.Game, int, string, error)
}

// Hub maintains the set of active clients and routes messages.
type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	Matchmaker MatchmakerInterface
	Config     *config.Config
	Auth       *auth.Validator
}

// NewHub creates a new Hub. validator may be unconfigured, in which case clients pick a name with set_name.
func NewHub(cfg *config.Config, mm MatchmakerInterface, validator *auth.Validator) *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Matchmaker: mm,
		Config:     cfg,
		Auth:       validator,
	}
}

// Run starts the hub's main loop. Should be run as a goroutine.
// When ctx is cancelled (e.g. on server shutdown), Run returns and no longer accepts new registrations.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			slog.Info("shutdown signal received, stopping", "tag", "hub")
			return
		case client := <-h.Register:
			h.Clients[client] = true
			slog.Info("client connected", "tag", "hub", "clients", len(h.Clients))

		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; !ok {
				continue
			}
			delete(h.Clients, client)
			close(client.Send)
			h.Matchmaker.LeaveQueue(client)
			slog.Info("client disconnected", "tag", "hub", "clients", len(h.Clients))

			// A player in a running match gets a reconnection window instead of losing at once.
			if g, seat := client.Game(); g != nil && !g.Finished() {
				g.Submit(game.Action{Type: game.ActionPlayerDisconnected, PlayerIdx: seat})
			}
		}
	}
}

// ServeWS handles WebSocket upgrade requests and creates a new Client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("upgrade failed", "tag", "hub", "err", err)
		return
	}

	client := NewClient(h, conn, "")
	h.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
