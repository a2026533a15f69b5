package game

// Player is one connected seat of a match. Name and UserID mirror what the client
// authenticated with; game rules live in the engine, not here.
type Player struct {
	Name   string
	UserID string
	Send   chan []byte // reference to the client's send channel
}

// NewPlayer creates a new Player with the given name and send channel.
func NewPlayer(name string, send chan []byte) *Player {
	return &Player{
		Name: name,
		Send: send,
	}
}
