package wsutil

import "log/slog"

// SafeSend sends data to a channel without panicking if the channel is closed.
// If the channel is full or closed, the send is skipped and false is returned.
func SafeSend(ch chan []byte, data []byte) (sent bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("send on closed channel", "tag", "wsutil", "panic", r)
			sent = false
		}
	}()
	select {
	case ch <- data:
		return true
	default:
		slog.Warn("send buffer full, dropping message", "tag", "wsutil")
		return false
	}
}
