package wsutil

import "testing"

func TestSafeSend(t *testing.T) {
	ch := make(chan []byte, 1)
	if !SafeSend(ch, []byte("a")) {
		t.Fatal("send into empty buffer failed")
	}
	if SafeSend(ch, []byte("b")) {
		t.Fatal("send into full buffer reported success")
	}
	if got := string(<-ch); got != "a" {
		t.Fatalf("received %q", got)
	}

	close(ch)
	if SafeSend(ch, []byte("c")) {
		t.Fatal("send on closed channel reported success")
	}
}
