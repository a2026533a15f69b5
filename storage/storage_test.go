package storage

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
)

func TestNewStoreWithoutURL(t *testing.T) {
	s, err := NewStore(context.Background(), "")
	if err != nil || s != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", s, err)
	}
}

func TestNilStoreIsNoop(t *testing.T) {
	var s *Store
	ctx := context.Background()
	id := uuid.NewString()

	if err := s.CreateMatch(ctx, id, [2]string{"u0", "u1"}, [2]string{"A", "B"}); err != nil {
		t.Errorf("CreateMatch: %v", err)
	}
	if err := s.InsertRound(ctx, id, 1, [2]int{10, 7}, 0); err != nil {
		t.Errorf("InsertRound: %v", err)
	}
	if err := s.InsertBlightUse(ctx, id, 1, 0, "fool"); err != nil {
		t.Errorf("InsertBlightUse: %v", err)
	}
	if err := s.FinishMatch(ctx, id, [2]int{2, 0}, 0, "completed"); err != nil {
		t.Errorf("FinishMatch: %v", err)
	}
	list, err := s.ListByUserID(ctx, "u0")
	if err != nil || list == nil || len(list) != 0 {
		t.Errorf("ListByUserID = %v, %v", list, err)
	}
	s.Close()
}

func TestNullableWinner(t *testing.T) {
	if w := nullableWinner(-1); w != nil {
		t.Errorf("draw should be NULL, got %d", *w)
	}
	if w := nullableWinner(1); w == nil || *w != 1 {
		t.Errorf("winner 1 lost: %v", w)
	}
}

func TestYourIndex(t *testing.T) {
	r := MatchRecord{Player0UserID: "a", Player1UserID: "b"}
	if yourIndex(r, "a") != 0 || yourIndex(r, "b") != 1 {
		t.Error("wrong seat for requesting user")
	}
}

// TestStoreRoundTrip needs a Postgres instance; set TEST_DATABASE_URL to run it.
func TestStoreRoundTrip(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	s, err := NewStore(ctx, url)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer s.Close()

	id := uuid.NewString()
	u0, u1 := "user-"+uuid.NewString(), "user-"+uuid.NewString()
	if err := s.CreateMatch(ctx, id, [2]string{u0, u1}, [2]string{"Alice", "Bob"}); err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	if err := s.InsertBlightUse(ctx, id, 1, 1, "devil"); err != nil {
		t.Fatalf("InsertBlightUse: %v", err)
	}
	if err := s.InsertRound(ctx, id, 1, [2]int{12, 20}, 1); err != nil {
		t.Fatalf("InsertRound: %v", err)
	}
	if err := s.InsertRound(ctx, id, 2, [2]int{9, 9}, -1); err != nil {
		t.Fatalf("InsertRound: %v", err)
	}
	if err := s.FinishMatch(ctx, id, [2]int{0, 1}, 1, "opponent_disconnected"); err != nil {
		t.Fatalf("FinishMatch: %v", err)
	}

	list, err := s.ListByUserID(ctx, u1)
	if err != nil {
		t.Fatalf("ListByUserID: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d records", len(list))
	}
	r := list[0]
	if r.ID != id || r.YourIndex != 1 || r.WinnerIndex == nil || *r.WinnerIndex != 1 {
		t.Fatalf("record = %+v", r)
	}
	if len(r.Rounds) != 2 || r.Rounds[1].WinnerIndex != nil {
		t.Fatalf("rounds = %+v", r.Rounds)
	}
	if len(r.Blights) != 1 || r.Blights[0] != "devil" {
		t.Fatalf("blights = %v", r.Blights)
	}
}
