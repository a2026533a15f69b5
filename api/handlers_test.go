package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"gwan-server/storage"
)

type fakeValidator struct{}

func (fakeValidator) Validate(token string) (jwt.MapClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return jwt.MapClaims{"sub": "user-1"}, nil
}

type fakeStore struct {
	storage.HistoryStore // unused methods panic
	gotUser              string
	err                  error
}

func (f *fakeStore) ListByUserID(ctx context.Context, userID string) ([]storage.MatchRecord, error) {
	f.gotUser = userID
	if f.err != nil {
		return nil, f.err
	}
	return []storage.MatchRecord{{ID: "m1", RoundsWon: [2]int{2, 1}, EndReason: "completed"}}, nil
}

func TestHistory(t *testing.T) {
	store := &fakeStore{}
	h := NewHandler(fakeValidator{}, store)

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	h.History(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if store.gotUser != "user-1" {
		t.Errorf("queried user %q", store.gotUser)
	}
	var list []storage.MatchRecord
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(list) != 1 || list[0].ID != "m1" {
		t.Errorf("list = %+v", list)
	}
}

func TestHistoryRequiresAuth(t *testing.T) {
	h := NewHandler(fakeValidator{}, &fakeStore{})
	for _, header := range []string{"", "Bearer bad", "Token good"} {
		req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.History(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d", header, rec.Code)
		}
	}
}

func TestHistoryWithoutStore(t *testing.T) {
	h := NewHandler(fakeValidator{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	h.History(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "[]\n" {
		t.Fatalf("status %d body %q", rec.Code, rec.Body.String())
	}
}

func TestHistoryStoreError(t *testing.T) {
	h := NewHandler(fakeValidator{}, &fakeStore{err: errors.New("db down")})
	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	h.History(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHistoryMethodAndPreflight(t *testing.T) {
	h := NewHandler(fakeValidator{}, nil)

	rec := httptest.NewRecorder()
	h.History(rec, httptest.NewRequest(http.MethodPost, "/api/history", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.History(rec, httptest.NewRequest(http.MethodOptions, "/api/history", nil))
	if rec.Code != http.StatusNoContent || rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("preflight status = %d", rec.Code)
	}
}
