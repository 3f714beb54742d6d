package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hoanghai1803/tastemap/internal/models"
	"github.com/hoanghai1803/tastemap/internal/storage"
)

func TestSessionIDContext(t *testing.T) {
	if got := SessionID(context.Background()); got != "" {
		t.Errorf("SessionID(empty) = %q, want empty", got)
	}
	ctx := WithSessionID(context.Background(), "abc")
	if got := SessionID(ctx); got != "abc" {
		t.Errorf("SessionID = %q, want %q", got, "abc")
	}
}

func TestDeleteSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if err := store.SaveCurrentProfile(ctx, testSessionID, models.DefaultProfile()); err != nil {
		t.Fatalf("saving profile: %v", err)
	}

	r := withSession(httptest.NewRequest(http.MethodDelete, "/api/session", nil))
	w := httptest.NewRecorder()
	DeleteSession(store).ServeHTTP(w, r)

	if w.Code != http.StatusNoContent {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusNoContent)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookieName || cookies[0].MaxAge >= 0 {
		t.Errorf("cookies = %+v, want an expired %s cookie", cookies, SessionCookieName)
	}

	if _, err := store.GetSession(ctx, testSessionID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetSession after delete: err = %v, want ErrNotFound", err)
	}
	if _, err := store.GetCurrentProfile(ctx, testSessionID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetCurrentProfile after delete: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteSession_NoSession(t *testing.T) {
	store := newTestStore(t)

	r := httptest.NewRequest(http.MethodDelete, "/api/session", nil)
	w := httptest.NewRecorder()
	DeleteSession(store).ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}
}
