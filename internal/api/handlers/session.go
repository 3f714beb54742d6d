package handlers

import (
	"context"
	"net/http"

	"github.com/hoanghai1803/tastemap/internal/storage"
)

// SessionCookieName is the cookie that carries the session id.
const SessionCookieName = "tastemap_session"

type sessionKey struct{}

// WithSessionID returns a copy of ctx carrying the session id.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionID returns the session id stored by the session middleware, or ""
// outside a session.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// DeleteSession handles DELETE /api/session. It removes the session with its
// profiles and history, and expires the cookie.
func DeleteSession(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := SessionID(r.Context())
		if id == "" {
			respondError(w, "delete session", storage.ErrNoSession)
			return
		}

		if err := store.DeleteSession(r.Context(), id); err != nil {
			respondError(w, "delete session", err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}
