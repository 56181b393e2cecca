package auth

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/stockkeeper/pkg/httpx"
	"github.com/ghuser/stockkeeper/pkg/logger"
)

// SessionName is the cookie carrying the session ID.
const SessionName = "stockkeeper_session"

// SessionActorIDKey is the session value holding the signed-in actor's ID.
const SessionActorIDKey = "actor_id"

// Authenticate is a chi middleware that resolves the acting user from the
// session cookie and injects it into the request context and its log attributes.
//
// When required is false, requests without a usable session pass through
// anonymously and the engine records them as system actions. When required is
// true they get 401.
func Authenticate(store sessions.Store, log logger.Logger, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, reason := actorFromSession(store, r)
			if reason != "" {
				if required {
					log.WarnContext(r.Context(), "unauthenticated request rejected", "reason", reason)
					httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithActorID(r.Context(), id)
			ctx = logger.WithAttrs(ctx, "actor_id", id.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth is Authenticate with a session made mandatory.
func RequireAuth(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return Authenticate(store, log, true)
}

// actorFromSession returns the session's actor, or a non-empty reason it has none.
func actorFromSession(store sessions.Store, r *http.Request) (uuid.UUID, string) {
	if store == nil {
		return uuid.Nil, "no session store"
	}
	session, err := store.Get(r, SessionName)
	if err != nil {
		return uuid.Nil, "invalid session cookie"
	}
	raw, ok := session.Values[SessionActorIDKey].(string)
	if !ok || raw == "" {
		return uuid.Nil, "session missing actor_id"
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, "invalid actor_id in session"
	}
	return id, ""
}
