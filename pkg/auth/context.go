package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type contextKey string

const actorIDKey contextKey = "actor_id"

// ErrActorNotFound is returned when no authenticated actor is in the request context.
var ErrActorNotFound = errors.New("actor_id not found in context")

// ActorIDFromCtx extracts the authenticated actor's ID from the request context.
// Returns uuid.Nil and ErrActorNotFound for anonymous requests.
func ActorIDFromCtx(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(actorIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, ErrActorNotFound
	}
	return id, nil
}

// Actor returns the actor as recorded in audit entries: the authenticated ID,
// or a null ID when the request acts as the system.
func Actor(ctx context.Context) uuid.NullUUID {
	id, err := ActorIDFromCtx(ctx)
	if err != nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: id, Valid: true}
}

// WithActorID returns a new context carrying the actor's ID.
func WithActorID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, actorIDKey, id)
}
