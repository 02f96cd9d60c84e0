package middleware

import (
	"context"

	"github.com/capstonehub/backend/internal/models"
)

type contextKey string

const (
	actorKey     contextKey = "actor"
	requestIDKey contextKey = "request_id"
	stateKey     contextKey = "request_state"
)

// requestState is shared between Observe and the inner auth middleware so
// the outer layer can attribute a failed request to its caller.
type requestState struct {
	actor *models.Actor
}

// WithActor stores the authenticated caller in ctx.
func WithActor(ctx context.Context, actor *models.Actor) context.Context {
	if state, ok := ctx.Value(stateKey).(*requestState); ok {
		state.actor = actor
	}
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the authenticated caller, or nil for anonymous
// requests.
func ActorFromContext(ctx context.Context) *models.Actor {
	actor, _ := ctx.Value(actorKey).(*models.Actor)
	return actor
}

// RequestIDFromContext returns the ID assigned by Observe.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
