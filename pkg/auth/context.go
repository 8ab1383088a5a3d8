package auth

import "context"

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const actorKey contextKey = "actor"

// Actor is the caller on whose behalf an operation runs. The service issues
// no sessions, so every request is handled as the anonymous actor until a
// middleware attaches an authenticated one with WithActor.
type Actor struct {
	UserID int64
}

// Anonymous returns the actor used when no identity is attached to a request.
func Anonymous() Actor {
	return Actor{}
}

// Authenticated reports whether the actor carries a user identity.
func (a Actor) Authenticated() bool {
	return a.UserID > 0
}

// ActorFromCtx extracts the actor from the request context.
// Returns Anonymous() when none is set.
func ActorFromCtx(ctx context.Context) Actor {
	a, ok := ctx.Value(actorKey).(Actor)
	if !ok {
		return Anonymous()
	}
	return a
}

// WithActor returns a new context with the given actor attached.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}
