package persistence

import "context"

// SystemActor is the audit identity used when no authenticated actor is
// present on the request context (background jobs, migrations, workers).
const SystemActor = "system"

type actorKey struct{}

// WithActor attaches the acting identity to the context. HTTP middleware
// sets it from the authenticated principal before handlers run.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext extracts the acting identity, if any.
func ActorFromContext(ctx context.Context) (string, bool) {
	actor, ok := ctx.Value(actorKey{}).(string)
	return actor, ok && actor != ""
}

// ActorProvider resolves the identity recorded on audit stamps.
type ActorProvider interface {
	Actor(ctx context.Context) string
}

// ContextActorProvider reads the actor from the request context and falls
// back to the fixed system identity.
type ContextActorProvider struct{}

func (ContextActorProvider) Actor(ctx context.Context) string {
	if actor, ok := ActorFromContext(ctx); ok {
		return actor
	}
	return SystemActor
}
