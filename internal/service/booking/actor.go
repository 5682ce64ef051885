package booking

import "context"

type actorKey struct{}

// WithActor tags ctx with the back-office user making a change, for the
// audit trail.
func WithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey{}, actorID)
}

func ActorFromContext(ctx context.Context) string {
	actorID, _ := ctx.Value(actorKey{}).(string)
	return actorID
}
