package session

import "context"

type ctxKey struct{}

func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

func UserIDFrom(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(ctxKey{}).(uint)
	return id, ok && id != 0
}
