package httpserver

import (
	"context"

	"github.com/gofrs/uuid/v5"
)

type ctxKey string

const (
	userIDKey    ctxKey = "ss.userID"
	sessionIDKey ctxKey = "ss.sessionID"
)

// WithIdentity stores the authenticated user and session IDs in context.
func WithIdentity(ctx context.Context, userID, sessionID uuid.UUID) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// UserIDFromCtx fetches the user ID from context.
func UserIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	return idFromCtx(ctx, userIDKey)
}

// SessionIDFromCtx fetches the session ID from context.
func SessionIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	return idFromCtx(ctx, sessionIDKey)
}

func idFromCtx(ctx context.Context, key ctxKey) (uuid.UUID, bool) {
	v := ctx.Value(key)
	if v == nil {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
