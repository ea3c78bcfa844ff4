package authz

import (
	"context"
	"net/http"
)

type contextKey string

const userIDKey contextKey = "user_id"

// WithUser stores the authenticated user id on the context. The core
// services never read it back themselves; handlers extract it and pass
// the id explicitly.
func WithUser(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromRequest(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value(userIDKey).(int64)
	if !ok || uid <= 0 {
		return 0, false
	}
	return uid, true
}
