package helpers

import (
	"context"

	"github.com/lunarbyte/go-storefront/app/models"
)

type contextKey string

const (
	ContextKeyUserID contextKey = "userID"
	ContextKeyUser   contextKey = "userProfile"
)

func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ContextKeyUserID).(string)
	return id, ok && id != ""
}

func UserFromContext(ctx context.Context) *models.UserProfile {
	user, _ := ctx.Value(ContextKeyUser).(*models.UserProfile)
	return user
}

func WithUser(ctx context.Context, userID string, user *models.UserProfile) context.Context {
	ctx = context.WithValue(ctx, ContextKeyUserID, userID)
	return context.WithValue(ctx, ContextKeyUser, user)
}
