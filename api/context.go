package api

import (
	"context"

	"github.com/quonaro/portfolio-backend/models"
)

type keyType string

const sessionKey keyType = "session"

func ctxWithSession(ctx context.Context, session models.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// ctxGetSession returns the session set by authMiddleware, or an unauthenticated one.
func ctxGetSession(ctx context.Context) models.Session {
	session, _ := ctx.Value(sessionKey).(models.Session)
	return session
}
