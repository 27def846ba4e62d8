package middleware

import (
	"context"
	"errors"
	"time"

	"lireddit/internal/loader"
	"lireddit/internal/services"
	"lireddit/internal/session"

	"github.com/gin-gonic/gin"
)

type ctxKey int

const (
	sessionKey ctxKey = iota
	userLoaderKey
)

var errNoSession = errors.New("no session bound to request")

// RequestScope binds the login session and a fresh user loader to the request context.
// It must run after the sessions middleware.
func RequestScope(users *services.UserService, loaderWait time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := WithSession(c.Request.Context(), session.FromGin(c))
		ctx = WithUserLoader(ctx, loader.NewUserLoader(users.FindByIDs, loaderWait))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func WithSession(ctx context.Context, s services.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFrom returns the request's session, or an anonymous one that cannot log in.
func SessionFrom(ctx context.Context) services.Session {
	if s, ok := ctx.Value(sessionKey).(services.Session); ok && s != nil {
		return s
	}
	return anonymous{}
}

func WithUserLoader(ctx context.Context, l *loader.UserLoader) context.Context {
	return context.WithValue(ctx, userLoaderKey, l)
}

// UserLoaderFrom returns nil outside a request scope.
func UserLoaderFrom(ctx context.Context) *loader.UserLoader {
	l, _ := ctx.Value(userLoaderKey).(*loader.UserLoader)
	return l
}

type anonymous struct{}

func (anonymous) UserID() (uint, bool) { return 0, false }
func (anonymous) SetUserID(uint) error { return errNoSession }
func (anonymous) Destroy() error       { return nil }
