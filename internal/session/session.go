package session

import (
	"sync"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const userIDKey = "user_id"

// Handle is the per-request view of the login session.
// Query fields may resolve in parallel, so access is serialized.
type Handle struct {
	mu sync.Mutex
	s  sessions.Session
}

func NewHandle(s sessions.Session) *Handle {
	return &Handle{s: s}
}

// FromGin returns the session bound by the sessions middleware.
func FromGin(c *gin.Context) *Handle {
	return NewHandle(sessions.Default(c))
}

// UserID returns the logged-in user id, if any.
func (h *Handle) UserID() (uint, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch v := h.s.Get(userIDKey).(type) {
	case uint:
		return v, v != 0
	case int:
		return uint(v), v > 0
	}
	return 0, false
}

// SetUserID binds id to the session and writes the cookie. The session
// always moves to a new id, so a cookie issued before login stops working.
func (h *Handle) SetUserID(id uint) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.s.Set(renewKey, true)
	h.s.Set(userIDKey, id)
	return h.s.Save()
}

// Destroy removes the server-side session and expires the cookie.
func (h *Handle) Destroy() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.s.Clear()
	h.s.Options(sessions.Options{Path: "/", MaxAge: -1})
	return h.s.Save()
}
