package services

// Session is the caller's login state as seen by the services.
type Session interface {
	UserID() (uint, bool)
	SetUserID(id uint) error
	Destroy() error
}

// requireUser returns the session's user id or ErrNotAuthenticated.
func requireUser(sess Session) (uint, error) {
	if sess == nil {
		return 0, ErrNotAuthenticated
	}
	id, ok := sess.UserID()
	if !ok {
		return 0, ErrNotAuthenticated
	}
	return id, nil
}

// viewerID is like requireUser for read paths where anonymous is fine.
func viewerID(sess Session) (uint, bool) {
	if sess == nil {
		return 0, false
	}
	return sess.UserID()
}
