// Package session keeps login state server-side in the kv store. The cookie only carries a signed session id.
package session

import (
	"net/http"
	"time"

	"lireddit/internal/kv"

	"github.com/gin-contrib/sessions"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	gsessions "github.com/gorilla/sessions"
	"github.com/pkg/errors"
)

const keyPrefix = "sess:"

// renewKey marks a session that Save should move to a fresh id.
const renewKey = "_renew"

// Store implements sessions.Store for gin on top of kv.Store.
type Store struct {
	kv         *kv.Store
	codecs     []securecookie.Codec
	options    *gsessions.Options
	serializer securecookie.GobEncoder
}

var _ sessions.Store = (*Store)(nil)

// NewStore signs session cookies with secret and keeps session values in kv.
func NewStore(store *kv.Store, secret []byte, opts sessions.Options) *Store {
	s := &Store{
		kv:     store,
		codecs: securecookie.CodecsFromPairs(secret),
	}
	s.Options(opts)
	return s
}

// Options sets the cookie options used for new sessions.
func (s *Store) Options(opts sessions.Options) {
	s.options = opts.ToGorillaOptions()
	for _, c := range s.codecs {
		if sc, ok := c.(*securecookie.SecureCookie); ok && opts.MaxAge > 0 {
			sc.MaxAge(opts.MaxAge)
		}
	}
}

func (s *Store) Get(r *http.Request, name string) (*gsessions.Session, error) {
	return gsessions.GetRegistry(r).Get(s, name)
}

// New returns the session named by the request cookie, or a fresh one when
// the cookie is missing, tampered with, or points at an expired entry.
func (s *Store) New(r *http.Request, name string) (*gsessions.Session, error) {
	session := gsessions.NewSession(s, name)
	opts := *s.options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	if err := securecookie.DecodeMulti(name, c.Value, &session.ID, s.codecs...); err != nil {
		session.ID = ""
		return session, nil
	}

	data, ok, err := s.kv.Get(keyPrefix + session.ID)
	if err != nil {
		return session, err
	}
	if !ok {
		session.ID = ""
		return session, nil
	}
	if err := s.serializer.Deserialize(data, &session.Values); err != nil {
		return session, errors.Wrap(err, "decoding session")
	}
	session.IsNew = false
	return session, nil
}

// Save persists the session, or deletes it when MaxAge is not positive.
// A session marked for renewal drops its old entry and gets a new id.
func (s *Store) Save(r *http.Request, w http.ResponseWriter, session *gsessions.Session) error {
	if _, renew := session.Values[renewKey]; renew {
		delete(session.Values, renewKey)
		if session.ID != "" {
			if err := s.kv.Delete(keyPrefix + session.ID); err != nil {
				return err
			}
			session.ID = ""
		}
	}

	if session.Options.MaxAge <= 0 {
		if session.ID != "" {
			if err := s.kv.Delete(keyPrefix + session.ID); err != nil {
				return err
			}
		}
		http.SetCookie(w, gsessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	data, err := s.serializer.Serialize(session.Values)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	ttl := time.Duration(session.Options.MaxAge) * time.Second
	if err := s.kv.Set(keyPrefix+session.ID, data, ttl); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return errors.Wrap(err, "signing session cookie")
	}
	http.SetCookie(w, gsessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}
