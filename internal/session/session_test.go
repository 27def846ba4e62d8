package session

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"lireddit/internal/kv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const cookieName = "qid"

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := kv.Open("", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	r := gin.New()
	r.Use(sessions.Sessions(cookieName, NewStore(store, []byte("test-secret"), sessions.Options{
		Path:     "/",
		MaxAge:   3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})))
	r.POST("/login/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		if err := FromGin(c).SetUserID(uint(id)); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})
	r.GET("/me", func(c *gin.Context) {
		id, ok := FromGin(c).UserID()
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, strconv.Itoa(int(id)))
	})
	r.POST("/logout", func(c *gin.Context) {
		if err := FromGin(c).Destroy(); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})
	return r
}

func do(r *gin.Engine, method, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", cookieName)
	return nil
}

func TestLoginPersistsAcrossRequests(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodPost, "/login/42", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)

	w = do(r, http.MethodGet, "/me", cookie)
	assert.Equal(t, "42", w.Body.String())
}

func TestNoCookieIsAnonymous(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodGet, "/me", nil)
	assert.Equal(t, "anonymous", w.Body.String())
}

func TestTamperedCookieIsAnonymous(t *testing.T) {
	r := setupRouter(t)

	cookie := sessionCookie(t, do(r, http.MethodPost, "/login/7", nil))
	cookie.Value = cookie.Value[:len(cookie.Value)-2] + "xx"

	w := do(r, http.MethodGet, "/me", cookie)
	assert.Equal(t, "anonymous", w.Body.String())
}

func TestDestroyRemovesServerState(t *testing.T) {
	r := setupRouter(t)

	cookie := sessionCookie(t, do(r, http.MethodPost, "/login/9", nil))

	w := do(r, http.MethodPost, "/logout", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	expired := sessionCookie(t, w)
	assert.True(t, expired.MaxAge < 0)

	// replaying the old cookie finds nothing server-side
	w = do(r, http.MethodGet, "/me", cookie)
	assert.Equal(t, "anonymous", w.Body.String())
}

func TestLoginIssuesNewSessionID(t *testing.T) {
	r := setupRouter(t)

	before := sessionCookie(t, do(r, http.MethodPost, "/login/7", nil))

	w := do(r, http.MethodPost, "/login/8", before)
	require.Equal(t, http.StatusOK, w.Code)
	after := sessionCookie(t, w)
	assert.NotEqual(t, before.Value, after.Value)

	// the pre-login id is gone server-side
	assert.Equal(t, "anonymous", do(r, http.MethodGet, "/me", before).Body.String())
	assert.Equal(t, "8", do(r, http.MethodGet, "/me", after).Body.String())
}

func TestRenewMarkerIsNotPersisted(t *testing.T) {
	store, err := kv.Open("", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	s := NewStore(store, []byte("test-secret"), sessions.Options{Path: "/", MaxAge: 3600})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := s.New(req, cookieName)
	require.NoError(t, err)
	sess.Values[renewKey] = true
	sess.Values[userIDKey] = uint(3)

	require.NoError(t, s.Save(req, httptest.NewRecorder(), sess))
	require.NotEmpty(t, sess.ID)
	assert.NotContains(t, sess.Values, renewKey)

	data, ok, err := store.Get(keyPrefix + sess.ID)
	require.NoError(t, err)
	require.True(t, ok)
	var values map[interface{}]interface{}
	require.NoError(t, s.serializer.Deserialize(data, &values))
	assert.Equal(t, map[interface{}]interface{}{userIDKey: uint(3)}, values)
}
