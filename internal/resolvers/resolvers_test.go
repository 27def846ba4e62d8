package resolvers

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"lireddit/internal/config"
	"lireddit/internal/loader"
	"lireddit/internal/middleware"
	"lireddit/internal/models"
	"lireddit/internal/services"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type viewer struct{ id uint }

func (v viewer) UserID() (uint, bool) { return v.id, v.id != 0 }
func (viewer) SetUserID(uint) error   { return nil }
func (viewer) Destroy() error         { return nil }

// newTestSchema wires services without a database; only paths that fail
// before touching storage are exercised.
func newTestSchema(t *testing.T) *graphql.Schema {
	t.Helper()
	log := zap.NewNop()
	users := services.NewUserService(nil)
	r := New(
		services.NewAuthService(nil, users, nil, nil, "http://localhost:3000", log),
		services.NewPostService(nil, log),
		users,
		log,
	)
	schema, err := NewSchema(r, config.GraphQLConfig{MaxDepth: 10, MaxParallelism: 4})
	require.NoError(t, err)
	return schema
}

// pageStore serves a fixed page from List; every other call is unused here.
type pageStore struct {
	PostStore
	page []models.Post
}

func (s pageStore) List(context.Context, services.Session, services.PageQuery) (*services.PaginatedPosts, error) {
	return &services.PaginatedPosts{Posts: s.page}, nil
}

func TestSchemaBindsEveryOperation(t *testing.T) {
	newTestSchema(t)
}

func TestRootFields(t *testing.T) {
	fields := RootFields(newTestSchema(t))

	assert.ElementsMatch(t, []string{
		"me", "post", "posts", "userPosts",
		"register", "login", "logout", "forgotPassword", "changePassword",
		"createPost", "updatePost", "deletePost", "vote",
	}, fields)
}

func TestMeIsNullWhenAnonymous(t *testing.T) {
	schema := newTestSchema(t)

	resp := schema.Exec(context.Background(), `{ me { id username } }`, "", nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"me":null}`, string(resp.Data))
}

func TestProtectedMutationsRequireLogin(t *testing.T) {
	schema := newTestSchema(t)
	ctx := middleware.WithSession(context.Background(), viewer{})

	for _, q := range []string{
		`mutation { vote(postId: 1, value: 1) }`,
		`mutation { createPost(title: "hello", text: "a body that is long enough to pass") { id } }`,
		`mutation { updatePost(id: 1, title: "x", text: "y") { id } }`,
		`mutation { deletePost(id: 1) }`,
	} {
		resp := schema.Exec(ctx, q, "", nil)
		require.NotEmpty(t, resp.Errors, q)
		assert.Equal(t, "not authenticated", resp.Errors[0].Message, q)
	}
}

func TestVoteRejectsOutOfRangeValue(t *testing.T) {
	schema := newTestSchema(t)
	ctx := middleware.WithSession(context.Background(), viewer{id: 1})

	resp := schema.Exec(ctx, `mutation { vote(postId: 1, value: 3) }`, "", nil)
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, "invalid vote value", resp.Errors[0].Message)
}

func TestPostsRejectsMalformedCursor(t *testing.T) {
	schema := newTestSchema(t)

	resp := schema.Exec(context.Background(),
		`query($c: String) { posts(limit: 10, cursor: $c) { hasMore } }`, "",
		map[string]interface{}{"c": "last tuesday"})
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, "invalid cursor", resp.Errors[0].Message)
}

func TestRegisterValidationNeedsNoStorage(t *testing.T) {
	schema := newTestSchema(t)

	resp := schema.Exec(context.Background(),
		`mutation { register(username: "ab", email: "x@y.z", password: "hunter22") { errors { field message } user { id } } }`,
		"", nil)
	require.Empty(t, resp.Errors)

	var out struct {
		Register struct {
			Errors []services.FieldError `json:"errors"`
			User   *struct{}             `json:"user"`
		} `json:"register"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	assert.Equal(t, []services.FieldError{{Field: "username", Message: "length must be greater than 2"}}, out.Register.Errors)
	assert.Nil(t, out.Register.User)
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	schema := newTestSchema(t)

	resp := schema.Exec(context.Background(),
		`mutation($p: String!) { register(username: "bobby", email: "b@x.com", password: $p) { errors { field message } user { id } } }`,
		"", map[string]interface{}{"p": strings.Repeat("a", 80)})
	require.Empty(t, resp.Errors)

	var out struct {
		Register struct {
			Errors []services.FieldError `json:"errors"`
		} `json:"register"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	assert.Equal(t, []services.FieldError{{Field: "password", Message: "length must be at most 72 bytes"}}, out.Register.Errors)
}

func TestPostsLoadCreatorsInOneBatch(t *testing.T) {
	const n = 30
	page := make([]models.Post, n)
	for i := range page {
		page[i] = models.Post{ID: uint(i + 1), Title: "t", CreatorID: uint(i + 1)}
	}

	log := zap.NewNop()
	users := services.NewUserService(nil)
	r := New(services.NewAuthService(nil, users, nil, nil, "http://localhost:3000", log), pageStore{page: page}, users, log)
	schema, err := NewSchema(r, config.GraphQLConfig{MaxDepth: 10, MaxParallelism: 10})
	require.NoError(t, err)

	var (
		mu      sync.Mutex
		batches [][]uint
	)
	fetch := func(_ context.Context, ids []uint) ([]models.User, error) {
		mu.Lock()
		batches = append(batches, append([]uint(nil), ids...))
		mu.Unlock()
		out := make([]models.User, len(ids))
		for i, id := range ids {
			out[i] = models.User{ID: id, Username: "user"}
		}
		return out, nil
	}
	ctx := middleware.WithUserLoader(context.Background(), loader.NewUserLoader(fetch, 20*time.Millisecond))

	resp := schema.Exec(ctx, `{ posts(limit: 30) { posts { creator { username } } } }`, "", nil)
	require.Empty(t, resp.Errors)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], n)
}

func TestEmailMasking(t *testing.T) {
	u := &UserResolver{u: &models.User{ID: 7, Email: "me@example.com"}}

	assert.Equal(t, "", u.Email(context.Background()))
	assert.Equal(t, "", u.Email(middleware.WithSession(context.Background(), viewer{id: 8})))
	assert.Equal(t, "me@example.com", u.Email(middleware.WithSession(context.Background(), viewer{id: 7})))
}

func TestPostFields(t *testing.T) {
	created := time.UnixMilli(1700000000000)
	vote := -1
	p := (&Resolver{}).postResolver(&models.Post{
		ID:         3,
		Title:      "t",
		Text:       "**hi** there",
		Points:     -4,
		CreatorID:  2,
		CreatedAt:  created,
		UpdatedAt:  created,
		VoteStatus: &vote,
	})

	assert.Equal(t, int32(3), p.ID())
	assert.Equal(t, int32(-4), p.Points())
	assert.Equal(t, "1700000000000", p.CreatedAt())
	assert.Equal(t, int32(-1), *p.VoteStatus())
	assert.Contains(t, p.TextHTML(), "<strong>hi</strong>")
	assert.Equal(t, "**hi** there", p.TextSnippet())

	assert.Nil(t, (&Resolver{}).postResolver(&models.Post{}).VoteStatus())
}
