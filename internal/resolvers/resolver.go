// Package resolvers binds schema.graphql to the services.
package resolvers

import (
	"context"
	_ "embed"
	"fmt"
	"runtime/debug"

	"lireddit/internal/config"
	"lireddit/internal/models"
	"lireddit/internal/services"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/introspection"
	"go.uber.org/zap"
)

//go:embed schema.graphql
var Schema string

// Resolver is the root of both Query and Mutation. Every operation in the
// schema is a method here; ParseSchema rejects a schema with a missing method.
type Resolver struct {
	auth  *services.AuthService
	posts PostStore
	users *services.UserService
	log   *zap.Logger
}

// PostStore is the post side of the API. *services.PostService implements it.
type PostStore interface {
	Get(ctx context.Context, sess services.Session, id uint) (*models.Post, error)
	List(ctx context.Context, sess services.Session, q services.PageQuery) (*services.PaginatedPosts, error)
	Create(ctx context.Context, sess services.Session, title, text string) (*models.Post, error)
	Update(ctx context.Context, sess services.Session, id uint, title, text string) (*models.Post, error)
	Delete(ctx context.Context, sess services.Session, id uint) error
	Vote(ctx context.Context, sess services.Session, postID uint, value int) error
}

func New(auth *services.AuthService, posts PostStore, users *services.UserService, log *zap.Logger) *Resolver {
	return &Resolver{auth: auth, posts: posts, users: users, log: log}
}

// NewSchema parses the schema against r with the executor limits from cfg.
func NewSchema(r *Resolver, cfg config.GraphQLConfig) (*graphql.Schema, error) {
	opts := []graphql.SchemaOpt{
		graphql.MaxParallelism(cfg.MaxParallelism),
		graphql.Logger(&panicLogger{log: r.log}),
	}
	if cfg.MaxDepth > 0 {
		opts = append(opts, graphql.MaxDepth(cfg.MaxDepth))
	}
	return graphql.ParseSchema(Schema, r, opts...)
}

// RootFields lists the Query and Mutation field names of a parsed schema.
func RootFields(s *graphql.Schema) []string {
	in := s.Inspect()
	var names []string
	for _, t := range []*introspection.Type{in.QueryType(), in.MutationType()} {
		if t == nil {
			continue
		}
		fields := t.Fields(&struct{ IncludeDeprecated bool }{IncludeDeprecated: true})
		if fields == nil {
			continue
		}
		for _, f := range *fields {
			names = append(names, f.Name())
		}
	}
	return names
}

// panicLogger reports resolver panics through zap.
type panicLogger struct {
	log *zap.Logger
}

func (p *panicLogger) LogPanic(_ context.Context, value interface{}) {
	p.log.Error("graphql: panic occurred",
		zap.String("panic", fmt.Sprint(value)),
		zap.ByteString("stack", debug.Stack()),
	)
}
