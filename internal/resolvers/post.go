package resolvers

import (
	"context"

	"lireddit/internal/middleware"
	"lireddit/internal/models"
	"lireddit/internal/services"
	"lireddit/internal/utils"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type PostResolver struct {
	p     *models.Post
	users *services.UserService
}

func (r *Resolver) postResolver(p *models.Post) *PostResolver {
	if p == nil {
		return nil
	}
	return &PostResolver{p: p, users: r.users}
}

func (r *PostResolver) ID() int32 { return int32(r.p.ID) }

func (r *PostResolver) Title() string { return r.p.Title }

func (r *PostResolver) Text() string { return r.p.Text }

func (r *PostResolver) TextSnippet() string { return services.TextSnippet(r.p) }

func (r *PostResolver) TextHTML() string { return utils.RenderMarkdown(r.p.Text) }

func (r *PostResolver) Points() int32 { return int32(r.p.Points) }

func (r *PostResolver) VoteStatus() *int32 {
	if r.p.VoteStatus == nil {
		return nil
	}
	v := int32(*r.p.VoteStatus)
	return &v
}

func (r *PostResolver) CreatorID() int32 { return int32(r.p.CreatorID) }

// Creator goes through the request's loader so a page of posts costs one user query.
func (r *PostResolver) Creator(ctx context.Context) (*UserResolver, error) {
	if l := middleware.UserLoaderFrom(ctx); l != nil {
		u, err := l.Load(ctx, r.p.CreatorID)()
		if err != nil {
			return nil, err
		}
		return userResolver(u), nil
	}
	u, err := r.users.FindByID(ctx, r.p.CreatorID)
	if err != nil {
		return nil, err
	}
	return userResolver(u), nil
}

func (r *PostResolver) CreatedAt() string { return utils.MillisString(r.p.CreatedAt) }

func (r *PostResolver) UpdatedAt() string { return utils.MillisString(r.p.UpdatedAt) }

type PaginatedPostsResolver struct {
	posts   []*PostResolver
	hasMore bool
}

func (r *PaginatedPostsResolver) Posts() []*PostResolver { return r.posts }

func (r *PaginatedPostsResolver) HasMore() bool { return r.hasMore }

func (r *Resolver) Post(ctx context.Context, args struct{ ID int32 }) (*PostResolver, error) {
	p, err := r.posts.Get(ctx, middleware.SessionFrom(ctx), uint(args.ID))
	if errors.Is(err, services.ErrPostNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.internal("post", err)
	}
	return r.postResolver(p), nil
}

func (r *Resolver) Posts(ctx context.Context, args struct {
	Limit  int32
	Cursor *string
}) (*PaginatedPostsResolver, error) {
	return r.listPosts(ctx, services.PageQuery{Limit: int(args.Limit), Cursor: args.Cursor})
}

func (r *Resolver) UserPosts(ctx context.Context, args struct {
	CreatorID int32
	Limit     int32
	Cursor    *string
}) (*PaginatedPostsResolver, error) {
	creator := uint(args.CreatorID)
	return r.listPosts(ctx, services.PageQuery{Limit: int(args.Limit), Cursor: args.Cursor, CreatorID: &creator})
}

func (r *Resolver) listPosts(ctx context.Context, q services.PageQuery) (*PaginatedPostsResolver, error) {
	page, err := r.posts.List(ctx, middleware.SessionFrom(ctx), q)
	if errors.Is(err, services.ErrInvalidCursor) {
		return nil, err
	}
	if err != nil {
		return nil, r.internal("posts", err)
	}

	out := &PaginatedPostsResolver{
		posts:   make([]*PostResolver, len(page.Posts)),
		hasMore: page.HasMore,
	}
	for i := range page.Posts {
		out.posts[i] = r.postResolver(&page.Posts[i])
	}
	queueCreators(ctx, page.Posts)
	return out, nil
}

// queueCreators puts every creator of the page into one loader batch before
// the executor fans out. Creator fields resolve under a parallelism limit, so
// without this only that many loads would join each batch window.
func queueCreators(ctx context.Context, posts []models.Post) {
	l := middleware.UserLoaderFrom(ctx)
	if l == nil || len(posts) == 0 {
		return
	}
	seen := make(map[uint]struct{}, len(posts))
	ids := make([]uint, 0, len(posts))
	for i := range posts {
		id := posts[i].CreatorID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	l.Queue(ctx, ids)
}

func (r *Resolver) CreatePost(ctx context.Context, args struct {
	Title string
	Text  string
}) (*PostResolver, error) {
	p, err := r.posts.Create(ctx, middleware.SessionFrom(ctx), args.Title, args.Text)
	switch {
	case errors.Is(err, services.ErrPostRejected):
		return nil, nil
	case err != nil:
		return nil, r.internal("createPost", err)
	}
	return r.postResolver(p), nil
}

func (r *Resolver) UpdatePost(ctx context.Context, args struct {
	ID    int32
	Title string
	Text  string
}) (*PostResolver, error) {
	p, err := r.posts.Update(ctx, middleware.SessionFrom(ctx), uint(args.ID), args.Title, args.Text)
	switch {
	case errors.Is(err, services.ErrPostNotFound):
		return nil, nil
	case err != nil:
		return nil, r.internal("updatePost", err)
	}
	return r.postResolver(p), nil
}

// DeletePost reports false for a missing post, a post owned by someone else, or a failed delete.
func (r *Resolver) DeletePost(ctx context.Context, args struct{ ID int32 }) (bool, error) {
	err := r.posts.Delete(ctx, middleware.SessionFrom(ctx), uint(args.ID))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, services.ErrNotAuthenticated):
		return false, err
	case errors.Is(err, services.ErrPostNotFound), errors.Is(err, services.ErrNotOwner):
		return false, nil
	}
	r.log.Error("Failed to delete post", zap.Int32("post_id", args.ID), zap.Error(err))
	return false, nil
}

func (r *Resolver) Vote(ctx context.Context, args struct {
	PostID int32
	Value  int32
}) (bool, error) {
	err := r.posts.Vote(ctx, middleware.SessionFrom(ctx), uint(args.PostID), int(args.Value))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, services.ErrPostNotFound):
		return false, nil
	case errors.Is(err, services.ErrInvalidVote):
		return false, err
	}
	return false, r.internal("vote", err)
}
