package services

import (
	"context"

	"lireddit/internal/models"
	"lireddit/internal/utils"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const snippetLen = 50

type PostService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewPostService(db *gorm.DB, log *zap.Logger) *PostService {
	return &PostService{db: db, log: log}
}

// TextSnippet is the first 50 characters of the post body.
func TextSnippet(p *models.Post) string {
	return utils.Truncate(p.Text, snippetLen)
}

// Create stores a new post for the session user. Posts failing the content
// checks return ErrPostRejected.
func (s *PostService) Create(ctx context.Context, sess Session, title, text string) (*models.Post, error) {
	uid, err := requireUser(sess)
	if err != nil {
		return nil, err
	}
	if !acceptablePost(title, text) {
		return nil, ErrPostRejected
	}

	post := models.Post{
		Title:     title,
		Text:      text,
		CreatorID: uid,
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, errors.Wrap(err, "create post")
	}
	return &post, nil
}

// Update rewrites title and text when the session user owns the post.
// A missing post and a post owned by someone else both yield ErrPostNotFound.
func (s *PostService) Update(ctx context.Context, sess Session, id uint, title, text string) (*models.Post, error) {
	uid, err := requireUser(sess)
	if err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND creator_id = ?", id, uid).
		Updates(map[string]interface{}{"title": title, "text": text})
	if res.Error != nil {
		return nil, errors.Wrapf(res.Error, "update post %d", id)
	}
	if res.RowsAffected == 0 {
		return nil, ErrPostNotFound
	}

	return s.Get(ctx, sess, id)
}

// Delete removes the post and its votes in one transaction.
func (s *PostService) Delete(ctx context.Context, sess Session, id uint) error {
	uid, err := requireUser(sess)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id", "creator_id").First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return errors.Wrapf(err, "find post %d", id)
		}
		if post.CreatorID != uid {
			return ErrNotOwner
		}

		if err := tx.Where("post_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return errors.Wrapf(err, "delete votes of post %d", id)
		}
		if err := tx.Delete(&models.Post{}, id).Error; err != nil {
			return errors.Wrapf(err, "delete post %d", id)
		}
		return nil
	})
}

// Get returns the post with the viewer's vote filled in.
func (s *PostService) Get(ctx context.Context, sess Session, id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, errors.Wrapf(err, "find post %d", id)
	}

	if uid, ok := viewerID(sess); ok {
		posts := []models.Post{post}
		if err := s.fillVoteStatus(ctx, uid, posts); err != nil {
			return nil, err
		}
		post = posts[0]
	}
	return &post, nil
}

// List returns one page of posts, newest first. It reads limit+1 rows so
// HasMore needs no separate count.
func (s *PostService) List(ctx context.Context, sess Session, q PageQuery) (*PaginatedPosts, error) {
	limit := ClampLimit(q.Limit)
	cursor, err := parseCursor(q.Cursor)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&models.Post{}).
		Order("created_at DESC").
		Limit(limit + 1)
	if cursor != nil {
		query = query.Where("created_at < ?", *cursor)
	}
	if q.CreatorID != nil {
		query = query.Where("creator_id = ?", *q.CreatorID)
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, errors.Wrap(err, "list posts")
	}

	page := trimPage(posts, limit)
	if uid, ok := viewerID(sess); ok {
		if err := s.fillVoteStatus(ctx, uid, page.Posts); err != nil {
			return nil, err
		}
	}
	return &page, nil
}

// fillVoteStatus sets VoteStatus on posts from one query over the page.
func (s *PostService) fillVoteStatus(ctx context.Context, uid uint, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]uint, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}

	var votes []models.Vote
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id IN ?", uid, ids).
		Find(&votes).Error; err != nil {
		return errors.Wrap(err, "load vote status")
	}

	byPost := make(map[uint]int, len(votes))
	for _, v := range votes {
		byPost[v.PostID] = v.Value
	}
	for i := range posts {
		if v, ok := byPost[posts[i].ID]; ok {
			value := v
			posts[i].VoteStatus = &value
		}
	}
	return nil
}
