package services

import (
	"time"

	"lireddit/internal/models"
	"lireddit/internal/utils"
)

const (
	MinPageSize = 1
	MaxPageSize = 50
)

// PageQuery selects one page of posts, newest first.
type PageQuery struct {
	Limit     int
	Cursor    *string // createdAt of the last post already seen, in milliseconds
	CreatorID *uint
}

// PaginatedPosts is a page plus whether older posts remain.
type PaginatedPosts struct {
	Posts   []models.Post
	HasMore bool
}

// ClampLimit bounds a requested page size to [MinPageSize, MaxPageSize].
func ClampLimit(limit int) int {
	if limit < MinPageSize {
		return MinPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

func parseCursor(cursor *string) (*time.Time, error) {
	if cursor == nil || *cursor == "" {
		return nil, nil
	}
	t, err := utils.ParseMillis(*cursor)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	return &t, nil
}

// trimPage drops the probe row fetched past limit.
func trimPage(posts []models.Post, limit int) PaginatedPosts {
	if len(posts) > limit {
		return PaginatedPosts{Posts: posts[:limit], HasMore: true}
	}
	return PaginatedPosts{Posts: posts, HasMore: false}
}

// NextCursor returns the cursor for the page after posts, or "" for an empty page.
func NextCursor(posts []models.Post) string {
	if len(posts) == 0 {
		return ""
	}
	return utils.MillisString(posts[len(posts)-1].CreatedAt)
}
