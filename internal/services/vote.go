package services

import (
	"context"

	"lireddit/internal/models"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type voteAction int

const (
	voteInsert voteAction = iota
	voteFlip
	voteNoop
)

// planVote decides the transition from prior (nil when the user has not
// voted) to value, and how much the post's points move.
func planVote(prior *models.Vote, value int) (voteAction, int) {
	switch {
	case prior == nil:
		return voteInsert, value
	case prior.Value == value:
		return voteNoop, 0
	default:
		return voteFlip, 2 * value
	}
}

// Vote records the session user's up (+1) or down (-1) vote on a post and
// keeps the post's points equal to the sum of its votes.
func (s *PostService) Vote(ctx context.Context, sess Session, postID uint, value int) error {
	uid, err := requireUser(sess)
	if err != nil {
		return err
	}
	if value != 1 && value != -1 {
		return ErrInvalidVote
	}

	err = s.vote(ctx, uid, postID, value)
	if _, dup := uniqueViolation(err); dup {
		// a concurrent first vote by the same user won the insert; the retry sees its row
		s.log.Debug("Retrying vote after conflict", zap.Uint("user_id", uid), zap.Uint("post_id", postID))
		err = s.vote(ctx, uid, postID, value)
	}
	return err
}

func (s *PostService) vote(ctx context.Context, uid, postID uint, value int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return errors.Wrapf(err, "find post %d", postID)
		}

		var prior *models.Vote
		var existing models.Vote
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND post_id = ?", uid, postID).
			Take(&existing).Error
		switch {
		case err == nil:
			prior = &existing
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return errors.Wrap(err, "read prior vote")
		}

		action, delta := planVote(prior, value)
		switch action {
		case voteNoop:
			return nil
		case voteInsert:
			if err := tx.Create(&models.Vote{UserID: uid, PostID: postID, Value: value}).Error; err != nil {
				return err
			}
		case voteFlip:
			if err := tx.Model(&models.Vote{}).
				Where("user_id = ? AND post_id = ?", uid, postID).
				Update("value", value).Error; err != nil {
				return errors.Wrap(err, "flip vote")
			}
		}

		if err := tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("points", gorm.Expr("points + ?", delta)).Error; err != nil {
			return errors.Wrap(err, "update points")
		}
		return nil
	})
}
