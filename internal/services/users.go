package services

import (
	"context"
	"strings"

	"lireddit/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// FindByID returns ErrUserNotFound when no row matches.
func (s *UserService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrapf(err, "find user %d", id)
	}
	return &user, nil
}

// FindByIDs loads every user in ids with one query. Missing ids are simply absent from the result.
func (s *UserService) FindByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "find users")
	}
	return users, nil
}

// FindByLogin looks the identifier up as an email when it contains "@", otherwise as a username.
func (s *UserService) FindByLogin(ctx context.Context, usernameOrEmail string) (*models.User, error) {
	column := "username"
	if strings.Contains(usernameOrEmail, "@") {
		column = "email"
	}

	var user models.User
	err := s.db.WithContext(ctx).Where(column+" = ?", usernameOrEmail).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "find user by login")
	}
	return &user, nil
}
