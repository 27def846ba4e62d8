package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"lireddit/internal/models"
	"lireddit/internal/utils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	ForgetPasswordPrefix = "forget-password:"
	resetTokenTTL        = 3 * 24 * time.Hour
)

// TokenStore holds single-use password reset tokens.
type TokenStore interface {
	Set(key string, val []byte, ttl time.Duration) error
	Take(key string) ([]byte, bool, error)
}

// Mailer delivers password reset links.
type Mailer interface {
	SendPasswordResetEmail(email, link string)
}

// UserResult is either a user or the field errors that prevented the operation.
type UserResult struct {
	Errors []FieldError
	User   *models.User
}

func failed(field, message string) *UserResult {
	return &UserResult{Errors: fieldError(field, message)}
}

type AuthService struct {
	db          *gorm.DB
	users       *UserService
	tokens      TokenStore
	mailer      Mailer
	frontendURL string
	log         *zap.Logger
}

func NewAuthService(db *gorm.DB, users *UserService, tokens TokenStore, mailer Mailer, frontendURL string, log *zap.Logger) *AuthService {
	return &AuthService{
		db:          db,
		users:       users,
		tokens:      tokens,
		mailer:      mailer,
		frontendURL: frontendURL,
		log:         log,
	}
}

// Register creates a user and logs them in.
func (s *AuthService) Register(ctx context.Context, sess Session, in RegisterInput) (*UserResult, error) {
	if errs := ValidateRegister(in); errs != nil {
		return &UserResult{Errors: errs}, nil
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user := models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hashed,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			field := conflictField(constraint)
			return failed(field, fmt.Sprintf("the %s already exists", field)), nil
		}
		return nil, errors.Wrap(err, "create user")
	}

	if err := sess.SetUserID(user.ID); err != nil {
		return nil, errors.Wrap(err, "bind session")
	}
	s.log.Info("User registered", zap.Uint("user_id", user.ID))
	return &UserResult{User: &user}, nil
}

func (s *AuthService) Login(ctx context.Context, sess Session, usernameOrEmail, password string) (*UserResult, error) {
	user, err := s.users.FindByLogin(ctx, usernameOrEmail)
	if errors.Is(err, ErrUserNotFound) {
		return failed("usernameOrEmail", "that user does not exist"), nil
	}
	if err != nil {
		return nil, err
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return failed("password", "invalid credentials"), nil
	}

	if err := sess.SetUserID(user.ID); err != nil {
		return nil, errors.Wrap(err, "bind session")
	}
	return &UserResult{User: user}, nil
}

// Logout reports false only when the server-side session could not be removed.
func (s *AuthService) Logout(sess Session) bool {
	if err := sess.Destroy(); err != nil {
		s.log.Error("Failed to destroy session", zap.Error(err))
		return false
	}
	return true
}

// Me returns the session's user, or nil when logged out or the user is gone.
func (s *AuthService) Me(ctx context.Context, sess Session) (*models.User, error) {
	id, ok := viewerID(sess)
	if !ok {
		return nil, nil
	}
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil
	}
	return user, err
}

// ForgotPassword mails a reset link when email is registered. It reports true either way.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (bool, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "find user by email")
	}

	token := uuid.NewString()
	val := []byte(strconv.FormatUint(uint64(user.ID), 10))
	if err := s.tokens.Set(ForgetPasswordPrefix+token, val, resetTokenTTL); err != nil {
		return false, err
	}

	link := fmt.Sprintf("%s/change-password/%s", s.frontendURL, token)
	s.mailer.SendPasswordResetEmail(user.Email, link)
	return true, nil
}

// ChangePassword consumes a reset token, sets the new password and logs the user in.
func (s *AuthService) ChangePassword(ctx context.Context, sess Session, token, newPassword string) (*UserResult, error) {
	if errs := ValidateNewPassword(newPassword); errs != nil {
		return &UserResult{Errors: errs}, nil
	}

	val, ok, err := s.tokens.Take(ForgetPasswordPrefix + token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return failed("token", "token expired"), nil
	}

	id, err := strconv.ParseUint(string(val), 10, 64)
	if err != nil {
		return failed("token", "token expired"), nil
	}

	user, err := s.users.FindByID(ctx, uint(id))
	if errors.Is(err, ErrUserNotFound) {
		return failed("token", "user no longer exists"), nil
	}
	if err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password", hashed).Error; err != nil {
		return nil, errors.Wrap(err, "update password")
	}

	if err := sess.SetUserID(user.ID); err != nil {
		return nil, errors.Wrap(err, "bind session")
	}
	return &UserResult{User: user}, nil
}
