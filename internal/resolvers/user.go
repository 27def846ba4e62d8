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

type UserResolver struct {
	u *models.User
}

func userResolver(u *models.User) *UserResolver {
	if u == nil {
		return nil
	}
	return &UserResolver{u: u}
}

func (r *UserResolver) ID() int32 { return int32(r.u.ID) }

func (r *UserResolver) Username() string { return r.u.Username }

// Email is visible only to the user it belongs to.
func (r *UserResolver) Email(ctx context.Context) string {
	if id, ok := middleware.SessionFrom(ctx).UserID(); ok && id == r.u.ID {
		return r.u.Email
	}
	return ""
}

func (r *UserResolver) CreatedAt() string { return utils.MillisString(r.u.CreatedAt) }

func (r *UserResolver) UpdatedAt() string { return utils.MillisString(r.u.UpdatedAt) }

type FieldErrorResolver struct {
	e services.FieldError
}

func (r *FieldErrorResolver) Field() string { return r.e.Field }

func (r *FieldErrorResolver) Message() string { return r.e.Message }

type UserResponseResolver struct {
	res *services.UserResult
}

func (r *UserResponseResolver) Errors() *[]*FieldErrorResolver {
	if len(r.res.Errors) == 0 {
		return nil
	}
	out := make([]*FieldErrorResolver, len(r.res.Errors))
	for i, e := range r.res.Errors {
		out[i] = &FieldErrorResolver{e: e}
	}
	return &out
}

func (r *UserResponseResolver) User() *UserResolver {
	return userResolver(r.res.User)
}

func (r *Resolver) Me(ctx context.Context) (*UserResolver, error) {
	u, err := r.auth.Me(ctx, middleware.SessionFrom(ctx))
	if err != nil {
		return nil, r.internal("me", err)
	}
	return userResolver(u), nil
}

type registerArgs struct {
	Username string
	Email    string
	Password string
}

func (r *Resolver) Register(ctx context.Context, args registerArgs) (*UserResponseResolver, error) {
	res, err := r.auth.Register(ctx, middleware.SessionFrom(ctx), services.RegisterInput{
		Username: args.Username,
		Email:    args.Email,
		Password: args.Password,
	})
	if err != nil {
		return nil, r.internal("register", err)
	}
	return &UserResponseResolver{res: res}, nil
}

func (r *Resolver) Login(ctx context.Context, args struct {
	UsernameOrEmail string
	Password        string
}) (*UserResponseResolver, error) {
	res, err := r.auth.Login(ctx, middleware.SessionFrom(ctx), args.UsernameOrEmail, args.Password)
	if err != nil {
		return nil, r.internal("login", err)
	}
	return &UserResponseResolver{res: res}, nil
}

func (r *Resolver) Logout(ctx context.Context) bool {
	return r.auth.Logout(middleware.SessionFrom(ctx))
}

func (r *Resolver) ForgotPassword(ctx context.Context, args struct{ Email string }) (bool, error) {
	ok, err := r.auth.ForgotPassword(ctx, args.Email)
	if err != nil {
		return false, r.internal("forgotPassword", err)
	}
	return ok, nil
}

func (r *Resolver) ChangePassword(ctx context.Context, args struct {
	Token       string
	NewPassword string
}) (*UserResponseResolver, error) {
	res, err := r.auth.ChangePassword(ctx, middleware.SessionFrom(ctx), args.Token, args.NewPassword)
	if err != nil {
		return nil, r.internal("changePassword", err)
	}
	return &UserResponseResolver{res: res}, nil
}

// internal logs an infrastructure failure and hides its details from the client.
func (r *Resolver) internal(op string, err error) error {
	if errors.Is(err, services.ErrNotAuthenticated) {
		return err
	}
	r.log.Error("Operation failed", zap.String("operation", op), zap.Error(err))
	return errors.New("internal server error")
}
