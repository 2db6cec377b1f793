package services

import (
	"context"
	"strings"
	"time"

	"github.com/shashiranjanraj/liftstore/app/models"
	"github.com/shashiranjanraj/liftstore/app/repositories"
	"github.com/shashiranjanraj/liftstore/pkg/apperr"
	"github.com/shashiranjanraj/liftstore/pkg/auth"
	"github.com/shashiranjanraj/liftstore/pkg/logger"
	"github.com/shashiranjanraj/liftstore/pkg/orm"
)

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type UserInput struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email,max=191"`
	Password string `json:"password" validate:"nullable,min=8,max=72"`
	Role     string `json:"role" validate:"required,in=admin,editor"`
}

// dummyHash keeps login timing the same for unknown emails.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z6YnRj0Ssh4uQ2vF8cXeZc0y"

var errBadCredentials = apperr.Unauthorized("invalid credentials")

type UserService struct {
	users *repositories.UserRepository
}

func NewUserService(users *repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, normaliseEmail(in.Email))
	if apperr.Is(err, apperr.KindNotFound) {
		auth.CheckPassword(dummyHash, in.Password)
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(user.Password, in.Password) {
		logger.WithCtx(ctx).Warn("auth: failed login", "user_id", user.ID)
		return nil, errBadCredentials
	}

	token, exp, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

// Me returns the account behind the token. A deleted account is treated as
// an invalid token.
func (s *UserService) Me(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.Unauthorized("account no longer exists")
	}
	return u, err
}

func (s *UserService) List(ctx context.Context, page, limit int) ([]models.User, orm.Pagination, error) {
	return s.users.List(ctx, page, limit)
}

func (s *UserService) Find(ctx context.Context, id uint) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	if in.Password == "" {
		return nil, apperr.Invalid("password", "The password field is required.")
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{Name: in.Name, Email: normaliseEmail(in.Email), Password: hash, Role: in.Role}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Update changes profile fields; the password only when one is given.
func (s *UserService) Update(ctx context.Context, id uint, in UserInput) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role == models.RoleAdmin && in.Role != models.RoleAdmin {
		if err := s.keepOneAdmin(ctx); err != nil {
			return nil, err
		}
	}
	u.Name = in.Name
	u.Email = normaliseEmail(in.Email)
	u.Role = in.Role
	if in.Password != "" {
		if u.Password, err = auth.HashPassword(in.Password); err != nil {
			return nil, err
		}
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete refuses to remove the caller's own account or the last admin.
func (s *UserService) Delete(ctx context.Context, id, actorID uint) error {
	if id == actorID {
		return apperr.New(apperr.KindConflict, "you cannot delete your own account")
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == models.RoleAdmin {
		if err := s.keepOneAdmin(ctx); err != nil {
			return err
		}
	}
	return s.users.Delete(ctx, id)
}

func (s *UserService) keepOneAdmin(ctx context.Context) error {
	n, err := s.users.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if n <= 1 {
		return apperr.New(apperr.KindConflict, "at least one admin account must remain")
	}
	return nil
}

func normaliseEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
