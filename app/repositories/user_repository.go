// Package repositories holds the gorm-backed data access for each model.
// Every method takes a context and returns apperr-classified errors, so a
// missing row is always apperr.KindNotFound and a duplicate is
// apperr.KindConflict.
package repositories

import (
	"context"

	"github.com/shashiranjanraj/liftstore/app/models"
	"github.com/shashiranjanraj/liftstore/pkg/apperr"
	"github.com/shashiranjanraj/liftstore/pkg/orm"
	"gorm.io/gorm"
)

// UserRepository handles database operations for back-office users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) q(ctx context.Context) *orm.Query {
	return orm.Use(r.db).WithContext(ctx)
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.q(ctx).Where("email = ?", email).First(&user)
	if err != nil {
		return nil, apperr.FromStore("user", err)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.q(ctx).Where("id = ?", id).First(&user); err != nil {
		return nil, apperr.FromStore("user", err)
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return apperr.FromStore("user", r.q(ctx).Create(user))
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	return apperr.FromStore("user", r.q(ctx).Save(user))
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	n, err := r.q(ctx).Delete(&models.User{}, id)
	if err != nil {
		return apperr.FromStore("user", err)
	}
	if n == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

// CountAdmins is used to refuse removing the last admin.
func (r *UserRepository) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := r.q(ctx).Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&n)
	return n, apperr.FromStore("user", err)
}

func (r *UserRepository) List(ctx context.Context, page, limit int) ([]models.User, orm.Pagination, error) {
	var users []models.User
	p, err := r.q(ctx).Model(&models.User{}).Order("id asc").Paginate(page, limit, &users)
	return users, p, apperr.FromStore("user", err)
}
