package services

import (
	"context"
	"testing"

	"github.com/shashiranjanraj/liftstore/app/models"
	"github.com/shashiranjanraj/liftstore/app/repositories"
	"github.com/shashiranjanraj/liftstore/pkg/apperr"
	"github.com/shashiranjanraj/liftstore/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginAndMe(t *testing.T) {
	svc := NewUserService(repositories.NewUserRepository(newServiceDB(t)))
	ctx := context.Background()
	admin, err := svc.Create(ctx, UserInput{Name: "Ada", Email: "Ada@Example.com", Password: "correct-horse", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", admin.Email)
	assert.NotEqual(t, "correct-horse", admin.Password)

	res, err := svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	claims, err := auth.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	me, err := svc.Me(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", me.Name)

	_, err = svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "wrong"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "wrong"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestLastAdminIsProtected(t *testing.T) {
	svc := NewUserService(repositories.NewUserRepository(newServiceDB(t)))
	ctx := context.Background()
	admin, err := svc.Create(ctx, UserInput{Name: "Ada", Email: "ada@example.com", Password: "password1", Role: models.RoleAdmin})
	require.NoError(t, err)
	editor, err := svc.Create(ctx, UserInput{Name: "Ed", Email: "ed@example.com", Password: "password1", Role: models.RoleEditor})
	require.NoError(t, err)

	assert.True(t, apperr.Is(svc.Delete(ctx, admin.ID, admin.ID), apperr.KindConflict))
	assert.True(t, apperr.Is(svc.Delete(ctx, admin.ID, editor.ID), apperr.KindConflict))
	_, err = svc.Update(ctx, admin.ID, UserInput{Name: "Ada", Email: "ada@example.com", Role: models.RoleEditor})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	require.NoError(t, svc.Delete(ctx, editor.ID, admin.ID))
}

func TestCreateUserRequiresPassword(t *testing.T) {
	svc := NewUserService(repositories.NewUserRepository(newServiceDB(t)))
	_, err := svc.Create(context.Background(), UserInput{Name: "A", Email: "a@b.co", Role: models.RoleEditor})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
