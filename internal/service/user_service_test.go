package service

import (
	"context"
	"testing"

	"scolaris/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture(t *testing.T) (*fakeUserRepo, UserService) {
	t.Helper()
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Username: "abursar",
		Email:    "bursar@lsm.example",
		Password: "secret123",
		Role:     model.RoleBursar,
		SchoolID: uuid.New().String(),
	})
	require.NoError(t, err)
	return repo, svc
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	repo, svc := newUserFixture(t)

	tokens, err := svc.Login(ctx, LoginUserRequest{Email: "bursar@lsm.example", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.Token)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Len(t, repo.refreshTokens, 1)

	_, err = svc.Login(ctx, LoginUserRequest{Email: "bursar@lsm.example", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, "invalid email or password", err.Error())

	_, err = svc.Login(ctx, LoginUserRequest{Email: "nobody@lsm.example", Password: "secret123"})
	require.Error(t, err)
}

func TestRefreshTokenRotates(t *testing.T) {
	ctx := context.Background()
	repo, svc := newUserFixture(t)

	tokens, err := svc.Login(ctx, LoginUserRequest{Email: "bursar@lsm.example", Password: "secret123"})
	require.NoError(t, err)

	rotated, err := svc.RefreshToken(ctx, RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.Token)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	// The presented token was consumed; replaying it fails.
	_, err = svc.RefreshToken(ctx, RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.Error(t, err)
	assert.Len(t, repo.refreshTokens, 1)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	ctx := context.Background()
	repo, svc := newUserFixture(t)

	tokens, err := svc.Login(ctx, LoginUserRequest{Email: "bursar@lsm.example", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, tokens.RefreshToken))
	assert.Empty(t, repo.refreshTokens)

	_, err = svc.RefreshToken(ctx, RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.Error(t, err)
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	_, svc := newUserFixture(t)

	_, err := svc.CreateUser(ctx, CreateUserRequest{
		Username: "abursar",
		Email:    "other@lsm.example",
		Password: "secret123",
		Role:     model.RoleStaff,
		SchoolID: uuid.New().String(),
	})
	require.Error(t, err)
	assert.Equal(t, "username already exists", err.Error())

	_, err = svc.CreateUser(ctx, CreateUserRequest{
		Username: "someone",
		Email:    "bursar@lsm.example",
		Password: "secret123",
		Role:     model.RoleStaff,
		SchoolID: uuid.New().String(),
	})
	require.Error(t, err)
	assert.Equal(t, "email already exists", err.Error())
}
