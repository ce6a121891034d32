package service

import (
	"context"
	"testing"
	"time"

	"coach-portal-api/core/config"
	"coach-portal-api/core/errors"
	"coach-portal-api/core/utils"
	"coach-portal-api/modules/auth/dto"
	"coach-portal-api/modules/auth/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthRepo struct {
	usersByEmail map[string]*entity.User
	usersByID    map[uuid.UUID]*entity.User
	created      []*entity.User
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		usersByEmail: map[string]*entity.User{},
		usersByID:    map[uuid.UUID]*entity.User{},
	}
}

func (f *fakeAuthRepo) addUser(user *entity.User) {
	f.usersByEmail[user.Email] = user
	f.usersByID[user.ID] = user
}

func (f *fakeAuthRepo) CreateUser(ctx context.Context, user *entity.User) error {
	user.ID = uuid.New()
	f.created = append(f.created, user)
	f.addUser(user)
	return nil
}

func (f *fakeAuthRepo) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	return f.usersByEmail[email], nil
}

func (f *fakeAuthRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return f.usersByID[id], nil
}

type fakeCache struct {
	blacklist map[string]bool
	attempts  map[string]int
	blocked   map[string]bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		blacklist: map[string]bool{},
		attempts:  map[string]int{},
		blocked:   map[string]bool{},
	}
}

func (f *fakeCache) AddToTokenBlacklist(ctx context.Context, token string) error {
	f.blacklist[token] = true
	return nil
}

func (f *fakeCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	return f.blacklist[token], nil
}

func (f *fakeCache) IncrementLoginAttempt(ctx context.Context, key string) error {
	f.attempts[key]++
	return nil
}

func (f *fakeCache) IsLoginBlocked(ctx context.Context, key string) (bool, error) {
	return f.blocked[key], nil
}

func (f *fakeCache) Expire(ctx context.Context, key string, ttl time.Duration) error { return nil }

func (f *fakeCache) Del(ctx context.Context, key string) error {
	delete(f.attempts, key)
	return nil
}

func setupAuthTest(t *testing.T) (*fakeAuthRepo, *fakeCache, AuthService) {
	t.Helper()
	config.Set(&config.Config{
		JWT: config.JWTConfig{
			Secret:          "test-secret",
			AccessTokenTTL:  60,
			RefreshTokenTTL: 60 * 24,
		},
	})
	repo := newFakeAuthRepo()
	cache := newFakeCache()
	return repo, cache, NewAuthService(repo, cache)
}

func existingUser(t *testing.T, repo *fakeAuthRepo, email, password, role string) *entity.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	user := &entity.User{Email: email, PasswordHash: hash, FullName: "Test User", Role: role, IsActive: true}
	user.ID = uuid.New()
	repo.addUser(user)
	return user
}

func TestRegisterCreatesClientUser(t *testing.T) {
	repo, _, svc := setupAuthTest(t)

	resp, appErr := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "new@example.com",
		Password: "password123",
		FullName: "New Client",
	})
	require.Nil(t, appErr)
	require.Len(t, repo.created, 1)
	assert.Equal(t, entity.RoleClient, repo.created[0].Role)
	assert.NotEqual(t, "password123", repo.created[0].PasswordHash)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "new@example.com", resp.User.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo, _, svc := setupAuthTest(t)
	existingUser(t, repo, "taken@example.com", "password123", entity.RoleClient)

	_, appErr := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "taken@example.com",
		Password: "password123",
		FullName: "Someone Else",
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrAlreadyExists, appErr.Code)
}

func TestLoginSuccessResetsAttempts(t *testing.T) {
	repo, cache, svc := setupAuthTest(t)
	existingUser(t, repo, "coach@example.com", "password123", entity.RoleAdmin)
	cache.attempts["coach@example.com"] = 2

	resp, appErr := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "coach@example.com",
		Password: "password123",
	})
	require.Nil(t, appErr)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Zero(t, cache.attempts["coach@example.com"])
}

func TestLoginWrongPasswordCountsAttempt(t *testing.T) {
	repo, cache, svc := setupAuthTest(t)
	existingUser(t, repo, "coach@example.com", "password123", entity.RoleAdmin)

	_, appErr := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "coach@example.com",
		Password: "wrong",
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
	assert.Equal(t, 1, cache.attempts["coach@example.com"])
}

func TestLoginBlockedAfterTooManyAttempts(t *testing.T) {
	repo, cache, svc := setupAuthTest(t)
	existingUser(t, repo, "coach@example.com", "password123", entity.RoleAdmin)
	cache.blocked["coach@example.com"] = true

	_, appErr := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "coach@example.com",
		Password: "password123",
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrTooManyRequests, appErr.Code)
}

func TestLoginDisabledAccount(t *testing.T) {
	repo, _, svc := setupAuthTest(t)
	user := existingUser(t, repo, "former@example.com", "password123", entity.RoleClient)
	user.IsActive = false

	_, appErr := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "former@example.com",
		Password: "password123",
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
}

func TestRefreshTokenRotates(t *testing.T) {
	repo, cache, svc := setupAuthTest(t)
	user := existingUser(t, repo, "coach@example.com", "password123", entity.RoleAdmin)

	first, appErr := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    user.Email,
		Password: "password123",
	})
	require.Nil(t, appErr)

	second, appErr := svc.RefreshToken(context.Background(), first.RefreshToken)
	require.Nil(t, appErr)
	assert.NotEmpty(t, second.AccessToken)

	// The used refresh token is burned.
	assert.True(t, cache.blacklist[first.RefreshToken])
	_, appErr = svc.RefreshToken(context.Background(), first.RefreshToken)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	repo, _, svc := setupAuthTest(t)
	user := existingUser(t, repo, "coach@example.com", "password123", entity.RoleAdmin)

	resp, appErr := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    user.Email,
		Password: "password123",
	})
	require.Nil(t, appErr)

	_, appErr = svc.RefreshToken(context.Background(), resp.AccessToken)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
}

func TestLogoutBlacklistsToken(t *testing.T) {
	repo, cache, svc := setupAuthTest(t)
	user := existingUser(t, repo, "coach@example.com", "password123", entity.RoleAdmin)

	resp, appErr := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    user.Email,
		Password: "password123",
	})
	require.Nil(t, appErr)

	require.Nil(t, svc.Logout(context.Background(), resp.AccessToken))
	assert.True(t, cache.blacklist[resp.AccessToken])
}

func TestMeUnknownUser(t *testing.T) {
	_, _, svc := setupAuthTest(t)

	_, appErr := svc.Me(context.Background(), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}
