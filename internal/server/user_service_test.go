package server

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/types"
)

// memoryAuthStore is an in-memory AuthStore for tests.
type memoryAuthStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*db.User
}

func newMemoryAuthStore() *memoryAuthStore {
	return &memoryAuthStore{users: make(map[uuid.UUID]*db.User)}
}

func (s *memoryAuthStore) CheckEmailExists(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryAuthStore) CreateUser(_ context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.users[id] = &db.User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	return id, nil
}

func (s *memoryAuthStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id], nil
}

func (s *memoryAuthStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func testPasswordConfig() *config.PasswordConfig {
	return &config.PasswordConfig{BcryptCost: 10}
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	svc := NewUserService(newMemoryAuthStore(), testPasswordConfig())
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", user.Name)
	assert.NotEqual(t, uuid.Nil, user.ID)

	logged, err := svc.Login(ctx, &types.LoginRequest{
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
}

func TestUserService_DuplicateEmail(t *testing.T) {
	svc := NewUserService(newMemoryAuthStore(), testPasswordConfig())
	ctx := context.Background()

	_, err := svc.Register(ctx, &types.CreateUserRequest{
		Name: "Ada", Email: "ada@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &types.CreateUserRequest{
		Name: "Another Ada", Email: "ada@example.com", Password: "different horse",
	})
	require.Error(t, err)
	assert.IsType(t, &ErrEmailAlreadyExists{}, err)
}

func TestUserService_LoginWrongPassword(t *testing.T) {
	svc := NewUserService(newMemoryAuthStore(), testPasswordConfig())
	ctx := context.Background()

	_, err := svc.Register(ctx, &types.CreateUserRequest{
		Name: "Ada", Email: "ada@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &types.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.IsType(t, &ErrInvalidCredentials{}, err)
}

func TestUserService_LoginUnknownEmail(t *testing.T) {
	svc := NewUserService(newMemoryAuthStore(), testPasswordConfig())

	_, err := svc.Login(context.Background(), &types.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.IsType(t, &ErrInvalidCredentials{}, err)
}
