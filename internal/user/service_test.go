package user

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	users  map[string]*User // keyed by ID
	nextID int
}

func newStubRepo() *stubRepo {
	return &stubRepo{users: make(map[string]*User)}
}

func (s *stubRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *stubRepo) Create(_ context.Context, u *User) error {
	s.nextID++
	u.ID = fmt.Sprintf("user-%d", s.nextID)
	u.CreatedAt = time.Now()
	s.users[u.ID] = u
	return nil
}

func (s *stubRepo) UpdateLastLogin(_ context.Context, id string, t time.Time) error {
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.LastLoginAt = &t
	return nil
}

func (s *stubRepo) List(_ context.Context, filter Filter) ([]*User, int, error) {
	out := make([]*User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (s *stubRepo) Update(_ context.Context, u *User) error {
	if _, ok := s.users[u.ID]; !ok {
		return ErrNotFound
	}
	s.users[u.ID] = u
	return nil
}

func (s *stubRepo) Delete(_ context.Context, id string) error {
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.IsActive = false
	return nil
}

// plainHasher avoids bcrypt cost in unit tests.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (plainHasher) Compare(hash, plain string) error {
	if hash != "hashed:"+plain {
		return fmt.Errorf("password mismatch")
	}
	return nil
}

func newTestService() (Service, *stubRepo) {
	repo := newStubRepo()
	return NewService(repo, plainHasher{}), repo
}

func TestRegister(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "  Alice@Example.COM ", "password123", " Alice ")
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", u.Email)
	require.NotNil(t, u.DisplayName)
	assert.Equal(t, "Alice", *u.DisplayName)
	assert.Equal(t, RoleUser, u.Role)
	assert.True(t, u.IsActive)
	assert.Equal(t, "hashed:password123", u.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "   ", "password123", "x")
	assert.ErrorIs(t, err, ErrEmailRequired)

	_, err = svc.Register(ctx, "a@b.com", "short", "x")
	assert.Error(t, err)

	_, err = svc.Register(ctx, "a@b.com", "password123", "x")
	require.NoError(t, err)

	// Same email with different casing is still a duplicate.
	_, err = svc.Register(ctx, "A@B.com", "password123", "x")
	assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
}

func TestLogin(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "bob@example.com", "password123", "Bob")
	require.NoError(t, err)

	u, err := svc.Login(ctx, "bob@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)
	assert.NotNil(t, repo.users[u.ID].LastLoginAt)

	_, err = svc.Login(ctx, "bob@example.com", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "bob@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "carol@example.com", "password123", "Carol")
	require.NoError(t, err)

	repo.users[u.ID].IsActive = false

	_, err = svc.Login(ctx, "carol@example.com", "password123")
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "dave@example.com", "password123", "Dave")
	require.NoError(t, err)

	role := "admin"
	phone := "555-0100"
	updated, err := svc.Update(ctx, u.ID, UpdateRequest{Role: &role, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, updated.Role)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "555-0100", *updated.Phone)

	bogus := "superuser"
	_, err = svc.Update(ctx, u.ID, UpdateRequest{Role: &bogus})
	assert.ErrorIs(t, err, ErrInvalidRole)

	// A blank display name clears the field.
	blank := "   "
	updated, err = svc.Update(ctx, u.ID, UpdateRequest{DisplayName: &blank})
	require.NoError(t, err)
	assert.Nil(t, updated.DisplayName)

	_, err = svc.Update(ctx, "missing-id", UpdateRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeactivate(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "erin@example.com", "password123", "Erin")
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, u.ID))
	assert.False(t, repo.users[u.ID].IsActive)

	assert.ErrorIs(t, svc.Deactivate(ctx, "missing-id"), ErrNotFound)
}
