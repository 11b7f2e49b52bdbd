package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/no-solace/ev-maintenance-system/internal/db"
	"github.com/no-solace/ev-maintenance-system/internal/models"
)

func tokenExpiringAt(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "an@example.vn",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestStore_HydrateEmpty(t *testing.T) {
	s := NewStore(db.NewMemoryStore())
	assert.Equal(t, StateUninitialized, s.State())

	state, err := s.Hydrate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateAnonymous, state)
	assert.Empty(t, s.Token())
}

func TestStore_SignInPersistsAndHydrates(t *testing.T) {
	ctx := context.Background()
	kv := db.NewMemoryStore()
	token := tokenExpiringAt(t, time.Now().Add(time.Hour))
	user := models.User{ID: 5, FullName: "An", Role: models.RoleCustomer}

	first := NewStore(kv)
	require.NoError(t, first.SignIn(ctx, models.LoginResponse{Token: token, User: user}))
	assert.Equal(t, StateAuthenticated, first.State())
	assert.Equal(t, token, first.Token())

	second := NewStore(kv)
	state, err := second.Hydrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, state)
	got, ok := second.User()
	assert.True(t, ok)
	assert.Equal(t, user, got)
}

func TestStore_HydrateExpiredClearsStorage(t *testing.T) {
	ctx := context.Background()
	kv := db.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, db.KeySession, persisted{
		Token: tokenExpiringAt(t, time.Now().Add(-time.Minute)),
		User:  models.User{ID: 1},
	}))

	s := NewStore(kv)
	state, err := s.Hydrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateAnonymous, state)

	found, err := kv.Get(ctx, db.KeySession, &persisted{})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_HydrateCorruptClearsStorage(t *testing.T) {
	ctx := context.Background()
	kv := db.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, db.KeySession, "garbage"))

	state, err := NewStore(kv).Hydrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateAnonymous, state)

	found, err := kv.Get(ctx, db.KeySession, &persisted{})
	require.NoError(t, err)
	assert.False(t, found)
}

type MockKeyValue struct {
	mock.Mock
}

func (m *MockKeyValue) Get(ctx context.Context, key string, out interface{}) (bool, error) {
	args := m.Called(ctx, key, out)
	return args.Bool(0), args.Error(1)
}

func (m *MockKeyValue) Set(ctx context.Context, key string, value interface{}) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *MockKeyValue) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func TestStore_HydrateCorruptReportsClearFailure(t *testing.T) {
	kv := new(MockKeyValue)
	kv.On("Get", mock.Anything, db.KeySession, mock.Anything).Return(true, errors.New("failed to decode auth.session")).Once()
	kv.On("Delete", mock.Anything, db.KeySession).Return(assert.AnError).Once()

	s := NewStore(kv)
	state, err := s.Hydrate(context.Background())
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to clear session")
	assert.Equal(t, StateAnonymous, state)
	assert.Equal(t, StateAnonymous, s.State())
	kv.AssertExpectations(t)
}

func TestStore_SignInRejectsExpiredToken(t *testing.T) {
	s := NewStore(db.NewMemoryStore())
	err := s.SignIn(context.Background(), models.LoginResponse{Token: tokenExpiringAt(t, time.Now().Add(-time.Hour))})
	assert.Error(t, err)
	assert.Equal(t, StateUninitialized, s.State())
}

func TestStore_SignOut(t *testing.T) {
	ctx := context.Background()
	kv := db.NewMemoryStore()
	s := NewStore(kv)
	require.NoError(t, s.SignIn(ctx, models.LoginResponse{
		Token: tokenExpiringAt(t, time.Now().Add(time.Hour)),
		User:  models.User{ID: 1, Role: models.RoleStaff},
	}))

	require.NoError(t, s.SignOut(ctx))
	assert.Equal(t, StateAnonymous, s.State())
	assert.Empty(t, s.Token())
	_, ok := s.User()
	assert.False(t, ok)

	found, _ := kv.Get(ctx, db.KeySession, &persisted{})
	assert.False(t, found)
}

func TestStore_Require(t *testing.T) {
	ctx := context.Background()
	s := NewStore(db.NewMemoryStore())

	_, err := s.Require("view_receptions")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	require.NoError(t, s.SignIn(ctx, models.LoginResponse{
		Token: tokenExpiringAt(t, time.Now().Add(time.Hour)),
		User:  models.User{ID: 1, Role: models.RoleCustomer},
	}))
	_, err = s.Require("create_booking")
	assert.NoError(t, err)
	_, err = s.Require("manage_receptions")
	assert.Error(t, err)
}
