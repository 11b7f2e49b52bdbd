// Package session holds the signed-in user and bearer token. It is created
// once, hydrated from persistent storage and handed to the API client as its
// token source.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/no-solace/ev-maintenance-system/internal/auth"
	"github.com/no-solace/ev-maintenance-system/internal/db"
	"github.com/no-solace/ev-maintenance-system/internal/models"
)

// State is where the store is in its lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "uninitialized"
	}
}

// ErrNotAuthenticated is returned by actions that need a signed-in user.
var ErrNotAuthenticated = errors.New("not signed in")

// persisted is what goes to storage.
type persisted struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Store is the session. It is safe for concurrent use.
type Store struct {
	kv  db.KeyValue
	now func() time.Time

	mu    sync.RWMutex
	state State
	token string
	user  *models.User
}

// NewStore creates an uninitialized store persisting to kv.
func NewStore(kv db.KeyValue) *Store {
	return &Store{kv: kv, now: time.Now}
}

// Hydrate restores a persisted session. An unreadable or expired session is
// cleared and the store ends anonymous.
func (s *Store) Hydrate(ctx context.Context) (State, error) {
	var p persisted
	found, err := s.kv.Get(ctx, db.KeySession, &p)
	if err != nil {
		log.WithError(err).Warn("Discarding unreadable session")
		if derr := s.kv.Delete(ctx, db.KeySession); derr != nil {
			return s.setAnonymous(), fmt.Errorf("failed to clear session: %w", derr)
		}
		found = false
	}

	if found {
		if _, err := auth.CheckExpiry(p.Token, s.now()); err != nil {
			log.WithError(err).Info("Stored session is no longer valid")
			if derr := s.kv.Delete(ctx, db.KeySession); derr != nil {
				return s.setAnonymous(), fmt.Errorf("failed to clear session: %w", derr)
			}
			found = false
		}
	}

	if !found {
		return s.setAnonymous(), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	user := p.User
	s.token, s.user, s.state = p.Token, &user, StateAuthenticated
	return s.state, nil
}

func (s *Store) setAnonymous() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.user, s.state = "", nil, StateAnonymous
	return s.state
}

// SignIn stores the login response and persists it.
func (s *Store) SignIn(ctx context.Context, resp models.LoginResponse) error {
	if _, err := auth.CheckExpiry(resp.Token, s.now()); err != nil {
		return fmt.Errorf("rejecting login token: %w", err)
	}
	if err := s.kv.Set(ctx, db.KeySession, persisted{Token: resp.Token, User: resp.User}); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	user := resp.User
	s.token, s.user, s.state = resp.Token, &user, StateAuthenticated

	log.WithFields(log.Fields{"user_id": user.ID, "role": user.Role}).Info("Signed in")
	return nil
}

// SignOut clears memory and storage.
func (s *Store) SignOut(ctx context.Context) error {
	s.setAnonymous()
	if err := s.kv.Delete(ctx, db.KeySession); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Token implements apiclient.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the signed-in user.
func (s *Store) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// State returns the lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Require returns the user if signed in with permission for action.
func (s *Store) Require(action string) (models.User, error) {
	user, ok := s.User()
	if !ok {
		return models.User{}, ErrNotAuthenticated
	}
	if !user.HasPermission(action) {
		return user, fmt.Errorf("role %s may not %s", user.Role, action)
	}
	return user, nil
}
