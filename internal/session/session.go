// Package session keeps the client's proof of authentication: the bearer
// token, the role tag and a cached snapshot of the signed-in user.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/harentsoaR/carelink/internal/models"
)

// Persisted keys.
const (
	TokenKey = "auth_token"
	RoleKey  = "user_type"
	UserKey  = "user_data"
)

// RootPath is where Clear sends the application.
const RootPath = "/"

var ErrNoUser = errors.New("no user snapshot in session")

// Store is the key-value persistence behind a Session.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Navigator moves the application to another route.
type Navigator interface {
	Navigate(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

type nopNavigator struct{}

func (nopNavigator) Navigate(string) {}

// State is what a session holds once signed in.
type State struct {
	Token string
	Role  models.Role
	User  *models.User
}

// UserID is the id of the cached user, or "" when there is none.
func (s State) UserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}

// Session is safe for concurrent use.
type Session struct {
	mu     sync.RWMutex
	store  Store
	nav    Navigator
	logger *log.Logger
}

// New returns a Session over store. A nil nav disables navigation.
func New(store Store, nav Navigator) *Session {
	if nav == nil {
		nav = nopNavigator{}
	}
	return &Session{store: store, nav: nav, logger: log.Default()}
}

// SetLogger replaces the logger used for store read failures.
func (s *Session) SetLogger(l *log.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = l
}

// Save stores a fresh sign-in. The user's password never reaches the store.
// The token is written last; if any write fails every key is removed, so a
// half-written session never reads as signed in.
func (s *Session) Save(token string, role models.Role, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.store.Set(RoleKey, string(role))
	if err != nil {
		err = fmt.Errorf("save role: %w", err)
	} else if err = s.writeUser(snapshotOf(user)); err == nil {
		if err = s.store.Set(TokenKey, token); err != nil {
			err = fmt.Errorf("save token: %w", err)
		}
	}
	if err != nil {
		return errors.Join(err, s.deleteAll())
	}
	return nil
}

// Read returns the stored state; ok is false when no token is held.
func (s *Session) Read() (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.get(TokenKey)
	if !ok || token == "" {
		return State{}, false
	}
	role, _ := s.get(RoleKey)
	st := State{Token: token, Role: models.Role(role)}
	if u, err := s.readUser(); err == nil {
		st.User = u
	}
	return st, true
}

// Token returns the bearer token, or "" when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, _ := s.get(TokenKey)
	return token
}

// User decodes the cached snapshot.
func (s *Session) User() (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readUser()
}

// ReplaceUser overwrites the snapshot with user.
func (s *Session) ReplaceUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeUser(snapshotOf(user))
}

// MergeUser overlays user's fields onto the snapshot, key by key.
func (s *Session) MergeUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := map[string]json.RawMessage{}
	if raw, ok := s.get(UserKey); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &current); err != nil {
			current = map[string]json.RawMessage{}
		}
	}
	for k, v := range snapshotOf(user) {
		current[k] = v
	}
	return s.writeUser(current)
}

// Clear removes every persisted key and resets the application to RootPath.
func (s *Session) Clear() error {
	return s.ClearTo(RootPath)
}

// ClearTo removes every persisted key and navigates to path.
func (s *Session) ClearTo(path string) error {
	s.mu.Lock()
	err := s.deleteAll()
	nav := s.nav
	s.mu.Unlock()

	nav.Navigate(path)
	return err
}

// deleteAll removes every persisted key. Callers hold s.mu.
func (s *Session) deleteAll() error {
	var errs []error
	for _, key := range []string{TokenKey, RoleKey, UserKey} {
		if err := s.store.Delete(key); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Session) get(key string) (string, bool) {
	v, ok, err := s.store.Get(key)
	if err != nil {
		s.logger.Printf("session: read %s: %v", key, err)
		return "", false
	}
	return v, ok
}

func (s *Session) readUser() (*models.User, error) {
	raw, ok := s.get(UserKey)
	if !ok || raw == "" || raw == "null" {
		return nil, ErrNoUser
	}
	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode user snapshot: %w", err)
	}
	return &u, nil
}

func (s *Session) writeUser(fields map[string]json.RawMessage) error {
	delete(fields, "password")
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode user snapshot: %w", err)
	}
	if err := s.store.Set(UserKey, string(raw)); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func snapshotOf(user *models.User) map[string]json.RawMessage {
	fields := map[string]json.RawMessage{}
	if user == nil {
		return fields
	}
	raw, err := json.Marshal(user.Public())
	if err != nil {
		return fields
	}
	_ = json.Unmarshal(raw, &fields)
	return fields
}
