package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/desabantuin/internal/client/models"
	"github.com/dmitrijs2005/desabantuin/internal/client/storage"
	"github.com/dmitrijs2005/desabantuin/internal/logging"
)

// Store owns the session of one device.
//
// Initialize, Login and Logout are serialized by mu. Current reads an
// immutable snapshot and never waits for them.
type Store struct {
	backend storage.Backend
	log     logging.Logger

	mu          sync.Mutex
	initialized bool

	state   atomic.Pointer[Session]
	loadErr atomic.Pointer[loadResult]
}

type loadResult struct {
	err error
}

// NewStore returns a store in the loading state. A nil logger discards logs.
func NewStore(backend storage.Backend, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	s := &Store{backend: backend, log: log.With("component", "session")}
	s.state.Store(&Session{IsLoading: true})
	return s
}

// Current returns a copy of the in-memory session.
func (s *Store) Current() Session {
	return s.state.Load().clone()
}

// LoadErr returns why rehydration fell back to signed out, or nil when
// storage simply held no session (or Initialize has not run).
func (s *Store) LoadErr() error {
	if r := s.loadErr.Load(); r != nil {
		return r.err
	}
	return nil
}

// Initialize rehydrates the session from storage. Every read failure is
// treated as signed out; see LoadErr. Only the first call on a store has an
// effect, and a completed Login or Logout counts as that call.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return
	}

	sess, err := s.rehydrate(ctx)
	switch {
	case err != nil:
		s.log.Warn(ctx, "session not restored, starting signed out", "error", err)
		s.loadErr.Store(&loadResult{err: err})
	case sess.SignedIn():
		s.log.Info(ctx, "session restored", "user_id", sess.User.ID)
	default:
		s.log.Debug(ctx, "no stored session")
	}

	s.initialized = true
	s.state.Store(&sess)
}

func (s *Store) rehydrate(ctx context.Context) (Session, error) {
	token, err := s.backend.Get(ctx, TokenKey)
	if err != nil {
		return Session{}, fmt.Errorf("read %s: %w", TokenKey, err)
	}
	if len(token) == 0 {
		return Session{}, nil
	}

	raw, err := s.backend.Get(ctx, UserKey)
	if err != nil {
		return Session{}, fmt.Errorf("read %s: %w", UserKey, err)
	}
	if raw == nil {
		return Session{}, fmt.Errorf("%w: token without %s", ErrCorruptSession, UserKey)
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return Session{}, fmt.Errorf("%w: decode %s: %v", ErrCorruptSession, UserKey, err)
	}
	if !u.Complete() {
		return Session{}, fmt.Errorf("%w: %s is incomplete", ErrCorruptSession, UserKey)
	}

	return Session{Token: string(token), User: &u}, nil
}

// Login persists token and user, then makes them the current session.
// On a storage failure it returns a *StorageWriteError and the current
// session is left as it was.
func (s *Store) Login(ctx context.Context, token string, user models.User) error {
	if strings.TrimSpace(token) == "" {
		return ErrInvalidToken
	}
	if !user.Complete() {
		return ErrIncompleteUser
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(ctx, "login", loginSteps(token, data)); err != nil {
		s.log.Error(ctx, "login not persisted", "error", err)
		return err
	}

	s.initialized = true
	s.state.Store(&Session{Token: token, User: &user})
	s.log.Info(ctx, "signed in", "user_id", user.ID)
	return nil
}

// Logout deletes the stored session, then clears the current one. Logging
// out while signed out succeeds. On a storage failure it returns a
// *StorageWriteError and the current session is left as it was.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(ctx, "logout", logoutSteps()); err != nil {
		s.log.Error(ctx, "logout not persisted", "error", err)
		return err
	}

	s.initialized = true
	s.state.Store(&Session{})
	s.log.Info(ctx, "signed out")
	return nil
}

type step struct {
	key   string
	value []byte
	del   bool
}

func (st step) apply(ctx context.Context, b storage.Backend) error {
	if st.del {
		return b.Delete(ctx, st.key)
	}
	return b.Set(ctx, st.key, st.value)
}

// The token is the commit marker: it is removed first and written last, so
// a partial write without Updater support still reads back as signed out.
func loginSteps(token string, user []byte) []step {
	return []step{
		{key: TokenKey, del: true},
		{key: UserKey, value: user},
		{key: TokenKey, value: []byte(token)},
	}
}

func logoutSteps() []step {
	return []step{
		{key: TokenKey, del: true},
		{key: UserKey, del: true},
	}
}

func runSteps(ctx context.Context, b storage.Backend, op string, steps []step) error {
	for _, st := range steps {
		if err := st.apply(ctx, b); err != nil {
			return &StorageWriteError{Op: op, Key: st.key, Err: err}
		}
	}
	return nil
}

// persist applies steps atomically when the backend supports it. Otherwise
// it applies them in order and, if one fails while a session is current,
// tries to put that session back so storage matches memory again.
func (s *Store) persist(ctx context.Context, op string, steps []step) error {
	if u, ok := s.backend.(storage.Updater); ok {
		err := u.Update(ctx, func(ctx context.Context, tx storage.Backend) error {
			return runSteps(ctx, tx, op, steps)
		})
		if err == nil {
			return nil
		}
		var swe *StorageWriteError
		if errors.As(err, &swe) {
			return swe
		}
		return &StorageWriteError{Op: op, Err: err}
	}

	err := runSteps(ctx, s.backend, op, steps)
	if err == nil {
		return nil
	}

	prev := s.state.Load()
	if prev.SignedIn() {
		s.restore(ctx, *prev)
	}
	return err
}

func (s *Store) restore(ctx context.Context, prev Session) {
	data, err := json.Marshal(prev.User)
	if err == nil {
		err = runSteps(ctx, s.backend, "restore", loginSteps(prev.Token, data))
	}
	if err != nil {
		s.log.Error(ctx, "stored session could not be restored, next start will be signed out", "error", err)
		return
	}
	s.log.Warn(ctx, "stored session restored after failed write")
}
