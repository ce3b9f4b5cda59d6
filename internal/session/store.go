// Package session owns the authenticated identity and bearer credential.
// It is the single source of truth for "is a user logged in"; every other
// component reads auth state through it.
package session

import (
	"context"
	"log/slog"
	"sync"

	"storefront/internal/model"
)

// API is the slice of the backend the session store depends on.
type API interface {
	Login(ctx context.Context, email, password string) (*model.Session, error)
	Register(ctx context.Context, email, password string) (*model.Session, error)
	Me(ctx context.Context, token string) (*model.User, error)
}

// Listener observes session transitions. Called with the new session on
// login/restore and with nil on logout or credential rejection.
type Listener func(*model.Session)

// Store holds the current session in memory and writes every mutation
// through to durable storage in the same call, so the two never diverge.
//
// Methods are safe for interleaved use from HTTP handlers; the store
// serializes access with a mutex rather than assuming a single caller.
type Store struct {
	api     API
	storage Storage
	logger  *slog.Logger

	mu        sync.Mutex
	session   *model.Session
	verifying bool // restored credential awaiting backend confirmation
	listeners []Listener
}

// NewStore creates a session store. Call Restore to pick up a persisted
// credential before serving traffic.
func NewStore(api API, storage Storage, logger *slog.Logger) *Store {
	return &Store{
		api:     api,
		storage: storage,
		logger:  logger,
	}
}

// Subscribe registers a listener for session transitions.
// Listeners run outside the store's lock, on whichever goroutine caused
// the transition.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Restore optimistically adopts a persisted credential, then verifies it
// against the backend on a separate goroutine. Until verification finishes
// there is a window where IsAuthenticated reads true for a revoked token;
// acceptable because every sensitive operation is re-validated server-side.
func (s *Store) Restore(ctx context.Context) {
	sess, err := s.storage.Load()
	if err != nil {
		s.logger.Warn("discarding unreadable session state", slog.String("error", err.Error()))
		_ = s.storage.Clear()
		return
	}
	if sess == nil {
		return
	}

	s.mu.Lock()
	s.session = sess
	s.verifying = true
	s.mu.Unlock()

	s.logger.Info("session restored, verifying credential",
		slog.String("user_id", sess.User.ID),
	)

	go s.verify(ctx, sess.Token)
}

// verify confirms a restored credential with the backend.
// Any failure, rejection or unreachable backend, clears the session and
// durable storage: a credential that cannot be confirmed is not trusted.
func (s *Store) verify(ctx context.Context, token string) {
	user, err := s.api.Me(ctx, token)

	s.mu.Lock()
	if s.session == nil || s.session.Token != token {
		// Session changed under us (login/logout raced the verify).
		s.mu.Unlock()
		return
	}

	switch {
	case err == nil:
		s.session.User = *user
		s.verifying = false
		if saveErr := s.storage.Save(s.session); saveErr != nil {
			s.logger.Warn("persisting refreshed identity failed", slog.String("error", saveErr.Error()))
		}
		sess := *s.session
		s.mu.Unlock()
		s.notify(&sess)

	case model.IsAuthFailure(err):
		s.session = nil
		s.verifying = false
		s.mu.Unlock()
		if clearErr := s.storage.Clear(); clearErr != nil {
			s.logger.Warn("clearing rejected session state failed", slog.String("error", clearErr.Error()))
		}
		s.logger.Info("stored credential rejected, session cleared")
		s.notify(nil)

	default:
		s.session = nil
		s.verifying = false
		s.mu.Unlock()
		if clearErr := s.storage.Clear(); clearErr != nil {
			s.logger.Warn("clearing session state failed", slog.String("error", clearErr.Error()))
		}
		s.logger.Warn("credential verification failed, session cleared", slog.String("error", err.Error()))
		s.notify(nil)
	}
}

// Login authenticates and establishes a new session.
// Identity and credential are written to durable storage before returning.
func (s *Store) Login(ctx context.Context, email, password string) (*model.Session, error) {
	sess, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.adopt(sess)
	s.logger.Info("logged in",
		slog.String("user_id", sess.User.ID),
		slog.String("role", sess.User.Role),
	)
	return sess, nil
}

// Register creates an account. The backend issues a token on success, so a
// successful registration also establishes the session.
func (s *Store) Register(ctx context.Context, email, password string) (*model.Session, error) {
	sess, err := s.api.Register(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.adopt(sess)
	s.logger.Info("registered", slog.String("user_id", sess.User.ID))
	return sess, nil
}

// adopt installs a fresh session in memory and storage, then notifies.
func (s *Store) adopt(sess *model.Session) {
	s.mu.Lock()
	cp := *sess
	s.session = &cp
	s.verifying = false
	if err := s.storage.Save(s.session); err != nil {
		s.logger.Warn("persisting session failed", slog.String("error", err.Error()))
	}
	s.mu.Unlock()

	s.notify(sess)
}

// Logout clears memory and durable storage unconditionally. Never fails.
func (s *Store) Logout() {
	s.mu.Lock()
	wasActive := s.session != nil
	s.session = nil
	s.verifying = false
	s.mu.Unlock()

	if err := s.storage.Clear(); err != nil {
		s.logger.Warn("clearing session state failed", slog.String("error", err.Error()))
	}

	if wasActive {
		s.logger.Info("logged out")
	}
	s.notify(nil)
}

// Current returns a copy of the active session, or nil.
func (s *Store) Current() *model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	cp := *s.session
	return &cp
}

// IsAuthenticated reports whether a session is active.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil
}

// Verifying reports whether a restored credential is still awaiting
// backend confirmation.
func (s *Store) Verifying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verifying
}

// Token returns the bearer credential, or "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ""
	}
	return s.session.Token
}

// UserID returns the partition key for the remote cart, or "".
func (s *Store) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ""
	}
	return s.session.User.ID
}

func (s *Store) notify(sess *model.Session) {
	s.mu.Lock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(sess)
	}
}
