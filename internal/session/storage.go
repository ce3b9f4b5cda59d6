package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"storefront/internal/model"
)

// Storage persists the session across restarts. Implementations must keep
// the credential and identity together: both written on login, both removed
// on logout or credential rejection.
type Storage interface {
	Load() (*model.Session, error)
	Save(*model.Session) error
	Clear() error
}

// stateFile is the durable on-disk layout. The token and user keys mirror
// the two values the UI keeps in client storage.
type stateFile struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// fileStorage keeps the session in a JSON state file, mode 0600.
type fileStorage struct {
	path string
}

// NewFileStorage creates session storage backed by the given file path.
func NewFileStorage(path string) Storage {
	return &fileStorage{path: path}
}

func (s *fileStorage) Load() (*model.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session state: %w", err)
	}

	var state stateFile
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parsing session state: %w", err)
	}
	if state.Token == "" {
		return nil, nil
	}

	return &model.Session{User: state.User, Token: state.Token}, nil
}

func (s *fileStorage) Save(sess *model.Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	data, err := json.MarshalIndent(stateFile{Token: sess.Token, User: sess.User}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session state: %w", err)
	}

	// Write-then-rename so a crash never leaves a torn state file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing session state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing session state: %w", err)
	}
	return nil
}

func (s *fileStorage) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session state: %w", err)
	}
	return nil
}

// memStorage is an in-memory Storage for tests and ephemeral runs.
type memStorage struct {
	sess *model.Session
}

// NewMemStorage creates a Storage that forgets everything on process exit.
func NewMemStorage() Storage {
	return &memStorage{}
}

func (s *memStorage) Load() (*model.Session, error) {
	if s.sess == nil {
		return nil, nil
	}
	cp := *s.sess
	return &cp, nil
}

func (s *memStorage) Save(sess *model.Session) error {
	cp := *sess
	s.sess = &cp
	return nil
}

func (s *memStorage) Clear() error {
	s.sess = nil
	return nil
}
