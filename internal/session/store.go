package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/gametracker/gametracker/internal/errors"
	"github.com/gametracker/gametracker/internal/log"
)

// Store is the durable session store. It keeps an in-memory copy of the
// session guarded by a mutex and mirrors every mutation to a JSON file so
// the login survives process restarts. Reads never touch the disk; Load
// is called once at startup.
//
// The store itself never mutates a session it was handed: the three
// fields are overwritten together on Save, partially on SetTokens (the
// refresh path), and removed together on Clear.
type Store struct {
	path   string
	logger *log.Logger

	mu  sync.RWMutex
	cur Session
}

// NewStore creates a store persisting to the given file path.
// The file is created lazily on the first Save.
func NewStore(path string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Store{
		path:   filepath.Clean(path),
		logger: logger.With("component", "session"),
	}
}

// Load restores a previously persisted session from disk. A missing,
// unreadable, or corrupt file restores to anonymous: a stale session
// file must never prevent the application from starting.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WithError(err).Warn("could not read session file, starting anonymous", "path", s.path)
		}
		s.cur = Session{}
		return
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		s.logger.WithError(err).Warn("corrupt session file, starting anonymous", "path", s.path)
		s.cur = Session{}
		return
	}

	// A partial session (token without profile or vice versa) is not
	// authenticated state; drop it rather than half-restore.
	if !sess.Complete() {
		s.cur = Session{}
		return
	}

	s.cur = sess
}

// Save overwrites the whole session, in memory and on disk. The memory
// copy is updated even when persistence fails so the running process
// stays logged in; the disk error is returned for the caller to log.
func (s *Store) Save(sess Session) error {
	s.mu.Lock()
	s.cur = sess
	s.mu.Unlock()

	return s.persist(sess)
}

// SetTokens replaces the token pair but keeps the stored profile.
// Used by the gateway after a successful token refresh.
func (s *Store) SetTokens(accessToken, refreshToken string) error {
	s.mu.Lock()
	s.cur.AccessToken = accessToken
	s.cur.RefreshToken = refreshToken
	sess := s.cur
	s.mu.Unlock()

	return s.persist(sess)
}

// Clear removes the session entirely. It cannot fail from the caller's
// point of view: the in-memory state is always wiped and a leftover file
// is only logged.
func (s *Store) Clear() {
	s.mu.Lock()
	s.cur = Session{}
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.logger.WithError(err).Warn("could not remove session file", "path", s.path)
	}
}

// IsAuthenticated reports whether an access token and a user profile are
// both present. No network call is involved.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.AccessToken != "" && s.cur.User != nil
}

// CurrentUser returns the stored profile, if any.
func (s *Store) CurrentUser() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur.User == nil {
		return User{}, false
	}
	return *s.cur.User, true
}

// AccessToken returns the stored access token, or "" when anonymous.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.AccessToken
}

// RefreshToken returns the stored refresh token, or "" when anonymous.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.RefreshToken
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess := s.cur
	if s.cur.User != nil {
		user := *s.cur.User
		sess.User = &user
	}
	return sess
}

// persist writes the session file atomically: a rename is the only point
// where the old content disappears, so a crash mid-write leaves either
// the old session or the new one, never a torn file.
func (s *Store) persist(sess Session) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(errors.ErrCodeSessionSave, "could not create session directory", err)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeSessionSave, "could not encode session", err)
	}

	tmp, err := os.CreateTemp(dir, "session-*.json")
	if err != nil {
		return errors.Wrap(errors.ErrCodeSessionSave, "could not create session file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeSessionSave, "could not write session file", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeSessionSave, "could not set session file mode", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeSessionSave, "could not close session file", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeSessionSave, "could not replace session file", err)
	}

	return nil
}
