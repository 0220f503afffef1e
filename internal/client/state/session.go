package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/SuwethaV/bookreview/internal/client/api"
)

// savedSession is the on-disk form. Only the session survives restarts;
// books, reviews and filters are refetched.
type savedSession struct {
	User         api.User `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
}

// Save writes the session to path, or removes the file when signed out.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	var saved *savedSession
	if s.user != nil {
		saved = &savedSession{User: *s.user, AccessToken: s.token, RefreshToken: s.refreshToken}
	}
	s.mu.RUnlock()

	if saved == nil {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove session: %w", err)
		}
		return nil
	}

	buf, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	// tokens are credentials
	if err := os.WriteFile(path, buf, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Load restores a session saved by Save. A missing file is not an error;
// a corrupt one is logged and ignored. Subscribers are not notified.
func (s *Store) Load(path string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read session: %w", err)
	}

	var saved savedSession
	if err := json.Unmarshal(buf, &saved); err != nil || saved.User.ID == "" {
		logrus.WithField("path", path).Warn("ignoring unreadable session file")
		return nil
	}

	s.mu.Lock()
	u := saved.User
	s.user = &u
	s.token = saved.AccessToken
	s.refreshToken = saved.RefreshToken
	s.mu.Unlock()
	return nil
}
