// Package store is the durable key/value state behind the client: the auth
// token, the cached user profile, the onboarding flag and the remembered
// login email.
//
// Every operation is best-effort. A storage failure is logged and read back
// as "value absent" so the rest of the app degrades to the unauthenticated
// path instead of crashing. There is no transactionality across keys; callers
// that write pairs (token + user) tolerate partial completion, worst case
// being a forced re-login.
package store

import (
	"database/sql"
	"encoding/json"

	"github.com/campuskit/campusctl/internal/models"
	"github.com/campuskit/campusctl/internal/shared"
	"github.com/charmbracelet/log"
)

// Logical keys. The table is scoped to this fixed set.
const (
	KeyAuthToken          = "auth_token"
	KeyUserProfile        = "user_profile"
	KeyOnboardingComplete = "onboarding_complete"
	KeyRememberedEmail    = "remembered_email"
)

// OnboardingDone is the sentinel value stored under [KeyOnboardingComplete].
const OnboardingDone = "true"

// Store persists client state in the app_state table.
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

// New creates a Store over the given database connection. A nil database is
// tolerated: all reads report absent and all writes are dropped with a log
// line, matching the degraded path of a failed local storage open.
func New(db *sql.DB, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{db: db, logger: logger}
}

// Set writes value under key, replacing any previous value.
func (s *Store) Set(key, value string) {
	if s.db == nil {
		s.logger.Warnf("%v: dropping write for %s", shared.ErrStorage, key)
		return
	}

	query := `
		INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.Exec(query, key, value); err != nil {
		s.logger.Warnf("%v: failed to write %s: %v", shared.ErrStorage, key, err)
	}
}

// Get reads the value under key. The second return is false when the key is
// absent or the read failed; Get never returns an error.
func (s *Store) Get(key string) (string, bool) {
	if s.db == nil {
		return "", false
	}

	var value string
	err := s.db.QueryRow("SELECT value FROM app_state WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		s.logger.Warnf("%v: failed to read %s: %v", shared.ErrStorage, key, err)
		return "", false
	}

	return value, true
}

// Remove deletes the value under key. Removing an absent key is a no-op.
func (s *Store) Remove(key string) {
	if s.db == nil {
		return
	}

	if _, err := s.db.Exec("DELETE FROM app_state WHERE key = ?", key); err != nil {
		s.logger.Warnf("%v: failed to remove %s: %v", shared.ErrStorage, key, err)
	}
}

// SaveUser serializes the profile under [KeyUserProfile].
func (s *Store) SaveUser(user *models.UserProfile) {
	data, err := json.Marshal(user)
	if err != nil {
		s.logger.Warnf("%v: failed to serialize user profile: %v", shared.ErrStorage, err)
		return
	}
	s.Set(KeyUserProfile, string(data))
}

// LoadUser reads the cached profile, or nil when absent or unreadable.
func (s *Store) LoadUser() *models.UserProfile {
	raw, ok := s.Get(KeyUserProfile)
	if !ok {
		return nil
	}

	var user models.UserProfile
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warnf("%v: failed to parse cached user profile: %v", shared.ErrStorage, err)
		return nil
	}

	return &user
}
