package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNoToken is returned by LoadToken when no session is saved.
var ErrNoToken = errors.New("storage: no saved token")

// SaveToken stores the access token, replacing any previous one.
func (s *Store) SaveToken(token string) error {
	_, err := s.db.Exec(
		`INSERT INTO session (id, token) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET token = excluded.token, saved_at = CURRENT_TIMESTAMP`,
		token,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save token: %w", err)
	}
	return nil
}

// LoadToken returns the saved access token or ErrNoToken.
func (s *Store) LoadToken() (string, error) {
	var token string
	err := s.db.QueryRow("SELECT token FROM session WHERE id = 1").Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("storage: cannot load token: %w", err)
	}
	return token, nil
}

// DeleteToken forgets the saved session. Deleting a missing token is not an error.
func (s *Store) DeleteToken() error {
	if _, err := s.db.Exec("DELETE FROM session"); err != nil {
		return fmt.Errorf("storage: cannot delete token: %w", err)
	}
	return nil
}
