package store

import (
	"database/sql"
	"time"

	"github.com/askora/askora-auth/internal/models"
	"github.com/askora/askora-auth/internal/services"
)

// SessionStore persists sessions in SQLite, keyed by access token.
type SessionStore struct {
	db *sql.DB
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// CreateSession inserts a new session record.
func (s *SessionStore) CreateSession(session models.Session) (models.Session, error) {
	stmt, err := s.db.Prepare(`INSERT INTO sessions
		(id, user_id, access_token, issued_at, expires_at, logout_at)
		VALUES(?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.Session{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(session.ID, session.UserID, session.AccessToken,
		session.IssuedAt, session.ExpiresAt, session.LogoutAt)
	if err != nil {
		return models.Session{}, err
	}
	return session, nil
}

// GetSessionByToken retrieves the session bound to the access token.
func (s *SessionStore) GetSessionByToken(token string) (models.Session, error) {
	row := s.db.QueryRow(`SELECT id, user_id, access_token, issued_at, expires_at, logout_at
		FROM sessions WHERE access_token = ?`, token)

	var session models.Session
	var logoutAt sql.NullTime
	err := row.Scan(&session.ID, &session.UserID, &session.AccessToken,
		&session.IssuedAt, &session.ExpiresAt, &logoutAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Session{}, services.ErrSessionNotFound
		}
		return models.Session{}, err
	}
	if logoutAt.Valid {
		session.LogoutAt = &logoutAt.Time
	}
	return session, nil
}

// UpdateSession writes the session's logout time. The guard on logout_at
// makes the sign-out transition one-way: an already recorded logout time is
// never overwritten.
func (s *SessionStore) UpdateSession(session models.Session) error {
	_, err := s.db.Exec(`UPDATE sessions SET logout_at = ?
		WHERE id = ? AND logout_at IS NULL`, session.LogoutAt, session.ID)
	return err
}

// DeleteExpiredBefore removes sessions whose validity window ended before
// cutoff and reports how many were removed.
func (s *SessionStore) DeleteExpiredBefore(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE expires_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
