// Package store provides the SQLite-backed implementations of the user and
// session stores consumed by the services package.
package store

import (
	"database/sql"
	"strings"

	"github.com/askora/askora-auth/internal/models"
	"github.com/askora/askora-auth/internal/services"
)

// isUniqueViolation reports whether err is a SQLite unique-constraint error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// UserStore persists users in SQLite.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// CreateUser inserts a new user. The schema's unique constraints on
// username and email surface as services.ErrDuplicateUser.
func (s *UserStore) CreateUser(user models.User) (models.User, error) {
	stmt, err := s.db.Prepare(`INSERT INTO users
		(id, username, email, first_name, last_name, country, about_me, dob, contact_number, password_digest, password_salt, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(user.ID, user.Username, user.Email, user.FirstName, user.LastName,
		user.Country, user.AboutMe, user.DOB, user.ContactNumber,
		user.PasswordDigest, user.PasswordSalt, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, services.ErrDuplicateUser
		}
		return models.User{}, err
	}
	return user, nil
}

const userColumns = `id, username, email, first_name, last_name, country, about_me, dob, contact_number, password_digest, password_salt, created_at`

func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName,
		&user.Country, &user.AboutMe, &user.DOB, &user.ContactNumber,
		&user.PasswordDigest, &user.PasswordSalt, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, services.ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username, including credentials.
func (s *UserStore) GetUserByUsername(username string) (models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

// GetUserByID retrieves a user by their public identifier.
func (s *UserStore) GetUserByID(id string) (models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// UpdateUser updates a user's profile and credential fields.
func (s *UserStore) UpdateUser(user models.User) error {
	stmt, err := s.db.Prepare(`UPDATE users SET
		username = ?, email = ?, first_name = ?, last_name = ?, country = ?,
		about_me = ?, dob = ?, contact_number = ?, password_digest = ?, password_salt = ?
		WHERE id = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(user.Username, user.Email, user.FirstName, user.LastName, user.Country,
		user.AboutMe, user.DOB, user.ContactNumber, user.PasswordDigest, user.PasswordSalt, user.ID)
	if isUniqueViolation(err) {
		return services.ErrDuplicateUser
	}
	return err
}
