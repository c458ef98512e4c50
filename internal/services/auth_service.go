package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/askora/askora-auth/internal/auth"
	"github.com/askora/askora-auth/internal/models"
)

// SessionValidity is how long a session remains valid after sign-in.
const SessionValidity = 8 * time.Hour

// defaultPassword is substituted when a signup request carries no password.
// Documented policy carried over from the legacy API; callers should always
// supply their own password.
const defaultPassword = "askora@123"

// UserStore persists and retrieves user accounts.
type UserStore interface {
	CreateUser(user models.User) (models.User, error)
	GetUserByUsername(username string) (models.User, error)
	GetUserByID(id string) (models.User, error)
	UpdateUser(user models.User) error
}

// SessionStore persists and retrieves sessions keyed by access token.
type SessionStore interface {
	CreateSession(session models.Session) (models.Session, error)
	GetSessionByToken(token string) (models.Session, error)
	UpdateSession(session models.Session) error
	DeleteExpiredBefore(cutoff time.Time) (int64, error)
}

// RegisterInput carries the signup fields for a new account.
type RegisterInput struct {
	Username      string
	Email         string
	Password      string
	FirstName     string
	LastName      string
	Country       string
	AboutMe       string
	DOB           string
	ContactNumber string
}

// AuthService implements the register / authenticate / terminate lifecycle.
type AuthService struct {
	users    UserStore
	sessions SessionStore
	hasher   *auth.PasswordHasher
	issuer   auth.TokenIssuer
	now      func() time.Time
}

// NewAuthService creates an AuthService. All collaborators are injected;
// the service itself holds no mutable state, so it is safe for concurrent
// use.
func NewAuthService(users UserStore, sessions SessionStore, hasher *auth.PasswordHasher, issuer auth.TokenIssuer) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		issuer:   issuer,
		now:      time.Now,
	}
}

// Register creates a new user account and returns its public identifier.
// A missing password is replaced with the documented default before hashing;
// the plaintext is never persisted.
func (s *AuthService) Register(input RegisterInput) (string, error) {
	password := input.Password
	if password == "" {
		password = defaultPassword
	}

	salt, digest, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:             uuid.New().String(),
		Username:       input.Username,
		Email:          input.Email,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Country:        input.Country,
		AboutMe:        input.AboutMe,
		DOB:            input.DOB,
		ContactNumber:  input.ContactNumber,
		PasswordDigest: digest,
		PasswordSalt:   salt,
		CreatedAt:      s.now(),
	}

	created, err := s.users.CreateUser(user)
	if err != nil {
		return "", err
	}

	log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("Registered new user")
	return created.ID, nil
}

// Authenticate verifies the username/password pair and, on success, opens a
// new session valid for SessionValidity from now. Each sign-in produces its
// own session; earlier sessions for the same user are unaffected.
func (s *AuthService) Authenticate(username, password string) (models.Session, error) {
	user, err := s.users.GetUserByUsername(username)
	if err != nil {
		return models.Session{}, err
	}

	if !s.hasher.Verify(password, user.PasswordSalt, user.PasswordDigest) {
		return models.Session{}, ErrBadCredentials
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(SessionValidity)

	token, err := s.issuer.Issue(user.ID, issuedAt, expiresAt)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to issue access token: %w", err)
	}

	session := models.Session{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		AccessToken: token,
		IssuedAt:    issuedAt,
		ExpiresAt:   expiresAt,
	}

	created, err := s.sessions.CreateSession(session)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	log.Info().Str("user_id", user.ID).Str("session_id", created.ID).Msg("User signed in")
	return created, nil
}

// Terminate signs out the session identified by the access token and
// returns the owning user's public identifier. Terminating an already
// signed-out session succeeds without resetting the original logout time.
func (s *AuthService) Terminate(accessToken string) (string, error) {
	session, err := s.sessions.GetSessionByToken(accessToken)
	if err != nil {
		return "", err
	}

	if session.LogoutAt == nil {
		logoutAt := s.now()
		session.LogoutAt = &logoutAt
		if err := s.sessions.UpdateSession(session); err != nil {
			return "", fmt.Errorf("failed to update session: %w", err)
		}
		log.Info().Str("user_id", session.UserID).Str("session_id", session.ID).Msg("User signed out")
	}

	return session.UserID, nil
}

// CurrentUser resolves the access token to its owning user, rejecting
// sessions that have been signed out or whose validity window has passed.
// Expiry is decided by the stored timestamps, never by re-parsing the token.
func (s *AuthService) CurrentUser(accessToken string) (models.User, error) {
	session, err := s.sessions.GetSessionByToken(accessToken)
	if err != nil {
		return models.User{}, err
	}
	if session.LogoutAt != nil {
		return models.User{}, ErrSessionNotFound
	}
	if !s.now().Before(session.ExpiresAt) {
		return models.User{}, ErrSessionExpired
	}
	return s.users.GetUserByID(session.UserID)
}

// PurgeExpiredSessions deletes sessions whose validity window ended before
// now. Used by the background sweeper; request-time expiry checks never
// depend on it.
func (s *AuthService) PurgeExpiredSessions() (int64, error) {
	return s.sessions.DeleteExpiredBefore(s.now())
}
