package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/askora/askora-auth/internal/services"
)

// AuthHandler handles HTTP requests for the signup/signin/signout lifecycle.
type AuthHandler struct {
	service *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// SignupPayload defines the structure for registration requests.
type SignupPayload struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Country       string `json:"country"`
	AboutMe       string `json:"aboutMe"`
	DOB           string `json:"dob"`
	ContactNumber string `json:"contactNumber"`
}

// SignupResponse is the body returned on successful registration.
type SignupResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// AuthResponse is the body returned on successful sign-in or sign-out.
type AuthResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Signup handles new user registration.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload SignupPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "REQ-001", "invalid request body")
		return
	}
	if payload.Username == "" || payload.Email == "" {
		writeError(w, http.StatusBadRequest, "REQ-002", "username and email are required")
		return
	}

	userID, err := h.service.Register(services.RegisterInput{
		Username:      payload.Username,
		Email:         payload.Email,
		Password:      payload.Password,
		FirstName:     payload.FirstName,
		LastName:      payload.LastName,
		Country:       payload.Country,
		AboutMe:       payload.AboutMe,
		DOB:           payload.DOB,
		ContactNumber: payload.ContactNumber,
	})
	if err != nil {
		if errors.Is(err, services.ErrDuplicateUser) {
			writeError(w, http.StatusConflict, "USR-001", "username or email already registered")
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to register user")
		writeError(w, http.StatusInternalServerError, "SRV-001", "failed to register user")
		return
	}

	writeJSON(w, http.StatusCreated, SignupResponse{ID: userID, Status: "USER SUCCESSFULLY REGISTERED"})
}

// basicCredentials decodes a "Basic base64(user:pass)" Authorization header.
func basicCredentials(header string) (username, password string, ok bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}
	username, password, ok = strings.Cut(string(decoded), ":")
	return username, password, ok
}

// Signin authenticates Basic credentials and opens a session. The access
// token is returned in the access-token response header, the user's public
// id in the body. Unknown-user and wrong-password failures return the same
// response to prevent username enumeration.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	username, password, ok := basicCredentials(r.Header.Get("Authorization"))
	if !ok {
		writeError(w, http.StatusUnauthorized, "ATH-001", "invalid credentials")
		return
	}

	session, err := h.service.Authenticate(username, password)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) || errors.Is(err, services.ErrBadCredentials) {
			log.Warn().Err(err).Str("username", username).Msg("Failed authentication attempt")
			writeError(w, http.StatusUnauthorized, "ATH-001", "invalid credentials")
			return
		}
		log.Error().Err(err).Str("username", username).Msg("Sign-in failed")
		writeError(w, http.StatusInternalServerError, "SRV-002", "failed to sign in")
		return
	}

	w.Header().Set("access-token", session.AccessToken)
	writeJSON(w, http.StatusOK, AuthResponse{ID: session.UserID, Message: "SIGNED IN SUCCESSFULLY"})
}

// bearerToken extracts the token from a "Bearer <token>" Authorization header.
func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := header[len(prefix):]
	return token, token != ""
}

// Signout terminates the session bound to the Bearer token. Repeating the
// call with the same token succeeds without moving the recorded logout time.
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		writeError(w, http.StatusUnauthorized, "SGR-001", "not signed in")
		return
	}

	userID, err := h.service.Terminate(token)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			writeError(w, http.StatusUnauthorized, "SGR-001", "not signed in")
			return
		}
		log.Error().Err(err).Msg("Sign-out failed")
		writeError(w, http.StatusInternalServerError, "SRV-003", "failed to sign out")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{ID: userID, Message: "SIGNED OUT SUCCESSFULLY"})
}

// Me returns the profile of the user owning the Bearer token's session.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user from request context")
		writeError(w, http.StatusInternalServerError, "SRV-004", "could not resolve current user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
