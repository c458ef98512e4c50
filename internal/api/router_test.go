package api_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askora/askora-auth/internal/api"
	"github.com/askora/askora-auth/internal/auth"
	"github.com/askora/askora-auth/internal/database"
	"github.com/askora/askora-auth/internal/services"
	"github.com/askora/askora-auth/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := database.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	svc := services.NewAuthService(
		store.NewUserStore(db),
		store.NewSessionStore(db),
		auth.NewPasswordHasher(),
		auth.NewJWTIssuer([]byte("test-secret")),
	)
	srv := httptest.NewServer(api.NewRouter(svc, "http://localhost:3000"))
	t.Cleanup(srv.Close)
	return srv
}

func signup(t *testing.T, srv *httptest.Server, username, email, password string) *http.Response {
	t.Helper()
	body, err := json.Marshal(map[string]string{
		"username":  username,
		"email":     email,
		"password":  password,
		"firstName": "Alice",
		"lastName":  "Doe",
	})
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+"/api/v1/user/signup", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func signin(t *testing.T, srv *httptest.Server, username, password string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/user/signin", nil)
	require.NoError(t, err)
	creds := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	req.Header.Set("Authorization", "Basic "+creds)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func signout(t *testing.T, srv *httptest.Server, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/user/signout", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]string {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestSignupSigninSignoutFlow(t *testing.T) {
	srv := newTestServer(t)

	resp := signup(t, srv, "alice", "alice@example.com", "pw1")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)
	assert.NotEmpty(t, created["id"])
	assert.Equal(t, "USER SUCCESSFULLY REGISTERED", created["status"])

	resp = signin(t, srv, "alice", "pw1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	token := resp.Header.Get("access-token")
	assert.NotEmpty(t, token)
	signedIn := decodeBody(t, resp)
	assert.Equal(t, created["id"], signedIn["id"])
	assert.Equal(t, "SIGNED IN SUCCESSFULLY", signedIn["message"])

	resp = signout(t, srv, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	signedOut := decodeBody(t, resp)
	assert.Equal(t, created["id"], signedOut["id"])
	assert.Equal(t, "SIGNED OUT SUCCESSFULLY", signedOut["message"])

	// Repeat sign-out is idempotent.
	resp = signout(t, srv, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created["id"], decodeBody(t, resp)["id"])
}

func TestSignupDuplicate(t *testing.T) {
	srv := newTestServer(t)

	resp := signup(t, srv, "alice", "alice@example.com", "pw1")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = signup(t, srv, "alice", "other@example.com", "pw2")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "USR-001", decodeBody(t, resp)["code"])
}

func TestSigninFailuresAreIndistinguishable(t *testing.T) {
	srv := newTestServer(t)

	resp := signup(t, srv, "alice", "alice@example.com", "pw1")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	unknown := signin(t, srv, "ghost", "pw1")
	assert.Equal(t, http.StatusUnauthorized, unknown.StatusCode)
	unknownBody := decodeBody(t, unknown)

	wrongPassword := signin(t, srv, "alice", "nope")
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.StatusCode)
	wrongBody := decodeBody(t, wrongPassword)

	// Unknown user and wrong password must be externally identical.
	assert.Equal(t, unknownBody, wrongBody)
	assert.Equal(t, "ATH-001", wrongBody["code"])
}

func TestSignoutUnknownToken(t *testing.T) {
	srv := newTestServer(t)

	resp := signout(t, srv, "not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "SGR-001", decodeBody(t, resp)["code"])
}

func TestMe(t *testing.T) {
	srv := newTestServer(t)

	resp := signup(t, srv, "alice", "alice@example.com", "pw1")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = signin(t, srv, "alice", "pw1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := resp.Header.Get("access-token")
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/user/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	meResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, meResp.StatusCode)
	me := decodeBody(t, meResp)
	assert.Equal(t, "alice", me["username"])

	// After sign-out the token no longer resolves.
	resp = signout(t, srv, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	req, err = http.NewRequest(http.MethodGet, srv.URL+"/api/v1/user/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	meResp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, meResp.StatusCode)
	meResp.Body.Close()
}
