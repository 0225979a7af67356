package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestService(t *testing.T) *GoogleOAuthService {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"access_token": "at", "token_type": "Bearer", "expires_in": 3600})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(GoogleUserInfo{ID: "g-1", Email: "priya@example.com", Name: "Priya", VerifiedEmail: true})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	s := NewGoogleOAuthService(GoogleOAuthConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost/callback",
		StateSecret:  "state-secret",
	})
	s.config.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	s.userInfoURL = srv.URL + "/userinfo"
	return s
}

func TestAuthenticate(t *testing.T) {
	s := newTestService(t)

	authURL, state, err := s.AuthURL()
	require.NoError(t, err)
	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, state, parsed.Query().Get("state"))

	info, err := s.Authenticate(context.Background(), state, "good-code")
	require.NoError(t, err)
	assert.Equal(t, "g-1", info.ID)
	assert.Equal(t, "priya@example.com", info.Email)
}

func TestAuthenticate_BadCode(t *testing.T) {
	s := newTestService(t)
	_, state, err := s.AuthURL()
	require.NoError(t, err)

	_, err = s.Authenticate(context.Background(), state, "bad-code")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestVerifyState(t *testing.T) {
	s := newTestService(t)
	_, state, err := s.AuthURL()
	require.NoError(t, err)

	assert.NoError(t, s.verifyState(state))
	assert.ErrorIs(t, s.verifyState(state+"x"), ErrInvalidState)
	assert.ErrorIs(t, s.verifyState("garbage"), ErrInvalidState)

	s.now = func() time.Time { return time.Now().Add(stateTTL + time.Minute) }
	assert.ErrorIs(t, s.verifyState(state), ErrInvalidState, "expired state")
}

func TestNotConfigured(t *testing.T) {
	s := NewGoogleOAuthService(GoogleOAuthConfig{})
	_, _, err := s.AuthURL()
	assert.ErrorIs(t, err, ErrOAuthNotConfigured)
	_, err = s.Authenticate(context.Background(), "s", "c")
	assert.ErrorIs(t, err, ErrOAuthNotConfigured)
}
