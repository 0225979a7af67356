package oauth

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var (
	ErrInvalidCode        = errors.New("invalid authorization code")
	ErrFailedToGetUser    = errors.New("failed to get user info from Google")
	ErrInvalidState       = errors.New("invalid state parameter")
	ErrOAuthNotConfigured = errors.New("google sign-in is not configured")
)

const (
	defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	stateTTL           = 10 * time.Minute
)

// GoogleUserInfo represents user information from Google
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleOAuthConfig holds the configuration for Google sign-in
type GoogleOAuthConfig struct {
	ClientID           string
	ClientSecret       string
	RedirectURL        string
	FrontendSuccessURL string
	FrontendErrorURL   string
	// StateSecret signs the state parameter so no server-side storage is needed.
	StateSecret string
}

// GoogleOAuthService handles Google sign-in
type GoogleOAuthService struct {
	config             *oauth2.Config
	userInfoURL        string
	stateSecret        []byte
	frontendSuccessURL string
	frontendErrorURL   string
	now                func() time.Time
}

// NewGoogleOAuthService creates a new Google sign-in service
func NewGoogleOAuthService(cfg GoogleOAuthConfig) *GoogleOAuthService {
	return &GoogleOAuthService{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userInfoURL:        defaultUserInfoURL,
		stateSecret:        []byte(cfg.StateSecret),
		frontendSuccessURL: cfg.FrontendSuccessURL,
		frontendErrorURL:   cfg.FrontendErrorURL,
		now:                time.Now,
	}
}

// IsConfigured checks if Google sign-in is properly configured
func (s *GoogleOAuthService) IsConfigured() bool {
	return s.config.ClientID != "" && s.config.ClientSecret != ""
}

// AuthURL returns the consent URL together with the signed state it carries.
func (s *GoogleOAuthService) AuthURL() (string, string, error) {
	if !s.IsConfigured() {
		return "", "", ErrOAuthNotConfigured
	}
	state, err := s.newState()
	if err != nil {
		return "", "", err
	}
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOnline), state, nil
}

// Authenticate validates state, exchanges code and fetches the Google profile.
func (s *GoogleOAuthService) Authenticate(ctx context.Context, state, code string) (*GoogleUserInfo, error) {
	if !s.IsConfigured() {
		return nil, ErrOAuthNotConfigured
	}
	if err := s.verifyState(state); err != nil {
		return nil, err
	}

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCode, err)
	}

	resp, err := s.config.Client(ctx, token).Get(s.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToGetUser, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrFailedToGetUser, resp.StatusCode, string(body))
	}

	var info GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToGetUser, err)
	}
	if info.ID == "" || info.Email == "" {
		return nil, fmt.Errorf("%w: missing id or email", ErrFailedToGetUser)
	}
	return &info, nil
}

// FrontendSuccessURL returns the frontend URL to redirect to after sign-in
func (s *GoogleOAuthService) FrontendSuccessURL() string {
	return s.frontendSuccessURL
}

// FrontendErrorURL returns the frontend URL to redirect to after a failed sign-in
func (s *GoogleOAuthService) FrontendErrorURL() string {
	return s.frontendErrorURL
}

// state format: <nonce>.<unix expiry>.<hmac>
func (s *GoogleOAuthService) newState() (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	payload := base64.RawURLEncoding.EncodeToString(nonce) + "." +
		strconv.FormatInt(s.now().Add(stateTTL).Unix(), 10)
	return payload + "." + s.sign(payload), nil
}

func (s *GoogleOAuthService) verifyState(state string) error {
	i := strings.LastIndexByte(state, '.')
	if i < 0 {
		return ErrInvalidState
	}
	payload, sig := state[:i], state[i+1:]
	if !hmac.Equal([]byte(sig), []byte(s.sign(payload))) {
		return ErrInvalidState
	}
	parts := strings.SplitN(payload, ".", 2)
	if len(parts) != 2 {
		return ErrInvalidState
	}
	expires, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || s.now().Unix() > expires {
		return ErrInvalidState
	}
	return nil
}

func (s *GoogleOAuthService) sign(payload string) string {
	mac := hmac.New(sha256.New, s.stateSecret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
