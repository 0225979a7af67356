package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/gst-invoice-api/internal/domain/entity"
	"github.com/sangkips/gst-invoice-api/internal/domain/repository"
	"github.com/sangkips/gst-invoice-api/pkg/apperror"
	"github.com/sangkips/gst-invoice-api/pkg/oauth"
	"github.com/sangkips/gst-invoice-api/pkg/session"
	"github.com/sangkips/gst-invoice-api/pkg/utils"
	"go.uber.org/zap"
)

const providerGoogle = "google"

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo   repository.UserRepository
	roleRepo   repository.RoleRepository
	jwtManager *utils.JWTManager
	sessions   session.Store
	google     *oauth.GoogleOAuthService
	log        *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	jwtManager *utils.JWTManager,
	sessions session.Store,
	google *oauth.GoogleOAuthService,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		jwtManager: jwtManager,
		sessions:   sessions,
		google:     google,
		log:        log,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// AuthOutput is returned by every operation that issues tokens
type AuthOutput struct {
	User   *entity.User
	Tokens *utils.TokenPair
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		return nil, err
	}
	// Google-only accounts have no password
	if user == nil || user.Password == "" {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issue(ctx, user.ID)
}

// SignupInput represents the signup input
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Signup creates a new user account and signs it in
func (s *AuthService) Signup(ctx context.Context, input *SignupInput) (*AuthOutput, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	existingUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Password: hashedPassword,
		Provider: "local",
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.assignDefaultRole(ctx, user.ID)

	s.log.Info("user signed up", zap.String("user_id", user.ID.String()))
	return s.issue(ctx, user.ID)
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}
	return s.issue(ctx, userID)
}

// Logout revokes the access token until it would have expired anyway
func (s *AuthService) Logout(ctx context.Context, claims *utils.JWTClaims) error {
	if claims == nil || claims.ID == "" {
		return apperror.ErrInvalidToken
	}
	ttl := s.jwtManager.AccessTokenExpiry()
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.ID, ttl); err != nil {
		return apperror.NewUnavailableError("Unable to end the session right now")
	}
	s.log.Info("user logged out", zap.String("user_id", claims.UserID.String()))
	return nil
}

// IsLoggedIn reports whether an access token is valid and not revoked
func (s *AuthService) IsLoggedIn(ctx context.Context, accessToken string) bool {
	if accessToken == "" {
		return false
	}
	claims, err := s.jwtManager.ValidateAccessToken(accessToken)
	if err != nil {
		return false
	}
	revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
	return err == nil && !revoked
}

// GoogleAuthURL returns the consent URL for Google sign-in
func (s *AuthService) GoogleAuthURL() (string, error) {
	if s.google == nil || !s.google.IsConfigured() {
		return "", apperror.NewUnavailableError("Google sign-in is not configured")
	}
	url, _, err := s.google.AuthURL()
	return url, err
}

// GoogleCallback signs a Google user in, creating or linking the account
func (s *AuthService) GoogleCallback(ctx context.Context, state, code string) (*AuthOutput, error) {
	if s.google == nil || !s.google.IsConfigured() {
		return nil, apperror.NewUnavailableError("Google sign-in is not configured")
	}
	info, err := s.google.Authenticate(ctx, state, code)
	if err != nil {
		if errors.Is(err, oauth.ErrInvalidState) || errors.Is(err, oauth.ErrInvalidCode) {
			return nil, apperror.NewBadRequestError("Google sign-in failed")
		}
		return nil, err
	}

	user, err := s.userRepo.GetByProvider(ctx, providerGoogle, info.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.linkGoogleUser(ctx, info)
		if err != nil {
			return nil, err
		}
	}
	return s.issue(ctx, user.ID)
}

func (s *AuthService) linkGoogleUser(ctx context.Context, info *oauth.GoogleUserInfo) (*entity.User, error) {
	providerID := info.ID
	var photo *string
	if info.Picture != "" {
		photo = &info.Picture
	}

	user, err := s.userRepo.GetByEmail(ctx, info.Email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		user.Provider = providerGoogle
		user.ProviderID = &providerID
		if user.Photo == nil {
			user.Photo = photo
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
		s.log.Info("google account linked", zap.String("user_id", user.ID.String()))
		return user, nil
	}

	now := time.Now()
	user = &entity.User{
		Name:       info.Name,
		Email:      strings.ToLower(info.Email),
		Provider:   providerGoogle,
		ProviderID: &providerID,
		Photo:      photo,
	}
	if info.VerifiedEmail {
		user.EmailVerifiedAt = &now
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.assignDefaultRole(ctx, user.ID)
	s.log.Info("user signed up with google", zap.String("user_id", user.ID.String()))
	return user, nil
}

// GoogleRedirects returns the frontend URLs used after Google sign-in
func (s *AuthService) GoogleRedirects() (success, failure string) {
	if s.google == nil {
		return "", ""
	}
	return s.google.FrontendSuccessURL(), s.google.FrontendErrorURL()
}

// GetCurrentUser returns the current user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

func (s *AuthService) assignDefaultRole(ctx context.Context, userID uuid.UUID) {
	role, err := s.roleRepo.GetByName(ctx, entity.RoleUser)
	if err != nil || role == nil {
		s.log.Warn("default role not assigned", zap.String("user_id", userID.String()), zap.Error(err))
		return
	}
	if err := s.userRepo.AssignRole(ctx, userID, role.ID); err != nil {
		s.log.Warn("default role not assigned", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func (s *AuthService) issue(ctx context.Context, userID uuid.UUID) (*AuthOutput, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidToken
	}

	tokens, err := s.jwtManager.GenerateTokenPair(user.ID, user.Email, user.GetRoleNames(), user.GetPermissions())
	if err != nil {
		return nil, err
	}
	return &AuthOutput{User: user, Tokens: tokens}, nil
}
