package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/sangkips/gst-invoice-api/internal/domain/entity"
	"github.com/sangkips/gst-invoice-api/internal/infrastructure/repository"
	"github.com/sangkips/gst-invoice-api/pkg/apperror"
	"github.com/sangkips/gst-invoice-api/pkg/oauth"
	"github.com/sangkips/gst-invoice-api/pkg/session"
	"github.com/sangkips/gst-invoice-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthService(t *testing.T) (*AuthService, *utils.JWTManager) {
	t.Helper()
	db := setupTestDB(t)
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	svc := NewAuthService(
		repository.NewUserRepository(db),
		repository.NewRoleRepository(db),
		jwtManager,
		session.NewMemoryStore(),
		oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{}),
		zap.NewNop(),
	)
	return svc, jwtManager
}

func TestAuthService_SignupAndLogin(t *testing.T) {
	svc, jwtManager := newAuthService(t)

	out, err := svc.Signup(ctx(), &SignupInput{Name: " Asha ", Email: "Asha@Example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", out.User.Email)
	assert.Equal(t, "Asha", out.User.Name)
	assert.True(t, out.User.HasRole(entity.RoleUser))
	assert.True(t, out.User.HasPermission(entity.PermissionManageDocuments))
	assert.False(t, out.User.HasPermission(entity.PermissionManageHSN))

	claims, err := jwtManager.ValidateAccessToken(out.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, claims.UserID)

	_, err = svc.Signup(ctx(), &SignupInput{Name: "Again", Email: "asha@example.com", Password: "secret123"})
	assert.Equal(t, http.StatusConflict, appCode(err))

	_, err = svc.Login(ctx(), &LoginInput{Email: "asha@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	logged, err := svc.Login(ctx(), &LoginInput{Email: " ASHA@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, logged.User.ID)
}

func TestAuthService_LoginUnknownUser(t *testing.T) {
	svc, _ := newAuthService(t)
	_, err := svc.Login(ctx(), &LoginInput{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	svc, jwtManager := newAuthService(t)

	out, err := svc.Signup(ctx(), &SignupInput{Name: "Ravi", Email: "ravi@example.com", Password: "secret123"})
	require.NoError(t, err)
	token := out.Tokens.AccessToken
	assert.True(t, svc.IsLoggedIn(ctx(), token))

	claims, err := jwtManager.ValidateAccessToken(token)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx(), claims))

	assert.False(t, svc.IsLoggedIn(ctx(), token))
	assert.False(t, svc.IsLoggedIn(ctx(), ""))
	assert.ErrorIs(t, svc.Logout(ctx(), &utils.JWTClaims{}), apperror.ErrInvalidToken)
}

func TestAuthService_RefreshToken(t *testing.T) {
	svc, _ := newAuthService(t)

	out, err := svc.Signup(ctx(), &SignupInput{Name: "Meera", Email: "meera@example.com", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx(), out.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.Tokens.AccessToken)

	_, err = svc.RefreshToken(ctx(), out.Tokens.AccessToken)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestAuthService_GoogleNotConfigured(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.GoogleAuthURL()
	assert.Equal(t, http.StatusServiceUnavailable, appCode(err))

	_, err = svc.GoogleCallback(ctx(), "state", "code")
	assert.Equal(t, http.StatusServiceUnavailable, appCode(err))
}
