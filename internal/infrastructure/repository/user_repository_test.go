package repository

import (
	"testing"
	"time"

	"github.com/sangkips/gst-invoice-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	roles := NewRoleRepository(db)

	perm := entity.Permission{Name: entity.PermissionManageClients, GuardName: "web"}
	require.NoError(t, db.Create(&perm).Error)
	role := entity.Role{Name: entity.RoleUser, GuardName: "web", Permissions: []entity.Permission{perm}}
	require.NoError(t, db.Create(&role).Error)

	googleID := "google-123"
	user := &entity.User{Name: "Priya", Email: "Priya@Example.com", Provider: "google", ProviderID: &googleID}
	require.NoError(t, users.Create(ctx(), user))

	byEmail, err := users.GetByEmail(ctx(), "priya@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail, "email lookup ignores case")

	byProvider, err := users.GetByProvider(ctx(), "google", googleID)
	require.NoError(t, err)
	require.NotNil(t, byProvider)
	assert.Equal(t, user.ID, byProvider.ID)

	found, err := roles.GetByName(ctx(), entity.RoleUser)
	require.NoError(t, err)
	require.NotNil(t, found)

	require.NoError(t, users.AssignRole(ctx(), user.ID, found.ID))
	require.NoError(t, users.AssignRole(ctx(), user.ID, found.ID), "assigning twice is a no-op")

	withRoles, err := users.GetWithRoles(ctx(), user.ID)
	require.NoError(t, err)
	require.Len(t, withRoles.Roles, 1)
	assert.True(t, withRoles.HasPermission(entity.PermissionManageClients))
	assert.Equal(t, []string{entity.RoleUser}, withRoles.GetRoleNames())

	now := time.Now()
	withRoles.EmailVerifiedAt = &now
	require.NoError(t, users.Update(ctx(), withRoles))
	reloaded, err := users.GetByID(ctx(), user.ID)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.EmailVerifiedAt)

	all, err := roles.List(ctx())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestProfileRepository_UpdateKeepsCounters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfileRepository(db)
	user := createUser(t, db, "owner@example.com")
	createProfile(t, db, user.ID)

	require.NoError(t, db.Model(&entity.BusinessProfile{}).Where("user_id = ?", user.ID).
		Update("next_invoice_number", 42).Error)

	profile, err := repo.GetByUserID(ctx(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "INV", profile.InvoicePrefix)

	stale := *profile
	stale.NextInvoiceNumber = 1
	stale.CompanyName = "Renamed Steels"
	require.NoError(t, repo.Update(ctx(), &stale))

	reloaded, err := repo.GetByUserID(ctx(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Steels", reloaded.CompanyName)
	assert.Equal(t, 42, reloaded.NextInvoiceNumber)
}

func TestIdempotencyRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIdempotencyRepository(db)
	user := createUser(t, db, "owner@example.com")

	require.NoError(t, repo.Create(ctx(), &entity.IdempotencyKey{
		Key: "k1", UserID: user.ID, Endpoint: "POST /api/v1/documents",
		ResponseCode: 201, ResponseBody: "{}", ExpiresAt: time.Now().Add(time.Hour),
	}))
	require.NoError(t, repo.Create(ctx(), &entity.IdempotencyKey{
		Key: "k2", UserID: user.ID, Endpoint: "POST /api/v1/documents",
		ResponseCode: 201, ResponseBody: "{}", ExpiresAt: time.Now().Add(-time.Hour),
	}))

	got, err := repo.GetByKey(ctx(), "k1", user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IsExpired())

	removed, err := repo.DeleteExpired(ctx())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	gone, err := repo.GetByKey(ctx(), "k2", user.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	require.NoError(t, repo.Create(ctx(), &entity.IdempotencyKey{
		Key: "k1", UserID: user.ID, Endpoint: "POST /api/v1/documents",
		ResponseCode: 201, ResponseBody: `{"replaced":true}`, ExpiresAt: time.Now().Add(time.Hour),
	}))
	got, err = repo.GetByKey(ctx(), "k1", user.ID)
	require.NoError(t, err)
	assert.Equal(t, `{"replaced":true}`, got.ResponseBody)
}
