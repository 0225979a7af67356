package database

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sangkips/gst-invoice-api/internal/config"
	"github.com/sangkips/gst-invoice-api/internal/domain/entity"
	"github.com/sangkips/gst-invoice-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, AutoMigrate(db, zap.NewNop()))
	return db
}

func TestSeedDefaultData(t *testing.T) {
	db := setupTestDB(t)
	admin := config.AdminConfig{Name: "Owner", Email: "owner@example.com", Password: "secret123"}

	require.NoError(t, SeedDefaultData(db, admin, utils.HashPassword, zap.NewNop()))
	// second run must not duplicate anything
	require.NoError(t, SeedDefaultData(db, admin, utils.HashPassword, zap.NewNop()))

	var permCount, roleCount, userCount int64
	db.Model(&entity.Permission{}).Count(&permCount)
	db.Model(&entity.Role{}).Count(&roleCount)
	db.Model(&entity.User{}).Count(&userCount)
	assert.EqualValues(t, 4, permCount)
	assert.EqualValues(t, 2, roleCount)
	assert.EqualValues(t, 1, userCount)

	var user entity.User
	require.NoError(t, db.Preload("Roles.Permissions").Where("email = ?", admin.Email).First(&user).Error)
	assert.True(t, user.HasRole(entity.RoleAdmin))
	assert.True(t, user.HasPermission(entity.PermissionManageHSN))
	assert.True(t, utils.CheckPasswordHash("secret123", user.Password))

	var userRole entity.Role
	require.NoError(t, db.Preload("Permissions").Where("name = ?", entity.RoleUser).First(&userRole).Error)
	names := make([]string, 0, len(userRole.Permissions))
	for _, p := range userRole.Permissions {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{entity.PermissionManageClients, entity.PermissionManageDocuments, entity.PermissionManageProfile}, names)
}

func TestSeedDefaultData_NoAdminConfigured(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SeedDefaultData(db, config.AdminConfig{}, utils.HashPassword, zap.NewNop()))

	var userCount int64
	db.Model(&entity.User{}).Count(&userCount)
	assert.Zero(t, userCount)
}

func TestNewDB_SQLiteFile(t *testing.T) {
	cfg := &config.DatabaseConfig{Driver: "sqlite", SQLitePath: t.TempDir() + "/test.db", LogLevel: "silent"}
	db, err := NewDB(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db, zap.NewNop()))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
	sqlDB.Close()
}
