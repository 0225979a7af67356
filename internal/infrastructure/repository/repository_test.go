package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sangkips/gst-invoice-api/internal/domain/entity"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Role{},
		&entity.Permission{},
		&entity.BusinessProfile{},
		&entity.Client{},
		&entity.Document{},
		&entity.HSNCode{},
		&entity.IdempotencyKey{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *entity.User {
	t.Helper()
	user := &entity.User{Name: "Test User", Email: email, Password: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createProfile(t *testing.T, db *gorm.DB, userID uuid.UUID) *entity.BusinessProfile {
	t.Helper()
	now := time.Now()
	profile := &entity.BusinessProfile{
		UserID:      userID,
		CompanyName: "Sri Lakshmi Steels",
		GSTNumber:   "29ABCDE1234F1Z5",
		Address:     "Peenya, Bengaluru",
		StateCode:   "29",
		OnboardedAt: &now,
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

func ctx() context.Context {
	return context.Background()
}
