package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sangkips/gst-invoice-api/internal/config"
	"github.com/sangkips/gst-invoice-api/internal/domain/entity"
	"github.com/sangkips/gst-invoice-api/internal/infrastructure/database"
	"github.com/sangkips/gst-invoice-api/pkg/apperror"
	"github.com/sangkips/gst-invoice-api/pkg/utils"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
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

	log := zap.NewNop()
	require.NoError(t, database.AutoMigrate(db, log))
	require.NoError(t, database.SeedDefaultData(db, config.AdminConfig{}, utils.HashPassword, log))
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
		UserID:            userID,
		CompanyName:       "Sri Lakshmi Steels",
		GSTNumber:         "29ABCDE1234F1Z5",
		Address:           "Peenya, Bengaluru",
		State:             "Karnataka",
		StateCode:         "29",
		BankName:          "State Bank of India",
		BankIFSC:          "SBIN0001234",
		BankAccountNumber: "1234567890",
		OnboardedAt:       &now,
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

func appCode(err error) int {
	return apperror.GetAppError(err).Code
}

func ptr[T any](v T) *T {
	return &v
}

func ctx() context.Context {
	return context.Background()
}
