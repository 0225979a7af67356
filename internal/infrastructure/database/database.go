package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sangkips/gst-invoice-api/internal/config"
	"github.com/sangkips/gst-invoice-api/internal/domain/entity"
	"github.com/sangkips/gst-invoice-api/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewDB opens the configured database (sqlite file or PostgreSQL) with a zap
// backed gorm logger.
func NewDB(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		})
	default:
		// foreign keys and a busy timeout keep concurrent writers from failing fast
		dialector = sqlite.Open(cfg.SQLitePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.NewGormLogger(log, logger.ParseGormLevel(cfg.LogLevel), cfg.SlowQuery),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.Driver == "postgres" {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	} else {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	}

	log.Info("database connected", zap.String("driver", cfg.Driver))
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	err := db.AutoMigrate(
		// User-related entities
		&entity.User{},
		&entity.Role{},
		&entity.Permission{},

		// Business entities
		&entity.BusinessProfile{},
		&entity.Client{},
		&entity.Document{},
		&entity.HSNCode{},

		// System entities
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

// rolePermissions lists the permissions granted to each seeded role.
var rolePermissions = map[string][]string{
	entity.RoleAdmin: {
		entity.PermissionManageClients,
		entity.PermissionManageDocuments,
		entity.PermissionManageHSN,
		entity.PermissionManageProfile,
	},
	entity.RoleUser: {
		entity.PermissionManageClients,
		entity.PermissionManageDocuments,
		entity.PermissionManageProfile,
	},
}

// SeedDefaultData seeds roles, permissions and, when configured, an admin user.
// It is safe to run on every start.
func SeedDefaultData(db *gorm.DB, admin config.AdminConfig, hash func(string) (string, error), log *zap.Logger) error {
	log.Info("seeding default data")

	for _, name := range rolePermissions[entity.RoleAdmin] {
		p := entity.Permission{Name: name, GuardName: "web"}
		if err := db.Where(entity.Permission{Name: name}).FirstOrCreate(&p).Error; err != nil {
			return fmt.Errorf("failed to create permission %s: %w", name, err)
		}
	}

	var allPermissions []entity.Permission
	if err := db.Find(&allPermissions).Error; err != nil {
		return fmt.Errorf("failed to load permissions: %w", err)
	}
	byName := make(map[string]entity.Permission, len(allPermissions))
	for _, p := range allPermissions {
		byName[p.Name] = p
	}

	for _, roleName := range []string{entity.RoleAdmin, entity.RoleUser} {
		var role entity.Role
		if err := db.Where("name = ?", roleName).First(&role).Error; err == nil {
			continue
		}
		perms := make([]entity.Permission, 0, len(rolePermissions[roleName]))
		for _, name := range rolePermissions[roleName] {
			perms = append(perms, byName[name])
		}
		role = entity.Role{Name: roleName, GuardName: "web", Permissions: perms}
		if err := db.Create(&role).Error; err != nil {
			return fmt.Errorf("failed to create role %s: %w", roleName, err)
		}
	}

	if admin.Email == "" || admin.Password == "" {
		log.Info("default data seeding completed")
		return nil
	}

	var existing entity.User
	if err := db.Where("email = ?", admin.Email).First(&existing).Error; err == nil {
		log.Debug("admin user already exists", zap.String("email", admin.Email))
		return nil
	}

	hashed, err := hash(admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	var adminRole entity.Role
	if err := db.Where("name = ?", entity.RoleAdmin).First(&adminRole).Error; err != nil {
		return fmt.Errorf("failed to load admin role: %w", err)
	}

	name := admin.Name
	if name == "" {
		name = "Administrator"
	}
	adminUser := entity.User{
		Name:     name,
		Email:    admin.Email,
		Password: hashed,
		Roles:    []entity.Role{adminRole},
	}
	if err := db.Create(&adminUser).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Info("admin user created", zap.String("email", admin.Email))
	return nil
}
