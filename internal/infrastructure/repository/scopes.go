package repository

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnedBy returns a GORM scope that restricts a query to rows of one user.
// Every user-owned table carries a user_id column.
func OwnedBy(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if userID == uuid.Nil {
			// Fail-safe: no owner, no rows
			return db.Where("1 = 0")
		}
		return db.Where("user_id = ?", userID)
	}
}

// ContainsFold returns a GORM scope matching term as a case-insensitive
// substring of any of columns. It works the same on SQLite and PostgreSQL.
func ContainsFold(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ? ESCAPE '\\'"
			args[i] = pattern
		}
		return db.Where(strings.Join(clauses, " OR "), args...)
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
