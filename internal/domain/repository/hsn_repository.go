package repository

import (
	"context"

	"github.com/sangkips/gst-invoice-api/internal/domain/entity"
	"github.com/sangkips/gst-invoice-api/pkg/pagination"
)

// HSNRepository defines the interface for the HSN/SAC master
type HSNRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.HSNCode, error)
	// FindByCodes returns the entries whose code is one of codes.
	FindByCodes(ctx context.Context, codes []string) ([]entity.HSNCode, error)
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.HSNCode, int64, error)
	// Upsert inserts entries or replaces description and rate of existing codes.
	Upsert(ctx context.Context, codes []entity.HSNCode) error
}
