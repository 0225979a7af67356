package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/gst-invoice-api/internal/domain/entity"
	"github.com/sangkips/gst-invoice-api/pkg/pagination"
)

// ClientFilter selects clients by exactly one field. Name and OwnerName match
// case-insensitive substrings, ID and GSTNumber match exactly.
type ClientFilter struct {
	ID        *uuid.UUID
	Name      string
	OwnerName string
	GSTNumber string
}

// ClientRepository defines the interface for client data operations
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Client, error)
	GetByGSTNumber(ctx context.Context, userID uuid.UUID, gstNumber string) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Client, int64, error)
	Search(ctx context.Context, userID uuid.UUID, filter ClientFilter) ([]entity.Client, error)
}
