package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/gst-invoice-api/internal/domain/entity"
)

// ProfileRepository defines the interface for business profile data access
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.BusinessProfile, error)
	Create(ctx context.Context, profile *entity.BusinessProfile) error
	Update(ctx context.Context, profile *entity.BusinessProfile) error
}
