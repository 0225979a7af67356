package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/gst-invoice-api/internal/domain/entity"
	domainRepo "github.com/sangkips/gst-invoice-api/internal/domain/repository"
	"gorm.io/gorm"
)

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new business profile repository
func NewProfileRepository(db *gorm.DB) domainRepo.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.BusinessProfile, error) {
	var profile entity.BusinessProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &profile, err
}

func (r *profileRepository) Create(ctx context.Context, profile *entity.BusinessProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// Update saves profile fields but never the numbering counters, which only
// move inside document creation.
func (r *profileRepository) Update(ctx context.Context, profile *entity.BusinessProfile) error {
	return r.db.WithContext(ctx).
		Omit("next_invoice_number", "next_debit_note_number", "next_credit_note_number").
		Save(profile).Error
}
