package repository

import (
	"context"
	"errors"

	"github.com/sangkips/gst-invoice-api/internal/domain/entity"
	domainRepo "github.com/sangkips/gst-invoice-api/internal/domain/repository"
	"github.com/sangkips/gst-invoice-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// hsnBatchSize bounds the rows per INSERT during imports.
const hsnBatchSize = 500

type hsnRepository struct {
	db *gorm.DB
}

// NewHSNRepository creates a new HSN master repository
func NewHSNRepository(db *gorm.DB) domainRepo.HSNRepository {
	return &hsnRepository{db: db}
}

func (r *hsnRepository) GetByCode(ctx context.Context, code string) (*entity.HSNCode, error) {
	var hsn entity.HSNCode
	err := r.db.WithContext(ctx).First(&hsn, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &hsn, err
}

func (r *hsnRepository) FindByCodes(ctx context.Context, codes []string) ([]entity.HSNCode, error) {
	var found []entity.HSNCode
	if len(codes) == 0 {
		return found, nil
	}
	err := r.db.WithContext(ctx).Where("code IN ?", codes).Find(&found).Error
	return found, err
}

func (r *hsnRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.HSNCode, int64, error) {
	var codes []entity.HSNCode
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.HSNCode{}).
		Scopes(ContainsFold(search, "code", "description"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("code ASC").
		Find(&codes).Error

	return codes, total, err
}

func (r *hsnRepository) Upsert(ctx context.Context, codes []entity.HSNCode) error {
	if len(codes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "gst_rate", "updated_at"}),
		}).
		CreateInBatches(codes, hsnBatchSize).Error
}
