package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/gst-invoice-api/internal/domain/entity"
	domainRepo "github.com/sangkips/gst-invoice-api/internal/domain/repository"
	"github.com/sangkips/gst-invoice-api/pkg/pagination"
	"gorm.io/gorm"
)

// maxSearchResults caps the filter-based search endpoints.
const maxSearchResults = 50

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) domainRepo.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *entity.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Client, error) {
	var client entity.Client
	err := r.db.WithContext(ctx).Scopes(OwnedBy(userID)).First(&client, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &client, err
}

func (r *clientRepository) GetByGSTNumber(ctx context.Context, userID uuid.UUID, gstNumber string) (*entity.Client, error) {
	var client entity.Client
	err := r.db.WithContext(ctx).Scopes(OwnedBy(userID)).First(&client, "gst_number = ?", gstNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &client, err
}

func (r *clientRepository) Update(ctx context.Context, client *entity.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *clientRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(OwnedBy(userID)).Delete(&entity.Client{}, "id = ?", id).Error
}

func (r *clientRepository) List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Client, int64, error) {
	var clients []entity.Client
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Client{}).
		Scopes(OwnedBy(userID), ContainsFold(search, "company_name", "owner_name", "gst_number", "email", "phone"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("company_name ASC").
		Find(&clients).Error

	return clients, total, err
}

func (r *clientRepository) Search(ctx context.Context, userID uuid.UUID, filter domainRepo.ClientFilter) ([]entity.Client, error) {
	var clients []entity.Client

	query := r.db.WithContext(ctx).Model(&entity.Client{}).Scopes(OwnedBy(userID))
	switch {
	case filter.ID != nil:
		query = query.Where("id = ?", *filter.ID)
	case filter.GSTNumber != "":
		query = query.Where("gst_number = ?", filter.GSTNumber)
	case filter.Name != "":
		query = query.Scopes(ContainsFold(filter.Name, "company_name"))
	case filter.OwnerName != "":
		query = query.Scopes(ContainsFold(filter.OwnerName, "owner_name"))
	}

	err := query.Order("company_name ASC").Limit(maxSearchResults).Find(&clients).Error
	return clients, err
}
