package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/gst-invoice-api/internal/domain/entity"
	domainRepo "github.com/sangkips/gst-invoice-api/internal/domain/repository"
	"github.com/sangkips/gst-invoice-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *gorm.DB) domainRepo.DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) CreateNumbered(ctx context.Context, doc *entity.Document) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if doc.Number != "" {
			taken, err := numberTaken(tx, doc.UserID, doc.Number)
			if err != nil {
				return err
			}
			if taken {
				return domainRepo.ErrDuplicateNumber
			}
			return insertDocument(tx, doc)
		}

		var profile entity.BusinessProfile
		query := tx.Where("user_id = ?", doc.UserID)
		if tx.Dialector.Name() == "postgres" {
			// sqlite serialises writers; postgres needs the row lock
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := query.First(&profile).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainRepo.ErrProfileMissing
			}
			return err
		}

		prefix, next, column := profile.Numbering(doc.Type)
		// skip numbers already used by manually numbered legacy documents
		for {
			doc.Number = entity.FormatDocumentNumber(prefix, next)
			taken, err := numberTaken(tx, doc.UserID, doc.Number)
			if err != nil {
				return err
			}
			if !taken {
				break
			}
			next++
		}

		if err := insertDocument(tx, doc); err != nil {
			doc.Number = ""
			return err
		}
		return tx.Model(&entity.BusinessProfile{}).
			Where("id = ?", profile.ID).
			UpdateColumn(column, next+1).Error
	})
}

// insertDocument reports a concurrent insert of the same number as
// ErrDuplicateNumber rather than a raw constraint error.
func insertDocument(tx *gorm.DB, doc *entity.Document) error {
	err := tx.Create(doc).Error
	if isUniqueViolation(err) {
		return domainRepo.ErrDuplicateNumber
	}
	return err
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// glebarez/sqlite does not translate constraint errors
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "SQLSTATE 23505")
}

func numberTaken(tx *gorm.DB, userID uuid.UUID, number string) (bool, error) {
	var count int64
	err := tx.Model(&entity.Document{}).Unscoped().
		Where("user_id = ? AND number = ?", userID, number).
		Count(&count).Error
	return count > 0, err
}

func (r *documentRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Document, error) {
	var doc entity.Document
	err := r.db.WithContext(ctx).Scopes(OwnedBy(userID)).First(&doc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &doc, err
}

func (r *documentRepository) GetByNumber(ctx context.Context, userID uuid.UUID, number string) (*entity.Document, error) {
	var doc entity.Document
	err := r.db.WithContext(ctx).Scopes(OwnedBy(userID)).First(&doc, "number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &doc, err
}

func (r *documentRepository) List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, filter domainRepo.DocumentListParams) ([]entity.Document, int64, error) {
	var docs []entity.Document
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Document{}).
		Scopes(OwnedBy(userID), ContainsFold(filter.Search, "number", "recipient_name", "recipient_gstin"))
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("date DESC, created_at DESC").
		Find(&docs).Error

	return docs, total, err
}

func (r *documentRepository) Search(ctx context.Context, userID uuid.UUID, filter domainRepo.DocumentFilter) ([]entity.Document, error) {
	var docs []entity.Document

	query := r.db.WithContext(ctx).Model(&entity.Document{}).Scopes(OwnedBy(userID))
	switch {
	case filter.ID != nil:
		query = query.Where("id = ?", *filter.ID)
	case filter.Number != "":
		query = query.Where("number = ?", filter.Number)
	case filter.RecipientGSTNumber != "":
		query = query.Where("recipient_gstin = ?", filter.RecipientGSTNumber)
	case filter.RecipientName != "":
		query = query.Scopes(ContainsFold(filter.RecipientName, "recipient_name"))
	}

	err := query.Order("date DESC, created_at DESC").Limit(maxSearchResults).Find(&docs).Error
	return docs, err
}
