package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/gst-invoice-api/internal/domain/entity"
	"github.com/sangkips/gst-invoice-api/internal/domain/enum"
	"github.com/sangkips/gst-invoice-api/pkg/pagination"
)

var (
	// ErrProfileMissing is returned when numbering is requested for a user
	// without a business profile.
	ErrProfileMissing = errors.New("business profile not found")
	// ErrDuplicateNumber is returned when a document number is already used
	// by the same user.
	ErrDuplicateNumber = errors.New("document number already exists")
)

// DocumentFilter selects documents by exactly one field. RecipientName matches
// a case-insensitive substring, the rest match exactly.
type DocumentFilter struct {
	ID                 *uuid.UUID
	Number             string
	RecipientName      string
	RecipientGSTNumber string
}

// DocumentListParams narrows a document listing
type DocumentListParams struct {
	Type     *enum.DocumentType
	ClientID *uuid.UUID
	Search   string
}

// DocumentRepository defines the interface for document data operations
type DocumentRepository interface {
	// CreateNumbered inserts doc. When doc.Number is empty the next number for
	// doc.Type is taken from the owner's business profile and the counter is
	// advanced in the same transaction.
	CreateNumbered(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Document, error)
	GetByNumber(ctx context.Context, userID uuid.UUID, number string) (*entity.Document, error)
	List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, filter DocumentListParams) ([]entity.Document, int64, error)
	Search(ctx context.Context, userID uuid.UUID, filter DocumentFilter) ([]entity.Document, error)
}
