package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/gst-invoice-api/internal/domain/entity"
	"github.com/sangkips/gst-invoice-api/internal/domain/gst"
	"github.com/sangkips/gst-invoice-api/internal/domain/repository"
	"github.com/sangkips/gst-invoice-api/pkg/apperror"
	"github.com/sangkips/gst-invoice-api/pkg/pagination"
)

// ClientService handles client-related operations
type ClientService struct {
	clientRepo repository.ClientRepository
}

// NewClientService creates a new client service
func NewClientService(clientRepo repository.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// ClientInput represents client fields. Nil fields are left unchanged on update.
type ClientInput struct {
	CompanyName *string
	OwnerName   *string
	GSTNumber   *string
	Address     *string
	City        *string
	State       *string
	StateCode   *string
	Pincode     *string
	Phone       *string
	Email       *string
	PAN         *string
}

// CreateClient creates a new client
func (s *ClientService) CreateClient(ctx context.Context, userID uuid.UUID, input *ClientInput) (*entity.Client, error) {
	client := &entity.Client{UserID: userID}
	applyClient(client, input)
	if client.CompanyName == "" {
		return nil, apperror.NewValidationError(requiredFields("company_name", ""))
	}
	deriveClient(client)

	if err := s.ensureUniqueGST(ctx, userID, uuid.Nil, client.GSTNumber); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// GetClient retrieves a client by ID
func (s *ClientService) GetClient(ctx context.Context, userID, id uuid.UUID) (*entity.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.NewNotFoundError("Client")
	}
	return client, nil
}

// ListClients lists the user's clients
func (s *ClientService) ListClients(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Client], error) {
	clients, total, err := s.clientRepo.List(ctx, userID, params, search)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(clients, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// UpdateClient updates a client
func (s *ClientService) UpdateClient(ctx context.Context, userID, id uuid.UUID, input *ClientInput) (*entity.Client, error) {
	client, err := s.GetClient(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.GSTNumber != nil && input.StateCode == nil {
		client.StateCode = nil
		client.State = nil
	}
	applyClient(client, input)
	if client.CompanyName == "" {
		return nil, apperror.NewValidationError(requiredFields("company_name", ""))
	}
	deriveClient(client)

	if err := s.ensureUniqueGST(ctx, userID, client.ID, client.GSTNumber); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// DeleteClient deletes a client. Issued documents keep their recipient snapshot.
func (s *ClientService) DeleteClient(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.GetClient(ctx, userID, id); err != nil {
		return err
	}
	return s.clientRepo.Delete(ctx, userID, id)
}

// ClientSearchInput holds the raw search filters; exactly one must be set.
type ClientSearchInput struct {
	ID        string
	Name      string
	OwnerName string
	GSTNumber string
}

// SearchClients finds clients by exactly one filter
func (s *ClientService) SearchClients(ctx context.Context, userID uuid.UUID, input *ClientSearchInput) ([]entity.Client, error) {
	if err := exactlyOne(input.ID, input.Name, input.OwnerName, input.GSTNumber); err != nil {
		return nil, err
	}

	filter := repository.ClientFilter{
		Name:      strings.TrimSpace(input.Name),
		OwnerName: strings.TrimSpace(input.OwnerName),
		GSTNumber: strings.ToUpper(strings.TrimSpace(input.GSTNumber)),
	}
	if input.ID != "" {
		id, err := uuid.Parse(strings.TrimSpace(input.ID))
		if err != nil {
			return nil, apperror.NewBadRequestError("Invalid client ID")
		}
		filter.ID = &id
	}

	clients, err := s.clientRepo.Search(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	if clients == nil {
		clients = []entity.Client{}
	}
	return clients, nil
}

func (s *ClientService) ensureUniqueGST(ctx context.Context, userID, selfID uuid.UUID, gstNumber *string) error {
	if gstNumber == nil || *gstNumber == "" {
		return nil
	}
	existing, err := s.clientRepo.GetByGSTNumber(ctx, userID, *gstNumber)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return apperror.NewConflictError("A client with this GST number already exists")
	}
	return nil
}

// exactlyOne enforces single-filter searches.
func exactlyOne(values ...string) error {
	set := 0
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			set++
		}
	}
	switch {
	case set == 0:
		return apperror.ErrFilterRequired
	case set > 1:
		return apperror.ErrTooManyFilters
	}
	return nil
}

func applyClient(c *entity.Client, in *ClientInput) {
	if in.CompanyName != nil {
		c.CompanyName = strings.TrimSpace(*in.CompanyName)
	}
	setOptional := func(dst **string, src *string, upper bool) {
		if src == nil {
			return
		}
		v := strings.TrimSpace(*src)
		if upper {
			v = strings.ToUpper(v)
		}
		if v == "" {
			*dst = nil
			return
		}
		*dst = &v
	}
	setOptional(&c.OwnerName, in.OwnerName, false)
	setOptional(&c.GSTNumber, in.GSTNumber, true)
	setOptional(&c.Address, in.Address, false)
	setOptional(&c.City, in.City, false)
	setOptional(&c.State, in.State, false)
	setOptional(&c.StateCode, in.StateCode, false)
	setOptional(&c.Pincode, in.Pincode, false)
	setOptional(&c.Phone, in.Phone, false)
	setOptional(&c.Email, in.Email, false)
	setOptional(&c.PAN, in.PAN, true)
}

func deriveClient(c *entity.Client) {
	if c.GSTNumber == nil {
		return
	}
	if c.StateCode == nil {
		if code := gst.StateCodeFromGSTIN(*c.GSTNumber); code != "" {
			c.StateCode = &code
		}
	}
	if c.State == nil && c.StateCode != nil {
		if name, ok := gst.StateName(*c.StateCode); ok {
			c.State = &name
		}
	}
	if c.PAN == nil {
		if pan := gst.PANFromGSTIN(*c.GSTNumber); pan != "" {
			c.PAN = &pan
		}
	}
}
