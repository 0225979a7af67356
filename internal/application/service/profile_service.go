package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/gst-invoice-api/internal/domain/entity"
	"github.com/sangkips/gst-invoice-api/internal/domain/gst"
	"github.com/sangkips/gst-invoice-api/internal/domain/repository"
	"github.com/sangkips/gst-invoice-api/pkg/apperror"
)

// ProfileService manages onboarding and the business profile
type ProfileService struct {
	profileRepo repository.ProfileRepository
}

// NewProfileService creates a new profile service
func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

// ProfileInput carries business profile fields. Nil fields are left unchanged
// on update.
type ProfileInput struct {
	CompanyName       *string
	GSTNumber         *string
	Address           *string
	City              *string
	State             *string
	StateCode         *string
	Pincode           *string
	Phone             *string
	Email             *string
	PAN               *string
	BankName          *string
	BankBranch        *string
	BankIFSC          *string
	BankAccountNumber *string
	InvoicePrefix     *string
	DebitNotePrefix   *string
	CreditNotePrefix  *string
}

// CompleteOnboarding creates or completes the business profile of a user
func (s *ProfileService) CompleteOnboarding(ctx context.Context, userID uuid.UUID, input *ProfileInput) (*entity.BusinessProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.IsOnboarded() {
		return nil, apperror.NewConflictError("Onboarding already completed")
	}

	isNew := profile == nil
	if isNew {
		profile = &entity.BusinessProfile{UserID: userID}
	}
	apply(profile, input)
	derive(profile)

	if missing := requiredFields(
		"company_name", profile.CompanyName,
		"gst_number", profile.GSTNumber,
		"address", profile.Address,
	); len(missing) > 0 {
		return nil, apperror.NewValidationError(missing)
	}
	if err := checkStateCode(profile.GSTNumber, profile.StateCode); err != nil {
		return nil, err
	}

	now := time.Now()
	profile.OnboardedAt = &now
	if isNew {
		err = s.profileRepo.Create(ctx, profile)
	} else {
		err = s.profileRepo.Update(ctx, profile)
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// IsOnboarded reports whether the user has completed onboarding
func (s *ProfileService) IsOnboarded(ctx context.Context, userID uuid.UUID) (bool, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	return profile.IsOnboarded(), nil
}

// GetProfile returns the business profile of a user
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.BusinessProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperror.NewNotFoundError("Business profile")
	}
	return profile, nil
}

// UpdateProfile applies a partial update to the business profile
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *ProfileInput) (*entity.BusinessProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	gstinChanged := input.GSTNumber != nil && !strings.EqualFold(*input.GSTNumber, profile.GSTNumber)
	if gstinChanged && input.StateCode == nil {
		profile.StateCode = ""
		profile.State = ""
	}
	apply(profile, input)
	derive(profile)
	if err := checkStateCode(profile.GSTNumber, profile.StateCode); err != nil {
		return nil, err
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func apply(p *entity.BusinessProfile, in *ProfileInput) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&p.CompanyName, in.CompanyName)
	set(&p.GSTNumber, in.GSTNumber)
	set(&p.Address, in.Address)
	set(&p.City, in.City)
	set(&p.State, in.State)
	set(&p.StateCode, in.StateCode)
	set(&p.Pincode, in.Pincode)
	set(&p.Phone, in.Phone)
	set(&p.Email, in.Email)
	set(&p.PAN, in.PAN)
	set(&p.BankName, in.BankName)
	set(&p.BankBranch, in.BankBranch)
	set(&p.BankIFSC, in.BankIFSC)
	set(&p.BankAccountNumber, in.BankAccountNumber)
	set(&p.InvoicePrefix, in.InvoicePrefix)
	set(&p.DebitNotePrefix, in.DebitNotePrefix)
	set(&p.CreditNotePrefix, in.CreditNotePrefix)

	p.GSTNumber = strings.ToUpper(p.GSTNumber)
	p.PAN = strings.ToUpper(p.PAN)
	p.BankIFSC = strings.ToUpper(p.BankIFSC)
}

// derive fills state, state code and PAN from the GSTIN when they are empty.
func derive(p *entity.BusinessProfile) {
	if p.StateCode == "" {
		p.StateCode = gst.StateCodeFromGSTIN(p.GSTNumber)
	}
	if p.State == "" {
		if name, ok := gst.StateName(p.StateCode); ok {
			p.State = name
		}
	}
	if p.PAN == "" {
		p.PAN = gst.PANFromGSTIN(p.GSTNumber)
	}
}

// requiredFields takes name, value pairs and reports the empty ones.
func requiredFields(pairs ...string) []apperror.FieldError {
	var missing []apperror.FieldError
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, apperror.FieldError{Field: pairs[i], Message: "This field is required"})
		}
	}
	return missing
}

func checkStateCode(gstin, stateCode string) error {
	fromGSTIN := gst.StateCodeFromGSTIN(gstin)
	if fromGSTIN != "" && stateCode != "" && fromGSTIN != stateCode {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "state_code", Message: "State code does not match the GST number"},
		})
	}
	return nil
}
