package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/gst-invoice-api/internal/application/service"
	"github.com/sangkips/gst-invoice-api/internal/presentation/http/dto/request"
	"github.com/sangkips/gst-invoice-api/internal/presentation/http/dto/response"
)

// ProfileHandler handles the business profile and onboarding
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func profileInput(req *request.ProfileRequest) *service.ProfileInput {
	return &service.ProfileInput{
		CompanyName:       req.CompanyName,
		GSTNumber:         req.GSTNumber,
		Address:           req.Address,
		City:              req.City,
		State:             req.State,
		StateCode:         req.StateCode,
		Pincode:           req.Pincode,
		Phone:             req.Phone,
		Email:             req.Email,
		PAN:               req.PAN,
		BankName:          req.BankName,
		BankBranch:        req.BankBranch,
		BankIFSC:          req.BankIFSC,
		BankAccountNumber: req.BankAccountNumber,
		InvoicePrefix:     req.InvoicePrefix,
		DebitNotePrefix:   req.DebitNotePrefix,
		CreditNotePrefix:  req.CreditNotePrefix,
	}
}

// OnboardingStatus reports whether the business profile is complete
// @Summary Onboarding status
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /onboarding/status [get]
func (h *ProfileHandler) OnboardingStatus(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	onboarded, err := h.profileService.IsOnboarded(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Onboarding status retrieved", gin.H{"onboarded": onboarded})
}

// CompleteOnboarding creates the business profile
// @Summary Complete onboarding
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.ProfileRequest true "Business profile"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /onboarding [post]
func (h *ProfileHandler) CompleteOnboarding(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.ProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.profileService.CompleteOnboarding(c.Request.Context(), userID, profileInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Onboarding completed", profile)
}

// GetProfile returns the business profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profile retrieved successfully", profile)
}

// UpdateProfile changes the supplied profile fields
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.ProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, profileInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profile updated successfully", profile)
}
