package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/gst-invoice-api/internal/application/service"
	"github.com/sangkips/gst-invoice-api/internal/presentation/http/dto/request"
	"github.com/sangkips/gst-invoice-api/internal/presentation/http/dto/response"
)

// ClientHandler handles client-related HTTP requests
type ClientHandler struct {
	clientService *service.ClientService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

func clientInput(req *request.ClientRequest) *service.ClientInput {
	return &service.ClientInput{
		CompanyName: req.CompanyName,
		OwnerName:   req.OwnerName,
		GSTNumber:   req.GSTNumber,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		StateCode:   req.StateCode,
		Pincode:     req.Pincode,
		Phone:       req.Phone,
		Email:       req.Email,
		PAN:         req.PAN,
	}
}

// List returns a paginated list of clients
// @Summary List clients
// @Description Get paginated list of clients
// @Tags clients
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param search query string false "Search term"
// @Success 200 {object} response.APIResponse
// @Router /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	params := paginationParams(c)
	result, err := h.clientService.ListClients(c.Request.Context(), userID, params, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Clients retrieved successfully", result)
}

// Search finds clients by exactly one filter
// @Summary Search clients
// @Tags clients
// @Security BearerAuth
// @Produce json
// @Param id query string false "Client ID"
// @Param name query string false "Company name"
// @Param owner_name query string false "Owner name"
// @Param gst_number query string false "GST number"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /clients/search [get]
func (h *ClientHandler) Search(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.ClientSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid search parameters")
		return
	}

	clients, err := h.clientService.SearchClients(c.Request.Context(), userID, &service.ClientSearchInput{
		ID:        req.ID,
		Name:      req.Name,
		OwnerName: req.OwnerName,
		GSTNumber: req.GSTNumber,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Clients retrieved successfully", clients)
}

// Create adds a client
// @Summary Create client
// @Tags clients
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.ClientRequest true "Client"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.ClientRequest
	if !bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), userID, clientInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Client created successfully", client)
}

// Get returns a single client
func (h *ClientHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "client")
	if !ok {
		return
	}

	client, err := h.clientService.GetClient(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Client retrieved successfully", client)
}

// Update changes the supplied client fields
func (h *ClientHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "client")
	if !ok {
		return
	}

	var req request.ClientRequest
	if !bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), userID, id, clientInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Client updated successfully", client)
}

// Delete removes a client
func (h *ClientHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "client")
	if !ok {
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Client deleted successfully", nil)
}
