package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/gst-invoice-api/internal/application/service"
	"github.com/sangkips/gst-invoice-api/internal/presentation/http/dto/response"
)

// HSNHandler serves the HSN/SAC rate table
type HSNHandler struct {
	hsnService *service.HSNService
	maxUpload  int64
}

// NewHSNHandler creates a new HSN handler. maxUpload caps the size of an
// imported workbook in bytes.
func NewHSNHandler(hsnService *service.HSNService, maxUpload int64) *HSNHandler {
	return &HSNHandler{hsnService: hsnService, maxUpload: maxUpload}
}

// Get looks up a code, falling back to its shorter headings
// @Summary Look up an HSN code
// @Tags hsn
// @Security BearerAuth
// @Produce json
// @Param code path string true "HSN code (4, 6 or 8 digits)"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /hsn/{code} [get]
func (h *HSNHandler) Get(c *gin.Context) {
	code, err := h.hsnService.Lookup(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "HSN code retrieved successfully", code)
}

// List returns a page of HSN codes
func (h *HSNHandler) List(c *gin.Context) {
	params := paginationParams(c)
	result, err := h.hsnService.List(c.Request.Context(), params, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "HSN codes retrieved successfully", result)
}

// Import loads an .xlsx rate table
// @Summary Import HSN codes
// @Description Upload an .xlsx workbook with code, description and rate columns
// @Tags hsn
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Workbook"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /hsn/import [post]
func (h *HSNHandler) Import(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "A file field named \"file\" is required")
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		response.BadRequest(c, "Only .xlsx workbooks are supported")
		return
	}
	if h.maxUpload > 0 && header.Size > h.maxUpload {
		response.BadRequest(c, fmt.Sprintf("File exceeds the %d byte upload limit", h.maxUpload))
		return
	}

	f, err := header.Open()
	if err != nil {
		response.BadRequest(c, "Could not read uploaded file")
		return
	}
	defer f.Close()

	result, err := h.hsnService.Import(c.Request.Context(), f)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "HSN codes imported", result)
}
