package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/gst-invoice-api/internal/application/service"
	"github.com/sangkips/gst-invoice-api/internal/domain/entity"
	"github.com/sangkips/gst-invoice-api/internal/domain/enum"
	"github.com/sangkips/gst-invoice-api/internal/domain/gst"
	"github.com/sangkips/gst-invoice-api/internal/domain/repository"
	"github.com/sangkips/gst-invoice-api/internal/presentation/http/dto/request"
	"github.com/sangkips/gst-invoice-api/internal/presentation/http/dto/response"
)

// DocumentHandler handles invoices, debit notes and credit notes
type DocumentHandler struct {
	documentService *service.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

func draftInput(req *request.DraftRequest) service.DraftInput {
	items := make([]gst.LineItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = gst.LineItem{
			Description: it.Description,
			HSNCode:     it.HSNCode,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			Rate:        it.Rate,
		}
		if it.Amount != nil {
			items[i].Amount = *it.Amount
			items[i].ManualAmount = true
		}
	}

	charges := make([]gst.AdditionalCharge, len(req.Charges))
	for i, ch := range req.Charges {
		charges[i] = gst.AdditionalCharge{Description: ch.Description, Amount: ch.Amount}
	}

	return service.DraftInput{
		TaxType:  req.TaxType,
		CGSTRate: req.CGSTRate,
		SGSTRate: req.SGSTRate,
		IGSTRate: req.IGSTRate,
		Items:    items,
		Charges:  charges,
	}
}

func documentInput(req *request.CreateDocumentRequest) *service.DocumentInput {
	input := &service.DocumentInput{
		DraftInput:    draftInput(&req.DraftRequest),
		Type:          req.Type,
		Number:        req.Number,
		Date:          req.Date,
		ClientID:      req.ClientID,
		PlaceOfSupply: req.PlaceOfSupply,
		ReverseCharge: req.ReverseCharge,
		Transport: entity.Transport{
			Name:          req.Transport.Name,
			VehicleNumber: req.Transport.VehicleNumber,
			Station:       req.Transport.Station,
			EWayBillNo:    req.Transport.EWayBillNo,
		},
		IRN:                 req.IRN,
		AckNo:               req.AckNo,
		AckDate:             req.AckDate,
		Notes:               req.Notes,
		ReferenceDocumentID: req.ReferenceDocumentID,
	}
	if r := req.Recipient; r != nil {
		input.Recipient = &entity.Party{
			Name:      r.Name,
			Address:   r.Address,
			GSTIN:     r.GSTIN,
			State:     r.State,
			StateCode: r.StateCode,
			Phone:     r.Phone,
			Email:     r.Email,
			PAN:       r.PAN,
		}
	}
	return input
}

// Preview computes the totals of a draft without saving it
// @Summary Preview totals
// @Description Normalize line items and compute taxes, round-off and amount in words
// @Tags documents
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.DraftRequest true "Draft"
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /documents/preview [post]
func (h *DocumentHandler) Preview(c *gin.Context) {
	var req request.DraftRequest
	if !bindJSON(c, &req) {
		return
	}

	input := draftInput(&req)
	preview, err := h.documentService.Preview(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Totals computed", preview)
}

// Create issues a document
// @Summary Create document
// @Description Issue an invoice, debit note or credit note. Numbers are allocated gaplessly per type.
// @Tags documents
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body request.CreateDocumentRequest true "Document"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /documents [post]
func (h *DocumentHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.CreateDocumentRequest
	if !bindJSON(c, &req) {
		return
	}

	doc, err := h.documentService.CreateDocument(c.Request.Context(), userID, documentInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, fmt.Sprintf("%s %s created", doc.Type.Title(), doc.Number), doc)
}

// List returns a paginated list of documents
// @Summary List documents
// @Tags documents
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param type query string false "invoice, debit-note or credit-note"
// @Param client_id query string false "Client ID"
// @Param search query string false "Number or recipient name"
// @Success 200 {object} response.APIResponse
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.DocumentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	filter := repository.DocumentListParams{Search: req.Search}
	if req.Type != "" {
		t, err := enum.ParseDocumentType(req.Type)
		if err != nil {
			response.BadRequest(c, "Invalid document type")
			return
		}
		filter.Type = &t
	}
	if req.ClientID != "" {
		id, err := uuid.Parse(req.ClientID)
		if err != nil {
			response.BadRequest(c, "Invalid client ID")
			return
		}
		filter.ClientID = &id
	}

	result, err := h.documentService.ListDocuments(c.Request.Context(), userID, paginationParams(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Documents retrieved successfully", result)
}

// Search finds documents by exactly one filter
func (h *DocumentHandler) Search(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.DocumentSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid search parameters")
		return
	}

	docs, err := h.documentService.SearchDocuments(c.Request.Context(), userID, &service.DocumentSearchInput{
		ID:                 req.ID,
		InvoiceNumber:      req.InvoiceNumber,
		RecipientName:      req.RecipientName,
		RecipientGSTNumber: req.RecipientGSTNumber,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Documents retrieved successfully", docs)
}

// Get returns a single document
func (h *DocumentHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "document")
	if !ok {
		return
	}

	doc, err := h.documentService.GetDocument(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Document retrieved successfully", doc)
}

// PDF streams the rendered document
// @Summary Download PDF
// @Tags documents
// @Security BearerAuth
// @Produce application/pdf
// @Param id path string true "Document ID"
// @Param download query bool false "Send as attachment"
// @Success 200 {file} file
// @Router /documents/{id}/pdf [get]
func (h *DocumentHandler) PDF(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "document")
	if !ok {
		return
	}

	rendered, err := h.documentService.RenderPDF(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	disposition := "inline"
	if c.Query("download") == "true" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, rendered.Filename))
	c.Data(http.StatusOK, "application/pdf", rendered.Data)
}

// Print sends the document to the thermal printer
func (h *DocumentHandler) Print(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "document")
	if !ok {
		return
	}

	slip, err := h.documentService.PrintDocument(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Document sent to printer"
	if !slip.Printed {
		message = "No printer configured; slip generated only"
	}
	response.OK(c, message, slip)
}

// Email sends the PDF to the recipient
func (h *DocumentHandler) Email(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "document")
	if !ok {
		return
	}

	if err := h.documentService.EmailDocument(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Document emailed successfully", nil)
}
