package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/gst-invoice-api/internal/domain/entity"
	"github.com/sangkips/gst-invoice-api/internal/domain/enum"
	"github.com/sangkips/gst-invoice-api/internal/domain/gst"
	"github.com/sangkips/gst-invoice-api/internal/domain/repository"
	"github.com/sangkips/gst-invoice-api/pkg/apperror"
	"github.com/sangkips/gst-invoice-api/pkg/email"
	"github.com/sangkips/gst-invoice-api/pkg/metrics"
	"github.com/sangkips/gst-invoice-api/pkg/pagination"
	"github.com/sangkips/gst-invoice-api/pkg/pdf"
	"github.com/sangkips/gst-invoice-api/pkg/printer"
	"go.uber.org/zap"
)

// DocumentMailer sends a rendered document to its recipient.
type DocumentMailer interface {
	IsConfigured() bool
	SendDocument(mail email.DocumentMail) error
}

// DocumentService handles invoices, debit notes and credit notes
type DocumentService struct {
	docRepo     repository.DocumentRepository
	profileRepo repository.ProfileRepository
	clientRepo  repository.ClientRepository
	hsn         *HSNService
	printer     *PrinterService
	mailer      DocumentMailer
	metrics     *metrics.Metrics
	log         *zap.Logger
	now         func() time.Time
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repository.DocumentRepository,
	profileRepo repository.ProfileRepository,
	clientRepo repository.ClientRepository,
	hsn *HSNService,
	printerService *PrinterService,
	mailer DocumentMailer,
	m *metrics.Metrics,
	log *zap.Logger,
) *DocumentService {
	return &DocumentService{
		docRepo:     docRepo,
		profileRepo: profileRepo,
		clientRepo:  clientRepo,
		hsn:         hsn,
		printer:     printerService,
		mailer:      mailer,
		metrics:     m,
		log:         log,
		now:         time.Now,
	}
}

// DraftInput holds the inputs of the totals calculator
type DraftInput struct {
	TaxType  *enum.TaxType
	CGSTRate float64
	SGSTRate float64
	IGSTRate float64
	Items    []gst.LineItem
	Charges  []gst.AdditionalCharge
}

// DocumentInput represents the fields of a new document
type DocumentInput struct {
	DraftInput

	Type enum.DocumentType
	// Number is set only for legacy documents that already carry a number.
	Number   string
	Date     *time.Time
	ClientID *uuid.UUID
	// Recipient is used when no client is referenced.
	Recipient *entity.Party

	PlaceOfSupply string
	ReverseCharge bool
	Transport     entity.Transport
	IRN           *string
	AckNo         *string
	AckDate       *time.Time
	Notes         *string

	ReferenceDocumentID *uuid.UUID
}

// DocumentPreview is the computed view of a draft
type DocumentPreview struct {
	Items    []gst.LineItem     `json:"items"`
	Totals   gst.DocumentTotals `json:"totals"`
	RoundOff float64            `json:"round_off"`
	Warnings []RateWarning      `json:"warnings"`
}

// Preview computes totals for a draft without storing anything. When the
// recipient is unknown and no tax type is given, intrastate is assumed.
func (s *DocumentService) Preview(ctx context.Context, input *DraftInput) (*DocumentPreview, error) {
	if errs := validateDraft(input); len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	cfg := draftConfig(input, enum.TaxTypeIntrastate)
	items := gst.Normalize(input.Items)
	totals := gst.ComputeTotals(items, input.Charges, cfg)
	if err := checkTotalRange(totals); err != nil {
		return nil, err
	}

	warnings, err := s.hsn.CheckRates(ctx, items, cfg)
	if err != nil {
		return nil, err
	}
	if warnings == nil {
		warnings = []RateWarning{}
	}
	return &DocumentPreview{
		Items:    items,
		Totals:   totals,
		RoundOff: totals.RoundOff(),
		Warnings: warnings,
	}, nil
}

// CreateDocument issues a new document. Unless a manual number is given, the
// next number for the document type is allocated together with the insert.
func (s *DocumentService) CreateDocument(ctx context.Context, userID uuid.UUID, input *DocumentInput) (*entity.Document, error) {
	if errs := validateDraft(&input.DraftInput); len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.IsOnboarded() {
		return nil, apperror.ErrNotOnboarded
	}

	recipient, err := s.resolveRecipient(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	doc := &entity.Document{
		UserID:        userID,
		ClientID:      input.ClientID,
		Type:          input.Type,
		Number:        strings.TrimSpace(input.Number),
		ManualNumber:  strings.TrimSpace(input.Number) != "",
		Date:          s.now(),
		Issuer:        issuerParty(profile),
		Recipient:     recipient,
		Bank:          bankDetails(profile),
		PlaceOfSupply: strings.TrimSpace(input.PlaceOfSupply),
		ReverseCharge: input.ReverseCharge,
		Transport:     input.Transport,
		IRN:           input.IRN,
		AckNo:         input.AckNo,
		AckDate:       input.AckDate,
		Notes:         input.Notes,
	}
	if input.Date != nil {
		doc.Date = *input.Date
	}
	if doc.PlaceOfSupply == "" && recipient.StateCode != "" {
		if name, ok := gst.StateName(recipient.StateCode); ok {
			doc.PlaceOfSupply = fmt.Sprintf("%s (%s)", name, recipient.StateCode)
		}
	}

	if err := s.resolveReference(ctx, userID, doc, input.ReferenceDocumentID); err != nil {
		return nil, err
	}

	cfg := draftConfig(&input.DraftInput, suggestTaxType(doc.Issuer, doc.Recipient))
	items := gst.Normalize(input.Items)

	doc.TaxType = cfg.TaxType
	doc.CGSTRate, doc.SGSTRate, doc.IGSTRate = cfg.CGSTRate, cfg.SGSTRate, cfg.IGSTRate
	if err := doc.SetLines(items, input.Charges); err != nil {
		return nil, err
	}
	totals := gst.ComputeTotals(items, input.Charges, cfg)
	if err := checkTotalRange(totals); err != nil {
		return nil, err
	}
	doc.ApplyTotals(totals)

	if err := s.docRepo.CreateNumbered(ctx, doc); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateNumber):
			return nil, apperror.NewConflictError("A document with this number already exists")
		case errors.Is(err, repository.ErrProfileMissing):
			return nil, apperror.ErrNotOnboarded
		}
		return nil, err
	}

	s.metrics.DocumentIssued(doc.Type.String(), doc.TaxType.String())
	s.log.Info("document issued",
		zap.String("user_id", userID.String()),
		zap.String("document_id", doc.ID.String()),
		zap.String("type", doc.Type.String()),
		zap.String("number", doc.Number),
		zap.Int64("total", doc.Total),
	)
	return doc, nil
}

// GetDocument retrieves a document by ID
func (s *DocumentService) GetDocument(ctx context.Context, userID, id uuid.UUID) (*entity.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NewNotFoundError("Document")
	}
	return doc, nil
}

// ListDocuments lists the user's documents, newest first
func (s *DocumentService) ListDocuments(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, filter repository.DocumentListParams) (*pagination.PaginatedResult[entity.Document], error) {
	docs, total, err := s.docRepo.List(ctx, userID, params, filter)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(docs, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// DocumentSearchInput holds the raw search filters; exactly one must be set.
type DocumentSearchInput struct {
	ID                 string
	InvoiceNumber      string
	RecipientName      string
	RecipientGSTNumber string
}

// SearchDocuments finds documents by exactly one filter
func (s *DocumentService) SearchDocuments(ctx context.Context, userID uuid.UUID, input *DocumentSearchInput) ([]entity.Document, error) {
	if err := exactlyOne(input.ID, input.InvoiceNumber, input.RecipientName, input.RecipientGSTNumber); err != nil {
		return nil, err
	}

	filter := repository.DocumentFilter{
		Number:             strings.TrimSpace(input.InvoiceNumber),
		RecipientName:      strings.TrimSpace(input.RecipientName),
		RecipientGSTNumber: strings.ToUpper(strings.TrimSpace(input.RecipientGSTNumber)),
	}
	if input.ID != "" {
		id, err := uuid.Parse(strings.TrimSpace(input.ID))
		if err != nil {
			return nil, apperror.NewBadRequestError("Invalid document ID")
		}
		filter.ID = &id
	}

	docs, err := s.docRepo.Search(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []entity.Document{}
	}
	return docs, nil
}

// RenderedPDF is a document rendered as a PDF file
type RenderedPDF struct {
	Filename string
	Data     []byte
}

// RenderPDF renders a stored document as a GST tax invoice PDF
func (s *DocumentService) RenderPDF(ctx context.Context, userID, id uuid.UUID) (*RenderedPDF, error) {
	doc, err := s.GetDocument(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	out, err := s.renderPDF(doc)
	if err != nil {
		return nil, err
	}
	return &RenderedPDF{Filename: pdfFilename(doc), Data: out}, nil
}

func (s *DocumentService) renderPDF(doc *entity.Document) ([]byte, error) {
	data, err := invoiceData(doc)
	if err == nil {
		var out []byte
		out, err = pdf.RenderInvoice(data)
		s.metrics.DocumentRendered("pdf", err)
		if err == nil {
			return out, nil
		}
	}
	s.log.Error("failed to render pdf", zap.String("document_id", doc.ID.String()), zap.Error(err))
	return nil, fmt.Errorf("render document %s: %w", doc.Number, err)
}

// PrintDocument sends a document to the thermal printer. Without a configured
// printer the printable slip is still returned, marked as not printed.
func (s *DocumentService) PrintDocument(ctx context.Context, userID, id uuid.UUID) (*entity.PrintSlip, error) {
	doc, err := s.GetDocument(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	slip, err := s.printer.PrintDocument(ctx, doc)
	s.metrics.DocumentRendered("escpos", err)
	switch {
	case err == nil, errors.Is(err, printer.ErrNotConfigured):
		return slip, nil
	case slip == nil:
		return nil, err
	default:
		return nil, apperror.NewUnavailableError("Printer is not reachable")
	}
}

// EmailDocument mails the document PDF to the recipient's email address
func (s *DocumentService) EmailDocument(ctx context.Context, userID, id uuid.UUID) error {
	doc, err := s.GetDocument(ctx, userID, id)
	if err != nil {
		return err
	}
	if doc.Recipient.Email == "" {
		return apperror.NewBadRequestError("Recipient has no email address")
	}
	if !s.mailer.IsConfigured() {
		return apperror.NewUnavailableError("Email delivery is not configured")
	}

	out, err := s.renderPDF(doc)
	if err != nil {
		return err
	}

	err = s.mailer.SendDocument(email.DocumentMail{
		To:            doc.Recipient.Email,
		RecipientName: doc.Recipient.Name,
		IssuerName:    doc.Issuer.Name,
		DocumentTitle: doc.Type.Title(),
		Number:        doc.Number,
		Date:          doc.Date.Format(dateLayout),
		Total:         gst.FormatAmount(float64(doc.Total)),
		TotalInWords:  doc.TotalInWords,
		PDF: email.Attachment{
			Filename:    pdfFilename(doc),
			ContentType: "application/pdf",
			Data:        out,
		},
	})
	s.metrics.DocumentRendered("email", err)
	if err != nil {
		s.log.Error("failed to email document",
			zap.String("document_id", doc.ID.String()),
			zap.Error(err),
		)
		return apperror.NewUnavailableError("Failed to send email")
	}

	s.log.Info("document emailed",
		zap.String("document_id", doc.ID.String()),
		zap.String("number", doc.Number),
	)
	return nil
}

func (s *DocumentService) resolveRecipient(ctx context.Context, userID uuid.UUID, input *DocumentInput) (entity.Party, error) {
	if input.ClientID == nil {
		if input.Recipient == nil || strings.TrimSpace(input.Recipient.Name) == "" {
			return entity.Party{}, apperror.NewValidationError([]apperror.FieldError{
				{Field: "recipient", Message: "Either client_id or recipient name is required"},
			})
		}
		party := *input.Recipient
		party.Name = strings.TrimSpace(party.Name)
		party.GSTIN = strings.ToUpper(strings.TrimSpace(party.GSTIN))
		if party.StateCode == "" {
			party.StateCode = gst.StateCodeFromGSTIN(party.GSTIN)
		}
		if party.State == "" {
			party.State, _ = gst.StateName(party.StateCode)
		}
		return party, nil
	}

	client, err := s.clientRepo.GetByID(ctx, userID, *input.ClientID)
	if err != nil {
		return entity.Party{}, err
	}
	if client == nil {
		return entity.Party{}, apperror.NewNotFoundError("Client")
	}
	return clientParty(client), nil
}

// resolveReference links a debit or credit note to the invoice it adjusts.
func (s *DocumentService) resolveReference(ctx context.Context, userID uuid.UUID, doc *entity.Document, refID *uuid.UUID) error {
	if refID == nil {
		return nil
	}
	if !doc.Type.IsNote() {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "reference_document_id", Message: "Only debit and credit notes can reference an invoice"},
		})
	}
	ref, err := s.docRepo.GetByID(ctx, userID, *refID)
	if err != nil {
		return err
	}
	if ref == nil || ref.Type != enum.DocumentTypeInvoice {
		return apperror.NewNotFoundError("Referenced invoice")
	}
	doc.ReferenceDocumentID = &ref.ID
	doc.ReferenceNumber = &ref.Number
	return nil
}

// Limits on user supplied figures. maxDocumentTotal keeps the rounded total
// well inside int64 and exactly representable as float64.
const (
	maxQuantity      = 1e7
	maxRate          = 1e10
	maxDocumentTotal = 1e15
)

func checkTotalRange(t gst.DocumentTotals) error {
	if math.IsNaN(t.TotalBeforeRounding) || math.Abs(t.TotalBeforeRounding) > maxDocumentTotal {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "total", Message: "Exceeds the largest supported document total"},
		})
	}
	return nil
}

func validateDraft(in *DraftInput) []apperror.FieldError {
	var errs []apperror.FieldError
	if len(in.Items) == 0 {
		errs = append(errs, apperror.FieldError{Field: "items", Message: "At least one line item is required"})
	}
	for i, item := range in.Items {
		switch {
		case item.Quantity < 0:
			errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "Must not be negative"})
		case item.Quantity > maxQuantity || math.IsNaN(item.Quantity):
			errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "Is too large"})
		}
		switch {
		case item.Rate < 0:
			errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("items[%d].rate", i), Message: "Must not be negative"})
		case item.Rate > maxRate || math.IsNaN(item.Rate):
			errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("items[%d].rate", i), Message: "Is too large"})
		}
	}
	for _, r := range []struct {
		field string
		rate  float64
	}{{"cgst_rate", in.CGSTRate}, {"sgst_rate", in.SGSTRate}, {"igst_rate", in.IGSTRate}} {
		if r.rate < 0 || r.rate > 100 {
			errs = append(errs, apperror.FieldError{Field: r.field, Message: "Must be between 0 and 100"})
		}
	}
	return errs
}

func draftConfig(in *DraftInput, fallback enum.TaxType) gst.TaxConfiguration {
	cfg := gst.TaxConfiguration{
		TaxType:  fallback,
		CGSTRate: in.CGSTRate,
		SGSTRate: in.SGSTRate,
		IGSTRate: in.IGSTRate,
	}
	if in.TaxType != nil {
		cfg.TaxType = *in.TaxType
	}
	return cfg.ForTaxType()
}

// suggestTaxType compares GSTIN states, falling back to the recipient's state
// code for unregistered recipients.
func suggestTaxType(issuer, recipient entity.Party) enum.TaxType {
	if recipient.GSTIN == "" && recipient.StateCode != "" && issuer.StateCode != "" {
		if recipient.StateCode == issuer.StateCode {
			return enum.TaxTypeIntrastate
		}
		return enum.TaxTypeInterstate
	}
	return gst.SuggestTaxType(issuer.GSTIN, recipient.GSTIN)
}

func issuerParty(p *entity.BusinessProfile) entity.Party {
	return entity.Party{
		Name:      p.CompanyName,
		Address:   p.Address,
		GSTIN:     p.GSTNumber,
		State:     p.State,
		StateCode: p.StateCode,
		Phone:     p.Phone,
		Email:     p.Email,
		PAN:       p.PAN,
	}
}

func bankDetails(p *entity.BusinessProfile) entity.BankDetails {
	return entity.BankDetails{
		Name:          p.BankName,
		Branch:        p.BankBranch,
		IFSC:          p.BankIFSC,
		AccountNumber: p.BankAccountNumber,
	}
}

func clientParty(c *entity.Client) entity.Party {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	var parts []string
	for _, part := range []string{deref(c.Address), deref(c.City), deref(c.Pincode)} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return entity.Party{
		Name:      c.CompanyName,
		Address:   strings.Join(parts, ", "),
		GSTIN:     deref(c.GSTNumber),
		State:     deref(c.State),
		StateCode: deref(c.StateCode),
		Phone:     deref(c.Phone),
		Email:     deref(c.Email),
		PAN:       deref(c.PAN),
	}
}

func pdfFilename(doc *entity.Document) string {
	return strings.ReplaceAll(doc.Number, "/", "-") + ".pdf"
}
