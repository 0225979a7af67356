package service

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/sangkips/gst-invoice-api/internal/domain/entity"
	"github.com/sangkips/gst-invoice-api/internal/domain/enum"
	"github.com/sangkips/gst-invoice-api/internal/domain/gst"
	"github.com/sangkips/gst-invoice-api/internal/domain/repository"
	"github.com/sangkips/gst-invoice-api/pkg/apperror"
	"github.com/sangkips/gst-invoice-api/pkg/pagination"
	"github.com/sangkips/gst-invoice-api/pkg/validator"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// HSNService serves the HSN/SAC master
type HSNService struct {
	hsnRepo repository.HSNRepository
	log     *zap.Logger
}

// NewHSNService creates a new HSN service
func NewHSNService(hsnRepo repository.HSNRepository, log *zap.Logger) *HSNService {
	return &HSNService{hsnRepo: hsnRepo, log: log}
}

// candidates returns code followed by its 6 and 4 digit prefixes.
func candidates(code string) []string {
	out := []string{code}
	for _, prefixLen := range []int{6, 4} {
		if len(code) > prefixLen {
			out = append(out, code[:prefixLen])
		}
	}
	return out
}

// Lookup finds an HSN entry by exact code, falling back to its 6 and 4 digit
// headings.
func (s *HSNService) Lookup(ctx context.Context, code string) (*entity.HSNCode, error) {
	code = strings.TrimSpace(code)
	if !validator.IsHSN(code) {
		return nil, apperror.NewBadRequestError("HSN code must be 4, 6 or 8 digits")
	}

	found, err := s.hsnRepo.FindByCodes(ctx, candidates(code))
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]*entity.HSNCode, len(found))
	for i := range found {
		byCode[found[i].Code] = &found[i]
	}
	for _, c := range candidates(code) {
		if hsn, ok := byCode[c]; ok {
			return hsn, nil
		}
	}
	return nil, apperror.NewNotFoundError("HSN code")
}

// List lists HSN entries
func (s *HSNService) List(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.HSNCode], error) {
	codes, total, err := s.hsnRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(codes, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// RateWarning flags a line item whose HSN code is known with a different rate
type RateWarning struct {
	Line         int     `json:"line"`
	HSNCode      string  `json:"hsn_code"`
	AppliedRate  float64 `json:"applied_rate"`
	ExpectedRate float64 `json:"expected_rate"`
}

// CheckRates compares the applied GST rate against the master for each line.
// Unknown codes are skipped.
func (s *HSNService) CheckRates(ctx context.Context, items []gst.LineItem, cfg gst.TaxConfiguration) ([]RateWarning, error) {
	applied := cfg.CGSTRate + cfg.SGSTRate
	if cfg.TaxType == enum.TaxTypeInterstate {
		applied = cfg.IGSTRate
	}

	warnings := []RateWarning{}
	for i, item := range items {
		code := strings.TrimSpace(item.HSNCode)
		if !validator.IsHSN(code) {
			continue
		}
		hsn, err := s.Lookup(ctx, code)
		if err != nil {
			if apperror.GetAppError(err).Code == http.StatusNotFound {
				continue
			}
			return nil, err
		}
		if math.Abs(hsn.GSTRate-applied) >= 0.01 {
			warnings = append(warnings, RateWarning{Line: i + 1, HSNCode: code, AppliedRate: applied, ExpectedRate: hsn.GSTRate})
		}
	}
	return warnings, nil
}

// ImportRowError describes a spreadsheet row that was skipped
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult summarises an HSN spreadsheet import
type ImportResult struct {
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors"`
}

// Import reads an .xlsx workbook whose first sheet has the columns
// code | description | rate, with a header row, and upserts every valid row.
func (s *HSNService) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperror.NewBadRequestError("File is not a valid .xlsx workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperror.NewBadRequestError("Workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	result := &ImportResult{Errors: []ImportRowError{}}
	// last occurrence of a code wins
	index := make(map[string]int)
	var codes []entity.HSNCode
	for i, row := range rows {
		if i == 0 {
			continue
		}
		rowNum := i + 1
		if isBlankRow(row) {
			continue
		}
		hsn, msg := parseHSNRow(row)
		if msg != "" {
			result.Skipped++
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Message: msg})
			continue
		}
		if at, ok := index[hsn.Code]; ok {
			codes[at] = hsn
			continue
		}
		index[hsn.Code] = len(codes)
		codes = append(codes, hsn)
	}

	if err := s.hsnRepo.Upsert(ctx, codes); err != nil {
		return nil, fmt.Errorf("store hsn codes: %w", err)
	}
	result.Imported = len(codes)

	s.log.Info("hsn master imported",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseHSNRow(row []string) (entity.HSNCode, string) {
	code := strings.ReplaceAll(cell(row, 0), " ", "")
	if !validator.IsHSN(code) {
		return entity.HSNCode{}, fmt.Sprintf("invalid HSN code %q", code)
	}
	description := cell(row, 1)
	if description == "" {
		return entity.HSNCode{}, "description is required"
	}
	rateText := strings.TrimSuffix(cell(row, 2), "%")
	rate, err := strconv.ParseFloat(strings.TrimSpace(rateText), 64)
	if err != nil || rate < 0 || rate > 100 {
		return entity.HSNCode{}, fmt.Sprintf("invalid GST rate %q", cell(row, 2))
	}
	return entity.HSNCode{Code: code, Description: description, GSTRate: rate}, ""
}
