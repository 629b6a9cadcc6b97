package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"regexp"

	"github.com/epeers/edinetfin/internal/edinet"
	"github.com/epeers/edinetfin/internal/models"
	"github.com/epeers/edinetfin/internal/repository"
	"github.com/epeers/edinetfin/internal/services"
	"github.com/epeers/edinetfin/internal/xbrl"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const maxUploadBytes = 256 << 20

var codePattern = regexp.MustCompile(`^[0-9A-Z]{4}$`)

var zipMagic = []byte("PK\x03\x04")

// FinancialService is what the handlers need from services.FinancialService
type FinancialService interface {
	FetchAndStore(ctx context.Context, code string, years int) (*services.FetchResult, error)
	StoredSummary(ctx context.Context, code string, years int) (*models.Company, *models.FinancialSummary, error)
}

// FinancialHandler handles financial data endpoints
type FinancialHandler struct {
	financialSvc FinancialService
}

// NewFinancialHandler creates a new FinancialHandler
func NewFinancialHandler(financialSvc FinancialService) *FinancialHandler {
	return &FinancialHandler{
		financialSvc: financialSvc,
	}
}

// FetchFinancialData godoc
// @Summary Fetch financial data from EDINET
// @Description Scan EDINET for the company's annual reports, extract one record per fiscal year and store them
// @Tags financial
// @Produce json
// @Param code path string true "Securities code (4 characters)"
// @Param years query int false "Years to cover (1-10, default 5)"
// @Success 200 {object} models.FetchFinancialDataResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /companies/{code}/fetch-financial-data [post]
func (h *FinancialHandler) FetchFinancialData(c *gin.Context) {
	code, req, ok := bindCodeAndYears(c)
	if !ok {
		return
	}

	ctx, wc := services.NewWarningContext(c.Request.Context())
	result, err := h.financialSvc.FetchAndStore(ctx, code, req.Years)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.FetchFinancialDataResponse{
		Code:         result.Company.Code,
		CompanyName:  result.Company.Name,
		YearsCovered: len(result.Summary.Records),
		Stored:       result.Stored,
		Summary:      result.Summary,
		Text:         services.FormatFinancialSummary(result.Summary),
		Warnings:     wc.GetWarnings(),
	})
}

// GetFinancialStatements godoc
// @Summary Get stored financial statements
// @Description Return stored full-year records with CAGR and year-over-year growth
// @Tags financial
// @Produce json
// @Param code path string true "Securities code (4 characters)"
// @Param years query int false "Years to return (1-10, default 5)"
// @Success 200 {object} models.FinancialStatementsResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /companies/{code}/financial-statements [get]
func (h *FinancialHandler) GetFinancialStatements(c *gin.Context) {
	code, req, ok := bindCodeAndYears(c)
	if !ok {
		return
	}

	company, summary, err := h.financialSvc.StoredSummary(c.Request.Context(), code, req.Years)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.FinancialStatementsResponse{
		Code:         company.Code,
		CompanyName:  company.Name,
		YearsCovered: len(summary.Records),
		Count:        len(summary.Records),
		Summary:      summary,
	})
}

// ExtractDocument godoc
// @Summary Extract facts from an XBRL document
// @Description Accepts an XBRL instance or an EDINET XBRL zip, as the raw body or as multipart field "file"
// @Tags documents
// @Accept application/xml
// @Accept application/zip
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} models.ExtractResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /documents/extract [post]
func (h *FinancialHandler) ExtractDocument(c *gin.Context) {
	data, err := readUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	if bytes.HasPrefix(data, zipMagic) {
		docs, err := edinet.ExtractXBRL(data)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Error:   "no_structured_document",
				Message: err.Error(),
			})
			return
		}
		data = docs[0].Data
	}

	facts, err := xbrl.Extract(data)
	if err != nil {
		errCode := "malformed_document"
		if errors.Is(err, xbrl.ErrUnresolvedFiscalPeriod) {
			errCode = "unresolved_fiscal_period"
		}
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   errCode,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.ExtractResponse{Facts: facts})
}

func bindCodeAndYears(c *gin.Context) (string, models.FetchFinancialDataRequest, bool) {
	var req models.FetchFinancialDataRequest
	code := c.Param("code")
	if !codePattern.MatchString(code) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: "code must be a 4-character securities code",
		})
		return "", req, false
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return "", req, false
	}
	if req.Years < 0 || req.Years > 10 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: "years must be between 1 and 10",
		})
		return "", req, false
	}
	return code, req, true
}

func readUpload(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty request body")
	}
	return data, nil
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrCompanyNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "company not found",
		})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "cancelled",
			Message: err.Error(),
		})
	default:
		log.Errorf("request %s failed: %v", c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}
}
