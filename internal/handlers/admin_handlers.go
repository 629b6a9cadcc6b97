package handlers

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/epeers/edinetfin/internal/edinet"
	"github.com/epeers/edinetfin/internal/models"
	"github.com/epeers/edinetfin/internal/services"
	"github.com/gin-gonic/gin"
)

// CompanyAdmin is what the admin handlers need from services.CompanyService
type CompanyAdmin interface {
	RegisterCompany(ctx context.Context, c models.Company) (*models.Company, error)
	ImportCompanies(ctx context.Context, companies []models.Company) (*services.ImportCompaniesResult, error)
	DeleteCompany(ctx context.Context, code string) error
}

// AdminHandler handles admin endpoints
type AdminHandler struct {
	companySvc CompanyAdmin
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(companySvc CompanyAdmin) *AdminHandler {
	return &AdminHandler{
		companySvc: companySvc,
	}
}

// RegisterCompany handles POST /admin/companies
// @Summary Register a company
// @Description Create a company, or update the name and EDINET code of the one with the same securities code
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.RegisterCompanyRequest true "Company"
// @Success 200 {object} models.Company
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /admin/companies [post]
func (h *AdminHandler) RegisterCompany(c *gin.Context) {
	var req models.RegisterCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	code := edinet.NormalizeSecCode(req.Code)
	if !codePattern.MatchString(code) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: "code must be a 4-character securities code",
		})
		return
	}

	company, err := h.companySvc.RegisterCompany(c.Request.Context(), models.Company{
		Code:       code,
		Name:       strings.TrimSpace(req.Name),
		EdinetCode: strings.TrimSpace(req.EdinetCode),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, company)
}

// ImportCompanies handles POST /admin/companies/import
// @Summary Import a company list
// @Description Upsert companies from a CSV with code and name columns and an optional edinet_code column, as the raw body or as multipart field "file"
// @Tags admin
// @Accept text/csv
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} services.ImportCompaniesResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /admin/companies/import [post]
func (h *AdminHandler) ImportCompanies(c *gin.Context) {
	data, err := readUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	companies, err := ParseCompaniesCSV(bytes.NewReader(data))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	result, err := h.companySvc.ImportCompanies(c.Request.Context(), companies)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteCompany handles DELETE /admin/companies/:code
// @Summary Delete a company
// @Description Remove a company together with its stored financial statements
// @Tags admin
// @Param code path string true "Securities code (4 characters)"
// @Success 204
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /admin/companies/{code} [delete]
func (h *AdminHandler) DeleteCompany(c *gin.Context) {
	code := c.Param("code")
	if !codePattern.MatchString(code) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: "code must be a 4-character securities code",
		})
		return
	}

	if err := h.companySvc.DeleteCompany(c.Request.Context(), code); err != nil {
		writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
