package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/catequesis-api/internal/models"
	"github.com/noah-isme/catequesis-api/internal/service"
	appErrors "github.com/noah-isme/catequesis-api/pkg/errors"
	"github.com/noah-isme/catequesis-api/pkg/response"
)

// ReportHandler exposes batch operations and aggregated reports.
type ReportHandler struct {
	batch  *service.BatchService
	export *service.ExportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(batch *service.BatchService, export *service.ExportService) *ReportHandler {
	return &ReportHandler{batch: batch, export: export}
}

// BulkEnroll godoc
// @Summary Enroll a set of catechumens into the same group
// @Tags Batch
// @Accept json
// @Produce json
// @Param payload body service.BulkEnrollRequest true "Bulk enrollment payload"
// @Success 200 {object} response.Envelope
// @Router /batch/enrollments [post]
func (h *ReportHandler) BulkEnroll(c *gin.Context) {
	var req service.BulkEnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.Actor = actorFromContext(c, req.Actor)
	result, err := h.batch.BulkEnroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// BulkDiscount godoc
// @Summary Apply a discount to a set of enrollments
// @Tags Batch
// @Accept json
// @Produce json
// @Param payload body service.BulkDiscountRequest true "Bulk discount payload"
// @Success 200 {object} response.Envelope
// @Router /batch/discounts [post]
func (h *ReportHandler) BulkDiscount(c *gin.Context) {
	var req service.BulkDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.Authorizer = actorFromContext(c, req.Authorizer)
	result, err := h.batch.BulkApplyDiscount(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// BulkGraduate godoc
// @Summary Graduate every eligible enrollment in a group
// @Tags Batch
// @Accept json
// @Produce json
// @Param payload body service.BulkGraduateRequest true "Bulk graduation payload"
// @Success 200 {object} response.Envelope
// @Router /batch/graduations [post]
func (h *ReportHandler) BulkGraduate(c *gin.Context) {
	var req service.BulkGraduateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.Actor = actorFromContext(c, req.Actor)
	result, err := h.batch.BulkGraduate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Financial godoc
// @Summary Financial report over the enrollment settlement state
// @Tags Reports
// @Produce json
// @Param parishId query int false "Scope to a parish"
// @Param from query string false "Enrollment date lower bound (YYYY-MM-DD)"
// @Param to query string false "Enrollment date upper bound (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /reports/financial [get]
func (h *ReportHandler) Financial(c *gin.Context) {
	report, err := h.batch.FinancialReport(c.Request.Context(), financialFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Academic godoc
// @Summary Academic report with attendance and grade distributions
// @Tags Reports
// @Produce json
// @Param groupId query int false "Scope to a group"
// @Param parishId query int false "Scope to a parish"
// @Success 200 {object} response.Envelope
// @Router /reports/academic [get]
func (h *ReportHandler) Academic(c *gin.Context) {
	report, err := h.batch.AcademicReport(c.Request.Context(), academicFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// ExportFinancial godoc
// @Summary Download the financial report as CSV or PDF
// @Tags Reports
// @Produce octet-stream
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Router /reports/financial/export [get]
func (h *ReportHandler) ExportFinancial(c *gin.Context) {
	format, err := service.ParseReportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export format"))
		return
	}
	result, err := h.export.ExportFinancialReport(c.Request.Context(), financialFilter(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+result.Filename)
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}

// ExportAcademic godoc
// @Summary Download the academic report as CSV or PDF
// @Tags Reports
// @Produce octet-stream
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Router /reports/academic/export [get]
func (h *ReportHandler) ExportAcademic(c *gin.Context) {
	format, err := service.ParseReportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export format"))
		return
	}
	result, err := h.export.ExportAcademicReport(c.Request.Context(), academicFilter(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+result.Filename)
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}

func financialFilter(c *gin.Context) models.FinancialReportFilter {
	var filter models.FinancialReportFilter
	if parishID, err := strconv.ParseInt(c.Query("parishId"), 10, 64); err == nil && parishID > 0 {
		filter.ParishID = &parishID
	}
	if from, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		filter.DateFrom = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		filter.DateTo = &to
	}
	return filter
}

func academicFilter(c *gin.Context) models.AcademicReportFilter {
	var filter models.AcademicReportFilter
	if groupID, err := strconv.ParseInt(c.Query("groupId"), 10, 64); err == nil && groupID > 0 {
		filter.GroupID = &groupID
	}
	if parishID, err := strconv.ParseInt(c.Query("parishId"), 10, 64); err == nil && parishID > 0 {
		filter.ParishID = &parishID
	}
	return filter
}
