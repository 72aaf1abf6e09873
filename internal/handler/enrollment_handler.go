package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/catequesis-api/internal/models"
	"github.com/noah-isme/catequesis-api/internal/service"
	appErrors "github.com/noah-isme/catequesis-api/pkg/errors"
	"github.com/noah-isme/catequesis-api/pkg/response"
)

// EnrollmentHandler exposes enrollment lifecycle endpoints.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// List godoc
// @Summary List enrollments
// @Tags Enrollments
// @Produce json
// @Param catechumenId query int false "Filter by catechumen"
// @Param groupId query int false "Filter by group"
// @Param parishId query int false "Filter by parish"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	var filter models.EnrollmentFilter
	filter.CatechumenID, _ = strconv.ParseInt(c.Query("catechumenId"), 10, 64)
	filter.GroupID, _ = strconv.ParseInt(c.Query("groupId"), 10, 64)
	filter.ParishID, _ = strconv.ParseInt(c.Query("parishId"), 10, 64)
	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseEnrollmentStatus(raw)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status filter"))
			return
		}
		filter.Status = status
	}
	if from, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		filter.DateFrom = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		filter.DateTo = &to
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	enrollments, pagination, err := h.enrollments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, pagination)
}

// Get godoc
// @Summary Get an enrollment with its change history
// @Tags Enrollments
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id} [get]
func (h *EnrollmentHandler) Get(c *gin.Context) {
	param := c.Param("id")
	if strings.HasPrefix(param, "INS-") {
		enrollment, err := h.enrollments.GetByCode(c.Request.Context(), param)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, enrollment, nil)
		return
	}
	id, err := parseID(param)
	if err != nil {
		response.Error(c, err)
		return
	}
	enrollment, err := h.enrollments.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// Create godoc
// @Summary Enroll a catechumen
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body service.CreateEnrollmentRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req service.CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.Actor = actorFromContext(c, req.Actor)
	enrollment, err := h.enrollments.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// ApplyDiscount godoc
// @Summary Apply a discount to an enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path int true "Enrollment ID"
// @Param payload body service.ApplyDiscountRequest true "Discount payload"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/discount [put]
func (h *EnrollmentHandler) ApplyDiscount(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.Authorizer = actorFromContext(c, req.Authorizer)
	enrollment, err := h.enrollments.ApplyDiscount(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// RegisterPayment godoc
// @Summary Register a payment against an enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path int true "Enrollment ID"
// @Param payload body service.RegisterPaymentRequest true "Payment payload"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/payments [post]
func (h *EnrollmentHandler) RegisterPayment(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.RegisterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.Actor = actorFromContext(c, req.Actor)
	enrollment, err := h.enrollments.RegisterPayment(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// ChangeState godoc
// @Summary Change the enrollment status
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path int true "Enrollment ID"
// @Param payload body service.ChangeStateRequest true "State change payload"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/state [put]
func (h *EnrollmentHandler) ChangeState(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.ChangeStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.Actor = actorFromContext(c, req.Actor)
	enrollment, err := h.enrollments.ChangeState(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// Transfer godoc
// @Summary Transfer an enrollment to another group
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path int true "Enrollment ID"
// @Param payload body service.TransferGroupRequest true "Transfer payload"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/transfer [put]
func (h *EnrollmentHandler) Transfer(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.TransferGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.Actor = actorFromContext(c, req.Actor)
	enrollment, err := h.enrollments.TransferGroup(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// Graduate godoc
// @Summary Graduate an enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path int true "Enrollment ID"
// @Param payload body service.GraduateRequest true "Graduation payload"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/graduate [post]
func (h *EnrollmentHandler) Graduate(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.GraduateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.Actor = actorFromContext(c, req.Actor)
	enrollment, err := h.enrollments.Graduate(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// RefreshAcademic godoc
// @Summary Refresh academic eligibility from attendance and grade records
// @Tags Enrollments
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/academic/refresh [post]
func (h *EnrollmentHandler) RefreshAcademic(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	enrollment, err := h.enrollments.RefreshAcademicRequirements(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// History godoc
// @Summary Get the change history of an enrollment
// @Tags Enrollments
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/history [get]
func (h *EnrollmentHandler) History(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	history, err := h.enrollments.History(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, history, nil)
}

// ListOverdue godoc
// @Summary List enrollments with overdue payments
// @Tags Enrollments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /enrollments/overdue [get]
func (h *EnrollmentHandler) ListOverdue(c *gin.Context) {
	overdue, err := h.enrollments.ListOverdue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overdue, nil)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid enrollment id")
	}
	return id, nil
}
