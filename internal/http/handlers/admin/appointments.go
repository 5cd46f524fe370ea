package admin

import (
	"strconv"

	"github.com/belleza-studio/belleza-api/internal/constants"
	handlershared "github.com/belleza-studio/belleza-api/internal/http/handlers/shared"
	"github.com/belleza-studio/belleza-api/internal/http/response"
	"github.com/belleza-studio/belleza-api/internal/repository"
	"github.com/belleza-studio/belleza-api/internal/service"

	"github.com/gin-gonic/gin"
)

type createAppointmentRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
}

// CreateAppointment books a slot on behalf of a client.
func (h *Handler) CreateAppointment(c *gin.Context) {
	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "appointment input invalid", err)
		return
	}

	appointment, err := h.AppointmentService.Book(service.BookAppointmentInput{
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ServiceID:   req.ServiceID,
		Date:        req.Date,
		Time:        req.Time,
	})
	if err != nil {
		respondWithMappedError(c, err, appointmentErrorRules, response.CodeInternal, "appointment create failed")
		return
	}
	response.Created(c, appointment)
}

// ListAppointments returns the appointment listing.
func (h *Handler) ListAppointments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	appointments, total, err := h.AppointmentService.List(repository.AppointmentListFilter{
		Date:     c.Query("date"),
		Status:   c.Query("status"),
		Phone:    c.Query("phone"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "appointment list failed", err)
		return
	}

	totalPage := (total + int64(pageSize) - 1) / int64(pageSize)
	response.SuccessWithPage(c, appointments, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// GetAppointment returns one appointment.
func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := parseAppointmentID(c)
	if !ok {
		return
	}
	appointment, err := h.AppointmentService.Get(id)
	if err != nil {
		respondWithMappedError(c, err, appointmentErrorRules, response.CodeInternal, "appointment fetch failed")
		return
	}
	response.Success(c, appointment)
}

type updateAppointmentRequest struct {
	ClientName *string `json:"client_name"`
	ServiceID  *uint   `json:"service_id"`
	Date       *string `json:"date"`
	Time       *string `json:"time"`
}

// UpdateAppointment edits or reschedules an appointment.
func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, ok := parseAppointmentID(c)
	if !ok {
		return
	}
	var req updateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "appointment input invalid", err)
		return
	}

	appointment, err := h.AppointmentService.Update(id, service.UpdateAppointmentInput{
		ClientName: req.ClientName,
		ServiceID:  req.ServiceID,
		Date:       req.Date,
		Time:       req.Time,
	})
	if err != nil {
		respondWithMappedError(c, err, appointmentErrorRules, response.CodeInternal, "appointment update failed")
		return
	}
	response.Success(c, appointment)
}

type updateAppointmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// UpdateAppointmentStatus moves an appointment through its lifecycle.
func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	id, ok := parseAppointmentID(c)
	if !ok {
		return
	}
	var req updateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "status required", err)
		return
	}

	appointment, err := h.AppointmentService.UpdateStatus(id, req.Status, req.Reason)
	if err != nil {
		respondWithMappedError(c, err, appointmentErrorRules, response.CodeInternal, "appointment status update failed")
		return
	}
	response.Success(c, appointment)
}

// CancelAppointment cancels an appointment; deleting a booking from the
// dashboard means cancelling it, history stays.
func (h *Handler) CancelAppointment(c *gin.Context) {
	id, ok := parseAppointmentID(c)
	if !ok {
		return
	}
	appointment, err := h.AppointmentService.UpdateStatus(id, constants.AppointmentStatusCancelled, c.Query("reason"))
	if err != nil {
		respondWithMappedError(c, err, appointmentErrorRules, response.CodeInternal, "appointment cancel failed")
		return
	}
	response.Success(c, appointment)
}

func parseAppointmentID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "appointment id invalid", err)
		return 0, false
	}
	return uint(id), true
}
