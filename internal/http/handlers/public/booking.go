package public

import (
	"strconv"

	"github.com/belleza-studio/belleza-api/internal/http/response"
	"github.com/belleza-studio/belleza-api/internal/repository"
	"github.com/belleza-studio/belleza-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ListServices returns the bookable catalog.
func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.CatalogService.List(repository.ServiceListFilter{
		Category:   c.Query("category"),
		ActiveOnly: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "service list failed", err)
		return
	}
	response.Success(c, services)
}

type bookingRequest struct {
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	ServiceID uint   `json:"service_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
}

// CreateBooking books a slot for a client.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "booking input invalid", err)
		return
	}

	appointment, err := h.AppointmentService.Book(service.BookAppointmentInput{
		ClientName:  req.Name,
		ClientPhone: req.Phone,
		ServiceID:   req.ServiceID,
		Date:        req.Date,
		Time:        req.Time,
	})
	if err != nil {
		respondWithMappedError(c, err, bookingErrorRules, response.CodeInternal, "booking failed")
		return
	}

	requestLog(c).Infow("booking_created",
		"appointment_id", appointment.ID,
		"date", appointment.Date,
		"time", appointment.Time,
	)
	response.Created(c, appointment)
}

// GetAvailability lists the free slot starts for a service on a date.
func (h *Handler) GetAvailability(c *gin.Context) {
	date := c.Query("date")
	serviceID, _ := strconv.ParseUint(c.Query("service_id"), 10, 64)
	if date == "" || serviceID == 0 {
		respondError(c, response.CodeBadRequest, "date and service_id required", nil)
		return
	}

	times, err := h.AppointmentService.AvailableTimes(date, uint(serviceID))
	if err != nil {
		respondWithMappedError(c, err, bookingErrorRules, response.CodeInternal, "availability lookup failed")
		return
	}
	response.Success(c, gin.H{
		"date":  date,
		"times": times,
	})
}
