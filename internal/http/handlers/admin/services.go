package admin

import (
	"strconv"

	"github.com/belleza-studio/belleza-api/internal/http/response"
	"github.com/belleza-studio/belleza-api/internal/models"
	"github.com/belleza-studio/belleza-api/internal/repository"
	"github.com/belleza-studio/belleza-api/internal/service"

	"github.com/gin-gonic/gin"
)

type serviceRequest struct {
	Name            string       `json:"name"`
	Price           models.Money `json:"price"`
	DurationMinutes int          `json:"duration_minutes"`
	Category        string       `json:"category"`
	Active          *bool        `json:"active"`
}

// CreateService adds a catalog entry.
func (h *Handler) CreateService(c *gin.Context) {
	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "service input invalid", err)
		return
	}

	svc, err := h.CatalogService.Create(service.ServiceInput{
		Name:            req.Name,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		Category:        req.Category,
		Active:          req.Active,
	})
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "service create failed")
		return
	}
	response.Created(c, svc)
}

// ListServices returns the full catalog, inactive entries included.
func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.CatalogService.List(repository.ServiceListFilter{
		Category: c.Query("category"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "service list failed", err)
		return
	}
	response.Success(c, services)
}

// UpdateService edits a catalog entry.
func (h *Handler) UpdateService(c *gin.Context) {
	id, ok := parseServiceID(c)
	if !ok {
		return
	}
	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "service input invalid", err)
		return
	}

	svc, err := h.CatalogService.Update(id, service.ServiceInput{
		Name:            req.Name,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		Category:        req.Category,
		Active:          req.Active,
	})
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "service update failed")
		return
	}
	response.Success(c, svc)
}

// DeleteService removes a catalog entry.
func (h *Handler) DeleteService(c *gin.Context) {
	id, ok := parseServiceID(c)
	if !ok {
		return
	}
	if err := h.CatalogService.Delete(id); err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "service delete failed")
		return
	}
	response.SuccessWithMsg(c, "service deleted", nil)
}

func parseServiceID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "service id invalid", err)
		return 0, false
	}
	return uint(id), true
}
