package public

import (
	"github.com/belleza-studio/belleza-api/internal/http/response"
	"github.com/belleza-studio/belleza-api/internal/service"

	"github.com/gin-gonic/gin"
)

var cardErrorRules = []mappedHandlerError{
	{target: service.ErrCardNameRequired, code: response.CodeBadRequest, msg: "name required"},
	{target: service.ErrCardPhoneRequired, code: response.CodeBadRequest, msg: "phone required"},
	{target: service.ErrPhoneInvalid, code: response.CodeBadRequest, msg: "phone invalid"},
	{target: service.ErrCardExists, code: response.CodeConflict, msg: "card already exists for phone"},
	{target: service.ErrCardNotFound, code: response.CodeNotFound, msg: "card not found"},
}

type selfRegisterRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

// RegisterCard lets a client sign up for a loyalty card.
func (h *Handler) RegisterCard(c *gin.Context) {
	var req selfRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "name and phone required", err)
		return
	}

	card, err := h.CardService.Issue(service.IssueCardInput{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		respondWithMappedError(c, err, cardErrorRules, response.CodeInternal, "card create failed")
		return
	}
	response.Created(c, card)
}

// GetCard shows a client their own card. The id is an opaque uuid handed
// out at registration, which is the only thing that links to the card.
func (h *Handler) GetCard(c *gin.Context) {
	card, err := h.CardService.Get(c.Param("id"))
	if err != nil {
		respondWithMappedError(c, err, cardErrorRules, response.CodeInternal, "card fetch failed")
		return
	}
	response.Success(c, card)
}
