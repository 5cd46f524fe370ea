package admin

import (
	"strconv"

	handlershared "github.com/belleza-studio/belleza-api/internal/http/handlers/shared"
	"github.com/belleza-studio/belleza-api/internal/http/response"
	"github.com/belleza-studio/belleza-api/internal/repository"
	"github.com/belleza-studio/belleza-api/internal/service"

	"github.com/gin-gonic/gin"
)

type issueCardRequest struct {
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	MaxStamps int    `json:"max_stamps"`
}

// IssueCard creates a loyalty card.
func (h *Handler) IssueCard(c *gin.Context) {
	var req issueCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "name and phone required", err)
		return
	}

	card, err := h.CardService.Issue(service.IssueCardInput{
		Name:      req.Name,
		Phone:     req.Phone,
		MaxStamps: req.MaxStamps,
	})
	if err != nil {
		respondWithMappedError(c, err, cardErrorRules, response.CodeInternal, "card create failed")
		return
	}
	response.Created(c, card)
}

// ListCards returns the card listing.
func (h *Handler) ListCards(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	cards, total, err := h.CardService.List(repository.CardListFilter{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "card list failed", err)
		return
	}

	totalPage := (total + int64(pageSize) - 1) / int64(pageSize)
	response.SuccessWithPage(c, cards, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// GetCard returns one card with its recent ledger.
func (h *Handler) GetCard(c *gin.Context) {
	cardID := c.Param("id")
	card, err := h.CardService.Get(cardID)
	if err != nil {
		respondWithMappedError(c, err, cardErrorRules, response.CodeInternal, "card fetch failed")
		return
	}
	events, err := h.CardService.Events(cardID, 20)
	if err != nil {
		respondWithMappedError(c, err, cardErrorRules, response.CodeInternal, "card fetch failed")
		return
	}
	response.Success(c, gin.H{
		"card":   card,
		"events": events,
	})
}

// StampCard adds one visit stamp to a card.
func (h *Handler) StampCard(c *gin.Context) {
	card, err := h.CardService.Stamp(c.Param("id"))
	if err != nil {
		respondWithMappedError(c, err, cardErrorRules, response.CodeInternal, "card stamp failed")
		return
	}
	response.Success(c, card)
}

// RedeemCard redeems a full card.
func (h *Handler) RedeemCard(c *gin.Context) {
	card, err := h.CardService.Redeem(c.Param("id"))
	if err != nil {
		respondWithMappedError(c, err, cardErrorRules, response.CodeInternal, "card redeem failed")
		return
	}
	response.Success(c, card)
}

// DeleteCard removes a card and everything attached to it.
func (h *Handler) DeleteCard(c *gin.Context) {
	if err := h.CardService.Delete(c.Param("id")); err != nil {
		respondError(c, response.CodeInternal, "card delete failed", err)
		return
	}
	response.SuccessWithMsg(c, "card deleted", nil)
}
