package public

import (
	"errors"
	"io"
	"net/http"

	"github.com/belleza-studio/belleza-api/internal/service"
	"github.com/belleza-studio/belleza-api/internal/whatsapp"

	"github.com/gin-gonic/gin"
)

// Inbound webhooks always acknowledge with success: a non-2xx answer only
// makes the provider retry a message we already decided to ignore.

// WhatsAppWebhook receives Twilio-style form posts.
func (h *Handler) WhatsAppWebhook(c *gin.Context) {
	message := whatsapp.ParseTwilioForm(c.PostForm("From"), c.PostForm("Body"))
	h.handleInbound(c, message)
}

// EvolutionWebhook receives Evolution-API style JSON events.
func (h *Handler) EvolutionWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.Status(http.StatusOK)
		return
	}
	message, ok := whatsapp.ParseEvolutionBody(body)
	if !ok {
		c.Status(http.StatusOK)
		return
	}
	h.handleInbound(c, message)
}

func (h *Handler) handleInbound(c *gin.Context, message whatsapp.InboundMessage) {
	if message.From == "" || message.Text == "" {
		c.Status(http.StatusOK)
		return
	}

	result, err := h.InboundService.Handle(c.Request.Context(), message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInboundIgnored):
			// Not a keyword we act on.
		case errors.Is(err, service.ErrNoMatchingAppointment):
			requestLog(c).Infow("inbound_no_matching_appointment", "from", message.From)
		default:
			requestLog(c).Warnw("inbound_handling_failed", "from", message.From, "error", err)
		}
		c.Status(http.StatusOK)
		return
	}

	requestLog(c).Infow("inbound_handled",
		"from", message.From,
		"action", result.Action,
		"appointment_id", result.Appointment.ID,
	)
	c.Status(http.StatusOK)
}
