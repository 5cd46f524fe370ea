package admin

import (
	"errors"

	handlershared "github.com/belleza-studio/belleza-api/internal/http/handlers/shared"
	"github.com/belleza-studio/belleza-api/internal/http/response"
	"github.com/belleza-studio/belleza-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

// mappedHandlerError binds one business error to its response.
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var cardErrorRules = []mappedHandlerError{
	{target: service.ErrCardPhoneRequired, code: response.CodeBadRequest, msg: "phone required"},
	{target: service.ErrCardNameRequired, code: response.CodeBadRequest, msg: "name required"},
	{target: service.ErrPhoneInvalid, code: response.CodeBadRequest, msg: "phone invalid"},
	{target: service.ErrCardExists, code: response.CodeConflict, msg: "card already exists for phone"},
	{target: service.ErrCardNotFound, code: response.CodeNotFound, msg: "card not found"},
	{target: service.ErrCardAlreadyFull, code: response.CodeConflict, msg: "card already full"},
	{target: service.ErrCardIncomplete, code: response.CodeBadRequest, msg: "not enough stamps"},
	{target: service.ErrStampRateLimited, code: response.CodeTooManyRequests, msg: "stamp already added for this visit"},
}

var appointmentErrorRules = []mappedHandlerError{
	{target: service.ErrAppointmentInvalid, code: response.CodeBadRequest, msg: "appointment input invalid"},
	{target: service.ErrPhoneInvalid, code: response.CodeBadRequest, msg: "phone invalid"},
	{target: service.ErrAppointmentNotFound, code: response.CodeNotFound, msg: "appointment not found"},
	{target: service.ErrAppointmentStatusInvalid, code: response.CodeBadRequest, msg: "appointment status invalid"},
	{target: service.ErrAppointmentTerminal, code: response.CodeConflict, msg: "appointment already finished"},
	{target: service.ErrSlotConflict, code: response.CodeConflict, msg: "slot already taken"},
	{target: service.ErrServiceNotFound, code: response.CodeNotFound, msg: "service not found"},
	{target: service.ErrServiceInvalid, code: response.CodeBadRequest, msg: "service input invalid"},
}

var catalogErrorRules = []mappedHandlerError{
	{target: service.ErrServiceNotFound, code: response.CodeNotFound, msg: "service not found"},
	{target: service.ErrServiceInvalid, code: response.CodeBadRequest, msg: "service input invalid"},
}

var broadcastErrorRules = []mappedHandlerError{
	{target: service.ErrNotificationInvalid, code: response.CodeBadRequest, msg: "title and message required"},
}
