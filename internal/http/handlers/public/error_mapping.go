package public

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

var bookingErrorRules = []mappedHandlerError{
	{target: service.ErrAppointmentInvalid, code: response.CodeBadRequest, msg: "booking input invalid"},
	{target: service.ErrPhoneInvalid, code: response.CodeBadRequest, msg: "phone invalid"},
	{target: service.ErrSlotConflict, code: response.CodeConflict, msg: "slot already taken"},
	{target: service.ErrServiceNotFound, code: response.CodeNotFound, msg: "service not found"},
	{target: service.ErrServiceInvalid, code: response.CodeBadRequest, msg: "service unavailable"},
}

var walletErrorRules = []mappedHandlerError{
	{target: service.ErrWalletAuthInvalid, code: response.CodeUnauthorized, msg: "invalid pass token"},
	{target: service.ErrWalletPlatform, code: response.CodeBadRequest, msg: "registration input invalid"},
	{target: service.ErrCardNotFound, code: response.CodeNotFound, msg: "pass not found"},
}
