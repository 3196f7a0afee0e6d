package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"ledger_wallet_session/models"
)

type Error struct {
	Message string `json:"message"`
}

func newErrorResponse(c *gin.Context, statusCode int, message string) {
	logrus.Error(message)
	c.AbortWithStatusJSON(statusCode, Error{Message: message})
}

func wrapOkJSON(c *gin.Context, response map[string]interface{}) {
	c.JSON(http.StatusOK, response)
}

// statusFor maps a session error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrWalletUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, models.ErrUserRejected):
		return http.StatusForbidden
	case errors.Is(err, models.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrInvalidRecipient),
		errors.Is(err, models.ErrUnknownDraftField):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrSubmitInProgress),
		errors.Is(err, models.ErrNotConnected):
		return http.StatusConflict
	case errors.Is(err, models.ErrLedgerConfirmationFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
