package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ledger_wallet_session/models"
)

type sendResponse struct {
	models.SendResult
	Error string `json:"error,omitempty"`
}

func (h *Handler) GetTransactions(c *gin.Context) {
	transactions, err := h.service.Transaction.RefreshTransfers(c.Request.Context())
	if err != nil {
		newErrorResponse(c, http.StatusBadGateway, err.Error())
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"transactions": transactions,
	})
}

func (h *Handler) GetTransactionCount(c *gin.Context) {
	count, err := h.service.Transaction.TransferCount(c.Request.Context())
	if err != nil {
		newErrorResponse(c, http.StatusBadGateway, err.Error())
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"transactionCount": count,
	})
}

// SendTransaction отправляет текущий черновик перевода
func (h *Handler) SendTransaction(c *gin.Context) {
	result, err := h.service.Transaction.Submit(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("send transaction")
		c.AbortWithStatusJSON(statusFor(err), sendResponse{SendResult: result, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, sendResponse{SendResult: result})
}
